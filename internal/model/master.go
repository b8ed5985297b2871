package model

// Country is a row of the countries table.
type Country struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Note string `json:"note"`
}

// State is a row of the states table.
type State struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Note      string `json:"note"`
	CountryID ID     `json:"country_id"`
}

// City is a row of the cities table.
type City struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Note    string `json:"note"`
	StateID ID     `json:"state_id"`
}

// Setting is one key/value pair of the settings table.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CountryFields builds insert/update payloads for countries.
type CountryFields struct {
	Name string `form:"name" validate:"required" label:"Country name"`
	Note string `form:"note"`
}

func (CountryFields) Table() Table { return TableCountries }

func (f CountryFields) Fields() Fields {
	return Fields{"name": f.Name, "note": f.Note}
}

// StateFields builds insert/update payloads for states.
type StateFields struct {
	Name      string `form:"name" validate:"required" label:"State name"`
	Note      string `form:"note"`
	CountryID ID     `form:"country_id" validate:"required" label:"Country"`
}

func (StateFields) Table() Table { return TableStates }

func (f StateFields) Fields() Fields {
	return Fields{"name": f.Name, "note": f.Note, "country_id": int64(f.CountryID)}
}

// CityFields builds insert/update payloads for cities.
type CityFields struct {
	Name    string `form:"name" validate:"required" label:"City name"`
	Note    string `form:"note"`
	StateID ID     `form:"state_id" validate:"required" label:"State"`
}

func (CityFields) Table() Table { return TableCities }

func (f CityFields) Fields() Fields {
	return Fields{"name": f.Name, "note": f.Note, "state_id": int64(f.StateID)}
}

// SettingFields builds the payload that stores one setting.
type SettingFields Setting

func (SettingFields) Table() Table { return TableSettings }

func (f SettingFields) Fields() Fields {
	return Fields{"key": f.Key, "value": f.Value}
}

// CountryOptions converts countries into dropdown options.
func CountryOptions(rows []Country) []Option {
	opts := make([]Option, len(rows))
	for i, r := range rows {
		opts[i] = Option{ID: r.ID, Name: r.Name}
	}
	return opts
}

// StateOptions converts states into dropdown options.
func StateOptions(rows []State) []Option {
	opts := make([]Option, len(rows))
	for i, r := range rows {
		opts[i] = Option{ID: r.ID, Name: r.Name}
	}
	return opts
}

// CityOptions converts cities into dropdown options.
func CityOptions(rows []City) []Option {
	opts := make([]Option, len(rows))
	for i, r := range rows {
		opts[i] = Option{ID: r.ID, Name: r.Name}
	}
	return opts
}
