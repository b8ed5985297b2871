package service

import (
	"context"

	"go.uber.org/zap"

	"go-employee-console/internal/model"
)

func idValue(id model.ID) string { return id.String() }

var countryForm = MasterFormSpec[model.CountryFields]{
	Resource: CountryResource,
	Load: func(ctx context.Context, md MasterData, id model.ID) (model.CountryFields, error) {
		c, err := showAs[model.Country](ctx, md, model.TableCountries, id)
		return model.CountryFields{Name: c.Name, Note: c.Note}, err
	},
	Fields: func(in model.CountryFields, _ *Lookups) []FormField {
		return []FormField{
			{Name: "name", Label: "Country name", Kind: KindText, Value: in.Name, Required: true},
			{Name: "note", Label: "Note", Kind: KindTextarea, Value: in.Note},
		}
	},
}

var stateForm = MasterFormSpec[model.StateFields]{
	Resource: StateResource,
	Lookups:  All(model.TableCountries),
	Load: func(ctx context.Context, md MasterData, id model.ID) (model.StateFields, error) {
		s, err := showAs[model.State](ctx, md, model.TableStates, id)
		return model.StateFields{Name: s.Name, Note: s.Note, CountryID: s.CountryID}, err
	},
	Fields: func(in model.StateFields, l *Lookups) []FormField {
		return []FormField{
			{Name: "name", Label: "State name", Kind: KindText, Value: in.Name, Required: true},
			{Name: "country_id", Label: "Country", Kind: KindSelect, Value: idValue(in.CountryID), Required: true,
				Options: model.CountryOptions(l.Countries)},
			{Name: "note", Label: "Note", Kind: KindTextarea, Value: in.Note},
		}
	},
}

var cityForm = MasterFormSpec[model.CityFields]{
	Resource: CityResource,
	Lookups:  All(model.TableStates),
	Load: func(ctx context.Context, md MasterData, id model.ID) (model.CityFields, error) {
		c, err := showAs[model.City](ctx, md, model.TableCities, id)
		return model.CityFields{Name: c.Name, Note: c.Note, StateID: c.StateID}, err
	},
	Fields: func(in model.CityFields, l *Lookups) []FormField {
		return []FormField{
			{Name: "name", Label: "City name", Kind: KindText, Value: in.Name, Required: true},
			{Name: "state_id", Label: "State", Kind: KindSelect, Value: idValue(in.StateID), Required: true,
				Options: model.StateOptions(l.States)},
			{Name: "note", Label: "Note", Kind: KindTextarea, Value: in.Note},
		}
	},
}

// Forms bundles the master-table forms over one client.
type Forms struct {
	Countries *MasterForm[model.CountryFields]
	States    *MasterForm[model.StateFields]
	Cities    *MasterForm[model.CityFields]
}

func NewForms(md MasterData, log *zap.Logger) *Forms {
	return &Forms{
		Countries: NewMasterForm(countryForm, md, log),
		States:    NewMasterForm(stateForm, md, log),
		Cities:    NewMasterForm(cityForm, md, log),
	}
}
