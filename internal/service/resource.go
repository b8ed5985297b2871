package service

import "strings"

// Resource describes one console section.
type Resource struct {
	Key    string // url segment and in-flight key, e.g. "city"
	Name   string // "City"
	Plural string // "Cities"
}

func (r Resource) Path() string       { return "/dashboard/" + r.Key }
func (r Resource) NewPath() string    { return r.Path() + "/new" }
func (r Resource) EditPath() string   { return r.Path() + "/edit" }
func (r Resource) DeletePath() string { return r.Path() + "/delete" }

func (r Resource) lower() string { return strings.ToLower(r.Name) }

var (
	CountryResource  = Resource{Key: "country", Name: "Country", Plural: "Countries"}
	StateResource    = Resource{Key: "state", Name: "State", Plural: "States"}
	CityResource     = Resource{Key: "city", Name: "City", Plural: "Cities"}
	EmployeeResource = Resource{Key: "employee", Name: "Employee", Plural: "Employees"}
)
