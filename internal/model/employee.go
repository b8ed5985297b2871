package model

import "strings"

const notAvailable = "N/A"

// Named is the nested {name} object the users endpoints embed for relations.
type Named struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Employee is a user record as returned by /api/users.
type Employee struct {
	ID        ID     `json:"id"`
	FName     string `json:"f_name"`
	LName     string `json:"l_name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Note      string `json:"note"`
	RoleID    ID     `json:"role_id"`
	CountryID ID     `json:"country_id"`
	StateID   ID     `json:"state_id"`
	CityID    ID     `json:"city_id"`
	Role      *Named `json:"role,omitempty"`
	Country   *Named `json:"country,omitempty"`
	State     *Named `json:"state,omitempty"`
	City      *Named `json:"city,omitempty"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FName + " " + e.LName)
}

// FlatEmployee is an employee with its relations reduced to display names.
type FlatEmployee struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Role    string `json:"role"`
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}

// Flatten resolves nested relation names, using "N/A" for missing ones.
func (e Employee) Flatten() FlatEmployee {
	return FlatEmployee{
		ID:      e.ID,
		Name:    e.FName + " " + e.LName,
		Email:   e.Email,
		Mobile:  e.Mobile,
		Role:    nameOrNA(e.Role),
		Country: nameOrNA(e.Country),
		State:   nameOrNA(e.State),
		City:    nameOrNA(e.City),
	}
}

func nameOrNA(n *Named) string {
	if n == nil || n.Name == "" {
		return notAvailable
	}
	return n.Name
}

// RegisterRequest is the body of POST /api/register. It backs both the
// employee create form and the public signup page.
type RegisterRequest struct {
	FName                string `json:"f_name" form:"f_name" validate:"required" label:"First name"`
	LName                string `json:"l_name" form:"l_name" validate:"required" label:"Last name"`
	Email                string `json:"email" form:"email" validate:"required,email" label:"Email"`
	Mobile               string `json:"mobile" form:"mobile" validate:"required" label:"Mobile"`
	RoleID               ID     `json:"role_id,omitempty" form:"role_id" validate:"required" label:"Role"`
	CountryID            ID     `json:"country_id,omitempty" form:"country_id"`
	StateID              ID     `json:"state_id,omitempty" form:"state_id"`
	CityID               ID     `json:"city_id,omitempty" form:"city_id"`
	Note                 string `json:"note" form:"note"`
	Password             string `json:"password" form:"password" validate:"required,notblank" label:"Password" trim:"-"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required,notblank,eqfield=Password" label:"Password confirmation" trim:"-"`
}

// SignupOptional lists the RegisterRequest fields the public signup page does not require.
var SignupOptional = []string{"Mobile", "RoleID"}

// EmployeeUpdate is the body of PUT /api/users/:id.
type EmployeeUpdate struct {
	FName     string `json:"f_name" form:"f_name" validate:"required" label:"First name"`
	LName     string `json:"l_name" form:"l_name" validate:"required" label:"Last name"`
	Email     string `json:"email" form:"email" validate:"required,email" label:"Email"`
	Mobile    string `json:"mobile" form:"mobile"`
	RoleID    ID     `json:"role_id,omitempty" form:"role_id"`
	CountryID ID     `json:"country_id,omitempty" form:"country_id"`
	StateID   ID     `json:"state_id,omitempty" form:"state_id"`
	CityID    ID     `json:"city_id,omitempty" form:"city_id"`
	Note      string `json:"note" form:"note"`
}

// UpdateForm prefills an update from an existing employee.
func (e Employee) UpdateForm() EmployeeUpdate {
	return EmployeeUpdate{
		FName:     e.FName,
		LName:     e.LName,
		Email:     e.Email,
		Mobile:    e.Mobile,
		RoleID:    e.RoleID,
		CountryID: e.CountryID,
		StateID:   e.StateID,
		CityID:    e.CityID,
		Note:      e.Note,
	}
}
