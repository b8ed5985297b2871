// Package sandbox is a local implementation of the employee backend API,
// backed by gorm. It lets the console run without the hosted backend.
package sandbox

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Base carries the numeric id and audit timestamps of every table.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // Soft Delete support
}

type Country struct {
	Base
	Name string `gorm:"type:varchar(120);not null" json:"name" validate:"required" label:"Country name"`
	Note string `gorm:"type:text" json:"note"`
}

type State struct {
	Base
	Name      string   `gorm:"type:varchar(120);not null" json:"name" validate:"required" label:"State name"`
	Note      string   `gorm:"type:text" json:"note"`
	CountryID uint     `gorm:"index;not null" json:"country_id" validate:"required" label:"Country"`
	Country   *Country `gorm:"foreignKey:CountryID" json:"country,omitempty" validate:"-"`
}

type City struct {
	Base
	Name    string `gorm:"type:varchar(120);not null" json:"name" validate:"required" label:"City name"`
	Note    string `gorm:"type:text" json:"note"`
	StateID uint   `gorm:"index;not null" json:"state_id" validate:"required" label:"State"`
	State   *State `gorm:"foreignKey:StateID" json:"state,omitempty" validate:"-"`
}

type Role struct {
	Base
	Name string `gorm:"type:varchar(80);uniqueIndex;not null" json:"name" validate:"required" label:"Role name"`
}

// Setting is one key of the settings bag. Writing an existing key replaces
// its value.
type Setting struct {
	Base
	Key   string `gorm:"type:varchar(120);uniqueIndex;not null" json:"key" validate:"required" label:"Key"`
	Value string `gorm:"type:text" json:"value"`
}

// Account is an employee who can log in.
type Account struct {
	Base
	FName        string   `gorm:"column:f_name;type:varchar(120);not null" json:"f_name"`
	LName        string   `gorm:"column:l_name;type:varchar(120)" json:"l_name"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Mobile       string   `gorm:"type:varchar(32)" json:"mobile"`
	Note         string   `gorm:"type:text" json:"note"`
	Password     string   `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	TokenVersion string   `gorm:"type:varchar(64);default:''" json:"-"`
	RoleID       *uint    `gorm:"index" json:"role_id"`
	CountryID    *uint    `gorm:"index" json:"country_id"`
	StateID      *uint    `gorm:"index" json:"state_id"`
	CityID       *uint    `gorm:"index" json:"city_id"`
	Role         *Role    `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Country      *Country `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	State        *State   `gorm:"foreignKey:StateID" json:"state,omitempty"`
	City         *City    `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

// SetPassword hashes and sets the account's password
func (a *Account) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hashed)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (a *Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil
}

// FullName joins first and last name.
func (a *Account) FullName() string {
	if a.LName == "" {
		return a.FName
	}
	return a.FName + " " + a.LName
}

// Models lists every table for migration.
func Models() []any {
	return []any{&Country{}, &State{}, &City{}, &Role{}, &Setting{}, &Account{}}
}
