package model

import (
	"errors"
	"fmt"
)

// ErrUnknownTable is returned when a table name is not one of the known master tables.
var ErrUnknownTable = errors.New("unknown master table")

// Table names a master-data table served by the generic /api/master endpoints.
type Table string

const (
	TableCountries Table = "countries"
	TableStates    Table = "states"
	TableCities    Table = "cities"
	TableRoles     Table = "roles"
	TableSettings  Table = "settings"
)

// Tables lists every known master table.
var Tables = []Table{TableCountries, TableStates, TableCities, TableRoles, TableSettings}

// ParseTable converts a raw table name into a Table.
func ParseTable(name string) (Table, error) {
	t := Table(name)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// Valid reports whether t is a known master table.
func (t Table) Valid() bool {
	for _, known := range Tables {
		if t == known {
			return true
		}
	}
	return false
}

func (t Table) String() string {
	return string(t)
}

// Fields is the opaque field bag sent along with a table name.
// Filters share the same shape.
type Fields map[string]any

// Writable is a typed request builder for one master table.
type Writable interface {
	Table() Table
	Fields() Fields
}
