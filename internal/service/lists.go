package service

import (
	"context"

	"go.uber.org/zap"

	"go-employee-console/internal/model"
)

func destroyFrom(table model.Table) func(context.Context, Backend, model.ID) error {
	return func(ctx context.Context, b Backend, id model.ID) error {
		return b.Destroy(ctx, table, id)
	}
}

func listTable[T any](table model.Table) func(context.Context, Backend) ([]T, error) {
	return func(ctx context.Context, b Backend) ([]T, error) {
		return listAs[T](ctx, b, table, nil)
	}
}

var countryList = ListSpec[model.Country]{
	Resource: CountryResource,
	Columns:  []string{"ID", "Name", "Note"},
	Fetch:    listTable[model.Country](model.TableCountries),
	ID:       func(c model.Country) model.ID { return c.ID },
	Cells: func(c model.Country, _ *Lookups) []string {
		return []string{c.ID.String(), c.Name, c.Note}
	},
	Remove: destroyFrom(model.TableCountries),
}

var stateList = ListSpec[model.State]{
	Resource: StateResource,
	Columns:  []string{"ID", "Name", "Country", "Note"},
	Lookups:  All(model.TableCountries),
	Fetch:    listTable[model.State](model.TableStates),
	ID:       func(s model.State) model.ID { return s.ID },
	Cells: func(s model.State, l *Lookups) []string {
		return []string{s.ID.String(), s.Name, l.CountryName(s.CountryID), s.Note}
	},
	Remove: destroyFrom(model.TableStates),
}

var cityList = ListSpec[model.City]{
	Resource: CityResource,
	Columns:  []string{"ID", "Name", "State", "Country", "Note"},
	Lookups:  All(model.TableStates, model.TableCountries),
	Fetch:    listTable[model.City](model.TableCities),
	ID:       func(c model.City) model.ID { return c.ID },
	Cells: func(c model.City, l *Lookups) []string {
		return []string{c.ID.String(), c.Name, l.StateName(c.StateID), l.CountryOfState(c.StateID), c.Note}
	},
	Remove: destroyFrom(model.TableCities),
}

// Employees come from /api/users. Nested relation names win; ids are
// resolved through the lookup tables otherwise.
var employeeList = ListSpec[model.Employee]{
	Resource: EmployeeResource,
	Columns:  []string{"ID", "Name", "Email", "Mobile", "Role", "Country", "State", "City"},
	Lookups:  All(model.TableRoles, model.TableCountries, model.TableStates, model.TableCities),
	Fetch: func(ctx context.Context, b Backend) ([]model.Employee, error) {
		return b.ListUsers(ctx)
	},
	ID: func(e model.Employee) model.ID { return e.ID },
	Cells: func(e model.Employee, l *Lookups) []string {
		return []string{
			e.ID.String(),
			e.FullName(),
			e.Email,
			e.Mobile,
			nestedOr(e.Role, l.RoleName(e.RoleID)),
			nestedOr(e.Country, l.CountryName(e.CountryID)),
			nestedOr(e.State, l.StateName(e.StateID)),
			nestedOr(e.City, l.CityName(e.CityID)),
		}
	},
	Remove: func(ctx context.Context, b Backend, id model.ID) error {
		return b.DeleteUser(ctx, id)
	},
}

func nestedOr(n *model.Named, fallback string) string {
	if n != nil && n.Name != "" {
		return n.Name
	}
	return fallback
}

// Lists bundles the four resource tables over one backend.
type Lists struct {
	Countries *ListView[model.Country]
	States    *ListView[model.State]
	Cities    *ListView[model.City]
	Employees *ListView[model.Employee]
}

func NewLists(backend Backend, inflight *InFlight, log *zap.Logger) *Lists {
	return &Lists{
		Countries: NewListView(countryList, backend, inflight, log),
		States:    NewListView(stateList, backend, inflight, log),
		Cities:    NewListView(cityList, backend, inflight, log),
		Employees: NewListView(employeeList, backend, inflight, log),
	}
}
