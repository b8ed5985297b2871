package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"go-employee-console/internal/model"
)

const notAvailable = "N/A"

// Lookups holds the reference tables used to resolve foreign keys.
type Lookups struct {
	Roles     []model.Role
	Countries []model.Country
	States    []model.State
	Cities    []model.City
}

// LookupRequest names one reference table and its filters.
type LookupRequest struct {
	Table   model.Table
	Filters model.Fields
}

// All requests the table unfiltered.
func All(tables ...model.Table) []LookupRequest {
	reqs := make([]LookupRequest, len(tables))
	for i, t := range tables {
		reqs[i] = LookupRequest{Table: t}
	}
	return reqs
}

// loadLookups fetches every request concurrently. Each result goes to its own
// slot, so completion order does not matter; results arriving after the scope
// is disposed are dropped.
func loadLookups(scope *Scope, md MasterData, into *Lookups, reqs []LookupRequest) error {
	g, ctx := errgroup.WithContext(scope.Context())
	for _, req := range reqs {
		g.Go(func() error {
			return fetchLookup(ctx, scope, md, into, req)
		})
	}
	return g.Wait()
}

func fetchLookup(ctx context.Context, scope *Scope, md MasterData, into *Lookups, req LookupRequest) error {
	switch req.Table {
	case model.TableRoles:
		rows, err := listAs[model.Role](ctx, md, req.Table, req.Filters)
		if err != nil {
			return err
		}
		scope.Apply(func() { into.Roles = rows })
	case model.TableCountries:
		rows, err := listAs[model.Country](ctx, md, req.Table, req.Filters)
		if err != nil {
			return err
		}
		scope.Apply(func() { into.Countries = rows })
	case model.TableStates:
		rows, err := listAs[model.State](ctx, md, req.Table, req.Filters)
		if err != nil {
			return err
		}
		scope.Apply(func() { into.States = rows })
	case model.TableCities:
		rows, err := listAs[model.City](ctx, md, req.Table, req.Filters)
		if err != nil {
			return err
		}
		scope.Apply(func() { into.Cities = rows })
	default:
		return model.ErrUnknownTable
	}
	return nil
}

func (l *Lookups) RoleName(id model.ID) string {
	for _, r := range l.Roles {
		if r.ID == id && !id.IsZero() {
			return r.Name
		}
	}
	return notAvailable
}

func (l *Lookups) CountryName(id model.ID) string {
	for _, c := range l.Countries {
		if c.ID == id && !id.IsZero() {
			return c.Name
		}
	}
	return notAvailable
}

func (l *Lookups) StateName(id model.ID) string {
	if s, ok := l.state(id); ok {
		return s.Name
	}
	return notAvailable
}

func (l *Lookups) CityName(id model.ID) string {
	for _, c := range l.Cities {
		if c.ID == id && !id.IsZero() {
			return c.Name
		}
	}
	return notAvailable
}

// CountryOfState resolves a state's country name.
func (l *Lookups) CountryOfState(stateID model.ID) string {
	s, ok := l.state(stateID)
	if !ok {
		return notAvailable
	}
	return l.CountryName(s.CountryID)
}

func (l *Lookups) state(id model.ID) (model.State, bool) {
	if id.IsZero() {
		return model.State{}, false
	}
	for _, s := range l.States {
		if s.ID == id {
			return s, true
		}
	}
	return model.State{}, false
}
