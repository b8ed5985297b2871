package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-employee-console/internal/model"
	"go-employee-console/pkg/apiclient"
)

func seededBackend() *fakeBackend {
	b := newFakeBackend()
	b.rows[model.TableCountries] = []any{
		model.Country{ID: 1, Name: "India"},
		model.Country{ID: 2, Name: "Nepal"},
	}
	b.rows[model.TableStates] = []any{
		model.State{ID: 10, Name: "Goa", CountryID: 1},
		map[string]any{"id": "11", "name": "Bagmati", "country_id": "2"},
	}
	b.rows[model.TableCities] = []any{
		model.City{ID: 4, Name: "Panaji", StateID: 10},
		model.City{ID: 5, Name: "Kathmandu", StateID: 11},
		model.City{ID: 6, Name: "Nowhere", StateID: 99},
	}
	b.rows[model.TableRoles] = []any{model.Role{ID: 1, Name: "Admin"}}
	return b
}

func TestCityListResolvesStateAndCountry(t *testing.T) {
	b := seededBackend()
	lists := NewLists(b, NewInFlight(), nil)

	page := lists.Cities.Load(context.Background())
	require.Equal(t, ListReady, page.Status)
	require.Len(t, page.Rows, 3)
	assert.Equal(t, []string{"5", "Kathmandu", "Bagmati", "Nepal", ""}, page.Rows[1].Cells)
	assert.Equal(t, []string{"6", "Nowhere", "N/A", "N/A", ""}, page.Rows[2].Cells)

	tables := map[model.Table]bool{}
	for _, c := range b.callsOf("list") {
		tables[c.Table] = true
	}
	assert.Equal(t, map[model.Table]bool{model.TableCities: true, model.TableStates: true, model.TableCountries: true}, tables)
}

func TestListEmptyState(t *testing.T) {
	b := newFakeBackend()
	page := NewLists(b, NewInFlight(), nil).Countries.Load(context.Background())
	assert.Equal(t, ListReady, page.Status)
	assert.True(t, page.Empty())
}

func TestListErrorShowsMessageAndNoRows(t *testing.T) {
	b := seededBackend()
	b.fail["list:states"] = &apiclient.Error{Status: 500, Message: "HTTP error: 500"}
	page := NewLists(b, NewInFlight(), nil).States.Load(context.Background())
	assert.Equal(t, ListError, page.Status)
	assert.Equal(t, "HTTP error: 500", page.Error)
	assert.Empty(t, page.Rows)
}

func TestListRepeatedLoadIsStable(t *testing.T) {
	lists := NewLists(seededBackend(), NewInFlight(), nil)
	first := lists.Cities.Load(context.Background())
	second := lists.Cities.Load(context.Background())
	assert.Equal(t, first.Rows, second.Rows)
}

func TestListCancelledScopeDiscardsResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page := NewLists(seededBackend(), NewInFlight(), nil).Cities.Load(ctx)
	assert.Equal(t, ListError, page.Status)
	assert.Empty(t, page.Rows)
}

func TestDeleteSuccessThenReloadDropsRow(t *testing.T) {
	b := seededBackend()
	lists := NewLists(b, NewInFlight(), nil)

	res := lists.Cities.Delete(context.Background(), 5)
	require.True(t, res.OK)
	assert.Equal(t, "City deleted successfully!", res.Message)

	destroys := b.callsOf("destroy")
	require.Len(t, destroys, 1)
	assert.Equal(t, model.TableCities, destroys[0].Table)
	assert.Equal(t, model.ID(5), destroys[0].ID)

	page := lists.Cities.Load(context.Background())
	for _, r := range page.Rows {
		assert.NotEqual(t, model.ID(5), r.ID)
	}
}

func TestDeleteFailureKeepsRows(t *testing.T) {
	b := seededBackend()
	b.fail["destroy:cities"] = &apiclient.Error{Status: 500, Message: "HTTP error: 500"}
	lists := NewLists(b, NewInFlight(), nil)

	res := lists.Cities.Delete(context.Background(), 5)
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "Failed")
	assert.Equal(t, "Failed to delete city: HTTP error: 500", res.Message)

	page := lists.Cities.Load(context.Background())
	ids := []model.ID{}
	for _, r := range page.Rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []model.ID{4, 5, 6}, ids)
}

func TestDeleteRefusedWhileInFlight(t *testing.T) {
	b := seededBackend()
	inflight := NewInFlight()
	lists := NewLists(b, inflight, nil)

	release, ok := inflight.Acquire(CityResource.Key, 5)
	require.True(t, ok)
	defer release()

	res := lists.Cities.Delete(context.Background(), 5)
	assert.ErrorIs(t, res.Err, ErrDeleteInFlight)
	assert.Empty(t, b.callsOf("destroy"))

	page := lists.Cities.Load(context.Background())
	for _, r := range page.Rows {
		assert.Equal(t, r.ID == 5, r.Pending)
	}

	other := lists.Cities.Delete(context.Background(), 4)
	assert.True(t, other.OK)
}

func TestEmployeeListPrefersNestedNames(t *testing.T) {
	b := seededBackend()
	b.users = []model.Employee{
		{ID: 1, FName: "Ann", LName: "Lee", Email: "ann@x.io", RoleID: 1, CountryID: 1, State: &model.Named{Name: "Nested Goa"}},
		{ID: 2, FName: "Bo", LName: "Ng", CityID: 42},
	}
	page := NewLists(b, NewInFlight(), nil).Employees.Load(context.Background())
	require.Equal(t, ListReady, page.Status)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, []string{"1", "Ann Lee", "ann@x.io", "", "Admin", "India", "Nested Goa", "N/A"}, page.Rows[0].Cells)
	assert.Equal(t, "N/A", page.Rows[1].Cells[7])

	res := NewLists(b, NewInFlight(), nil).Employees.Delete(context.Background(), 2)
	assert.True(t, res.OK)
	assert.Len(t, b.callsOf("users.delete"), 1)
}
