package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-employee-console/internal/model"
)

type captured struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

func newBackend(t *testing.T, status int, response string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Method = r.Method
		got.Path = r.URL.Path
		got.Query = r.URL.RawQuery
		got.Auth = r.Header.Get("Authorization")
		got.Body = nil
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &got.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL), got
}

func TestListSendsTableNameAndFilters(t *testing.T) {
	c, got := newBackend(t, http.StatusOK, `{"data":[{"id":1,"name":"Kerala"},{"id":"2","name":"Goa"}]}`)

	rows, err := c.List(context.Background(), model.TableStates, model.Fields{"country_id": int64(3)})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/master/data-filter", got.Path)
	assert.Equal(t, "states", got.Body["table_name"])
	assert.EqualValues(t, 3, got.Body["country_id"])

	var s model.State
	require.NoError(t, json.Unmarshal(rows[1], &s))
	assert.Equal(t, model.ID(2), s.ID)
}

func TestListNonArrayDataIsEmpty(t *testing.T) {
	for _, body := range []string{`{"data":{"id":1}}`, `{"data":null}`, `{}`, `not json`} {
		c, _ := newBackend(t, http.StatusOK, body)
		rows, err := c.List(context.Background(), model.TableCountries, nil)
		require.NoError(t, err, body)
		assert.NotNil(t, rows, body)
		assert.Empty(t, rows, body)
	}
}

func TestListRepeatedCallsAreStable(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `{"data":[{"id":3},{"id":1},{"id":2}]}`)
	first, err := c.List(context.Background(), model.TableCities, nil)
	require.NoError(t, err)
	second, err := c.List(context.Background(), model.TableCities, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestErrorMessageFromBody(t *testing.T) {
	c, _ := newBackend(t, http.StatusUnprocessableEntity, `{"message":"The name field is required."}`)
	err := c.Insert(context.Background(), model.TableCountries, model.Fields{"name": ""}, TagInsert)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "The name field is required.", err.Error())
}

func TestErrorFallbackMessage(t *testing.T) {
	c, _ := newBackend(t, http.StatusInternalServerError, `<html>oops</html>`)
	err := c.Destroy(context.Background(), model.TableCities, 5)
	require.Error(t, err)
	assert.Equal(t, "HTTP error: 500", err.Error())
}

func TestSuccessFalseIsFailure(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `{"success":false,"message":"State already exists"}`)
	err := c.Insert(context.Background(), model.TableStates, model.Fields{"name": "Goa"}, TagInsert)
	require.Error(t, err)
	assert.Equal(t, "State already exists", err.Error())
}

func TestInsertTag(t *testing.T) {
	c, got := newBackend(t, http.StatusOK, `{"success":true}`)

	require.NoError(t, c.Insert(context.Background(), model.TableCities, model.Fields{"name": "Pune"}, TagInsert))
	assert.Equal(t, "insert", got.Body["action"])

	require.NoError(t, c.Insert(context.Background(), model.TableSettings, model.Fields{"key": "theme"}, TagOmit))
	_, hasAction := got.Body["action"]
	assert.False(t, hasAction)

	err := c.Insert(context.Background(), model.TableSettings, nil, InsertTag(0))
	assert.ErrorIs(t, err, ErrInsertTag)
}

func TestUpdateShowDestroyPaths(t *testing.T) {
	c, got := newBackend(t, http.StatusOK, `{"data":{"id":7,"name":"India"}}`)

	require.NoError(t, c.UpdateRecord(context.Background(), 7, model.CountryFields{Name: "India"}))
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/master/update/7", got.Path)
	assert.Equal(t, "countries", got.Body["table_name"])
	assert.Equal(t, "India", got.Body["name"])

	raw, err := c.Show(context.Background(), model.TableCountries, 7)
	require.NoError(t, err)
	assert.Equal(t, "/api/master/show/7", got.Path)
	assert.Equal(t, "table_name=countries", got.Query)
	assert.Nil(t, got.Body, "show sends no body")
	assert.JSONEq(t, `{"id":7,"name":"India"}`, string(raw))

	require.NoError(t, c.Destroy(context.Background(), model.TableCountries, 7))
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/api/master/destroy/7", got.Path)
	assert.Equal(t, map[string]any{"table_name": "countries"}, got.Body)
}

func TestUnknownTableNeverCallsBackend(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := New(srv.URL).List(context.Background(), model.Table("users"), nil)
	assert.ErrorIs(t, err, model.ErrUnknownTable)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestLogin(t *testing.T) {
	c, got := newBackend(t, http.StatusOK, `{"token":"abc"}`)
	token, err := c.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, "/api/login", got.Path)
	assert.Equal(t, "a@b.com", got.Body["email"])
}

func TestLoginWithoutToken(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `{}`)
	_, err := c.Login(context.Background(), "a@b.com", "x")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestBearerToken(t *testing.T) {
	c, got := newBackend(t, http.StatusOK, `{"users":[]}`)
	_, err := c.ListUsers(WithToken(context.Background(), "abc"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got.Auth)
}

func TestListUsersShapes(t *testing.T) {
	for _, body := range []string{
		`[{"id":1,"f_name":"Ann","role":{"name":"Admin"}}]`,
		`{"users":[{"id":1,"f_name":"Ann","role":{"name":"Admin"}}]}`,
	} {
		c, _ := newBackend(t, http.StatusOK, body)
		users, err := c.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Admin", users[0].Role.Name)
	}

	c, _ := newBackend(t, http.StatusOK, `{"users":"nope"}`)
	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGetUser(t *testing.T) {
	c, got := newBackend(t, http.StatusOK, `{"user":{"id":"4","f_name":"Ravi","l_name":"K","email":"r@k.in"}}`)
	e, err := c.GetUser(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "/api/users/4", got.Path)
	assert.Equal(t, "Ravi K", e.FullName())
}

func TestCancelledContextAbortsRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := New(srv.URL).List(ctx, model.TableCountries, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObserverSeesEveryCall(t *testing.T) {
	var ops []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithObserver(func(op string, status int, _ time.Duration) {
		ops = append(ops, op)
		assert.Equal(t, http.StatusOK, status)
	}))
	_, _ = c.List(context.Background(), model.TableRoles, nil)
	assert.Equal(t, []string{"master.list"}, ops)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "boom", Message(&Error{Message: "boom"}, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("raw"), "fallback"))
	assert.Equal(t, "raw", Message(errors.New("raw"), ""))
}
