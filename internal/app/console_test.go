package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-employee-console/internal/config"
	"go-employee-console/internal/repository"
	"go-employee-console/internal/session"
	"go-employee-console/internal/ws"
	"go-employee-console/pkg/apiclient"
	"go-employee-console/pkg/database"
	"go-employee-console/pkg/metrics"
)

type backendCall struct {
	Method string
	Path   string
	Body   map[string]any
	Auth   string
}

// fakeAPI is a scripted backend recording every request.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []backendCall
	tables map[string][]map[string]any
	routes map[string]func(w http.ResponseWriter)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tables: map[string][]map[string]any{
			"countries": {{"id": 1, "name": "India"}},
			"states":    {{"id": 2, "name": "Gujarat", "country_id": 1}},
			"cities": {
				{"id": 4, "name": "Surat", "state_id": 2},
				{"id": 5, "name": "Rajkot", "state_id": 2},
			},
		},
		routes: map[string]func(w http.ResponseWriter){},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	raw, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.calls = append(f.calls, backendCall{Method: r.Method, Path: r.URL.Path, Body: body, Auth: r.Header.Get("Authorization")})
	route := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if route != nil {
		route(w)
		return
	}
	if r.URL.Path == "/api/master/data-filter" {
		table, _ := body["table_name"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": f.tables[table]})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
}

func (f *fakeAPI) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = func(w http.ResponseWriter) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (f *fakeAPI) count(method, prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && strings.HasPrefix(c.Path, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(method, path string) (backendCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			return f.calls[i], true
		}
	}
	return backendCall{}, false
}

func newTestConsole(t *testing.T) (*fiber.App, *fakeAPI) {
	t.Helper()
	return newTestConsoleWith(t, nil, 10*time.Millisecond)
}

func newTestConsoleWith(t *testing.T, hub *ws.Hub, debounce time.Duration) (*fiber.App, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	db, err := database.OpenMemory()
	require.NoError(t, err)
	snapshots := repository.NewSnapshotRepo(db)
	require.NoError(t, snapshots.Migrate())

	cfg := &config.Config{
		AppName:        "Employee Console",
		APIBaseURL:     srv.URL,
		SnapshotTTL:    24 * time.Hour,
		SearchDebounce: debounce,
	}
	app, err := NewConsole(Deps{
		Config:    cfg,
		Backend:   apiclient.New(srv.URL),
		Snapshots: snapshots,
		Hub:       hub,
		Metrics:   metrics.New("console_test"),
	})
	require.NoError(t, err)
	return app, api
}

func form(values url.Values) io.Reader {
	return strings.NewReader(values.Encode())
}

func postForm(path string, values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, form(values))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func tokenCookie() *http.Cookie {
	return &http.Cookie{Name: session.CookieName, Value: "abc"}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestGuardRedirectsWithoutSession(t *testing.T) {
	app, api := newTestConsole(t)

	for _, path := range []string{"/dashboard", "/dashboard/city", "/dashboard/setting"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
	assert.Zero(t, api.count(http.MethodPost, "/api/"))
}

func TestPublicPagesNeedNoSession(t *testing.T) {
	app, _ := newTestConsole(t)

	for _, path := range []string{"/login", "/health", "/metrics"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestLoginSetsTokenCookie(t *testing.T) {
	app, api := newTestConsole(t)
	api.on(http.MethodPost, "/api/login", http.StatusOK, `{"token":"abc"}`)

	resp, err := app.Test(postForm("/login", url.Values{"email": {"a@b.com"}, "password": {"x"}}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	c := findCookie(resp, session.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 86400, c.MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	call, ok := api.last(http.MethodPost, "/api/login")
	require.True(t, ok)
	assert.Equal(t, "a@b.com", call.Body["email"])
	assert.Equal(t, "x", call.Body["password"])
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	app, api := newTestConsole(t)
	api.on(http.MethodPost, "/api/login", http.StatusUnauthorized, `{"message":"Invalid email or password!"}`)

	resp, err := app.Test(postForm("/login", url.Values{"email": {"a@b.com"}, "password": {"bad"}}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, findCookie(resp, session.CookieName))
	assert.Contains(t, readBody(t, resp), "Invalid email or password!")
}

func TestDeleteCityFailureKeepsRows(t *testing.T) {
	app, api := newTestConsole(t)
	api.on(http.MethodDelete, "/api/master/destroy/5", http.StatusInternalServerError, `{"message":"boom"}`)

	resp, err := app.Test(postForm("/dashboard/city/delete?id=5", url.Values{"confirm": {"yes"}}, tokenCookie()))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/city", resp.Header.Get("Location"))

	flash := findCookie(resp, session.FlashName)
	require.NotNil(t, flash)
	decoded, err := url.QueryUnescape(flash.Value)
	require.NoError(t, err)
	assert.Contains(t, decoded, "Failed")

	call, ok := api.last(http.MethodDelete, "/api/master/destroy/5")
	require.True(t, ok)
	assert.Equal(t, "cities", call.Body["table_name"])
	assert.Equal(t, "Bearer abc", call.Auth)

	list := httptest.NewRequest(http.MethodGet, "/dashboard/city", nil)
	list.AddCookie(tokenCookie())
	list.AddCookie(flash)
	resp, err = app.Test(list)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `id="row-5"`)
	assert.Contains(t, body, `id="row-4"`)
	assert.Contains(t, body, "Failed to delete city: boom")
}

func TestDeclinedDeleteSendsNothing(t *testing.T) {
	app, api := newTestConsole(t)

	resp, err := app.Test(postForm("/dashboard/city/delete?id=5", url.Values{"confirm": {"no"}}, tokenCookie()))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/city", resp.Header.Get("Location"))
	assert.Zero(t, api.count(http.MethodDelete, "/api/master/destroy"))
}

func TestDeleteSuccessFlashes(t *testing.T) {
	app, api := newTestConsole(t)
	api.on(http.MethodDelete, "/api/master/destroy/4", http.StatusOK, `{"success":true}`)

	resp, err := app.Test(postForm("/dashboard/city/delete?id=4", url.Values{"confirm": {"yes"}}, tokenCookie()))
	require.NoError(t, err)

	flash := findCookie(resp, session.FlashName)
	require.NotNil(t, flash)
	decoded, err := url.QueryUnescape(flash.Value)
	require.NoError(t, err)
	assert.Equal(t, "success|City deleted successfully!", decoded)
}

func TestCreateCountryValidationSkipsBackend(t *testing.T) {
	app, api := newTestConsole(t)

	resp, err := app.Test(postForm("/dashboard/country/new", url.Values{"name": {"   "}}, tokenCookie()))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Country name is required")
	_, sent := api.last(http.MethodPost, "/api/master")
	assert.False(t, sent)
}

func TestCreateCityRedirectsToList(t *testing.T) {
	app, api := newTestConsole(t)
	api.on(http.MethodPost, "/api/master", http.StatusOK, `{"success":true}`)

	resp, err := app.Test(postForm("/dashboard/city/new", url.Values{"name": {"Vadodara"}, "state_id": {"2"}}, tokenCookie()))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/city", resp.Header.Get("Location"))
	call, ok := api.last(http.MethodPost, "/api/master")
	require.True(t, ok)
	assert.Equal(t, "cities", call.Body["table_name"])
	assert.Equal(t, "Vadodara", call.Body["name"])
	assert.Equal(t, "insert", call.Body["action"])
}

func TestLogoutClearsCookie(t *testing.T) {
	app, _ := newTestConsole(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(tokenCookie())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	c := findCookie(resp, session.CookieName)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Contains(t, readBody(t, resp), "Logging out")
}
