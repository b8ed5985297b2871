package web

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryPageParses(t *testing.T) {
	r, err := NewRenderer("Console")
	require.NoError(t, err)
	assert.Len(t, r.pages, len(pageNames))
}

func TestRenderLogin(t *testing.T) {
	r, err := NewRenderer("Console")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return r.Render(c, fiber.StatusUnauthorized, PageLogin, Page{
			Title: "Login",
			Body:  struct{ Email, Error string }{"a@b.com", "Invalid <email>"},
		})
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Invalid &lt;email&gt;")
	assert.Contains(t, string(body), `value="a@b.com"`)
	assert.NotContains(t, string(body), "sidebar")
}

func TestStatic(t *testing.T) {
	app := fiber.New()
	app.Use("/static", Static())
	resp, err := app.Test(httptest.NewRequest("GET", "/static/app.css", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
