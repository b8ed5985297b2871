package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go-employee-console/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type versions map[uint]string

func (v versions) TokenVersion(id uint) (string, error) {
	if s, ok := v[id]; ok {
		return s, nil
	}
	return "", errors.New("not found")
}

func TestRequireAuth(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour, "test")
	app := fiber.New()
	app.Use(RequireAuth(tokens, versions{1: "v1"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	call := func(header string) int {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	good, err := tokens.GenerateToken(1, "a@b.com", "A", 1, "v1")
	require.NoError(t, err)
	stale, err := tokens.GenerateToken(1, "a@b.com", "A", 1, "v0")
	require.NoError(t, err)

	assert.Equal(t, 200, call("Bearer "+good))
	assert.Equal(t, 401, call("Bearer "+stale))
	assert.Equal(t, 401, call(""))
	assert.Equal(t, 401, call(good))
}
