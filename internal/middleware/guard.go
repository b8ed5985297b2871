package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"go-employee-console/internal/session"
)

// RequireSession lets requests with a session token through and redirects the
// rest to /login. Public paths are matched by prefix.
func RequireSession(sessions *session.Manager, public ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, p := range public {
			if path == p || strings.HasPrefix(path, strings.TrimRight(p, "/")+"/") {
				return c.Next()
			}
		}
		if !sessions.Load(c).Valid() {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequestScope gives each request a context that is cancelled when the
// handler returns or the timeout elapses. Backend calls made with it are
// aborted when the page request ends.
func RequestScope(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parent := c.UserContext()
		var (
			ctx    context.Context
			cancel context.CancelFunc
		)
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(parent, timeout)
		} else {
			ctx, cancel = context.WithCancel(parent)
		}
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
