package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"go-employee-console/internal/model"
	"go-employee-console/internal/session"
	"go-employee-console/internal/web"
	"go-employee-console/pkg/apiclient"
	"go-employee-console/pkg/logger"
)

// Publisher fans console events out to open dashboards.
type Publisher interface {
	Publish(eventType string)
}

// Base carries what every page handler needs.
type Base struct {
	Render   *web.Renderer
	Sessions *session.Manager
}

// page builds the layout data, consuming any pending flash.
func (b *Base) page(c *fiber.Ctx, title, active string, body any) web.Page {
	p := web.Page{
		Title:         title,
		Active:        active,
		Authenticated: b.Sessions.Load(c).Valid(),
		Body:          body,
	}
	if f, ok := b.Sessions.PopFlash(c); ok {
		p.Flash = &f
	}
	return p
}

func (b *Base) render(c *fiber.Ctx, status int, name string, p web.Page) error {
	if err := b.Render.Render(c, status, name, p); err != nil {
		logger.FromCtx(c).Error("render failed", zap.String("page", name), zap.Error(err))
		return err
	}
	return nil
}

// backendCtx is the request context carrying the operator's token.
func (b *Base) backendCtx(c *fiber.Ctx) context.Context {
	return apiclient.WithToken(c.UserContext(), b.Sessions.Load(c).Token())
}

func (b *Base) redirectWith(c *fiber.Ctx, to, kind, message string) error {
	if message != "" {
		b.Sessions.SetFlash(c, kind, message)
	}
	return c.Redirect(to, fiber.StatusSeeOther)
}

// queryID reads ?id=. Missing or malformed ids are zero.
func queryID(c *fiber.Ctx) model.ID {
	id, err := model.ParseID(c.Query("id"))
	if err != nil {
		return 0
	}
	return id
}

// cascadeIntent returns the select that triggered a re-render, if any.
func cascadeIntent(c *fiber.Ctx) (string, bool) {
	const prefix = "cascade:"
	intent := c.FormValue("_intent")
	if len(intent) > len(prefix) && intent[:len(prefix)] == prefix {
		return intent[len(prefix):], true
	}
	return "", false
}
