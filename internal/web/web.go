// Package web renders the console's HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"go-employee-console/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageLogin     = "login"
	PageLogout    = "logout"
	PageForm      = "form"
	PageList      = "list"
	PageConfirm   = "confirm"
	PageDashboard = "dashboard"
	PageUsers     = "users"
	PageSettings  = "settings"
)

var pageNames = []string{PageLogin, PageLogout, PageForm, PageList, PageConfirm, PageDashboard, PageUsers, PageSettings}

// Page is what the layout receives. Body is the page-specific view.
type Page struct {
	AppName       string
	Title         string
	Active        string
	Authenticated bool
	Flash         *session.Flash
	Body          any
}

type Renderer struct {
	appName string
	pages   map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer(appName string) (*Renderer, error) {
	r := &Renderer{appName: appName, pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes page name with status. The page is buffered so a template
// error never leaves a half-written response.
func (r *Renderer) Render(c *fiber.Ctx, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	page.AppName = r.appName
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Status(status)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// Static serves the embedded assets under /static.
func Static() fiber.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return filesystem.New(filesystem.Config{
		Root:   http.FS(sub),
		MaxAge: 3600,
	})
}
