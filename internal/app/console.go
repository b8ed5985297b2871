// Package app assembles the console's fiber application.
package app

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"go-employee-console/internal/config"
	"go-employee-console/internal/handler"
	"go-employee-console/internal/middleware"
	"go-employee-console/internal/repository"
	"go-employee-console/internal/service"
	"go-employee-console/internal/session"
	"go-employee-console/internal/web"
	"go-employee-console/internal/ws"
	"go-employee-console/pkg/logger"
	"go-employee-console/pkg/metrics"
)

// PublicPaths are served without a session.
var PublicPaths = []string{"/login", "/signup", "/logout", "/health", "/metrics", "/static"}

// Deps are the collaborators the console is built from.
type Deps struct {
	Config    *config.Config
	Backend   service.Backend
	Snapshots repository.SnapshotRepository
	// Hub is optional. Without one the console runs its own.
	Hub *ws.Hub
	// Metrics is optional.
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// NewConsole wires handlers and routes.
func NewConsole(d Deps) (*fiber.App, error) {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	// A hub built here lives as long as the app.
	var stopHub context.CancelFunc
	if d.Hub == nil {
		var hubCtx context.Context
		hubCtx, stopHub = context.WithCancel(context.Background())
		d.Hub = ws.NewHub(log)
		go d.Hub.Run(hubCtx)
	}

	renderer, err := web.NewRenderer(cfg.AppName)
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(cfg.CookieSecure)
	base := handler.Base{Render: renderer, Sessions: sessions}

	inflight := service.NewInFlight()
	lists := service.NewLists(d.Backend, inflight, log)
	forms := service.NewForms(d.Backend, log)
	employeeForm := service.NewEmployeeForm(d.Backend, log)
	dashboard := service.NewDashboardService(d.Backend, d.Snapshots, cfg.SnapshotTTL, log)
	auth := service.NewAuthService(d.Backend, dashboard, log)
	settings := service.NewSettingsService(d.Backend, log)

	authHandler := handler.NewAuthHandler(base, auth, employeeForm)
	dashHandler := handler.NewDashboardHandler(base, dashboard, d.Hub, cfg.SearchDebounce, log)
	settingsHandler := handler.NewSettingsHandler(base, settings)
	countries := handler.NewMasterHandler(base, lists.Countries, forms.Countries)
	states := handler.NewMasterHandler(base, lists.States, forms.States)
	cities := handler.NewMasterHandler(base, lists.Cities, forms.Cities)
	employees := handler.NewEmployeeHandler(base, lists.Employees, employeeForm, d.Hub)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	if stopHub != nil {
		app.Hooks().OnShutdown(func() error {
			stopHub()
			return nil
		})
	}

	app.Use(recover.New())
	app.Use(logger.Middleware())
	if d.Metrics != nil {
		app.Use(d.Metrics.Middleware())
		app.Get("/metrics", d.Metrics.Handler())
	}
	app.Use("/static", web.Static())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "websocket_clients": d.Hub.Count()})
	})

	app.Use(middleware.RequestScope(cfg.RequestTimeout))
	app.Use(middleware.RequireSession(sessions, PublicPaths...))

	// ============ PUBLIC ROUTES ============
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/dashboard", fiber.StatusFound) })
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Get("/signup", authHandler.SignupPage)
	app.Post("/signup", authHandler.Signup)
	app.Get("/logout", authHandler.Logout)

	// ============ PROTECTED ROUTES ============
	app.Get("/ws/dashboard", dashHandler.UpgradeLiveSearch, dashHandler.LiveSearch())

	dash := app.Group("/dashboard")
	dash.Get("/", dashHandler.Dashboard)
	dash.Get("/user", dashHandler.Users)
	dash.Get("/setting", settingsHandler.Settings)
	dash.Post("/setting", settingsHandler.Save)

	mount(dash, service.CountryResource.Key, countries)
	mount(dash, service.StateResource.Key, states)
	mount(dash, service.CityResource.Key, cities)
	mount(dash, service.EmployeeResource.Key, employees)

	return app, nil
}

type resourceRoutes interface {
	List(c *fiber.Ctx) error
	New(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Edit(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	ConfirmDelete(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

func mount(r fiber.Router, key string, h resourceRoutes) {
	g := r.Group("/" + key)
	g.Get("/", h.List)
	g.Get("/new", h.New)
	g.Post("/new", h.Create)
	g.Get("/edit", h.Edit)
	g.Post("/edit", h.Update)
	g.Get("/delete", h.ConfirmDelete)
	g.Post("/delete", h.Delete)
}
