package handler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"go-employee-console/internal/model"
	"go-employee-console/internal/service"
	"go-employee-console/internal/web"
	"go-employee-console/internal/ws"
	"go-employee-console/pkg/apiclient"
)

const (
	localsWSToken = "ws_token"
	localsWSOwner = "ws_owner"
)

type DashboardHandler struct {
	Base
	dashboard *service.DashboardService
	hub       *ws.Hub
	debounce  time.Duration
	log       *zap.Logger
}

func NewDashboardHandler(base Base, dashboard *service.DashboardService, hub *ws.Hub, debounce time.Duration, log *zap.Logger) *DashboardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardHandler{Base: base, dashboard: dashboard, hub: hub, debounce: debounce, log: log}
}

type dashboardView struct {
	service.Dashboard
	BarMax int
}

func newDashboardView(d service.Dashboard) dashboardView {
	top := 1
	for _, v := range d.Bar.Values {
		if v > top {
			top = v
		}
	}
	return dashboardView{Dashboard: d, BarMax: top}
}

// Dashboard renders counters, charts and the employee table
// GET /dashboard?search=
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	sess := h.Sessions.Load(c)
	d := h.dashboard.Load(h.backendCtx(c), sess.Owner(), c.Query("search"))
	return h.render(c, fiber.StatusOK, web.PageDashboard, h.page(c, "Dashboard", "dashboard", newDashboardView(d)))
}

type usersView struct {
	Users []model.Employee
	Error string
}

// Users renders the employee directory cards
// GET /dashboard/user
func (h *DashboardHandler) Users(c *fiber.Ctx) error {
	users, err := h.dashboard.Directory(h.backendCtx(c))
	view := usersView{Users: users}
	if err != nil {
		view.Error = apiclient.Message(err, "Failed to fetch users")
	}
	return h.render(c, fiber.StatusOK, web.PageUsers, h.page(c, "Users", "user", view))
}

// UpgradeLiveSearch admits websocket upgrades and hands the session to the
// connection.
func (h *DashboardHandler) UpgradeLiveSearch(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}
	sess := h.Sessions.Load(c)
	c.Locals(localsWSToken, sess.Token())
	c.Locals(localsWSOwner, sess.Owner())
	return c.Next()
}

type liveRequest struct {
	Type   string `json:"type"`
	Search string `json:"search"`
}

// LiveSearch filters the dashboard table as the operator types. Queries are
// debounced and answered from the list loaded when the socket opened; a
// "refresh" message re-fetches it.
// GET /ws/dashboard
func (h *DashboardHandler) LiveSearch() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		token, _ := conn.Locals(localsWSToken).(string)
		owner, _ := conn.Locals(localsWSOwner).(string)

		client := ws.NewClient(conn)
		if !h.hub.Join(client) {
			return
		}
		defer h.hub.Leave(client)

		ctx, cancel := context.WithCancel(apiclient.WithToken(context.Background(), token))
		defer cancel()

		var (
			mu      sync.Mutex
			current = h.dashboard.Load(ctx, owner, "")
		)
		debouncer := service.NewDebouncer(h.debounce)
		defer debouncer.Stop()

		push := func(query string) {
			mu.Lock()
			d := current.WithSearch(query)
			mu.Unlock()
			if err := client.WriteJSON(ws.Event{Type: ws.EventSearchResults, Data: d}); err != nil {
				h.log.Debug("live search write failed", zap.Error(err))
			}
		}

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req liveRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				continue
			}
			if req.Type == "refresh" {
				fresh := h.dashboard.Load(ctx, owner, "")
				mu.Lock()
				current = fresh
				mu.Unlock()
				push(req.Search)
				continue
			}
			query := req.Search
			debouncer.Trigger(func() { push(query) })
		}
	})
}
