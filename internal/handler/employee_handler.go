package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-employee-console/internal/model"
	"go-employee-console/internal/service"
	"go-employee-console/internal/session"
	"go-employee-console/internal/ws"
)

// EmployeeHandler serves the employee table and its create and edit forms.
// Every successful write tells open dashboards to refresh.
type EmployeeHandler struct {
	TableHandler
	form *service.EmployeeForm
}

func NewEmployeeHandler(base Base, rows Lister, form *service.EmployeeForm, events Publisher) *EmployeeHandler {
	t := newTableHandler(base, rows)
	t.changed = events
	t.event = ws.EventEmployeesChanged
	return &EmployeeHandler{TableHandler: t, form: form}
}

// GET /dashboard/employee/new
func (h *EmployeeHandler) New(c *fiber.Ctx) error {
	page := h.form.RenderCreate(h.backendCtx(c), service.ModeCreate, model.RegisterRequest{}, "")
	return h.showForm(c, page, service.EmployeeResource.NewPath())
}

// Create registers a new employee. A cascade intent only re-renders the
// form with the dependent selects reset and reloaded.
// POST /dashboard/employee/new
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	ctx := h.backendCtx(c)
	action := service.EmployeeResource.NewPath()
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.formDone(c, h.form.RenderCreate(ctx, service.ModeCreate, req, "Invalid form"), action)
	}
	if changed, ok := cascadeIntent(c); ok {
		return h.showForm(c, h.form.ChangeCreate(ctx, service.ModeCreate, req, changed), action)
	}
	return h.formDone(c, h.form.SubmitCreate(ctx, service.ModeCreate, req), action)
}

// GET /dashboard/employee/edit?id=
func (h *EmployeeHandler) Edit(c *fiber.Ctx) error {
	res := service.EmployeeResource
	id := queryID(c)
	if id.IsZero() {
		return h.redirectWith(c, res.Path(), session.FlashError, "Invalid "+strings.ToLower(res.Name)+" id")
	}
	return h.showForm(c, h.form.Edit(h.backendCtx(c), id), editAction(res, id))
}

// POST /dashboard/employee/edit?id=
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	res := service.EmployeeResource
	id := queryID(c)
	if id.IsZero() {
		return h.redirectWith(c, res.Path(), session.FlashError, "Invalid "+strings.ToLower(res.Name)+" id")
	}
	ctx := h.backendCtx(c)
	action := editAction(res, id)
	var upd model.EmployeeUpdate
	if err := c.BodyParser(&upd); err != nil {
		return h.formDone(c, h.form.RenderEdit(ctx, id, upd, "Invalid form"), action)
	}
	if changed, ok := cascadeIntent(c); ok {
		return h.showForm(c, h.form.ChangeEdit(ctx, id, upd, changed), action)
	}
	return h.formDone(c, h.form.SubmitEdit(ctx, id, upd), action)
}
