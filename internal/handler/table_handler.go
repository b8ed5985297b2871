package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"go-employee-console/internal/model"
	"go-employee-console/internal/service"
	"go-employee-console/internal/session"
	"go-employee-console/internal/web"
	"go-employee-console/pkg/logger"
)

// Lister is one resource table.
type Lister interface {
	Resource() service.Resource
	Load(ctx context.Context) service.ListPage
	Delete(ctx context.Context, id model.ID) service.DeleteResult
}

// TableHandler serves the list and delete pages of one resource.
type TableHandler struct {
	Base
	rows Lister
	// changed, when set, is published after every successful write.
	changed Publisher
	event   string
}

func newTableHandler(base Base, rows Lister) TableHandler {
	return TableHandler{Base: base, rows: rows}
}

func (h *TableHandler) notify() {
	if h.changed != nil {
		h.changed.Publish(h.event)
	}
}

func (h *TableHandler) active() string {
	return h.rows.Resource().Key
}

// List renders the table, fetched fresh on every visit.
// GET /dashboard/:resource
func (h *TableHandler) List(c *fiber.Ctx) error {
	page := h.rows.Load(h.backendCtx(c))
	return h.render(c, fiber.StatusOK, web.PageList, h.page(c, page.Resource.Plural, h.active(), page))
}

type confirmView struct {
	Resource service.Resource
	ID       model.ID
	Noun     string
	Label    string
}

// ConfirmDelete asks before removing a row.
// GET /dashboard/:resource/delete?id=
func (h *TableHandler) ConfirmDelete(c *fiber.Ctx) error {
	res := h.rows.Resource()
	id := queryID(c)
	if id.IsZero() {
		return h.redirectWith(c, res.Path(), session.FlashError, "Invalid "+strings.ToLower(res.Name)+" id")
	}
	view := confirmView{Resource: res, ID: id, Noun: strings.ToLower(res.Name), Label: c.Query("label")}
	return h.render(c, fiber.StatusOK, web.PageConfirm, h.page(c, "Delete "+res.Name, h.active(), view))
}

// Delete removes the row when the operator confirmed, then returns to the
// list, which re-fetches.
// POST /dashboard/:resource/delete?id=
func (h *TableHandler) Delete(c *fiber.Ctx) error {
	res := h.rows.Resource()
	if c.FormValue("confirm") != "yes" {
		return c.Redirect(res.Path(), fiber.StatusSeeOther)
	}
	id := queryID(c)
	if id.IsZero() {
		return h.redirectWith(c, res.Path(), session.FlashError, "Invalid "+strings.ToLower(res.Name)+" id")
	}

	result := h.rows.Delete(h.backendCtx(c), id)
	if !result.OK {
		logger.FromCtx(c).Warn("delete refused", zap.String("resource", res.Key), zap.Int64("id", int64(id)))
		return h.redirectWith(c, res.Path(), session.FlashError, result.Message)
	}
	h.notify()
	return h.redirectWith(c, res.Path(), session.FlashSuccess, result.Message)
}

// formDone redirects to the list on success, or re-renders the form.
func (h *TableHandler) formDone(c *fiber.Ctx, page service.FormPage, action string) error {
	if page.Status == service.FormSucceeded {
		h.notify()
		return h.redirectWith(c, page.Resource.Path(), session.FlashSuccess, page.Success)
	}
	status := fiber.StatusOK
	if page.Error != "" {
		status = fiber.StatusUnprocessableEntity
	}
	return h.render(c, status, web.PageForm, h.page(c, page.Title, h.active(), formView{page, action}))
}

func (h *TableHandler) showForm(c *fiber.Ctx, page service.FormPage, action string) error {
	return h.render(c, fiber.StatusOK, web.PageForm, h.page(c, page.Title, h.active(), formView{page, action}))
}

func editAction(res service.Resource, id model.ID) string {
	return res.EditPath() + "?id=" + id.String()
}

// MasterHandler serves one master table: countries, states or cities.
type MasterHandler[F model.Writable] struct {
	TableHandler
	form *service.MasterForm[F]
}

func NewMasterHandler[F model.Writable](base Base, rows Lister, form *service.MasterForm[F]) *MasterHandler[F] {
	return &MasterHandler[F]{TableHandler: newTableHandler(base, rows), form: form}
}

// New renders an empty form.
// GET /dashboard/:resource/new
func (h *MasterHandler[F]) New(c *fiber.Ctx) error {
	var empty F
	page := h.form.Render(h.backendCtx(c), service.ModeCreate, 0, empty, "")
	return h.showForm(c, page, h.form.Resource().NewPath())
}

// Create inserts a row.
// POST /dashboard/:resource/new
func (h *MasterHandler[F]) Create(c *fiber.Ctx) error {
	action := h.form.Resource().NewPath()
	var input F
	if err := c.BodyParser(&input); err != nil {
		return h.formDone(c, h.form.Render(h.backendCtx(c), service.ModeCreate, 0, input, "Invalid form"), action)
	}
	return h.formDone(c, h.form.Submit(h.backendCtx(c), service.ModeCreate, 0, input), action)
}

// Edit loads the row into the form.
// GET /dashboard/:resource/edit?id=
func (h *MasterHandler[F]) Edit(c *fiber.Ctx) error {
	res := h.form.Resource()
	id := queryID(c)
	if id.IsZero() {
		return h.redirectWith(c, res.Path(), session.FlashError, "Invalid "+strings.ToLower(res.Name)+" id")
	}
	return h.showForm(c, h.form.Edit(h.backendCtx(c), id), editAction(res, id))
}

// Update writes the row.
// POST /dashboard/:resource/edit?id=
func (h *MasterHandler[F]) Update(c *fiber.Ctx) error {
	res := h.form.Resource()
	id := queryID(c)
	if id.IsZero() {
		return h.redirectWith(c, res.Path(), session.FlashError, "Invalid "+strings.ToLower(res.Name)+" id")
	}
	action := editAction(res, id)
	var input F
	if err := c.BodyParser(&input); err != nil {
		return h.formDone(c, h.form.Render(h.backendCtx(c), service.ModeEdit, id, input, "Invalid form"), action)
	}
	return h.formDone(c, h.form.Submit(h.backendCtx(c), service.ModeEdit, id, input), action)
}
