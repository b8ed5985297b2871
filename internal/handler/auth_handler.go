package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"go-employee-console/internal/model"
	"go-employee-console/internal/service"
	"go-employee-console/internal/session"
	"go-employee-console/internal/web"
	"go-employee-console/pkg/logger"
	"go-employee-console/pkg/validator"
)

// LogoutDelayMillis is how long the logout page waits before going to /login.
const LogoutDelayMillis = 1500

type AuthHandler struct {
	Base
	auth     *service.AuthService
	accounts *service.EmployeeForm
}

func NewAuthHandler(base Base, auth *service.AuthService, accounts *service.EmployeeForm) *AuthHandler {
	return &AuthHandler{Base: base, auth: auth, accounts: accounts}
}

// LoginRequest represents the login form
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password" trim:"-"`
}

type loginView struct {
	Email string
	Error string
}

// LoginPage renders the login form. Operators with a session skip it.
// GET /login
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if h.Sessions.Load(c).Valid() {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return h.render(c, fiber.StatusOK, web.PageLogin, h.page(c, "Login", "", loginView{}))
}

// Login exchanges credentials for a session token
// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.render(c, fiber.StatusBadRequest, web.PageLogin, h.page(c, "Login", "", loginView{Error: "Invalid form"}))
	}
	validator.TrimStrings(&req)

	token, err := h.auth.Login(h.backendCtx(c), req.Email, req.Password)
	if err != nil {
		return h.render(c, fiber.StatusUnauthorized, web.PageLogin,
			h.page(c, "Login", "", loginView{Email: req.Email, Error: err.Error()}))
	}

	h.Sessions.Begin(c, token)
	logger.FromCtx(c).Info("operator logged in", zap.String("email", req.Email))
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

type formView struct {
	service.FormPage
	Action string
}

// SignupPage renders public registration
// GET /signup
func (h *AuthHandler) SignupPage(c *fiber.Ctx) error {
	page := h.accounts.RenderCreate(h.backendCtx(c), service.ModeSignup, model.RegisterRequest{}, "")
	return h.render(c, fiber.StatusOK, web.PageForm, h.page(c, page.Title, "", formView{page, "/signup"}))
}

// Signup registers an account, then sends the user to login
// POST /signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		page := h.accounts.RenderCreate(h.backendCtx(c), service.ModeSignup, req, "Invalid form")
		return h.render(c, fiber.StatusBadRequest, web.PageForm, h.page(c, page.Title, "", formView{page, "/signup"}))
	}

	ctx := h.backendCtx(c)
	var page service.FormPage
	if changed, ok := cascadeIntent(c); ok {
		page = h.accounts.ChangeCreate(ctx, service.ModeSignup, req, changed)
	} else {
		page = h.accounts.SubmitCreate(ctx, service.ModeSignup, req)
	}
	if page.Status == service.FormSucceeded {
		return h.redirectWith(c, "/login", session.FlashSuccess, page.Success)
	}
	return h.render(c, fiber.StatusOK, web.PageForm, h.page(c, page.Title, "", formView{page, "/signup"}))
}

type logoutView struct {
	DelayMillis int
}

// Logout ends the session and shows the goodbye page
// GET /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	prev := h.Sessions.End(c)
	if prev.Valid() {
		h.auth.Logout(c.UserContext(), prev.Owner())
	}
	return h.render(c, fiber.StatusOK, web.PageLogout, h.page(c, "Logging out", "", logoutView{DelayMillis: LogoutDelayMillis}))
}
