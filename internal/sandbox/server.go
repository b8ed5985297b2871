package sandbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"go-employee-console/internal/middleware"
	"go-employee-console/internal/model"
	"go-employee-console/pkg/jwt"
	"go-employee-console/pkg/logger"
	"go-employee-console/pkg/validator"
)

// Server serves the backend API over a Store.
type Server struct {
	store  *Store
	tokens *jwt.Manager
	log    *zap.Logger
}

func NewServer(store *Store, tokens *jwt.Manager, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{store: store, tokens: tokens, log: log}
}

// App builds the fiber application with every route mounted.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{AppName: "Employee Backend Sandbox"})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.Middleware())

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Post("/login", s.Login)
	api.Post("/register", s.Register)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(s.tokens, s.store))

	protected.Post("/master/data-filter", s.Filter)
	protected.Get("/master/show/:id", s.Show)
	protected.Post("/master", s.Insert)
	protected.Put("/master/update/:id", s.Update)
	protected.Delete("/master/destroy/:id", s.Destroy)

	protected.Get("/users", s.Users)
	protected.Get("/users/:id", s.User)
	protected.Put("/users/:id", s.UpdateUser)
	protected.Delete("/users/:id", s.DeleteUser)

	return app
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// storeError maps store errors onto statuses.
func (s *Server) storeError(c *fiber.Ctx, err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, fiber.StatusUnprocessableEntity, verr.Message)
	case errors.Is(err, ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Record not found")
	case errors.Is(err, model.ErrUnknownTable), errors.Is(err, ErrUnknownColumn):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailTaken):
		return fail(c, fiber.StatusConflict, "Email already registered")
	default:
		logger.FromCtx(c).Error("store failure", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// masterBody is a master endpoint payload: table_name, an optional action,
// and the row's columns.
type masterBody struct {
	Table  model.Table
	Fields map[string]any
}

func parseMaster(c *fiber.Ctx) (masterBody, error) {
	var raw map[string]any
	if len(bytes.TrimSpace(c.Body())) > 0 {
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return masterBody{}, err
		}
	}
	name, _ := raw["table_name"].(string)
	if name == "" {
		name = c.Query("table_name")
	}
	delete(raw, "table_name")
	delete(raw, "action")
	return masterBody{Table: model.Table(name), Fields: raw}, nil
}

// Filter lists a master table
// POST /api/master/data-filter
func (s *Server) Filter(c *fiber.Ctx) error {
	body, err := parseMaster(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	rows, err := s.store.Filter(c.UserContext(), body.Table, body.Fields)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rows})
}

// Show returns one row
// GET /api/master/show/:id?table_name=
func (s *Server) Show(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid id")
	}
	row, err := s.store.Show(c.UserContext(), model.Table(c.Query("table_name")), id)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": row})
}

// Insert creates a row
// POST /api/master
func (s *Server) Insert(c *fiber.Ctx) error {
	body, err := parseMaster(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	row, err := s.store.Insert(c.UserContext(), body.Table, body.Fields)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Record created", "data": row})
}

// Update changes a row
// PUT /api/master/update/:id
func (s *Server) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid id")
	}
	body, err := parseMaster(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	row, err := s.store.Update(c.UserContext(), body.Table, id, body.Fields)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Record updated", "data": row})
}

// Destroy removes a row
// DELETE /api/master/destroy/:id
func (s *Server) Destroy(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid id")
	}
	body, err := parseMaster(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.store.Destroy(c.UserContext(), body.Table, id); err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Record deleted"})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// Login issues a signed token
// POST /api/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fail(c, fiber.StatusUnprocessableEntity, validator.FirstMessage(errs))
	}

	acc, err := s.store.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, "Invalid email or password!")
		}
		return s.storeError(c, err)
	}

	var roleID uint
	if acc.RoleID != nil {
		roleID = *acc.RoleID
	}
	token, err := s.tokens.GenerateToken(acc.ID, acc.Email, acc.FullName(), roleID, acc.TokenVersion)
	if err != nil {
		logger.FromCtx(c).Error("sign token failed", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// Register creates an account
// POST /api/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	validator.TrimStrings(&req)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fail(c, fiber.StatusUnprocessableEntity, validator.FirstMessage(errs))
	}

	acc, err := s.store.Register(c.UserContext(), req)
	if err != nil {
		return s.storeError(c, err)
	}
	s.log.Info("account registered", zap.Uint("id", acc.ID), zap.String("email", acc.Email))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "User registered successfully!", "user": acc})
}

// Users lists accounts with their relations
// GET /api/users
func (s *Server) Users(c *fiber.Ctx) error {
	accounts, err := s.store.Accounts(c.UserContext())
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(fiber.Map{"users": accounts})
}

// GET /api/users/:id
func (s *Server) User(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid id")
	}
	acc, err := s.store.Account(c.UserContext(), id)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(fiber.Map{"user": acc})
}

// PUT /api/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid id")
	}
	var upd model.EmployeeUpdate
	if err := c.BodyParser(&upd); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	validator.TrimStrings(&upd)
	if errs := validator.ValidateStruct(upd); len(errs) > 0 {
		return fail(c, fiber.StatusUnprocessableEntity, validator.FirstMessage(errs))
	}
	acc, err := s.store.UpdateAccount(c.UserContext(), id, upd)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "User updated", "user": acc})
}

// DELETE /api/users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid id")
	}
	if err := s.store.DeleteAccount(c.UserContext(), id); err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "User deleted"})
}
