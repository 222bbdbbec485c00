package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/auth"
	"github.com/electrodrive/catalog-api/internal/metrics"
	"github.com/electrodrive/catalog-api/internal/middleware"
	"github.com/electrodrive/catalog-api/internal/models"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *auth.Service
	logger      *logrus.Logger
}

func NewAuthHandler(authService *auth.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, token, err := h.authService.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthAttempt("register", "failure")
		return respondError(c, err)
	}
	metrics.RecordAuthAttempt("register", "success")

	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		Success: true,
		Token:   token,
		Data:    user.PublicData(),
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthAttempt("login", "failure")
		return respondError(c, err)
	}
	metrics.RecordAuthAttempt("login", "success")

	return c.JSON(models.AuthResponse{
		Success: true,
		Token:   token,
		Data:    user.PublicData(),
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	data := user.PublicData()
	data.CreatedAt = user.CreatedAt

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless; the client
// discards its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.authService.Logout()

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{},
	})
}

// CreateAdmin handles POST /auth/create-admin
func (h *AuthHandler) CreateAdmin(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.authService.CreateAdmin(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id":   user.ID,
		"created_by": middleware.GetUserID(c),
	}).Info("Admin account created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user.PublicData(),
	})
}
