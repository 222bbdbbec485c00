package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/catalog"
	"github.com/electrodrive/catalog-api/internal/models"
)

// MotorHandler handles catalog endpoints
type MotorHandler struct {
	catalogService *catalog.Service
	logger         *logrus.Logger
}

func NewMotorHandler(catalogService *catalog.Service, logger *logrus.Logger) *MotorHandler {
	return &MotorHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// parseListQuery extracts filters and the page window from the query
// string. Unparseable numeric values are treated as absent.
func parseListQuery(c *fiber.Ctx) (*models.MotorFilter, int, int) {
	filter := &models.MotorFilter{
		Search: c.Query("search"),
	}

	if v := c.Query("minPower"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPower = &f
		}
	}
	if v := c.Query("maxPower"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPower = &f
		}
	}
	if v := c.Query("available"); v != "" {
		available := v == "true"
		filter.Available = &available
	}

	page := c.QueryInt("page", catalog.DefaultPage)
	limit := c.QueryInt("limit", catalog.DefaultLimit)

	return filter, page, limit
}

// List handles GET /motors
func (h *MotorHandler) List(c *fiber.Ctx) error {
	filter, page, limit := parseListQuery(c)

	result, err := h.catalogService.List(c.Context(), filter, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	motors := result.Motors
	if motors == nil {
		motors = []models.Motor{}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(motors),
		"total":      result.Total,
		"pagination": result.Pagination,
		"data":       motors,
	})
}

// Get handles GET /motors/:id
func (h *MotorHandler) Get(c *fiber.Ctx) error {
	motor, err := h.catalogService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    motor,
	})
}

// Create handles POST /motors
func (h *MotorHandler) Create(c *fiber.Ctx) error {
	var input models.MotorInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	motor, err := h.catalogService.Create(c.Context(), &input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    motor,
	})
}

// Update handles PUT /motors/:id
func (h *MotorHandler) Update(c *fiber.Ctx) error {
	var input models.MotorInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	motor, err := h.catalogService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    motor,
	})
}

// Delete handles DELETE /motors/:id
func (h *MotorHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalogService.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{},
	})
}

// Search handles GET /motors/search
func (h *MotorHandler) Search(c *fiber.Ctx) error {
	motors, err := h.catalogService.Search(c.Context(), c.Query("keyword"))
	if err != nil {
		return respondError(c, err)
	}

	if motors == nil {
		motors = []models.Motor{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(motors),
		"data":    motors,
	})
}
