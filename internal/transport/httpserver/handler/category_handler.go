package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-catalog-service/internal/app/service"
	"product-catalog-service/internal/transport/httpserver/dto"
)

// CategoryHandler handles category CRUD HTTP requests.
type CategoryHandler struct {
	service *service.CategoryService
	logger  *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
		logger:  logger,
	}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.service.GetAll(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainCategories(categories))
}

// ListByProduct handles GET /api/v1/products/:id/categories
func (h *CategoryHandler) ListByProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	categories, err := h.service.GetByProduct(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainCategories(categories))
}

// GetByID handles GET /api/v1/categories/:id
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	category, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if category == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "category not found",
			Code:  "NOT_FOUND",
		})
	}

	return c.JSON(dto.FromDomainCategory(category))
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	category, err := h.service.Create(c.Context(), service.CreateCategoryInput{Name: req.Name})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainCategory(category))
}

// Update handles PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	category, err := h.service.Update(c.Context(), id, req.Name)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainCategory(category))
}

// Delete handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
