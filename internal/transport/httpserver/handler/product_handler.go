package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-catalog-service/internal/app/service"
	"product-catalog-service/internal/transport/httpserver/dto"
	"product-catalog-service/internal/validator"
)

// ProductHandler handles product CRUD and search HTTP requests.
type ProductHandler struct {
	service   *service.ProductService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService, v *validator.Validator, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/products
//
// Filters hit the store directly; /products/search goes through the
// search facade instead.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if req == (dto.SearchRequest{}) {
		products, err := h.service.GetAll(c.Context())
		if err != nil {
			return respondError(c, h.logger, err)
		}

		return c.JSON(dto.FromDomainProducts(products))
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	products, err := h.service.GetFiltered(c.Context(), req.ToFilters())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainProducts(products))
}

// GetByID handles GET /api/v1/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	product, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "product not found",
			Code:  "NOT_FOUND",
		})
	}

	return c.JSON(dto.FromDomainProduct(product))
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	product, err := h.service.Create(c.Context(), req.ToInput())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("product created",
		zap.Uint("id", product.ID),
		zap.String("inn", product.INN),
	)

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainProduct(product))
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	product, err := h.service.Update(c.Context(), id, req.ToInput())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainProduct(product))
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Search handles GET /api/v1/products/search
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	results, err := h.service.Search(c.Context(), req.ToFilters())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromSearchResults(results))
}

// SearchByID handles GET /api/v1/products/search/:id
func (h *ProductHandler) SearchByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	result, err := h.service.SearchByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if result == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "product not found",
			Code:  "NOT_FOUND",
		})
	}

	return c.JSON(dto.FromSearchResult(*result))
}
