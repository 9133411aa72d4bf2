package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
	"product-catalog-service/internal/transport/httpserver/dto"
)

// DashboardHandler serves the HTML dashboard and its stats API.
type DashboardHandler struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	search     domain.SearchBackend
	logger     *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	search domain.SearchBackend,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		products:   products,
		categories: categories,
		search:     search,
		logger:     logger,
	}
}

// Render handles GET /dashboard
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	stats := h.collectStats(c)

	return c.Render("pages/dashboard", fiber.Map{
		"Title":           "Product Catalog",
		"TotalProducts":   stats.TotalProducts,
		"TotalCategories": stats.TotalCategories,
		"SearchAvailable": stats.SearchAvailable,
		"Timestamp":       stats.Timestamp,
	}, "layouts/base")
}

// Stats handles GET /api/v1/admin/stats
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.collectStats(c))
}

// Health handles GET /health
//
// The search engine being down only degrades the status: reads fall
// back to the store.
func (h *DashboardHandler) Health(c *fiber.Ctx) error {
	ctx := c.Context()
	status := "healthy"
	checks := map[string]string{
		"database": "ok",
		"search":   "ok",
	}

	if err := h.products.Ping(ctx); err != nil {
		checks["database"] = "down"
		status = "unhealthy"
	}
	if !h.search.IsAvailable(ctx) {
		checks["search"] = "down"
		if status == "healthy" {
			status = "degraded"
		}
	}

	code := fiber.StatusOK
	if status == "unhealthy" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// collectStats gathers counts best-effort; a failing store shows zeros
// rather than breaking the dashboard.
func (h *DashboardHandler) collectStats(c *fiber.Ctx) dto.StatsResponse {
	ctx := c.Context()

	productCount, err := h.products.Count(ctx)
	if err != nil {
		h.logger.Warn("failed to count products", zap.Error(err))
	}

	categoryCount, err := h.categories.Count(ctx)
	if err != nil {
		h.logger.Warn("failed to count categories", zap.Error(err))
	}

	return dto.NewStatsResponse(productCount, categoryCount, h.search.IsAvailable(ctx))
}
