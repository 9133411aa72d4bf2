package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-catalog-service/internal/app/service"
	"product-catalog-service/internal/transport/httpserver/dto"
)

// AdminHandler handles administrative HTTP requests.
type AdminHandler struct {
	products *service.ProductService
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(products *service.ProductService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		products: products,
		logger:   logger,
	}
}

// Reindex handles POST /api/v1/admin/reindex
//
// Rebuilds the search index from the product store. Individual document
// failures are logged, not fatal; the count reflects submissions.
func (h *AdminHandler) Reindex(c *fiber.Ctx) error {
	start := time.Now()

	count, err := h.products.ReindexAll(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("manual reindex triggered",
		zap.Int("indexed", count),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(dto.ReindexResponse{
		Indexed:  count,
		Duration: time.Since(start).String(),
	})
}
