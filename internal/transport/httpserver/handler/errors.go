// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
	"product-catalog-service/internal/transport/httpserver/dto"
)

// respondError maps domain errors onto HTTP responses. Validation and
// duplicate failures are the client's problem, external collaborator
// failures surface as a bad gateway, everything else is a 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var (
		verr *domain.ValidationError
		dup  *domain.DuplicateResourceError
		nf   *domain.NotFoundError
		ext  *domain.ExternalServiceError
	)

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: verr.Violations,
		})

	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: dup.Error(),
			Code:  "DUPLICATE_RESOURCE",
		})

	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: nf.Error(),
			Code:  "NOT_FOUND",
		})

	case errors.As(err, &ext):
		logger.Warn("external service failure",
			zap.String("kind", string(ext.Kind)),
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: ext.Message,
			Code:  externalErrorCode(ext.Kind),
		})

	default:
		logger.Error("request failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}

func externalErrorCode(kind domain.ExternalKind) string {
	switch kind {
	case domain.ExternalKindRejected:
		return "INN_REJECTED"
	case domain.ExternalKindUnreachable:
		return "VERIFICATION_UNAVAILABLE"
	case domain.ExternalKindSearch:
		return "SEARCH_UNAVAILABLE"
	default:
		return "EXTERNAL_ERROR"
	}
}

// parseID reads a positive integer path parameter. When the value does
// not parse, the 400 response is already written and ok is false.
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "id must be a positive integer",
			Code:  "INVALID_ID",
		})

		return 0, false
	}

	return uint(id), true
}
