package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// writeError traduce la taxonomía de errores del dominio a status y código HTTP.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			resp.Field = verr.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case domain.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case domain.KindExhaustion:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNIT_RANGE_EXHAUSTED", Message: err.Error()})
	case domain.KindPartialWrite:
		// Ya se revirtió: el cliente puede reintentar.
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PARTIAL_WRITE", Message: err.Error()})
	case domain.KindCompensation:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "COMPENSATION_FAILED",
			Message: "el movimiento quedó incompleto y requiere conciliación manual",
		})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
