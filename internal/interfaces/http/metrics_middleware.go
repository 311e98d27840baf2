package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver recibe cada request terminado (lo implementa metrics.Collectors).
type RequestObserver interface {
	ObserveHTTP(method, path, status string, elapsed time.Duration)
}

// MetricsMiddleware mide cantidad y duración de requests por ruta registrada (no por path crudo,
// para no abrir una serie por cada id).
func MetricsMiddleware(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		obs.ObserveHTTP(c.Method(), c.Route().Path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
