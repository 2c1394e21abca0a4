package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

// RequestObserver records per-request metrics.
type RequestObserver interface {
	ObserveRequest(route, method, status string, seconds float64)
}

// RequestLogger logs every request with zerolog and reports it to obs when
// obs is not nil. The route label is the matched pattern ("/api/invoices/:id"),
// never the raw path.
func RequestLogger(log *logger.Logger, obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler set the status before we read it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("ip", c.IP()).
			Str("user_id", GetUserID(c)).
			Msg("http request")

		if obs != nil {
			obs.ObserveRequest(c.Route().Path, c.Method(), strconv.Itoa(status), elapsed.Seconds())
		}
		return nil
	}
}
