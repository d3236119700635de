package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID cabecera de correlación; se respeta la del cliente si llega.
const HeaderRequestID = "X-Request-ID"

// LocalRequestID key en c.Locals para el id de la petición.
const LocalRequestID = "request_id"

// RequestLogger asigna un id a la petición y registra método, ruta, estado y latencia.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(LocalRequestID, reqID)
		c.Set(HeaderRequestID, reqID)

		reqLog := log.With().Str("request_id", reqID).Logger()

		err := c.Next()
		if err != nil {
			// Dejar que el ErrorHandler de Fiber escriba la respuesta antes de leer el estado.
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		evt := reqLog.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			evt = reqLog.Error()
		case status >= fiber.StatusBadRequest:
			evt = reqLog.Warn()
		}
		evt.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_id", GetClientID(c)).
			Msg("petición HTTP")
		return nil
	}
}
