package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Documentos-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Documentos-api/pkg/logger"
)

// HeaderRequestID cabecera con el id de la petición (se respeta el recibido).
const HeaderRequestID = "X-Request-ID"

// Locals keys para request id y logger de la petición en Fiber.
const (
	LocalRequestID = "request_id"
	LocalLogger    = "logger"
)

// RequestID asigna un id a cada petición y lo devuelve en la respuesta.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// RequestLogger registra cada petición con su request id y alimenta las métricas HTTP.
// Debe usarse DESPUÉS de RequestID.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.IncInFlight()
		defer m.DecInFlight()

		reqLog := log.WithStr(LocalRequestID, GetRequestID(c))
		c.Locals(LocalLogger, reqLog)

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		m.RecordHTTP(c.Method(), c.Route().Path, status, elapsed)

		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("petición HTTP")
		return nil
	}
}

// GetRequestID devuelve el id de la petición (después de RequestID).
func GetRequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}

// GetLogger devuelve el logger de la petición; nil si RequestLogger no corrió.
func GetLogger(c *fiber.Ctx) *logger.Logger {
	l, _ := c.Locals(LocalLogger).(*logger.Logger)
	return l
}
