package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Pinger verifica la conexión con la base (lo implementa *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler endpoints de salud.
type HealthHandler struct {
	db   Pinger
	errs ErrorWriter
}

// NewHealthHandler construye el handler.
func NewHealthHandler(db Pinger, errs ErrorWriter) *HealthHandler {
	return &HealthHandler{db: db, errs: errs}
}

// Health godoc
// @Summary      Salud del proceso
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.OKResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// DB godoc
// @Summary      Salud de la base de datos
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /db/health [get]
func (h *HealthHandler) DB(c *fiber.Ctx) error {
	if h.db == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"db": "error"})
	}
	if err := h.db.Ping(c.UserContext()); err != nil {
		if h.errs.Log != nil {
			h.errs.Log.Error().Err(err).Msg("ping a la base de datos")
		}
		body := fiber.Map{"db": "error"}
		if h.errs.Dev {
			body["detail"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.JSON(fiber.Map{"db": "ok"})
}
