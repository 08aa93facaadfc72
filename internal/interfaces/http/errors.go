package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/pkg/logger"
)

type errorMapping struct {
	kind    error
	status  int
	code    string
	message string // mensaje por defecto si el error no trae uno para el cliente
}

// El orden importa: gana el primer kind que coincida con errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "Dados inválidos"},
	{domain.ErrNoEntries, fiber.StatusBadRequest, "NO_ENTRIES", "Nenhum lançamento encontrado no período"},
	{domain.ErrExpiredToken, fiber.StatusBadRequest, "EXPIRED_TOKEN", "Token expirado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "Credenciais inválidas"},
	{domain.ErrMissingToken, fiber.StatusUnauthorized, "MISSING_TOKEN", "Token não fornecido"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN", "Token inválido"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "Sem permissão"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "Não encontrado"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "Registro duplicado"},
	{domain.ErrMailUnavailable, fiber.StatusInternalServerError, "MAIL_UNAVAILABLE", "Envio de e-mail não configurado"},
}

// ErrorWriter traduce errores de dominio a respuestas {error, code, detail?}.
// detail (err.Error()) solo se incluye en desarrollo.
type ErrorWriter struct {
	Log *logger.Logger
	Dev bool
}

// Write responde con el status correspondiente a err. Los 5xx se registran en el log.
func (w ErrorWriter) Write(c *fiber.Ctx, err error) error {
	status, body := w.classify(err)
	if status >= fiber.StatusInternalServerError && w.Log != nil {
		w.Log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func (w ErrorWriter) classify(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		body := dto.ErrorResponse{Error: m.message, Code: m.code}
		var de *domain.Error
		if errors.As(err, &de) && de.Message != "" {
			body.Error = de.Message
		}
		if m.status >= fiber.StatusInternalServerError && w.Dev {
			body.Detail = err.Error()
		}
		return m.status, body
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return fe.Code, dto.ErrorResponse{Error: fe.Message, Code: "HTTP_" + strconv.Itoa(fe.Code)}
	}

	body := dto.ErrorResponse{Error: "Erro interno do servidor", Code: "INTERNAL"}
	if w.Dev {
		body.Detail = err.Error()
	}
	return fiber.StatusInternalServerError, body
}

// NewErrorHandler fiber.ErrorHandler global: rutas inexistentes, panics recuperados
// y cualquier error devuelto sin pasar por ErrorWriter.
func NewErrorHandler(w ErrorWriter) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return w.Write(c, err)
	}
}

// badBody respuesta estándar para JSON mal formado.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "Corpo da requisição inválido"})
}
