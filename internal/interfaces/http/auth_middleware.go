package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/pkg/jwt"
)

// LocalIdentity clave de Locals donde AuthMiddleware deja la entity.Identity.
const LocalIdentity = "identity"

// AuthMiddleware valida el Bearer Token JWT y guarda la identidad tipada en c.Locals.
// Los handlers la leen con IdentityFrom y la pasan explícitamente a los casos de uso.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: "Token não fornecido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 1 && strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: "Token não fornecido"})
		}
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: "Formato esperado: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: "Token não fornecido"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			msg := "Token inválido"
			if errors.Is(err, jwt.ErrExpired) {
				msg = "Token expirado"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: msg})
		}
		c.Locals(LocalIdentity, entity.Identity{ID: claims.ID, Email: claims.Email, Role: claims.Role})
		return c.Next()
	}
}

// RequireRole autoriza solo los perfiles indicados. Usar DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE si el token no trae tipo_perfil.
//   - 403 FORBIDDEN si el perfil no está en la lista.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok || identity.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Error: "Perfil ausente no token"})
		}
		for _, r := range roles {
			if identity.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Error: "Sem permissão"})
	}
}

// IdentityFrom devuelve la identidad autenticada (después del middleware de auth).
func IdentityFrom(c *fiber.Ctx) (entity.Identity, bool) {
	identity, ok := c.Locals(LocalIdentity).(entity.Identity)
	return identity, ok
}
