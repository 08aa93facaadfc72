package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cauamenezes/sistema-timesheet/internal/application/auth"
	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
)

// AuthHandler maneja login, redefinición de contraseña y auto-registro.
type AuthHandler struct {
	uc            *auth.AuthUseCase
	errs          ErrorWriter
	allowRegister bool
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, errs ErrorWriter, allowRegister bool) *AuthHandler {
	return &AuthHandler{uc: uc, errs: errs, allowRegister: allowRegister}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, senha"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// Recover godoc
// @Summary      Solicitar redefinición de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecoverRequest  true  "email"
// @Success      200   {object}  dto.OKResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /auth/recover [post]
func (h *AuthHandler) Recover(c *fiber.Ctx) error {
	var in dto.RecoverRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.RequestPasswordReset(c.UserContext(), in); err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(dto.OKResponse{OK: true, Msg: "E-mail de recuperação enviado"})
}

// Reset godoc
// @Summary      Confirmar redefinición de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetRequest  true  "token, novaSenha"
// @Success      200   {object}  dto.OKResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /auth/reset [post]
func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	var in dto.ResetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.ConfirmPasswordReset(c.UserContext(), in); err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(dto.OKResponse{OK: true, Msg: "Senha redefinida com sucesso"})
}

// Register godoc
// @Summary      Auto-registro de consultor (ALLOW_SELF_REGISTER)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelfRegisterRequest  true  "nome_completo, email, senha"
// @Success      201   {object}  dto.LoginResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	if !h.allowRegister {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Error: "Não encontrado"})
	}
	var in dto.SelfRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SelfRegister(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
