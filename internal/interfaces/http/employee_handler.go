package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/application/onboarding"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
)

// EmployeeHandler alta y listado de colaboradores (solo adm).
type EmployeeHandler struct {
	uc   *onboarding.OnboardingUseCase
	errs ErrorWriter
}

// NewEmployeeHandler construye el handler.
func NewEmployeeHandler(uc *onboarding.OnboardingUseCase, errs ErrorWriter) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, errs: errs}
}

// Register godoc
// @Summary      Cadastrar colaborador (empresa por CNPJ + datos bancarios opcionales)
// @Tags         colaboradores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RegisterEmployeeRequest  true  "colaborador, empresa, banco"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /colaboradores/cadastro [post]
func (h *EmployeeHandler) Register(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return h.errs.Write(c, domain.ErrMissingToken)
	}
	var in dto.RegisterEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.RegisterEmployee(c.UserContext(), identity, in); err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Colaborador cadastrado com sucesso"})
}

// List godoc
// @Summary      Listar colaboradores
// @Tags         colaboradores
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.EmployeeListItem
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /colaboradores/listagem [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return h.errs.Write(c, domain.ErrMissingToken)
	}
	list, err := h.uc.ListEmployees(c.UserContext(), identity)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(list)
}
