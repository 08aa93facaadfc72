package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/application/timesheet"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TimesheetHandler lanzamientos de horas.
type TimesheetHandler struct {
	uc   *timesheet.TimesheetUseCase
	errs ErrorWriter
}

// NewTimesheetHandler construye el handler.
func NewTimesheetHandler(uc *timesheet.TimesheetUseCase, errs ErrorWriter) *TimesheetHandler {
	return &TimesheetHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Registrar lanzamiento de horas
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateEntryRequest  true  "cliente_id, projeto_id, data, horas, descricao"
// @Success      201   {object}  dto.CreateEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /timesheets [post]
func (h *TimesheetHandler) Create(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return h.errs.Write(c, domain.ErrMissingToken)
	}
	var in dto.CreateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateEntry(c.UserContext(), identity, in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar lanzamientos
// @Description  Un consultor solo ve los propios; adm puede filtrar por colaborador_id.
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        from            query  string  false  "YYYY-MM-DD"
// @Param        to              query  string  false  "YYYY-MM-DD"
// @Param        status          query  string  false  "draft | submitted"
// @Param        colaborador_id  query  int     false  "solo adm"
// @Success      200  {array}   dto.EntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /timesheets [get]
func (h *TimesheetHandler) List(c *fiber.Ctx) error {
	identity, q, err := h.query(c)
	if err != nil {
		return h.errs.Write(c, err)
	}
	rows, err := h.uc.ListEntries(c.UserContext(), identity, q)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(rows)
}

// Submit godoc
// @Summary      Submeter período
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SubmitRequest  true  "from, to"
// @Success      200   {object}  dto.SubmitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /timesheets/submit [post]
func (h *TimesheetHandler) Submit(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return h.errs.Write(c, domain.ErrMissingToken)
	}
	var in dto.SubmitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SubmitRange(c.UserContext(), identity, in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Informe PDF del período
// @Tags         timesheets
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        from            query  string  true   "YYYY-MM-DD"
// @Param        to              query  string  true   "YYYY-MM-DD"
// @Param        colaborador_id  query  int     false  "solo adm"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /timesheets/report [get]
func (h *TimesheetHandler) Report(c *fiber.Ctx) error {
	identity, q, err := h.query(c)
	if err != nil {
		return h.errs.Write(c, err)
	}
	data, filename, err := h.uc.Report(c.UserContext(), identity, q)
	if err != nil {
		return h.errs.Write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(data)
}

// Export godoc
// @Summary      Exportar lanzamientos a XLSX
// @Tags         timesheets
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        from            query  string  false  "YYYY-MM-DD"
// @Param        to              query  string  false  "YYYY-MM-DD"
// @Param        status          query  string  false  "draft | submitted"
// @Param        colaborador_id  query  int     false  "solo adm"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /timesheets/export [get]
func (h *TimesheetHandler) Export(c *fiber.Ctx) error {
	identity, q, err := h.query(c)
	if err != nil {
		return h.errs.Write(c, err)
	}
	data, filename, err := h.uc.Export(c.UserContext(), identity, q)
	if err != nil {
		return h.errs.Write(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, mimeXLSX)
	return c.Send(data)
}

// query lee identidad y filtros de la query string.
func (h *TimesheetHandler) query(c *fiber.Ctx) (entity.Identity, dto.EntryQuery, error) {
	var q dto.EntryQuery
	identity, ok := IdentityFrom(c)
	if !ok {
		return identity, q, domain.ErrMissingToken
	}
	if err := c.QueryParser(&q); err != nil {
		return identity, q, domain.E(domain.ErrInvalidInput, "Parâmetros de consulta inválidos")
	}
	return identity, q, nil
}
