package timesheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/application/ports"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
	domts "github.com/cauamenezes/sistema-timesheet/internal/domain/timesheet"
	"github.com/cauamenezes/sistema-timesheet/pkg/logger"
)

// MaxHoursPerEntry tope de horas de un lanzamiento.
var MaxHoursPerEntry = decimal.NewFromInt(24)

// TimesheetUseCase lanzamientos de horas: alta, listado, submisión de período, informe y exportación.
type TimesheetUseCase struct {
	txRunner     TxRunner
	entries      repository.TimesheetRepository
	employees    repository.EmployeeRepository
	mailer       ports.Mailer
	reports      ReportGenerator
	exporter     SpreadsheetExporter
	recorder     SubmissionRecorder
	financeEmail string
	log          *logger.Logger
	now          func() time.Time
}

// NewTimesheetUseCase construye el caso de uso inyectando sus dependencias.
// financeEmail vacío deshabilita el envío del resumen.
func NewTimesheetUseCase(
	txRunner TxRunner,
	entries repository.TimesheetRepository,
	employees repository.EmployeeRepository,
	mailer ports.Mailer,
	reports ReportGenerator,
	exporter SpreadsheetExporter,
	financeEmail string,
	log *logger.Logger,
) *TimesheetUseCase {
	return &TimesheetUseCase{
		txRunner:     txRunner,
		entries:      entries,
		employees:    employees,
		mailer:       mailer,
		reports:      reports,
		exporter:     exporter,
		financeEmail: strings.TrimSpace(financeEmail),
		log:          log,
		now:          time.Now,
	}
}

// WithRecorder registra métricas de cada submisión exitosa.
func (uc *TimesheetUseCase) WithRecorder(r SubmissionRecorder) *TimesheetUseCase {
	uc.recorder = r
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *TimesheetUseCase) WithClock(now func() time.Time) *TimesheetUseCase {
	uc.now = now
	return uc
}

// CreateEntry registra un lanzamiento en draft para el colaborador autenticado.
func (uc *TimesheetUseCase) CreateEntry(ctx context.Context, identity entity.Identity, in dto.CreateEntryRequest) (*dto.CreateEntryResponse, error) {
	desc := strings.TrimSpace(in.Description)
	if in.ClientID <= 0 || in.ProjectID <= 0 || strings.TrimSpace(in.Date) == "" || in.Hours == nil || desc == "" {
		return nil, domain.E(domain.ErrInvalidInput, "Campos obrigatórios: cliente_id, projeto_id, data, horas, descricao")
	}
	date, err := parseDate(in.Date, "data")
	if err != nil {
		return nil, err
	}
	hours := *in.Hours
	if !hours.IsPositive() || hours.GreaterThan(MaxHoursPerEntry) {
		return nil, domain.E(domain.ErrInvalidInput, "horas deve ser maior que 0 e no máximo 24")
	}
	if !hours.Round(2).Equal(hours) {
		return nil, domain.E(domain.ErrInvalidInput, "horas aceita no máximo duas casas decimais")
	}

	entry := &entity.TimesheetEntry{
		EmployeeID:  identity.ID,
		ClientID:    in.ClientID,
		ProjectID:   in.ProjectID,
		Date:        date,
		Hours:       hours,
		Description: desc,
		Status:      entity.EntryStatusDraft,
		CreatedAt:   uc.now(),
	}
	if err := uc.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("timesheet: crear lanzamiento: %w", err)
	}
	return &dto.CreateEntryResponse{ID: entry.ID}, nil
}

// ListEntries lista lanzamientos (fecha desc, id desc). Un no administrador solo ve los propios,
// sin importar el colaborador_id recibido.
func (uc *TimesheetUseCase) ListEntries(ctx context.Context, identity entity.Identity, q dto.EntryQuery) ([]dto.EntryResponse, error) {
	filter, err := scopedFilter(identity, q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.entries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("timesheet: listar: %w", err)
	}
	out := make([]dto.EntryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toEntryResponse(r))
	}
	return out, nil
}

// SubmitRange submete los lanzamientos draft del colaborador en [from, to].
//
// Selección, envío del resumen y cambio de estado ocurren en la misma transacción:
// si el correo falla, los lanzamientos siguen en draft. Un período ya submetido
// devuelve domain.ErrNoEntries y no reenvía nada.
func (uc *TimesheetUseCase) SubmitRange(ctx context.Context, identity entity.Identity, in dto.SubmitRequest) (*dto.SubmitResponse, error) {
	if strings.TrimSpace(in.From) == "" || strings.TrimSpace(in.To) == "" {
		return nil, domain.E(domain.ErrInvalidInput, "Parâmetros from e to são obrigatórios")
	}
	period, err := parsePeriod(in.From, in.To)
	if err != nil {
		return nil, err
	}

	emp, err := uc.employees.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("submit: buscar colaborador: %w", err)
	}
	if emp == nil {
		return nil, domain.E(domain.ErrNotFound, "Colaborador não encontrado")
	}

	send := uc.mailer.Enabled() && uc.financeEmail != ""
	var summary domts.Summary

	err = uc.txRunner.RunSubmission(ctx, func(entryRepo repository.TimesheetRepository) error {
		entries, err := entryRepo.ListDraftForUpdate(ctx, emp.ID, period.From, period.To)
		if err != nil {
			return fmt.Errorf("submit: seleccionar lanzamientos: %w", err)
		}
		if len(entries) == 0 {
			return domain.E(domain.ErrNoEntries, "Nenhum lançamento encontrado no período")
		}
		summary = domts.BuildSummary(emp, period, entries)

		if send {
			msg := ports.MailMessage{
				Kind:    ports.MailKindSubmission,
				To:      []string{uc.financeEmail},
				Subject: summary.Subject,
				Body:    summary.Body,
			}
			if att, ok := uc.reportAttachment(ctx, emp, period, entries, summary.TotalHours); ok {
				msg.Attachments = append(msg.Attachments, att)
			}
			if err := uc.mailer.Send(ctx, msg); err != nil {
				return fmt.Errorf("submit: enviar resumen: %w", err)
			}
		}

		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		if _, err := entryRepo.MarkSubmitted(ctx, ids); err != nil {
			return fmt.Errorf("submit: actualizar estado: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := summary.TotalHours.InexactFloat64()
	if uc.recorder != nil {
		uc.recorder.ObserveSubmission(total, summary.Count)
	}

	resp := &dto.SubmitResponse{OK: true, TotalHours: total, Count: summary.Count}
	if send {
		to := uc.financeEmail
		resp.SentTo = &to
	} else {
		uc.log.Warn().Int64("colaborador_id", emp.ID).Str("periodo", period.String()).
			Msg("correo no configurado; resumen de timesheet no enviado")
	}
	uc.log.Info().Int64("colaborador_id", emp.ID).Int("count", summary.Count).
		Str("total_horas", summary.TotalHours.String()).Msg("período submetido")
	return resp, nil
}

// Report genera el PDF de los lanzamientos de un período (mismo alcance que ListEntries).
func (uc *TimesheetUseCase) Report(ctx context.Context, identity entity.Identity, q dto.EntryQuery) ([]byte, string, error) {
	if strings.TrimSpace(q.From) == "" || strings.TrimSpace(q.To) == "" {
		return nil, "", domain.E(domain.ErrInvalidInput, "Parâmetros from e to são obrigatórios")
	}
	filter, err := scopedFilter(identity, q)
	if err != nil {
		return nil, "", err
	}
	emp, err := uc.employees.GetByID(ctx, filter.EmployeeID)
	if err != nil {
		return nil, "", fmt.Errorf("report: buscar colaborador: %w", err)
	}
	if emp == nil {
		return nil, "", domain.E(domain.ErrNotFound, "Colaborador não encontrado")
	}
	rows, err := uc.entries.List(ctx, filter)
	if err != nil {
		return nil, "", fmt.Errorf("report: listar: %w", err)
	}
	entries := make([]*entity.TimesheetEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- { // orden cronológico
		e := rows[i].TimesheetEntry
		entries = append(entries, &e)
	}

	data := ReportData{
		Employee:    emp,
		From:        *filter.From,
		To:          *filter.To,
		Entries:     entries,
		TotalHours:  domts.TotalHours(entries),
		GeneratedAt: uc.now(),
	}
	pdfBytes, err := uc.reports.GenerateTimesheetReport(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("report: generación fallida: %w", err)
	}
	return pdfBytes, reportFilename(emp.ID, data.From, data.To, "pdf"), nil
}

// Export genera un XLSX con las mismas filas que devolvería ListEntries.
func (uc *TimesheetUseCase) Export(ctx context.Context, identity entity.Identity, q dto.EntryQuery) ([]byte, string, error) {
	filter, err := scopedFilter(identity, q)
	if err != nil {
		return nil, "", err
	}
	rows, err := uc.entries.List(ctx, filter)
	if err != nil {
		return nil, "", fmt.Errorf("export: listar: %w", err)
	}
	data, err := uc.exporter.ExportTimesheet(ctx, rows)
	if err != nil {
		return nil, "", fmt.Errorf("export: generación fallida: %w", err)
	}
	name := fmt.Sprintf("timesheet_%d.xlsx", filter.EmployeeID)
	if filter.From != nil && filter.To != nil {
		name = reportFilename(filter.EmployeeID, *filter.From, *filter.To, "xlsx")
	}
	return data, name, nil
}

// reportAttachment genera el PDF adjunto del resumen. Un fallo no impide el envío.
func (uc *TimesheetUseCase) reportAttachment(
	ctx context.Context,
	emp *entity.Employee,
	period domts.Period,
	entries []*entity.TimesheetEntry,
	total decimal.Decimal,
) (ports.Attachment, bool) {
	if uc.reports == nil {
		return ports.Attachment{}, false
	}
	pdfBytes, err := uc.reports.GenerateTimesheetReport(ctx, ReportData{
		Employee:    emp,
		From:        period.From,
		To:          period.To,
		Entries:     entries,
		TotalHours:  total,
		GeneratedAt: uc.now(),
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("colaborador_id", emp.ID).Msg("no se pudo generar el PDF; se envía sin adjunto")
		return ports.Attachment{}, false
	}
	return ports.Attachment{
		Filename:    reportFilename(emp.ID, period.From, period.To, "pdf"),
		ContentType: "application/pdf",
		Data:        pdfBytes,
	}, true
}

// scopedFilter traduce la query en filtro de repositorio aplicando el alcance por perfil.
func scopedFilter(identity entity.Identity, q dto.EntryQuery) (repository.TimesheetFilter, error) {
	f := repository.TimesheetFilter{EmployeeID: identity.ID}
	if identity.IsAdmin() && q.EmployeeID > 0 {
		f.EmployeeID = q.EmployeeID
	}
	if s := strings.TrimSpace(q.From); s != "" {
		d, err := parseDate(s, "from")
		if err != nil {
			return f, err
		}
		f.From = &d
	}
	if s := strings.TrimSpace(q.To); s != "" {
		d, err := parseDate(s, "to")
		if err != nil {
			return f, err
		}
		f.To = &d
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, domain.E(domain.ErrInvalidInput, "from deve ser anterior ou igual a to")
	}
	if s := strings.TrimSpace(q.Status); s != "" {
		if !entity.ValidEntryStatus(s) {
			return f, domain.E(domain.ErrInvalidInput, "status deve ser draft ou submitted")
		}
		f.Status = s
	}
	return f, nil
}

func parsePeriod(from, to string) (domts.Period, error) {
	f, err := parseDate(from, "from")
	if err != nil {
		return domts.Period{}, err
	}
	t, err := parseDate(to, "to")
	if err != nil {
		return domts.Period{}, err
	}
	if f.After(t) {
		return domts.Period{}, domain.E(domain.ErrInvalidInput, "from deve ser anterior ou igual a to")
	}
	return domts.Period{From: f, To: t}, nil
}

func parseDate(s, field string) (time.Time, error) {
	d, err := time.Parse(domts.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.E(domain.ErrInvalidInput, field+" deve estar no formato YYYY-MM-DD")
	}
	return d, nil
}

func reportFilename(employeeID int64, from, to time.Time, ext string) string {
	return fmt.Sprintf("timesheet_%d_%s_%s.%s", employeeID, from.Format(domts.DateLayout), to.Format(domts.DateLayout), ext)
}

func toEntryResponse(v *entity.TimesheetEntryView) dto.EntryResponse {
	return dto.EntryResponse{
		ID:          v.ID,
		EmployeeID:  v.EmployeeID,
		FullName:    v.EmployeeName,
		Email:       v.EmployeeEmail,
		Date:        v.Date.Format(domts.DateLayout),
		ClientID:    v.ClientID,
		ProjectID:   v.ProjectID,
		Description: v.Description,
		Hours:       v.Hours.InexactFloat64(),
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
	}
}
