package timesheet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
)

// TxRunner ejecuta la submisión dentro de una transacción: los lanzamientos seleccionados
// quedan bloqueados hasta el commit y un fallo de envío revierte el cambio de estado.
type TxRunner interface {
	RunSubmission(ctx context.Context, fn func(entryRepo repository.TimesheetRepository) error) error
}

// ReportData datos del informe PDF de un período.
type ReportData struct {
	Employee    *entity.Employee
	From        time.Time
	To          time.Time
	Entries     []*entity.TimesheetEntry
	TotalHours  decimal.Decimal
	GeneratedAt time.Time
}

// ReportGenerator puerto de salida para el informe PDF (implementado en infrastructure/pdf).
type ReportGenerator interface {
	GenerateTimesheetReport(ctx context.Context, data ReportData) ([]byte, error)
}

// SpreadsheetExporter puerto de salida para la exportación XLSX (implementado en infrastructure/xlsx).
type SpreadsheetExporter interface {
	ExportTimesheet(ctx context.Context, rows []*entity.TimesheetEntryView) ([]byte, error)
}

// SubmissionRecorder registra métricas de submisión. Opcional.
type SubmissionRecorder interface {
	ObserveSubmission(totalHours float64, count int)
}
