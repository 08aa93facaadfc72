package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lanzamiento de horas.
const (
	EntryStatusDraft     = "draft"
	EntryStatusSubmitted = "submitted"
)

// ValidEntryStatus informa si s es un estado de lanzamiento conocido.
func ValidEntryStatus(s string) bool {
	return s == EntryStatusDraft || s == EntryStatusSubmitted
}

// TimesheetEntry lanzamiento de horas trabajadas (tabla horas_trabalhadas).
// Solo transiciona draft → submitted mediante la submisión de un período.
type TimesheetEntry struct {
	ID          int64
	EmployeeID  int64
	ClientID    int64
	ProjectID   int64
	Date        time.Time // solo fecha (UTC, 00:00)
	Hours       decimal.Decimal
	Description string
	Status      string
	CreatedAt   time.Time
}

// TimesheetEntryView lanzamiento con nombre y email del colaborador (listados).
type TimesheetEntryView struct {
	TimesheetEntry
	EmployeeName  string
	EmployeeEmail string
}
