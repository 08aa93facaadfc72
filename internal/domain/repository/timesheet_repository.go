package repository

import (
	"context"
	"time"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
)

// TimesheetFilter criterios de listado. Campos nil/vacíos no filtran.
type TimesheetFilter struct {
	EmployeeID int64
	From       *time.Time
	To         *time.Time
	Status     string
}

// TimesheetRepository define el puerto de persistencia para lanzamientos de horas.
type TimesheetRepository interface {
	Create(ctx context.Context, entry *entity.TimesheetEntry) error
	// List ordena por fecha desc y luego id desc, con nombre/email del colaborador.
	List(ctx context.Context, f TimesheetFilter) ([]*entity.TimesheetEntryView, error)
	// ListDraftForUpdate devuelve los lanzamientos draft del colaborador en [from, to] (inclusive),
	// bloqueándolos hasta el fin de la transacción. Orden: fecha asc, id asc.
	ListDraftForUpdate(ctx context.Context, employeeID int64, from, to time.Time) ([]*entity.TimesheetEntry, error)
	// MarkSubmitted pasa a submitted los ids indicados que sigan en draft; devuelve filas afectadas.
	MarkSubmitted(ctx context.Context, ids []int64) (int64, error)
}
