package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cauamenezes/sistema-timesheet/internal/application/onboarding"
	"github.com/cauamenezes/sistema-timesheet/internal/application/timesheet"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
)

var _ onboarding.TxRunner = (*TxRunner)(nil)
var _ timesheet.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunOnboarding inicia una transacción con repos de empresa, colaborador y datos bancarios.
func (r *TxRunner) RunOnboarding(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	employeeRepo repository.EmployeeRepository,
	bankRepo repository.BankDetailRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewEmployeeRepository(tx), NewBankDetailRepository(tx))
	})
}

// RunSubmission inicia una transacción con el repo de lanzamientos (SELECT ... FOR UPDATE + UPDATE).
func (r *TxRunner) RunSubmission(ctx context.Context, fn func(entryRepo repository.TimesheetRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewTimesheetRepository(tx))
	})
}

// run hace Commit si fn termina sin error; en cualquier otro caso Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
