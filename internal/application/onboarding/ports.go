package onboarding

import (
	"context"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que un alta fallida no deje una empresa huérfana.
type TxRunner interface {
	RunOnboarding(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		employeeRepo repository.EmployeeRepository,
		bankRepo repository.BankDetailRepository,
	) error) error
}
