package repository

import (
	"context"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para empresas (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error)
}

// BankDetailRepository persistencia de datos bancarios.
type BankDetailRepository interface {
	Create(ctx context.Context, detail *entity.BankDetail) error
}
