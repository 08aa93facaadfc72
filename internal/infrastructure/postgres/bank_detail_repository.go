package postgres

import (
	"context"
	"fmt"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
)

var _ repository.BankDetailRepository = (*BankDetailRepo)(nil)

// BankDetailRepo implementación sobre PostgreSQL de la tabla dados_bancarios.
type BankDetailRepo struct {
	q Querier
}

// NewBankDetailRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBankDetailRepository(q Querier) *BankDetailRepo {
	return &BankDetailRepo{q: q}
}

// Create inserta los datos bancarios del colaborador.
func (r *BankDetailRepo) Create(ctx context.Context, b *entity.BankDetail) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO dados_bancarios (colaborador_id, agencia, conta, chave_pix, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		b.EmployeeID, b.Agency, b.Account, b.PixKey, b.Status,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert dados bancarios: %w", err)
	}
	return nil
}
