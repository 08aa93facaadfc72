package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación sobre PostgreSQL de la tabla empresas.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create inserta la empresa y completa ID. CNPJ repetido → domain.ErrConflict.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO empresas (
			nome_fantasia, cnpj, inscricao_estadual, inscricao_municipal, regime_tributario,
			cep, logradouro, numero, complemento, bairro, cidade, estado, pais,
			telefone_fixo, telefone_celular, email_corporativo, data_criacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`
	a := c.Address
	err := r.q.QueryRow(ctx, query,
		c.TradeName, c.CNPJ, nullIfEmpty(c.StateRegistration), nullIfEmpty(c.MunicipalRegistration),
		nullIfEmpty(c.TaxRegime),
		nullIfEmpty(a.CEP), nullIfEmpty(a.Street), nullIfEmpty(a.Number), nullIfEmpty(a.Complement),
		nullIfEmpty(a.District), nullIfEmpty(a.City), nullIfEmpty(a.State), nullIfEmpty(a.Country),
		nullIfEmpty(c.Phone), nullIfEmpty(c.Mobile), nullIfEmpty(c.Email), c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return conflictError(err)
		}
		return fmt.Errorf("insert empresa: %w", err)
	}
	return nil
}

// GetByCNPJ obtiene una empresa por CNPJ; (nil, nil) si no existe.
func (r *CompanyRepo) GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error) {
	query := `
		SELECT id, nome_fantasia, cnpj, COALESCE(inscricao_estadual, ''), COALESCE(inscricao_municipal, ''),
			COALESCE(regime_tributario, ''), COALESCE(email_corporativo, ''), data_criacao
		FROM empresas WHERE cnpj = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, cnpj).Scan(
		&c.ID, &c.TradeName, &c.CNPJ, &c.StateRegistration, &c.MunicipalRegistration,
		&c.TaxRegime, &c.Email, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa by cnpj: %w", err)
	}
	return &c, nil
}
