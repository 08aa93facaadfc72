package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cauamenezes/sistema-timesheet/internal/domain"
)

// Nombres de las constraints únicas (ver migrations/0001_init.sql).
const (
	constraintEmployeeCPF   = "colaboradores_cpf_key"
	constraintEmployeeEmail = "colaboradores_email_key"
	constraintCompanyCNPJ   = "empresas_cnpj_key"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// conflictError traduce una violación de unicidad en domain.ErrConflict con mensaje para el cliente.
func conflictError(err error) error {
	var pgErr *pgconn.PgError
	name := ""
	if errors.As(err, &pgErr) {
		name = pgErr.ConstraintName
	}
	switch name {
	case constraintEmployeeCPF:
		return domain.E(domain.ErrConflict, "CPF já cadastrado")
	case constraintEmployeeEmail:
		return domain.E(domain.ErrConflict, "E-mail já cadastrado")
	case constraintCompanyCNPJ:
		return domain.E(domain.ErrConflict, "CNPJ já cadastrado")
	default:
		return domain.E(domain.ErrConflict, "Registro duplicado")
	}
}

// nullIfEmpty devuelve nil para cadenas vacías (columnas NULL y UNIQUE).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
