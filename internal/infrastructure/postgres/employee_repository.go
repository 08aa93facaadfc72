package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación sobre PostgreSQL de la tabla colaboradores (usable con pool o tx).
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

const employeeColumns = `
	id, nome_completo, cpf, rg, data_nascimento, sexo, email, celular,
	cep, rua, numero, complemento, bairro, cidade, estado,
	tipo_perfil, ativo, status, senha_hash, reset_token, reset_expires, empresa_id, data_criacao`

// Create inserta el colaborador y completa ID. CPF o email repetido → domain.ErrConflict.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	query := `
		INSERT INTO colaboradores (
			nome_completo, cpf, rg, data_nascimento, sexo, email, celular,
			cep, rua, numero, complemento, bairro, cidade, estado,
			tipo_perfil, ativo, status, senha_hash, empresa_id, data_criacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`
	a := e.Address
	err := r.q.QueryRow(ctx, query,
		e.FullName, nullIfEmpty(e.CPF), nullIfEmpty(e.RG), e.BirthDate, nullIfEmpty(e.Sex),
		nullIfEmpty(e.Email), nullIfEmpty(e.Mobile),
		nullIfEmpty(a.CEP), nullIfEmpty(a.Street), nullIfEmpty(a.Number), nullIfEmpty(a.Complement),
		nullIfEmpty(a.District), nullIfEmpty(a.City), nullIfEmpty(a.State),
		e.Role, e.Active, e.Status, e.PasswordHash, e.CompanyID, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return conflictError(err)
		}
		return fmt.Errorf("insert colaborador: %w", err)
	}
	return nil
}

// GetByID obtiene un colaborador por ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*entity.Employee, error) {
	return r.findOne(ctx, "id = $1", id)
}

// GetByEmail obtiene un colaborador por email.
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	return r.findOne(ctx, "email = $1", email)
}

// GetByCPF obtiene un colaborador por CPF.
func (r *EmployeeRepo) GetByCPF(ctx context.Context, cpf string) (*entity.Employee, error) {
	return r.findOne(ctx, "cpf = $1", cpf)
}

// GetByResetToken obtiene el colaborador dueño del token de redefinición.
func (r *EmployeeRepo) GetByResetToken(ctx context.Context, token string) (*entity.Employee, error) {
	return r.findOne(ctx, "reset_token = $1", token)
}

// SetResetToken guarda token y expiración de la redefinición de contraseña.
func (r *EmployeeRepo) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE colaboradores SET reset_token = $1, reset_expires = $2 WHERE id = $3`,
		token, expiresAt, id)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// UpdatePassword guarda el nuevo hash y consume el token en la misma sentencia:
// de dos confirmaciones concurrentes solo una encuentra reset_token todavía presente.
func (r *EmployeeRepo) UpdatePassword(ctx context.Context, id int64, resetToken, passwordHash string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE colaboradores SET senha_hash = $1, reset_token = NULL, reset_expires = NULL
		WHERE id = $2 AND reset_token = $3`,
		passwordHash, id, resetToken)
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List devuelve todos los colaboradores, más recientes primero.
func (r *EmployeeRepo) List(ctx context.Context) ([]*entity.Employee, error) {
	rows, err := r.q.Query(ctx, `SELECT `+employeeColumns+` FROM colaboradores ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list colaboradores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan colaborador: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EmployeeRepo) findOne(ctx context.Context, where string, arg any) (*entity.Employee, error) {
	row := r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM colaboradores WHERE `+where, arg)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get colaborador: %w", err)
	}
	return e, nil
}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	var cpf, rg, sex, email, mobile, cep, street, number, complement, district, city, state, status, token *string
	if err := row.Scan(
		&e.ID, &e.FullName, &cpf, &rg, &e.BirthDate, &sex, &email, &mobile,
		&cep, &street, &number, &complement, &district, &city, &state,
		&e.Role, &e.Active, &status, &e.PasswordHash, &token, &e.ResetExpires, &e.CompanyID, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.CPF, e.RG, e.Sex, e.Email, e.Mobile = deref(cpf), deref(rg), deref(sex), deref(email), deref(mobile)
	e.Status, e.ResetToken = deref(status), deref(token)
	e.Address = entity.Address{
		CEP:        deref(cep),
		Street:     deref(street),
		Number:     deref(number),
		Complement: deref(complement),
		District:   deref(district),
		City:       deref(city),
		State:      deref(state),
	}
	return &e, nil
}
