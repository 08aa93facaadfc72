package repository

import (
	"context"
	"time"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia para colaboradores (DIP).
// Las búsquedas devuelven (nil, nil) cuando no hay coincidencia.
type EmployeeRepository interface {
	// Create persiste el colaborador y completa ID. Violación de unicidad → domain.ErrConflict.
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id int64) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	GetByCPF(ctx context.Context, cpf string) (*entity.Employee, error)
	GetByResetToken(ctx context.Context, token string) (*entity.Employee, error)
	SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	// UpdatePassword guarda el nuevo hash y limpia reset_token/reset_expires solo si el
	// colaborador todavía tiene resetToken. Devuelve false si el token ya fue consumido.
	UpdatePassword(ctx context.Context, id int64, resetToken, passwordHash string) (bool, error)
	List(ctx context.Context) ([]*entity.Employee, error)
}
