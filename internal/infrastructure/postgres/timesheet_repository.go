package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
)

var _ repository.TimesheetRepository = (*TimesheetRepo)(nil)

// TimesheetRepo implementación sobre PostgreSQL de la tabla horas_trabalhadas.
type TimesheetRepo struct {
	q Querier
}

// NewTimesheetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTimesheetRepository(q Querier) *TimesheetRepo {
	return &TimesheetRepo{q: q}
}

// Create inserta el lanzamiento y completa ID y timestamp.
func (r *TimesheetRepo) Create(ctx context.Context, e *entity.TimesheetEntry) error {
	query := `
		INSERT INTO horas_trabalhadas (colaborador_id, cliente_id, projeto_id, data, horas, descricao, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, "timestamp"`
	err := r.q.QueryRow(ctx, query,
		e.EmployeeID, e.ClientID, e.ProjectID, e.Date, e.Hours, e.Description, e.Status,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lanzamiento: %w", err)
	}
	return nil
}

// List filtra por colaborador, rango y estado; fecha desc, id desc.
func (r *TimesheetRepo) List(ctx context.Context, f repository.TimesheetFilter) ([]*entity.TimesheetEntryView, error) {
	query := `
		SELECT h.id, h.colaborador_id, h.cliente_id, h.projeto_id, h.data, h.horas, h.descricao, h.status, h."timestamp",
			c.nome_completo, COALESCE(c.email, '')
		FROM horas_trabalhadas h
		JOIN colaboradores c ON c.id = h.colaborador_id
		WHERE 1=1`
	var args []any
	pos := 1
	if f.EmployeeID != 0 {
		query += fmt.Sprintf(" AND h.colaborador_id = $%d", pos)
		args = append(args, f.EmployeeID)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND h.data >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND h.data <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND h.status = $%d", pos)
		args = append(args, f.Status)
	}
	query += " ORDER BY h.data DESC, h.id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lanzamientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.TimesheetEntryView
	for rows.Next() {
		var v entity.TimesheetEntryView
		if err := rows.Scan(&v.ID, &v.EmployeeID, &v.ClientID, &v.ProjectID, &v.Date, &v.Hours,
			&v.Description, &v.Status, &v.CreatedAt, &v.EmployeeName, &v.EmployeeEmail); err != nil {
			return nil, fmt.Errorf("scan lanzamiento: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// ListDraftForUpdate bloquea (FOR UPDATE) los draft del colaborador en [from, to]. Usar dentro de una tx.
func (r *TimesheetRepo) ListDraftForUpdate(ctx context.Context, employeeID int64, from, to time.Time) ([]*entity.TimesheetEntry, error) {
	query := `
		SELECT id, colaborador_id, cliente_id, projeto_id, data, horas, descricao, status, "timestamp"
		FROM horas_trabalhadas
		WHERE colaborador_id = $1 AND data BETWEEN $2 AND $3 AND status = 'draft'
		ORDER BY data, id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("select draft for update: %w", err)
	}
	defer rows.Close()
	var list []*entity.TimesheetEntry
	for rows.Next() {
		var e entity.TimesheetEntry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.ClientID, &e.ProjectID, &e.Date, &e.Hours,
			&e.Description, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lanzamiento: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// MarkSubmitted pasa a submitted exactamente los ids dados que sigan en draft.
func (r *TimesheetRepo) MarkSubmitted(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE horas_trabalhadas SET status = 'submitted' WHERE status = 'draft' AND id = ANY($1)`,
		ids)
	if err != nil {
		return 0, fmt.Errorf("mark submitted: %w", err)
	}
	return tag.RowsAffected(), nil
}
