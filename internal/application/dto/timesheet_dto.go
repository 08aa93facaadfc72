package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEntryRequest alta de un lanzamiento. Horas es puntero para distinguir ausente de cero.
type CreateEntryRequest struct {
	ClientID    int64            `json:"cliente_id"`
	ProjectID   int64            `json:"projeto_id"`
	Date        string           `json:"data"` // YYYY-MM-DD
	Hours       *decimal.Decimal `json:"horas"`
	Description string           `json:"descricao"`
}

// CreateEntryResponse id del lanzamiento creado.
type CreateEntryResponse struct {
	ID int64 `json:"id"`
}

// EntryQuery filtros de listado/reporte/exportación (query string).
type EntryQuery struct {
	From       string `query:"from"`
	To         string `query:"to"`
	Status     string `query:"status"`
	EmployeeID int64  `query:"colaborador_id"`
}

// EntryResponse lanzamiento con los datos del colaborador.
type EntryResponse struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"colaborador_id"`
	FullName    string    `json:"nome_completo"`
	Email       string    `json:"email"`
	Date        string    `json:"data"`
	ClientID    int64     `json:"cliente_id"`
	ProjectID   int64     `json:"projeto_id"`
	Description string    `json:"descricao"`
	Hours       float64   `json:"horas"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"timestamp"`
}

// SubmitRequest período a submeter.
type SubmitRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SubmitResponse resultado de la submisión. SentTo es null cuando no se envió correo.
type SubmitResponse struct {
	OK         bool    `json:"ok"`
	SentTo     *string `json:"sent_to"`
	TotalHours float64 `json:"totalHoras"`
	Count      int     `json:"count"`
}
