// Package timesheet contiene la lógica pura de la submisión de horas:
// totalización y texto del resumen enviado por correo.
package timesheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
)

// DateLayout formato de fecha usado en la API y en los resúmenes.
const DateLayout = "2006-01-02"

// Period rango de fechas inclusivo.
type Period struct {
	From time.Time
	To   time.Time
}

// String devuelve "YYYY-MM-DD a YYYY-MM-DD".
func (p Period) String() string {
	return p.From.Format(DateLayout) + " a " + p.To.Format(DateLayout)
}

// Summary resumen listo para enviar.
type Summary struct {
	Subject    string
	Body       string
	TotalHours decimal.Decimal
	Count      int
}

// TotalHours suma exacta de las horas de los lanzamientos.
func TotalHours(entries []*entity.TimesheetEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return total
}

// BuildSummary arma asunto y cuerpo del correo de submisión.
//
//	Asunto: Timesheet - <nombre> (<desde> a <hasta>) - <total>h
//	Cuerpo: consultor, período, total y una línea por lanzamiento.
func BuildSummary(employee *entity.Employee, period Period, entries []*entity.TimesheetEntry) Summary {
	total := TotalHours(entries)

	var lines []string
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("• %s | Projeto %d | %sh\n   %s",
			e.Date.Format(DateLayout), e.ProjectID, e.Hours.String(), e.Description))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Consultor: %s <%s>\n", employee.FullName, employee.Email)
	fmt.Fprintf(&b, "Período: %s\n", period)
	fmt.Fprintf(&b, "Total de horas: %s\n\n", total.String())
	b.WriteString("Lançamentos:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")

	return Summary{
		Subject:    fmt.Sprintf("Timesheet - %s (%s) - %sh", employee.FullName, period, total.String()),
		Body:       b.String(),
		TotalHours: total,
		Count:      len(entries),
	}
}
