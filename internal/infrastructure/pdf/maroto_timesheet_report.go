// Package pdf genera el informe de horas de un período con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Colaborador + email  │  Período + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Cliente | Proyecto | Descripción | Horas | Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: lanzamientos / total de horas                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apptimesheet "github.com/cauamenezes/sistema-timesheet/internal/application/timesheet"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
)

var _ apptimesheet.ReportGenerator = (*MarotoTimesheetReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 235, Green: 241, Blue: 247}
)

const dateBR = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoTimesheetReport implementa timesheet.ReportGenerator usando Maroto v2.
type MarotoTimesheetReport struct{}

// NewMarotoTimesheetReport construye el generador.
func NewMarotoTimesheetReport() *MarotoTimesheetReport { return &MarotoTimesheetReport{} }

// GenerateTimesheetReport genera el PDF y devuelve sus bytes.
func (g *MarotoTimesheetReport) GenerateTimesheetReport(_ context.Context, data apptimesheet.ReportData) ([]byte, error) {
	if data.Employee == nil {
		return nil, fmt.Errorf("pdf: colaborador requerido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Timesheet "+data.Employee.FullName, true).
		WithAuthor("Sistema Timesheet", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(data.Entries)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(len(data.Entries), data.TotalHours.String()))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: colaborador (izq) y período + emisión (der).
func headerRow(data apptimesheet.ReportData) core.Row {
	period := data.From.Format(dateBR) + " a " + data.To.Format(dateBR)
	return row.New(18).Add(
		col.New(7).Add(
			text.New(data.Employee.FullName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(data.Employee.Email, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RELATÓRIO DE HORAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Emitido em: "+data.GeneratedAt.Format(dateBR+" 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de lanzamientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Data", 2, align.Left),
		h("Cliente", 1, align.Center),
		h("Projeto", 1, align.Center),
		h("Descrição", 5, align.Left),
		h("Horas", 1, align.Right),
		h("Status", 2, align.Center),
	)
}

// tableRows: una fila por lanzamiento, con fondo alternado.
func tableRows(entries []*entity.TimesheetEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for i, e := range entries {
		r := row.New(7).Add(
			col.New(2).Add(text.New(e.Date.Format(dateBR), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.FormatInt(e.ClientID, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.FormatInt(e.ProjectID, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(e.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(e.Hours.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(e.Status, props.Text{Size: 8, Align: align.Center, Top: 1})),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	if len(entries) == 0 {
		result = append(result, row.New(8).Add(col.New(12).Add(
			text.New("Nenhum lançamento no período.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(count int, total string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(4).Add(
			label("Lançamentos:"),
			text.New("Total de horas:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(2).Add(
			text.New(strconv.Itoa(count), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(total+"h", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
