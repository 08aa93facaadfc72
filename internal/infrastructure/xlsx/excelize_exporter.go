// Package xlsx exporta lanzamientos de horas a planilla Excel con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	apptimesheet "github.com/cauamenezes/sistema-timesheet/internal/application/timesheet"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
)

var _ apptimesheet.SpreadsheetExporter = (*ExcelizeExporter)(nil)

// SheetName nombre de la hoja generada.
const SheetName = "Timesheet"

var headers = []string{"ID", "Colaborador", "E-mail", "Data", "Cliente", "Projeto", "Descrição", "Horas", "Status"}

// ExcelizeExporter implementa timesheet.SpreadsheetExporter.
type ExcelizeExporter struct{}

// NewExcelizeExporter construye el exportador.
func NewExcelizeExporter() *ExcelizeExporter { return &ExcelizeExporter{} }

// ExportTimesheet escribe una fila por lanzamiento y una fila final con el total de horas.
func (e *ExcelizeExporter) ExportTimesheet(_ context.Context, rows []*entity.TimesheetEntryView) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	hoursFmt := "0.00"
	hoursStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &hoursFmt})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, h := range headers {
		if err := setCell(f, i+1, 1, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "I1", bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	for r, v := range rows {
		line := r + 2
		values := []any{
			v.ID, v.EmployeeName, v.EmployeeEmail, v.Date.Format("2006-01-02"),
			v.ClientID, v.ProjectID, v.Description, v.Hours.InexactFloat64(), v.Status,
		}
		for c, val := range values {
			if err := setCell(f, c+1, line, val); err != nil {
				return nil, err
			}
		}
	}

	// Total: SUM sobre la columna de horas.
	totalLine := len(rows) + 2
	if err := setCell(f, 7, totalLine, "Total"); err != nil {
		return nil, err
	}
	totalCell, _ := excelize.CoordinatesToCellName(8, totalLine)
	formula := "0"
	if len(rows) > 0 {
		formula = fmt.Sprintf("SUM(H2:H%d)", totalLine-1)
	}
	if err := f.SetCellFormula(SheetName, totalCell, formula); err != nil {
		return nil, fmt.Errorf("xlsx: fórmula total: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "H2", totalCell, hoursStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo horas: %w", err)
	}

	_ = f.SetColWidth(SheetName, "B", "C", 28)
	_ = f.SetColWidth(SheetName, "D", "D", 12)
	_ = f.SetColWidth(SheetName, "G", "G", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("xlsx: escribir %s: %w", cell, err)
	}
	return nil
}
