package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/xlsx"
)

func TestExportTimesheet_FilasYTotal(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := []*entity.TimesheetEntryView{
		{
			TimesheetEntry: entity.TimesheetEntry{ID: 2, EmployeeID: 1, ClientID: 7, ProjectID: 42, Date: day.AddDate(0, 0, 1),
				Hours: decimal.RequireFromString("3.5"), Description: "Desenvolvimento", Status: entity.EntryStatusDraft},
			EmployeeName: "Ana Souza", EmployeeEmail: "ana@cidic.com.br",
		},
		{
			TimesheetEntry: entity.TimesheetEntry{ID: 1, EmployeeID: 1, ClientID: 7, ProjectID: 42, Date: day,
				Hours: decimal.RequireFromString("2"), Description: "Reunião", Status: entity.EntryStatusSubmitted},
			EmployeeName: "Ana Souza", EmployeeEmail: "ana@cidic.com.br",
		},
	}

	out, err := xlsx.NewExcelizeExporter().ExportTimesheet(context.Background(), rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	require.Len(t, got, 4, "cabecera + 2 lanzamientos + total")
	assert.Equal(t, "Colaborador", got[0][1])
	assert.Equal(t, "2024-03-05", got[1][3])
	assert.Equal(t, "Desenvolvimento", got[1][6])
	assert.Equal(t, "submitted", got[2][8])

	formula, err := f.GetCellFormula(xlsx.SheetName, "H4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(H2:H3)", formula)
}

func TestExportTimesheet_SinFilas(t *testing.T) {
	out, err := xlsx.NewExcelizeExporter().ExportTimesheet(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Total", got[1][6])
}
