package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptimesheet "github.com/cauamenezes/sistema-timesheet/internal/application/timesheet"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/pdf"
)

func TestGenerateTimesheetReport_DevuelvePDF(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []*entity.TimesheetEntry{
		{ID: 1, ClientID: 7, ProjectID: 42, Date: from, Hours: decimal.RequireFromString("2"), Description: "Reunião", Status: entity.EntryStatusDraft},
		{ID: 2, ClientID: 7, ProjectID: 42, Date: from.AddDate(0, 0, 1), Hours: decimal.RequireFromString("3.5"), Description: "Desenvolvimento", Status: entity.EntryStatusDraft},
	}
	out, err := pdf.NewMarotoTimesheetReport().GenerateTimesheetReport(context.Background(), apptimesheet.ReportData{
		Employee:    &entity.Employee{ID: 1, FullName: "Ana Souza", Email: "ana@cidic.com.br"},
		From:        from,
		To:          from.AddDate(0, 0, 30),
		Entries:     entries,
		TotalHours:  decimal.RequireFromString("5.5"),
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateTimesheetReport_SinColaborador(t *testing.T) {
	_, err := pdf.NewMarotoTimesheetReport().GenerateTimesheetReport(context.Background(), apptimesheet.ReportData{})
	assert.Error(t, err)
}
