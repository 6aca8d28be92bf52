package httpapi

import (
	"bytes"
	"fmt"
	"time"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	notificacionesSheet    = "Notificaciones"
	notificacionTimeLayout = "2006-01-02 15:04:05"
)

// NotificacionesExportHeader is the column order of the export.
var NotificacionesExportHeader = []string{
	"ID",
	"Pictograma",
	"Contenido",
	"Tipo",
	"Estado",
	"Fecha Creación",
	"Fecha Resuelta",
	"Miembro Resolutor",
}

var notificacionesColumnWidths = []float64{8, 12, 40, 15, 12, 20, 20, 18}

// GenerateNotificacionesExport renders list as a workbook with a styled,
// frozen header row. An empty list yields the header only.
func GenerateNotificacionesExport(list []*domain.Notificacion) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(notificacionesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range NotificacionesExportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(notificacionesSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(notificacionesSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(notificacionesSheet, col, col, notificacionesColumnWidths[i]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, n := range list {
		row := []any{
			n.ID,
			n.PictogramaID,
			n.Contenido,
			n.Tipo,
			n.Estado,
			formatExcelTime(&n.FechaCreacion),
			formatExcelTime(n.FechaResuelta),
			"",
		}
		if n.MiembroResolutor != nil {
			row[7] = *n.MiembroResolutor
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(notificacionesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(notificacionesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func formatExcelTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(notificacionTimeLayout)
}
