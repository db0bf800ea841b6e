package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var (
	unitsColumnWidths   = []float64{15, 12, 12, 12, 8, 18, 22}
	summaryColumnWidths = []float64{18, 18, 14, 16, 16, 12}
)

// RenderExcel writes the allocated units and the block summary to an xlsx
// workbook with one sheet each. The Units sheet is active on open.
func RenderExcel(data *Data) (out []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			out, err = nil, fmt.Errorf("failed to close excel file: %w", cerr)
		}
	}()

	if _, err := f.NewSheet(UnitsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	// Indices shift on delete, so look the sheet up again.
	unitsIndex, err := f.GetSheetIndex(UnitsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to find sheet %s: %w", UnitsSheet, err)
	}
	f.SetActiveSheet(unitsIndex)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	unitRows := make([][]any, 0, len(data.Units))
	for _, u := range data.Units {
		unitRows = append(unitRows, unitCells(u))
	}
	if err := writeSheet(f, UnitsSheet, UnitsHeader, unitsColumnWidths, unitRows, headerStyle); err != nil {
		return nil, err
	}

	summaryRows := make([][]any, 0, len(data.Blocks))
	for _, b := range data.Blocks {
		summaryRows = append(summaryRows, summaryCells(b))
	}
	if err := writeSheet(f, SummarySheet, SummaryHeader, summaryColumnWidths, summaryRows, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, widths []float64, rows [][]any, headerStyle int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell value at row %d, col %d: %w", r+2, c+1, err)
			}
		}
	}

	// Freeze the header row
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	return nil
}
