package reports

import (
	"fmt"
	"math"
	"time"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/allocation"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

const (
	ExcelFilename    = "allocation_report.xlsx"
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFFilename      = "allocation_report.pdf"
	PDFContentType   = "application/pdf"

	UnitsSheet   = "Allocated Units"
	SummarySheet = "Block Summary"
)

// UnitsHeader is the column order of the allocated units table.
var UnitsHeader = []string{
	"Unit ID",
	"Typology",
	"Net Area",
	"Gross Area",
	"Floor",
	"Block",
	"Owner",
}

// SummaryHeader is the column order of the block summary table.
var SummaryHeader = []string{
	"Block",
	"Total Gross Area",
	"AAHDC Area",
	"Developer Area",
	"AAHDC Share %",
	"Compliant",
}

// BlockRow is one line of the block summary.
type BlockRow struct {
	allocation.BlockSummary
	Compliant bool
}

// Data is everything a renderer needs. Units are allocated units ordered
// by block then unit id.
type Data struct {
	GeneratedAt time.Time
	Units       []models.Unit
	Blocks      []BlockRow
}

func unitCells(u models.Unit) []any {
	return []any{
		u.UnitID,
		string(u.Typology),
		u.NetArea,
		u.GrossArea,
		u.FloorNumber,
		u.BlockName,
		string(u.Owner),
	}
}

func summaryCells(b BlockRow) []any {
	return []any{
		b.BlockName,
		b.TotalGrossArea,
		b.AuthorityArea,
		b.DeveloperArea,
		roundTo(b.AuthorityShare*100, 2),
		yesNo(b.Compliant),
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// formatCell renders a value for text-only outputs such as the PDF.
func formatCell(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", x)
	case int:
		return fmt.Sprintf("%d", x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
