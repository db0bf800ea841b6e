package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

var (
	unitsPDFWidths   = []float64{30, 24, 24, 24, 16, 30, 38}
	summaryPDFWidths = []float64{34, 32, 28, 30, 28, 24}
)

const pdfRowHeight = 7

// RenderPDF writes the same two tables as the Excel report to an A4 PDF.
func RenderPDF(data *Data) ([]byte, error) {
	pdf := buildPDF(data)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func buildPDF(data *Data) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("AAHDC Unit Allocation Report", false)
	pdf.SetCreator("allocation-service", false)
	if !data.GeneratedAt.IsZero() {
		pdf.SetCreationDate(data.GeneratedAt)
	}
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "AAHDC Unit Allocation Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	rows := make([][]any, 0, len(data.Units))
	for _, u := range data.Units {
		rows = append(rows, unitCells(u))
	}
	writePDFTable(pdf, UnitsSheet, UnitsHeader, unitsPDFWidths, rows)
	pdf.Ln(6)

	rows = make([][]any, 0, len(data.Blocks))
	for _, b := range data.Blocks {
		rows = append(rows, summaryCells(b))
	}
	writePDFTable(pdf, SummarySheet, SummaryHeader, summaryPDFWidths, rows)
	return pdf
}

func writePDFTable(pdf *fpdf.Fpdf, title string, headers []string, widths []float64, rows [][]any) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 243, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], pdfRowHeight, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, values := range rows {
		// Repeat the header when the row would spill onto a new page.
		if pdf.GetY()+pdfRowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, v := range values {
			align := "L"
			switch v.(type) {
			case float64, int:
				align = "R"
			}
			pdf.CellFormat(widths[i], pdfRowHeight, formatCell(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}
