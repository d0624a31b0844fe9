package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/contracts-billing/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

// Generate renders a payment receipt for a paid job.
func (g *Generator) Generate(doc model.ReceiptDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "Payment receipt", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Receipt %s", doc.Job.UUID), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	addPartyBlock(pdf, g.fontName, "Client", doc.Client)
	pdf.Ln(2)
	addPartyBlock(pdf, g.fontName, "Contractor", doc.Contractor)
	pdf.Ln(6)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Job", "", 1, "L", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	headers := []string{"Description", "Contract", "Paid on", "Amount"}
	colWidths := []float64{80, 30, 30, 30}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	row := []string{
		doc.Job.Description,
		fmt.Sprintf("#%d", doc.Contract.ID),
		formatDate(doc.Job.PaidDate),
		doc.Job.Price.StringFixed(2),
	}
	drawTableRow(pdf, g.fontName, row, colWidths, false)

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %s", doc.Job.Price.StringFixed(2)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addPartyBlock(pdf *gofpdf.Fpdf, font, label string, profile model.Profile) {
	pdf.SetFont(font, "B", 12)
	pdf.CellFormat(0, 8, label, "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 11)
	pdf.CellFormat(0, 6, profile.FullName(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, profile.Profession, "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, font string, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(font, style, 10)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
