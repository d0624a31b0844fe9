package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contracts-billing/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the best-clients ranking as a single-sheet workbook.
func (g *Generator) Generate(report model.BestClientsReport) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Best clients"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Period start")
	set("B1", report.PeriodStart.Format("2006-01-02"))
	set("A2", "Period end")
	set("B2", report.PeriodEnd.Format("2006-01-02"))

	tableRow := 4
	set(fmt.Sprintf("A%d", tableRow), "Client ID")
	set(fmt.Sprintf("B%d", tableRow), "Name")
	set(fmt.Sprintf("C%d", tableRow), "Total paid")

	for i, client := range report.Clients {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), client.ID)
		set(fmt.Sprintf("B%d", row), client.FirstName+" "+client.LastName)
		set(fmt.Sprintf("C%d", row), client.TotalPaid.String())
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "B", 32)
	_ = file.SetColWidth(sheet, "C", "C", 16)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
