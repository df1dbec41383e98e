package finance

import (
	"fmt"
	"io"

	"mirotec-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "Ledger"

// WriteLedgerXLSX writes entries as a spreadsheet, one row per entry plus a totals row.
func WriteLedgerXLSX(w io.Writer, entries []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return err
	}

	headers := []string{"Date", "Description", "Type", "Category", "Source", "Status", "Reference", "Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ledgerSheet, cell, h)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(ledgerSheet, 1, 1, bold)
	}

	credit, debit := 0.0, 0.0
	for i, t := range entries {
		row := i + 2
		amount, _ := t.Amount.Float64()
		values := []interface{}{
			t.Date, t.Description, string(t.Type), string(t.Category),
			string(t.Source), string(t.Status), t.ReferenceNumber, amount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(ledgerSheet, cell, v)
		}
		if t.Status == models.PaymentPaid {
			if t.Type == models.TransactionCredit {
				credit += amount
			} else {
				debit += amount
			}
		}
	}

	totalRow := len(entries) + 3
	f.SetCellValue(ledgerSheet, fmt.Sprintf("G%d", totalRow), "Revenue (paid)")
	f.SetCellValue(ledgerSheet, fmt.Sprintf("H%d", totalRow), credit)
	f.SetCellValue(ledgerSheet, fmt.Sprintf("G%d", totalRow+1), "Expenses (paid)")
	f.SetCellValue(ledgerSheet, fmt.Sprintf("H%d", totalRow+1), debit)
	f.SetCellValue(ledgerSheet, fmt.Sprintf("G%d", totalRow+2), "Profit")
	f.SetCellValue(ledgerSheet, fmt.Sprintf("H%d", totalRow+2), credit-debit)

	_ = f.SetColWidth(ledgerSheet, "B", "B", 45)

	return f.Write(w)
}
