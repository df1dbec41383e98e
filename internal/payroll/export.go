package payroll

import (
	"fmt"
	"io"

	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// EmployeeNames maps employee id to "EMP001 Name" for the given company.
func EmployeeNames(tx *gorm.DB, companyID uint) (map[uint]string, error) {
	var emps []models.Employee
	if err := tx.Select("id", "employee_code", "name").Where("company_id = ?", companyID).Find(&emps).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(emps))
	for _, e := range emps {
		out[e.ID] = e.EmployeeCode + " " + e.Name
	}
	return out, nil
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// WritePayrollXLSX writes one sheet named after month with a row per payslip.
func WritePayrollXLSX(w io.Writer, month string, recs []models.PayrollRecord, names map[uint]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payroll " + month
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"Employee", "Working Days", "Present", "Half Days", "Absent", "Leave", "OT Hours",
		"Basic", "Overtime", "Allowances", "Gross", "PF", "ESI", "Other", "Deductions", "Net", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}

	net := decimal.Zero
	for i, r := range recs {
		name := names[r.EmployeeID]
		if name == "" {
			name = fmt.Sprintf("#%d", r.EmployeeID)
		}
		values := []interface{}{
			name, r.WorkingDays, r.PresentDays, r.HalfDays, r.AbsentDays, r.LeaveDays, money(r.OvertimeHours),
			money(r.BasicSalary), money(r.OvertimePay), money(r.Allowances), money(r.GrossSalary),
			money(r.PFDeduction), money(r.ESIDeduction), money(r.OtherDeductions), money(r.TotalDeductions),
			money(r.NetSalary), string(r.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
		net = net.Add(r.NetSalary)
	}

	totalRow := len(recs) + 3
	f.SetCellValue(sheet, fmt.Sprintf("O%d", totalRow), "Total net")
	f.SetCellValue(sheet, fmt.Sprintf("P%d", totalRow), money(net))
	_ = f.SetColWidth(sheet, "A", "A", 28)

	return f.Write(w)
}
