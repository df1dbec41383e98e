package payroll

import (
	"errors"
	"fmt"
	"time"

	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var half = decimal.RequireFromString("0.5")

// compute turns a month of attendance into a draft payslip.
func compute(cfg *models.SalaryConfig, month time.Time, records []models.AttendanceRecord) models.PayrollRecord {
	rec := models.PayrollRecord{
		CompanyID:     cfg.CompanyID,
		EmployeeID:    cfg.EmployeeID,
		Month:         month.Format(utils.MonthLayout),
		WorkingDays:   utils.WorkingDays(month),
		OvertimeHours: decimal.Zero,
		Status:        models.PayrollDraft,
	}
	for _, r := range records {
		switch r.Status {
		case models.AttendancePresent:
			rec.PresentDays++
		case models.AttendanceLate:
			rec.PresentDays++
			rec.LateDays++
		case models.AttendanceHalfDay:
			rec.HalfDays++
		case models.AttendanceAbsent:
			rec.AbsentDays++
		case models.AttendanceOnLeave:
			rec.LeaveDays++
		}
		rec.OvertimeHours = rec.OvertimeHours.Add(r.OvertimeHours)
	}

	effective := decimal.NewFromInt(int64(rec.PresentDays)).Add(decimal.NewFromInt(int64(rec.HalfDays)).Mul(half))
	rec.BasicSalary = cfg.PerDaySalary.Mul(effective).Round(0)
	rec.OvertimePay = cfg.OvertimeRate.Mul(rec.OvertimeHours).Round(0)
	rec.Allowances = cfg.Allowances
	rec.GrossSalary = rec.BasicSalary.Add(rec.OvertimePay).Add(rec.Allowances)

	pct := decimal.NewFromInt(100)
	rec.PFDeduction = rec.BasicSalary.Mul(cfg.PFPercent).Div(pct).Round(0)
	rec.ESIDeduction = rec.GrossSalary.Mul(cfg.ESIPercent).Div(pct).Round(0)
	rec.OtherDeductions = cfg.OtherDeductions
	rec.TotalDeductions = rec.PFDeduction.Add(rec.ESIDeduction).Add(rec.OtherDeductions)
	rec.NetSalary = rec.GrossSalary.Sub(rec.TotalDeductions)
	return rec
}

func monthAttendance(tx *gorm.DB, companyID uint, employeeIDs []uint, month time.Time) (map[uint][]models.AttendanceRecord, error) {
	from, to := utils.MonthRange(month)
	var rows []models.AttendanceRecord
	if err := tx.Where("company_id = ? AND employee_id IN ? AND date BETWEEN ? AND ?", companyID, employeeIDs, from, to).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint][]models.AttendanceRecord, len(employeeIDs))
	for _, r := range rows {
		out[r.EmployeeID] = append(out[r.EmployeeID], r)
	}
	return out, nil
}

// Calculate returns a DRAFT payslip for one employee. Nothing is stored.
func Calculate(tx *gorm.DB, companyID, employeeID uint, month string) (*models.PayrollRecord, error) {
	m, err := utils.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	var emp models.Employee
	err = tx.Where("company_id = ? AND id = ?", companyID, employeeID).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	cfg, err := GetConfig(tx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	att, err := monthAttendance(tx, companyID, []uint{employeeID}, m)
	if err != nil {
		return nil, err
	}
	rec := compute(cfg, m, att[employeeID])
	return &rec, nil
}

// drafts computes a payslip for every employee that has a salary config.
func drafts(tx *gorm.DB, companyID uint, m time.Time) ([]models.PayrollRecord, error) {
	var cfgs []models.SalaryConfig
	if err := tx.Joins("JOIN employees ON employees.id = salary_configs.employee_id").
		Where("salary_configs.company_id = ?", companyID).
		Order("salary_configs.employee_id asc").
		Find(&cfgs).Error; err != nil {
		return nil, err
	}
	if len(cfgs) == 0 {
		return []models.PayrollRecord{}, nil
	}
	ids := make([]uint, len(cfgs))
	for i, c := range cfgs {
		ids[i] = c.EmployeeID
	}
	att, err := monthAttendance(tx, companyID, ids, m)
	if err != nil {
		return nil, err
	}
	out := make([]models.PayrollRecord, 0, len(cfgs))
	for i := range cfgs {
		out = append(out, compute(&cfgs[i], m, att[cfgs[i].EmployeeID]))
	}
	return out, nil
}

func stored(tx *gorm.DB, companyID uint, month string) ([]models.PayrollRecord, error) {
	var out []models.PayrollRecord
	err := tx.Where("company_id = ? AND month = ?", companyID, month).Order("employee_id asc").Find(&out).Error
	return out, err
}

// GetForMonth returns the stored records of a processed month, or fresh
// drafts when nothing has been stored.
func GetForMonth(tx *gorm.DB, companyID uint, month string) ([]models.PayrollRecord, error) {
	m, err := utils.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	recs, err := stored(tx, companyID, month)
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		return recs, nil
	}
	return drafts(tx, companyID, m)
}

func IsProcessed(tx *gorm.DB, companyID uint, month string) (bool, error) {
	var n int64
	err := tx.Model(&models.ProcessedMonth{}).Where("company_id = ? AND month = ?", companyID, month).Count(&n).Error
	return n > 0, err
}

// Process locks month: payslips are stored as PROCESSED and one salary debit
// is booked for the total net pay. It returns false, changing nothing, when
// the month was already processed. A processed month stays locked.
func Process(tx *gorm.DB, companyID uint, month string) (bool, error) {
	m, err := utils.ParseMonth(month)
	if err != nil {
		return false, err
	}
	done, err := IsProcessed(tx, companyID, month)
	if err != nil || done {
		return false, err
	}

	recs, err := drafts(tx, companyID, m)
	if err != nil {
		return false, err
	}
	today := utils.Today()
	total := decimal.Zero
	for i := range recs {
		recs[i].Status = models.PayrollProcessed
		recs[i].ProcessedDate = today
		total = total.Add(recs[i].NetSalary)
	}

	if err := tx.Where("company_id = ? AND month = ?", companyID, month).Delete(&models.PayrollRecord{}).Error; err != nil {
		return false, err
	}
	if len(recs) > 0 {
		if err := tx.Create(&recs).Error; err != nil {
			return false, err
		}
	}

	entry := &models.Transaction{
		Description: "Salary Payment - " + utils.MonthLabel(m),
		Type:        models.TransactionDebit,
		Amount:      total,
		Status:      models.PaymentPaid,
		Date:        today,
		Source:      models.SourceManual,
		Category:    models.CategorySalary,
		ReferenceID: month,
	}
	if _, err := finance.EnsureEntry(tx, companyID, finance.PayrollKey(month), entry); err != nil {
		return false, err
	}

	pm := models.ProcessedMonth{CompanyID: companyID, Month: month, TransactionID: entry.ID, ProcessedAt: time.Now()}
	if err := tx.Create(&pm).Error; err != nil {
		return false, fmt.Errorf("mark %s processed: %w", month, err)
	}
	return true, nil
}

type MonthSummary struct {
	Month            string               `json:"month"`
	TotalEmployees   int                  `json:"total_employees"`
	TotalGrossSalary decimal.Decimal      `json:"total_gross_salary"`
	TotalDeductions  decimal.Decimal      `json:"total_deductions"`
	TotalNetSalary   decimal.Decimal      `json:"total_net_salary"`
	Status           models.PayrollStatus `json:"status"`
}

func Summary(tx *gorm.DB, companyID uint, month string) (MonthSummary, error) {
	recs, err := GetForMonth(tx, companyID, month)
	if err != nil {
		return MonthSummary{}, err
	}
	done, err := IsProcessed(tx, companyID, month)
	if err != nil {
		return MonthSummary{}, err
	}
	s := MonthSummary{
		Month:            month,
		TotalEmployees:   len(recs),
		TotalGrossSalary: decimal.Zero,
		TotalDeductions:  decimal.Zero,
		TotalNetSalary:   decimal.Zero,
		Status:           models.PayrollDraft,
	}
	if done {
		s.Status = models.PayrollProcessed
	}
	for _, r := range recs {
		s.TotalGrossSalary = s.TotalGrossSalary.Add(r.GrossSalary)
		s.TotalDeductions = s.TotalDeductions.Add(r.TotalDeductions)
		s.TotalNetSalary = s.TotalNetSalary.Add(r.NetSalary)
	}
	return s, nil
}
