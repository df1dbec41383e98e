package payroll

import (
	"errors"

	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNoSalaryConfig   = errors.New("salary config not found")
	ErrInvalidConfig    = errors.New("invalid salary config")
)

const (
	paidDaysPerMonth = 26
	hoursPerDay      = 8
)

var (
	overtimeMultiplier = decimal.RequireFromString("1.5")
	allowanceShare     = decimal.RequireFromString("0.1")
	defaultPFPercent   = decimal.NewFromInt(12)
	defaultESIPercent  = decimal.RequireFromString("0.75")
)

// BaseSalaryFor is the monthly salary a new employee of role starts on.
func BaseSalaryFor(role models.EmployeeRole) decimal.Decimal {
	switch role {
	case models.EmployeeSupervisor:
		return decimal.NewFromInt(35000)
	case models.EmployeeOperator:
		return decimal.NewFromInt(22000)
	case models.EmployeeTechnician:
		return decimal.NewFromInt(28000)
	case models.EmployeeHelper:
		return decimal.NewFromInt(15000)
	}
	return decimal.NewFromInt(18000)
}

// deriveRates recomputes the per-day salary and hourly overtime rate from the
// base salary.
func deriveRates(cfg *models.SalaryConfig) {
	perDay := cfg.BaseMonthlySalary.Div(decimal.NewFromInt(paidDaysPerMonth))
	cfg.PerDaySalary = perDay.Round(0)
	cfg.OvertimeRate = perDay.Div(decimal.NewFromInt(hoursPerDay)).Mul(overtimeMultiplier).Round(0)
}

func DefaultConfig(companyID, employeeID uint, role models.EmployeeRole) models.SalaryConfig {
	cfg := models.SalaryConfig{
		CompanyID:         companyID,
		EmployeeID:        employeeID,
		BaseMonthlySalary: BaseSalaryFor(role),
		PFPercent:         defaultPFPercent,
		ESIPercent:        defaultESIPercent,
		OtherDeductions:   decimal.Zero,
	}
	deriveRates(&cfg)
	cfg.Allowances = cfg.BaseMonthlySalary.Mul(allowanceShare).Round(0)
	return cfg
}

// EnsureConfig gives emp the default config for its role unless it has one.
func EnsureConfig(tx *gorm.DB, emp *models.Employee) (*models.SalaryConfig, error) {
	cfg := DefaultConfig(emp.CompanyID, emp.ID, emp.Role)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&cfg).Error; err != nil {
		return nil, err
	}
	return GetConfig(tx, emp.CompanyID, emp.ID)
}

func GetConfig(tx *gorm.DB, companyID, employeeID uint) (*models.SalaryConfig, error) {
	var cfg models.SalaryConfig
	err := tx.Where("company_id = ? AND employee_id = ?", companyID, employeeID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSalaryConfig
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ListConfigs(tx *gorm.DB, companyID uint) ([]models.SalaryConfig, error) {
	var out []models.SalaryConfig
	if err := tx.Where("company_id = ?", companyID).Order("employee_id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ConfigPatch holds the fields a salary update may change. Nil fields are kept.
type ConfigPatch struct {
	BaseMonthlySalary *decimal.Decimal `json:"base_monthly_salary"`
	PerDaySalary      *decimal.Decimal `json:"per_day_salary"`
	OvertimeRate      *decimal.Decimal `json:"overtime_rate"`
	Allowances        *decimal.Decimal `json:"allowances"`
	PFPercent         *decimal.Decimal `json:"pf_percent"`
	ESIPercent        *decimal.Decimal `json:"esi_percent"`
	OtherDeductions   *decimal.Decimal `json:"other_deductions"`
}

func (p ConfigPatch) fields() []*decimal.Decimal {
	return []*decimal.Decimal{p.BaseMonthlySalary, p.PerDaySalary, p.OvertimeRate, p.Allowances, p.PFPercent, p.ESIPercent, p.OtherDeductions}
}

// UpdateConfig applies patch. A new base salary re-derives the per-day and
// overtime rates, overriding any explicit values for them in the same patch.
func UpdateConfig(tx *gorm.DB, companyID, employeeID uint, patch ConfigPatch) (*models.SalaryConfig, error) {
	for _, f := range patch.fields() {
		if f != nil && f.IsNegative() {
			return nil, ErrInvalidConfig
		}
	}
	cfg, err := GetConfig(tx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	set := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.PerDaySalary, patch.PerDaySalary)
	set(&cfg.OvertimeRate, patch.OvertimeRate)
	set(&cfg.Allowances, patch.Allowances)
	set(&cfg.PFPercent, patch.PFPercent)
	set(&cfg.ESIPercent, patch.ESIPercent)
	set(&cfg.OtherDeductions, patch.OtherDeductions)
	if patch.BaseMonthlySalary != nil {
		cfg.BaseMonthlySalary = *patch.BaseMonthlySalary
		deriveRates(cfg)
	}

	if err := tx.Save(cfg).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}
