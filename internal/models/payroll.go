package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalaryConfig struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	CompanyID         uint            `gorm:"index;not null" json:"company_id"`
	EmployeeID        uint            `gorm:"uniqueIndex;not null" json:"employee_id"`
	BaseMonthlySalary decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"base_monthly_salary"`
	PerDaySalary      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"per_day_salary"` // base / 26
	OvertimeRate      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"overtime_rate"`  // per hour
	Allowances        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"allowances"`
	PFPercent         decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"pf_percent"`  // % of basic
	ESIPercent        decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"esi_percent"` // % of gross
	OtherDeductions   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"other_deductions"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type PayrollStatus string

const (
	PayrollDraft     PayrollStatus = "draft"
	PayrollProcessed PayrollStatus = "processed"
	PayrollPaid      PayrollStatus = "paid"
)

// PayrollRecord rows are only stored once a month is processed; drafts are
// computed on the fly.
type PayrollRecord struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CompanyID  uint   `gorm:"index;not null" json:"company_id"`
	EmployeeID uint   `gorm:"not null;uniqueIndex:uniq_employee_month" json:"employee_id"`
	Month      string `gorm:"size:7;not null;uniqueIndex:uniq_employee_month;index" json:"month"` // YYYY-MM

	WorkingDays   int             `json:"working_days"`
	PresentDays   int             `json:"present_days"`
	HalfDays      int             `json:"half_days"`
	AbsentDays    int             `json:"absent_days"`
	LateDays      int             `json:"late_days"`
	LeaveDays     int             `json:"leave_days"`
	OvertimeHours decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"overtime_hours"`

	BasicSalary decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"basic_salary"`
	OvertimePay decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"overtime_pay"`
	Allowances  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"allowances"`
	GrossSalary decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"gross_salary"`

	PFDeduction     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"pf_deduction"`
	ESIDeduction    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"esi_deduction"`
	OtherDeductions decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"other_deductions"`
	TotalDeductions decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_deductions"`

	NetSalary decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"net_salary"`

	Status        PayrollStatus `gorm:"size:20;not null" json:"status"`
	ProcessedDate string        `gorm:"size:10" json:"processed_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ProcessedMonth is the processed-months set. A row here means the month's
// payroll is locked.
type ProcessedMonth struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompanyID     uint      `gorm:"not null;uniqueIndex:uniq_company_month" json:"company_id"`
	Month         string    `gorm:"size:7;not null;uniqueIndex:uniq_company_month" json:"month"`
	TransactionID uint      `json:"transaction_id"`
	ProcessedAt   time.Time `json:"processed_at"`
}
