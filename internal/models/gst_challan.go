package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChallanStatus string

const (
	ChallanPending ChallanStatus = "pending"
	ChallanPaid    ChallanStatus = "paid"
	ChallanFiled   ChallanStatus = "filed"
)

func (s ChallanStatus) Valid() bool {
	switch s {
	case ChallanPending, ChallanPaid, ChallanFiled:
		return true
	}
	return false
}

type PaymentMode string

const (
	PaymentModeCash       PaymentMode = "cash"
	PaymentModeNetBanking PaymentMode = "net_banking"
	PaymentModeUPI        PaymentMode = "upi"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeNetBanking, PaymentModeUPI:
		return true
	}
	return false
}

// GSTChallan is a tax remittance obligation.
type GSTChallan struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CompanyID      uint            `gorm:"not null;uniqueIndex:uniq_company_challan_no" json:"company_id"`
	ChallanNumber  string          `gorm:"size:30;not null;uniqueIndex:uniq_company_challan_no" json:"challan_number"`
	TaxPeriod      string          `gorm:"size:7;index;not null" json:"tax_period"` // YYYY-MM
	GSTIN          string          `gorm:"size:15" json:"gstin"`
	CGSTAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"cgst_amount"`
	SGSTAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"sgst_amount"`
	IGSTAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"igst_amount"`
	InterestAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"interest_amount"`
	PenaltyAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"penalty_amount"`
	TotalPayable   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_payable"`
	PaymentMode    PaymentMode     `gorm:"size:20;not null" json:"payment_mode"`
	Status         ChallanStatus   `gorm:"size:20;index;not null" json:"status"`
	CreatedDate    string          `gorm:"size:10;not null" json:"created_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
