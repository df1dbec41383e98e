package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type TransactionSource string

const (
	SourceManual     TransactionSource = "manual"
	SourceInvoice    TransactionSource = "invoice"
	SourceGSTChallan TransactionSource = "gst_challan"
)

type TransactionCategory string

const (
	CategorySales       TransactionCategory = "sales"
	CategoryPurchase    TransactionCategory = "purchase"
	CategorySalary      TransactionCategory = "salary"
	CategoryGST         TransactionCategory = "gst"
	CategoryMaintenance TransactionCategory = "maintenance"
	CategoryOther       TransactionCategory = "other"
)

func (c TransactionCategory) Valid() bool {
	switch c {
	case CategorySales, CategoryPurchase, CategorySalary, CategoryGST, CategoryMaintenance, CategoryOther:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// Transaction is one ledger entry. DocumentKey is set for entries owned by a
// document ("invoice:12", "challan:7", "payroll:2024-05"); the unique index
// guarantees at most one entry per document. Manual entries leave it NULL.
type Transaction struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	CompanyID       uint                `gorm:"not null;index;uniqueIndex:uniq_company_document" json:"company_id"`
	DocumentKey     *string             `gorm:"size:64;uniqueIndex:uniq_company_document" json:"document_key,omitempty"`
	Description     string              `gorm:"size:255" json:"description"`
	Type            TransactionType     `gorm:"size:10;not null" json:"type"`
	Amount          decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"amount"`
	Status          PaymentStatus       `gorm:"size:10;not null" json:"status"`
	Date            string              `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	Source          TransactionSource   `gorm:"size:20;not null" json:"source"`
	Category        TransactionCategory `gorm:"size:20" json:"category"`
	ReferenceID     string              `gorm:"size:50" json:"reference_id,omitempty"`
	ReferenceNumber string              `gorm:"size:50" json:"reference_number,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}
