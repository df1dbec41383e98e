package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}

type GSTType string

const (
	GSTTypeCGSTSGST GSTType = "cgst_sgst"
	GSTTypeIGST     GSTType = "igst"
)

// Invoice is created once; only Status changes afterwards. Client fields are a
// snapshot taken at issue time.
type Invoice struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CompanyID     uint   `gorm:"not null;uniqueIndex:uniq_company_invoice_no" json:"company_id"`
	InvoiceNumber string `gorm:"size:30;not null;uniqueIndex:uniq_company_invoice_no" json:"invoice_number"`
	InvoiceDate   string `gorm:"size:10;index;not null" json:"invoice_date"`
	OrderID       *uint  `json:"order_id"`

	ClientID      *uint  `gorm:"index" json:"client_id"`
	ClientName    string `gorm:"size:150;not null" json:"client_name"`
	ClientAddress string `gorm:"size:255" json:"client_address"`
	ClientGSTIN   string `gorm:"size:15" json:"client_gstin"`
	ClientState   string `gorm:"size:50" json:"client_state"`
	CompanyState  string `gorm:"size:50" json:"company_state"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items"`

	GSTType    GSTType         `gorm:"size:20;not null" json:"gst_type"`
	CGSTRate   decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"cgst_rate"`
	SGSTRate   decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"sgst_rate"`
	IGSTRate   decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"igst_rate"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"subtotal"`
	CGSTAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"cgst_amount"`
	SGSTAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"sgst_amount"`
	IGSTAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"igst_amount"`
	TotalTax   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_tax"`
	GrandTotal decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"grand_total"`

	Status    InvoiceStatus `gorm:"size:20;index;not null" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type InvoiceLineItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	InvoiceID    uint            `gorm:"index;not null" json:"invoice_id"`
	Position     int             `gorm:"not null" json:"position"`
	ProductKey   string          `gorm:"size:50;not null" json:"product_key"`
	HSNCode      string          `gorm:"size:10" json:"hsn_code"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Rate         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"taxable_value"`
}
