package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CompanyID       uint            `gorm:"index;not null" json:"company_id"`
	ClientName      string          `gorm:"size:150;not null" json:"client_name"`
	CompanyName     string          `gorm:"size:150" json:"company_name"`
	GSTIN           string          `gorm:"size:15" json:"gstin"`
	BillingAddress  string          `gorm:"size:255" json:"billing_address"`
	ShippingAddress string          `gorm:"size:255" json:"shipping_address"`
	ContactPerson   string          `gorm:"size:100" json:"contact_person"`
	Phone           string          `gorm:"size:20" json:"phone"` // E.164
	Email           string          `gorm:"size:100" json:"email"`
	State           string          `gorm:"size:50" json:"state"`
	CreditLimit     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"credit_limit"`
	CreatedDate     string          `gorm:"size:10" json:"created_date"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
