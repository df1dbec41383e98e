package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CompanyID  uint            `gorm:"index;not null" json:"company_id"`
	ClientID   *uint           `gorm:"index" json:"client_id"`
	ClientName string          `gorm:"size:150;not null" json:"client_name"`
	ProductKey string          `gorm:"size:50;not null" json:"product_key"`
	Quantity   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Date       string          `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	Status     OrderStatus     `gorm:"size:20;not null" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
