package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryCategory string

const (
	CategoryRawMaterial   InventoryCategory = "raw_material"
	CategoryFinishedGoods InventoryCategory = "finished_goods"
)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// InventoryItem is a raw material or finished good. Never deleted, only quantity-adjusted.
type InventoryItem struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	CompanyID      uint              `gorm:"not null;uniqueIndex:uniq_company_material" json:"company_id"`
	MaterialKey    string            `gorm:"size:50;not null;uniqueIndex:uniq_company_material" json:"material_key"` // silver, copper, polyesterYarn ...
	Name           string            `gorm:"size:100" json:"name"`
	Category       InventoryCategory `gorm:"size:20;not null" json:"category"`
	Quantity       decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"quantity"` // kg
	Unit           string            `gorm:"size:20;not null" json:"unit"`
	MinStock       decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"min_stock"`
	EstimatedValue decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"estimated_value"`
	StockStatus    StockStatus       `gorm:"size:20;not null" json:"stock_status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
