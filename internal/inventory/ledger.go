package inventory

import (
	"errors"
	"fmt"
	"strings"

	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound         = errors.New("inventory item not found")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrDuplicateKey     = errors.New("material key already exists")
)

// InsufficientStockError is returned when a debit would take a material below zero.
type InsufficientStockError struct {
	Material  string          `json:"material"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: required %s, available %s", e.Material, e.Required, e.Available)
}

// StatusFor derives the stock status. Zero wins over the low-stock threshold.
func StatusFor(quantity, minStock decimal.Decimal) models.StockStatus {
	switch {
	case quantity.IsZero():
		return models.StockStatusOutOfStock
	case quantity.LessThan(minStock):
		return models.StockStatusLowStock
	default:
		return models.StockStatusInStock
	}
}

func AddItem(tx *gorm.DB, companyID uint, item *models.InventoryItem) error {
	item.MaterialKey = strings.TrimSpace(item.MaterialKey)
	if item.Quantity.IsNegative() || item.MinStock.IsNegative() || item.EstimatedValue.IsNegative() {
		return ErrNegativeQuantity
	}

	var count int64
	if err := tx.Model(&models.InventoryItem{}).
		Where("company_id = ? AND material_key = ?", companyID, item.MaterialKey).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateKey
	}

	item.ID = 0
	item.CompanyID = companyID
	if item.Unit == "" {
		item.Unit = "kg"
	}
	item.StockStatus = StatusFor(item.Quantity, item.MinStock)
	return tx.Create(item).Error
}

func Get(tx *gorm.DB, companyID, itemID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := tx.Where("company_id = ? AND id = ?", companyID, itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity overwrites the counted quantity (manual stock entry).
func SetQuantity(tx *gorm.DB, companyID, itemID uint, quantity decimal.Decimal) (*models.InventoryItem, error) {
	if quantity.IsNegative() {
		return nil, ErrNegativeQuantity
	}
	item, err := Get(tx, companyID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.StockStatus = StatusFor(quantity, item.MinStock)
	if err := tx.Model(item).Updates(map[string]interface{}{
		"quantity":     item.Quantity,
		"stock_status": item.StockStatus,
	}).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func findByKey(tx *gorm.DB, companyID uint, materialKey string, lock bool) (*models.InventoryItem, error) {
	q := tx.Where("company_id = ? AND material_key = ?", companyID, materialKey)
	if lock && tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item models.InventoryItem
	err := q.First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Available returns the quantity on hand. An unknown material has zero.
func Available(tx *gorm.DB, companyID uint, materialKey string) (decimal.Decimal, error) {
	item, err := findByKey(tx, companyID, materialKey, false)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, nil
	}
	return item.Quantity, nil
}

// Debit removes amount from the material's stock and refreshes its status.
func Debit(tx *gorm.DB, companyID uint, materialKey string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeQuantity
	}
	item, err := findByKey(tx, companyID, materialKey, true)
	if err != nil {
		return err
	}
	if item == nil {
		return &InsufficientStockError{Material: materialKey, Required: amount, Available: decimal.Zero}
	}

	remaining := item.Quantity.Sub(amount)
	if remaining.IsNegative() {
		return &InsufficientStockError{Material: materialKey, Required: amount, Available: item.Quantity}
	}

	return tx.Model(item).Updates(map[string]interface{}{
		"quantity":     remaining,
		"stock_status": StatusFor(remaining, item.MinStock),
	}).Error
}

func List(tx *gorm.DB, companyID uint, category models.InventoryCategory) ([]models.InventoryItem, error) {
	q := tx.Where("company_id = ?", companyID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var items []models.InventoryItem
	if err := q.Order("category asc, material_key asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// LowStock lists items that are LOW_STOCK or OUT_OF_STOCK.
func LowStock(tx *gorm.DB, companyID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := tx.Where("company_id = ? AND stock_status IN ?", companyID,
		[]models.StockStatus{models.StockStatusLowStock, models.StockStatusOutOfStock}).
		Order("material_key asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func TotalValue(tx *gorm.DB, companyID uint) (decimal.Decimal, error) {
	items, err := List(tx, companyID, "")
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.EstimatedValue)
	}
	return total, nil
}
