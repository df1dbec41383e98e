package inventory

import (
	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type defaultMaterial struct {
	key      string
	name     string
	category models.InventoryCategory
	minStock int64
}

var defaultMaterials = []defaultMaterial{
	{"silver", "Silver", models.CategoryRawMaterial, 20},
	{"copper", "Copper", models.CategoryRawMaterial, 50},
	{"polyesterYarn", "Polyester Yarn", models.CategoryRawMaterial, 100},
	{"realJari", "Real Jari", models.CategoryFinishedGoods, 30},
	{"imitationJari", "Imitation Jari", models.CategoryFinishedGoods, 50},
}

// SeedDefaults creates the standard material rows at zero quantity for a new company.
func SeedDefaults(tx *gorm.DB, companyID uint) error {
	for _, m := range defaultMaterials {
		item := models.InventoryItem{
			MaterialKey:    m.key,
			Name:           m.name,
			Category:       m.category,
			Quantity:       decimal.Zero,
			Unit:           "kg",
			MinStock:       decimal.NewFromInt(m.minStock),
			EstimatedValue: decimal.Zero,
		}
		if err := AddItem(tx, companyID, &item); err != nil && err != ErrDuplicateKey {
			return err
		}
	}
	return nil
}
