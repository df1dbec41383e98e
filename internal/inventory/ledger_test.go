package inventory

import (
	"errors"
	"testing"

	"mirotec-backend/internal/models"
	"mirotec-backend/internal/testdb"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func addMaterial(t *testing.T, db *gorm.DB, companyID uint, key string, qty, min int64) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		MaterialKey: key,
		Name:        key,
		Category:    models.CategoryRawMaterial,
		Quantity:    d(qty),
		MinStock:    d(min),
	}
	if err := AddItem(db, companyID, item); err != nil {
		t.Fatalf("AddItem(%s): %v", key, err)
	}
	return item
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		qty, min int64
		want     models.StockStatus
	}{
		{0, 20, models.StockStatusOutOfStock},
		{0, 0, models.StockStatusOutOfStock},
		{15, 20, models.StockStatusLowStock},
		{19, 20, models.StockStatusLowStock},
		{20, 20, models.StockStatusInStock},
		{85, 50, models.StockStatusInStock},
	}
	for _, tc := range cases {
		if got := StatusFor(d(tc.qty), d(tc.min)); got != tc.want {
			t.Fatalf("StatusFor(%d, %d) = %s, want %s", tc.qty, tc.min, got, tc.want)
		}
	}
}

func TestAddItemDerivesStatus(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	item := addMaterial(t, db, co.ID, "silver", 15, 20)
	if item.StockStatus != models.StockStatusLowStock {
		t.Fatalf("expected low_stock, got %s", item.StockStatus)
	}
	if item.Unit != "kg" {
		t.Fatalf("expected default unit kg, got %q", item.Unit)
	}

	dup := &models.InventoryItem{MaterialKey: "silver", Category: models.CategoryRawMaterial}
	if err := AddItem(db, co.ID, dup); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	item := addMaterial(t, db, co.ID, "copper", 85, 50)

	got, err := SetQuantity(db, co.ID, item.ID, d(0))
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if got.StockStatus != models.StockStatusOutOfStock {
		t.Fatalf("expected out_of_stock, got %s", got.StockStatus)
	}

	if _, err := SetQuantity(db, co.ID, item.ID, d(-1)); !errors.Is(err, ErrNegativeQuantity) {
		t.Fatalf("expected ErrNegativeQuantity, got %v", err)
	}
	if _, err := SetQuantity(db, co.ID, 9999, d(1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	other := testdb.Company(t, db, "maharashtra")
	if _, err := SetQuantity(db, other.ID, item.ID, d(1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected another company's item to be invisible, got %v", err)
	}
}

func TestDebit(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	addMaterial(t, db, co.ID, "copper", 5, 4)

	if err := Debit(db, co.ID, "copper", d(3)); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	avail, err := Available(db, co.ID, "copper")
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if !avail.Equal(d(2)) {
		t.Fatalf("expected 2 left, got %s", avail)
	}

	err = Debit(db, co.ID, "copper", d(3))
	var short *InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if short.Material != "copper" || !short.Required.Equal(d(3)) || !short.Available.Equal(d(2)) {
		t.Fatalf("unexpected error details: %+v", short)
	}

	items, _ := LowStock(db, co.ID)
	if len(items) != 1 || items[0].StockStatus != models.StockStatusLowStock {
		t.Fatalf("expected copper in low stock list, got %+v", items)
	}

	if err := Debit(db, co.ID, "copper", d(2)); err != nil {
		t.Fatalf("Debit to zero: %v", err)
	}
	items, _ = LowStock(db, co.ID)
	if len(items) != 1 || items[0].StockStatus != models.StockStatusOutOfStock {
		t.Fatalf("expected copper out of stock, got %+v", items)
	}
}

func TestUnknownMaterialHasNothing(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	avail, err := Available(db, co.ID, "gold")
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if !avail.IsZero() {
		t.Fatalf("expected zero, got %s", avail)
	}

	err = Debit(db, co.ID, "gold", d(1))
	var short *InsufficientStockError
	if !errors.As(err, &short) || !short.Available.IsZero() {
		t.Fatalf("expected InsufficientStockError with zero available, got %v", err)
	}
}

func TestSeedDefaultsIsRepeatable(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	for i := 0; i < 2; i++ {
		if err := SeedDefaults(db, co.ID); err != nil {
			t.Fatalf("SeedDefaults: %v", err)
		}
	}
	items, err := List(db, co.ID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != len(defaultMaterials) {
		t.Fatalf("expected %d items, got %d", len(defaultMaterials), len(items))
	}
	for _, it := range items {
		if it.StockStatus != models.StockStatusOutOfStock {
			t.Fatalf("%s: expected out_of_stock, got %s", it.MaterialKey, it.StockStatus)
		}
	}
}
