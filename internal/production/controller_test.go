package production

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mirotec-backend/internal/inventory"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/testdb"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func stock(t *testing.T, db *gorm.DB, companyID uint, key string, qty, min int64) {
	t.Helper()
	item := &models.InventoryItem{
		MaterialKey: key,
		Category:    models.CategoryRawMaterial,
		Quantity:    d(qty),
		MinStock:    d(min),
	}
	if err := inventory.AddItem(db, companyID, item); err != nil {
		t.Fatalf("AddItem(%s): %v", key, err)
	}
}

func machine(t *testing.T, db *gorm.DB, companyID uint, typ models.MachineType) *models.Machine {
	t.Helper()
	m := &models.Machine{Name: "M-" + string(typ), Type: typ}
	if err := Add(db, companyID, m); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return m
}

func available(t *testing.T, db *gorm.DB, companyID uint, key string) decimal.Decimal {
	t.Helper()
	v, err := inventory.Available(db, companyID, key)
	if err != nil {
		t.Fatalf("Available(%s): %v", key, err)
	}
	return v
}

func TestStartBlockedByShortMaterialChangesNothing(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	stock(t, db, co.ID, "silver", 15, 20)
	stock(t, db, co.ID, "copper", 1, 50)
	m := machine(t, db, co.ID, models.MachineWireDrawing)

	var got *models.Machine
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		got, err = Transition(tx, co.ID, m.ID, models.MachineRunning)
		return err
	})

	var short *inventory.InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError, got %v (machine %+v)", err, got)
	}
	if short.Material != "copper" || !short.Required.Equal(d(3)) || !short.Available.Equal(d(1)) {
		t.Fatalf("unexpected shortage: %+v", short)
	}
	if v := available(t, db, co.ID, "silver"); !v.Equal(d(15)) {
		t.Fatalf("silver changed to %s", v)
	}
	if v := available(t, db, co.ID, "copper"); !v.Equal(d(1)) {
		t.Fatalf("copper changed to %s", v)
	}

	reloaded, _ := Get(db, co.ID, m.ID)
	if reloaded.Status != models.MachineStopped {
		t.Fatalf("machine status changed to %s", reloaded.Status)
	}
}

func TestStartDebitsEveryMaterial(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	stock(t, db, co.ID, "silver", 15, 20)
	stock(t, db, co.ID, "copper", 85, 50)
	m := machine(t, db, co.ID, models.MachineElectroplating)

	got, err := Transition(db, co.ID, m.ID, models.MachineRunning)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != models.MachineRunning || !got.Efficiency.Equal(NominalEfficiency) {
		t.Fatalf("unexpected machine after start: %+v", got)
	}
	if v := available(t, db, co.ID, "silver"); !v.Equal(d(14)) {
		t.Fatalf("silver = %s, want 14", v)
	}
	if v := available(t, db, co.ID, "copper"); !v.Equal(d(81)) {
		t.Fatalf("copper = %s, want 81", v)
	}

	// Already running: no second debit.
	if _, err := Transition(db, co.ID, m.ID, models.MachineRunning); err != nil {
		t.Fatalf("same-status transition: %v", err)
	}
	if v := available(t, db, co.ID, "copper"); !v.Equal(d(81)) {
		t.Fatalf("copper debited twice: %s", v)
	}
}

func TestStopNeverTouchesInventory(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	stock(t, db, co.ID, "polyesterYarn", 5, 100)
	m := machine(t, db, co.ID, models.MachineWinding)

	if _, err := Transition(db, co.ID, m.ID, models.MachineRunning); err != nil {
		t.Fatalf("start: %v", err)
	}
	if v := available(t, db, co.ID, "polyesterYarn"); !v.IsZero() {
		t.Fatalf("yarn = %s, want 0", v)
	}

	got, err := Transition(db, co.ID, m.ID, models.MachineMaintenance)
	if err != nil {
		t.Fatalf("maintenance: %v", err)
	}
	if !got.Efficiency.IsZero() {
		t.Fatalf("efficiency = %s, want 0", got.Efficiency)
	}

	// Restart from maintenance with no yarn left is blocked.
	_, err = Transition(db, co.ID, m.ID, models.MachineRunning)
	var short *inventory.InsufficientStockError
	if !errors.As(err, &short) || short.Material != "polyesterYarn" {
		t.Fatalf("expected yarn shortage, got %v", err)
	}
}

func TestTransitionUnknownMachine(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	if _, err := Transition(db, co.ID, 42, models.MachineStopped); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := Transition(db, co.ID, 42, models.MachineStatus("broken")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	stock(t, db, co.ID, "copper", 100, 10)
	a := machine(t, db, co.ID, models.MachineFlattening)
	b := machine(t, db, co.ID, models.MachineFlattening)
	c := machine(t, db, co.ID, models.MachineFlattening)

	_, _ = Transition(db, co.ID, a.ID, models.MachineRunning)
	_, _ = Transition(db, co.ID, b.ID, models.MachineRunning)
	_, _ = Transition(db, co.ID, c.ID, models.MachineMaintenance)

	st, err := Summarize(db, co.ID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if st.Running != 2 || st.Maintenance != 1 || st.Total != 3 || !st.AvgEfficiency.Equal(d(75)) {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestLoadConsumptionOverridesOneType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consumption.json")
	body := `{"winding": [{"material_key": "polyesterYarn", "amount_per_start": 7}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := LoadConsumption(path)
	if err != nil {
		t.Fatalf("LoadConsumption: %v", err)
	}
	if got := table[models.MachineWinding][0].AmountPerStart; !got.Equal(d(7)) {
		t.Fatalf("winding = %s, want 7", got)
	}
	if got := len(table[models.MachineWireDrawing]); got != 2 {
		t.Fatalf("wire drawing lost its defaults: %d rates", got)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte(`{"laser": []}`), 0o600)
	if _, err := LoadConsumption(bad); err == nil {
		t.Fatal("expected error for unknown machine type")
	}
}
