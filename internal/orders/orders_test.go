package orders

import (
	"errors"
	"testing"

	"mirotec-backend/internal/models"
	"mirotec-backend/internal/testdb"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCreateSnapshotsClientName(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	cl := models.Client{CompanyID: co.ID, ClientName: "Varanasi Silks", IsActive: true}
	if err := db.Create(&cl).Error; err != nil {
		t.Fatalf("client: %v", err)
	}

	o := models.Order{ClientID: &cl.ID, ClientName: "ignored", ProductKey: "realJari", Quantity: d(5), Amount: d(75000)}
	if err := Create(db, co.ID, &o); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.ClientName != "Varanasi Silks" || o.Status != models.OrderPending || o.Date == "" {
		t.Fatalf("unexpected order: %+v", o)
	}

	ghost := uint(42)
	if err := Create(db, co.ID, &models.Order{ClientID: &ghost, ProductKey: "realJari", Quantity: d(1)}); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if err := Create(db, co.ID, &models.Order{ClientName: "Walk-in", ProductKey: "realJari", Quantity: d(0)}); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestListAndStatus(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	var ids []uint
	for _, date := range []string{"2024-05-01", "2024-05-03", "2024-05-02"} {
		o := models.Order{ClientName: "Walk-in", ProductKey: "imitationJari", Quantity: d(2), Amount: d(6000), Date: date}
		if err := Create(db, co.ID, &o); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, o.ID)
	}

	if n, _ := PendingCount(db, co.ID); n != 3 {
		t.Fatalf("pending = %d", n)
	}
	if _, err := UpdateStatus(db, co.ID, ids[0], models.OrderShipped); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := UpdateStatus(db, co.ID, ids[0], "lost"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if n, _ := PendingCount(db, co.ID); n != 2 {
		t.Fatalf("pending = %d", n)
	}

	all, err := List(db, co.ID, 0, "")
	if err != nil || len(all) != 3 || all[0].Date != "2024-05-03" {
		t.Fatalf("List = %+v, %v", all, err)
	}
	shipped, _ := List(db, co.ID, 0, models.OrderShipped)
	if len(shipped) != 1 || shipped[0].ID != ids[0] {
		t.Fatalf("shipped = %+v", shipped)
	}
}
