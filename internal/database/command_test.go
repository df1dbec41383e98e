package database

import (
	"context"
	"errors"
	"testing"

	"mirotec-backend/internal/models"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRunCommandRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")

	err := RunCommandOn(context.Background(), db, 1, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Company{Name: "Acme", State: "gujarat"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	db.Model(&models.Company{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected rollback, found %d companies", count)
	}
}

func TestRunCommandCommits(t *testing.T) {
	db := openTestDB(t)

	err := RunCommandOn(context.Background(), db, 1, func(tx *gorm.DB) error {
		return tx.Create(&models.Company{Name: "Acme", State: "gujarat"}).Error
	})
	if err != nil {
		t.Fatalf("RunCommandOn: %v", err)
	}

	var count int64
	db.Model(&models.Company{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 company, got %d", count)
	}
}
