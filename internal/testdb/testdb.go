// Package testdb opens a throwaway in-memory database for package tests.
package testdb

import (
	"testing"

	"mirotec-backend/internal/database"
	"mirotec-backend/internal/models"

	"gorm.io/gorm"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Company inserts a tenant and returns it.
func Company(t *testing.T, db *gorm.DB, state string) models.Company {
	t.Helper()
	c := models.Company{Name: "Mirotec Test", State: state, GSTIN: "24AAAFM9339E1ZE"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("testdb: company: %v", err)
	}
	return c
}
