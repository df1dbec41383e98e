package database

import (
	"context"

	"mirotec-backend/internal/locking"

	"gorm.io/gorm"
)

// RunCommand executes fn as one company-scoped command: the company lock is
// held for the whole call and fn runs inside a single transaction. Any error
// returned by fn rolls everything back.
func RunCommand(ctx context.Context, companyID uint, fn func(tx *gorm.DB) error) error {
	return RunCommandOn(ctx, DB, companyID, fn)
}

func RunCommandOn(ctx context.Context, db *gorm.DB, companyID uint, fn func(tx *gorm.DB) error) error {
	unlock, err := locking.Default().Lock(ctx, locking.CompanyKey(companyID))
	if err != nil {
		return err
	}
	defer unlock()

	return db.WithContext(ctx).Transaction(fn)
}
