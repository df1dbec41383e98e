package finance

import (
	"context"
	"time"

	"mirotec-backend/internal/cache"
	"mirotec-backend/internal/config"
	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SummaryTTL bounds how long a cached summary may be served. Writes
// invalidate it explicitly; the TTL only covers a missed invalidation.
var SummaryTTL = 60 * time.Second

type Summary struct {
	TotalRevenue           decimal.Decimal `json:"total_revenue"`
	TotalExpenses          decimal.Decimal `json:"total_expenses"`
	Profit                 decimal.Decimal `json:"profit"`
	OutstandingReceivables decimal.Decimal `json:"outstanding_receivables"`
	OutstandingPayments    decimal.Decimal `json:"outstanding_payments"`
	EntryCount             int             `json:"entry_count"`
}

// Summarize recomputes the aggregates from the ledger and the ISSUED invoices.
func Summarize(tx *gorm.DB, companyID uint) (Summary, error) {
	entries, err := List(tx, companyID, ListFilter{})
	if err != nil {
		return Summary{}, err
	}

	var issued []models.Invoice
	if err := tx.Select("grand_total").
		Where("company_id = ? AND status = ?", companyID, models.InvoiceIssued).
		Find(&issued).Error; err != nil {
		return Summary{}, err
	}

	s := Summary{EntryCount: len(entries)}
	s.TotalRevenue = sum(entries, func(t models.Transaction) bool {
		return t.Type == models.TransactionCredit && t.Status == models.PaymentPaid
	})
	s.TotalExpenses = sum(entries, func(t models.Transaction) bool {
		return t.Type == models.TransactionDebit && t.Status == models.PaymentPaid
	})
	s.Profit = s.TotalRevenue.Sub(s.TotalExpenses)
	s.OutstandingPayments = sum(entries, func(t models.Transaction) bool {
		return t.Status == models.PaymentPending || t.Status == models.PaymentOverdue
	})
	s.OutstandingReceivables = decimal.Zero
	for _, inv := range issued {
		s.OutstandingReceivables = s.OutstandingReceivables.Add(inv.GrandTotal)
	}
	return s, nil
}

// CachedSummary serves the summary from redis when available.
func CachedSummary(ctx context.Context, db *gorm.DB, companyID uint) (Summary, error) {
	key := cache.SummaryKey(companyID)

	var s Summary
	found, err := cache.GetObject(ctx, key, &s)
	if err != nil {
		config.LogError(config.GetLogger(), "finance", "CachedSummary", "cache read failed", key, err)
	}
	if found {
		return s, nil
	}

	s, err = Summarize(db.WithContext(ctx), companyID)
	if err != nil {
		return Summary{}, err
	}
	if err := cache.SetObject(ctx, key, s, SummaryTTL); err != nil {
		config.LogError(config.GetLogger(), "finance", "CachedSummary", "cache write failed", key, err)
	}
	return s, nil
}

// Invalidate drops the cached summary after any write that can move it.
func Invalidate(ctx context.Context, companyID uint) {
	if err := cache.Delete(ctx, cache.SummaryKey(companyID)); err != nil {
		config.LogError(config.GetLogger(), "finance", "Invalidate", "cache delete failed", companyID, err)
	}
}
