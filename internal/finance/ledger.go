package finance

import (
	"errors"
	"fmt"
	"strings"

	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidEntry = errors.New("invalid ledger entry")
	ErrNotFound     = errors.New("ledger entry not found")
)

func InvoiceKey(invoiceID uint) string { return fmt.Sprintf("invoice:%d", invoiceID) }
func ChallanKey(challanID uint) string { return fmt.Sprintf("challan:%d", challanID) }
func PayrollKey(month string) string   { return "payroll:" + month }

func FindByKey(tx *gorm.DB, companyID uint, key string) (*models.Transaction, error) {
	var t models.Transaction
	err := tx.Where("company_id = ? AND document_key = ?", companyID, key).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EnsureEntry creates entry under key unless one already exists. The unique
// (company_id, document_key) index backs this up if two writers race anyway.
// created reports whether a new row was written.
func EnsureEntry(tx *gorm.DB, companyID uint, key string, entry *models.Transaction) (created bool, err error) {
	existing, err := FindByKey(tx, companyID, key)
	if err != nil {
		return false, err
	}
	if existing != nil {
		*entry = *existing
		return false, nil
	}

	k := key
	entry.ID = 0
	entry.CompanyID = companyID
	entry.DocumentKey = &k
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RemoveEntry hard-deletes the entry owned by key, if any.
func RemoveEntry(tx *gorm.DB, companyID uint, key string) (removed bool, err error) {
	res := tx.Where("company_id = ? AND document_key = ?", companyID, key).Delete(&models.Transaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func invoiceEntry(inv *models.Invoice) *models.Transaction {
	return &models.Transaction{
		Description:     "Invoice Payment - " + inv.ClientName,
		Type:            models.TransactionCredit,
		Amount:          inv.GrandTotal,
		Status:          models.PaymentPaid,
		Date:            utils.Today(),
		Source:          models.SourceInvoice,
		Category:        models.CategorySales,
		ReferenceID:     fmt.Sprint(inv.ID),
		ReferenceNumber: inv.InvoiceNumber,
	}
}

func challanEntry(ch *models.GSTChallan) *models.Transaction {
	return &models.Transaction{
		Description:     "GST Payment - " + ch.TaxPeriod,
		Type:            models.TransactionDebit,
		Amount:          ch.TotalPayable,
		Status:          models.PaymentPaid,
		Date:            utils.Today(),
		Source:          models.SourceGSTChallan,
		Category:        models.CategoryGST,
		ReferenceID:     fmt.Sprint(ch.ID),
		ReferenceNumber: ch.ChallanNumber,
	}
}

// SyncInvoice applies the ledger side of an invoice moving from old to next.
// Entering PAID creates the sales entry, leaving PAID for any status removes it.
func SyncInvoice(tx *gorm.DB, inv *models.Invoice, old, next models.InvoiceStatus) error {
	key := InvoiceKey(inv.ID)
	switch {
	case next == models.InvoicePaid && old != models.InvoicePaid:
		_, err := EnsureEntry(tx, inv.CompanyID, key, invoiceEntry(inv))
		return err
	case old == models.InvoicePaid && next != models.InvoicePaid:
		_, err := RemoveEntry(tx, inv.CompanyID, key)
		return err
	}
	return nil
}

// SyncChallan is the challan counterpart. Only PAID -> PENDING reverses;
// PAID -> FILED keeps the payment on the books.
func SyncChallan(tx *gorm.DB, ch *models.GSTChallan, old, next models.ChallanStatus) error {
	key := ChallanKey(ch.ID)
	switch {
	case next == models.ChallanPaid && old != models.ChallanPaid:
		_, err := EnsureEntry(tx, ch.CompanyID, key, challanEntry(ch))
		return err
	case old == models.ChallanPaid && next == models.ChallanPending:
		_, err := RemoveEntry(tx, ch.CompanyID, key)
		return err
	}
	return nil
}

// AddManual records a MANUAL entry. Manual entries have no document key and
// are never touched by document synchronization.
func AddManual(tx *gorm.DB, companyID uint, t *models.Transaction) error {
	t.Description = strings.TrimSpace(t.Description)
	if t.Description == "" || !t.Amount.IsPositive() {
		return ErrInvalidEntry
	}
	if t.Type != models.TransactionCredit && t.Type != models.TransactionDebit {
		return ErrInvalidEntry
	}
	if t.Category == "" {
		t.Category = models.CategoryOther
	}
	if !t.Category.Valid() {
		return ErrInvalidEntry
	}
	switch t.Status {
	case "":
		t.Status = models.PaymentPaid
	case models.PaymentPaid, models.PaymentPending, models.PaymentOverdue:
	default:
		return ErrInvalidEntry
	}
	if t.Date == "" {
		t.Date = utils.Today()
	} else if _, err := utils.ParseDate(t.Date); err != nil {
		return ErrInvalidEntry
	}

	t.ID = 0
	t.CompanyID = companyID
	t.Source = models.SourceManual
	t.DocumentKey = nil
	t.Amount = t.Amount.Round(2)
	return tx.Create(t).Error
}

type ListFilter struct {
	Type     models.TransactionType
	Source   models.TransactionSource
	Category models.TransactionCategory
	Status   models.PaymentStatus
	From     string
	To       string
}

func List(tx *gorm.DB, companyID uint, f ListFilter) ([]models.Transaction, error) {
	q := tx.Where("company_id = ?", companyID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}

	var out []models.Transaction
	if err := q.Order("date desc, id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func sum(ts []models.Transaction, keep func(models.Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		if keep(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}
