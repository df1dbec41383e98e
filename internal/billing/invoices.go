package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrChallanNotFound = errors.New("challan not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidInvoice  = errors.New("invalid invoice")
	ErrInvalidChallan  = errors.New("invalid challan")
)

type IssueInput struct {
	InvoiceDate   string               `json:"invoice_date"`
	OrderID       *uint                `json:"order_id"`
	ClientID      *uint                `json:"client_id"`
	ClientName    string               `json:"client_name"`
	ClientAddress string               `json:"client_address"`
	ClientGSTIN   string               `json:"client_gstin"`
	ClientState   string               `json:"client_state"`
	Lines         []LineInput          `json:"line_items" validate:"dive"`
	GSTRate       *decimal.Decimal     `json:"gst_rate"`
	Status        models.InvoiceStatus `json:"status"`
}

func companyOf(tx *gorm.DB, companyID uint) (*models.Company, error) {
	var co models.Company
	if err := tx.First(&co, companyID).Error; err != nil {
		return nil, fmt.Errorf("load company %d: %w", companyID, err)
	}
	return &co, nil
}

func nextInvoiceNumber(tx *gorm.DB, companyID uint, now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", now.Year())
	var count int64
	if err := tx.Model(&models.Invoice{}).
		Where("company_id = ? AND invoice_number LIKE ?", companyID, prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

// applyClient snapshots the client's master data onto the input. Explicit
// fields in the request win over the registry.
func applyClient(tx *gorm.DB, companyID uint, in *IssueInput) error {
	if in.ClientID == nil {
		return nil
	}
	var cl models.Client
	err := tx.Where("company_id = ? AND id = ?", companyID, *in.ClientID).First(&cl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrClientNotFound
	}
	if err != nil {
		return err
	}
	if in.ClientName == "" {
		in.ClientName = cl.ClientName
	}
	if in.ClientAddress == "" {
		in.ClientAddress = cl.BillingAddress
	}
	if in.ClientGSTIN == "" {
		in.ClientGSTIN = cl.GSTIN
	}
	if in.ClientState == "" {
		in.ClientState = cl.State
	}
	return nil
}

// applyOrder turns an order into the single line of an invoice that has none.
func applyOrder(tx *gorm.DB, companyID uint, in *IssueInput) error {
	if in.OrderID == nil {
		return nil
	}
	var o models.Order
	err := tx.Where("company_id = ? AND id = ?", companyID, *in.OrderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if in.ClientID == nil && o.ClientID != nil {
		in.ClientID = o.ClientID
	}
	if in.ClientName == "" {
		in.ClientName = o.ClientName
	}
	if len(in.Lines) == 0 && o.Quantity.IsPositive() {
		in.Lines = []LineInput{{
			ProductKey: o.ProductKey,
			HSNCode:    HSNFor(o.ProductKey),
			Quantity:   o.Quantity,
			Rate:       o.Amount.DivRound(o.Quantity, 4),
		}}
	}
	return nil
}

// IssueInvoice persists a new invoice. An invoice created directly as PAID
// gets its ledger entry in the same transaction.
func IssueInvoice(tx *gorm.DB, companyID uint, in IssueInput) (*models.Invoice, error) {
	if in.Status == "" {
		in.Status = models.InvoiceDraft
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if in.InvoiceDate == "" {
		in.InvoiceDate = utils.Today()
	} else if _, err := utils.ParseDate(in.InvoiceDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
	}
	gstRate := DefaultGSTRate
	if in.GSTRate != nil {
		if in.GSTRate.IsNegative() {
			return nil, fmt.Errorf("%w: negative gst rate", ErrInvalidInvoice)
		}
		gstRate = *in.GSTRate
	}

	if err := applyOrder(tx, companyID, &in); err != nil {
		return nil, err
	}
	if err := applyClient(tx, companyID, &in); err != nil {
		return nil, err
	}

	in.ClientName = strings.TrimSpace(in.ClientName)
	if in.ClientName == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInvoice)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrInvalidInvoice)
	}
	for i, l := range in.Lines {
		if !l.Quantity.IsPositive() || l.Rate.IsNegative() || l.ProductKey == "" {
			return nil, fmt.Errorf("%w: line %d", ErrInvalidInvoice, i+1)
		}
	}

	co, err := companyOf(tx, companyID)
	if err != nil {
		return nil, err
	}
	totals := ComputeInvoiceTotals(in.Lines, in.ClientState, co.State, gstRate)

	number, err := nextInvoiceNumber(tx, companyID, time.Now())
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		CompanyID:     companyID,
		InvoiceNumber: number,
		InvoiceDate:   in.InvoiceDate,
		OrderID:       in.OrderID,
		ClientID:      in.ClientID,
		ClientName:    in.ClientName,
		ClientAddress: in.ClientAddress,
		ClientGSTIN:   strings.ToUpper(strings.TrimSpace(in.ClientGSTIN)),
		ClientState:   in.ClientState,
		CompanyState:  co.State,
		GSTType:       totals.GSTType,
		CGSTRate:      totals.CGSTRate,
		SGSTRate:      totals.SGSTRate,
		IGSTRate:      totals.IGSTRate,
		Subtotal:      totals.Subtotal,
		CGSTAmount:    totals.CGSTAmount,
		SGSTAmount:    totals.SGSTAmount,
		IGSTAmount:    totals.IGSTAmount,
		TotalTax:      totals.TotalTax,
		GrandTotal:    totals.GrandTotal,
		Status:        in.Status,
	}
	for i, l := range in.Lines {
		hsn := l.HSNCode
		if hsn == "" {
			hsn = HSNFor(l.ProductKey)
		}
		inv.LineItems = append(inv.LineItems, models.InvoiceLineItem{
			Position:     i + 1,
			ProductKey:   l.ProductKey,
			HSNCode:      hsn,
			Quantity:     l.Quantity,
			Rate:         l.Rate,
			TaxableValue: l.Quantity.Mul(l.Rate).Round(0),
		})
	}

	if err := tx.Create(inv).Error; err != nil {
		return nil, err
	}
	if inv.Status == models.InvoicePaid {
		if err := finance.SyncInvoice(tx, inv, "", models.InvoicePaid); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

func GetInvoice(tx *gorm.DB, companyID, invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := tx.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("company_id = ? AND id = ?", companyID, invoiceID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

type InvoiceFilter struct {
	Status   models.InvoiceStatus
	ClientID uint
	From, To string
}

func ListInvoices(tx *gorm.DB, companyID uint, f InvoiceFilter) ([]models.Invoice, error) {
	q := tx.Preload("LineItems").Where("company_id = ?", companyID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.From != "" {
		q = q.Where("invoice_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("invoice_date <= ?", f.To)
	}
	var out []models.Invoice
	if err := q.Order("invoice_date desc, id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateInvoiceStatus syncs the ledger first and then writes the status.
// Re-applying the current status changes nothing.
func UpdateInvoiceStatus(tx *gorm.DB, companyID, invoiceID uint, next models.InvoiceStatus) (inv *models.Invoice, old models.InvoiceStatus, err error) {
	if !next.Valid() {
		return nil, "", ErrInvalidStatus
	}
	inv, err = GetInvoice(tx, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	old = inv.Status
	if old == next {
		return inv, old, nil
	}

	if err := finance.SyncInvoice(tx, inv, old, next); err != nil {
		return nil, old, err
	}
	if err := tx.Model(inv).Update("status", next).Error; err != nil {
		return nil, old, err
	}
	inv.Status = next
	return inv, old, nil
}
