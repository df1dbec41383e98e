package clients

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm"
)

const phoneRegion = "IN"

var (
	ErrNotFound     = errors.New("client not found")
	ErrInvalidGSTIN = errors.New("invalid GSTIN")
	ErrInvalidPhone = errors.New("invalid phone number")
)

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// NormalizeGSTIN upper-cases and checks the 15 character layout. An empty
// GSTIN is allowed for unregistered buyers.
func NormalizeGSTIN(s string) (string, error) {
	g := strings.ToUpper(strings.TrimSpace(s))
	if g == "" {
		return "", nil
	}
	if !gstinPattern.MatchString(g) {
		return "", fmt.Errorf("%w: %q", ErrInvalidGSTIN, s)
	}
	return g, nil
}

// NormalizePhone parses an Indian number in any common notation and returns
// it in E.164.
func NormalizePhone(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(s, phoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, s)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func normalize(cl *models.Client) error {
	var err error
	if cl.GSTIN, err = NormalizeGSTIN(cl.GSTIN); err != nil {
		return err
	}
	if cl.Phone, err = NormalizePhone(cl.Phone); err != nil {
		return err
	}
	cl.ClientName = strings.TrimSpace(cl.ClientName)
	cl.State = strings.TrimSpace(cl.State)
	if cl.CreditLimit.IsNegative() {
		cl.CreditLimit = decimal.Zero
	}
	return nil
}

func Create(tx *gorm.DB, companyID uint, cl *models.Client) error {
	if err := normalize(cl); err != nil {
		return err
	}
	cl.ID = 0
	cl.CompanyID = companyID
	cl.IsActive = true
	if cl.CreatedDate == "" {
		cl.CreatedDate = utils.Today()
	}
	return tx.Create(cl).Error
}

func Get(tx *gorm.DB, companyID, clientID uint) (*models.Client, error) {
	var cl models.Client
	err := tx.Where("company_id = ? AND id = ?", companyID, clientID).First(&cl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// List returns clients by name. Inactive clients are left out unless
// includeInactive is set.
func List(tx *gorm.DB, companyID uint, includeInactive bool) ([]models.Client, error) {
	q := tx.Where("company_id = ?", companyID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var out []models.Client
	if err := q.Order("client_name asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the master data of a client. Invoices already issued keep
// their own snapshot.
func Update(tx *gorm.DB, companyID, clientID uint, next models.Client) (*models.Client, error) {
	cl, err := Get(tx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	if err := normalize(&next); err != nil {
		return nil, err
	}

	cl.ClientName = next.ClientName
	cl.CompanyName = next.CompanyName
	cl.GSTIN = next.GSTIN
	cl.BillingAddress = next.BillingAddress
	cl.ShippingAddress = next.ShippingAddress
	cl.ContactPerson = next.ContactPerson
	cl.Phone = next.Phone
	cl.Email = next.Email
	cl.State = next.State
	cl.CreditLimit = next.CreditLimit
	cl.IsActive = next.IsActive

	if err := tx.Select("*").Omit("id", "company_id", "created_date", "created_at").Save(cl).Error; err != nil {
		return nil, err
	}
	return cl, nil
}

type Summary struct {
	ClientID          uint            `json:"client_id"`
	TotalOrders       int             `json:"total_orders"`
	TotalSalesValue   decimal.Decimal `json:"total_sales_value"`
	TotalInvoiced     decimal.Decimal `json:"total_invoiced"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	IsOverCreditLimit bool            `json:"is_over_credit_limit"`
}

// Summarize is recomputed from orders and invoices on every call.
func Summarize(tx *gorm.DB, companyID, clientID uint) (Summary, error) {
	cl, err := Get(tx, companyID, clientID)
	if err != nil {
		return Summary{}, err
	}

	var orders []models.Order
	if err := tx.Select("amount").Where("company_id = ? AND client_id = ?", companyID, clientID).Find(&orders).Error; err != nil {
		return Summary{}, err
	}
	var invoices []models.Invoice
	if err := tx.Select("status", "grand_total").Where("company_id = ? AND client_id = ?", companyID, clientID).Find(&invoices).Error; err != nil {
		return Summary{}, err
	}

	s := Summary{
		ClientID:        clientID,
		TotalOrders:     len(orders),
		TotalSalesValue: decimal.Zero,
		TotalInvoiced:   decimal.Zero,
		TotalPaid:       decimal.Zero,
		CreditLimit:     cl.CreditLimit,
	}
	for _, o := range orders {
		s.TotalSalesValue = s.TotalSalesValue.Add(o.Amount)
	}
	for _, inv := range invoices {
		s.TotalInvoiced = s.TotalInvoiced.Add(inv.GrandTotal)
		if inv.Status == models.InvoicePaid {
			s.TotalPaid = s.TotalPaid.Add(inv.GrandTotal)
		}
	}
	s.Outstanding = s.TotalInvoiced.Sub(s.TotalPaid)
	s.IsOverCreditLimit = s.Outstanding.GreaterThan(s.CreditLimit)
	return s, nil
}
