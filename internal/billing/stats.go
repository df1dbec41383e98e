package billing

import (
	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Stats struct {
	TotalInvoices     int             `json:"total_invoices"`
	PaidInvoices      int             `json:"paid_invoices"`
	IssuedInvoices    int             `json:"issued_invoices"`
	PendingChallans   int             `json:"pending_challans"`
	TotalGSTCollected decimal.Decimal `json:"total_gst_collected"`
	TotalGSTPaid      decimal.Decimal `json:"total_gst_paid"`
}

// Summarize counts documents. GST collected is the tax on every invoice;
// GST paid counts challans currently PAID.
func Summarize(tx *gorm.DB, companyID uint) (Stats, error) {
	var invoices []models.Invoice
	if err := tx.Select("status", "total_tax").Where("company_id = ?", companyID).Find(&invoices).Error; err != nil {
		return Stats{}, err
	}
	var challans []models.GSTChallan
	if err := tx.Select("status", "total_payable").Where("company_id = ?", companyID).Find(&challans).Error; err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalInvoices:     len(invoices),
		TotalGSTCollected: decimal.Zero,
		TotalGSTPaid:      decimal.Zero,
	}
	for _, inv := range invoices {
		switch inv.Status {
		case models.InvoicePaid:
			st.PaidInvoices++
		case models.InvoiceIssued:
			st.IssuedInvoices++
		}
		st.TotalGSTCollected = st.TotalGSTCollected.Add(inv.TotalTax)
	}
	for _, ch := range challans {
		switch ch.Status {
		case models.ChallanPending:
			st.PendingChallans++
		case models.ChallanPaid:
			st.TotalGSTPaid = st.TotalGSTPaid.Add(ch.TotalPayable)
		}
	}
	return st, nil
}
