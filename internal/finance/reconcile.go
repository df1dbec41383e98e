package finance

import (
	"mirotec-backend/internal/models"

	"gorm.io/gorm"
)

type ReconcileReport struct {
	Created []string `json:"created"`
	Removed []string `json:"removed"`
}

// Reconcile rebuilds document-owned entries from document state: every PAID
// invoice and PAID or FILED challan with no entry gets one, and entries whose
// document is no longer paid are removed. Manual and payroll entries are left alone.
func Reconcile(tx *gorm.DB, companyID uint) (ReconcileReport, error) {
	report := ReconcileReport{Created: []string{}, Removed: []string{}}
	want := map[string]bool{}

	var invoices []models.Invoice
	if err := tx.Where("company_id = ?", companyID).Find(&invoices).Error; err != nil {
		return report, err
	}
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != models.InvoicePaid {
			continue
		}
		key := InvoiceKey(inv.ID)
		want[key] = true
		created, err := EnsureEntry(tx, companyID, key, invoiceEntry(inv))
		if err != nil {
			return report, err
		}
		if created {
			report.Created = append(report.Created, key)
		}
	}

	var challans []models.GSTChallan
	if err := tx.Where("company_id = ?", companyID).Find(&challans).Error; err != nil {
		return report, err
	}
	for i := range challans {
		ch := &challans[i]
		key := ChallanKey(ch.ID)
		switch ch.Status {
		case models.ChallanPaid:
			want[key] = true
			created, err := EnsureEntry(tx, companyID, key, challanEntry(ch))
			if err != nil {
				return report, err
			}
			if created {
				report.Created = append(report.Created, key)
			}
		case models.ChallanFiled:
			// a filed challan keeps whatever entry it had when it was paid
			want[key] = true
		}
	}

	var owned []models.Transaction
	if err := tx.Where("company_id = ? AND source IN ? AND document_key IS NOT NULL", companyID,
		[]models.TransactionSource{models.SourceInvoice, models.SourceGSTChallan}).
		Find(&owned).Error; err != nil {
		return report, err
	}
	for _, t := range owned {
		if want[*t.DocumentKey] {
			continue
		}
		if _, err := RemoveEntry(tx, companyID, *t.DocumentKey); err != nil {
			return report, err
		}
		report.Removed = append(report.Removed, *t.DocumentKey)
	}
	return report, nil
}
