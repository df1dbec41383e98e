package billing

import (
	"errors"
	"strings"
	"testing"
	"time"

	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/testdb"

	"gorm.io/gorm"
)

func countLedger(t *testing.T, db *gorm.DB, companyID uint) int64 {
	t.Helper()
	var n int64
	db.Model(&models.Transaction{}).Where("company_id = ?", companyID).Count(&n)
	return n
}

func simpleInvoice(status models.InvoiceStatus) IssueInput {
	return IssueInput{
		ClientName:  "Surat Textiles",
		ClientState: "gujarat",
		Lines:       []LineInput{{ProductKey: "realJari", Quantity: d(1), Rate: d(10000)}},
		Status:      status,
	}
}

func TestIssueInvoiceNumbersAndDefaults(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	first, err := IssueInvoice(db, co.ID, simpleInvoice(""))
	if err != nil {
		t.Fatalf("IssueInvoice: %v", err)
	}
	second, err := IssueInvoice(db, co.ID, simpleInvoice(models.InvoiceIssued))
	if err != nil {
		t.Fatalf("IssueInvoice: %v", err)
	}

	year := time.Now().Format("2006")
	if first.InvoiceNumber != "INV-"+year+"-001" || second.InvoiceNumber != "INV-"+year+"-002" {
		t.Fatalf("numbers = %s, %s", first.InvoiceNumber, second.InvoiceNumber)
	}
	if first.Status != models.InvoiceDraft {
		t.Fatalf("default status = %s", first.Status)
	}
	if first.CompanyState != "gujarat" || !first.GrandTotal.Equal(d(11800)) {
		t.Fatalf("unexpected invoice: %+v", first)
	}
	if len(first.LineItems) != 1 || first.LineItems[0].HSNCode != "5605" || !first.LineItems[0].TaxableValue.Equal(d(10000)) {
		t.Fatalf("unexpected lines: %+v", first.LineItems)
	}
	if n := countLedger(t, db, co.ID); n != 0 {
		t.Fatalf("draft/issued invoices must not book anything, got %d", n)
	}
}

func TestIssueInvoiceAsPaidBooksOnce(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	inv, err := IssueInvoice(db, co.ID, simpleInvoice(models.InvoicePaid))
	if err != nil {
		t.Fatalf("IssueInvoice: %v", err)
	}
	entry, _ := finance.FindByKey(db, co.ID, finance.InvoiceKey(inv.ID))
	if entry == nil || !entry.Amount.Equal(inv.GrandTotal) {
		t.Fatalf("expected ledger entry for %s, got %+v", inv.GrandTotal, entry)
	}

	// Re-applying PAID is a no-op.
	if _, old, err := UpdateInvoiceStatus(db, co.ID, inv.ID, models.InvoicePaid); err != nil || old != models.InvoicePaid {
		t.Fatalf("re-apply paid: old=%s err=%v", old, err)
	}
	if n := countLedger(t, db, co.ID); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
}

func TestPaidInvoiceBooksWholeRupees(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	in := simpleInvoice(models.InvoicePaid)
	in.Lines = []LineInput{{ProductKey: "copper", Quantity: d(1), Rate: d(333)}}
	inv, err := IssueInvoice(db, co.ID, in)
	if err != nil {
		t.Fatalf("IssueInvoice: %v", err)
	}
	if !inv.CGSTAmount.Equal(d(30)) || !inv.GrandTotal.Equal(d(393)) {
		t.Fatalf("cgst/grand = %s/%s, want 30/393", inv.CGSTAmount, inv.GrandTotal)
	}
	if !inv.LineItems[0].TaxableValue.Equal(d(333)) {
		t.Fatalf("taxable value = %s", inv.LineItems[0].TaxableValue)
	}
	entry, err := finance.FindByKey(db, co.ID, finance.InvoiceKey(inv.ID))
	if err != nil || entry == nil || !entry.Amount.Equal(d(393)) {
		t.Fatalf("ledger entry = %+v, %v", entry, err)
	}
}

func TestInvoiceStatusRoundTrip(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	inv, _ := IssueInvoice(db, co.ID, simpleInvoice(models.InvoiceIssued))

	steps := []struct {
		status models.InvoiceStatus
		want   int64
	}{
		{models.InvoicePaid, 1},
		{models.InvoicePaid, 1},
		{models.InvoiceIssued, 0},
		{models.InvoicePaid, 1},
		{models.InvoiceCancelled, 0},
		{models.InvoiceDraft, 0},
	}
	for i, s := range steps {
		got, _, err := UpdateInvoiceStatus(db, co.ID, inv.ID, s.status)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, s.status, err)
		}
		if got.Status != s.status {
			t.Fatalf("step %d: status %s", i, got.Status)
		}
		if n := countLedger(t, db, co.ID); n != s.want {
			t.Fatalf("step %d (%s): %d entries, want %d", i, s.status, n, s.want)
		}
	}
}

func TestUpdateInvoiceStatusErrors(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	if _, _, err := UpdateInvoiceStatus(db, co.ID, 77, models.InvoicePaid); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	inv, _ := IssueInvoice(db, co.ID, simpleInvoice(""))
	if _, _, err := UpdateInvoiceStatus(db, co.ID, inv.ID, "refunded"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestIssueInvoiceFromOrderAndClient(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	client := models.Client{
		CompanyID:      co.ID,
		ClientName:     "Delhi Saree Emporium",
		GSTIN:          "07AAACD1234E1Z5",
		BillingAddress: "Chandni Chowk",
		State:          "Delhi",
		IsActive:       true,
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	order := models.Order{
		CompanyID:  co.ID,
		ClientID:   &client.ID,
		ClientName: client.ClientName,
		ProductKey: "imitationJari",
		Quantity:   d(50),
		Amount:     d(150000),
		Date:       "2024-05-01",
		Status:     models.OrderDelivered,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("order: %v", err)
	}

	inv, err := IssueInvoice(db, co.ID, IssueInput{OrderID: &order.ID, Status: models.InvoiceIssued})
	if err != nil {
		t.Fatalf("IssueInvoice: %v", err)
	}
	if inv.ClientID == nil || *inv.ClientID != client.ID || inv.ClientGSTIN != client.GSTIN || inv.ClientAddress != "Chandni Chowk" {
		t.Fatalf("client snapshot missing: %+v", inv)
	}
	if inv.GSTType != models.GSTTypeIGST || !inv.IGSTAmount.Equal(d(27000)) || !inv.Subtotal.Equal(d(150000)) {
		t.Fatalf("expected inter-state IGST on 150000, got %+v", inv)
	}
	if len(inv.LineItems) != 1 || !inv.LineItems[0].Rate.Equal(d(3000)) {
		t.Fatalf("unexpected order line: %+v", inv.LineItems)
	}

	// Later edits to the client don't rewrite the issued invoice.
	db.Model(&client).Update("state", "gujarat")
	reloaded, _ := GetInvoice(db, co.ID, inv.ID)
	if reloaded.ClientState != "Delhi" {
		t.Fatalf("snapshot changed: %s", reloaded.ClientState)
	}
}

func TestIssueInvoiceValidation(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	noLines := simpleInvoice("")
	noLines.Lines = nil
	noName := simpleInvoice("")
	noName.ClientName = " "
	badQty := simpleInvoice("")
	badQty.Lines[0].Quantity = d(0)
	missingClient := simpleInvoice("")
	ghost := uint(404)
	missingClient.ClientID = &ghost

	for name, in := range map[string]IssueInput{"no lines": noLines, "no name": noName, "bad qty": badQty} {
		if _, err := IssueInvoice(db, co.ID, in); !errors.Is(err, ErrInvalidInvoice) {
			t.Fatalf("%s: expected ErrInvalidInvoice, got %v", name, err)
		}
	}
	if _, err := IssueInvoice(db, co.ID, missingClient); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestChallanLifecycle(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	ch, err := CreateChallan(db, co.ID, ChallanInput{
		TaxPeriod:      "2024-05",
		CGSTAmount:     d(2700),
		SGSTAmount:     d(2700),
		InterestAmount: d(50),
		PenaltyAmount:  d(0),
		PaymentMode:    models.PaymentModeNetBanking,
	})
	if err != nil {
		t.Fatalf("CreateChallan: %v", err)
	}
	if !ch.TotalPayable.Equal(d(5450)) || ch.Status != models.ChallanPending || ch.GSTIN != co.GSTIN {
		t.Fatalf("unexpected challan: %+v", ch)
	}
	if !strings.HasPrefix(ch.ChallanNumber, "GST-"+time.Now().Format("2006-01")+"-") {
		t.Fatalf("number = %s", ch.ChallanNumber)
	}

	for i := 0; i < 2; i++ {
		if _, _, err := UpdateChallanStatus(db, co.ID, ch.ID, models.ChallanPaid); err != nil {
			t.Fatalf("pay #%d: %v", i, err)
		}
	}
	if n := countLedger(t, db, co.ID); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}

	if _, _, err := UpdateChallanStatus(db, co.ID, ch.ID, models.ChallanFiled); err != nil {
		t.Fatalf("file: %v", err)
	}
	if n := countLedger(t, db, co.ID); n != 1 {
		t.Fatalf("filing removed the entry")
	}

	st, err := Summarize(db, co.ID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if st.PendingChallans != 0 || !st.TotalGSTPaid.IsZero() {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestCreateChallanValidation(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	bad := []ChallanInput{
		{TaxPeriod: "May 2024", PaymentMode: models.PaymentModeUPI},
		{TaxPeriod: "2024-05", PaymentMode: "cheque"},
		{TaxPeriod: "2024-05", PaymentMode: models.PaymentModeUPI, PenaltyAmount: d(-1)},
	}
	for i, in := range bad {
		if _, err := CreateChallan(db, co.ID, in); !errors.Is(err, ErrInvalidChallan) {
			t.Fatalf("case %d: expected ErrInvalidChallan, got %v", i, err)
		}
	}

	paid, err := CreateChallan(db, co.ID, ChallanInput{TaxPeriod: "2024-04", IGSTAmount: d(900), PaymentMode: models.PaymentModeCash, Status: models.ChallanPaid})
	if err != nil {
		t.Fatalf("CreateChallan paid: %v", err)
	}
	if e, _ := finance.FindByKey(db, co.ID, finance.ChallanKey(paid.ID)); e == nil || !e.Amount.Equal(d(900)) {
		t.Fatalf("expected booked challan, got %+v", e)
	}
}

func TestQRPayload(t *testing.T) {
	inv := &models.Invoice{
		InvoiceNumber: "INV-2024-001",
		InvoiceDate:   "2024-05-10",
		ClientGSTIN:   "27AAACM1234F1Z2",
		GrandTotal:    d(11800),
		LineItems:     []models.InvoiceLineItem{{HSNCode: "5605"}},
	}
	payload := QRPayload(inv, "24AAAFM9339E1ZE")
	for _, want := range []string{"SellerGSTIN:24AAAFM9339E1ZE", "DocNo:INV-2024-001", "TotInvVal:11800.00", "MainHsnCode:5605"} {
		if !strings.Contains(payload, want) {
			t.Fatalf("payload %q missing %q", payload, want)
		}
	}

	png, err := InvoiceQRPNG(inv, "24AAAFM9339E1ZE", 128)
	if err != nil {
		t.Fatalf("InvoiceQRPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Fatalf("not a png")
	}
}
