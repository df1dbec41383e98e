package billing

import (
	"strings"

	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultGSTRate is the combined rate applied when a request leaves it out.
var DefaultGSTRate = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

type LineInput struct {
	ProductKey string          `json:"product_key" validate:"required"`
	HSNCode    string          `json:"hsn_code"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0"`
	Rate       decimal.Decimal `json:"rate" validate:"gte=0"`
}

type Totals struct {
	GSTType    models.GSTType  `json:"gst_type"`
	CGSTRate   decimal.Decimal `json:"cgst_rate"`
	SGSTRate   decimal.Decimal `json:"sgst_rate"`
	IGSTRate   decimal.Decimal `json:"igst_rate"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	IGSTAmount decimal.Decimal `json:"igst_amount"`
	TotalTax   decimal.Decimal `json:"total_tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

func normState(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

// SameState reports whether a sale is intra-state. A client with no state on
// record is billed as local.
func SameState(clientState, companyState string) bool {
	c := normState(clientState)
	return c == "" || c == normState(companyState)
}

// ComputeInvoiceTotals splits gstRate into CGST+SGST for intra-state sales and
// IGST otherwise. Every amount is rounded to whole rupees.
func ComputeInvoiceTotals(lines []LineInput, clientState, companyState string, gstRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Quantity.Mul(l.Rate))
	}
	subtotal = subtotal.Round(0)

	t := Totals{
		Subtotal:   subtotal,
		CGSTRate:   decimal.Zero,
		SGSTRate:   decimal.Zero,
		IGSTRate:   decimal.Zero,
		CGSTAmount: decimal.Zero,
		SGSTAmount: decimal.Zero,
		IGSTAmount: decimal.Zero,
	}

	if SameState(clientState, companyState) {
		half := gstRate.Div(decimal.NewFromInt(2))
		t.GSTType = models.GSTTypeCGSTSGST
		t.CGSTRate = half
		t.SGSTRate = half
		t.CGSTAmount = subtotal.Mul(half).Div(hundred).Round(0)
		t.SGSTAmount = t.CGSTAmount
	} else {
		t.GSTType = models.GSTTypeIGST
		t.IGSTRate = gstRate
		t.IGSTAmount = subtotal.Mul(gstRate).Div(hundred).Round(0)
	}

	t.TotalTax = t.CGSTAmount.Add(t.SGSTAmount).Add(t.IGSTAmount)
	t.GrandTotal = subtotal.Add(t.TotalTax)
	return t
}
