package billing

import (
	"fmt"
	"strings"

	"mirotec-backend/internal/models"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPayload is the text printed as a QR code on the invoice.
func QRPayload(inv *models.Invoice, sellerGSTIN string) string {
	parts := []string{
		"SellerGSTIN:" + sellerGSTIN,
		"BuyerGSTIN:" + inv.ClientGSTIN,
		"DocNo:" + inv.InvoiceNumber,
		"DocDt:" + inv.InvoiceDate,
		"TotInvVal:" + inv.GrandTotal.StringFixed(2),
		"ItemCnt:" + fmt.Sprint(len(inv.LineItems)),
	}
	if len(inv.LineItems) > 0 {
		parts = append(parts, "MainHsnCode:"+inv.LineItems[0].HSNCode)
	}
	return strings.Join(parts, "|")
}

func InvoiceQRPNG(inv *models.Invoice, sellerGSTIN string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(QRPayload(inv, sellerGSTIN), qrcode.Medium, size)
}
