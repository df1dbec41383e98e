package billing

import "github.com/shopspring/decimal"

const defaultHSN = "5605"

var hsnCodes = map[string]string{
	"realJari":      "5605",
	"imitationJari": "5605",
	"silver":        "7106",
	"copper":        "7403",
	"polyesterYarn": "5402",
}

var productRates = map[string]int64{
	"realJari":      15000,
	"imitationJari": 3000,
	"silver":        75000,
	"copper":        800,
	"polyesterYarn": 200,
}

func HSNFor(productKey string) string {
	if code, ok := hsnCodes[productKey]; ok {
		return code
	}
	return defaultHSN
}

// RateFor returns the list price per kg, if the product has one.
func RateFor(productKey string) (decimal.Decimal, bool) {
	r, ok := productRates[productKey]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(r), true
}
