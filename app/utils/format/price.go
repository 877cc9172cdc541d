package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rubles = accounting.Accounting{Symbol: "₽", Precision: 0, Thousand: " ", Format: "%v %s"}

func FormatRubles(amount interface{}) string {
	var decAmount decimal.Decimal
	switch v := amount.(type) {
	case decimal.Decimal:
		decAmount = v
	case float64:
		decAmount = decimal.NewFromFloat(v)
	case int:
		decAmount = decimal.NewFromInt(int64(v))
	case int64:
		decAmount = decimal.NewFromInt(v)
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return rubles.FormatMoneyDecimal(decimal.Zero)
		}
		decAmount = parsed
	default:
		return rubles.FormatMoneyDecimal(decimal.Zero)
	}

	return rubles.FormatMoneyDecimal(decAmount)
}
