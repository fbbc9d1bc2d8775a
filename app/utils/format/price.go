package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rupiah = accounting.Accounting{
	Symbol:         "Rp",
	Precision:      0,
	Thousand:       ".",
	Decimal:        ",",
	Format:         "%s %v",
	FormatNegative: "-%s %v",
	FormatZero:     "%s %v",
}

// Rupiah formats amount as "Rp 1.500.000". Supported inputs are decimals,
// ints, floats and numeric strings; anything else renders as "Rp 0".
func Rupiah(amount interface{}) string {
	var d decimal.Decimal
	switch v := amount.(type) {
	case decimal.Decimal:
		d = v
	case decimal.NullDecimal:
		if !v.Valid {
			return "-"
		}
		d = v.Decimal
	case float64:
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return rupiah.FormatMoney(decimal.Zero)
		}
		d = parsed
	default:
		return rupiah.FormatMoney(decimal.Zero)
	}
	return rupiah.FormatMoney(d.Round(0))
}

func Number(n int) string {
	return accounting.FormatNumber(n, 0, ".", ",")
}

// YesNo renders a flag the way exports and tables show it.
func YesNo(b bool) string {
	if b {
		return "Ya"
	}
	return "Tidak"
}
