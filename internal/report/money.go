package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in currency using the currency's symbol,
// grouping and number of minor digits. Amounts are rounded half away from
// zero to the minor unit. Unknown currency codes fall back to two decimals
// followed by the code.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatQuantity renders a quantity with trailing zeros removed.
func FormatQuantity(q decimal.Decimal) string {
	return q.String()
}
