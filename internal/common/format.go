package common

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount in the currency's display form, e.g. "$1,754.30".
// Unknown currency codes fall back to "1754.30 XYZ".
func FormatMoney(amount float64, currency string) string {
	cur := money.New(0, currency).Currency()
	if cur == nil || cur.Template == "" {
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
	minor := decimal.NewFromFloat(amount).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// FormatSignedMoney is FormatMoney with an explicit "+" on gains.
func FormatSignedMoney(amount float64, currency string) string {
	if amount > 0 {
		return "+" + FormatMoney(amount, currency)
	}
	return FormatMoney(amount, currency)
}

// FormatPct renders a percentage to two places with an explicit sign.
func FormatPct(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}
