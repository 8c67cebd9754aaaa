package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown for statistics that are undefined.
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// FormatCurrency renders a dollar amount with two decimals and thousands
// grouping, e.g. "$1,234.56" or "-$4.00".
func FormatCurrency(v decimal.Decimal) string {
	v = v.Round(2)
	if v.IsNegative() {
		return printer.Sprintf("-$%.2f", v.Abs().InexactFloat64())
	}
	return printer.Sprintf("$%.2f", v.InexactFloat64())
}

// FormatPercent renders a percentage with two decimals, e.g. "12.34%".
func FormatPercent(v decimal.Decimal) string {
	return printer.Sprintf("%.2f%%", v.Round(2).InexactFloat64())
}

func formatNullCurrency(v decimal.NullDecimal) string {
	if !v.Valid {
		return NotAvailable
	}
	return FormatCurrency(v.Decimal)
}

func formatNullPercent(v decimal.NullDecimal) string {
	if !v.Valid {
		return NotAvailable
	}
	return FormatPercent(v.Decimal)
}
