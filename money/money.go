// Package money formats the integer currency units used across the storefront.
// Prices are whole Rupiah; nothing here deals in fractions.
package money

import (
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const Symbol = "Rp"

var printer = message.NewPrinter(language.Indonesian)

// Format renders units the way the storefront shows prices: "Rp 450.000".
func Format(units int64) string {
	if units < 0 {
		return "-" + Symbol + " " + printer.Sprintf("%d", -units)
	}
	return Symbol + " " + printer.Sprintf("%d", units)
}

// DiscountPercent is the rounded percentage taken off original. Zero when there is
// no original price or it is not above price.
func DiscountPercent(price, original int64) int {
	if original <= 0 || original <= price {
		return 0
	}
	diff := original - price
	return int((diff*100 + original/2) / original)
}

// CompactCount shortens counts for product cards: 924 -> "924", 2100 -> "2.1k".
func CompactCount(n int) string {
	s := humanize.SIWithDigits(float64(n), 1, "")
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}
