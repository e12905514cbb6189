package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// countPrinter groups thousands the en-US way regardless of the host locale.
var countPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a currency value with two decimals and thousands
// separators, e.g. 1234.5 -> "1,234.50". Digits come from the decimal itself,
// so values beyond float64 precision print exactly.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	if sign != "" && strings.Trim(intPart+frac, "0") == "" {
		sign = ""
	}
	return sign + groupThousands(intPart) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCurrency prefixes FormatAmount with a currency code.
func FormatCurrency(code string, d decimal.Decimal) string {
	return code + " " + FormatAmount(d)
}

// FormatCount renders a whole number with thousands separators.
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}
