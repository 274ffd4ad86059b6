package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// formatMoney renders whole currency units with thousands separators.
func formatMoney(symbol string, v float64) string {
	return withSymbol(symbol, formatNumber(v, 0))
}

func formatMoneyCents(symbol string, v float64) string {
	return withSymbol(symbol, formatNumber(v, 2))
}

func withSymbol(symbol, n string) string {
	if strings.HasPrefix(n, "-") {
		return "-" + symbol + n[1:]
	}
	return symbol + n
}

// formatNumber rounds to places and groups the integer part in thousands.
func formatNumber(v float64, places int32) string {
	s := decimal.NewFromFloat(v).Round(places).StringFixed(places)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}
