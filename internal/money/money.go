// Package money normalizes monetary, percentage and date values at the
// system boundary. Every amount coming from the record store, the reference
// extracts or the form passes through Parse before any arithmetic happens;
// parsing never fails, it coerces to a safe zero instead.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse accepts "12345.67", "12,345.67", "$12,345.67", "(12,345.67)" as
// negative, and blank/garbage as zero.
func Parse(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	if neg {
		return d.Neg()
	}
	return d
}

// Format renders an amount as "$1,234.56". Negative amounts render as
// "$-1,234.56" so that Parse(Format(x)) round-trips.
func Format(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	dot := strings.Index(fixed, ".")
	whole, frac := fixed[:dot], fixed[dot:]

	var b strings.Builder
	b.WriteString("$")
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
