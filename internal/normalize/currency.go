// Package normalize converts raw spreadsheet cells into typed invoice fields.
package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyReplacer strips currency symbols and spacing before numeric
// parsing. Source cells look like " 139.15 € " or "$1,234.56".
var currencyReplacer = strings.NewReplacer("€", "", "$", "", "\u00a0", "", " ", "")

// ParseCurrency parses a currency cell into a decimal rounded half-up at
// two places. Both "1,234.56" and "1.234,56" separator styles are
// accepted. When only one separator is present, exactly three trailing
// digits mark it as a thousands separator; otherwise it is the decimal
// point.
func ParseCurrency(raw string) (decimal.Decimal, error) {
	s := currencyReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: the rightmost one is the decimal separator.
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastComma >= 0:
		s = resolveSeparator(s, ",")
	case lastDot >= 0:
		s = resolveSeparator(s, ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed amount %q", raw)
	}
	if neg {
		d = d.Neg()
	}
	return d.Round(2), nil
}

// resolveSeparator disambiguates a string containing a single kind of
// separator. A lone occurrence followed by anything other than three
// digits is the decimal point; everything else is thousands grouping.
func resolveSeparator(s, sep string) string {
	if strings.Count(s, sep) == 1 {
		i := strings.Index(s, sep)
		if len(s)-i-1 != 3 {
			if sep == "," {
				return s[:i] + "." + s[i+1:]
			}
			return s
		}
	}
	return strings.ReplaceAll(s, sep, "")
}
