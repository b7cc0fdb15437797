package entities

import (
	"fmt"
	"strings"
)

// Cents is a money amount in integer US cents. All pricing arithmetic in
// the system happens in cents so slot prices never drift from float
// rounding.
type Cents int64

// String formats the amount as dollars, e.g. "$12.34".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// maxParseDollars bounds amounts accepted by ParseCents. Percent
// commission arithmetic multiplies cents by a factor of up to 10^6,
// which must stay inside int64.
const maxParseDollars = 100_000_000

// ParseCents parses a dollar amount string like "50", "50.5" or "$50.00"
// into cents. At most two decimal places are accepted.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	var dollars int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		dollars = dollars*10 + int64(r-'0')
		if dollars > maxParseDollars {
			return 0, fmt.Errorf("amount %q out of range", s)
		}
	}

	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q: at most two decimal places", s)
		}
		for _, r := range frac {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("invalid amount %q", s)
			}
			cents = cents*10 + int64(r-'0')
		}
		if len(frac) == 1 {
			cents *= 10
		}
	}

	return Cents(dollars*100 + cents), nil
}
