package services

import (
	"regexp"
	"strings"

	"raffler/domain/entities"
)

// CommissionKind distinguishes how a host's cut is computed
type CommissionKind int

const (
	// CommissionNone takes no cut
	CommissionNone CommissionKind = iota
	// CommissionPercent takes a percentage of the market price
	CommissionPercent
	// CommissionFlat takes a fixed amount
	CommissionFlat
)

// Commission is a host's parsed commission rate. Percent rates are held
// as an exact scaled integer so the cut never drifts from float rounding.
type Commission struct {
	Kind CommissionKind

	// numerator of the percentage scaled by 10^4, e.g. "2.5%" -> 25000.
	// The effective fraction is numerator / 1_000_000.
	numerator int64

	flat entities.Cents
}

var (
	percentPattern = regexp.MustCompile(`^(\d+)(?:\.(\d+))?%$`)
	flatPattern    = regexp.MustCompile(`^\$?(\d+)(?:\.(\d+))?$`)
)

// ParseCommission parses a commission rate string. "5%" and "2.5%" are
// percentages, "$5" and "5.50" are flat amounts, anything else means no
// commission. Percent rates support up to four decimal places.
func ParseCommission(s string) (Commission, error) {
	s = strings.TrimSpace(s)

	if m := percentPattern.FindStringSubmatch(s); m != nil {
		frac := m[2]
		if len(frac) > 4 {
			return Commission{}, entities.NewDomainError(entities.ErrKindValidation,
				"commission rate %q has too many decimal places (max 4)", s)
		}
		var num int64
		for _, r := range m[1] {
			num = num*10 + int64(r-'0')
			if num > 100 {
				return Commission{}, entities.NewDomainError(entities.ErrKindValidation,
					"commission rate %q exceeds 100%%", s)
			}
		}
		num *= 10_000
		scale := int64(1_000)
		for _, r := range frac {
			num += int64(r-'0') * scale
			scale /= 10
		}
		if num > 1_000_000 {
			return Commission{}, entities.NewDomainError(entities.ErrKindValidation,
				"commission rate %q exceeds 100%%", s)
		}
		return Commission{Kind: CommissionPercent, numerator: num}, nil
	}

	if m := flatPattern.FindStringSubmatch(s); m != nil {
		amount, err := entities.ParseCents(strings.TrimPrefix(s, "$"))
		if err != nil {
			return Commission{}, entities.WrapDomainError(entities.ErrKindValidation, err,
				"invalid flat commission %q", s)
		}
		return Commission{Kind: CommissionFlat, flat: amount}, nil
	}

	// Unrecognized rates take no cut rather than failing the raffle
	return Commission{}, nil
}

// AmountOn returns the commission taken on a market price, rounded
// half to even for percent rates.
func (c Commission) AmountOn(market entities.Cents) entities.Cents {
	switch c.Kind {
	case CommissionPercent:
		return entities.Cents(divRoundHalfEven(int64(market)*c.numerator, 1_000_000))
	case CommissionFlat:
		if c.flat > market {
			return market
		}
		return c.flat
	default:
		return 0
	}
}

// CostPerSlot divides the market price evenly across slots, rounding
// half to even on the exact remainder. The commission is absorbed into
// the market price, so claimants together pay exactly totalSlots times
// the returned amount, give or take the rounding on one slot.
func CostPerSlot(market entities.Cents, totalSlots int) (entities.Cents, error) {
	if totalSlots < 1 {
		return 0, entities.NewDomainError(entities.ErrKindValidation, "total slots must be at least 1")
	}
	if market <= 0 {
		return 0, entities.NewDomainError(entities.ErrKindValidation, "market price must be positive")
	}
	return entities.Cents(divRoundHalfEven(int64(market), int64(totalSlots))), nil
}

// NetToHost returns what the host keeps after commission
func NetToHost(market entities.Cents, c Commission) entities.Cents {
	return market - c.AmountOn(market)
}

// divRoundHalfEven divides n by q, rounding the exact rational result
// half to even. n must be non-negative and q positive.
func divRoundHalfEven(n, q int64) int64 {
	quo := n / q
	rem := n % q
	switch {
	case 2*rem < q:
		return quo
	case 2*rem > q:
		return quo + 1
	case quo%2 == 0:
		return quo
	default:
		return quo + 1
	}
}
