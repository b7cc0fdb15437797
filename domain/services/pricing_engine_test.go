package services

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"raffler/domain/entities"
)

func TestParseCommission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		kind    CommissionKind
		market  entities.Cents
		want    entities.Cents
		wantErr bool
	}{
		{
			name:   "whole percent",
			input:  "5%",
			kind:   CommissionPercent,
			market: 10000, // $100.00
			want:   500,
		},
		{
			name:   "fractional percent",
			input:  "2.5%",
			kind:   CommissionPercent,
			market: 10000,
			want:   250,
		},
		{
			name:   "percent rounds half to even",
			input:  "0.5%",
			kind:   CommissionPercent,
			market: 100, // exact cut is 0.5 cents, rounds to 0
			want:   0,
		},
		{
			name:   "percent rounds half to even upward",
			input:  "1.5%",
			kind:   CommissionPercent,
			market: 100, // exact cut is 1.5 cents, rounds to 2
			want:   2,
		},
		{
			name:   "flat with dollar sign",
			input:  "$5",
			kind:   CommissionFlat,
			market: 10000,
			want:   500,
		},
		{
			name:   "flat with decimals",
			input:  "5.50",
			kind:   CommissionFlat,
			market: 10000,
			want:   550,
		},
		{
			name:   "flat capped at market price",
			input:  "$50",
			kind:   CommissionFlat,
			market: 1000,
			want:   1000,
		},
		{
			name:   "unrecognized rate means no commission",
			input:  "ask me",
			kind:   CommissionNone,
			market: 10000,
			want:   0,
		},
		{
			name:   "empty rate means no commission",
			input:  "",
			kind:   CommissionNone,
			market: 10000,
			want:   0,
		},
		{
			name:    "percent above 100 rejected",
			input:   "150%",
			wantErr: true,
		},
		{
			name:    "too many percent decimals rejected",
			input:   "1.00001%",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := ParseCommission(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, entities.IsKind(err, entities.ErrKindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.want, c.AmountOn(tt.market))
		})
	}
}

func TestCostPerSlot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		market  entities.Cents
		slots   int
		want    entities.Cents
		wantErr bool
	}{
		{name: "even split", market: 10000, slots: 10, want: 1000},
		{name: "rounds down below half", market: 10001, slots: 10, want: 1000},
		{name: "rounds up above half", market: 10009, slots: 10, want: 1001},
		{name: "half rounds to even down", market: 10005, slots: 10, want: 1000}, // 1000.5 -> 1000
		{name: "half rounds to even up", market: 10015, slots: 10, want: 1002},   // 1001.5 -> 1002
		{name: "single slot", market: 9999, slots: 1, want: 9999},
		{name: "zero slots rejected", market: 10000, slots: 0, wantErr: true},
		{name: "zero price rejected", market: 0, slots: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := CostPerSlot(tt.market, tt.slots)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNetToHost(t *testing.T) {
	t.Parallel()

	c, err := ParseCommission("10%")
	require.NoError(t, err)
	assert.Equal(t, entities.Cents(9000), NetToHost(10000, c))

	flat, err := ParseCommission("$3")
	require.NoError(t, err)
	assert.Equal(t, entities.Cents(9700), NetToHost(10000, flat))
}

// TestCommission_AmountOnLargestMarket checks that the biggest amount
// ParseCents accepts survives the scaled percent multiply without
// wrapping around.
func TestCommission_AmountOnLargestMarket(t *testing.T) {
	t.Parallel()

	market, err := entities.ParseCents("100000000")
	require.NoError(t, err)

	full, err := ParseCommission("100%")
	require.NoError(t, err)
	assert.Equal(t, market, full.AmountOn(market))
	assert.Equal(t, entities.Cents(0), NetToHost(market, full))

	half, err := ParseCommission("50%")
	require.NoError(t, err)
	assert.Equal(t, market/2, half.AmountOn(market))
}

// TestDivRoundHalfEven_Property checks the rounding against an exact
// rational computed with math/big: the result is the nearest integer,
// with ties going to the even neighbor.
func TestDivRoundHalfEven_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Int64Range(0, 1<<42).Draw(t, "n")
		q := rapid.Int64Range(1, 1<<20).Draw(t, "q")

		got := divRoundHalfEven(n, q)

		exact := new(big.Rat).SetFrac64(n, q)
		diff := new(big.Rat).Sub(exact, new(big.Rat).SetInt64(got))
		diff.Abs(diff)

		half := big.NewRat(1, 2)
		switch diff.Cmp(half) {
		case 1:
			t.Fatalf("divRoundHalfEven(%d, %d) = %d, off by more than 1/2", n, q, got)
		case 0:
			if got%2 != 0 {
				t.Fatalf("divRoundHalfEven(%d, %d) = %d, tie must round to even", n, q, got)
			}
		}
	})
}

// TestCostPerSlot_Property checks that claimants together pay within half
// a slot price of the market price.
func TestCostPerSlot_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		market := entities.Cents(rapid.Int64Range(1, 1_000_000_00).Draw(t, "market"))
		slots := rapid.IntRange(1, 10_000).Draw(t, "slots")

		cost, err := CostPerSlot(market, slots)
		if err != nil {
			t.Fatalf("CostPerSlot(%d, %d) failed: %v", market, slots, err)
		}

		total := int64(cost) * int64(slots)
		diff := total - int64(market)
		if diff < 0 {
			diff = -diff
		}
		if 2*diff > int64(slots) {
			t.Fatalf("total %d strays from market %d by more than slots/2", total, market)
		}
	})
}
