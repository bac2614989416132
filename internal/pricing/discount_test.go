package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyRates(t *testing.T) {
	p := DefaultPolicy()
	cases := map[int]string{
		0:  "0",
		1:  "0",
		2:  "0.05",
		3:  "0.10",
		4:  "0.15",
		5:  "0.15",
		7:  "0.15",
		40: "0.15",
	}
	for count, want := range cases {
		got := p.RateFor(count)
		require.Truef(t, decimal.RequireFromString(want).Equal(got), "count %d: want %s, got %s", count, want, got)
	}
	require.True(t, decimal.RequireFromString("0.15").Equal(p.MaxRate()))
	require.Len(t, p.Rates(), 4)
}

func TestRateForIsMonotonic(t *testing.T) {
	p := DefaultPolicy()
	prev := p.RateFor(0)
	for n := 1; n <= 20; n++ {
		cur := p.RateFor(n)
		require.True(t, cur.GreaterThanOrEqual(prev), "rate dropped at %d", n)
		prev = cur
	}
}

func TestNewPolicySortsTiers(t *testing.T) {
	p, err := NewPolicy([]DiscountTier{
		{MinCount: 5, Rate: decimal.RequireFromString("0.2")},
		{MinCount: 2, Rate: decimal.RequireFromString("0.1")},
	})
	require.NoError(t, err)
	tiers := p.Tiers()
	require.Equal(t, 2, tiers[0].MinCount)
	require.Equal(t, 5, tiers[1].MinCount)
	require.True(t, p.RateFor(4).Equal(decimal.RequireFromString("0.1")))
}

func TestNewPolicyRejectsInvalidTiers(t *testing.T) {
	tests := []struct {
		name  string
		tiers []DiscountTier
	}{
		{"zero count", []DiscountTier{{MinCount: 0, Rate: decimal.RequireFromString("0.1")}}},
		{"negative rate", []DiscountTier{{MinCount: 2, Rate: decimal.RequireFromString("-0.1")}}},
		{"full discount", []DiscountTier{{MinCount: 2, Rate: decimal.NewFromInt(1)}}},
		{"duplicate count", []DiscountTier{
			{MinCount: 2, Rate: decimal.RequireFromString("0.05")},
			{MinCount: 2, Rate: decimal.RequireFromString("0.10")},
		}},
		{"decreasing rate", []DiscountTier{
			{MinCount: 2, Rate: decimal.RequireFromString("0.10")},
			{MinCount: 3, Rate: decimal.RequireFromString("0.05")},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPolicy(tc.tiers)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidPolicy))
		})
	}
}

func TestParseTiers(t *testing.T) {
	p, err := ParseTiers(" 2:0.05, 3:0.10 ,4:0.15 ")
	require.NoError(t, err)
	def := DefaultPolicy()
	for n := 0; n < 8; n++ {
		require.True(t, def.RateFor(n).Equal(p.RateFor(n)), "count %d", n)
	}

	empty, err := ParseTiers("")
	require.NoError(t, err)
	require.True(t, empty.RateFor(10).IsZero())

	for _, raw := range []string{"2", "x:0.1", "2:abc", "0:0.1", "2:1.2"} {
		_, err := ParseTiers(raw)
		require.Error(t, err, raw)
		require.True(t, errors.Is(err, ErrInvalidPolicy), raw)
	}
}

func TestZeroPolicyNeverDiscounts(t *testing.T) {
	var p Policy
	require.True(t, p.RateFor(100).IsZero())
	require.True(t, p.MaxRate().IsZero())
}
