package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPolicy is returned when discount tiers are malformed.
var ErrInvalidPolicy = errors.New("pricing: invalid discount policy")

// DiscountTier grants Rate to selections holding at least MinCount courses.
type DiscountTier struct {
	MinCount int
	Rate     decimal.Decimal
}

// Policy maps a selection count to a discount rate using inclusive lower-bound tiers.
type Policy struct {
	tiers []DiscountTier
}

// DefaultPolicy returns the published multi-course discount: 5% for two courses,
// 10% for three and 15% for four or more.
func DefaultPolicy() Policy {
	return Policy{tiers: []DiscountTier{
		{MinCount: 2, Rate: decimal.RequireFromString("0.05")},
		{MinCount: 3, Rate: decimal.RequireFromString("0.10")},
		{MinCount: 4, Rate: decimal.RequireFromString("0.15")},
	}}
}

// NewPolicy validates and sorts the supplied tiers. An empty tier list yields a policy
// that never discounts.
func NewPolicy(tiers []DiscountTier) (Policy, error) {
	sorted := append([]DiscountTier(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinCount < sorted[j].MinCount })
	one := decimal.NewFromInt(1)
	for i, tier := range sorted {
		if tier.MinCount < 1 {
			return Policy{}, fmt.Errorf("%w: tier min count must be at least 1, got %d", ErrInvalidPolicy, tier.MinCount)
		}
		if tier.Rate.IsNegative() || tier.Rate.GreaterThanOrEqual(one) {
			return Policy{}, fmt.Errorf("%w: rate %s for %d courses outside [0,1)", ErrInvalidPolicy, tier.Rate, tier.MinCount)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MinCount == tier.MinCount {
			return Policy{}, fmt.Errorf("%w: duplicate tier for %d courses", ErrInvalidPolicy, tier.MinCount)
		}
		if tier.Rate.LessThan(prev.Rate) {
			return Policy{}, fmt.Errorf("%w: rate for %d courses is lower than for %d", ErrInvalidPolicy, tier.MinCount, prev.MinCount)
		}
	}
	return Policy{tiers: sorted}, nil
}

// ParseTiers reads the "count:rate,count:rate" form used in configuration.
func ParseTiers(raw string) (Policy, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NewPolicy(nil)
	}
	var tiers []DiscountTier
	for _, part := range strings.Split(raw, ",") {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		countStr, rateStr, ok := strings.Cut(entry, ":")
		if !ok {
			return Policy{}, fmt.Errorf("%w: entry %q must look like count:rate", ErrInvalidPolicy, entry)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil {
			return Policy{}, fmt.Errorf("%w: entry %q has invalid count", ErrInvalidPolicy, entry)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(rateStr))
		if err != nil {
			return Policy{}, fmt.Errorf("%w: entry %q has invalid rate", ErrInvalidPolicy, entry)
		}
		tiers = append(tiers, DiscountTier{MinCount: count, Rate: rate})
	}
	return NewPolicy(tiers)
}

// RateFor returns the discount rate for count selected courses. It is total over all
// non-negative counts; there is no upper bound on the last tier.
func (p Policy) RateFor(count int) decimal.Decimal {
	rate := decimal.Zero
	for _, tier := range p.tiers {
		if count < tier.MinCount {
			break
		}
		rate = tier.Rate
	}
	return rate
}

// Rates lists every rate the policy can produce, zero included.
func (p Policy) Rates() []decimal.Decimal {
	out := []decimal.Decimal{decimal.Zero}
	for _, tier := range p.tiers {
		out = append(out, tier.Rate)
	}
	return out
}

// MaxRate is the rate granted to the largest selections.
func (p Policy) MaxRate() decimal.Decimal {
	if len(p.tiers) == 0 {
		return decimal.Zero
	}
	return p.tiers[len(p.tiers)-1].Rate
}

// Tiers returns a copy of the configured tiers in ascending order.
func (p Policy) Tiers() []DiscountTier {
	return append([]DiscountTier(nil), p.tiers...)
}
