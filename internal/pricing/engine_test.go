package pricing

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skills-enroll/internal/catalog"
)

func fixtureCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default(catalog.DefaultPrices())
	require.NoError(t, err)
	return cat
}

func defaultCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(DefaultConfig())
	require.NoError(t, err)
	return calc
}

func requireMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestCalculateScenarios(t *testing.T) {
	cat := fixtureCatalog(t)
	calc := defaultCalculator(t)

	tests := []struct {
		name               string
		ids                []string
		subtotal           string
		rate               string
		discountAmount     string
		discountedSubtotal string
		taxAmount          string
		total              string
	}{
		{
			name:     "empty selection",
			ids:      nil,
			subtotal: "0", rate: "0", discountAmount: "0", discountedSubtotal: "0", taxAmount: "0", total: "0",
		},
		{
			name:     "one long-form course",
			ids:      []string{"first-aid"},
			subtotal: "1500", rate: "0", discountAmount: "0", discountedSubtotal: "1500", taxAmount: "225", total: "1725",
		},
		{
			name:     "two long-form courses",
			ids:      []string{"first-aid", "sewing"},
			subtotal: "3000", rate: "0.05", discountAmount: "150", discountedSubtotal: "2850", taxAmount: "427.5", total: "3277.5",
		},
		{
			name:     "two long-form and one short-form",
			ids:      []string{"landscaping", "cooking", "life-skills"},
			subtotal: "3750", rate: "0.10", discountAmount: "375", discountedSubtotal: "3375", taxAmount: "506.25", total: "3881.25",
		},
		{
			name:     "three short-form and one long-form rounds tax",
			ids:      []string{"child-minding", "cooking", "garden-maintenance", "first-aid"},
			subtotal: "3750", rate: "0.15", discountAmount: "562.5", discountedSubtotal: "3187.5", taxAmount: "478.13", total: "3665.63",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := calc.Calculate(tc.ids, cat)
			require.NoError(t, err)
			requireMoney(t, tc.subtotal, b.Subtotal, "subtotal")
			requireMoney(t, tc.rate, b.DiscountRate, "rate")
			requireMoney(t, tc.discountAmount, b.DiscountAmount, "discountAmount")
			requireMoney(t, tc.discountedSubtotal, b.DiscountedSubtotal, "discountedSubtotal")
			requireMoney(t, tc.taxAmount, b.TaxAmount, "taxAmount")
			requireMoney(t, tc.total, b.Total, "total")
			requireMoney(t, "0.15", b.TaxRate, "taxRate")
			require.NoError(t, b.Check())
		})
	}
}

func TestCalculateFourShortFormCourses(t *testing.T) {
	defs := []catalog.Definition{
		{ID: "a", Title: "A", Tier: catalog.TierShortForm},
		{ID: "b", Title: "B", Tier: catalog.TierShortForm},
		{ID: "c", Title: "C", Tier: catalog.TierShortForm},
		{ID: "d", Title: "D", Tier: catalog.TierShortForm},
	}
	cat, err := catalog.New(catalog.DefaultPrices(), defs)
	require.NoError(t, err)

	b, err := defaultCalculator(t).Calculate([]string{"a", "b", "c", "d"}, cat)
	require.NoError(t, err)
	requireMoney(t, "3000", b.Subtotal, "subtotal")
	requireMoney(t, "0.15", b.DiscountRate, "rate")
	requireMoney(t, "450", b.DiscountAmount, "discountAmount")
	requireMoney(t, "2550", b.DiscountedSubtotal, "discountedSubtotal")
	requireMoney(t, "382.5", b.TaxAmount, "taxAmount")
	requireMoney(t, "2932.5", b.Total, "total")
}

func TestCalculateUnresolvedIDs(t *testing.T) {
	cat := fixtureCatalog(t)
	calc := defaultCalculator(t)

	b, err := calc.Calculate([]string{"first-aid", "pottery", "sewing", "archery"}, cat)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnresolvedCourse))
	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	require.Equal(t, []string{"archery", "pottery"}, resErr.IDs)
	require.Empty(t, b.LineItems)
	require.True(t, b.Total.IsZero())
}

func TestCalculateLineItemsInCatalogOrder(t *testing.T) {
	cat := fixtureCatalog(t)
	b, err := defaultCalculator(t).Calculate([]string{"garden-maintenance", "first-aid", "cooking", "first-aid"}, cat)
	require.NoError(t, err)
	require.Len(t, b.LineItems, 3)
	require.Equal(t, "first-aid", b.LineItems[0].ID)
	require.Equal(t, "First Aid", b.LineItems[0].Name)
	require.Equal(t, "cooking", b.LineItems[1].ID)
	require.Equal(t, "garden-maintenance", b.LineItems[2].ID)
	requireMoney(t, "0.10", b.DiscountRate, "rate")
}

func TestCalculateRoundsDerivedAmounts(t *testing.T) {
	prices := catalog.Prices{LongForm: decimal.RequireFromString("1499.99"), ShortForm: decimal.RequireFromString("749.99")}
	cat, err := catalog.Default(prices)
	require.NoError(t, err)

	b, err := defaultCalculator(t).Calculate([]string{"first-aid", "sewing"}, cat)
	require.NoError(t, err)
	// 2999.98 * 0.05 = 149.999 -> 150.00
	requireMoney(t, "150", b.DiscountAmount, "discountAmount")
	requireMoney(t, "2849.98", b.DiscountedSubtotal, "discountedSubtotal")
	// 2849.98 * 0.15 = 427.497 -> 427.50
	requireMoney(t, "427.5", b.TaxAmount, "taxAmount")
	requireMoney(t, "3277.48", b.Total, "total")
	require.NoError(t, b.Check())
}

func TestCalculateInvariants(t *testing.T) {
	cat := fixtureCatalog(t)
	calc := defaultCalculator(t)
	all := cat.AllCourses()
	allowed := calc.Policy().Rates()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		perm := rng.Perm(len(all))
		n := rng.Intn(len(all) + 1)
		ids := make([]string, 0, n)
		for _, idx := range perm[:n] {
			ids = append(ids, all[idx].ID)
		}

		b, err := calc.Calculate(ids, cat)
		require.NoError(t, err)
		require.False(t, b.Total.IsNegative())
		require.True(t, containsRate(allowed, b.DiscountRate), "unexpected rate %s", b.DiscountRate)
		require.True(t, b.Subtotal.Mul(b.DiscountRate).Round(DefaultScale).Equal(b.DiscountAmount))
		require.True(t, b.Subtotal.Sub(b.DiscountAmount).Equal(b.DiscountedSubtotal))
		require.True(t, b.DiscountedSubtotal.Add(b.TaxAmount).Equal(b.Total))

		if n > 0 {
			smaller, err := calc.Calculate(ids[:n-1], cat)
			require.NoError(t, err)
			require.True(t, b.Subtotal.GreaterThanOrEqual(smaller.Subtotal))
		}
	}
}

func TestNewCalculatorRejectsBadConfig(t *testing.T) {
	_, err := NewCalculator(Config{TaxRate: decimal.RequireFromString("-0.01"), Policy: DefaultPolicy(), Scale: 2})
	require.Error(t, err)
	_, err = NewCalculator(Config{TaxRate: decimal.RequireFromString("1.5"), Policy: DefaultPolicy(), Scale: 2})
	require.Error(t, err)
	_, err = NewCalculator(Config{TaxRate: decimal.RequireFromString("0.15"), Policy: DefaultPolicy(), Scale: -1})
	require.Error(t, err)
}

func TestCustomTaxRate(t *testing.T) {
	calc, err := NewCalculator(Config{TaxRate: decimal.RequireFromString("0.14"), Policy: DefaultPolicy(), Scale: 2})
	require.NoError(t, err)
	b, err := calc.Calculate([]string{"first-aid"}, fixtureCatalog(t))
	require.NoError(t, err)
	requireMoney(t, "210", b.TaxAmount, "taxAmount")
	requireMoney(t, "1710", b.Total, "total")
}

func TestBreakdownCheckDetectsTampering(t *testing.T) {
	b, err := defaultCalculator(t).Calculate([]string{"first-aid", "sewing"}, fixtureCatalog(t))
	require.NoError(t, err)
	b.Total = b.Total.Add(decimal.NewFromInt(1))
	require.Error(t, b.Check())
}

func containsRate(rates []decimal.Decimal, rate decimal.Decimal) bool {
	for _, r := range rates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}
