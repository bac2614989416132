package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/skills-enroll/internal/catalog"
)

// Money represents a monetary amount in currency units with exact decimal arithmetic.
type Money = decimal.Decimal

// DefaultScale is the number of decimal places derived amounts are rounded to.
const DefaultScale int32 = 2

// ErrUnresolvedCourse matches any ResolutionError via errors.Is.
var ErrUnresolvedCourse = errors.New("pricing: unresolved course")

// ResolutionError reports selected ids that are missing from the catalog.
type ResolutionError struct {
	IDs []string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e == nil {
		return ""
	}
	return "pricing: unresolvable course ids: " + strings.Join(e.IDs, ", ")
}

// Is lets errors.Is(err, ErrUnresolvedCourse) match.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolvedCourse
}

// Catalog resolves course ids to priced courses.
type Catalog interface {
	FindByID(id string) (catalog.Course, bool)
	AllCourses() []catalog.Course
}

// LineItem is one resolved course of a breakdown.
type LineItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// Breakdown is the auditable result of a fee calculation.
type Breakdown struct {
	LineItems          []LineItem `json:"lineItems"`
	Subtotal           Money      `json:"subtotal"`
	DiscountRate       Money      `json:"discountRate"`
	DiscountAmount     Money      `json:"discountAmount"`
	DiscountedSubtotal Money      `json:"discountedSubtotal"`
	TaxRate            Money      `json:"taxRate"`
	TaxAmount          Money      `json:"taxAmount"`
	Total              Money      `json:"total"`
}

// Config holds the injected fee policy.
type Config struct {
	TaxRate decimal.Decimal
	Policy  Policy
	// Scale is the number of decimal places discount and tax amounts are rounded to.
	Scale int32
}

// DefaultConfig returns 15% VAT, the default discount policy and cent rounding.
func DefaultConfig() Config {
	return Config{
		TaxRate: decimal.RequireFromString("0.15"),
		Policy:  DefaultPolicy(),
		Scale:   DefaultScale,
	}
}

// Calculator computes fee breakdowns. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	taxRate decimal.Decimal
	policy  Policy
	scale   int32
}

// NewCalculator validates cfg and returns a Calculator.
func NewCalculator(cfg Config) (*Calculator, error) {
	if cfg.TaxRate.IsNegative() || cfg.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("pricing: tax rate %s outside [0,1]", cfg.TaxRate)
	}
	if cfg.Scale < 0 {
		return nil, fmt.Errorf("pricing: rounding scale must not be negative, got %d", cfg.Scale)
	}
	return &Calculator{taxRate: cfg.TaxRate, policy: cfg.Policy, scale: cfg.Scale}, nil
}

// TaxRate returns the configured tax rate.
func (c *Calculator) TaxRate() decimal.Decimal { return c.taxRate }

// Policy returns the configured discount policy.
func (c *Calculator) Policy() Policy { return c.policy }

// Scale returns the rounding scale for derived amounts.
func (c *Calculator) Scale() int32 { return c.scale }

// Calculate resolves ids against cat and prices the selection. Repeated ids count once.
// Discount is applied before tax; discount and tax are rounded to the configured scale
// when produced, and the total is the exact sum of discounted subtotal and tax.
func (c *Calculator) Calculate(ids []string, cat Catalog) (Breakdown, error) {
	selected := make(map[string]struct{}, len(ids))
	var missing []string
	for _, id := range ids {
		if _, seen := selected[id]; seen {
			continue
		}
		selected[id] = struct{}{}
		if _, ok := cat.FindByID(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Breakdown{}, &ResolutionError{IDs: missing}
	}

	items := make([]LineItem, 0, len(selected))
	for _, course := range cat.AllCourses() {
		if _, ok := selected[course.ID]; ok {
			items = append(items, LineItem{ID: course.ID, Name: course.Title, Price: course.Price})
		}
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price)
	}
	rate := c.policy.RateFor(len(items))
	discount := subtotal.Mul(rate).Round(c.scale)
	discounted := subtotal.Sub(discount)
	tax := discounted.Mul(c.taxRate).Round(c.scale)
	total := discounted.Add(tax)

	return Breakdown{
		LineItems:          items,
		Subtotal:           subtotal,
		DiscountRate:       rate,
		DiscountAmount:     discount,
		DiscountedSubtotal: discounted,
		TaxRate:            c.taxRate,
		TaxAmount:          tax,
		Total:              total,
	}, nil
}

// Check re-derives the breakdown's identities and reports the first one that fails.
func (b Breakdown) Check() error {
	sum := decimal.Zero
	for _, it := range b.LineItems {
		if it.Price.IsNegative() {
			return fmt.Errorf("pricing: line item %s has negative price", it.ID)
		}
		sum = sum.Add(it.Price)
	}
	if !sum.Equal(b.Subtotal) {
		return fmt.Errorf("pricing: subtotal %s does not equal line item sum %s", b.Subtotal, sum)
	}
	if !b.Subtotal.Sub(b.DiscountAmount).Equal(b.DiscountedSubtotal) {
		return errors.New("pricing: discounted subtotal does not equal subtotal minus discount")
	}
	if !b.DiscountedSubtotal.Add(b.TaxAmount).Equal(b.Total) {
		return errors.New("pricing: total does not equal discounted subtotal plus tax")
	}
	if b.Total.IsNegative() {
		return errors.New("pricing: total is negative")
	}
	return nil
}
