package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Format renders an amount with two decimals behind the currency symbol, e.g. "R1725.00".
// Amounts are only rounded here, at the presentation boundary.
func Format(amount Money, symbol string) string {
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(2)
	}
	return symbol + amount.StringFixed(2)
}

// Percent renders a fractional rate as a percentage, e.g. 0.05 -> "5%".
func Percent(rate decimal.Decimal) string {
	return rate.Mul(hundred).String() + "%"
}

// Display holds the formatted amounts of a breakdown.
type Display struct {
	LineItems          map[string]string `json:"lineItems"`
	Subtotal           string            `json:"subtotal"`
	Discount           string            `json:"discount"`
	DiscountAmount     string            `json:"discountAmount"`
	DiscountedSubtotal string            `json:"discountedSubtotal"`
	Tax                string            `json:"tax"`
	TaxAmount          string            `json:"taxAmount"`
	Total              string            `json:"total"`
}

// Present formats every amount of b using symbol.
func Present(b Breakdown, symbol string) Display {
	items := make(map[string]string, len(b.LineItems))
	for _, it := range b.LineItems {
		items[it.ID] = Format(it.Price, symbol)
	}
	return Display{
		LineItems:          items,
		Subtotal:           Format(b.Subtotal, symbol),
		Discount:           Percent(b.DiscountRate),
		DiscountAmount:     Format(b.DiscountAmount, symbol),
		DiscountedSubtotal: Format(b.DiscountedSubtotal, symbol),
		Tax:                Percent(b.TaxRate),
		TaxAmount:          Format(b.TaxAmount, symbol),
		Total:              Format(b.Total, symbol),
	}
}
