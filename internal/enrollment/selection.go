package enrollment

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/skills-enroll/internal/pricing"
)

// Selection is the set of course ids a prospective student has picked, kept in pick
// order, plus a running subtotal for display. The subtotal is a cache; the catalog
// remains the source of truth for prices.
//
// Selection is a value type. Toggle returns a new Selection and never mutates the receiver.
type Selection struct {
	ids      []string
	subtotal pricing.Money
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{subtotal: decimal.Zero}
}

// Toggle removes id when present and subtracts price, otherwise appends id and adds price.
func (s Selection) Toggle(id string, price pricing.Money) Selection {
	if s.Contains(id) {
		return Selection{
			ids:      lo.Without(s.ids, id),
			subtotal: s.subtotal.Sub(price),
		}
	}
	ids := make([]string, len(s.ids), len(s.ids)+1)
	copy(ids, s.ids)
	return Selection{
		ids:      append(ids, id),
		subtotal: s.subtotal.Add(price),
	}
}

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool {
	return lo.Contains(s.ids, id)
}

// IDs returns a copy of the selected ids in pick order.
func (s Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len is the number of selected courses.
func (s Selection) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// RunningSubtotal is the cached sum of the selected prices.
func (s Selection) RunningSubtotal() pricing.Money {
	return s.subtotal
}

// Equal reports whether both selections hold the same ids, ignoring order, and the same subtotal.
func (s Selection) Equal(other Selection) bool {
	if len(s.ids) != len(other.ids) || !s.subtotal.Equal(other.subtotal) {
		return false
	}
	return lo.Every(other.ids, s.ids)
}

// Recompute sums the catalog prices of the selection. Ids missing from the catalog
// produce a ResolutionError.
func (s Selection) Recompute(cat pricing.Catalog) (pricing.Money, error) {
	sum := decimal.Zero
	var missing []string
	for _, id := range s.ids {
		course, ok := cat.FindByID(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		sum = sum.Add(course.Price)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return decimal.Zero, &pricing.ResolutionError{IDs: missing}
	}
	return sum, nil
}

// Verify checks the running subtotal against the catalog.
func (s Selection) Verify(cat pricing.Catalog) error {
	sum, err := s.Recompute(cat)
	if err != nil {
		return err
	}
	if !sum.Equal(s.subtotal) {
		return fmt.Errorf("%w: cached %s, catalog %s", ErrSubtotalDrift, s.subtotal, sum)
	}
	return nil
}

type selectionJSON struct {
	CourseIDs       []string      `json:"courseIds"`
	RunningSubtotal pricing.Money `json:"runningSubtotal"`
}

// MarshalJSON implements json.Marshaler.
func (s Selection) MarshalJSON() ([]byte, error) {
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(selectionJSON{CourseIDs: ids, RunningSubtotal: s.subtotal})
}

// UnmarshalJSON implements json.Unmarshaler. Repeated ids are dropped.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var raw selectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ids = lo.Uniq(raw.CourseIDs)
	if len(s.ids) == 0 {
		s.ids = nil
	}
	s.subtotal = raw.RunningSubtotal
	return nil
}
