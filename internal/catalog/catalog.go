package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ErrInvalidCatalog is returned when course definitions or prices are malformed.
var ErrInvalidCatalog = errors.New("catalog: invalid definition")

// Prices holds the flat price of each tier.
type Prices struct {
	LongForm  decimal.Decimal
	ShortForm decimal.Decimal
}

// DefaultPrices returns the published tier prices.
func DefaultPrices() Prices {
	return Prices{
		LongForm:  decimal.NewFromInt(1500),
		ShortForm: decimal.NewFromInt(750),
	}
}

func (p Prices) forTier(t Tier) decimal.Decimal {
	if t == TierLongForm {
		return p.LongForm
	}
	return p.ShortForm
}

// Catalog is the immutable set of offerable courses. It is safe for concurrent use.
type Catalog struct {
	courses []Course
	index   map[string]int
}

// New builds a catalog from definitions, pricing every course by its tier.
// Long-form courses come first, each tier keeping definition order.
func New(prices Prices, defs []Definition) (*Catalog, error) {
	if prices.LongForm.IsNegative() || prices.ShortForm.IsNegative() {
		return nil, fmt.Errorf("%w: tier prices must not be negative", ErrInvalidCatalog)
	}
	cat := &Catalog{index: make(map[string]int, len(defs))}
	for _, tier := range Tiers() {
		for _, def := range defs {
			if def.Tier != tier {
				continue
			}
			id := strings.TrimSpace(def.ID)
			if id == "" {
				return nil, fmt.Errorf("%w: course %q has no id", ErrInvalidCatalog, def.Title)
			}
			if _, dup := cat.index[id]; dup {
				return nil, fmt.Errorf("%w: duplicate course id %q", ErrInvalidCatalog, id)
			}
			course := Course{
				ID:              id,
				Title:           def.Title,
				Description:     def.Description,
				Overview:        def.Overview,
				Tier:            tier,
				Price:           prices.forTier(tier),
				Highlights:      def.Highlights,
				Benefits:        def.Benefits,
				WhoShouldEnroll: def.WhoShouldEnroll,
			}
			cat.index[id] = len(cat.courses)
			cat.courses = append(cat.courses, course.clone())
		}
	}
	if len(cat.courses) != len(defs) {
		for _, def := range defs {
			if !def.Tier.Valid() {
				return nil, fmt.Errorf("%w: course %q has unknown tier %q", ErrInvalidCatalog, def.ID, def.Tier)
			}
		}
	}
	return cat, nil
}

// Default builds the catalog from the bundled course fixtures.
func Default(prices Prices) (*Catalog, error) {
	return New(prices, Fixtures())
}

// AllCourses returns every course, long-form first.
func (c *Catalog) AllCourses() []Course {
	return lo.Map(c.courses, func(course Course, _ int) Course { return course.clone() })
}

// FindByID looks a course up across both tiers.
func (c *Catalog) FindByID(id string) (Course, bool) {
	i, ok := c.index[id]
	if !ok {
		return Course{}, false
	}
	return c.courses[i].clone(), true
}

// ByTier returns the courses of one tier in definition order.
func (c *Catalog) ByTier(tier Tier) []Course {
	return c.filter(func(course Course) bool { return course.Tier == tier })
}

// Search matches query case-insensitively against course titles. An empty query matches everything.
func (c *Catalog) Search(query string) []Course {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.AllCourses()
	}
	return c.filter(func(course Course) bool {
		return strings.Contains(strings.ToLower(course.Title), q)
	})
}

// Len reports the number of courses.
func (c *Catalog) Len() int {
	return len(c.courses)
}

func (c *Catalog) filter(keep func(Course) bool) []Course {
	matched := lo.Filter(c.courses, func(course Course, _ int) bool { return keep(course) })
	return lo.Map(matched, func(course Course, _ int) Course { return course.clone() })
}
