package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier groups courses by programme length. Every course in a tier shares one flat price.
type Tier string

const (
	// TierLongForm covers the six-month programmes.
	TierLongForm Tier = "long-form"
	// TierShortForm covers the six-week programmes.
	TierShortForm Tier = "short-form"
)

// Tiers lists the supported tiers in catalog order.
func Tiers() []Tier {
	return []Tier{TierLongForm, TierShortForm}
}

// ParseTier accepts the canonical tier names plus the programme-length aliases used by the front-end.
func ParseTier(value string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "long-form", "long", "six-month":
		return TierLongForm, nil
	case "short-form", "short", "six-week":
		return TierShortForm, nil
	default:
		return "", fmt.Errorf("unknown tier %q", value)
	}
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t == TierLongForm || t == TierShortForm
}

// Highlight is one module of a course outline.
type Highlight struct {
	Title    string   `json:"title"`
	Overview string   `json:"overview"`
	Items    []string `json:"items"`
	Project  string   `json:"project,omitempty"`
	Audience string   `json:"audience,omitempty"`
}

// Course is an offerable course with its resolved price.
type Course struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Overview        string          `json:"overview"`
	Tier            Tier            `json:"tier"`
	Price           decimal.Decimal `json:"price"`
	Highlights      []Highlight     `json:"highlights"`
	Benefits        []string        `json:"benefits"`
	WhoShouldEnroll []string        `json:"whoShouldEnroll"`
}

// Definition is the static description of a course. Prices are attached per tier when the catalog is built.
type Definition struct {
	ID              string
	Title           string
	Description     string
	Overview        string
	Tier            Tier
	Highlights      []Highlight
	Benefits        []string
	WhoShouldEnroll []string
}

func (c Course) clone() Course {
	out := c
	out.Highlights = make([]Highlight, len(c.Highlights))
	for i, h := range c.Highlights {
		h.Items = append([]string(nil), h.Items...)
		out.Highlights[i] = h
	}
	out.Benefits = append([]string(nil), c.Benefits...)
	out.WhoShouldEnroll = append([]string(nil), c.WhoShouldEnroll...)
	return out
}
