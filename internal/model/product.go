package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Color is a product color option shown on the storefront.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Inventory maps a composite inventory key (color, or color|size) to a
// stock quantity. Malformed quantities in stored data decode to zero
// instead of failing the whole document.
type Inventory map[string]int

// UnmarshalJSON accepts numbers, numeric strings and junk values; anything
// that is not an integer becomes zero.
func (inv *Inventory) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Inventory, len(raw))
	for key, val := range raw {
		switch q := val.(type) {
		case float64:
			out[key] = int(q)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(q)); err == nil {
				out[key] = n
			} else {
				out[key] = 0
			}
		default:
			out[key] = 0
		}
	}
	*inv = out
	return nil
}

// Size is a named size option referenced by ID from products and
// composite inventory keys.
type Size struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry. Image order is display order.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	NameAr        string    `json:"nameAr,omitempty"`
	RegularPrice  int       `json:"regularPrice"`
	DiscountPrice *int      `json:"discountPrice"`
	Description   string    `json:"description,omitempty"`
	DescriptionAr string    `json:"descriptionAr,omitempty"`
	Category      string    `json:"category,omitempty"`
	Images        []string  `json:"images"`
	Colors        []Color   `json:"colors"`
	Sizes         []string  `json:"sizes,omitempty"`
	Inventory     Inventory `json:"inventory"`
	Visible       bool      `json:"visible"`
	Meta          []string  `json:"meta,omitempty"`
}

// HasDiscount reports whether the discount price counts as a discount
// (present and strictly below the regular price).
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil && *p.DiscountPrice < p.RegularPrice
}

// TotalStock sums all inventory quantities regardless of key shape.
func (p *Product) TotalStock() int {
	total := 0
	for _, qty := range p.Inventory {
		total += qty
	}
	return total
}
