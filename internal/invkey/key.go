// Package invkey encodes and decodes composite inventory keys. A product
// without sizes keys its stock by color name alone; a product with sizes
// keys it by "color|sizeID". Color names must not contain '|'.
package invkey

import "strings"

// Key is a decoded composite inventory key. Size is empty when the product
// has no size dimension.
type Key struct {
	Color string
	Size  string
}

// Parse splits a composite key on the first '|'.
func Parse(s string) Key {
	if i := strings.Index(s, "|"); i >= 0 {
		return Key{Color: s[:i], Size: s[i+1:]}
	}
	return Key{Color: s}
}

// String re-encodes the key: the color verbatim, or "color|size".
func (k Key) String() string {
	if k.Size == "" {
		return k.Color
	}
	return k.Color + "|" + k.Size
}

// AggregateByColor sums quantities across all keys sharing a color,
// regardless of size suffix.
func AggregateByColor(inventory map[string]int) map[string]int {
	out := make(map[string]int, len(inventory))
	for key, qty := range inventory {
		out[Parse(key).Color] += qty
	}
	return out
}
