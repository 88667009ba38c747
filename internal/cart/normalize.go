package cart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/limestore/limectl/internal/errs"
	"github.com/limestore/limectl/internal/model"
)

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// idKeys enumerates every accepted product-id source field, in precedence order.
var idKeys = []string{"id", "productId", "_id", "slug"}

// Normalize converts a loosely-shaped product record (a decoded JSON object)
// into a valid CartLine.
// Rules:
// - id is the first non-empty of "id", "productId", "_id", "slug"
// - name is trimmed and must be non-empty
// - price accepts number or numeric string; unparsable/negative → 0
// - quantity accepts number or numeric string; rounded and clamped to [1,99], absent → 1
func Normalize(raw map[string]any) (model.CartLine, error) {
	id := firstString(raw, idKeys...)
	if id == "" {
		return model.CartLine{}, fmt.Errorf("cart: record has no product id: %w", errs.ErrValidation)
	}
	name := strings.TrimSpace(toString(raw["name"]))
	if name == "" {
		return model.CartLine{}, fmt.Errorf("cart: record has no name: %w", errs.ErrValidation)
	}

	qty := 1.0
	if v, ok := raw["quantity"]; ok {
		qty = toNumber(v)
	}

	return model.CartLine{
		ID:       id,
		Name:     name,
		Price:    toPrice(raw["price"]),
		ImageURL: strings.TrimSpace(toString(raw["imageUrl"])),
		Quantity: clampQuantity(qty),
	}, nil
}

// ProductRecord shapes a catalog product into the loose record Add consumes.
func ProductRecord(p model.Product) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"slug":     p.Slug,
		"name":     p.Name,
		"price":    p.Price,
		"imageUrl": p.ImageURL,
	}
}

// clampQuantity rounds and clamps to [MinQuantity, MaxQuantity].
// Non-finite input clamps to the minimum.
func clampQuantity(q float64) int {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return MinQuantity
	}
	n := int(math.Round(q))
	if n < MinQuantity {
		return MinQuantity
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(toString(raw[k])); s != "" {
			return s
		}
	}
	return ""
}

// toString renders string and whole-number values; everything else is empty.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// toNumber parses numbers and numeric strings; anything else is NaN.
func toNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// toPrice coerces to a finite non-negative price, defaulting to 0.
func toPrice(v any) float64 {
	f := toNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
