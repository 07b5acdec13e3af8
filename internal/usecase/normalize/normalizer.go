package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
)

// Display defaults.
const (
	DefaultBrand    = "Fashion Brand"
	DefaultStyle    = "Trendy"
	DefaultOccasion = "Casual"
)

// Drop reasons.
const (
	DropNotObject   = "not_object"
	DropUndecodable = "undecodable"
	DropMissingID   = "missing_id"
	DropDuplicateID = "duplicate_id"
)

// PriceRange is an inclusive-exclusive price band in whole currency units.
type PriceRange struct {
	Min int
	Max int
}

// DefaultPriceRange applies to categories without their own band.
var DefaultPriceRange = PriceRange{Min: 30, Max: 120}

// PriceRanges maps a product category to its estimated price band.
var PriceRanges = map[string]PriceRange{
	"Apparel":     {Min: 25, Max: 150},
	"Shirts":      {Min: 30, Max: 80},
	"Dresses":     {Min: 40, Max: 200},
	"Outerwear":   {Min: 60, Max: 300},
	"Shoes":       {Min: 50, Max: 250},
	"Accessories": {Min: 15, Max: 100},
}

// Normalizer maps recommendation service results to display items.
// Safe for concurrent use.
type Normalizer struct {
	mu     sync.Mutex
	rng    Rand
	drops  DropCounter
	logger *zap.Logger
}

// New creates a Normalizer. rng must not be nil; drops and logger may be nil.
func New(rng Rand, drops DropCounter, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{rng: rng, drops: drops, logger: logger}
}

// Normalize returns the display items of resp in response order.
// A missing, null or non-array results field yields an empty slice.
func (n *Normalizer) Normalize(resp *result.Response) []result.DisplayItem {
	out := []result.DisplayItem{}
	if resp == nil {
		return out
	}

	raw := bytes.TrimSpace(resp.Results)
	if len(raw) == 0 || raw[0] != '[' {
		return out
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		n.logger.Warn("Failed to decode results array", zap.Error(err))
		return out
	}

	seen := make(map[string]struct{}, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			n.drop(DropNotObject, i, "")
			continue
		}

		var it result.Item
		if err := json.Unmarshal(elem, &it); err != nil {
			n.logger.Warn("Failed to decode result item", zap.Int("index", i), zap.Error(err))
			n.drop(DropUndecodable, i, "")
			continue
		}
		if it.ProductID == "" {
			n.drop(DropMissingID, i, "")
			continue
		}
		if _, dup := seen[it.ProductID]; dup {
			n.drop(DropDuplicateID, i, it.ProductID)
			continue
		}
		seen[it.ProductID] = struct{}{}

		out = append(out, n.Item(&it))
	}
	return out
}

// Item fills the missing display fields of a single item.
func (n *Normalizer) Item(it *result.Item) result.DisplayItem {
	d := result.DisplayItem{
		Rank:      it.Rank,
		ProductID: it.ProductID,
		Name:      it.Name,
		Category:  it.Category,
		Score:     it.Score,
		ImageURL:  it.ImageURL,
		Brand:     it.Brand,
		Price:     it.Price,
		Style:     it.Style,
		Occasion:  it.Occasion,
	}
	if d.Brand == "" {
		d.Brand = Brand(it.Name)
	}
	if d.Price == "" {
		d.Price = n.price(it.Category)
	}
	if d.Style == "" {
		d.Style = DefaultStyle
	}
	if d.Occasion == "" {
		d.Occasion = DefaultOccasion
	}
	return d
}

// Brand returns the first two words of name, or DefaultBrand when it has fewer.
func Brand(name string) string {
	words := strings.Fields(name)
	if len(words) < 2 {
		return DefaultBrand
	}
	return words[0] + " " + words[1]
}

// RangeFor returns the price band for a category.
func RangeFor(category string) PriceRange {
	if r, ok := PriceRanges[category]; ok {
		return r
	}
	return DefaultPriceRange
}

func (n *Normalizer) price(category string) string {
	r := RangeFor(category)
	v := r.Min
	if span := r.Max - r.Min; span > 0 {
		n.mu.Lock()
		v += n.rng.IntN(span)
		n.mu.Unlock()
	}
	return fmt.Sprintf("$%d.99", v)
}

func (n *Normalizer) drop(reason string, index int, productID string) {
	n.logger.Warn("Dropping result item",
		zap.String("reason", reason),
		zap.Int("index", index),
		zap.String("product_id", productID),
	)
	if n.drops != nil {
		n.drops.Dropped(reason)
	}
}
