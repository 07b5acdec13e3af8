package stylesearch

import (
	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/request"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
)

// Rand draws uniform integers in [0, n). *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Item is one recommendation ready for display.
type Item struct {
	Rank      *int     `json:"rank,omitempty"`
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Score     *float64 `json:"score,omitempty"` // 0..1
	ImageURL  string   `json:"imageUrl"`
	Brand     string   `json:"brand"`
	Price     string   `json:"price"` // "$<n>.99"
	Style     string   `json:"style"`
	Occasion  string   `json:"occasion"`
}

// Image is a query image. ContentType is sniffed from Data when empty.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Filters narrows an image search. Empty fields and "All ..." labels mean no constraint.
type Filters struct {
	Category string
	Style    string
	Occasion string
}

// Facet describes one filter dimension and its suggested options.
type Facet struct {
	Name     string   `json:"name"`
	AllLabel string   `json:"allLabel"`
	Options  []string `json:"options"`
}

// MaxImageBytes is the largest accepted query image.
const MaxImageBytes = request.MaxImageBytes

func itemFromDomain(d *result.DisplayItem) Item {
	return Item{
		Rank:      d.Rank,
		ProductID: d.ProductID,
		Name:      d.Name,
		Category:  d.Category,
		Score:     d.Score,
		ImageURL:  d.ImageURL,
		Brand:     d.Brand,
		Price:     d.Price,
		Style:     d.Style,
		Occasion:  d.Occasion,
	}
}

func (f Filters) toDomain() filter.Set {
	return filter.New(f.Category, f.Style, f.Occasion)
}
