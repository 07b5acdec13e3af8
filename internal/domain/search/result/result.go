package result

import "encoding/json"

// Item is a recommendation as returned by the recommendation service.
// Display fields are optional; the service may already provide them.
type Item struct {
	Rank      *int     `json:"rank,omitempty"`
	ProductID string   `json:"productIdStr"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Score     *float64 `json:"score,omitempty"`
	ImageURL  string   `json:"imageUrl"`
	Brand     string   `json:"brand,omitempty"`
	Price     string   `json:"price,omitempty"`
	Style     string   `json:"style,omitempty"`
	Occasion  string   `json:"occasion,omitempty"`
}

// wireItem accepts both id spellings and null strings.
type wireItem struct {
	Rank         *int     `json:"rank"`
	ProductIDStr *string  `json:"productIdStr"`
	ProductID    *string  `json:"productId"`
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Score        *float64 `json:"score"`
	ImageURL     *string  `json:"imageUrl"`
	Brand        *string  `json:"brand"`
	Price        *string  `json:"price"`
	Style        *string  `json:"style"`
	Occasion     *string  `json:"occasion"`
}

// UnmarshalJSON decodes a wire item. productIdStr wins over productId.
func (i *Item) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err //nolint:wrapcheck // surfaced by the normalizer as a skipped element
	}
	id := str(w.ProductIDStr)
	if id == "" {
		id = str(w.ProductID)
	}
	*i = Item{
		Rank:      w.Rank,
		ProductID: id,
		Name:      str(w.Name),
		Category:  str(w.Category),
		Score:     w.Score,
		ImageURL:  str(w.ImageURL),
		Brand:     str(w.Brand),
		Price:     str(w.Price),
		Style:     str(w.Style),
		Occasion:  str(w.Occasion),
	}
	return nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DisplayItem is a normalized recommendation ready to render.
// Brand, Price, Style and Occasion are always set.
type DisplayItem struct {
	Rank      *int     `json:"rank,omitempty"`
	ProductID string   `json:"productIdStr"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Score     *float64 `json:"score,omitempty"`
	ImageURL  string   `json:"imageUrl"`
	Brand     string   `json:"brand"`
	Price     string   `json:"price"`
	Style     string   `json:"style"`
	Occasion  string   `json:"occasion"`
}

// Response is the body of both search routes. Only Results is interpreted.
type Response struct {
	QueryType    string          `json:"queryType,omitempty"`
	QueryContent json.RawMessage `json:"queryContent,omitempty"`
	Results      json.RawMessage `json:"results,omitempty"`
}
