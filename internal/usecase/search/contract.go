package search

import (
	"context"

	"github.com/kailas-cloud/stylesearch/internal/domain/search/request"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
)

// Recommender sends one validated query to the recommendation service.
type Recommender interface {
	Search(ctx context.Context, req *request.Request) (*result.Response, error)
}

// Normalizer maps a raw response to display items.
type Normalizer interface {
	Normalize(resp *result.Response) []result.DisplayItem
}

// StateRepository persists session view state.
type StateRepository interface {
	Get(ctx context.Context, id string) (domsession.State, error)
	Save(ctx context.Context, s domsession.State) error
}
