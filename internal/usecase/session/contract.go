package session

import (
	"context"

	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
)

// Repository persists session view state.
type Repository interface {
	Get(ctx context.Context, id string) (domsession.State, error)
	Save(ctx context.Context, s domsession.State) error
	Delete(ctx context.Context, id string) error
}
