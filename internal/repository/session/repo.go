package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/stylesearch/internal/db"
	"github.com/kailas-cloud/stylesearch/internal/domain"
	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
)

const keyPrefix = "stylesearch:session:"

// store is the consumer interface for session state (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo persists session state as JSON. Every save refreshes the TTL.
type Repo struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a session repository.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl, now: time.Now}
}

// Get loads a session state. Missing or expired sessions return domain.ErrSessionNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domsession.State, error) {
	data, err := r.store.Get(ctx, key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsession.State{}, domain.ErrSessionNotFound
		}
		return domsession.State{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return stateFromJSON(data)
}

// Save stores a session state.
func (r *Repo) Save(ctx context.Context, s domsession.State) error {
	data, err := stateToJSON(s, r.now())
	if err != nil {
		return err
	}
	if err := r.store.SetWithTTL(ctx, key(s.ID), data, r.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes a session state.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, key(id)); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func key(id string) string {
	return keyPrefix + id
}
