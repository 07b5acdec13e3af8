package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
	"github.com/kailas-cloud/stylesearch/internal/usecase/sessionlock"
)

// Service manages session lifecycle and facet selection.
type Service struct {
	repo  Repository
	locks *sessionlock.Keyed
	newID func() string
}

// New creates a session service. locks is shared with the search service.
func New(repo Repository, locks *sessionlock.Keyed) *Service {
	return &Service{repo: repo, locks: locks, newID: uuid.NewString}
}

// Create starts an idle session with no filters.
func (s *Service) Create(ctx context.Context) (domsession.State, error) {
	st := domsession.New(s.newID())
	if err := s.repo.Save(ctx, st); err != nil {
		return domsession.State{}, fmt.Errorf("create session: %w", err)
	}
	return st, nil
}

// Get returns the current state.
func (s *Service) Get(ctx context.Context, id string) (domsession.State, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsession.State{}, fmt.Errorf("get session: %w", err)
	}
	return st, nil
}

// SetFilters replaces the facet selection. Results already shown are kept;
// the new filters apply to the next image search.
func (s *Service) SetFilters(ctx context.Context, id string, filters filter.Set) (domsession.State, error) {
	return s.apply(ctx, id, domsession.FiltersChanged{Filters: filters})
}

// Reset clears results and errors. A search still in flight is discarded when it returns.
func (s *Service) Reset(ctx context.Context, id string) (domsession.State, error) {
	return s.apply(ctx, id, domsession.Reset{})
}

// Delete ends a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) apply(ctx context.Context, id string, ev domsession.Event) (domsession.State, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsession.State{}, fmt.Errorf("get session: %w", err)
	}
	next, err := domsession.Reduce(st, ev)
	if err != nil {
		return domsession.State{}, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return domsession.State{}, fmt.Errorf("save session: %w", err)
	}
	return next, nil
}
