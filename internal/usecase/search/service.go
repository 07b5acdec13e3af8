package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stylesearch/internal/domain"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/request"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
	"github.com/kailas-cloud/stylesearch/internal/logger"
	"github.com/kailas-cloud/stylesearch/internal/metrics"
	"github.com/kailas-cloud/stylesearch/internal/usecase/sessionlock"
)

// Submission is one search attempt from the UI.
type Submission struct {
	Mode  mode.Mode
	Text  string         // text mode
	Image *request.Image // image mode
	// Filters, when set, replace the session facets together with the search
	// start. Nil uses the session's current facets.
	Filters *filter.Set
	Source  domsession.Source
}

// Service runs searches and records their outcome in session state.
type Service struct {
	recommender Recommender
	normalizer  Normalizer
	states      StateRepository
	locks       *sessionlock.Keyed
}

// New creates a search service. locks must be shared with every other writer
// of session state in this process.
func New(recommender Recommender, normalizer Normalizer, states StateRepository, locks *sessionlock.Keyed) *Service {
	return &Service{
		recommender: recommender,
		normalizer:  normalizer,
		states:      states,
		locks:       locks,
	}
}

// Search validates the submission, sends it and reduces the outcome into the
// session state. Validation errors are returned before any state change or
// network call. Upstream failures are not returned: they end in the Failed
// phase with an empty result set.
//
// The session lock is held only around state transitions. A response whose
// generation is no longer current is discarded.
func (s *Service) Search(ctx context.Context, sessionID string, sub Submission) (domsession.State, error) {
	log := logger.FromContext(ctx).With(zap.String("session_id", sessionID), zap.String("mode", string(sub.Mode)))

	req, gen, err := s.start(ctx, sessionID, sub)
	if err != nil {
		return domsession.State{}, err
	}

	resp, sendErr := s.recommender.Search(ctx, req)

	var ev domsession.Event
	if sendErr != nil {
		log.Warn("Search failed", zap.Uint64("generation", gen), zap.Error(sendErr))
		ev = domsession.SearchFailed{Generation: gen, Err: sendErr}
	} else {
		items := s.normalizer.Normalize(resp)
		metrics.RecommenderResultsTotal.WithLabelValues(string(req.Mode())).Add(float64(len(items)))
		log.Info("Search completed", zap.Uint64("generation", gen), zap.Int("results", len(items)))
		ev = domsession.SearchSucceeded{Generation: gen, Items: items}
	}

	// The outcome is recorded even if the caller went away.
	return s.finish(context.WithoutCancel(ctx), sessionID, gen, ev, log)
}

// start validates under the session lock, applies submitted filters and moves
// the state to Submitting in a single save. A rejected submission saves nothing.
func (s *Service) start(ctx context.Context, sessionID string, sub Submission) (*request.Request, uint64, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	st, err := s.states.Get(ctx, sessionID)
	if err != nil {
		return nil, 0, fmt.Errorf("load session: %w", err)
	}

	filters := st.Filters
	if sub.Filters != nil {
		filters = sub.Filters.Normalized()
	}
	req, err := buildRequest(sub, filters)
	if err != nil {
		return nil, 0, err
	}

	next := st
	if sub.Filters != nil {
		if next, err = domsession.Reduce(next, domsession.FiltersChanged{Filters: filters}); err != nil {
			return nil, 0, err
		}
	}
	next, err = domsession.Reduce(next, domsession.SearchStarted{Source: sourceOf(sub)})
	if err != nil {
		return nil, 0, err
	}
	if err := s.states.Save(ctx, next); err != nil {
		return nil, 0, fmt.Errorf("save session: %w", err)
	}
	return req, next.Generation, nil
}

func (s *Service) finish(
	ctx context.Context, sessionID string, gen uint64, ev domsession.Event, log *zap.Logger,
) (domsession.State, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	st, err := s.states.Get(ctx, sessionID)
	if err != nil {
		return domsession.State{}, fmt.Errorf("load session: %w", err)
	}
	if !st.IsCurrent(gen) {
		metrics.StaleResponsesTotal.Inc()
		log.Info("Discarding stale response",
			zap.Uint64("generation", gen),
			zap.Uint64("current_generation", st.Generation),
			zap.String("phase", string(st.Phase)),
		)
		return st, nil
	}

	next, err := domsession.Reduce(st, ev)
	if err != nil {
		return domsession.State{}, err
	}
	if err := s.states.Save(ctx, next); err != nil {
		return domsession.State{}, fmt.Errorf("save session: %w", err)
	}
	return next, nil
}

// Run is the stateless variant: validate, send and normalize one request.
// On failure the items are an empty, non-nil slice alongside the error.
func (s *Service) Run(ctx context.Context, req *request.Request) ([]result.DisplayItem, error) {
	resp, err := s.recommender.Search(ctx, req)
	if err != nil {
		return []result.DisplayItem{}, fmt.Errorf("search %s: %w", req.Mode(), err)
	}
	items := s.normalizer.Normalize(resp)
	metrics.RecommenderResultsTotal.WithLabelValues(string(req.Mode())).Add(float64(len(items)))
	return items, nil
}

func buildRequest(sub Submission, filters filter.Set) (*request.Request, error) {
	var (
		req request.Request
		err error
	)
	switch sub.Mode {
	case mode.Text:
		req, err = request.NewText(sub.Text)
	case mode.Image:
		req, err = request.NewImage(sub.Image, filters)
	default:
		return nil, fmt.Errorf("%w: unsupported search mode %q", domain.ErrValidation, sub.Mode)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func sourceOf(sub Submission) domsession.Source {
	if sub.Source != "" {
		return sub.Source
	}
	if sub.Mode == mode.Image {
		return domsession.SourceFilePick
	}
	return domsession.SourceSearchBox
}
