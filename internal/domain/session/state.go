// Package session holds the view state of one search UI and its transition function.
package session

import (
	"github.com/kailas-cloud/stylesearch/internal/domain"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
)

// Phase is the search lifecycle stage.
type Phase string

// Phases. Success and Failed are terminal until the next search or reset.
const (
	Idle       Phase = "idle"
	Submitting Phase = "submitting"
	Success    Phase = "success"
	Failed     Phase = "failed"
)

// Source identifies the control that submitted a search.
type Source string

// Known sources. Any non-empty value is accepted.
const (
	SourceSearchBox Source = "search_box"
	SourceDropZone  Source = "drop_zone"
	SourceFilePick  Source = "file_picker"
)

// State is the view state of one session.
type State struct {
	ID         string               `json:"id"`
	Phase      Phase                `json:"phase"`
	Filters    filter.Set           `json:"filters"`
	Results    []result.DisplayItem `json:"results"`
	Empty      bool                 `json:"empty"`
	Error      string               `json:"error,omitempty"`
	Generation uint64               `json:"generation"`
	Source     Source               `json:"source,omitempty"`
}

// New returns an idle state with no results.
func New(id string) State {
	return State{ID: id, Phase: Idle, Results: []result.DisplayItem{}}
}

// Event is an input to Reduce.
type Event interface {
	apply(s State) (State, error)
}

// FiltersChanged replaces the facet selection.
type FiltersChanged struct {
	Filters filter.Set
}

// SearchStarted marks a new request in flight.
type SearchStarted struct {
	Source Source
}

// SearchSucceeded delivers normalized results for a request generation.
type SearchSucceeded struct {
	Generation uint64
	Items      []result.DisplayItem
}

// SearchFailed delivers a failure for a request generation.
type SearchFailed struct {
	Generation uint64
	Err        error
}

// Reset clears results and errors and returns to idle. Filters are kept.
// Any request still in flight becomes stale.
type Reset struct{}

// Reduce applies ev to s and returns the next state.
// The input state is never modified.
func Reduce(s State, ev Event) (State, error) {
	return ev.apply(s)
}

// IsCurrent reports whether a response for generation g may still update s.
func (s State) IsCurrent(g uint64) bool {
	return s.Phase == Submitting && s.Generation == g
}

func (e FiltersChanged) apply(s State) (State, error) {
	s.Filters = e.Filters.Normalized()
	return s, nil
}

// apply refuses a second submission from the control that is already
// submitting. A different control may start a new search; the older
// response is then discarded by generation.
func (e SearchStarted) apply(s State) (State, error) {
	if s.Phase == Submitting && s.Source == e.Source {
		return s, domain.ErrSearchInProgress
	}
	s.Phase = Submitting
	s.Generation++
	s.Source = e.Source
	s.Error = ""
	return s, nil
}

func (e SearchSucceeded) apply(s State) (State, error) {
	if !s.IsCurrent(e.Generation) {
		return s, nil
	}
	items := e.Items
	if items == nil {
		items = []result.DisplayItem{}
	}
	s.Phase = Success
	s.Results = items
	s.Empty = len(items) == 0
	s.Error = ""
	s.Source = ""
	return s, nil
}

func (e SearchFailed) apply(s State) (State, error) {
	if !s.IsCurrent(e.Generation) {
		return s, nil
	}
	s.Phase = Failed
	s.Results = []result.DisplayItem{}
	s.Empty = true
	s.Source = ""
	if e.Err != nil {
		s.Error = e.Err.Error()
	}
	return s, nil
}

func (Reset) apply(s State) (State, error) {
	s.Phase = Idle
	s.Results = []result.DisplayItem{}
	s.Empty = false
	s.Error = ""
	s.Source = ""
	s.Generation++
	return s, nil
}
