package session

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/stylesearch/internal/domain"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
	"github.com/kailas-cloud/stylesearch/internal/usecase/sessionlock"
)

// --- Mocks ---

type mockRepo struct {
	states  map[string]domsession.State
	saveErr error
	deleted []string
}

func newMockRepo(states ...domsession.State) *mockRepo {
	m := &mockRepo{states: make(map[string]domsession.State)}
	for _, s := range states {
		m.states[s.ID] = s
	}
	return m
}

func (m *mockRepo) Get(_ context.Context, id string) (domsession.State, error) {
	s, ok := m.states[id]
	if !ok {
		return domsession.State{}, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockRepo) Save(_ context.Context, s domsession.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[s.ID] = s
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.states, id)
	return nil
}

func newTestService(repo Repository) *Service {
	svc := New(repo, sessionlock.New())
	svc.newID = func() string { return "fixed-id" }
	return svc
}

// --- Tests ---

func TestCreate(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	st, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ID != "fixed-id" || st.Phase != domsession.Idle {
		t.Errorf("state = %+v", st)
	}
	if _, ok := repo.states["fixed-id"]; !ok {
		t.Error("session not saved")
	}
}

func TestCreate_DefaultIDIsUUID(t *testing.T) {
	svc := New(newMockRepo(), sessionlock.New())
	st, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.ID) != 36 {
		t.Errorf("id = %q, want uuid", st.ID)
	}
}

func TestCreate_SaveError(t *testing.T) {
	repo := newMockRepo()
	repo.saveErr = errors.New("store down")
	if _, err := newTestService(repo).Create(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := newTestService(newMockRepo()).Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSetFilters_NormalizesAndKeepsResults(t *testing.T) {
	st := domsession.New("s1")
	st.Phase = domsession.Success
	st.Results = []result.DisplayItem{{ProductID: "1"}}
	repo := newMockRepo(st)

	got, err := newTestService(repo).SetFilters(context.Background(), "s1",
		filter.Set{Category: "All Categories", Style: " Vintage ", Occasion: "Party"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filter.Set{Style: "Vintage", Occasion: "Party"}
	if got.Filters != want {
		t.Errorf("filters = %+v, want %+v", got.Filters, want)
	}
	if len(got.Results) != 1 {
		t.Error("changing filters must not clear results")
	}
	if repo.states["s1"].Filters != want {
		t.Error("filters not saved")
	}
}

func TestReset(t *testing.T) {
	st := domsession.New("s1")
	st.Phase = domsession.Failed
	st.Error = "boom"
	st.Empty = true
	st.Generation = 2
	st.Filters = filter.Set{Category: "Shoes"}
	repo := newMockRepo(st)

	got, err := newTestService(repo).Reset(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phase != domsession.Idle || got.Error != "" || got.Empty || len(got.Results) != 0 {
		t.Errorf("state = %+v", got)
	}
	if got.Filters.Category != "Shoes" {
		t.Error("reset must keep filters")
	}
	if got.Generation != 3 {
		t.Errorf("generation = %d, want 3", got.Generation)
	}
}

func TestDelete(t *testing.T) {
	repo := newMockRepo(domsession.New("s1"))
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Error("expected Delete call")
	}
	if err := svc.Delete(context.Background(), "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}
