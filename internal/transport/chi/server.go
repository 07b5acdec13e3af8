package chi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/stylesearch/internal/domain"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/request"
	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
	"github.com/kailas-cloud/stylesearch/internal/logger"
	"github.com/kailas-cloud/stylesearch/internal/transport/recommender"
	healthuc "github.com/kailas-cloud/stylesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/stylesearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/stylesearch/internal/usecase/session"
)

const (
	// maxUploadBytes caps the multipart body: the image limit plus room for form fields.
	maxUploadBytes = request.MaxImageBytes + 1<<20
	// maxFormMemory is held in memory before multipart parts spill to disk.
	maxFormMemory = 12 << 20
	// maxJSONBytes caps JSON request bodies.
	maxJSONBytes = 64 << 10
)

// Server serves the search UI backend API.
type Server struct {
	sessions *sessionuc.Service
	search   *searchuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *sessionuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		sessions: sessions,
		search:   search,
		health:   health,
		logger:   logger,
	}
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/facets", s.ListFacets)
		r.Post("/sessions", s.CreateSession)
		r.Route("/sessions/{session}", func(r chi.Router) {
			r.Use(sessionLogger)
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/filters", s.SetFilters)
			r.Delete("/results", s.ResetResults)
			r.Post("/search/text", s.SearchText)
			r.Post("/search/image", s.SearchImage)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// sessionLogger tags the request logger with the session id.
func sessionLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithSession(r.Context(), chi.URLParam(r, "session"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CreateSession handles POST /v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Create(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("Session created", zap.String("session_id", st.ID))
	writeJSON(w, http.StatusCreated, st)
}

// GetSession handles GET /v1/sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// DeleteSession handles DELETE /v1/sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "session")); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetFilters handles PUT /v1/sessions/{session}/filters.
func (s *Server) SetFilters(w http.ResponseWriter, r *http.Request) {
	var f filter.Set
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	st, err := s.sessions.SetFilters(r.Context(), chi.URLParam(r, "session"), f)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ResetResults handles DELETE /v1/sessions/{session}/results.
func (s *Server) ResetResults(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Reset(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SearchText handles POST /v1/sessions/{session}/search/text.
// Upstream failures are reported in the returned state, not as an error status.
func (s *Server) SearchText(w http.ResponseWriter, r *http.Request) {
	var req TextSearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	st, err := s.search.Search(r.Context(), chi.URLParam(r, "session"), searchuc.Submission{
		Mode:   mode.Text,
		Text:   req.Query,
		Source: req.Source,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SearchImage handles POST /v1/sessions/{session}/search/image.
// Facet fields sent with the image replace the session filters when the search starts.
func (s *Server) SearchImage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handleDomainError(w, r, domain.NewValidationError(domain.ConstraintSize,
				"Image must be smaller than 10MB"))
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart body: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	img, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid image part: "+err.Error())
		return
	}

	sub := searchuc.Submission{
		Mode:   mode.Image,
		Image:  img,
		Source: domsession.Source(r.FormValue("source")),
	}
	if f, ok := formFilters(r.MultipartForm); ok {
		sub.Filters = &f
	}

	st, err := s.search.Search(r.Context(), sessionID, sub)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ListFacets handles GET /v1/facets.
func (s *Server) ListFacets(w http.ResponseWriter, _ *http.Request) {
	resp := make(FacetsResponse, len(filter.Facets))
	for _, f := range filter.Facets {
		resp[f] = FacetResponse{AllLabel: f.AllLabel(), Options: f.Options()}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err := dec.Decode(v); err != nil {
		return err //nolint:wrapcheck // message is returned to the client as is
	}
	return nil
}

// readImage returns nil when no query_image part was sent; the search
// service reports that as a missing image.
func readImage(r *http.Request) (*request.Image, error) {
	file, hdr, err := r.FormFile(recommender.FieldQueryImage)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err //nolint:wrapcheck // reported as bad_request
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err //nolint:wrapcheck // reported as bad_request
	}

	return &request.Image{
		Filename:    hdr.Filename,
		ContentType: partContentType(hdr),
		Data:        data,
	}, nil
}

// partContentType returns the declared part type, or "" for a generic
// octet-stream so the type is sniffed from the bytes.
func partContentType(hdr *multipart.FileHeader) string {
	ct := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if strings.EqualFold(ct, "application/octet-stream") {
		return ""
	}
	return ct
}

// formFilters reads facet fields from the form. ok is false when none was sent.
func formFilters(form *multipart.Form) (filter.Set, bool) {
	var (
		set filter.Set
		ok  bool
	)
	for _, f := range filter.Facets {
		vals, present := form.Value[string(f)]
		if !present || len(vals) == 0 {
			continue
		}
		set = set.With(f, vals[0])
		ok = true
	}
	return set, ok
}
