package chi

import (
	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
)

// ErrorCode is the machine-readable error identifier in error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeSessionNotFound  ErrorCode = "session_not_found"
	CodeSearchInProgress ErrorCode = "search_in_progress"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Constraint string    `json:"constraint,omitempty"`
}

// TextSearchRequest is the body of POST /v1/sessions/{id}/search/text.
type TextSearchRequest struct {
	Query  string            `json:"query"`
	Source domsession.Source `json:"source,omitempty"`
}

// FacetResponse describes one filter dropdown.
type FacetResponse struct {
	AllLabel string   `json:"all_label"`
	Options  []string `json:"options"`
}

// FacetsResponse is the body of GET /v1/facets, keyed by facet name.
type FacetsResponse map[filter.Facet]FacetResponse

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
