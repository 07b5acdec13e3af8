package stylesearch

import "github.com/kailas-cloud/stylesearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation = domain.ErrValidation
	ErrUpstream   = domain.ErrUpstream
)

// Error types for errors.As.
type (
	// ValidationError names the rule that rejected a query.
	ValidationError = domain.ValidationError
	// HTTPError is a non-2xx status or an unparsable body from the service.
	HTTPError = domain.HTTPError
	// NetworkError is a transport failure before a response was received.
	NetworkError = domain.NetworkError
)
