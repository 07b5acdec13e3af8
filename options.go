package stylesearch

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	rng     Rand
	seed    uint64
	seedSet bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the recommendation service root, e.g. https://host/prod. Required.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userAgent = ua
	})
}

// WithHTTPClient sets the underlying HTTP client. No timeout is applied by
// default; set one on the client or use context deadlines.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithSeed makes generated prices reproducible.
func WithSeed(seed uint64) Option {
	return optionFunc(func(c *clientConfig) {
		c.seed = seed
		c.seedSet = true
	})
}

// WithRand sets the random source for generated prices. Overrides WithSeed.
func WithRand(r Rand) Option {
	return optionFunc(func(c *clientConfig) {
		c.rng = r
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
