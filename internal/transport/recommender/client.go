package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/stylesearch/internal/domain"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/request"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
	"github.com/kailas-cloud/stylesearch/internal/metrics"
)

const defaultUserAgent = "stylesearch/1.0"

// Config holds the recommendation service client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	// HTTPClient overrides the transport. No timeout is set by default.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client sends search requests to the recommendation service.
// One POST per Send: no retry, no cache, no deduplication.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a recommendation service client.
func NewClient(cfg *Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("User-Agent", ua).
		SetRetryCount(0).
		SetLogger(logger.Sugar())

	return &Client{http: rc, logger: logger}
}

// Send issues the payload and returns the parsed response body.
// Failures are *domain.HTTPError (status or parse) or *domain.NetworkError.
func (c *Client) Send(ctx context.Context, p *Payload) (*result.Response, error) {
	route := RouteName(p.Route)
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")

	if p.Image != nil {
		req.SetMultipartField(FieldQueryImage, p.Image.Filename, p.Image.ContentType, bytes.NewReader(p.Image.Data)).
			SetMultipartFormData(p.Form)
		c.logger.Debug("Sending image search request",
			zap.String("filename", p.Image.Filename),
			zap.Int64("bytes", p.Image.Size()),
			zap.Any("form", p.Form),
		)
	} else {
		req.SetHeader("Content-Type", "application/json").
			SetBody(p.Text)
		c.logger.Debug("Sending text search request", zap.String("query_text", p.Text.QueryText))
	}

	start := time.Now()
	resp, err := req.Post(p.Route)
	duration := time.Since(start)

	if err != nil {
		metrics.RecommenderRequestsTotal.WithLabelValues(route, "error").Inc()
		metrics.RecommenderErrorsTotal.WithLabelValues(route, "network").Inc()
		return nil, &domain.NetworkError{Err: err}
	}

	metrics.RecommenderRequestDuration.WithLabelValues(route).Observe(duration.Seconds())

	if !resp.IsSuccess() {
		metrics.RecommenderRequestsTotal.WithLabelValues(route, "error").Inc()
		metrics.RecommenderErrorsTotal.WithLabelValues(route, "status").Inc()
		c.logger.Warn("Recommendation service returned error status",
			zap.String("route", route),
			zap.Int("status", resp.StatusCode()),
			zap.String("detail", extractDetail(resp.Body())),
		)
		return nil, &domain.HTTPError{Kind: domain.HTTPErrorStatus, StatusCode: resp.StatusCode()}
	}

	parsed, err := parseResponse(resp.Body())
	if err != nil {
		metrics.RecommenderRequestsTotal.WithLabelValues(route, "error").Inc()
		metrics.RecommenderErrorsTotal.WithLabelValues(route, "parse").Inc()
		return nil, &domain.HTTPError{Kind: domain.HTTPErrorParse, StatusCode: resp.StatusCode(), Err: err}
	}

	metrics.RecommenderRequestsTotal.WithLabelValues(route, "success").Inc()
	c.logger.Debug("Recommendation service responded",
		zap.String("route", route),
		zap.Duration("latency", duration),
		zap.String("query_type", parsed.QueryType),
	)
	return parsed, nil
}

// HealthCheck calls the service health route.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get(RouteHealth)
	if err != nil {
		return &domain.NetworkError{Err: err}
	}
	if !resp.IsSuccess() {
		return &domain.HTTPError{Kind: domain.HTTPErrorStatus, StatusCode: resp.StatusCode()}
	}
	return nil
}

// parseResponse fails only when body is not JSON. Valid JSON that is not an
// object yields an empty response, which normalizes to no results.
func parseResponse(body []byte) (*result.Response, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("response is not valid JSON (%d bytes)", len(body))
	}
	var r result.Response
	if err := json.Unmarshal(body, &r); err != nil {
		return &result.Response{}, nil //nolint:nilerr // non-object JSON carries no results
	}
	return &r, nil
}

// extractDetail extracts the "detail" field of a FastAPI-style error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

// Search sends a validated request.
func (c *Client) Search(ctx context.Context, req *request.Request) (*result.Response, error) {
	return c.Send(ctx, FromRequest(req))
}
