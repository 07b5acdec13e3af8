package stylesearch

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stylesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/request"
	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
	"github.com/kailas-cloud/stylesearch/internal/transport/recommender"
	"github.com/kailas-cloud/stylesearch/internal/usecase/normalize"
	searchuc "github.com/kailas-cloud/stylesearch/internal/usecase/search"
)

// Client is a stateless recommendation search client. Safe for concurrent use.
type Client struct {
	rec    *recommender.Client
	search *searchuc.Service
	obs    *observer
}

// New creates a Client. WithBaseURL is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.baseURL == "" {
		return nil, errors.New("stylesearch: base URL is required")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	rng := cfg.rng
	if rng == nil {
		seed := cfg.seed
		if !cfg.seedSet {
			seed = uint64(time.Now().UnixNano()) //nolint:gosec // price draw, not security
		}
		rng = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // price draw, not security
	}

	rec := recommender.NewClient(&recommender.Config{
		BaseURL:    cfg.baseURL,
		UserAgent:  cfg.userAgent,
		HTTPClient: cfg.httpClient,
		Logger:     zap.NewNop(),
	})
	norm := normalize.New(rng, nil, zap.NewNop())

	return &Client{
		rec:    rec,
		search: searchuc.New(rec, norm, nil, nil),
		obs:    obs,
	}, nil
}

// SearchText runs a text-to-image search. The query is trimmed; an empty
// query fails with ErrValidation and no request is sent.
func (c *Client) SearchText(ctx context.Context, query string) (items []Item, err error) {
	defer func(start time.Time) { c.obs.observe("search_text", start, err) }(time.Now())

	req, err := request.NewText(query)
	if err != nil {
		return []Item{}, err
	}
	return c.run(ctx, &req)
}

// SearchImage runs an image-to-image search narrowed by filters.
// The image must be an image/* type of at most MaxImageBytes.
func (c *Client) SearchImage(ctx context.Context, img Image, filters Filters) (items []Item, err error) {
	defer func(start time.Time) { c.obs.observe("search_image", start, err) }(time.Now())

	req, err := request.NewImage(&request.Image{
		Filename:    img.Filename,
		ContentType: img.ContentType,
		Data:        img.Data,
	}, filters.toDomain())
	if err != nil {
		return []Item{}, err
	}
	return c.run(ctx, &req)
}

func (c *Client) run(ctx context.Context, req *request.Request) ([]Item, error) {
	display, err := c.search.Run(ctx, req)
	return itemsFromDomain(display), err
}

// Health checks that the recommendation service is reachable.
func (c *Client) Health(ctx context.Context) (err error) {
	defer func(start time.Time) { c.obs.observe("health", start, err) }(time.Now())
	return c.rec.HealthCheck(ctx)
}

// Facets returns the filter dimensions with their "All ..." labels and options.
func (c *Client) Facets() []Facet { return Facets() }

// Facets returns the filter dimensions with their "All ..." labels and options.
func Facets() []Facet {
	out := make([]Facet, 0, len(filter.Facets))
	for _, f := range filter.Facets {
		out = append(out, Facet{
			Name:     string(f),
			AllLabel: f.AllLabel(),
			Options:  f.Options(),
		})
	}
	return out
}

func itemsFromDomain(display []result.DisplayItem) []Item {
	out := make([]Item, 0, len(display))
	for i := range display {
		out = append(out, itemFromDomain(&display[i]))
	}
	return out
}
