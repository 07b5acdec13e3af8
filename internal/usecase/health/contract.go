package health

import "context"

// StorePinger checks session store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// RecommenderChecker checks recommendation service availability.
type RecommenderChecker interface {
	HealthCheck(ctx context.Context) error
}
