package health

import "context"

// DBPinger checks corpus storage availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc is an ad-hoc component probe.
type CheckFunc func(ctx context.Context) error
