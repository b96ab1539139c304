package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// QueueLenner reports the depth of a Redis list.
type QueueLenner interface {
	LLen(ctx context.Context, key string) (int64, error)
}
