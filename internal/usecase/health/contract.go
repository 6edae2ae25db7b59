package health

import "context"

// RedisPinger checks vector store availability.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// StorePinger checks relational store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
