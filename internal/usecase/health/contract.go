package health

import "context"

// StorePinger checks knowledge-store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an upstream provider (embedding or chat completion).
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
