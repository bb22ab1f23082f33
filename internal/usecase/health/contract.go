package health

import "context"

// IdentityChecker checks identity service availability.
type IdentityChecker interface {
	HealthCheck(ctx context.Context) error
}

// InferenceChecker checks inference provider availability.
type InferenceChecker interface {
	HealthCheck(ctx context.Context) error
}
