package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // zero when Allowed
}

// Limiter admits or denies a request for a caller using a sliding
// time window. Denial is an expected outcome, not an error; the error
// return is reserved for backend failures (e.g. Redis unreachable).
type Limiter interface {
	Allow(ctx context.Context, callerID string) (Decision, error)
}
