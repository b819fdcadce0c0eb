package ports

import (
	"context"
	"time"
)

// RetryPolicy bounds the attempts of a single store or bootstrap operation.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// BackoffPolicy drives the ingestion loop cooldown after failed stores.
type BackoffPolicy struct {
	BaseDelay        time.Duration
	MaxDelay         time.Duration
	FailureThreshold int
	ErrorPause       time.Duration
}

// Escalation is invoked when consecutive store failures reach the threshold.
type Escalation func(ctx context.Context, consecutiveFailures int)
