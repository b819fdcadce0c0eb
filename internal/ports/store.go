package ports

import (
	"context"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
)

// SampleStore persists a single sample. It returns false once its own retry
// budget is exhausted; it never panics on storage failures.
type SampleStore interface {
	Store(ctx context.Context, s domain.Sample) bool
	Name() string
}

// SchemaBootstrapper prepares the storage target before ingestion starts.
type SchemaBootstrapper interface {
	EnsureSchema(ctx context.Context) error
}
