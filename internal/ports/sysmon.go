package ports

import "context"

// ResourceProbe reads current host utilisation.
type ResourceProbe interface {
	Probe(ctx context.Context) (SystemUsage, error)
}
