package ports

import "github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"

// Generator produces one reading per call. It has no failure mode.
type Generator interface {
	Generate() domain.Sample
}
