package generator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// Generation ranges of the synthetic pump model.
const (
	PressureMin = 2.0
	PressureMax = 4.0

	FlowRateMin = 100.0
	FlowRateMax = 200.0

	TemperatureMin = 35.0
	TemperatureMax = 45.0

	PowerMin = 75.0
	PowerMax = 85.0

	VibrationMean   = 0.5
	VibrationStdDev = 0.1
)

// Random draws pump readings from fixed uniform and normal distributions.
type Random struct {
	pumpID string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a generator seeded from the wall clock.
func NewRandom(pumpID string) *Random {
	return NewRandomWithSource(pumpID, rand.NewSource(time.Now().UnixNano()))
}

// NewRandomWithSource uses the given source, so tests can pin a seed.
func NewRandomWithSource(pumpID string, src rand.Source) *Random {
	return &Random{pumpID: pumpID, rnd: rand.New(src)}
}

func (r *Random) Generate() domain.Sample {
	r.mu.Lock()
	defer r.mu.Unlock()

	return domain.Sample{
		PumpID:           r.pumpID,
		Pressure:         r.uniform(PressureMin, PressureMax),
		FlowRate:         r.uniform(FlowRateMin, FlowRateMax),
		Temperature:      r.uniform(TemperatureMin, TemperatureMax),
		Vibration:        math.Abs(r.rnd.NormFloat64()*VibrationStdDev + VibrationMean),
		PowerConsumption: r.uniform(PowerMin, PowerMax),
	}
}

// uniform draws from [lo, hi); hi itself is never returned.
func (r *Random) uniform(lo, hi float64) float64 {
	return lo + r.rnd.Float64()*(hi-lo)
}

var _ ports.Generator = (*Random)(nil)
