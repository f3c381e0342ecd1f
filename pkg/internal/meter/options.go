package meter

import "github.com/joeydtaylor/flexlog/pkg/internal/types"

// WithLogger adds loggers that receive meter snapshots.
func WithLogger(loggers ...types.Logger) types.Option[types.Meter] {
	return func(m types.Meter) {
		m.ConnectLogger(loggers...)
	}
}

// WithComponentMetadata sets the name and id for the meter.
func WithComponentMetadata(name string, id string) types.Option[types.Meter] {
	return func(m types.Meter) {
		m.SetComponentMetadata(name, id)
	}
}

// WithInitialMetricCount seeds a counter, typically when resuming from a persisted snapshot.
func WithInitialMetricCount(metric string, count uint64) types.Option[types.Meter] {
	return func(m types.Meter) {
		m.AddCount(metric, count)
	}
}

// WithoutHostSampling disables the gopsutil CPU and memory probe.
func WithoutHostSampling() types.Option[types.Meter] {
	return func(mm types.Meter) {
		if m, ok := mm.(*Meter); ok {
			m.sample = nil
		}
	}
}

func withSampler(fn func() (float64, float64, error)) types.Option[types.Meter] {
	return func(mm types.Meter) {
		if m, ok := mm.(*Meter); ok {
			m.sample = fn
		}
	}
}
