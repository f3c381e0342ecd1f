// Package meter aggregates pipeline counters fed by sensors and reports them,
// alongside host CPU and memory utilisation, through the connected loggers.
package meter

import (
	"sync"
	"sync/atomic"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

// Meter holds lock-free counters keyed by metric name.
type Meter struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	counts     map[string]*atomic.Uint64
	countsLock sync.RWMutex

	percentages map[string]float64
	pctLock     sync.Mutex

	sample func() (cpuPct float64, ramPct float64, err error)

	loggers   []types.Logger
	loggersMu sync.Mutex
}

// NewMeter returns a meter with every counter in types.CounterMetrics at zero.
func NewMeter(options ...types.Option[types.Meter]) types.Meter {
	m := &Meter{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "METER",
		},
		counts:      make(map[string]*atomic.Uint64, len(types.CounterMetrics)),
		percentages: make(map[string]float64, 2),
		sample:      sampleHost,
	}
	for _, name := range types.CounterMetrics {
		m.counts[name] = new(atomic.Uint64)
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

func (m *Meter) counter(metric string) *atomic.Uint64 {
	m.countsLock.RLock()
	c, ok := m.counts[metric]
	m.countsLock.RUnlock()
	if ok {
		return c
	}

	m.countsLock.Lock()
	defer m.countsLock.Unlock()
	if c, ok = m.counts[metric]; ok {
		return c
	}
	c = new(atomic.Uint64)
	m.counts[metric] = c
	return c
}

func (m *Meter) IncrementCount(metric string) { m.counter(metric).Add(1) }

func (m *Meter) AddCount(metric string, n uint64) {
	if n == 0 {
		return
	}
	m.counter(metric).Add(n)
}

// DecrementCount never wraps below zero.
func (m *Meter) DecrementCount(metric string) {
	c := m.counter(metric)
	for {
		cur := c.Load()
		if cur == 0 {
			return
		}
		if c.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

func (m *Meter) GetMetricCount(metric string) uint64 {
	m.countsLock.RLock()
	defer m.countsLock.RUnlock()
	if c, ok := m.counts[metric]; ok {
		return c.Load()
	}
	return 0
}

func (m *Meter) SetMetricPercentage(metric string, pct float64) {
	m.pctLock.Lock()
	m.percentages[metric] = pct
	m.pctLock.Unlock()
}

func (m *Meter) GetMetricPercentage(metric string) float64 {
	m.pctLock.Lock()
	defer m.pctLock.Unlock()
	return m.percentages[metric]
}

// Snapshot copies every counter.
func (m *Meter) Snapshot() map[string]uint64 {
	m.countsLock.RLock()
	defer m.countsLock.RUnlock()
	out := make(map[string]uint64, len(m.counts))
	for name, c := range m.counts {
		out[name] = c.Load()
	}
	return out
}

func (m *Meter) GetComponentMetadata() types.ComponentMetadata {
	m.metadataLock.Lock()
	defer m.metadataLock.Unlock()
	return m.componentMetadata
}

func (m *Meter) SetComponentMetadata(name string, id string) {
	m.metadataLock.Lock()
	m.componentMetadata.Name = name
	m.componentMetadata.ID = id
	m.metadataLock.Unlock()
}
