package meter

import (
	"context"
	"sort"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

const defaultReportInterval = 30 * time.Second

func sampleHost() (float64, float64, error) {
	cpuPercentages, err := cpu.Percent(500*time.Millisecond, false)
	if err != nil {
		return 0, 0, err
	}
	memStats, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, err
	}
	var cpuPct float64
	if len(cpuPercentages) > 0 {
		cpuPct = cpuPercentages[0]
	}
	return cpuPct, memStats.UsedPercent, nil
}

// ReportData samples host utilisation and logs every counter once at Info.
func (m *Meter) ReportData() {
	meta := m.GetComponentMetadata()
	if m.sample != nil {
		cpuPct, ramPct, err := m.sample()
		if err != nil {
			m.NotifyLoggers(types.WarnLevel, "Host sample failed",
				"component", meta,
				"event", "ReportData",
				"result", "FAILURE",
				"error", err,
			)
		} else {
			m.SetMetricPercentage(types.MetricCurrentCpuPercentage, cpuPct)
			m.SetMetricPercentage(types.MetricCurrentRamPercentage, ramPct)
		}
	}

	snap := m.Snapshot()
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	kv := make([]interface{}, 0, 8+2*len(names))
	kv = append(kv,
		"component", meta,
		"event", "ReportData",
		types.MetricCurrentCpuPercentage, m.GetMetricPercentage(types.MetricCurrentCpuPercentage),
		types.MetricCurrentRamPercentage, m.GetMetricPercentage(types.MetricCurrentRamPercentage),
	)
	for _, name := range names {
		kv = append(kv, name, snap[name])
	}
	m.NotifyLoggers(types.InfoLevel, "Meter snapshot", kv...)
}

// Monitor reports every interval (30s when every <= 0) until ctx ends, then
// emits one final report.
func (m *Meter) Monitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = defaultReportInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.ReportData()
			return
		case <-ticker.C:
			m.ReportData()
		}
	}
}
