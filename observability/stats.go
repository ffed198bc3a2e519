// Package observability aggregates session-side dispatch telemetry.
package observability

import (
	"runtime"
	"sync/atomic"
	"time"
)

// DispatchStats is a point-in-time snapshot for the health worker and tests.
type DispatchStats struct {
	Dispatched       uint64 `json:"dispatched"`
	DuplicateDropped uint64 `json:"duplicate_dropped"`
	QueueEvictions   uint64 `json:"queue_evictions"`
	IndexRepairs     uint64 `json:"index_repairs"`
	ReconcileRuns    uint64 `json:"reconcile_runs"`
	SinkFailures     uint64 `json:"sink_failures"`
	AllocMemMb       uint64 `json:"alloc_mem_mb"`
	NumGC            uint32 `json:"num_gc"`
}

// StatsManager carries the dispatcher's atomic counters. All increment paths
// are hot, so counters are lock-free; Snapshot is approximate.
type StatsManager struct {
	dispatched       atomic.Uint64
	duplicateDropped atomic.Uint64
	queueEvictions   atomic.Uint64
	indexRepairs     atomic.Uint64
	reconcileRuns    atomic.Uint64
	sinkFailures     atomic.Uint64
	startedAt        time.Time
}

func NewStatsManager() *StatsManager {
	return &StatsManager{startedAt: time.Now().UTC()}
}

func (m *StatsManager) IncrDispatched()       { m.dispatched.Add(1) }
func (m *StatsManager) IncrDuplicateDropped() { m.duplicateDropped.Add(1) }
func (m *StatsManager) IncrQueueEvictions()   { m.queueEvictions.Add(1) }
func (m *StatsManager) IncrIndexRepairs()     { m.indexRepairs.Add(1) }
func (m *StatsManager) IncrReconcileRuns()    { m.reconcileRuns.Add(1) }
func (m *StatsManager) IncrSinkFailures()     { m.sinkFailures.Add(1) }

func (m *StatsManager) Uptime() time.Duration {
	return time.Since(m.startedAt)
}

func (m *StatsManager) Snapshot() DispatchStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return DispatchStats{
		Dispatched:       m.dispatched.Load(),
		DuplicateDropped: m.duplicateDropped.Load(),
		QueueEvictions:   m.queueEvictions.Load(),
		IndexRepairs:     m.indexRepairs.Load(),
		ReconcileRuns:    m.reconcileRuns.Load(),
		SinkFailures:     m.sinkFailures.Load(),
		AllocMemMb:       mem.Alloc / 1024 / 1024,
		NumGC:            mem.NumGC,
	}
}
