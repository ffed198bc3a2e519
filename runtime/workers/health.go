package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"workchat/observability"

	"github.com/shirou/gopsutil/process"
)

// HealthWorker reports process health and dispatch counters on a ticker.
type HealthWorker struct {
	log      *slog.Logger
	stats    *observability.StatsManager
	interval time.Duration
}

func NewHealthWorker(log *slog.Logger, stats *observability.StatsManager, interval time.Duration) *HealthWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &HealthWorker{log: log, stats: stats, interval: interval}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	w.log.Info("Starting health worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			snapshot := w.stats.Snapshot()
			w.log.Info("Session health",
				"status", status,
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"dispatched", snapshot.Dispatched,
				"duplicates_dropped", snapshot.DuplicateDropped,
				"queue_evictions", snapshot.QueueEvictions,
				"index_repairs", snapshot.IndexRepairs,
				"reconcile_runs", snapshot.ReconcileRuns,
				"sink_failures", snapshot.SinkFailures,
				"uptime", w.stats.Uptime().Round(time.Second).String())
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
