package pipeline

import (
	"context"
	"sync/atomic"
	"time"
)

// Progress counts units processed across all workers
type Progress struct {
	n atomic.Int64
}

func NewProgress() *Progress {
	return &Progress{}
}

// Add records delta more processed units
func (p *Progress) Add(delta int64) {
	p.n.Add(delta)
}

// Load returns the current count
func (p *Progress) Load() int64 {
	return p.n.Load()
}

// ProgressReader is the read-only view a Monitor holds
type ProgressReader interface {
	Load() int64
}

// Monitor polls a progress counter and reports it until the total is
// reached or its context is cancelled
type Monitor struct {
	progress ProgressReader
	total    int64
	interval time.Duration
	report   ProgressFunc
}

func NewMonitor(progress ProgressReader, total int64, interval time.Duration, report ProgressFunc) *Monitor {
	return &Monitor{
		progress: progress,
		total:    total,
		interval: interval,
		report:   report,
	}
}

// Run blocks until the counter reaches the total or ctx is done. The last
// observed value is always reported once before returning.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	last := int64(-1)
	emit := func() bool {
		done := m.progress.Load()
		if done != last {
			m.report(done, m.total)
			last = done
		}
		return done >= m.total
	}

	for {
		select {
		case <-ctx.Done():
			emit()
			return
		case <-ticker.C:
			if emit() {
				return
			}
		}
	}
}

// Percent converts a progress report into a percentage
func Percent(done, total int64) float64 {
	if total <= 0 {
		return 100
	}
	return float64(done) * 100 / float64(total)
}
