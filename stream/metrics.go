package stream

import (
	"sync/atomic"
	"time"
)

// PipelineMetrics holds counters for the runs of one pipeline.
type PipelineMetrics struct {
	name string

	// Counters (using atomic for safe concurrent updates)
	runs      atomic.Uint64
	emitted   atomic.Uint64 // values delivered to the sink
	completed atomic.Uint64 // runs that ended with OnComplete
	failed    atomic.Uint64 // runs that ended with OnError
	disposed  atomic.Uint64 // runs cancelled through their context

	totalRunTimeMs atomic.Int64
}

// NewPipelineMetrics creates a new PipelineMetrics collector.
func NewPipelineMetrics(name string) *PipelineMetrics {
	return &PipelineMetrics{name: name}
}

func (m *PipelineMetrics) IncrementRuns()      { m.runs.Add(1) }
func (m *PipelineMetrics) IncrementEmitted()   { m.emitted.Add(1) }
func (m *PipelineMetrics) IncrementCompleted() { m.completed.Add(1) }
func (m *PipelineMetrics) IncrementFailed()    { m.failed.Add(1) }
func (m *PipelineMetrics) IncrementDisposed()  { m.disposed.Add(1) }

// RecordRunTime adds d to the accumulated run time.
func (m *PipelineMetrics) RecordRunTime(d time.Duration) {
	m.totalRunTimeMs.Add(d.Milliseconds())
}

// MetricsSnapshot is a point-in-time copy of PipelineMetrics.
type MetricsSnapshot struct {
	Name           string
	Runs           uint64
	Emitted        uint64
	Completed      uint64
	Failed         uint64
	Disposed       uint64
	AvgRunTimeMs   float64
	TotalRunTimeMs int64
}

// GetMetrics returns a snapshot of the current metrics.
func (m *PipelineMetrics) GetMetrics() MetricsSnapshot {
	s := MetricsSnapshot{
		Name:           m.name,
		Runs:           m.runs.Load(),
		Emitted:        m.emitted.Load(),
		Completed:      m.completed.Load(),
		Failed:         m.failed.Load(),
		Disposed:       m.disposed.Load(),
		TotalRunTimeMs: m.totalRunTimeMs.Load(),
	}
	if s.Runs > 0 {
		s.AvgRunTimeMs = float64(s.TotalRunTimeMs) / float64(s.Runs)
	}
	return s
}
