// Package performance provides lightweight operation tracking with
// aggregated duration metrics per operation name.
package performance

import (
	"sync"
	"time"
)

// Marker records the timing of one tracked operation.
type Marker struct {
	Operation string         `json:"operation"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Metadata  map[string]any `json:"metadata,omitempty"`

	tracker *Tracker
	done    bool
}

// Tracker aggregates markers into per-operation statistics.
type Tracker struct {
	mu      sync.RWMutex
	stats   map[string]*OperationStats
	started time.Time
}

// OperationStats summarizes the completed markers for one operation name.
type OperationStats struct {
	Count         int64         `json:"count"`
	Failures      int64         `json:"failures"`
	TotalDuration time.Duration `json:"totalDuration"`
	MaxDuration   time.Duration `json:"maxDuration"`
}

// NewTracker creates a performance tracker.
func NewTracker() *Tracker {
	return &Tracker{
		stats:   make(map[string]*OperationStats),
		started: time.Now(),
	}
}

// StartOperation begins tracking a new operation marker.
func (t *Tracker) StartOperation(operation string) *Marker {
	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
		tracker:   t,
	}
}

// SetSuccess marks whether the operation succeeded.
func (m *Marker) SetSuccess(success bool) *Marker {
	m.Success = success
	return m
}

// SetMetadata attaches a key/value pair to the marker.
func (m *Marker) SetMetadata(key string, value any) *Marker {
	m.Metadata[key] = value
	return m
}

// Complete finalizes the marker and folds it into the tracker stats.
// Calling Complete twice is harmless.
func (m *Marker) Complete() {
	if m.done || m.tracker == nil {
		return
	}
	m.done = true
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)

	m.tracker.mu.Lock()
	defer m.tracker.mu.Unlock()

	s, ok := m.tracker.stats[m.Operation]
	if !ok {
		s = &OperationStats{}
		m.tracker.stats[m.Operation] = s
	}
	s.Count++
	if !m.Success {
		s.Failures++
	}
	s.TotalDuration += m.Duration
	if m.Duration > s.MaxDuration {
		s.MaxDuration = m.Duration
	}
}

// Stats returns a snapshot of per-operation statistics.
func (t *Tracker) Stats() map[string]OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]OperationStats, len(t.stats))
	for op, s := range t.stats {
		out[op] = *s
	}
	return out
}

// Uptime reports how long the tracker has been running.
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
