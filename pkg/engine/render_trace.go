package engine

import (
	"sync"
	"time"

	"github.com/go-drift/tinyui/pkg/core"
)

const (
	renderTraceSamplesDefault = 240
	defaultSlowPassThreshold  = 16667 * time.Microsecond
)

// RenderSample is a single traced render pass.
type RenderSample struct {
	Timestamp int64   `json:"ts"`
	Pass      string  `json:"pass"`
	Component string  `json:"component"`
	Instance  string  `json:"instance"`
	Trigger   string  `json:"trigger"`
	Slots     int     `json:"slots"`
	Passes    uint64  `json:"passes"`
	PassMs    float64 `json:"passMs"`
	Error     string  `json:"error,omitempty"`
}

// RenderTimeline is the debug server response shape.
type RenderTimeline struct {
	Samples     []RenderSample `json:"samples"`
	SlowPasses  int            `json:"slowPasses"`
	ThresholdMs float64        `json:"thresholdMs"`
}

// RenderTraceBuffer stores recent render passes in a ring buffer.
type RenderTraceBuffer struct {
	mu        sync.RWMutex
	samples   ring[RenderSample]
	slow      int
	threshold time.Duration
}

// NewRenderTraceBuffer creates a new render trace buffer.
func NewRenderTraceBuffer(capacity int, threshold time.Duration) *RenderTraceBuffer {
	if capacity <= 0 {
		capacity = renderTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultSlowPassThreshold
	}
	return &RenderTraceBuffer{
		samples:   newRing[RenderSample](capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *RenderTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples.items)
}

// Threshold returns the slow pass threshold.
func (b *RenderTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Record converts a finished pass into a sample and adds it. Its signature
// matches core.Runtime.OnRender.
func (b *RenderTraceBuffer) Record(ev core.RenderEvent) {
	sample := RenderSample{
		Timestamp: time.Now().UnixMilli(),
		Pass:      ev.Pass,
		Component: ev.Component,
		Instance:  ev.Instance,
		Trigger:   ev.Trigger.String(),
		Slots:     ev.Slots,
		Passes:    ev.Passes,
		PassMs:    durationToMillis(ev.Duration),
	}
	if ev.Err != nil {
		sample.Error = ev.Err.Error()
	}
	b.Add(sample, ev.Duration)
}

// Add records a sample and updates the slow pass count.
func (b *RenderTraceBuffer) Add(sample RenderSample, passDuration time.Duration) {
	b.mu.Lock()
	b.samples.push(sample)
	if passDuration > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *RenderTraceBuffer) Snapshot() RenderTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return RenderTimeline{
		Samples:     b.samples.ordered(),
		SlowPasses:  b.slow,
		ThresholdMs: durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
