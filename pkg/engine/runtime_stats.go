package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/go-drift/tinyui/pkg/core"
)

const (
	runtimeSampleIntervalDefault = 5 * time.Second
	runtimeSampleWindowDefault   = 60 * time.Second
	runtimeSampleMinInterval     = 10 * time.Millisecond
	runtimeSampleMaxSamples      = 120
)

// RuntimeSample captures Go memory stats alongside the render runtime's
// counters at one point in time.
type RuntimeSample struct {
	Timestamp    int64  `json:"ts"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	LastPauseNs  uint64 `json:"lastPauseNs"`
	Goroutines   int    `json:"goroutines"`
	Instances    int    `json:"instances"`
	Passes       uint64 `json:"passes"`
	FailedPasses uint64 `json:"failedPasses"`
}

// RuntimeSampleBuffer stores recent runtime samples in a ring buffer.
type RuntimeSampleBuffer struct {
	mu       sync.RWMutex
	samples  ring[RuntimeSample]
	interval time.Duration
	window   time.Duration
}

// NewRuntimeSampleBuffer creates a buffer holding window's worth of samples
// taken every interval, capped at runtimeSampleMaxSamples. Zero values pick
// the defaults.
func NewRuntimeSampleBuffer(window, interval time.Duration) *RuntimeSampleBuffer {
	if interval <= 0 {
		interval = runtimeSampleIntervalDefault
	}
	interval = max(interval, runtimeSampleMinInterval)
	if window <= 0 {
		window = runtimeSampleWindowDefault
	}
	window = max(window, interval)

	capacity := min(int(window/interval), runtimeSampleMaxSamples)
	return &RuntimeSampleBuffer{
		samples:  newRing[RuntimeSample](capacity),
		interval: interval,
		window:   time.Duration(capacity) * interval,
	}
}

// Interval returns the sampling interval.
func (b *RuntimeSampleBuffer) Interval() time.Duration {
	return b.interval
}

// Window returns the history the buffer covers once full.
func (b *RuntimeSampleBuffer) Window() time.Duration {
	return b.window
}

// Add stores a runtime sample, evicting the oldest when full.
func (b *RuntimeSampleBuffer) Add(sample RuntimeSample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples.push(sample)
}

// Snapshot returns samples oldest first.
func (b *RuntimeSampleBuffer) Snapshot() []RuntimeSample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples.ordered()
}

func readRuntimeSample(rt *core.Runtime) RuntimeSample {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	sample := RuntimeSample{
		Timestamp:  time.Now().UnixMilli(),
		HeapAlloc:  mem.HeapAlloc,
		HeapInuse:  mem.HeapInuse,
		NumGC:      mem.NumGC,
		Goroutines: runtime.NumGoroutine(),
		Instances:  rt.Store().Len(),
	}
	// PauseNs is a circular buffer indexed by GC number.
	if mem.NumGC > 0 {
		sample.LastPauseNs = mem.PauseNs[(mem.NumGC+255)%256]
	}
	stats := rt.Stats()
	sample.Passes, sample.FailedPasses = stats.Passes, stats.Failed
	return sample
}

// sampleRuntime adds one sample immediately and then one per interval
// until ctx is done.
func sampleRuntime(ctx context.Context, rt *core.Runtime, buffer *RuntimeSampleBuffer) {
	buffer.Add(readRuntimeSample(rt))

	ticker := time.NewTicker(buffer.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			buffer.Add(readRuntimeSample(rt))
		case <-ctx.Done():
			return
		}
	}
}
