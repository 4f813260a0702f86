package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Persistence bookkeeping
	flushCount     uint64
	flushFailures  uint64
	droppedRecords uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

// IncrementFlushes records one completed snapshot write.
func (mc *MetricsCollector) IncrementFlushes() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.flushCount++
}

// IncrementFlushFailures records a swallowed snapshot write error.
func (mc *MetricsCollector) IncrementFlushFailures() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.flushFailures++
}

// AddDroppedRecords counts records discarded during hydration because they
// failed schema validation.
func (mc *MetricsCollector) AddDroppedRecords(n int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.droppedRecords += uint64(n)
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// Uptime returns the time elapsed since the collector was created.
func (mc *MetricsCollector) Uptime() time.Duration {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return time.Since(mc.systemStartTime)
}

// FlushStats returns (completed flushes, swallowed failures, dropped records).
func (mc *MetricsCollector) FlushStats() (uint64, uint64, uint64) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.flushCount, mc.flushFailures, mc.droppedRecords
}
