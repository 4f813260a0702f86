package flush

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var fires int32
	d := NewDebouncer(50*time.Millisecond, func() {
		atomic.AddInt32(&fires, 1)
	})

	for i := 0; i < 10; i++ {
		d.Schedule()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fires))
	assert.False(t, d.Pending())
}

func TestDebouncerFiresAgainAfterQuietPeriod(t *testing.T) {
	var fires int32
	d := NewDebouncer(20*time.Millisecond, func() {
		atomic.AddInt32(&fires, 1)
	})

	d.Schedule()
	time.Sleep(100 * time.Millisecond)
	d.Schedule()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&fires))
}

func TestDebouncerCancel(t *testing.T) {
	var fires int32
	d := NewDebouncer(20*time.Millisecond, func() {
		atomic.AddInt32(&fires, 1)
	})

	d.Schedule()
	assert.True(t, d.Pending())
	d.Cancel()
	assert.False(t, d.Pending())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fires))
}

func TestDebouncerCloseRunsPendingFlush(t *testing.T) {
	var fires int32
	d := NewDebouncer(time.Hour, func() {
		atomic.AddInt32(&fires, 1)
	})

	d.Schedule()
	d.Close()

	// Close runs the pending flush synchronously.
	assert.Equal(t, int32(1), atomic.LoadInt32(&fires))

	// Schedules after Close are ignored.
	d.Schedule()
	assert.False(t, d.Pending())
}

func TestDebouncerCloseWithoutPending(t *testing.T) {
	var fires int32
	d := NewDebouncer(20*time.Millisecond, func() {
		atomic.AddInt32(&fires, 1)
	})

	d.Close()
	assert.Equal(t, int32(0), atomic.LoadInt32(&fires))
}
