package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFires(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan struct{})
	s.Schedule("ORD-1", 10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}

	assert.Eventually(t, func() bool { return s.Pending("ORD-1") == 0 },
		time.Second, 10*time.Millisecond)
}

func TestCancelStopsAllTimersForKey(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Int32
	for i := 0; i < 3; i++ {
		s.Schedule("ORD-1", 50*time.Millisecond, func() { fired.Add(1) })
	}
	s.Schedule("ORD-2", 50*time.Millisecond, func() { fired.Add(1) })

	require.Equal(t, 3, s.Pending("ORD-1"))
	s.Cancel("ORD-1")
	assert.Zero(t, s.Pending("ORD-1"))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestStopCancelsEverything(t *testing.T) {
	s := New()

	var fired atomic.Int32
	s.Schedule("ORD-1", 50*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("ORD-2", 50*time.Millisecond, func() { fired.Add(1) })
	s.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, fired.Load())
	assert.Zero(t, s.Pending("ORD-1"))
}
