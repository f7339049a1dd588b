package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/XC-/motion"
	"github.com/XC-/motion/gattsvc"
)

type countSink struct {
	mu     sync.Mutex
	values [][]byte
	sent   chan struct{}
}

func newCountSink() *countSink { return &countSink{sent: make(chan struct{}, 16)} }

func (s *countSink) UpdateCharacteristic(id motion.CharID, value []byte) error {
	s.mu.Lock()
	s.values = append(s.values, value)
	s.mu.Unlock()
	s.sent <- struct{}{}
	return nil
}

func (s *countSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// harness drives a Loop with manual ticks.
type harness struct {
	ticks   chan time.Time
	changes chan gattsvc.StatusChange
	sink    *countSink
	b       *motion.Builder
	cancel  context.CancelFunc
	done    chan error
}

func startLoop(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ticks:   make(chan time.Time),
		changes: make(chan gattsvc.StatusChange, 4),
		sink:    newCountSink(),
		done:    make(chan error, 1),
	}
	var tick uint32
	h.b = motion.NewBuilder(
		motion.UseDriver(motion.DriverFunc(func(motion.Channel) motion.Axes { return motion.Axes{X: 100} })),
		motion.UseTicks(motion.TickFunc(func() uint32 { tick += 8; return tick })),
		motion.UseSink(h.sink),
	)
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	l := NewLoop(h.b, time.Hour, h.changes)
	go func() { h.done <- l.RunTicks(ctx, h.ticks) }()
	t.Cleanup(func() { cancel(); <-h.done })
	return h
}

func TestLoopDisabledByDefault(t *testing.T) {
	h := startLoop(t)
	for i := 0; i < 3; i++ {
		h.ticks <- time.Now()
	}
	// An unbuffered send only returns once the loop took the tick; one
	// more proves the previous build finished.
	h.ticks <- time.Now()
	if n := h.sink.count(); n != 0 {
		t.Errorf("sink calls: got %d want 0", n)
	}
}

func TestLoopAppliesChangeBeforeBuild(t *testing.T) {
	h := startLoop(t)
	h.ticks <- time.Now()

	h.changes <- gattsvc.StatusChange{Char: motion.MotionChar, Enabled: true}
	h.ticks <- time.Now()

	select {
	case <-h.sink.sent:
	case <-time.After(time.Second):
		t.Fatalf("no notification after enabling")
	}

	h.changes <- gattsvc.StatusChange{Char: motion.MotionChar, Enabled: false}
	h.ticks <- time.Now()
	h.ticks <- time.Now()
	if n := h.sink.count(); n != 1 {
		t.Errorf("sink calls: got %d want 1", n)
	}
}

func TestLoopIgnoresOtherCharacteristic(t *testing.T) {
	h := startLoop(t)
	h.changes <- gattsvc.StatusChange{Char: motion.CharID(5), Enabled: true}
	h.ticks <- time.Now()
	h.ticks <- time.Now()
	if n := h.sink.count(); n != 0 {
		t.Errorf("sink calls: got %d want 0", n)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	changes := make(chan gattsvc.StatusChange)
	b := motion.NewBuilder()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewLoop(b, time.Millisecond, changes).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run: got %v want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if got := b.Capabilities(); got != motion.DefaultCapabilities() {
		t.Errorf("Capabilities after Run: got %s want %s", got, motion.DefaultCapabilities())
	}
}
