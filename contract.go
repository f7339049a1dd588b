package motion

import (
	"errors"
	"time"
)

// A Driver reads motion sensors. Axes never fails; a driver that cannot
// read a channel returns zero axes.
type Driver interface {
	Axes(ch Channel) Axes
}

// DriverFunc is an adapter to allow the use of
// ordinary functions as Drivers. If f is a function
// with the appropriate signature, DriverFunc(f) is a
// Driver that calls f.
type DriverFunc func(ch Channel) Axes

// Axes returns f(ch).
func (f DriverFunc) Axes(ch Channel) Axes { return f(ch) }

// A TickSource is a millisecond counter that wraps at 32 bits.
type TickSource interface {
	NowMS() uint32
}

// TickFunc is an adapter to allow the use of ordinary functions as TickSources.
type TickFunc func() uint32

// NowMS returns f().
func (f TickFunc) NowMS() uint32 { return f() }

type monotonicTicks struct {
	start time.Time
}

// NewMonotonicTicks returns a TickSource counting milliseconds since the call.
func NewMonotonicTicks() TickSource {
	return &monotonicTicks{start: time.Now()}
}

func (t *monotonicTicks) NowMS() uint32 {
	return uint32(time.Since(t.start).Milliseconds())
}

// A CharID names a characteristic a Sink can update.
type CharID int

// MotionChar is the accelerometer/gyroscope notify characteristic.
const MotionChar CharID = 0

func (id CharID) String() string {
	if id == MotionChar {
		return "motion"
	}
	return "unknown"
}

// A Sink delivers characteristic values to the connected central.
// Delivery is fire-and-forget; an error only reports that the value was
// not handed off.
type Sink interface {
	UpdateCharacteristic(id CharID, value []byte) error
}

// SinkFunc is an adapter to allow the use of ordinary functions as Sinks.
type SinkFunc func(id CharID, value []byte) error

// UpdateCharacteristic returns f(id, value).
func (f SinkFunc) UpdateCharacteristic(id CharID, value []byte) error { return f(id, value) }

type multiSink []Sink

// MultiSink returns a Sink that updates every sink in order. Every sink is
// called even if an earlier one fails; the errors are joined.
func MultiSink(sinks ...Sink) Sink {
	m := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multiSink) UpdateCharacteristic(id CharID, value []byte) error {
	var errs []error
	for _, s := range m {
		if err := s.UpdateCharacteristic(id, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// discard is the Sink of a Builder created without one.
var discard = SinkFunc(func(CharID, []byte) error { return nil })

// nullDriver is the Driver of a Builder created without one.
var nullDriver = DriverFunc(func(Channel) Axes { return Axes{} })
