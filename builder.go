package motion

import (
	log "github.com/sirupsen/logrus"
)

// A Builder samples the motion sensors and forwards the encoded record.
// Builders are not safe for concurrent use; the task loop that owns one
// makes every call.
type Builder struct {
	driver Driver
	ticks  TickSource
	sink   Sink
	probe  func() Capabilities
	char   CharID
	log    log.FieldLogger

	caps   Capabilities
	notify bool

	accel Axes
	gyro  Axes // scaled
	mag   Axes
	last  Payload
}

// NewBuilder creates a Builder with the specified options.
// The Builder reports no sensors until Init is called.
// See also Builder.Option.
func NewBuilder(opts ...option) *Builder {
	b := &Builder{
		driver: nullDriver,
		ticks:  NewMonotonicTicks(),
		sink:   discard,
		probe:  DefaultCapabilities,
		char:   MotionChar,
		log:    log.WithField("component", "motion"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type option func(*Builder) option

// Option sets the options specified.
// It returns an option to restore the last arg's previous value.
func (b *Builder) Option(opts ...option) (prev option) {
	for _, opt := range opts {
		prev = opt(b)
	}
	return prev
}

// UseDriver sets the sensor driver read on every build.
func UseDriver(d Driver) option {
	return func(b *Builder) option {
		prev := b.driver
		b.driver = d
		return UseDriver(prev)
	}
}

// UseTicks sets the millisecond tick source of the timestamp field.
func UseTicks(t TickSource) option {
	return func(b *Builder) option {
		prev := b.ticks
		b.ticks = t
		return UseTicks(prev)
	}
}

// UseSink sets the sink receiving the record while notifications are enabled.
func UseSink(s Sink) option {
	return func(b *Builder) option {
		prev := b.sink
		b.sink = s
		return UseSink(prev)
	}
}

// UseProbe sets the function Init calls to discover the sensors present.
func UseProbe(f func() Capabilities) option {
	return func(b *Builder) option {
		prev := b.probe
		b.probe = f
		return UseProbe(prev)
	}
}

// UseCharacteristic sets the characteristic the record is sent to.
func UseCharacteristic(id CharID) option {
	return func(b *Builder) option {
		prev := b.char
		b.char = id
		return UseCharacteristic(prev)
	}
}

// UseLogger sets the logger of diagnostic messages.
func UseLogger(l log.FieldLogger) option {
	return func(b *Builder) option {
		prev := b.log
		b.log = l
		return UseLogger(prev)
	}
}

// Init resets the builder and discovers the sensors present.
func (b *Builder) Init() {
	b.caps = Capabilities{}
	b.SetNotificationEnabled(false)

	b.accel, b.gyro, b.mag = Axes{}, Axes{}, Axes{}
	b.last = Payload{}

	b.caps = b.probe()
	b.log.Debugf("motion capabilities: %s", b.caps)
}

// SetNotificationEnabled records whether the central wants notifications.
func (b *Builder) SetNotificationEnabled(enabled bool) {
	b.notify = enabled
}

// NotificationEnabled reports whether BuildAndSend forwards the record.
func (b *Builder) NotificationEnabled() bool { return b.notify }

// Capabilities returns the sensors discovered by Init.
func (b *Builder) Capabilities() Capabilities { return b.caps }

// Magnetometer returns the last magnetometer reading. It is sampled when
// present but never sent.
func (b *Builder) Magnetometer() Axes { return b.mag }

// Last returns the most recently built record.
func (b *Builder) Last() Payload { return b.last }

// BuildAndSend reads the sensors, encodes a new record and, if
// notifications are enabled, hands it to the sink.
func (b *Builder) BuildAndSend() Payload {
	s := b.handleSensors()

	p := Encode(b.last, b.ticks.NowMS(), s)
	b.last = p

	if !b.notify {
		b.log.Debugln("motion: can't inform client, notification disabled")
		return p
	}

	b.log.Debugf("motion: notify client with new value %s", p)
	value := p
	if err := b.sink.UpdateCharacteristic(b.char, value[:]); err != nil {
		b.log.Warnf("motion: update %s characteristic: %v", b.char, err)
	}
	return p
}

// handleSensors reads every present sensor into the builder state.
// Gyro axes are scaled from the value just read, never from b.gyro.
func (b *Builder) handleSensors() Sample {
	var s Sample
	if b.caps.Accelerometer {
		b.accel = b.driver.Axes(Accelero)
		s.Accel = &b.accel
		b.log.Debugf("motion: acc %s", b.accel)
	}
	if b.caps.Gyroscope {
		raw := b.driver.Axes(Gyro)
		b.gyro = ScaleGyro(raw)
		s.Gyro = &b.gyro
		b.log.Debugf("motion: gyro %s", b.gyro)
	}
	if b.caps.Magnetometer {
		b.mag = b.driver.Axes(Magneto)
		s.Mag = &b.mag
	}
	return s
}
