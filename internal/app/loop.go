package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/XC-/motion"
	"github.com/XC-/motion/gattsvc"
)

// Loop is the task that owns a motion.Builder. It is the only goroutine
// touching the builder: notification status changes and periodic builds
// are both handled here.
type Loop struct {
	b       *motion.Builder
	char    motion.CharID
	period  time.Duration
	changes <-chan gattsvc.StatusChange
	log     log.FieldLogger
}

// NewLoop returns a Loop building every period and applying the status
// changes of the motion characteristic received on changes.
func NewLoop(b *motion.Builder, period time.Duration, changes <-chan gattsvc.StatusChange) *Loop {
	return &Loop{
		b:       b,
		char:    motion.MotionChar,
		period:  period,
		changes: changes,
		log:     log.WithField("component", "loop"),
	}
}

// Run initializes the builder and runs until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	t := time.NewTicker(l.period)
	defer t.Stop()
	return l.RunTicks(ctx, t.C)
}

// RunTicks is like Run but builds on every value received from ticks.
func (l *Loop) RunTicks(ctx context.Context, ticks <-chan time.Time) error {
	l.b.Init()
	l.log.Infof("motion loop started, %s", l.b.Capabilities())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-l.changes:
			l.apply(c)
		case <-ticks:
			l.drain()
			l.b.BuildAndSend()
		}
	}
}

// drain applies the status changes already queued so a build never runs
// on a stale notification flag.
func (l *Loop) drain() {
	for {
		select {
		case c := <-l.changes:
			l.apply(c)
		default:
			return
		}
	}
}

func (l *Loop) apply(c gattsvc.StatusChange) {
	if c.Char != l.char {
		l.log.Debugf("ignoring status change of %s characteristic", c.Char)
		return
	}
	l.log.Debugf("motion notification enabled=%t", c.Enabled)
	l.b.SetNotificationEnabled(c.Enabled)
}
