package gattsvc

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/paypal/gatt"
	log "github.com/sirupsen/logrus"

	"github.com/XC-/motion"
)

var (
	// ErrNotSubscribed is returned by UpdateCharacteristic while no central
	// has enabled notifications.
	ErrNotSubscribed = errors.New("central stopped notifications")

	// ErrUnknownCharacteristic is returned when updating a characteristic
	// the sink does not serve.
	ErrUnknownCharacteristic = errors.New("unknown characteristic")

	// ErrPayloadTooLong is returned when a value does not fit in one notification.
	ErrPayloadTooLong = errors.New("value exceeds notification capacity")
)

// DefaultPollInterval is how often a NotifySink checks whether the
// central stopped notifications.
const DefaultPollInterval = 100 * time.Millisecond

// A StatusChange reports that the central enabled or disabled
// notifications on a characteristic.
type StatusChange struct {
	Char    motion.CharID
	Enabled bool
}

// A NotifySink is a motion.Sink writing to the notifier of the
// subscribed central. It serves a single characteristic and reports
// subscription changes on its status channel.
type NotifySink struct {
	char    motion.CharID
	changes chan<- StatusChange
	poll    time.Duration
	log     log.FieldLogger
	closed  chan struct{}
	once    sync.Once

	mu sync.RWMutex
	n  gatt.Notifier
}

// NewNotifySink creates a sink for characteristic id. Subscription changes
// are sent on changes, which the owner of the motion.Builder must drain.
func NewNotifySink(id motion.CharID, changes chan<- StatusChange) *NotifySink {
	return &NotifySink{
		char:    id,
		changes: changes,
		poll:    DefaultPollInterval,
		log:     log.WithField("component", "gattsvc"),
		closed:  make(chan struct{}),
	}
}

// Close stops s from reporting status changes. Subscription changes
// arriving afterwards are logged and dropped.
func (s *NotifySink) Close() {
	s.once.Do(func() { close(s.closed) })
}

// SetLogger replaces the logger of s.
func (s *NotifySink) SetLogger(l log.FieldLogger) { s.log = l }

// SetPollInterval sets how often s checks for unsubscription.
// It must be called before the sink is served.
func (s *NotifySink) SetPollInterval(d time.Duration) { s.poll = d }

// ServeNotify implements gatt.NotifyHandler.
func (s *NotifySink) ServeNotify(r gatt.Request, n gatt.Notifier) {
	if r.Central != nil {
		s.log.Infof("central %s enabled %s notifications", r.Central.ID(), s.char)
	} else {
		s.log.Infof("%s notifications enabled", s.char)
	}
	s.attach(n)
	s.report(StatusChange{Char: s.char, Enabled: true})
	go s.watch(n)
}

// Subscribed reports whether a central currently receives notifications.
func (s *NotifySink) Subscribed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n != nil
}

// UpdateCharacteristic implements motion.Sink.
func (s *NotifySink) UpdateCharacteristic(id motion.CharID, value []byte) error {
	if id != s.char {
		return fmt.Errorf("%w: %s", ErrUnknownCharacteristic, id)
	}

	s.mu.RLock()
	n := s.n
	s.mu.RUnlock()

	if n == nil || n.Done() {
		return ErrNotSubscribed
	}
	if c := n.Cap(); len(value) > c {
		return fmt.Errorf("%w: %d bytes, cap %d", ErrPayloadTooLong, len(value), c)
	}
	if _, err := n.Write(value); err != nil {
		return fmt.Errorf("notify %s: %w", s.char, err)
	}
	return nil
}

func (s *NotifySink) attach(n gatt.Notifier) {
	s.mu.Lock()
	s.n = n
	s.mu.Unlock()
}

// detach clears n if it is still the current notifier.
func (s *NotifySink) detach(n gatt.Notifier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n != n {
		return false
	}
	s.n = nil
	return true
}

// watch waits until the central stops notifications on n.
func (s *NotifySink) watch(n gatt.Notifier) {
	t := time.NewTicker(s.poll)
	defer t.Stop()
	for !n.Done() {
		select {
		case <-t.C:
		case <-s.closed:
			s.detach(n)
			return
		}
	}
	if !s.detach(n) {
		// A newer subscription replaced n.
		return
	}
	s.log.Infof("%s notifications disabled", s.char)
	s.report(StatusChange{Char: s.char, Enabled: false})
}

func (s *NotifySink) report(c StatusChange) {
	select {
	case <-s.closed:
		s.log.Debugf("sink closed, dropping %s enabled=%t", c.Char, c.Enabled)
		return
	default:
	}
	select {
	case s.changes <- c:
	case <-s.closed:
		s.log.Debugf("sink closed, dropping %s enabled=%t", c.Char, c.Enabled)
	}
}
