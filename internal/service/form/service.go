package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/model/form"
	"github.com/zhouzirui/exonizer/internal/service/humanize"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSubmitDisabled  = form.ErrSubmitDisabled
	ErrTooManySessions = errors.New("too many sessions")
)

const subscriberBuffer = 16

// Observer receives service-level events, e.g. for metrics.
type Observer interface {
	InputRejected()
	SessionsActive(n int)
}

type session struct {
	mu          sync.Mutex
	id          string
	state       form.State
	createdAt   time.Time
	updatedAt   time.Time
	subscribers map[int]chan form.Snapshot
	nextSub     int
}

func (s *session) snapshot() form.Snapshot {
	return form.NewSnapshot(s.id, s.state, s.createdAt, s.updatedAt)
}

// publish fans a snapshot out to subscribers. A full subscriber loses its
// oldest pending snapshot so the latest state always gets through.
func (s *session) publish(snap form.Snapshot) {
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Service holds one form per page view and runs its request lifecycle.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	humanizer humanize.Humanizer
	observer  Observer
	ttl       time.Duration
	limit     int
	now       func() time.Time
	log       *logrus.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithTTL sets how long an idle session is kept.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.limit = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService bootstraps the in-memory form service.
func NewService(h humanize.Humanizer, opts ...Option) *Service {
	s := &Service{
		sessions:  make(map[string]*session),
		humanizer: h,
		ttl:       30 * time.Minute,
		limit:     10000,
		now:       func() time.Time { return time.Now().UTC() },
		log:       logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create provisions a session in the initial IDLE state. When the service is
// at capacity, idle sessions are swept first; ErrTooManySessions is returned
// if none could be evicted.
func (s *Service) Create(_ context.Context) (form.Snapshot, error) {
	if s.full() {
		s.Sweep()
	}

	now := s.now()
	sess := &session{
		id:          uuid.NewString(),
		createdAt:   now,
		updatedAt:   now,
		subscribers: make(map[int]chan form.Snapshot),
	}

	s.mu.Lock()
	if s.limit > 0 && len(s.sessions) >= s.limit {
		s.mu.Unlock()
		s.log.WithField("limit", s.limit).Warn("[form] session limit reached")
		return form.Snapshot{}, ErrTooManySessions
	}
	s.sessions[sess.id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.reportActive(count)
	s.log.WithField("session", sess.id).Debug("[form] session created")
	return sess.snapshot(), nil
}

// Get returns the current snapshot of a session.
func (s *Service) Get(_ context.Context, id string) (form.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return form.Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// Input applies a keystroke. accepted is false when the candidate exceeded
// the limit and the input was left unchanged.
func (s *Service) Input(_ context.Context, id, text string) (snap form.Snapshot, accepted bool, err error) {
	sess, err := s.lookup(id)
	if err != nil {
		return form.Snapshot{}, false, err
	}

	sess.mu.Lock()
	accepted = sess.state.Input(text)
	if accepted {
		sess.updatedAt = s.now()
	}
	snap = sess.snapshot()
	if accepted {
		sess.publish(snap)
	}
	sess.mu.Unlock()

	if !accepted && s.observer != nil {
		s.observer.InputRejected()
	}
	return snap, accepted, nil
}

// Submit runs one request lifecycle and returns the resolved snapshot. The
// session lock is released while the request is in flight so input events
// stay responsive. A transport-failure alert is carried by the returned and
// published snapshot only once.
func (s *Service) Submit(ctx context.Context, id string) (form.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return form.Snapshot{}, err
	}

	sess.mu.Lock()
	text, err := sess.state.BeginSubmit()
	if err != nil {
		sess.mu.Unlock()
		return form.Snapshot{}, err
	}
	sess.updatedAt = s.now()
	sess.publish(sess.snapshot())
	sess.mu.Unlock()

	// The form never cancels an in-flight request.
	result := s.humanizer.Humanize(context.WithoutCancel(ctx), text)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.state.Resolve(result)
	sess.updatedAt = s.now()
	snap := sess.snapshot()
	sess.state.TakeAlert()
	sess.publish(snap)

	s.log.WithFields(logrus.Fields{
		"session": id,
		"outcome": result.Kind.String(),
	}).Info("[form] submission resolved")
	return snap, nil
}

// Copy returns the output verbatim.
func (s *Service) Copy(_ context.Context, id string) (string, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state.Copy(), nil
}

// Subscribe streams snapshots of the session after each state change. The
// channel is closed by cancel or when the session is evicted.
func (s *Service) Subscribe(id string) (<-chan form.Snapshot, func(), error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan form.Snapshot, subscriberBuffer)

	sess.mu.Lock()
	key := sess.nextSub
	sess.nextSub++
	sess.subscribers[key] = ch
	sess.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			sess.mu.Lock()
			defer sess.mu.Unlock()
			if existing, ok := sess.subscribers[key]; ok {
				delete(sess.subscribers, key)
				close(existing)
			}
		})
	}
	return ch, cancel, nil
}

// Len reports the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL. Sessions with a
// request in flight are kept.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var evicted []*session
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := !sess.state.IsLoading && sess.updatedAt.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			evicted = append(evicted, sess)
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range evicted {
		sess.mu.Lock()
		for key, ch := range sess.subscribers {
			delete(sess.subscribers, key)
			close(ch)
		}
		sess.mu.Unlock()
	}

	if len(evicted) > 0 {
		s.log.WithField("evicted", len(evicted)).Info("[form] swept idle sessions")
	}
	s.reportActive(count)
	return len(evicted)
}

// Run sweeps on every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Service) full() bool {
	if s.limit <= 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions) >= s.limit
}

func (s *Service) lookup(id string) (*session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) reportActive(n int) {
	if s.observer != nil {
		s.observer.SessionsActive(n)
	}
}
