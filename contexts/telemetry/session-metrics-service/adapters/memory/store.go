package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "gamemetrics/contexts/telemetry/session-metrics-service/domain/errors"
	"gamemetrics/contexts/telemetry/session-metrics-service/ports"
)

// Store keeps the four collections in process memory. The mutex makes each
// repository call atomic, but the reconciler's check-then-insert sequence
// still spans multiple calls, same as the database-backed adapter.
type Store struct {
	mu sync.RWMutex

	sessionsByID map[string]ports.Session
	sessionOrder []string

	events    []ports.EventRecord
	eventKeys map[ports.EventKey]struct{}

	deaths    []ports.DeathRecord
	deathKeys map[ports.DeathKey]struct{}

	samples []ports.FpsSample

	sequence uint64
}

func NewStore(seed []ports.Session) *Store {
	store := &Store{
		sessionsByID: make(map[string]ports.Session),
		eventKeys:    make(map[ports.EventKey]struct{}),
		deathKeys:    make(map[ports.DeathKey]struct{}),
	}
	for _, session := range seed {
		store.sessionsByID[session.SessionID] = session
		store.sessionOrder = append(store.sessionOrder, session.SessionID)
	}
	return store
}

func (s *Store) Create(ctx context.Context, session ports.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessionsByID[session.SessionID]; ok {
		return domainerrors.ErrConflict
	}
	s.sessionsByID[session.SessionID] = session
	s.sessionOrder = append(s.sessionOrder, session.SessionID)
	return nil
}

func (s *Store) Get(ctx context.Context, sessionID string) (ports.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessionsByID[sessionID]
	if !ok {
		return ports.Session{}, domainerrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) List(ctx context.Context) ([]ports.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Session, 0, len(s.sessionOrder))
	for _, sessionID := range s.sessionOrder {
		items = append(items, s.sessionsByID[sessionID])
	}
	return items, nil
}

func (s *Store) UpdateTiming(ctx context.Context, sessionID string, update ports.TimingUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.IsEmpty() {
		return nil
	}
	session, ok := s.sessionsByID[sessionID]
	if !ok {
		return domainerrors.ErrSessionNotFound
	}
	if update.StartTime != nil {
		ts := update.StartTime.UTC()
		session.StartTime = &ts
	}
	if update.EndTime != nil {
		ts := update.EndTime.UTC()
		session.EndTime = &ts
	}
	s.sessionsByID[sessionID] = session
	return nil
}

func (s *Store) ExistingEventKeys(ctx context.Context, keys []ports.EventKey) (map[ports.EventKey]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[ports.EventKey]struct{})
	for _, key := range keys {
		if _, ok := s.eventKeys[key]; ok {
			found[key] = struct{}{}
		}
	}
	return found, nil
}

func (s *Store) InsertEvents(ctx context.Context, records []ports.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		s.events = append(s.events, record)
		s.eventKeys[record.Key()] = struct{}{}
	}
	return nil
}

func (s *Store) ListEventsBySession(ctx context.Context, sessionID string) ([]ports.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.EventRecord, 0)
	for _, record := range s.events {
		if record.SessionID == sessionID {
			items = append(items, record)
		}
	}
	return items, nil
}

func (s *Store) ExistingDeathKeys(ctx context.Context, keys []ports.DeathKey) (map[ports.DeathKey]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[ports.DeathKey]struct{})
	for _, key := range keys {
		if _, ok := s.deathKeys[key]; ok {
			found[key] = struct{}{}
		}
	}
	return found, nil
}

func (s *Store) InsertDeaths(ctx context.Context, records []ports.DeathRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		s.deaths = append(s.deaths, record)
		s.deathKeys[record.Key()] = struct{}{}
	}
	return nil
}

func (s *Store) ListDeathsBySession(ctx context.Context, sessionID string) ([]ports.DeathRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.DeathRecord, 0)
	for _, record := range s.deaths {
		if record.SessionID == sessionID {
			items = append(items, record)
		}
	}
	return items, nil
}

func (s *Store) InsertSamples(ctx context.Context, samples []ports.FpsSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = append(s.samples, samples...)
	return nil
}

func (s *Store) ListSamplesBySession(ctx context.Context, sessionID string) ([]ports.FpsSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.FpsSample, 0)
	for _, sample := range s.samples {
		if sample.SessionID == sessionID {
			items = append(items, sample)
		}
	}
	return items, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) NewID(ctx context.Context) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("sess_%d", n), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.SessionRepository = (*Store)(nil)
var _ ports.EventRepository = (*Store)(nil)
var _ ports.DeathRepository = (*Store)(nil)
var _ ports.SampleRepository = (*Store)(nil)
var _ ports.HealthChecker = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
