package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Session is one played game instance. Timing fields are set by later
// metric updates, never at registration.
type Session struct {
	SessionID   string
	AppName     string
	AppVersion  string
	DeviceID    string
	DeviceType  string
	DeviceModel string
	OS          string
	StartTime   *time.Time
	EndTime     *time.Time
}

const (
	CategoryAchievement = "achievement"
	CategoryProgress    = "progress"
	CategoryTerminal    = "terminal"
)

// EventObservation is a client-reported occurrence. Category comes from
// which list of the update batch the event arrived in.
type EventObservation struct {
	Category string
	Name     string
	Time     float64
}

type EventRecord struct {
	SessionID string
	DeviceID  string
	Category  string
	Name      string
	Time      float64
}

func (r EventRecord) Key() EventKey {
	return EventKey{
		SessionID: r.SessionID,
		Category:  r.Category,
		Name:      r.Name,
	}
}

// EventKey is the dedup identity of an event. Recorded time is excluded:
// a repeated (session, category, name) triple is the same event.
type EventKey struct {
	SessionID string
	Category  string
	Name      string
}

type DeathObservation struct {
	Time     float64
	Position []float64
}

type DeathRecord struct {
	SessionID string
	DeviceID  string
	Time      float64
	Position  []float64
}

func (r DeathRecord) Key() DeathKey {
	return DeathKey{
		SessionID: r.SessionID,
		Time:      r.Time,
	}
}

// DeathKey is the dedup identity of a death. Position is payload only.
type DeathKey struct {
	SessionID string
	Time      float64
}

// FpsSample carries a server-assigned capture time. Samples are append-only
// and never deduplicated.
type FpsSample struct {
	SessionID string
	DeviceID  string
	Time      time.Time
	FPS       int
}

// TimingUpdate is a partial set: nil fields stay untouched in storage.
type TimingUpdate struct {
	StartTime *time.Time
	EndTime   *time.Time
}

func (u TimingUpdate) IsEmpty() bool {
	return u.StartTime == nil && u.EndTime == nil
}

type MetricsBatch struct {
	StartTime *time.Time
	EndTime   *time.Time
	Events    []EventObservation
	Deaths    []DeathObservation
	FPS       []int
}

type UpdateResult struct {
	FPSCount    int
	EventsCount int
	DeathsCount int
}

type RegistrationInput struct {
	AppName     string
	AppVersion  string
	DeviceID    string
	DeviceType  string
	DeviceModel string
	OS          string
}

type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	List(ctx context.Context) ([]Session, error)
	UpdateTiming(ctx context.Context, sessionID string, update TimingUpdate) error
}

type EventRepository interface {
	// ExistingEventKeys answers which of the candidate keys are already
	// persisted, in a single batched query.
	ExistingEventKeys(ctx context.Context, keys []EventKey) (map[EventKey]struct{}, error)
	InsertEvents(ctx context.Context, records []EventRecord) error
	ListEventsBySession(ctx context.Context, sessionID string) ([]EventRecord, error)
}

type DeathRepository interface {
	ExistingDeathKeys(ctx context.Context, keys []DeathKey) (map[DeathKey]struct{}, error)
	InsertDeaths(ctx context.Context, records []DeathRecord) error
	ListDeathsBySession(ctx context.Context, sessionID string) ([]DeathRecord, error)
}

type SampleRepository interface {
	InsertSamples(ctx context.Context, samples []FpsSample) error
	ListSamplesBySession(ctx context.Context, sessionID string) ([]FpsSample, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}
