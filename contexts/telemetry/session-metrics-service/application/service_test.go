package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domainerrors "gamemetrics/contexts/telemetry/session-metrics-service/domain/errors"
	"gamemetrics/contexts/telemetry/session-metrics-service/ports"
)

type testSessions struct {
	sessions      map[string]ports.Session
	created       []ports.Session
	timingUpdates []ports.TimingUpdate
}

func newTestSessions(seed ...ports.Session) *testSessions {
	s := &testSessions{sessions: make(map[string]ports.Session)}
	for _, session := range seed {
		s.sessions[session.SessionID] = session
	}
	return s
}

func (s *testSessions) Create(ctx context.Context, session ports.Session) error {
	s.created = append(s.created, session)
	s.sessions[session.SessionID] = session
	return nil
}

func (s *testSessions) Get(ctx context.Context, sessionID string) (ports.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return ports.Session{}, domainerrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *testSessions) List(ctx context.Context) ([]ports.Session, error) {
	return nil, nil
}

func (s *testSessions) UpdateTiming(ctx context.Context, sessionID string, update ports.TimingUpdate) error {
	s.timingUpdates = append(s.timingUpdates, update)
	return nil
}

type testEvents struct {
	existing map[ports.EventKey]struct{}
	inserted []ports.EventRecord
	queries  [][]ports.EventKey
}

func (e *testEvents) ExistingEventKeys(ctx context.Context, keys []ports.EventKey) (map[ports.EventKey]struct{}, error) {
	e.queries = append(e.queries, keys)
	found := make(map[ports.EventKey]struct{})
	for _, key := range keys {
		if _, ok := e.existing[key]; ok {
			found[key] = struct{}{}
		}
	}
	return found, nil
}

func (e *testEvents) InsertEvents(ctx context.Context, records []ports.EventRecord) error {
	e.inserted = append(e.inserted, records...)
	return nil
}

func (e *testEvents) ListEventsBySession(ctx context.Context, sessionID string) ([]ports.EventRecord, error) {
	return nil, nil
}

type testDeaths struct {
	existing map[ports.DeathKey]struct{}
	inserted []ports.DeathRecord
}

func (d *testDeaths) ExistingDeathKeys(ctx context.Context, keys []ports.DeathKey) (map[ports.DeathKey]struct{}, error) {
	found := make(map[ports.DeathKey]struct{})
	for _, key := range keys {
		if _, ok := d.existing[key]; ok {
			found[key] = struct{}{}
		}
	}
	return found, nil
}

func (d *testDeaths) InsertDeaths(ctx context.Context, records []ports.DeathRecord) error {
	d.inserted = append(d.inserted, records...)
	return nil
}

func (d *testDeaths) ListDeathsBySession(ctx context.Context, sessionID string) ([]ports.DeathRecord, error) {
	return nil, nil
}

type testSamples struct {
	inserted []ports.FpsSample
}

func (s *testSamples) InsertSamples(ctx context.Context, samples []ports.FpsSample) error {
	s.inserted = append(s.inserted, samples...)
	return nil
}

func (s *testSamples) ListSamplesBySession(ctx context.Context, sessionID string) ([]ports.FpsSample, error) {
	return nil, nil
}

type testHealth struct {
	err error
}

func (h testHealth) Ping(ctx context.Context) error { return h.err }

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	next int
}

func (g *sequenceIDs) NewID(ctx context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("sess_%d", g.next), nil
}

func newTestService(sessions *testSessions, events *testEvents, deaths *testDeaths, samples *testSamples) Service {
	return Service{
		Sessions: sessions,
		Events:   events,
		Deaths:   deaths,
		Samples:  samples,
		Health:   testHealth{},
		Clock:    fixedClock{now: time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)},
		IDGen:    &sequenceIDs{},
	}
}

func registration() ports.RegistrationInput {
	return ports.RegistrationInput{
		AppName:     "Game",
		AppVersion:  "1.0",
		DeviceID:    "dev1",
		DeviceType:  "console",
		DeviceModel: "X",
		OS:          "linux",
	}
}

func TestRegisterSessionGeneratesDistinctIDs(t *testing.T) {
	sessions := newTestSessions()
	service := newTestService(sessions, &testEvents{}, &testDeaths{}, &testSamples{})
	ctx := context.Background()

	first, err := service.RegisterSession(ctx, registration())
	if err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	second, err := service.RegisterSession(ctx, registration())
	if err != nil {
		t.Fatalf("second registration failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct session ids, both were %q", first)
	}
	if len(sessions.created) != 2 {
		t.Fatalf("expected 2 persisted sessions, got %d", len(sessions.created))
	}
	if sessions.created[0].StartTime != nil || sessions.created[0].EndTime != nil {
		t.Fatalf("expected no timing data at registration")
	}
}

func TestRegisterSessionRejectsMissingAttributes(t *testing.T) {
	service := newTestService(newTestSessions(), &testEvents{}, &testDeaths{}, &testSamples{})

	input := registration()
	input.DeviceModel = "  "
	if _, err := service.RegisterSession(context.Background(), input); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func TestApplyUpdateUnknownSessionWritesNothing(t *testing.T) {
	sessions := newTestSessions()
	events := &testEvents{}
	deaths := &testDeaths{}
	samples := &testSamples{}
	service := newTestService(sessions, events, deaths, samples)

	start := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	_, err := service.ApplyUpdate(context.Background(), "missing", ports.MetricsBatch{
		StartTime: &start,
		Events:    []ports.EventObservation{{Category: ports.CategoryAchievement, Name: "first_blood", Time: 1.0}},
		Deaths:    []ports.DeathObservation{{Time: 2.0, Position: []float64{1, 2, 3}}},
		FPS:       []int{60},
	})
	if !errors.Is(err, domainerrors.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if len(events.inserted) != 0 || len(deaths.inserted) != 0 || len(samples.inserted) != 0 {
		t.Fatalf("expected no writes for unknown session")
	}
	if len(sessions.timingUpdates) != 0 {
		t.Fatalf("expected no timing update for unknown session")
	}
}

func TestApplyUpdateFiltersEventsAlreadyPersisted(t *testing.T) {
	sessions := newTestSessions(ports.Session{SessionID: "s1", DeviceID: "dev1"})
	events := &testEvents{existing: map[ports.EventKey]struct{}{
		{SessionID: "s1", Category: ports.CategoryAchievement, Name: "first_blood"}: {},
	}}
	service := newTestService(sessions, events, &testDeaths{}, &testSamples{})

	result, err := service.ApplyUpdate(context.Background(), "s1", ports.MetricsBatch{
		Events: []ports.EventObservation{
			{Category: ports.CategoryAchievement, Name: "first_blood", Time: 1.0},
			{Category: ports.CategoryProgress, Name: "level_2", Time: 2.5},
		},
	})
	if err != nil {
		t.Fatalf("apply update failed: %v", err)
	}
	if result.EventsCount != 1 {
		t.Fatalf("expected 1 inserted event, got %d", result.EventsCount)
	}
	if len(events.inserted) != 1 || events.inserted[0].Name != "level_2" {
		t.Fatalf("expected only the unseen event to land, got %+v", events.inserted)
	}
	if len(events.queries) != 1 || len(events.queries[0]) != 2 {
		t.Fatalf("expected one batched existence check over both keys, got %+v", events.queries)
	}
	if events.inserted[0].DeviceID != "dev1" {
		t.Fatalf("expected device id stamped from session record, got %q", events.inserted[0].DeviceID)
	}
}

func TestApplyUpdateKeepsWithinBatchDuplicates(t *testing.T) {
	sessions := newTestSessions(ports.Session{SessionID: "s1", DeviceID: "dev1"})
	events := &testEvents{}
	service := newTestService(sessions, events, &testDeaths{}, &testSamples{})

	result, err := service.ApplyUpdate(context.Background(), "s1", ports.MetricsBatch{
		Events: []ports.EventObservation{
			{Category: ports.CategoryTerminal, Name: "lobby", Time: 1.0},
			{Category: ports.CategoryTerminal, Name: "lobby", Time: 4.0},
		},
	})
	if err != nil {
		t.Fatalf("apply update failed: %v", err)
	}
	// Only persisted state filters candidates; repeats inside one batch all land.
	if result.EventsCount != 2 {
		t.Fatalf("expected both in-batch duplicates inserted, got %d", result.EventsCount)
	}
}

func TestApplyUpdateDeathDedupIgnoresPosition(t *testing.T) {
	sessions := newTestSessions(ports.Session{SessionID: "s1", DeviceID: "dev1"})
	deaths := &testDeaths{existing: map[ports.DeathKey]struct{}{
		{SessionID: "s1", Time: 3.5}: {},
	}}
	service := newTestService(sessions, &testEvents{}, deaths, &testSamples{})

	result, err := service.ApplyUpdate(context.Background(), "s1", ports.MetricsBatch{
		Deaths: []ports.DeathObservation{
			{Time: 3.5, Position: []float64{9, 9, 9}},
			{Time: 7.25, Position: []float64{1, 2, 3}},
		},
	})
	if err != nil {
		t.Fatalf("apply update failed: %v", err)
	}
	if result.DeathsCount != 1 {
		t.Fatalf("expected position to be excluded from the dedup key, got %d inserts", result.DeathsCount)
	}
	if len(deaths.inserted) != 1 || deaths.inserted[0].Time != 7.25 {
		t.Fatalf("expected only the unseen death to land, got %+v", deaths.inserted)
	}
}

func TestApplyUpdateTimingPartialSet(t *testing.T) {
	sessions := newTestSessions(ports.Session{SessionID: "s1", DeviceID: "dev1"})
	service := newTestService(sessions, &testEvents{}, &testDeaths{}, &testSamples{})

	start := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	if _, err := service.ApplyUpdate(context.Background(), "s1", ports.MetricsBatch{StartTime: &start}); err != nil {
		t.Fatalf("apply update failed: %v", err)
	}
	if len(sessions.timingUpdates) != 1 {
		t.Fatalf("expected timing update to run unconditionally, got %d calls", len(sessions.timingUpdates))
	}
	update := sessions.timingUpdates[0]
	if update.StartTime == nil || update.EndTime != nil {
		t.Fatalf("expected start-only partial set, got %+v", update)
	}
}

func TestApplyUpdateStampsSamplesWithServerTime(t *testing.T) {
	sessions := newTestSessions(ports.Session{SessionID: "s1", DeviceID: "dev1"})
	samples := &testSamples{}
	service := newTestService(sessions, &testEvents{}, &testDeaths{}, samples)

	result, err := service.ApplyUpdate(context.Background(), "s1", ports.MetricsBatch{
		FPS: []int{60, 60, 60},
	})
	if err != nil {
		t.Fatalf("apply update failed: %v", err)
	}
	if result.FPSCount != 3 {
		t.Fatalf("expected 3 samples, got %d", result.FPSCount)
	}
	want := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	for _, sample := range samples.inserted {
		if !sample.Time.Equal(want) {
			t.Fatalf("expected server-assigned capture time %v, got %v", want, sample.Time)
		}
		if sample.DeviceID != "dev1" {
			t.Fatalf("expected device id from session, got %q", sample.DeviceID)
		}
	}
}

func TestApplyUpdateToleratesMissingDeviceID(t *testing.T) {
	sessions := newTestSessions(ports.Session{SessionID: "s1"})
	events := &testEvents{}
	service := newTestService(sessions, events, &testDeaths{}, &testSamples{})

	result, err := service.ApplyUpdate(context.Background(), "s1", ports.MetricsBatch{
		Events: []ports.EventObservation{{Category: ports.CategoryAchievement, Name: "first_blood", Time: 1.0}},
	})
	if err != nil {
		t.Fatalf("expected update to proceed with empty device id, got %v", err)
	}
	if result.EventsCount != 1 || events.inserted[0].DeviceID != "" {
		t.Fatalf("expected event stamped with empty device id, got %+v", events.inserted)
	}
}
