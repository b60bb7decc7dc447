package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "gamemetrics/contexts/telemetry/session-metrics-service/domain/errors"
	"gamemetrics/contexts/telemetry/session-metrics-service/ports"
)

type Service struct {
	Sessions ports.SessionRepository
	Events   ports.EventRepository
	Deaths   ports.DeathRepository
	Samples  ports.SampleRepository
	Health   ports.HealthChecker
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// RegisterSession creates a session record with a fresh server-issued id.
// Identical attributes submitted twice still produce two distinct sessions.
func (s Service) RegisterSession(ctx context.Context, input ports.RegistrationInput) (string, error) {
	if strings.TrimSpace(input.AppName) == "" ||
		strings.TrimSpace(input.AppVersion) == "" ||
		strings.TrimSpace(input.DeviceID) == "" ||
		strings.TrimSpace(input.DeviceType) == "" ||
		strings.TrimSpace(input.DeviceModel) == "" ||
		strings.TrimSpace(input.OS) == "" {
		return "", domainerrors.ErrInvalidRequest
	}

	sessionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return "", err
	}

	session := ports.Session{
		SessionID:   sessionID,
		AppName:     strings.TrimSpace(input.AppName),
		AppVersion:  strings.TrimSpace(input.AppVersion),
		DeviceID:    strings.TrimSpace(input.DeviceID),
		DeviceType:  strings.TrimSpace(input.DeviceType),
		DeviceModel: strings.TrimSpace(input.DeviceModel),
		OS:          strings.TrimSpace(input.OS),
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return "", err
	}

	resolveLogger(s.Logger).Info("session registered",
		"event", "session_registered",
		"module", "telemetry/session-metrics-service",
		"layer", "application",
		"session_id", sessionID,
		"app_name", session.AppName,
	)
	return sessionID, nil
}

// ApplyUpdate merges one metrics batch into storage. The session lookup
// happens before any write so an unknown id leaves every collection
// untouched. Event and death dedup is a two-step check-then-insert against
// persisted state only; duplicates inside a single batch all land, and two
// concurrent batches racing between the check and the insert can both land.
// Neither is guarded here: retries are expected to be sequential per session.
func (s Service) ApplyUpdate(ctx context.Context, sessionID string, batch ports.MetricsBatch) (ports.UpdateResult, error) {
	var result ports.UpdateResult
	if strings.TrimSpace(sessionID) == "" {
		return result, domainerrors.ErrInvalidRequest
	}

	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return result, err
	}
	deviceID := session.DeviceID

	inserted, err := s.insertNewEvents(ctx, sessionID, deviceID, batch.Events)
	if err != nil {
		return result, err
	}
	result.EventsCount = inserted

	inserted, err = s.insertNewDeaths(ctx, sessionID, deviceID, batch.Deaths)
	if err != nil {
		return result, err
	}
	result.DeathsCount = inserted

	if err := s.Sessions.UpdateTiming(ctx, sessionID, ports.TimingUpdate{
		StartTime: batch.StartTime,
		EndTime:   batch.EndTime,
	}); err != nil {
		return result, err
	}

	if len(batch.FPS) > 0 {
		now := s.now()
		samples := make([]ports.FpsSample, 0, len(batch.FPS))
		for _, value := range batch.FPS {
			samples = append(samples, ports.FpsSample{
				SessionID: sessionID,
				DeviceID:  deviceID,
				Time:      now,
				FPS:       value,
			})
		}
		if err := s.Samples.InsertSamples(ctx, samples); err != nil {
			return result, err
		}
		result.FPSCount = len(samples)
	}

	resolveLogger(s.Logger).Debug("metrics update applied",
		"event", "metrics_update_applied",
		"module", "telemetry/session-metrics-service",
		"layer", "application",
		"session_id", sessionID,
		"events_inserted", result.EventsCount,
		"deaths_inserted", result.DeathsCount,
		"fps_inserted", result.FPSCount,
	)
	return result, nil
}

func (s Service) ListSessions(ctx context.Context) ([]ports.Session, error) {
	return s.Sessions.List(ctx)
}

// Ping reports store liveness. Callers decide how to surface the error;
// the health endpoint turns it into a status string.
func (s Service) Ping(ctx context.Context) error {
	return s.Health.Ping(ctx)
}

func (s Service) insertNewEvents(
	ctx context.Context,
	sessionID string,
	deviceID string,
	observations []ports.EventObservation,
) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	candidates := make([]ports.EventRecord, 0, len(observations))
	keys := make([]ports.EventKey, 0, len(observations))
	for _, observation := range observations {
		record := ports.EventRecord{
			SessionID: sessionID,
			DeviceID:  deviceID,
			Category:  observation.Category,
			Name:      observation.Name,
			Time:      observation.Time,
		}
		candidates = append(candidates, record)
		keys = append(keys, record.Key())
	}

	existing, err := s.Events.ExistingEventKeys(ctx, keys)
	if err != nil {
		return 0, err
	}

	fresh := make([]ports.EventRecord, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := existing[candidate.Key()]; ok {
			continue
		}
		fresh = append(fresh, candidate)
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := s.Events.InsertEvents(ctx, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

func (s Service) insertNewDeaths(
	ctx context.Context,
	sessionID string,
	deviceID string,
	observations []ports.DeathObservation,
) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	candidates := make([]ports.DeathRecord, 0, len(observations))
	keys := make([]ports.DeathKey, 0, len(observations))
	for _, observation := range observations {
		record := ports.DeathRecord{
			SessionID: sessionID,
			DeviceID:  deviceID,
			Time:      observation.Time,
			Position:  append([]float64(nil), observation.Position...),
		}
		candidates = append(candidates, record)
		keys = append(keys, record.Key())
	}

	existing, err := s.Deaths.ExistingDeathKeys(ctx, keys)
	if err != nil {
		return 0, err
	}

	fresh := make([]ports.DeathRecord, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := existing[candidate.Key()]; ok {
			continue
		}
		fresh = append(fresh, candidate)
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := s.Deaths.InsertDeaths(ctx, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
