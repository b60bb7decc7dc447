package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gamemetrics/contexts/telemetry/session-metrics-service/application"
	domainerrors "gamemetrics/contexts/telemetry/session-metrics-service/domain/errors"
	"gamemetrics/contexts/telemetry/session-metrics-service/ports"
	httptransport "gamemetrics/contexts/telemetry/session-metrics-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) NewSessionHandler(
	ctx context.Context,
	req httptransport.NewSessionRequest,
) (httptransport.NewSessionResponse, error) {
	sessionID, err := h.Service.RegisterSession(ctx, ports.RegistrationInput{
		AppName:     req.AppName,
		AppVersion:  req.AppVersion,
		DeviceID:    req.DeviceID,
		DeviceType:  req.DeviceType,
		DeviceModel: req.DeviceModel,
		OS:          req.OS,
	})
	if err != nil {
		return httptransport.NewSessionResponse{}, err
	}
	return httptransport.NewSessionResponse{SessionID: sessionID}, nil
}

func (h Handler) UpdateMetricsHandler(
	ctx context.Context,
	sessionID string,
	req httptransport.SessionMetricsRequest,
) (httptransport.SessionMetricsResponse, error) {
	batch := ports.MetricsBatch{
		FPS: append([]int(nil), req.FPS...),
	}

	startTime, ok, err := parseOptionalTime(req.StartTime)
	if err != nil || !ok {
		return httptransport.SessionMetricsResponse{}, domainerrors.ErrInvalidRequest
	}
	batch.StartTime = &startTime

	if ts, ok, err := parseOptionalTime(req.EndTime); err != nil {
		return httptransport.SessionMetricsResponse{}, domainerrors.ErrInvalidRequest
	} else if ok {
		batch.EndTime = &ts
	}

	// The wire `type` field on each event is accepted but not trusted; the
	// list an event arrives in decides its category.
	batch.Events = append(batch.Events, taggedObservations(ports.CategoryAchievement, req.AchievementsEarned)...)
	batch.Events = append(batch.Events, taggedObservations(ports.CategoryProgress, req.ProgressTimes)...)
	batch.Events = append(batch.Events, taggedObservations(ports.CategoryTerminal, req.TerminalsScanned)...)

	for _, death := range req.Deaths {
		batch.Deaths = append(batch.Deaths, ports.DeathObservation{
			Time:     death.Time,
			Position: append([]float64(nil), death.Position...),
		})
	}

	result, err := h.Service.ApplyUpdate(ctx, sessionID, batch)
	if err != nil {
		return httptransport.SessionMetricsResponse{}, err
	}
	return httptransport.SessionMetricsResponse{
		Status:      "ok",
		FPSCount:    result.FPSCount,
		EventsCount: result.EventsCount,
		DeathsCount: result.DeathsCount,
	}, nil
}

func (h Handler) ListSessionsHandler(ctx context.Context) (httptransport.ListSessionsResponse, error) {
	sessions, err := h.Service.ListSessions(ctx)
	if err != nil {
		return httptransport.ListSessionsResponse{}, err
	}

	resp := httptransport.ListSessionsResponse{
		Metrics: make([]httptransport.SessionView, 0, len(sessions)),
	}
	for _, session := range sessions {
		view := httptransport.SessionView{
			AppName:     session.AppName,
			AppVersion:  session.AppVersion,
			DeviceID:    session.DeviceID,
			DeviceType:  session.DeviceType,
			DeviceModel: session.DeviceModel,
			OS:          session.OS,
		}
		if session.StartTime != nil {
			view.StartTime = session.StartTime.UTC().Format(time.RFC3339)
		}
		if session.EndTime != nil {
			view.EndTime = session.EndTime.UTC().Format(time.RFC3339)
		}
		resp.Metrics = append(resp.Metrics, view)
	}
	return resp, nil
}

// HealthHandler never returns an error: store failures become a status
// string so the transport layer always has a well-formed body to write.
func (h Handler) HealthHandler(ctx context.Context) httptransport.HealthResponse {
	if err := h.Service.Ping(ctx); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("health ping failed",
				"event", "health_ping_failed",
				"module", "telemetry/session-metrics-service",
				"layer", "adapters/http",
				"error", err.Error(),
			)
		}
		return httptransport.HealthResponse{Status: "error"}
	}
	return httptransport.HealthResponse{Status: "ok"}
}

func taggedObservations(category string, events []httptransport.Event) []ports.EventObservation {
	observations := make([]ports.EventObservation, 0, len(events))
	for _, event := range events {
		observations = append(observations, ports.EventObservation{
			Category: category,
			Name:     event.Name,
			Time:     event.Time,
		})
	}
	return observations
}

func parseOptionalTime(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return ts.UTC(), true, nil
}
