package sessionmetrics

import (
	"log/slog"

	httpadapter "gamemetrics/contexts/telemetry/session-metrics-service/adapters/http"
	"gamemetrics/contexts/telemetry/session-metrics-service/adapters/memory"
	"gamemetrics/contexts/telemetry/session-metrics-service/application"
	"gamemetrics/contexts/telemetry/session-metrics-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Sessions    ports.SessionRepository
	Events      ports.EventRepository
	Deaths      ports.DeathRepository
	Samples     ports.SampleRepository
	Health      ports.HealthChecker
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Sessions: deps.Sessions,
		Events:   deps.Events,
		Deaths:   deps.Deaths,
		Samples:  deps.Samples,
		Health:   deps.Health,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []ports.Session, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Sessions:    store,
		Events:      store,
		Deaths:      store,
		Samples:     store,
		Health:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
