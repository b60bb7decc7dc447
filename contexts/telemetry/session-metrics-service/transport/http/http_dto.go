package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type NewSessionRequest struct {
	AppName     string `json:"app_name"`
	AppVersion  string `json:"app_version"`
	DeviceID    string `json:"device_id"`
	DeviceType  string `json:"device_type"`
	DeviceModel string `json:"device_model"`
	OS          string `json:"os"`
}

type NewSessionResponse struct {
	SessionID string `json:"session_id"`
}

type Event struct {
	Type string  `json:"type"`
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

type DeathEvent struct {
	Time     float64   `json:"time"`
	Position []float64 `json:"position"`
}

type SessionMetricsRequest struct {
	StartTime          string       `json:"start_time"`
	EndTime            string       `json:"end_time,omitempty"`
	AchievementsEarned []Event      `json:"achievements_earned"`
	ProgressTimes      []Event      `json:"progress_times"`
	TerminalsScanned   []Event      `json:"terminals_scanned"`
	FPS                []int        `json:"fps"`
	Deaths             []DeathEvent `json:"deaths"`
}

type SessionMetricsResponse struct {
	Status      string `json:"status"`
	FPSCount    int    `json:"fps_count"`
	EventsCount int    `json:"events_count"`
	DeathsCount int    `json:"deaths_count"`
}

// SessionView is the listing projection: the internal identifier is
// suppressed on purpose.
type SessionView struct {
	AppName     string `json:"app_name"`
	AppVersion  string `json:"app_version"`
	DeviceID    string `json:"device_id"`
	DeviceType  string `json:"device_type"`
	DeviceModel string `json:"device_model"`
	OS          string `json:"os"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
}

type ListSessionsResponse struct {
	Metrics []SessionView `json:"metrics"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type WelcomeResponse struct {
	Message string `json:"message"`
}
