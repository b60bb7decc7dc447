package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "gamemetrics/contexts/telemetry/session-metrics-service/domain/errors"
	"gamemetrics/contexts/telemetry/session-metrics-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Create(ctx context.Context, session ports.Session) error {
	row := sessionModelFromEntity(session)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return err
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, sessionID string) (ports.Session, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Session{}, domainerrors.ErrSessionNotFound
		}
		return ports.Session{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) List(ctx context.Context) ([]ports.Session, error) {
	var rows []sessionModel
	if err := r.db.WithContext(ctx).
		Order("session_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.Session, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateTiming(ctx context.Context, sessionID string, update ports.TimingUpdate) error {
	set := make(map[string]any)
	if update.StartTime != nil {
		set["start_time"] = update.StartTime.UTC()
	}
	if update.EndTime != nil {
		set["end_time"] = update.EndTime.UTC()
	}
	if len(set) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Updates(set)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) ExistingEventKeys(ctx context.Context, keys []ports.EventKey) (map[ports.EventKey]struct{}, error) {
	found := make(map[ports.EventKey]struct{})
	if len(keys) == 0 {
		return found, nil
	}

	conditions := r.db.Where(
		"session_id = ? AND category = ? AND name = ?",
		keys[0].SessionID, keys[0].Category, keys[0].Name,
	)
	for _, key := range keys[1:] {
		conditions = conditions.Or(
			"session_id = ? AND category = ? AND name = ?",
			key.SessionID, key.Category, key.Name,
		)
	}

	var rows []eventModel
	if err := r.db.WithContext(ctx).
		Model(&eventModel{}).
		Select("session_id", "category", "name").
		Where(conditions).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		found[ports.EventKey{
			SessionID: row.SessionID,
			Category:  row.Category,
			Name:      row.Name,
		}] = struct{}{}
	}
	return found, nil
}

func (r *Repository) InsertEvents(ctx context.Context, records []ports.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]eventModel, 0, len(records))
	for _, record := range records {
		rows = append(rows, eventModel{
			EventID:    uuid.NewString(),
			SessionID:  record.SessionID,
			DeviceID:   record.DeviceID,
			Category:   record.Category,
			Name:       record.Name,
			OccurredAt: record.Time,
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) ListEventsBySession(ctx context.Context, sessionID string) ([]ports.EventRecord, error) {
	var rows []eventModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Order("occurred_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.EventRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.EventRecord{
			SessionID: row.SessionID,
			DeviceID:  row.DeviceID,
			Category:  row.Category,
			Name:      row.Name,
			Time:      row.OccurredAt,
		})
	}
	return items, nil
}

func (r *Repository) ExistingDeathKeys(ctx context.Context, keys []ports.DeathKey) (map[ports.DeathKey]struct{}, error) {
	found := make(map[ports.DeathKey]struct{})
	if len(keys) == 0 {
		return found, nil
	}

	conditions := r.db.Where(
		"session_id = ? AND occurred_at = ?",
		keys[0].SessionID, keys[0].Time,
	)
	for _, key := range keys[1:] {
		conditions = conditions.Or(
			"session_id = ? AND occurred_at = ?",
			key.SessionID, key.Time,
		)
	}

	var rows []deathModel
	if err := r.db.WithContext(ctx).
		Model(&deathModel{}).
		Select("session_id", "occurred_at").
		Where(conditions).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		found[ports.DeathKey{
			SessionID: row.SessionID,
			Time:      row.OccurredAt,
		}] = struct{}{}
	}
	return found, nil
}

func (r *Repository) InsertDeaths(ctx context.Context, records []ports.DeathRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]deathModel, 0, len(records))
	for _, record := range records {
		rows = append(rows, deathModel{
			DeathID:    uuid.NewString(),
			SessionID:  record.SessionID,
			DeviceID:   record.DeviceID,
			OccurredAt: record.Time,
			Position:   append([]float64(nil), record.Position...),
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) ListDeathsBySession(ctx context.Context, sessionID string) ([]ports.DeathRecord, error) {
	var rows []deathModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Order("occurred_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.DeathRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.DeathRecord{
			SessionID: row.SessionID,
			DeviceID:  row.DeviceID,
			Time:      row.OccurredAt,
			Position:  append([]float64(nil), row.Position...),
		})
	}
	return items, nil
}

func (r *Repository) InsertSamples(ctx context.Context, samples []ports.FpsSample) error {
	if len(samples) == 0 {
		return nil
	}
	rows := make([]fpsSampleModel, 0, len(samples))
	for _, sample := range samples {
		rows = append(rows, fpsSampleModel{
			SampleID:   uuid.NewString(),
			SessionID:  sample.SessionID,
			DeviceID:   sample.DeviceID,
			CapturedAt: sample.Time.UTC(),
			FPS:        sample.FPS,
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) ListSamplesBySession(ctx context.Context, sessionID string) ([]ports.FpsSample, error) {
	var rows []fpsSampleModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Order("captured_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.FpsSample, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.FpsSample{
			SessionID: row.SessionID,
			DeviceID:  row.DeviceID,
			Time:      row.CapturedAt.UTC(),
			FPS:       row.FPS,
		})
	}
	return items, nil
}

type sessionModel struct {
	SessionID   string     `gorm:"column:session_id;primaryKey"`
	AppName     string     `gorm:"column:app_name"`
	AppVersion  string     `gorm:"column:app_version"`
	DeviceID    string     `gorm:"column:device_id"`
	DeviceType  string     `gorm:"column:device_type"`
	DeviceModel string     `gorm:"column:device_model"`
	OS          string     `gorm:"column:os"`
	StartTime   *time.Time `gorm:"column:start_time"`
	EndTime     *time.Time `gorm:"column:end_time"`
}

func (sessionModel) TableName() string {
	return "sessions"
}

func sessionModelFromEntity(item ports.Session) sessionModel {
	return sessionModel{
		SessionID:   strings.TrimSpace(item.SessionID),
		AppName:     strings.TrimSpace(item.AppName),
		AppVersion:  strings.TrimSpace(item.AppVersion),
		DeviceID:    strings.TrimSpace(item.DeviceID),
		DeviceType:  strings.TrimSpace(item.DeviceType),
		DeviceModel: strings.TrimSpace(item.DeviceModel),
		OS:          strings.TrimSpace(item.OS),
		StartTime:   normalizeOptionalTime(item.StartTime),
		EndTime:     normalizeOptionalTime(item.EndTime),
	}
}

func (m sessionModel) toEntity() ports.Session {
	return ports.Session{
		SessionID:   m.SessionID,
		AppName:     m.AppName,
		AppVersion:  m.AppVersion,
		DeviceID:    m.DeviceID,
		DeviceType:  m.DeviceType,
		DeviceModel: m.DeviceModel,
		OS:          m.OS,
		StartTime:   normalizeOptionalTime(m.StartTime),
		EndTime:     normalizeOptionalTime(m.EndTime),
	}
}

type eventModel struct {
	EventID    string  `gorm:"column:event_id;primaryKey"`
	SessionID  string  `gorm:"column:session_id"`
	DeviceID   string  `gorm:"column:device_id"`
	Category   string  `gorm:"column:category"`
	Name       string  `gorm:"column:name"`
	OccurredAt float64 `gorm:"column:occurred_at"`
}

func (eventModel) TableName() string {
	return "events"
}

type deathModel struct {
	DeathID    string    `gorm:"column:death_id;primaryKey"`
	SessionID  string    `gorm:"column:session_id"`
	DeviceID   string    `gorm:"column:device_id"`
	OccurredAt float64   `gorm:"column:occurred_at"`
	Position   []float64 `gorm:"column:position;type:float8[]"`
}

func (deathModel) TableName() string {
	return "deaths"
}

type fpsSampleModel struct {
	SampleID   string    `gorm:"column:sample_id;primaryKey"`
	SessionID  string    `gorm:"column:session_id"`
	DeviceID   string    `gorm:"column:device_id"`
	CapturedAt time.Time `gorm:"column:captured_at"`
	FPS        int       `gorm:"column:fps"`
}

func (fpsSampleModel) TableName() string {
	return "fps_data"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.SessionRepository = (*Repository)(nil)
var _ ports.EventRepository = (*Repository)(nil)
var _ ports.DeathRepository = (*Repository)(nil)
var _ ports.SampleRepository = (*Repository)(nil)
