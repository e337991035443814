// Package dailylog records and lists users' self-reported daily health logs.
package dailylog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/momwise/momwise/internal/apperr"
	"github.com/momwise/momwise/internal/models"
)

// List limits.
const (
	DefaultLimit = 30
	MaxLimit     = 365
)

// DateLayout is the accepted format of Input.Date.
const DateLayout = "2006-01-02"

// Store is the persistence the service needs.
type Store interface {
	InsertDailyLog(ctx context.Context, l models.DailyLog) error
	ListDailyLogs(ctx context.Context, userID string, limit int) ([]models.DailyLog, error)
}

// Input is the client-supplied body of a daily log.
type Input struct {
	Date        string   `json:"date"`
	Weight      *float64 `json:"weight,omitempty"`
	Systolic    *int     `json:"systolic,omitempty"`
	Diastolic   *int     `json:"diastolic,omitempty"`
	Mood        string   `json:"mood,omitempty"`
	WaterIntake *float64 `json:"waterIntake,omitempty"`
	Symptoms    []string `json:"symptoms,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// Validate implements validation.Validatable.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&in.Weight, validation.Min(0.0), validation.Max(400.0)),
		validation.Field(&in.Systolic, validation.Min(0), validation.Max(300)),
		validation.Field(&in.Diastolic, validation.Min(0), validation.Max(200)),
		validation.Field(&in.Mood, validation.Length(0, 64)),
		validation.Field(&in.WaterIntake, validation.Min(0.0), validation.Max(20.0)),
		validation.Field(&in.Symptoms,
			validation.Length(0, 32),
			validation.Each(validation.Required, validation.Length(1, 100))),
		validation.Field(&in.Notes, validation.Length(0, 2000)),
	)
}

// Service validates and stores daily logs.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a daily log service. A nil logger uses slog.Default().
func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Record validates in and stores it for userID, returning the new log id.
func (s *Service) Record(ctx context.Context, userID string, in Input) (string, error) {
	if userID == "" {
		return "", apperr.ErrUnauthenticated
	}
	in.Mood = strings.TrimSpace(in.Mood)
	in.Notes = strings.TrimSpace(in.Notes)
	symptoms := make([]string, 0, len(in.Symptoms))
	for _, sym := range in.Symptoms {
		symptoms = append(symptoms, strings.TrimSpace(sym))
	}
	in.Symptoms = symptoms
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}

	l := models.DailyLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		Date:        in.Date,
		Weight:      in.Weight,
		Systolic:    in.Systolic,
		Diastolic:   in.Diastolic,
		Mood:        in.Mood,
		WaterIntake: in.WaterIntake,
		Symptoms:    in.Symptoms,
		Notes:       in.Notes,
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertDailyLog(ctx, l); err != nil {
		return "", fmt.Errorf("dailylog: record: %w", err)
	}
	s.logger.Info("daily log recorded",
		slog.String("user_id", userID),
		slog.String("log_id", l.ID),
		slog.String("date", l.Date))
	return l.ID, nil
}

// List returns up to limit logs for userID, newest first. Non-positive limits
// use DefaultLimit; larger ones are capped at MaxLimit.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]models.DailyLog, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	logs, err := s.store.ListDailyLogs(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("dailylog: list: %w", err)
	}
	if logs == nil {
		logs = []models.DailyLog{}
	}
	return logs, nil
}
