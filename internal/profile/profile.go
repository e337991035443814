// Package profile reads and updates users' pregnancy profiles.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/momwise/momwise/internal/apperr"
	"github.com/momwise/momwise/internal/models"
)

// DateLayout is the format of every profile date.
const DateLayout = "2006-01-02"

// Store is the persistence the service needs.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p models.Profile) error
}

// View is a stored profile plus the pregnancy week derived from it.
type View struct {
	models.Profile
	// CurrentWeek is zero when the last period date is unknown or the
	// derived week is outside the supported range.
	CurrentWeek int `json:"current_week,omitempty"`
}

// Input is the editable part of a profile.
type Input struct {
	PregnancyStatus string `json:"pregnancy_status,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
	LastPeriodDate  string `json:"last_period_date,omitempty"`
}

// Validate implements validation.Validatable.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PregnancyStatus, validation.Length(0, 32)),
		validation.Field(&in.DueDate, validation.Date(DateLayout)),
		validation.Field(&in.LastPeriodDate, validation.Date(DateLayout)),
	)
}

// Service serves user profiles.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a profile service. A nil logger uses slog.Default().
func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Get returns the profile for userID. A user without a profile is
// apperr.ErrNotFound.
func (s *Service) Get(ctx context.Context, userID string) (View, error) {
	if userID == "" {
		return View{}, apperr.ErrUnauthenticated
	}
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("profile: get: %w", err)
	}
	v := View{Profile: *p}
	if week, ok := CurrentWeek(p.LastPeriodDate, s.now()); ok {
		v.CurrentWeek = week
	}
	return v, nil
}

// Update validates in and replaces the profile for userID.
func (s *Service) Update(ctx context.Context, userID string, in Input) error {
	if userID == "" {
		return apperr.ErrUnauthenticated
	}
	in.PregnancyStatus = strings.TrimSpace(in.PregnancyStatus)
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}
	err := s.store.UpsertProfile(ctx, models.Profile{
		UserID:          userID,
		PregnancyStatus: in.PregnancyStatus,
		DueDate:         in.DueDate,
		LastPeriodDate:  in.LastPeriodDate,
		UpdatedAt:       s.now(),
	})
	if err != nil {
		return fmt.Errorf("profile: update: %w", err)
	}
	s.logger.Info("profile updated", slog.String("user_id", userID))
	return nil
}

// CurrentWeek derives the pregnancy week on now from the last period date.
// The first seven days are week 1. It reports false for an empty or
// malformed date and for weeks outside the supported range.
func CurrentWeek(lastPeriodDate string, now time.Time) (int, bool) {
	if lastPeriodDate == "" {
		return 0, false
	}
	start, err := time.Parse(DateLayout, lastPeriodDate)
	if err != nil {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if today.Before(start) {
		return 0, false
	}
	days := int(today.Sub(start).Hours() / 24)
	week := days/7 + 1
	if !models.ValidWeek(week) {
		return 0, false
	}
	return week, true
}
