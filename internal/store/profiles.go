package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/momwise/momwise/internal/apperr"
	"github.com/momwise/momwise/internal/models"
)

// GetProfile returns the profile for userID, or apperr.ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := db.conn.QueryRowContext(ctx, `
		SELECT user_id, pregnancy_status, due_date, last_period_date, updated_at
		FROM user_profiles
		WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.PregnancyStatus, &p.DueDate, &p.LastPeriodDate, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get profile: %w: %w", apperr.ErrStorageUnavailable, err)
	}
	return &p, nil
}

// UpsertProfile creates or replaces the profile for p.UserID.
func (db *DB) UpsertProfile(ctx context.Context, p models.Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, pregnancy_status, due_date, last_period_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			pregnancy_status = excluded.pregnancy_status,
			due_date         = excluded.due_date,
			last_period_date = excluded.last_period_date,
			updated_at       = excluded.updated_at
	`, p.UserID, p.PregnancyStatus, p.DueDate, p.LastPeriodDate, p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("store: upsert profile: %w: %w", apperr.ErrStorageUnavailable, err)
	}
	return nil
}
