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

// FindArtifact returns the most recent artifact for the key.
// A miss is apperr.ErrNotFound; any other failure wraps apperr.ErrStorageUnavailable.
func (db *DB) FindArtifact(ctx context.Context, userID string, week int, kind models.Kind) (*models.Artifact, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, user_id, week_number, kind, trimester, payload_json, created_at
		FROM artifacts
		WHERE user_id = ? AND week_number = ? AND kind = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, userID, week, string(kind))

	a, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: find artifact: %w: %w", apperr.ErrStorageUnavailable, err)
	}
	return a, nil
}

// SaveArtifact appends a new artifact row. No uniqueness is enforced.
func (db *DB) SaveArtifact(ctx context.Context, a models.Artifact) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO artifacts (id, user_id, week_number, kind, trimester, payload_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.WeekNumber, string(a.Kind), a.Trimester, string(a.Payload), a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("store: save artifact: %w: %w", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// ListArtifacts returns every row stored for the key, newest first, in the
// same order FindArtifact uses to pick its row.
func (db *DB) ListArtifacts(ctx context.Context, userID string, week int, kind models.Kind) ([]models.Artifact, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, week_number, kind, trimester, payload_json, created_at
		FROM artifacts
		WHERE user_id = ? AND week_number = ? AND kind = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID, week, string(kind))
	if err != nil {
		return nil, fmt.Errorf("store: list artifacts: %w: %w", apperr.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []models.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan artifact: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(s scanner) (*models.Artifact, error) {
	var (
		a       models.Artifact
		kind    string
		payload string
	)
	if err := s.Scan(&a.ID, &a.UserID, &a.WeekNumber, &kind, &a.Trimester, &payload, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Kind = models.Kind(kind)
	a.Payload = []byte(payload)
	return &a, nil
}
