package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/momwise/momwise/internal/models"
)

// InsertDailyLog stores a log and its symptoms within a transaction.
func (db *DB) InsertDailyLog(ctx context.Context, l models.DailyLog) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_logs
			(id, user_id, log_date, weight, systolic_bp, diastolic_bp, mood, water_intake, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.UserID, l.Date, l.Weight, l.Systolic, l.Diastolic, l.Mood, l.WaterIntake, l.Notes, l.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("store: insert daily log: %w", err)
	}

	if len(l.Symptoms) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_log_symptoms (log_id, symptom) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("store: prepare symptom insert: %w", err)
		}
		defer stmt.Close()
		for _, s := range l.Symptoms {
			if _, err := stmt.ExecContext(ctx, l.ID, s); err != nil {
				return fmt.Errorf("store: insert symptom: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ListDailyLogs returns a user's logs, newest date first.
func (db *DB) ListDailyLogs(ctx context.Context, userID string, limit int) ([]models.DailyLog, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, log_date, weight, systolic_bp, diastolic_bp, mood, water_intake, notes, created_at
		FROM daily_logs
		WHERE user_id = ?
		ORDER BY log_date DESC, created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list daily logs: %w", err)
	}
	defer rows.Close()

	var out []models.DailyLog
	for rows.Next() {
		var (
			l         models.DailyLog
			weight    sql.NullFloat64
			systolic  sql.NullInt64
			diastolic sql.NullInt64
			water     sql.NullFloat64
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Date, &weight, &systolic, &diastolic, &l.Mood, &water, &l.Notes, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan daily log: %w", err)
		}
		if weight.Valid {
			l.Weight = &weight.Float64
		}
		if systolic.Valid {
			v := int(systolic.Int64)
			l.Systolic = &v
		}
		if diastolic.Valid {
			v := int(diastolic.Int64)
			l.Diastolic = &v
		}
		if water.Valid {
			l.WaterIntake = &water.Float64
		}
		l.Symptoms = []string{}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		symptoms, err := db.symptoms(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Symptoms = symptoms
	}
	return out, nil
}

func (db *DB) symptoms(ctx context.Context, logID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT symptom FROM daily_log_symptoms WHERE log_id = ? ORDER BY rowid`, logID)
	if err != nil {
		return nil, fmt.Errorf("store: symptoms: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
