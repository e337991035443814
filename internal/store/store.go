package store

import (
	"context"

	"github.com/momwise/momwise/internal/models"
)

// ArtifactStore is the persistence contract for generated artifacts.
// Rows are append-only; lookups return the most recent row for a key.
type ArtifactStore interface {
	FindArtifact(ctx context.Context, userID string, week int, kind models.Kind) (*models.Artifact, error)
	SaveArtifact(ctx context.Context, a models.Artifact) error
	ListArtifacts(ctx context.Context, userID string, week int, kind models.Kind) ([]models.Artifact, error)
}

// DailyLogStore persists daily health logs.
type DailyLogStore interface {
	InsertDailyLog(ctx context.Context, l models.DailyLog) error
	ListDailyLogs(ctx context.Context, userID string, limit int) ([]models.DailyLog, error)
}

// ProfileStore persists user profiles, one row per user.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p models.Profile) error
}

// Verify *DB satisfies the stores at compile time.
var (
	_ ArtifactStore = (*DB)(nil)
	_ DailyLogStore = (*DB)(nil)
	_ ProfileStore  = (*DB)(nil)
)
