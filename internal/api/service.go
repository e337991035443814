package api

import (
	"context"
	"net/http"

	"github.com/momwise/momwise/internal/artifactservice"
	"github.com/momwise/momwise/internal/dailylog"
	"github.com/momwise/momwise/internal/models"
	"github.com/momwise/momwise/internal/profile"
)

// ArtifactService serves cached or freshly generated artifacts.
type ArtifactService interface {
	GetOrGenerate(ctx context.Context, req artifactservice.Request) (models.Payload, error)
	History(ctx context.Context, req artifactservice.Request) ([]models.Artifact, error)
}

// Assistant answers chat messages.
type Assistant interface {
	Reply(ctx context.Context, message string) (string, error)
}

// DailyLogs records and lists daily health logs.
type DailyLogs interface {
	Record(ctx context.Context, userID string, in dailylog.Input) (string, error)
	List(ctx context.Context, userID string, limit int) ([]models.DailyLog, error)
}

// Profiles reads user profiles.
type Profiles interface {
	Get(ctx context.Context, userID string) (profile.View, error)
}

// EventStream streams a user's events.
type EventStream interface {
	Stream(w http.ResponseWriter, r *http.Request, userID string)
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	UserID(token string) (string, error)
}

var (
	_ ArtifactService = (*artifactservice.Service)(nil)
	_ DailyLogs       = (*dailylog.Service)(nil)
	_ Profiles        = (*profile.Service)(nil)
)
