package api

import (
	"github.com/momwise/momwise/internal/dailylog"
	"github.com/momwise/momwise/internal/models"
	"github.com/momwise/momwise/internal/profile"
)

// ChatRequest is the request body for POST /api/chat/message.
type ChatRequest struct {
	Message string `json:"message" example:"Is it safe to eat sushi?" validate:"required"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply" validate:"required"`
}

// CreateLogRequest is the request body for POST /api/logs.
type CreateLogRequest = dailylog.Input

// CreateLogResponse is returned after a log is recorded.
type CreateLogResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      string `json:"id" validate:"required"`
}

// LogListResponse wraps a user's daily logs.
type LogListResponse struct {
	Logs []models.DailyLog `json:"logs" validate:"required"`
}

// DietPlanResponse is the diet plan payload (aliased from the domain layer).
type DietPlanResponse = models.DietPlanPayload

// TimelineResponse is the timeline payload (aliased from the domain layer).
type TimelineResponse = models.TimelinePayload

// HistoryResponse lists stored generations for one week and kind.
type HistoryResponse struct {
	Artifacts []models.Artifact `json:"artifacts" validate:"required"`
}

// ProfileResponse is the caller's profile with the derived current week.
type ProfileResponse = profile.View
