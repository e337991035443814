package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/momwise/momwise/internal/apperr"
	"github.com/momwise/momwise/internal/artifactservice"
	"github.com/momwise/momwise/internal/auth"
	"github.com/momwise/momwise/internal/checksum"
	"github.com/momwise/momwise/internal/llm"
	"github.com/momwise/momwise/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	artifacts ArtifactService
	assistant Assistant
	logs      DailyLogs
	profiles  Profiles
	events    EventStream
}

// NewHandler creates a new Handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		artifacts: d.Artifacts,
		assistant: d.Assistant,
		logs:      d.Logs,
		profiles:  d.Profiles,
		events:    d.Events,
	}
}

// DietPlan handles GET /api/diet.
//
//	@Summary		Get (or generate) the diet plan for a pregnancy week
//	@Tags			artifacts
//	@Produce		json
//	@Param			week		query		int		true	"Pregnancy week (1-42)"
//	@Param			regenerate	query		bool	false	"Force a new plan"
//	@Param			If-None-Match	header	string	false	"ETag of a cached copy"
//	@Success		200			{object}	DietPlanResponse
//	@Success		304			"Not modified"
//	@Failure		400			{object}	errResponse
//	@Failure		401			{object}	errResponse
//	@Failure		500			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/diet [get]
func (h *Handler) DietPlan(w http.ResponseWriter, r *http.Request) {
	h.artifact(w, r, models.KindDietPlan, "Failed to generate diet plan")
}

// Timeline handles GET /api/timeline.
//
//	@Summary		Get (or generate) the developmental timeline for a pregnancy week
//	@Tags			artifacts
//	@Produce		json
//	@Param			week		query		int		true	"Pregnancy week (1-42)"
//	@Param			regenerate	query		bool	false	"Force a new timeline"
//	@Success		200			{object}	TimelineResponse
//	@Failure		400			{object}	errResponse
//	@Failure		401			{object}	errResponse
//	@Failure		500			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/timeline [get]
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	h.artifact(w, r, models.KindTimeline, "Failed to generate timeline")
}

func (h *Handler) artifact(w http.ResponseWriter, r *http.Request, kind models.Kind, failMsg string) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("week")) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Week number is required"))
		return
	}
	week, err := models.ParseWeek(q.Get("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorDetails("Invalid week number", err.Error()))
		return
	}
	force, _ := strconv.ParseBool(q.Get("regenerate"))

	p, err := h.artifacts.GetOrGenerate(r.Context(), artifactservice.Request{
		UserID: auth.UserIDFrom(r.Context()),
		Week:   week,
		Kind:   kind,
		Force:  force,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized"))
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorDetails("Invalid week number", err.Error()))
		case errors.Is(err, apperr.ErrConfiguration):
			writeJSON(w, http.StatusInternalServerError, errorBody("Server configuration error"))
		case errors.Is(err, apperr.ErrUpstreamUnavailable):
			writeJSON(w, http.StatusInternalServerError, errorDetails(failMsg, "Error calling external API"))
		default:
			slog.Error("artifact request failed", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	body, err := json.Marshal(p)
	if err != nil {
		slog.Error("encode artifact failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	if checksum.Matches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// History handles GET /api/history.
//
//	@Summary		List every stored generation for a week, newest first
//	@Tags			artifacts
//	@Produce		json
//	@Param			kind	query		string	true	"diet_plan or timeline"
//	@Param			week	query		int		true	"Pregnancy week (1-42)"
//	@Success		200		{object}	HistoryResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := models.Kind(q.Get("kind"))
	if !kind.Valid() {
		writeJSON(w, http.StatusBadRequest, errorDetails("Invalid artifact kind", "kind must be diet_plan or timeline"))
		return
	}
	week, err := models.ParseWeek(q.Get("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorDetails("Invalid week number", err.Error()))
		return
	}

	rows, err := h.artifacts.History(r.Context(), artifactservice.Request{
		UserID: auth.UserIDFrom(r.Context()),
		Week:   week,
		Kind:   kind,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized"))
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorDetails("Invalid week number", err.Error()))
		default:
			slog.Error("artifact history failed", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Artifacts: rows})
}

// ChatMessage handles POST /api/chat/message.
//
//	@Summary		Ask the pregnancy assistant a question
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ChatRequest	true	"Message"
//	@Success		200		{object}	ChatResponse
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/chat/message [post]
func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Message is required"))
		return
	}

	reply, err := h.assistant.Reply(r.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorBody("Message is required"))
		case errors.Is(err, apperr.ErrConfiguration):
			writeJSON(w, http.StatusInternalServerError, errorDetails("Server configuration error", llm.Detail(err)))
		default:
			writeJSON(w, http.StatusInternalServerError, errorDetails("Failed to generate response", llm.Detail(err)))
		}
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

// CreateLog handles POST /api/logs.
//
//	@Summary		Record a daily health log
//	@Tags			logs
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateLogRequest	true	"Daily log"
//	@Success		201		{object}	CreateLogResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/logs [post]
func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	userID := auth.UserIDFrom(r.Context())
	id, err := h.logs.Record(r.Context(), userID, req)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, errorDetails("Invalid daily log", verrs.Error()))
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorBody("Invalid daily log"))
		case errors.Is(err, apperr.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized"))
		default:
			slog.Error("record daily log failed", slog.String("user_id", userID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to save daily log"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, CreateLogResponse{Success: true, ID: id})
}

// ListLogs handles GET /api/logs.
//
//	@Summary		List recent daily logs
//	@Tags			logs
//	@Produce		json
//	@Param			limit	query		int		false	"Max results (default 30)"
//	@Success		200		{object}	LogListResponse
//	@Security		BearerAuth
//	@Router			/logs [get]
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	userID := auth.UserIDFrom(r.Context())

	logs, err := h.logs.List(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized"))
			return
		}
		slog.Error("list daily logs failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, LogListResponse{Logs: logs})
}

// Profile handles GET /api/profile.
//
//	@Summary		Get the caller's pregnancy profile
//	@Tags			profile
//	@Produce		json
//	@Success		200	{object}	ProfileResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())
	v, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("Not found"))
		case errors.Is(err, apperr.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized"))
		default:
			slog.Error("get profile failed", slog.String("user_id", userID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Server error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Events handles GET /api/events.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	h.events.Stream(w, r, auth.UserIDFrom(r.Context()))
}
