package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the API routes need.
type Deps struct {
	Artifacts ArtifactService
	Assistant Assistant
	Logs      DailyLogs
	Profiles  Profiles
	Verifier  TokenVerifier
	// Events, if non-nil, is mounted at GET /events.
	Events EventStream
	// RequestTimeout bounds non-streaming requests. Zero disables it.
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with all API routes mounted. Every route
// requires a bearer token.
func NewRouter(d Deps) chi.Router {
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(d.Verifier))

	r.Group(func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(middleware.Timeout(d.RequestTimeout))
		}

		// Generated artifacts.
		r.Get("/diet", h.DietPlan)
		r.Get("/timeline", h.Timeline)
		r.Get("/history", h.History)

		// Assistant.
		r.Post("/chat/message", h.ChatMessage)

		// Daily logs.
		r.Post("/logs", h.CreateLog)
		r.Get("/logs", h.ListLogs)

		// Profile.
		r.Get("/profile", h.Profile)
	})

	// SSE endpoint (protected by same auth middleware, no timeout).
	if d.Events != nil {
		r.Get("/events", h.Events)
	}

	return r
}
