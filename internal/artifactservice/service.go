// Package artifactservice implements the cache-or-generate pipeline for
// diet plans and weekly timelines.
package artifactservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/momwise/momwise/internal/apperr"
	"github.com/momwise/momwise/internal/llm"
	"github.com/momwise/momwise/internal/models"
	"github.com/momwise/momwise/internal/payload"
	"github.com/momwise/momwise/internal/prompt"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 30 * time.Second

// Store is the subset of the artifact store the service needs.
type Store interface {
	FindArtifact(ctx context.Context, userID string, week int, kind models.Kind) (*models.Artifact, error)
	SaveArtifact(ctx context.Context, a models.Artifact) error
	ListArtifacts(ctx context.Context, userID string, week int, kind models.Kind) ([]models.Artifact, error)
}

// Generator executes a generation request and returns the raw model text.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Notifier is told about every freshly generated artifact.
type Notifier interface {
	PublishArtifact(userID string, kind models.Kind, week int)
}

// Request identifies the artifact a caller wants.
type Request struct {
	UserID string
	Week   int
	Kind   models.Kind
	// Force skips the cache lookup and always generates a new row.
	Force bool
}

func (r Request) key() string {
	return fmt.Sprintf("%s/%d/%s", r.UserID, r.Week, r.Kind)
}

func (r Request) validate() error {
	if r.UserID == "" {
		return apperr.ErrUnauthenticated
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown artifact kind %q: %w", r.Kind, apperr.ErrInvalidInput)
	}
	if !models.ValidWeek(r.Week) {
		return fmt.Errorf("week number must be between %d and %d, got %d: %w",
			models.MinWeek, models.MaxWeek, r.Week, apperr.ErrInvalidInput)
	}
	return nil
}

// Service coordinates the store, prompt builder, generator and validator.
type Service struct {
	store    Store
	gen      Generator
	notifier Notifier
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time
	flight   singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout sets the generation timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithNotifier registers a listener for generated artifacts.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a new artifact service.
func New(store Store, gen Generator, opts ...Option) *Service {
	s := &Service{
		store:   store,
		gen:     gen,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrGenerate returns the cached payload for req or generates a new one.
//
// Only apperr.ErrUnauthenticated, apperr.ErrInvalidInput,
// apperr.ErrConfiguration and apperr.ErrUpstreamUnavailable are returned.
// Storage failures and malformed model output are recovered locally.
//
// The work is detached from ctx's cancellation: once started, generation and
// persistence run to completion even if the caller goes away.
func (s *Service) GetOrGenerate(ctx context.Context, req Request) (models.Payload, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	log := s.logger.With(
		slog.String("user_id", req.UserID),
		slog.Int("week", req.Week),
		slog.String("kind", string(req.Kind)))

	if req.Force {
		log.Info("forcing regeneration")
		return s.generate(ctx, req, log)
	}

	if p, ok := s.lookup(ctx, req, log); ok {
		return p, nil
	}

	v, err, shared := s.flight.Do(req.key(), func() (any, error) {
		return s.generate(ctx, req, log)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug("joined in-flight generation")
	}
	return v.(models.Payload), nil
}

// History returns every stored generation for the key, newest first. The
// first entry is the one GetOrGenerate serves. Force is ignored.
func (s *Service) History(ctx context.Context, req Request) ([]models.Artifact, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	rows, err := s.store.ListArtifacts(ctx, req.UserID, req.Week, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("artifactservice: history: %w", err)
	}
	if rows == nil {
		rows = []models.Artifact{}
	}
	return rows, nil
}

// lookup returns a cached payload. Every failure is reported as a miss.
func (s *Service) lookup(ctx context.Context, req Request, log *slog.Logger) (models.Payload, bool) {
	a, err := s.store.FindArtifact(ctx, req.UserID, req.Week, req.Kind)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			log.Warn("artifact lookup failed, generating instead", slog.String("error", err.Error()))
		}
		return nil, false
	}
	p, err := payload.Decode(req.Kind, a.Payload)
	if err != nil {
		log.Warn("stored artifact is unreadable, generating instead",
			slog.String("artifact_id", a.ID),
			slog.String("error", err.Error()))
		return nil, false
	}
	log.Debug("artifact served from cache", slog.String("artifact_id", a.ID))
	return p, true
}

func (s *Service) generate(ctx context.Context, req Request, log *slog.Logger) (models.Payload, error) {
	genReq, err := prompt.Build(req.Kind, req.Week)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.gen.Generate(genCtx, genReq)
	if err != nil {
		if llm.IsFatal(err) {
			log.Error("generation is not configured", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
		}
		log.Error("generation failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", apperr.ErrUpstreamUnavailable, err)
	}
	log.Info("artifact generated", slog.Duration("elapsed", time.Since(start)))

	p, rep := payload.Parse(raw, req.Kind, req.Week)
	switch {
	case rep.Fallback:
		log.Warn("model output could not be decoded, using fallback", slog.String("error", rep.DecodeError.Error()))
	case len(rep.Issues) > 0:
		log.Warn("model output does not match schema", slog.Any("issues", rep.Issues))
	}

	s.persist(ctx, req, p, log)

	if s.notifier != nil {
		s.notifier.PublishArtifact(req.UserID, req.Kind, req.Week)
	}
	return p, nil
}

// persist saves p as a new row. Failures are logged and swallowed.
func (s *Service) persist(ctx context.Context, req Request, p models.Payload, log *slog.Logger) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Error("encode artifact failed", slog.String("error", err.Error()))
		return
	}
	a := models.Artifact{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		WeekNumber: req.Week,
		Kind:       req.Kind,
		Trimester:  models.Trimester(req.Week),
		Payload:    data,
		CreatedAt:  s.now(),
	}
	if err := s.store.SaveArtifact(ctx, a); err != nil {
		log.Error("save artifact failed, returning unsaved result", slog.String("error", err.Error()))
		return
	}
	log.Debug("artifact saved", slog.String("artifact_id", a.ID))
}
