// Package models defines the domain types for momwise.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/momwise/momwise/internal/apperr"
)

// Pregnancy weeks accepted by the pipeline.
const (
	MinWeek = 1
	MaxWeek = 42
)

// Kind discriminates the artifact payload types.
type Kind string

const (
	KindDietPlan Kind = "diet_plan"
	KindTimeline Kind = "timeline"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindDietPlan || k == KindTimeline
}

// Artifact is a generated, cached payload for a (user, week, kind) key.
type Artifact struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	WeekNumber int             `json:"week_number"`
	Kind       Kind            `json:"kind"`
	Trimester  string          `json:"trimester"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Trimester maps a pregnancy week to "first", "second" or "third".
func Trimester(week int) string {
	switch {
	case week > 26:
		return "third"
	case week > 13:
		return "second"
	default:
		return "first"
	}
}

// ParseWeek parses a week query value. Absent, non-numeric and non-positive
// values are rejected with apperr.ErrInvalidInput.
func ParseWeek(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("week number is required: %w", apperr.ErrInvalidInput)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("week number must be a positive integer, got %q: %w", raw, apperr.ErrInvalidInput)
	}
	return n, nil
}

// ValidWeek reports whether week is inside the supported range.
func ValidWeek(week int) bool {
	return week >= MinWeek && week <= MaxWeek
}
