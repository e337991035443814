// Package payload turns raw model output into typed artifact payloads.
//
// Parse never fails: text that cannot be decoded is replaced by the kind's
// fallback payload, and decodable but structurally incomplete values are
// passed through with their issues reported for logging.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/momwise/momwise/internal/models"
)

var errNull = errors.New("payload is null")

// Report describes what Parse did with the raw text.
type Report struct {
	// Fallback is true when the raw text was replaced by the default payload.
	Fallback bool
	// DecodeError holds the reason the raw text could not be decoded.
	DecodeError error
	// Issues lists structural problems in a decoded payload.
	Issues []string
}

// Parse converts raw model text into a payload for kind. week fills in the
// diet plan week number when the model omits it and seeds the fallback.
//
// Only text that is not a JSON object falls back. Fields of the wrong type
// are coerced where the value is recoverable, dropped otherwise, and reported
// in Issues either way.
func Parse(raw string, kind models.Kind, week int) (models.Payload, Report) {
	p, issues, err := decodeLenient(kind, []byte(repair(raw)))
	if err != nil {
		return Fallback(kind, week), Report{Fallback: true, DecodeError: err}
	}
	if dp, ok := p.(models.DietPlanPayload); ok && dp.WeekNumber == 0 {
		dp.WeekNumber = week
		p = dp
	}
	return p, Report{Issues: append(issues, Validate(p)...)}
}

// Decode strictly decodes data into the payload type for kind. Missing fields
// are left at their zero values and nil lists become empty. It is meant for
// payloads this package produced, so any type mismatch is an error.
func Decode(kind models.Kind, data []byte) (models.Payload, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, errNull
	}
	p, err := unmarshal(kind, data)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// decodeLenient decodes any JSON object into the payload type for kind.
func decodeLenient(kind models.Kind, data []byte) (models.Payload, []string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	if v == nil {
		return nil, nil, errNull
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("decode %s: expected object, got %s", kind, jsonType(v))
	}

	c := &coercer{}
	switch kind {
	case models.KindDietPlan:
		c.dietPlan(obj)
	case models.KindTimeline:
		c.timeline(obj)
	default:
		return nil, nil, fmt.Errorf("decode: unknown kind %q", kind)
	}
	norm, err := json.Marshal(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	p, err := unmarshal(kind, norm)
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		// Unmarshal keeps filling the remaining fields after a type error.
		c.notef("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	case err != nil:
		return nil, nil, err
	}
	return p, c.issues, nil
}

// unmarshal returns the normalized payload even when err is a type error.
func unmarshal(kind models.Kind, data []byte) (models.Payload, error) {
	switch kind {
	case models.KindDietPlan:
		var p models.DietPlanPayload
		err := json.Unmarshal(data, &p)
		if err != nil {
			err = fmt.Errorf("decode diet plan: %w", err)
		}
		return normalizeDietPlan(p), err
	case models.KindTimeline:
		var p models.TimelinePayload
		err := json.Unmarshal(data, &p)
		if err != nil {
			err = fmt.Errorf("decode timeline: %w", err)
		}
		return normalizeTimeline(p), err
	default:
		return nil, fmt.Errorf("decode: unknown kind %q", kind)
	}
}

// repair strips a surrounding Markdown code fence and any prose around the
// outermost JSON object. Text without an object is returned trimmed.
func repair(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// Drop the info string (e.g. "json").
			s = s[nl+1:]
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	if strings.HasPrefix(s, "{") {
		return s
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func normalizeDietPlan(p models.DietPlanPayload) models.DietPlanPayload {
	if p.DailyPlans == nil {
		p.DailyPlans = []models.DayPlan{}
	}
	for i := range p.DailyPlans {
		if p.DailyPlans[i].Snacks == nil {
			p.DailyPlans[i].Snacks = []string{}
		}
	}
	return p
}

func normalizeTimeline(p models.TimelinePayload) models.TimelinePayload {
	p.MotherChanges.Physical = nonNilSlice(p.MotherChanges.Physical)
	p.MotherChanges.Hormonal = nonNilSlice(p.MotherChanges.Hormonal)
	p.TipsForWeek = nonNilSlice(p.TipsForWeek)
	return p
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
