package models

import "time"

// Profile is a user's pregnancy profile. Dates use the YYYY-MM-DD layout and
// are empty when unknown.
type Profile struct {
	UserID          string    `json:"user_id"`
	PregnancyStatus string    `json:"pregnancy_status,omitempty"`
	DueDate         string    `json:"due_date,omitempty"`
	LastPeriodDate  string    `json:"last_period_date,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}
