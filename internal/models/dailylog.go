package models

import "time"

// DailyLog is a user's self-reported health entry for one day.
type DailyLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        string    `json:"date"`
	Weight      *float64  `json:"weight,omitempty"`
	Systolic    *int      `json:"systolic,omitempty"`
	Diastolic   *int      `json:"diastolic,omitempty"`
	Mood        string    `json:"mood,omitempty"`
	WaterIntake *float64  `json:"waterIntake,omitempty"`
	Symptoms    []string  `json:"symptoms"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
