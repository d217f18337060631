package models

import (
	"time"

	"github.com/google/uuid"
)

// Gig is a scheduled performance. The calendar date lives in Date; time of day
// is carried as separate optional start/end strings ("21:00") and never merged
// into the date.
type Gig struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	ClientID    *uuid.UUID `json:"client_id" db:"client_id"`
	Title       string     `json:"title" db:"title"`
	Date        time.Time  `json:"date" db:"date"`
	StartTime   *string    `json:"start_time" db:"start_time"`
	EndTime     *string    `json:"end_time" db:"end_time"`
	Location    *string    `json:"location" db:"location"`
	Fee         *float64   `json:"fee" db:"fee"`
	Notes       *string    `json:"notes" db:"notes"`
	ReminderSet bool       `json:"reminder_set" db:"reminder_set"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
