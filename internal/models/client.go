package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a counterparty the DJ bills or books. Type and tags are free-form
// labels, not enumerations.
type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Type      *string   `json:"type" db:"type"`
	Notes     *string   `json:"notes" db:"notes"`
	Tags      []string  `json:"tags" db:"tags"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ClientTotals summarizes a client's booking history for the owner's dashboard.
type ClientTotals struct {
	GigCount  int     `json:"gig_count"`
	TotalPaid float64 `json:"total_paid"`
}
