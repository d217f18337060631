package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses. Paid is terminal. Overdue is stored only for backward
// compatibility with imported data; the API never writes it directly and read
// paths derive it from the due date instead (see EffectiveStatus).
const (
	StatusDraft   = "draft"
	StatusSent    = "sent"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// InvoiceItem is one row of an invoice's itemized charges. Amount is always
// Quantity * Rate.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	ClientID      *uuid.UUID    `json:"client_id" db:"client_id"`
	GigID         *uuid.UUID    `json:"gig_id" db:"gig_id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	IssuedDate    time.Time     `json:"issued_date" db:"issued_date"`
	DueDate       time.Time     `json:"due_date" db:"due_date"`
	Amount        float64       `json:"amount" db:"amount"`
	Status        string        `json:"status" db:"status"`
	Items         []InvoiceItem `json:"items" db:"items"`
	Notes         *string       `json:"notes" db:"notes"`
	PaidDate      *time.Time    `json:"paid_date" db:"paid_date"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// ValidInvoiceStatus reports whether s is one of the four stored status values.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// IsOverdue reports the derived overdue condition: not paid and past due.
// All date comparisons are done in UTC.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status != StatusPaid && i.DueDate.UTC().Before(now.UTC())
}

// EffectiveStatus is the status read paths should display: paid stays paid,
// anything unpaid past its due date reads as overdue, everything else reads
// as its stored value. The stored field is never rewritten by this derivation.
func (i *Invoice) EffectiveStatus(now time.Time) string {
	if i.Status == StatusPaid {
		return StatusPaid
	}
	if i.IsOverdue(now) {
		return StatusOverdue
	}
	return i.Status
}

// ItemsTotal sums line-item amounts from quantity and rate.
func ItemsTotal(items []InvoiceItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Quantity * it.Rate
	}
	return total
}

// InvoiceTotals aggregates an owner's invoices for the dashboard. PendingTotal
// covers stored-sent invoices while OverdueTotal covers the derived overdue
// condition, so a sent invoice past its due date contributes to both.
type InvoiceTotals struct {
	PaidTotal    float64 `json:"paid_total"`
	PendingTotal float64 `json:"pending_total"`
	OverdueTotal float64 `json:"overdue_total"`
	DraftCount   int     `json:"draft_count"`
	SentCount    int     `json:"sent_count"`
	PaidCount    int     `json:"paid_count"`
	OverdueCount int     `json:"overdue_count"`
}
