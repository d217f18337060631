package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Email               string    `json:"email" db:"email"`
	PasswordHash        string    `json:"-" db:"password_hash"` // Never serialize in JSON
	StageName           *string   `json:"stage_name" db:"stage_name"`
	Phone               *string   `json:"phone" db:"phone"`
	Location            *string   `json:"location" db:"location"`
	BusinessName        *string   `json:"business_name" db:"business_name"`
	TaxID               *string   `json:"tax_id" db:"tax_id"`
	BusinessAddress     *string   `json:"business_address" db:"business_address"`
	Website             *string   `json:"website" db:"website"`
	PaymentTerms        *string   `json:"payment_terms" db:"payment_terms"`
	PaymentMethod       *string   `json:"payment_method" db:"payment_method"`
	PaymentInstructions *string   `json:"payment_instructions" db:"payment_instructions"`
	LogoURL             *string   `json:"logo_url" db:"logo_url"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

const (
	DefaultPaymentTerms  = "Net 14 days"
	DefaultPaymentMethod = "Bank Transfer"
)
