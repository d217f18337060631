package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseDate accepts the ISO forms clients actually send: full RFC 3339
// timestamps and bare YYYY-MM-DD dates. Bare dates resolve to midnight UTC.
func ParseDate(value, fieldName string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, NewValidationError(fieldName, "is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, NewValidationError(fieldName, "must be an ISO date (YYYY-MM-DD or RFC 3339)")
	}
	return t.UTC(), nil
}

// ValidateUUID validates UUID path/payload parameters.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, "is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, "is not a valid id")
	}
	return id, nil
}

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fieldName, "is required")
	}
	return nil
}

// ValidateOptionalString trims and bounds optional free-text fields.
func ValidateOptionalString(value *string, fieldName string, maxLength int) error {
	if value == nil {
		return nil
	}
	*value = strings.TrimSpace(*value)
	if len(*value) > maxLength {
		return NewValidationError(fieldName, fmt.Sprintf("cannot exceed %d characters", maxLength))
	}
	return nil
}

// ValidateAmount bounds currency amounts coming in from payloads.
func ValidateAmount(value float64, fieldName string) error {
	if value < 0 {
		return NewValidationError(fieldName, "cannot be negative")
	}
	if value > 10000000 {
		return NewValidationError(fieldName, "cannot exceed 10,000,000")
	}
	return nil
}

// SafeString safely dereferences optional string fields.
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SafeFloat64 safely dereferences optional numeric fields.
func SafeFloat64(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
