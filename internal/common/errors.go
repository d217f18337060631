package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Sentinel errors for the conditions the API boundary translates to HTTP
// statuses. Services return these (wrapped or bare); handlers call WriteError.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("caller does not own this resource")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed or missing input on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InvalidTransitionError reports a status edge the invoice state machine does
// not permit.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// InvalidDocumentError reports an invoice that cannot be rendered as a
// printable document.
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return "invalid document: " + e.Reason
}

// ErrorResponse represents a standardized error response envelope.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response.
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a 400 with field details.
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{field: message}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a generic 400.
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a 500.
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a 404 for the named resource.
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendForbiddenError sends a 403.
func SendForbiddenError(c echo.Context) error {
	return c.JSON(http.StatusForbidden, CreateErrorResponse("FORBIDDEN", "You do not have access to this resource", nil))
}

// SendUnauthorizedError sends a 401.
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// WriteError maps a service error onto the response: 404 for missing records,
// 403 for ownership failures, 400 for validation and state-machine rejections,
// 500 for anything else (storage failures included).
func WriteError(c echo.Context, resource string, err error) error {
	var ve *ValidationError
	var te *InvalidTransitionError
	var de *InvalidDocumentError
	switch {
	case errors.Is(err, ErrNotFound):
		return SendNotFoundError(c, resource)
	case errors.Is(err, ErrForbidden):
		return SendForbiddenError(c)
	case errors.Is(err, ErrUnauthorized):
		return SendUnauthorizedError(c)
	case errors.As(err, &ve):
		return SendValidationError(c, ve.Field, ve.Message)
	case errors.As(err, &te):
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("INVALID_TRANSITION", te.Error(), nil))
	case errors.As(err, &de):
		return SendClientError(c, de.Error())
	default:
		return SendServerError(c, "operation could not be completed")
	}
}
