package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrShockTypeNotFound  = errors.New("shock_type_not_found")
	ErrDataSourceNotFound = errors.New("data_source_not_found")
)

// ValidationError carries the offending field and value so the API layer
// can return a structured payload. Values are never silently coerced.
type ValidationError struct {
	Field   string
	Message string
	Value   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// Flag types a user can toggle on an alert.
const (
	FlagTypeFalse      = "false"
	FlagTypeIncomplete = "incomplete"
)

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return &ValidationError{
			Field:   "rating",
			Message: "Rating must be between 1 and 5",
			Value:   fmt.Sprintf("%d", rating),
		}
	}
	return nil
}

func ValidateSeverity(severity int) error {
	if severity < 1 || severity > 5 {
		return &ValidationError{
			Field:   "severity",
			Message: "Severity must be an integer between 1 and 5",
			Value:   fmt.Sprintf("%d", severity),
		}
	}
	return nil
}

func ValidateFlagType(flagType string) error {
	if flagType != FlagTypeFalse && flagType != FlagTypeIncomplete {
		return &ValidationError{
			Field:   "flag_type",
			Message: "Flag type must be one of: false, incomplete",
			Value:   flagType,
		}
	}
	return nil
}

func ValidateDateRange(validFrom, validUntil time.Time) error {
	if validUntil.Before(validFrom) {
		return &ValidationError{
			Field:   "valid_until",
			Message: "valid_until must not be before valid_from",
			Value:   validUntil.Format(time.RFC3339),
		}
	}
	return nil
}
