package services

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/repositories"
)

// Общие ошибки, используемые сервисами и маппингом HTTP.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrSetNotFound    = errors.New("set not found")
	ErrActionNotFound = errors.New("scoring action not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrSetConflict    = errors.New("set number already exists for this match")

	ErrMatchNotPending      = errors.New("match is no longer pending")
	ErrInvalidFinalResult   = errors.New("result must be one of Ganado, Perdido, Walkover, Walkover en contra")
	ErrSessionNotFound      = errors.New("scoring session not found")
	ErrSessionClosed        = errors.New("scoring session is closed")
	ErrSessionNotActive     = errors.New("scoring session has not been activated")
	ErrNoOpenSet            = errors.New("no set is open for scoring")
	ErrPointsNotSaved       = errors.New("action was logged but the set score could not be saved")
	ErrConfirmationNotFound = errors.New("confirmation not found or already used")
	ErrConfirmationExpired  = errors.New("confirmation has expired")
	ErrArchiveDisabled      = errors.New("scoresheet archive is not configured")
)

// ValidationError is returned before any network call when the input cannot be submitted.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// mapRepositoryError lifts repository sentinels to their service counterparts.
func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrSetNotFound):
		return fmt.Errorf("%w: %w", ErrSetNotFound, err)
	case errors.Is(err, repositories.ErrSetConflict):
		return fmt.Errorf("%w: %w", ErrSetConflict, err)
	case errors.Is(err, repositories.ErrActionNotFound):
		return fmt.Errorf("%w: %w", ErrActionNotFound, err)
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%w: %w", ErrMatchNotFound, err)
	case errors.Is(err, apiclient.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// UserMessage turns err into the text shown to the operator in the panel.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		msgs := make([]string, 0, len(validationErr.Fields))
		for _, field := range slices.Sorted(maps.Keys(validationErr.Fields)) {
			msgs = append(msgs, validationErr.Fields[field])
		}
		return strings.Join(msgs, "; ")
	}

	switch {
	case errors.Is(err, apiclient.ErrTransient):
		return "The competition API did not respond. Check the connection and try again."
	case errors.Is(err, apiclient.ErrServer):
		return "The competition API failed to process the request. Try again later."
	case errors.Is(err, ErrPointsNotSaved):
		return ErrPointsNotSaved.Error()
	}

	if msg := apiclient.Message(err); msg != "" {
		return msg
	}

	for _, known := range []error{
		ErrSetConflict, ErrSetNotFound, ErrActionNotFound, ErrMatchNotFound, ErrNotFound,
		ErrMatchNotPending, ErrInvalidFinalResult, ErrSessionNotFound, ErrSessionClosed,
		ErrSessionNotActive, ErrNoOpenSet, ErrConfirmationNotFound, ErrConfirmationExpired,
		ErrArchiveDisabled,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "Unexpected error: " + err.Error()
}
