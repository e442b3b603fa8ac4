package service

import (
	"errors"
	"fmt"

	"github.com/eventforge/hackathon-api/internal/repository"
)

var (
	ErrForbidden = errors.New("forbidden")

	ErrUserNotFound        = repository.ErrUserNotFound
	ErrEventNotFound       = repository.ErrEventNotFound
	ErrTeamNotFound        = repository.ErrTeamNotFound
	ErrCertificateNotFound = repository.ErrCertificateNotFound

	ErrTeamFull          = errors.New("team is full")
	ErrAlreadyInTeam     = errors.New("user already belongs to a team of this event")
	ErrTeamsDisabled     = errors.New("teams module is disabled for this event")
	ErrCertificatesOff   = errors.New("certificates module is disabled for this event")
	ErrCertificateExists = repository.ErrCertificateExists
	ErrDocumentMissing   = errors.New("certificate document is missing")
)

// ValidationError reports malformed input. Fields maps field names to problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

// GenerationError wraps a renderer or storage failure while issuing a certificate.
type GenerationError struct {
	Recipient string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate certificate for %q: %v", e.Recipient, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
