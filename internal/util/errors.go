package util

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Services only ever return these (or errors wrapping
// them); controllers translate to HTTP via FromError.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Specific domain errors, each wrapping its taxonomy entry.
var (
	ErrEmailRegistered    = fmt.Errorf("%w: email is already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrAlreadyEnrolled    = fmt.Errorf("%w: already enrolled", ErrConflict)
	ErrNotEnrolled        = fmt.Errorf("%w: no active enrollment", ErrNotFound)
	ErrLessonLocked       = fmt.Errorf("%w: previous lesson must be completed first", ErrForbidden)
	ErrAlreadyReviewed    = fmt.Errorf("%w: community already reviewed by this user", ErrConflict)
	ErrOwnsCommunity      = fmt.Errorf("%w: user already owns a community", ErrConflict)
)
