package models

import "errors"

// Domain failure taxonomy. Services return these (possibly wrapped with
// fmt.Errorf %w) and callers match with errors.Is; controllers translate them
// to HTTP status codes in utils.WriteError.
var (
	// ErrValidation - a required field is missing or empty after trimming
	ErrValidation = errors.New("validation failed")

	// ErrNotFound - the room, user or message does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden - the caller is not a participant of the resource
	ErrForbidden = errors.New("access denied")

	// ErrConflict - duplicate request, already connected, or similar
	ErrConflict = errors.New("conflict")

	// ErrInvalidOperation - self-targeting actions
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrIntroLimit - the single intro message was already sent. Kept distinct
	// from ErrConflict so clients can show the specific wait-for-accept notice.
	ErrIntroLimit = errors.New("you already sent an intro message, wait for them to accept your connection")
)

// CreditsPerConnection is granted to both users when a connection is accepted
const CreditsPerConnection = 10
