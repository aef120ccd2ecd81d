// Package apperr holds the sentinel errors shared across services and
// transports.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidDocument = errors.New("invalid document")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrInvalidPath     = errors.New("invalid path")
)
