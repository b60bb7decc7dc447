package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrSessionNotFound = errors.New("session not found")
	ErrConflict        = errors.New("conflict")
)
