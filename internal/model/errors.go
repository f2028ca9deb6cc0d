package model

import "errors"

// Error taxonomy shared by every layer. Callers branch with errors.Is; the
// transport maps each kind to its own status code.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrStorage            = errors.New("storage failure")
)
