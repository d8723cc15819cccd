package service

import "errors"

// The error taxonomy handlers map onto HTTP statuses. Everything else a
// collaborator throws is treated as a network failure: logged, surfaced
// generically, never fatal to the process.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
)
