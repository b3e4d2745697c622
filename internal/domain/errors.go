package domain

import "errors"

// Ownership mismatches surface as ErrNotFound so callers cannot probe for
// records they do not own.
var (
	ErrNotFound             = errors.New("notification not found")
	ErrValidation           = errors.New("invalid identifier or payload")
	ErrStoreUnavailable     = errors.New("notification store unavailable")
	ErrTransportUnavailable = errors.New("transport unavailable")
)
