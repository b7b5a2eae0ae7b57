package apikey

import "errors"

var (
	// ErrNameRequired is returned when a key is created or renamed with a blank name.
	ErrNameRequired = errors.New("name is required")

	// ErrKeyRequired is returned when validation is attempted with a blank candidate.
	ErrKeyRequired = errors.New("API key is required")

	// ErrInvalidKey covers both unknown and malformed keys so callers cannot
	// probe which secrets exist.
	ErrInvalidKey = errors.New("Invalid API Key")

	// ErrLimitExceeded is returned for keys whose usage has reached their ceiling.
	ErrLimitExceeded = errors.New("API key usage limit exceeded")

	// ErrNotFound is returned when an id does not resolve to a stored key.
	ErrNotFound = errors.New("API key not found")
)
