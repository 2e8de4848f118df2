package models

import "errors"

// Domain specific errors shared by services and handlers.
var (
	ErrNotFound    = errors.New("requested item not found")
	ErrBadRequest  = errors.New("bad request")
	ErrValidation  = errors.New("validation failed")
	ErrUpstream    = errors.New("ai service returned an unusable response")
	ErrUnavailable = errors.New("ai service unavailable")
	ErrRateLimited = errors.New("too many requests")
	ErrTimeout     = errors.New("ai service timed out")
)
