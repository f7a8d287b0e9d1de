package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidRequest = errors.New("invalid request")
	ErrValidation     = errors.New("validation error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternal       = errors.New("internal server error")

	ErrQueueEmpty     = errors.New("queue empty")
	ErrQueueClosed    = errors.New("queue closed")
	ErrMalformedEvent = errors.New("malformed stock check event")
)
