package common

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrForbidden      = errors.New("operation not permitted")
	ErrConflict       = errors.New("conflicting record")

	// ErrTokenMissing is returned when a request carries no bearer token.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid covers bad signatures, unexpected algorithms and malformed claims.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrEventNotPublished accompanies a committed write whose event could not be published.
	ErrEventNotPublished = errors.New("event not published")
)
