// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across the api client and services.
var (
	// ErrValidation indicates input rejected locally, before any request was made.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates an authentication failure (401/422 or an
	// expired-token message from the API).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the account lacks the required role or is unverified.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPayloadTooLarge indicates an upload exceeded the API's size limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrSessionExpired indicates the local session was torn down, either by
	// the expiry watchdog or by the API rejecting the stored credentials.
	ErrSessionExpired = errors.New("session expired")
)
