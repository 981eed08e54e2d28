package domain

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned for malformed input, such as a negative
	// nutrient value or an unrecognized data source tag.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate is returned when a create would violate uniqueness,
	// e.g. a second nutrition record for the same food item.
	ErrDuplicate = errors.New("resource already exists")

	// ErrUpstream is returned when the external predictor is unavailable
	// or timed out. Distinguishable from "no match found".
	ErrUpstream = errors.New("upstream predictor failure")

	// ErrInvalidCredentials is returned for a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned for expired, revoked or malformed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrOTP is returned when an OTP code is wrong, expired or already used.
	ErrOTP = errors.New("otp verification failed")

	// ErrForbidden is returned when the caller lacks permission.
	ErrForbidden = errors.New("insufficient permissions")
)
