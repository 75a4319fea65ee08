package domain

import "errors"

// ErrNotFound is returned when the requested trip or nested resource does not
// exist. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing name, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUserNotFound is returned when inviting a member whose email has no profile.
var ErrUserNotFound = errors.New("user not found")

// ErrAddActivity is returned when the remote insert behind an optimistic
// activity add failed and the in-memory insert was rolled back.
var ErrAddActivity = errors.New("failed to add activity")

// ErrAuthRequired is returned by operations that only exist for signed-in users.
var ErrAuthRequired = errors.New("authentication required")

// ErrSessionLoading is returned while the session has not finished initialising.
var ErrSessionLoading = errors.New("session is still loading")

// ErrInvalidToken is returned when a sign-in token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// ErrForbidden is returned when an operation would break a membership rule,
// such as removing a trip's owner.
var ErrForbidden = errors.New("forbidden")
