package types

import "errors"

// Sentinel errors returned by repositories, services and the auth
// middleware. Handlers map them to HTTP statuses with errors.Is; the
// raw error text is never shown to clients.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("requested item not found")

	// ErrDuplicateEmail is returned when a unique email constraint is hit.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateRegistration is returned when an organization
	// registration number is already taken.
	ErrDuplicateRegistration = errors.New("registration number already registered")

	// ErrInvalidInput is returned when a request payload fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned when a password comparison fails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingToken is returned when no bearer token was supplied.
	ErrMissingToken = errors.New("authorization token required")

	// ErrMalformedToken is returned when the token cannot be parsed.
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidSignature is returned when the token signature does not
	// match a recomputation with the server secret.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrUserNotFound is returned by the session resolver when the user
	// named in a valid token no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountUnavailable is returned when the live user record is
	// disabled or soft-deleted, regardless of what the token claims say.
	ErrAccountUnavailable = errors.New("account is disabled or deleted")

	// ErrForbidden is returned when the session role does not satisfy the
	// required role.
	ErrForbidden = errors.New("action forbidden")
)
