package domain

import "errors"

var (
	// ErrUnauthenticated covers every reason a caller could not be identified:
	// missing or malformed header, bad or expired token, unknown subject.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrForbidden means the caller is known but may not perform the operation.
	ErrForbidden = errors.New("operation not permitted")
	// ErrInactiveUser is a Forbidden outcome for disabled accounts.
	ErrInactiveUser error = &forbiddenError{msg: "user is not active"}

	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserExists         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnknownRole        = errors.New("unknown role")
	ErrRoleNotAssignable  = errors.New("only designer or admin roles allowed")
)

// forbiddenError is a distinct message that still matches ErrForbidden.
type forbiddenError struct {
	msg string
}

func (e *forbiddenError) Error() string { return e.msg }

func (e *forbiddenError) Is(target error) bool { return target == ErrForbidden }

// ConfigurationError is a fatal startup problem with a configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Field + ": " + e.Reason
}
