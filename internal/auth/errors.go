package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email address has not been confirmed")
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrWeakPassword       = errors.New("password is too short")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrAuthUnavailable    = errors.New("authentication service unavailable")

	// ErrSessionLoading is returned while the persisted session is still being restored.
	ErrSessionLoading = errors.New("session is still loading")
	// ErrUserNotFound is returned by a UserStore for an unknown account.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidSession is returned for a token that is malformed, expired or revoked.
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Error records the auth operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
