package auth

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/clientmgr/internal/keyring"
)

// User is an account known to the auth provider.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	ConfirmedAt  *time.Time
	CreatedAt    time.Time
}

// Confirmed reports whether the account's email has been confirmed.
func (u User) Confirmed() bool {
	return u.ConfirmedAt != nil
}

// UserStore holds accounts. Implementations return ErrUserExists for a
// duplicate email and ErrUserNotFound for an unknown one.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string, confirmed bool) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ConfirmUser(ctx context.Context, email string) error
}

// SessionStore persists the current session token between runs.
type SessionStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// KeyringSessions keeps the session token in the OS keyring.
type KeyringSessions struct{}

func (KeyringSessions) LoadToken() (string, error) {
	token, err := keyring.GetSessionToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (KeyringSessions) SaveToken(token string) error {
	return keyring.SetSessionToken(token)
}

func (KeyringSessions) ClearToken() error {
	return keyring.DeleteSessionToken()
}
