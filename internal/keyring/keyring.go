package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/clientmgr/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

const signingKeyBytes = 32

func get(user string) (string, error) {
	v, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func set(user, value, what string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, user, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func del(user, what string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetConnectionString retrieves the remote database connection string.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the remote database connection string.
func SetConnectionString(connStr string) error {
	return set(constants.DefaultKeyringUser, connStr, "connection string")
}

// DeleteConnectionString removes the remote database connection string.
func DeleteConnectionString() error {
	return del(constants.DefaultKeyringUser, "connection string")
}

// GetSessionToken retrieves the persisted session token of the signed-in user.
func GetSessionToken() (string, error) {
	return get(constants.SessionKeyringUser)
}

// SetSessionToken persists the session token so later invocations stay signed in.
func SetSessionToken(token string) error {
	return set(constants.SessionKeyringUser, token, "session token")
}

// DeleteSessionToken forgets the persisted session. A missing token is not an error.
func DeleteSessionToken() error {
	if err := del(constants.SessionKeyringUser, "session token"); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// EnsureSigningKey returns the session signing key, generating and storing
// a random one on first use.
func EnsureSigningKey() ([]byte, error) {
	encoded, err := get(constants.SigningKeyringUser)
	if err == nil {
		key, decodeErr := hex.DecodeString(encoded)
		if decodeErr == nil && len(key) == signingKeyBytes {
			return key, nil
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	key := make([]byte, signingKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	if err := set(constants.SigningKeyringUser, hex.EncodeToString(key), "signing key"); err != nil {
		return nil, err
	}
	return key, nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
