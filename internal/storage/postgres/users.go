package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/julianstephens/clientmgr/internal/auth"
	"github.com/julianstephens/clientmgr/internal/constants"
	"github.com/julianstephens/clientmgr/internal/storage"
)

var _ auth.UserStore = (*Store)(nil)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == constants.PGUniqueViolation
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, confirmed bool) (auth.User, error) {
	if s.db == nil {
		return auth.User{}, storage.ErrNotLoaded
	}

	var u auth.User
	var confirmedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, confirmed_at)
		VALUES ($1, $2, CASE WHEN $3::boolean THEN now() END)
		RETURNING id, email, password_hash, confirmed_at, created_at`,
		email, passwordHash, confirmed,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &confirmedAt, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.User{}, auth.ErrUserExists
		}
		return auth.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	if confirmedAt.Valid {
		u.ConfirmedAt = &confirmedAt.Time
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	if s.db == nil {
		return auth.User{}, storage.ErrNotLoaded
	}

	var u auth.User
	var confirmedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, confirmed_at, created_at FROM users WHERE email = $1", email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &confirmedAt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if confirmedAt.Valid {
		u.ConfirmedAt = &confirmedAt.Time
	}
	return u, nil
}

func (s *Store) ConfirmUser(ctx context.Context, email string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET confirmed_at = COALESCE(confirmed_at, now()) WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
