package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
)

// inserts new user into table, returns new user ID.
func (s *sqlStore) CreateUser(ctx context.Context, email, hashedPassword string, name *string) (int, error) {
	query := s.db.Rebind(`
	INSERT INTO users (email, hashed_password, name, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	RETURNING id;
	`)
	var newID int
	err := s.db.QueryRowxContext(ctx, query, email, hashedPassword, name).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user %s: %w", email, ErrConflict)
		}
		log.Error().Err(err).Msg("failed to create user")
		return 0, fail("create user", err)
	}
	return newID, nil
}

// fetches user by email. returns ErrNotFound if missing.
func (s *sqlStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := s.db.Rebind(`
	SELECT id, email, hashed_password, name, created_at, updated_at
	FROM users
	WHERE email = ?;
	`)
	err := s.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Msg("failed to get user by email")
		return nil, fail("get user", err)
	}
	return &u, nil
}

// fetches a user by ID. returns ErrNotFound if missing.
func (s *sqlStore) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	query := s.db.Rebind(`
	SELECT id, email, hashed_password, name, created_at, updated_at
	FROM users
	WHERE id = ?;
	`)
	err := s.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Msg("failed to get user by id")
		return nil, fail("get user", err)
	}
	return &u, nil
}

// updates a user's email and name, and bumps updated_at.
func (s *sqlStore) UpdateUserProfile(ctx context.Context, id int, email string, name *string) error {
	query := s.db.Rebind(`
	UPDATE users
	SET email = ?,
	name = ?,
	updated_at = CURRENT_TIMESTAMP
	WHERE id = ?;
	`)
	res, err := s.db.ExecContext(ctx, query, email, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", email, ErrConflict)
		}
		log.Error().Err(err).Msg("failed to update user profile - exec")
		return fail("update user", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Msg("failed to update user profile - rows affected")
		return fail("update user", err)
	}
	if rows == 0 {
		log.Error().Msg("failed to update user profile - no such user")
		return ErrNotFound
	}
	return nil
}
