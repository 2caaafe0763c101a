package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking-service/internal/models"
)

// CreateUser inserts a new user. Returns ErrDuplicate when the username or
// the email is already taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password, name, email, phone, role, birth_year, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, user, query,
		user.Username, user.Password, user.Name, user.Email, user.Phone,
		user.Role, user.BirthYear, user.Active)
	if isUniqueViolation(err) {
		if violatedConstraint(err) == "users_email_key" {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("username %s: %w", user.Username, ErrDuplicate)
	}
	return err
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile updates the mutable profile fields of a user. Returns
// ErrDuplicate when the new email belongs to another account.
func (s *Store) UpdateUserProfile(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = $1, email = $2, phone = $3, birth_year = $4, role = $5 WHERE id = $6",
		user.Name, user.Email, user.Phone, user.BirthYear, user.Role, user.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
	}
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	return nil
}

// UpdateUserPassword replaces the stored password hash
func (s *Store) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = $1 WHERE id = $2", passwordHash, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}
