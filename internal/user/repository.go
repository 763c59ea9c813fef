// Package user keeps local user rows in sync with the identity provider.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/smartguide/smartguide/internal/identity"
)

// User is a locally persisted user linked to a provider identity.
type User struct {
	ID             int64     `db:"id"`
	ProviderUserID string    `db:"provider_user_id"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	ImageURL       string    `db:"image_url"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Repository defines operations for managing users.
type Repository interface {
	FindByProviderID(ctx context.Context, providerUserID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Ensure(ctx context.Context, id identity.Identity) (*User, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindByProviderID returns the user linked to a provider id, or nil.
func (r *DBRepository) FindByProviderID(ctx context.Context, providerUserID string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		"SELECT * FROM users WHERE provider_user_id = ?", providerUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user by provider id) > %w", err)
	}
	return &u, nil
}

// FindByEmail returns the user with the email, or nil.
func (r *DBRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user by email) > %w", err)
	}
	return &u, nil
}

// Ensure resolves a verified identity to a local user: refresh the row linked
// to the provider id, else attach the provider id to an existing row with the
// same email, else create a new row.
func (r *DBRepository) Ensure(ctx context.Context, id identity.Identity) (*User, error) {
	existing, err := r.FindByProviderID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if _, err := r.db.ExecContext(ctx,
			"UPDATE users SET name = ?, image_url = ?, email = ? WHERE provider_user_id = ?",
			id.Name, id.ImageURL, id.Email, id.UserID); err != nil {
			return nil, fmt.Errorf("db.ExecContext(update user) > %w", err)
		}
		return r.FindByProviderID(ctx, id.UserID)
	}

	byEmail, err := r.FindByEmail(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil {
		if _, err := r.db.ExecContext(ctx,
			"UPDATE users SET provider_user_id = ?, name = ?, image_url = ? WHERE email = ?",
			id.UserID, id.Name, id.ImageURL, id.Email); err != nil {
			return nil, fmt.Errorf("db.ExecContext(link user by email) > %w", err)
		}
		return r.FindByProviderID(ctx, id.UserID)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (provider_user_id, email, name, image_url) VALUES (?, ?, ?, ?)",
		id.UserID, id.Email, id.Name, id.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext(insert user) > %w", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId() > %w", err)
	}
	return &User{
		ID:             userID,
		ProviderUserID: id.UserID,
		Email:          id.Email,
		Name:           id.Name,
		ImageURL:       id.ImageURL,
	}, nil
}
