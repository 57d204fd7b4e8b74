// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for accounts.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([PostgresUserRepository]).
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no account is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new account.
	//
	// Returns [apperr.Conflict] if the email is already registered.
	Create(ctx context.Context, user *User) error

	// UpdateProfile persists mutable profile fields (name, avatar, sealed
	// phone). Passwords are updated only via [UserRepository.ResetPassword]
	// to prevent accidental overwrites during profile edits.
	UpdateProfile(ctx context.Context, user *User) error

	// ResetPassword replaces the password hash and deletes every
	// outstanding reset request for the account, in a single transaction.
	// Either both writes land or neither does.
	ResetPassword(ctx context.Context, userID int64, newHash string) error
}

// ResetTokenRepository stores outstanding password-reset requests.
type ResetTokenRepository interface {
	// Replace supersedes any outstanding request for the user with a new
	// hashed token and expiry, transactionally. At most one live row per
	// user exists afterwards.
	Replace(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error

	// FindValid returns the unexpired request matching tokenHash.
	//
	// Returns [apperr.NotFound] if the hash is unknown or expired.
	FindValid(ctx context.Context, tokenHash string, now time.Time) (*PasswordReset, error)
}
