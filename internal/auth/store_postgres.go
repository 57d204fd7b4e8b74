// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/dberr"
)

// userColumns is the canonical select list for account rows.
const userColumns = `id, name, email, password_hash, role, avatar, phone_enc, points_enc, referral_code, created_at, updated_at`

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates the PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// scanUser hydrates one account row from any pgx row source.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Avatar,
		&user.PhoneSealed,
		&user.PointsSealed,
		&user.ReferralCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID retrieves an account by its primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves an account by its unique email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

// Create persists a new account row and backfills the generated ID.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			name, email, password_hash, role, avatar, phone_enc, points_enc, referral_code, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := repository.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Avatar,
		user.PhoneSealed,
		user.PointsSealed,
		user.ReferralCode,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// UpdateProfile persists mutable profile fields.
func (repository *PostgresUserRepository) UpdateProfile(ctx context.Context, user *User) error {
	const query = `
		UPDATE users
		SET name = $2, avatar = $3, phone_enc = $4, updated_at = $5
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Avatar,
		user.PhoneSealed,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_profile_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// ResetPassword replaces the password hash and deletes all outstanding reset
// rows for the account inside one transaction, rolling back on any failure.
func (repository *PostgresUserRepository) ResetPassword(ctx context.Context, userID int64, newHash string) error {
	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_reset_password_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, newHash, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_reset_password_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	// Invalidate every other outstanding reset request for this account.
	if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("postgres_user_repo_reset_password_cleanup_failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_user_repo_reset_password_commit_failed: %w", err)
	}

	return nil
}

// ── Reset Token Repository ───────────────────────────────────────────────────

// PostgresResetTokenRepository implements [ResetTokenRepository].
type PostgresResetTokenRepository struct {
	pool *pgxpool.Pool
}

// NewResetTokenRepository creates the PostgreSQL implementation of [ResetTokenRepository].
func NewResetTokenRepository(pool *pgxpool.Pool) *PostgresResetTokenRepository {
	return &PostgresResetTokenRepository{pool: pool}
}

// Replace supersedes any outstanding request for the user, transactionally.
func (repository *PostgresResetTokenRepository) Replace(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_reset_repo_replace_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("postgres_reset_repo_replace_delete_failed: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO password_resets (user_id, token_hash, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		userID, tokenHash, expiresAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("postgres_reset_repo_replace_insert_failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_reset_repo_replace_commit_failed: %w", err)
	}

	return nil
}

// FindValid returns the unexpired request matching tokenHash.
func (repository *PostgresResetTokenRepository) FindValid(ctx context.Context, tokenHash string, now time.Time) (*PasswordReset, error) {
	const query = `
		SELECT user_id, token_hash, expires_at, created_at
		FROM password_resets
		WHERE token_hash = $1 AND expires_at > $2`

	reset := &PasswordReset{}
	err := repository.pool.QueryRow(ctx, query, tokenHash, now).Scan(
		&reset.UserID,
		&reset.TokenHash,
		&reset.ExpiresAt,
		&reset.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Reset token")
		}
		return nil, fmt.Errorf("postgres_reset_repo_find_valid_failed: %w", err)
	}

	return reset, nil
}
