// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kertasdev/kertas/internal/platform/sec"
)

// User represents a registered account row.
//
// # Rules
//   - Email is unique.
//   - PasswordHash is generated via Bcrypt exclusively by the auth Service.
//   - Phone and Points are stored encrypted at rest and decrypted only once,
//     inside [User.Identity].
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.Role  `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	PhoneSealed  string    `json:"-"` // Ciphertext. Omitted for security.
	PointsSealed string    `json:"-"` // Ciphertext. Omitted for security.
	ReferralCode string    `json:"referralCode,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity rebuilds the token payload from the persisted row, decoding the
// encrypted-at-rest fields exactly once.
//
// # Invariant
//
// This is the only conversion point from storage row to token payload. The
// payload is never reconstructed from an old token's embedded claims.
func (user *User) Identity(fields *sec.FieldCodec) (sec.Identity, error) {
	phone, err := fields.DecryptString(user.PhoneSealed)
	if err != nil {
		return sec.Identity{}, fmt.Errorf("auth: failed to decode phone for user %d: %w", user.ID, err)
	}

	pointsRaw, err := fields.DecryptString(user.PointsSealed)
	if err != nil {
		return sec.Identity{}, fmt.Errorf("auth: failed to decode points for user %d: %w", user.ID, err)
	}

	var points int64
	if pointsRaw != "" {
		points, err = strconv.ParseInt(pointsRaw, 10, 64)
		if err != nil {
			return sec.Identity{}, fmt.Errorf("auth: malformed points value for user %d: %w", user.ID, err)
		}
	}

	return sec.Identity{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		Avatar:       user.Avatar,
		Phone:        phone,
		Points:       points,
		ReferralCode: user.ReferralCode,
	}, nil
}

// PasswordReset is one outstanding password-reset request.
//
// # Security Concept
//
// Only the SHA-256 digest of the emailed token is persisted. The plaintext
// exists solely in the emailed link and the confirmation request, so a
// database leak never exposes a usable reset credential.
type PasswordReset struct {
	UserID    int64     `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
