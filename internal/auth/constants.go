// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import "time"

// # Token Validity Windows

const (
	// AccessTokenTTL is the duration an access token remains valid. It is
	// deliberately long: refresh rotation re-validates against storage, and
	// the role-partitioned refresh secrets provide the real boundary.
	AccessTokenTTL = 7 * 24 * time.Hour

	// PrivilegedRefreshTTL bounds super-admin and admin refresh tokens.
	PrivilegedRefreshTTL = 6 * time.Hour

	// StandardRefreshTTL bounds regular user refresh tokens.
	StandardRefreshTTL = 180 * 24 * time.Hour

	// ResetTokenTTL is the duration a password reset token remains valid.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32
)

// # Cookie Names
//
// One deterministic cookie name per role tier. The names are part of the
// client contract: logout clears all three unconditionally.

const (
	CookieNameSuperAdmin = "superAdminRefreshToken"
	CookieNameAdmin      = "adminRefreshToken"
	CookieNameUser       = "refreshToken"
)

// # Validation Field Identifiers

const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldPhone    = "phone"
	FieldToken    = "token"
)
