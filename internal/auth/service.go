// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/mail"
	"github.com/kertasdev/kertas/internal/platform/sec"
)

// Service implements the authentication use cases: credential login, the
// role-scanning session refresh, and the password-reset lifecycle.
//
// # Review Process
//
// This service is critical for security. Any changes to token issuance,
// refresh scanning, or the reset flow must be reviewed by the security team.
type Service struct {
	users    UserRepository
	resets   ResetTokenRepository
	registry *Registry
	fields   *sec.FieldCodec
	mailer   mail.Sender

	// baseURL prefixes emailed reset links.
	baseURL string

	// now is injected for deterministic expiry tests.
	now func() time.Time
}

// NewService constructs a [Service] with its collaborators.
func NewService(
	users UserRepository,
	resets ResetTokenRepository,
	registry *Registry,
	fields *sec.FieldCodec,
	mailer mail.Sender,
	baseURL string,
) *Service {
	return &Service{
		users:    users,
		resets:   resets,
		registry: registry,
		fields:   fields,
		mailer:   mailer,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

// Session is a freshly issued token pair plus the identity both tokens carry.
type Session struct {
	AccessToken  string
	RefreshToken string
	Identity     sec.Identity
}

// issueSession re-reads nothing: it converts an already-fresh user row into
// a token pair. Callers are responsible for the row being current.
func (service *Service) issueSession(user *User) (*Session, error) {
	identity, err := user.Identity(service.fields)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	accessToken, err := service.registry.IssueAccess(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.registry.IssueRefresh(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Identity:     identity,
	}, nil
}

// # Registration & Login

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Register validates, hashes, and persists a brand new account.
//
// # Business Rules
//   - Emails must be unique.
//   - Default tier is always the user role; elevation happens out of band.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	phoneSealed, err := service.fields.EncryptString(input.Phone)
	if err != nil {
		return nil, fmt.Errorf("auth_service_seal_phone_failed: %w", err)
	}

	pointsSealed, err := service.fields.EncryptString("0")
	if err != nil {
		return nil, fmt.Errorf("auth_service_seal_points_failed: %w", err)
	}

	referral, err := sec.GenerateSecureToken(4)
	if err != nil {
		return nil, fmt.Errorf("auth_service_referral_failed: %w", err)
	}

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser, // Rule: default tier is always User
		PhoneSealed:  phoneSealed,
		PointsSealed: pointsSealed,
		ReferralCode: "KRT-" + strings.ToUpper(referral),
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login validates credentials and issues the initial token pair.
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		// Generic unauthorized error to prevent account enumeration.
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueSession(user)
}

// # Session Refresh

// Refresh attempts token rotation across all role tiers in priority order.
//
// # State Machine (per tier, first success wins)
//
//  1. No cookie for the tier: skip to the next tier.
//  2. Cookie fails verification against the tier's secret: mark the tier
//     stale (caller clears its cookie), continue.
//  3. Verified, but the account row no longer exists: continue. A token is
//     never trusted for a deleted account.
//  4. Verified and the account exists: rebuild the identity from the fresh
//     row and issue a new pair under the account's CURRENT role.
//
// The returned stale slice lists tiers whose cookies must be cleared even
// when a later tier succeeds.
func (service *Service) Refresh(ctx context.Context, cookies map[sec.Role]string) (*Session, []sec.Role, error) {
	var stale []sec.Role

	for _, role := range sec.RefreshOrder {
		token, present := cookies[role]
		if !present {
			continue
		}

		claimed, ok := service.registry.VerifyRefresh(role, token)
		if !ok {
			stale = append(stale, role)
			continue
		}

		user, err := service.users.FindByID(ctx, claimed.ID)
		if err != nil {
			if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
				// Account deleted since issuance. Try the next tier.
				continue
			}
			// Anything else is a storage fault, not a missing account.
			return nil, stale, apperr.Internal(err)
		}

		session, err := service.issueSession(user)
		if err != nil {
			return nil, stale, err
		}
		return session, stale, nil
	}

	return nil, stale, apperr.Unauthorized("Invalid or expired refresh token")
}

// # Password Reset

// RequestPasswordReset begins the recovery flow for email.
//
// The response never reveals whether the address is registered: an unknown
// email is a silent no-op. For a known account, any previously outstanding
// request is superseded and only the SHA-256 digest of the new token is
// stored.
func (service *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil
		}
		return err
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	expiresAt := service.now().Add(ResetTokenTTL)
	if err := service.resets.Replace(ctx, user.ID, sec.HashToken(token), expiresAt); err != nil {
		return err
	}

	link := service.baseURL + "/account/reset-password?token=" + token
	message := mail.Message{
		To:      user.Email,
		Subject: "Reset your Kertas password",
		HTML: "<p>Hi " + user.Name + ",</p>" +
			"<p>A password reset was requested for your account. The link below is valid for one hour.</p>" +
			"<p><a href=\"" + link + "\">Reset password</a></p>" +
			"<p>If you did not request this, you can safely ignore this email.</p>",
	}

	if err := service.mailer.Send(message); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// ResetPassword completes the recovery flow.
//
// The incoming plaintext token is hashed before lookup; plaintext never
// touches a query. Password update and reset-row cleanup commit atomically.
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := service.resets.FindValid(ctx, sec.HashToken(token), service.now())
	if err != nil {
		if apperr.IsAppError(err) {
			return apperr.ValidationError("Invalid or expired reset token")
		}
		return err
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	return service.users.ResetPassword(ctx, reset.UserID, newHash)
}
