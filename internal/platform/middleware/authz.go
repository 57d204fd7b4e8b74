// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

// Package middleware provides the HTTP middleware chain for the Kertas API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/ctxkey"
	"github.com/kertasdev/kertas/internal/platform/respond"
	"github.com/kertasdev/kertas/internal/platform/sec"
)

// AccessVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining AccessVerifier here decouples the middleware from the `auth`
// package implementation, allowing us to easily inject mocks during unit testing.
type AccessVerifier interface {
	// VerifyAccess returns the embedded identity when the access token is
	// valid, or ok=false on any failure. Failure is a normal branch, so no
	// error is surfaced.
	VerifyAccess(tokenString string) (*sec.Identity, bool)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [AccessVerifier].
//  4. Inject [*sec.Identity] into the request context for downstream use.
func Authenticate(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			// The client is never told whether the token was expired or
			// tampered with; both collapse to the same 401.
			identity, ok := verifier.VerifyAccess(parts[1])
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := GetUser(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.Identity] exists in context (implies AuthN).
//  2. Check if the user's tier meets or exceeds the target via [sec.Role.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser retrieves the [*sec.Identity] from the [context.Context].
//
// # Returns
//   - A pointer to [sec.Identity] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.Identity {
	identity, ok := ctx.Value(ctxkey.KeyUser).(*sec.Identity)
	if !ok {
		return nil
	}
	return identity
}
