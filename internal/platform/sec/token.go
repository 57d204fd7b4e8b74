// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing,
// field encryption) from the domain logic. It acts as an Infrastructure
// service injected into the Application layer via small interfaces.
package sec

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user payload embedded inside every signed token.
//
// # Ownership
//
// The payload is owned by the auth core. Route-level handlers only consume a
// verified Identity; they never mutate it. At refresh time the payload is
// rebuilt from the persisted account row, never copied from an old token.
type Identity struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Avatar       string `json:"avatar,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Points       int64  `json:"points,omitempty"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// identityClaims wraps an [Identity] with the registered JWT claim set.
type identityClaims struct {
	jwt.RegisteredClaims
	Identity
}

// Codec creates and verifies signed, expiring identity tokens.
//
// # Contract
//
// Issue is deterministic given a fixed clock. Verify never returns an error:
// callers use failure as a normal branch (try the next role tier), not an
// exceptional one, so any failure collapses to ok=false.
type Codec struct {
	// Issuer is the 'iss' claim stamped on every token.
	Issuer string

	// Now supplies the current time. Nil means [time.Now]. Injected so
	// expiry behavior is testable without sleeping.
	Now func() time.Time
}

// Issue signs identity with secret, embedding an expiration of ttl from issuance.
func (codec *Codec) Issue(identity Identity, secret []byte, ttl time.Duration) (string, error) {
	currentTime := codec.now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    codec.Issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
		},
		Identity: identity,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify returns the decoded identity if the signature and expiration are
// valid. It returns (nil, false) on any failure: expired, malformed, wrong
// secret, or tampered payload.
func (codec *Codec) Verify(tokenString string, secret []byte) (*Identity, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		},
		jwt.WithTimeFunc(codec.now),
	)
	if err != nil {
		return nil, false
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return nil, false
	}

	identity := claims.Identity
	return &identity, true
}

// now resolves the injected clock, defaulting to the wall clock.
func (codec *Codec) now() time.Time {
	if codec.Now != nil {
		return codec.Now()
	}
	return time.Now()
}
