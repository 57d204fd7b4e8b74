// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

/*
Package account serves the authenticated user's own profile.

It is a consumer of the auth core: it reads and writes the same user rows
but never mints tokens. All encrypted-at-rest columns pass through the
central field codec exactly once, on the way in or out of this package.
*/
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kertasdev/kertas/internal/auth"
	"github.com/kertasdev/kertas/internal/platform/sec"
	"github.com/kertasdev/kertas/internal/platform/validate"
)

// # Field Identifiers

const (
	FieldName  = "name"
	FieldPhone = "phone"
)

// Service reads and updates the caller's own account row.
type Service struct {
	users  auth.UserRepository
	fields *sec.FieldCodec
	logger *slog.Logger
}

// NewService constructs an account [Service].
func NewService(users auth.UserRepository, fields *sec.FieldCodec, logger *slog.Logger) *Service {
	return &Service{users: users, fields: fields, logger: logger}
}

// Profile returns the caller's identity hydrated from the current row, not
// from token claims: profile reads always reflect storage.
func (service *Service) Profile(context context.Context, userID int64) (*sec.Identity, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	identity, err := user.Identity(service.fields)
	if err != nil {
		return nil, fmt.Errorf("account_service_hydrate_failed: %w", err)
	}
	return &identity, nil
}

// UpdateInput carries the mutable profile fields.
type UpdateInput struct {
	Name   string
	Avatar string
	Phone  string
}

/*
UpdateProfile rewrites the caller's mutable profile fields.

Description: The phone number is sealed through the field codec before it
touches storage; the returned identity is re-hydrated from the updated row.

Parameters:
  - context: context.Context
  - userID: int64
  - input: UpdateInput

Returns:
  - *sec.Identity: The profile as persisted
  - error: Validation or persistence failures
*/
func (service *Service) UpdateProfile(context context.Context, userID int64, input UpdateInput) (*sec.Identity, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	phoneSealed, err := service.fields.EncryptString(input.Phone)
	if err != nil {
		return nil, fmt.Errorf("account_service_seal_phone_failed: %w", err)
	}

	user.Name = input.Name
	user.Avatar = input.Avatar
	user.PhoneSealed = phoneSealed

	if err := service.users.UpdateProfile(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", slog.Int64("user_id", userID))

	identity, err := user.Identity(service.fields)
	if err != nil {
		return nil, fmt.Errorf("account_service_hydrate_failed: %w", err)
	}
	return &identity, nil
}
