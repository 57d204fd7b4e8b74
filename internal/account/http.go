// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kertasdev/kertas/internal/platform/middleware"
	requestutil "github.com/kertasdev/kertas/internal/platform/request"
	"github.com/kertasdev/kertas/internal/platform/respond"
	"github.com/kertasdev/kertas/internal/platform/validate"
)

// Handler implements the account HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the profile endpoints.
//
// # Endpoints
//   - GET /profile : Returns the caller's profile from storage.
//   - PUT /profile : Updates name, avatar, and phone.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/profile", handler.profile)
	router.Put("/profile", handler.updateProfile)

	return router
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Phone  string `json:"phone"`
}

func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.accountService.Profile(request.Context(), claims.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
UpdateProfile rewrites the caller's profile.

PUT /api/v1/account/profile

Request:
  - Body: updateProfileRequest (Name, Avatar, Phone)

Response:
  - 200: Identity: Profile as persisted, phone in the clear
  - 400: ErrInvalidJSON: Validation failure
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	identity, err := handler.accountService.UpdateProfile(request.Context(), claims.ID, UpdateInput{
		Name:   input.Name,
		Avatar: input.Avatar,
		Phone:  input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}
