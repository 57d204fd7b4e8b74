// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

/*
Package auth implements the dual-token authentication core.

It owns the session lifecycle end to end—credential login, role-partitioned
refresh token rotation, logout, and password recovery.

# Architecture

The package splits transport from policy:

  - [Handler] is the thin HTTP delivery layer (status codes, cookies, JSON).
  - [Service] implements the authentication use cases against storage.
  - [Registry] maps role tiers to signing secrets and validity windows.
  - [CookieManager] owns the refresh cookie attribute contract.
  - [Guard] enforces page-level access policy for the HTML surface.

This layer is strictly responsible for transport concerns.
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kertasdev/kertas/internal/platform/middleware"
	requestutil "github.com/kertasdev/kertas/internal/platform/request"
	"github.com/kertasdev/kertas/internal/platform/respond"
	"github.com/kertasdev/kertas/internal/platform/sec"
	"github.com/kertasdev/kertas/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration,
// Login, Refresh, Logout, Password Reset callbacks).
type Handler struct {
	authService *Service
	cookies     *CookieManager
	limiter     *middleware.RedisLimiter
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, cookies *CookieManager, limiter *middleware.RedisLimiter) *Handler {
	return &Handler{authService: service, cookies: cookies, limiter: limiter}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Creates a new account.
//   - POST /login           : Authenticates and issues the token pair.
//   - POST /refresh         : Rotates the session via refresh cookies.
//   - POST /logout          : Clears every refresh cookie tier.
//   - POST /forgot-password : Starts the password recovery flow.
//   - POST /reset-password  : Completes the password recovery flow.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/reset-password", handler.resetPassword)

	// Credential-guessing targets get a per-IP throttle.
	router.Group(func(r chi.Router) {
		r.Use(middleware.ThrottleAuth(handler.limiter, "login"))
		r.Post("/login", handler.login)
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.ThrottleAuth(handler.limiter, "forgot"))
		r.Post("/forgot-password", handler.forgotPassword)
	})

	return router
}

// # Wire Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// sessionResponse is the contract for login and refresh: the access token
// travels in the body, the refresh token only ever in the cookie.
type sessionResponse struct {
	Success     bool         `json:"success"`
	AccessToken string       `json:"accessToken"`
	User        sec.Identity `json:"user"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeSession sets the role-scoped refresh cookie and writes the session body.
func (handler *Handler) writeSession(writer http.ResponseWriter, session *Session) {
	handler.cookies.SetRefreshCookie(writer, session.Identity.Role, session.RefreshToken)
	respond.JSON(writer, http.StatusOK, sessionResponse{
		Success:     true,
		AccessToken: session.AccessToken,
		User:        session.Identity,
	})
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database.

Request:
  - Body: registerRequest (Name, Email, Password, Phone)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 2).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, returns the access token in the body,
and injects the role-scoped refresh cookie into the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: sessionResponse: Access token and user identity
  - 401: ErrUnauthorized: Invalid credentials
  - 429: ErrRateLimited: Too many attempts from this address
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session)
}

/*
Refresh rotates the session using whichever refresh cookie tier verifies.

POST /api/v1/auth/refresh

Description: Scans the super-admin, admin, and user refresh cookies in
priority order. The first cookie that verifies against its tier secret and
still maps to a live account yields a fresh token pair; cookies that fail
verification are cleared even when a later tier succeeds.

Response:
  - 200: sessionResponse: New access token, identity, and rotated cookie
  - 401: ErrUnauthorized: No cookie tier produced a valid session
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	session, stale, err := handler.authService.Refresh(request.Context(), handler.cookies.RefreshCookies(request))

	// Stale tiers lose their cookie regardless of the overall outcome.
	for _, role := range stale {
		handler.cookies.ClearRefreshCookie(writer, role)
	}

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session)
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Description: Clears all three refresh cookie tiers unconditionally. The
endpoint never fails: a client with no cookies still receives 200 so that
logout is safely retryable.

Response:
  - 200: statusResponse: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.cookies.ClearAllRefreshCookies(writer)

	respond.JSON(writer, http.StatusOK, statusResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Sends a password reset link to the provided email if the
account exists. The response is identical either way.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: statusResponse: Generic acknowledgement
  - 400: ErrInvalidJSON: Invalid email format
  - 429: ErrRateLimited: Too many attempts from this address
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, statusResponse{
		Success: true,
		Message: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Description: Validates the reset token and updates the user's password.

Request:
  - Body: resetPasswordRequest (Token, Password)

Response:
  - 200: statusResponse: Password updated
  - 400: ErrInvalidJSON: Bad token or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, statusResponse{
		Success: true,
		Message: "Password updated successfully",
	})
}
