// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/middleware"
	requestutil "github.com/taibuivan/quinca/internal/platform/request"
	"github.com/taibuivan/quinca/internal/platform/respond"
	"github.com/taibuivan/quinca/internal/platform/validate"
	"github.com/taibuivan/quinca/internal/users/access"
)

// # Definitions & Constructors

// Handler implements the identity HTTP endpoints.
//
// # Scope
//
// Credential and code checks are throttled per client IP; the remaining
// endpoints are cheap and rely on the global limiter.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the identity routes.
//
// # Endpoints
//   - POST /login      : Checks credentials, may open a 2FA challenge.
//   - POST /2fa/verify : Completes a login with a six-digit code.
//   - POST /refresh    : Exchanges a refresh token for an access token.
//   - POST /logout     : Revokes a refresh token.
//   - GET  /me         : Returns the authenticated identity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.CredentialThrottle(constants.CredentialRateLimit, constants.CredentialRateWindow))
		r.Post("/login", handler.login)
		r.Post("/2fa/verify", handler.verifyTwoFactor)
	})

	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

/*
Login authenticates a staff member.

POST /api/v1/auth/login

Description: Verifies credentials. Accounts without two-factor receive an
access and refresh token; the others receive requiresTwoFactor=true and
empty tokens.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: LoginResult
  - 400: ErrInvalidJSON / validation failure
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
VerifyTwoFactor completes a login that required a second factor.

POST /api/v1/auth/2fa/verify

Request:
  - Body: verifyRequest (UserID, Code)

Response:
  - 200: LoginResult with tokens
  - 400: Code is not six digits
  - 401: No pending challenge (SESSION_EXPIRED) or code rejected
*/
func (handler *Handler) verifyTwoFactor(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(access.FieldUserID, input.UserID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.VerifyTwoFactor(request.Context(), VerifyInput{
		UserID:    input.UserID,
		Code:      input.Code,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Refresh issues a new access token.

POST /api/v1/auth/refresh

Description: The refresh token is not rotated.

Response:
  - 200: refreshResponse
  - 401: Missing, unknown or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	accessToken, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, refreshResponse{AccessToken: accessToken})
}

/*
Logout terminates a refresh session.

POST /api/v1/auth/logout

Response:
  - 204: No Content (also for unknown tokens)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Me returns the identity behind the bearer token.

GET /api/v1/auth/me

Response:
  - 200: access.User
  - 401: Not authenticated
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
