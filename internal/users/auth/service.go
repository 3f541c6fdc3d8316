// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/quinca/internal/platform/apperr"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/platform/validate"
	"github.com/taibuivan/quinca/internal/users/access"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT for subject, valid for timeToLive.
	GenerateAccessToken(subject sec.AccessSubject, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use cases of the identity backend.
type Service struct {
	accountRepository   AccountRepository
	sessionRepository   SessionRepository
	challengeRepository ChallengeRepository
	tokenProvider       TokenProvider

	codeVerifier CodeVerifier
	twoFactorTTL time.Duration
	metrics      *Metrics
	now          func() time.Time
}

// Option customizes a [Service].
type Option func(service *Service)

// WithCodeVerifier replaces the default [AcceptWellFormed] verifier.
func WithCodeVerifier(verifier CodeVerifier) Option {
	return func(service *Service) { service.codeVerifier = verifier }
}

// WithTwoFactorTTL sets how long a pending challenge stays valid.
func WithTwoFactorTTL(ttl time.Duration) Option {
	return func(service *Service) {
		if ttl > 0 {
			service.twoFactorTTL = ttl
		}
	}
}

// WithMetrics enables the Prometheus counters.
func WithMetrics(metrics *Metrics) Option {
	return func(service *Service) { service.metrics = metrics }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a new [Service] with its repositories and signer.
func NewService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	challengeRepo ChallengeRepository,
	tokenProv TokenProvider,
	options ...Option,
) *Service {
	service := &Service{
		accountRepository:   accountRepo,
		sessionRepository:   sessionRepo,
		challengeRepository: challengeRepo,
		tokenProvider:       tokenProv,
		codeVerifier:        AcceptWellFormed{},
		twoFactorTTL:        DefaultTwoFactorTTL,
		now:                 time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

/*
Login validates credentials and either issues tokens or opens a two-factor
challenge.

Description: Unknown email and wrong password produce the same 401 so that
accounts cannot be enumerated. Accounts with two-factor enabled receive no
tokens; a challenge is stored instead and RequiresTwoFactor is set.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Identity plus tokens, or the two-factor signal
  - error: Validation, Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	validator := &validate.Validator{}
	validator.Required(access.FieldEmail, input.Email).
		Required(access.FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accountRepository.FindByEmail(context, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			service.metrics.login(outcomeInvalidCredential)
			return nil, apperr.Unauthorized(MessageInvalidCredentials)
		}
		service.metrics.login(outcomeError)
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// bcrypt compares in constant time
	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		service.metrics.login(outcomeInvalidCredential)
		return nil, apperr.Unauthorized(MessageInvalidCredentials)
	}

	if account.TwoFactorEnabled {
		if err := service.challengeRepository.Open(context, account.ID, service.twoFactorTTL); err != nil {
			service.metrics.login(outcomeError)
			return nil, fmt.Errorf("auth_service_open_challenge_failed: %w", err)
		}
		service.metrics.login(outcomeTwoFactorRequired)
		return &LoginResult{User: account.User, RequiresTwoFactor: true}, nil
	}

	result, err := service.issue(context, account, input.UserAgent, input.IPAddress)
	if err != nil {
		service.metrics.login(outcomeError)
		return nil, err
	}
	service.metrics.login(outcomeSuccess)
	return result, nil
}

// VerifyInput carries a second-factor answer.
type VerifyInput struct {
	UserID    string
	Code      string
	UserAgent string
	IPAddress string
}

/*
VerifyTwoFactor completes a login that stopped at the two-factor step.

Description: The code shape is checked first, then the pending challenge,
then the [CodeVerifier]. The challenge is closed only on success so the user
can retry a mistyped code until it expires.

Parameters:
  - context: context.Context
  - input: VerifyInput

Returns:
  - *LoginResult: Identity plus tokens (RequiresTwoFactor is false)
  - error: Validation (bad shape), SessionExpired (no challenge),
    Unauthorized (rejected code) or internal failures
*/
func (service *Service) VerifyTwoFactor(context context.Context, input VerifyInput) (*LoginResult, error) {
	validator := &validate.Validator{}
	validator.Matches(access.FieldCode, input.Code, twoFactorCodePattern, "Must be exactly 6 digits")
	if validator.HasErrors() {
		service.metrics.login(outcomeInvalidCode)
		return nil, apperr.ValidationError(MessageInvalidCode, apperr.FieldError{
			Field:   access.FieldCode,
			Message: "Must be exactly 6 digits",
		})
	}

	pending, err := service.challengeRepository.Pending(context, input.UserID)
	if err != nil {
		service.metrics.login(outcomeError)
		return nil, fmt.Errorf("auth_service_challenge_lookup_failed: %w", err)
	}
	if !pending {
		service.metrics.login(outcomeExpired)
		return nil, apperr.SessionExpired(MessageSessionExpired)
	}

	account, err := service.accountRepository.FindByID(context, input.UserID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			service.metrics.login(outcomeExpired)
			return nil, apperr.SessionExpired(MessageSessionExpired)
		}
		service.metrics.login(outcomeError)
		return nil, fmt.Errorf("auth_service_verify_lookup_failed: %w", err)
	}

	accepted, err := service.codeVerifier.Verify(context, account.User, input.Code)
	if err != nil {
		service.metrics.login(outcomeError)
		return nil, fmt.Errorf("auth_service_verify_code_failed: %w", err)
	}
	if !accepted {
		service.metrics.login(outcomeInvalidCode)
		return nil, apperr.Unauthorized(MessageInvalidCode)
	}

	if err := service.challengeRepository.Close(context, account.ID); err != nil {
		service.metrics.login(outcomeError)
		return nil, fmt.Errorf("auth_service_close_challenge_failed: %w", err)
	}

	result, err := service.issue(context, account, input.UserAgent, input.IPAddress)
	if err != nil {
		service.metrics.login(outcomeError)
		return nil, err
	}
	service.metrics.login(outcomeSuccess)
	return result, nil
}

// issue signs an access token and opens a refresh session for account.
func (service *Service) issue(context context.Context, account *Account, userAgent, ipAddress string) (*LoginResult, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(account.Subject(), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := service.now()
	session := &Session{
		UserID:    account.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(RefreshTokenTTL),
	}
	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	// Best effort; a failed stamp must not fail the login.
	_ = service.accountRepository.TouchLastLogin(context, account.ID, now)
	account.LastLogin = &now

	return &LoginResult{
		User:         account.User,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// # Session Management

/*
Refresh exchanges a refresh token for a new access token.

Description: The refresh token is not rotated; the client keeps using the
same one until logout or expiry. The account is reloaded so that role and
permission changes reach the next access token.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - string: New access token
  - error: Unauthorized or internal failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		service.metrics.refresh(outcomeInvalidCredential)
		return "", validate.RequiredError("refreshToken", "This field is required")
	}

	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			service.metrics.refresh(outcomeExpired)
			return "", apperr.Unauthorized(MessageInvalidRefresh)
		}
		service.metrics.refresh(outcomeError)
		return "", fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	account, err := service.accountRepository.FindByID(context, session.UserID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			service.metrics.refresh(outcomeExpired)
			return "", apperr.Unauthorized("User not found or suspended")
		}
		service.metrics.refresh(outcomeError)
		return "", fmt.Errorf("auth_service_refresh_account_failed: %w", err)
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(account.Subject(), AccessTokenTTL)
	if err != nil {
		service.metrics.refresh(outcomeError)
		return "", fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	service.metrics.refresh(outcomeSuccess)
	return accessToken, nil
}

/*
Logout revokes the refresh session behind refreshToken.

Description: Idempotent; an unknown token is treated as already logged out.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := service.sessionRepository.Revoke(context, sec.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
Me returns the identity of an authenticated account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *access.User: Identity with role and permissions
  - error: NotFound or internal failures
*/
func (service *Service) Me(context context.Context, userID string) (*access.User, error) {
	account, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("auth_service_me_failed: %w", err)
	}
	return account.User, nil
}
