// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/users/access"
)

// Backend is the identity service the [Manager] authenticates against.
type Backend interface {
	Login(ctx context.Context, credentials Credentials) (*LoginResponse, error)
	VerifyTwoFactor(ctx context.Context, userID, code string) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Logout revokes refreshToken server-side. Failures do not prevent the
	// local logout.
	Logout(ctx context.Context, refreshToken string) error
}

// APIError is a non-2xx answer of the identity API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	kind error
}

func (apiError *APIError) Error() string {
	return fmt.Sprintf("session: api responded %d %s: %s", apiError.StatusCode, apiError.Code, apiError.Message)
}

// Unwrap exposes the package sentinel matching the answer, if any.
func (apiError *APIError) Unwrap() error { return apiError.kind }

// # HTTP

// HTTPBackend calls the Quinca identity API.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend targets the API at baseURL (scheme and host, without the
// /api/v1 prefix). A nil client uses a client with a 15 second timeout.
func NewHTTPBackend(baseURL string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPBackend{baseURL: strings.TrimRight(baseURL, "/") + "/api/v1/auth", client: client}
}

// Login implements [Backend].
func (backend *HTTPBackend) Login(ctx context.Context, credentials Credentials) (*LoginResponse, error) {
	response := &LoginResponse{}
	err := backend.post(ctx, "/login", map[string]string{
		"email":    credentials.Email,
		"password": credentials.Password,
	}, response, func(status int, _ string) error {
		if status == http.StatusUnauthorized {
			return ErrInvalidCredentials
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// VerifyTwoFactor implements [Backend].
func (backend *HTTPBackend) VerifyTwoFactor(ctx context.Context, userID, code string) (*LoginResponse, error) {
	response := &LoginResponse{}
	err := backend.post(ctx, "/2fa/verify", map[string]string{
		"userId": userID,
		"code":   code,
	}, response, func(status int, errorCode string) error {
		switch {
		case status == http.StatusBadRequest:
			return ErrInvalidCode
		case errorCode == "SESSION_EXPIRED":
			return ErrSessionExpired
		case status == http.StatusUnauthorized:
			return ErrInvalidCode
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Refresh implements [Backend].
func (backend *HTTPBackend) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var response struct {
		AccessToken string `json:"accessToken"`
	}
	err := backend.post(ctx, "/refresh", map[string]string{"refreshToken": refreshToken}, &response,
		func(status int, _ string) error {
			if status == http.StatusUnauthorized {
				return ErrSessionExpired
			}
			return nil
		})
	if err != nil {
		return "", err
	}
	return response.AccessToken, nil
}

// Logout implements [Backend].
func (backend *HTTPBackend) Logout(ctx context.Context, refreshToken string) error {
	return backend.post(ctx, "/logout", map[string]string{"refreshToken": refreshToken}, nil, nil)
}

func (backend *HTTPBackend) post(ctx context.Context, path string, body, target any, classify func(status int, code string) error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("session_backend_marshal_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, backend.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("session_backend_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set(constants.HeaderSkipAuth, "true")

	response, err := backend.client.Do(request)
	if err != nil {
		return fmt.Errorf("session_backend_call_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(io.LimitReader(response.Body, 1<<16)).Decode(&envelope)

		apiError := &APIError{StatusCode: response.StatusCode, Code: envelope.Code, Message: envelope.Error}
		if classify != nil {
			apiError.kind = classify(response.StatusCode, envelope.Code)
		}
		return apiError
	}

	if target == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: target}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("session_backend_decode_failed: %w", err)
	}
	return nil
}

// # Directory

// DirectoryBackend authenticates against the built-in demo accounts without
// any network. Every account shares [access.DemoPassword]; any six-digit
// code passes the second factor.
type DirectoryBackend struct{}

// NewDirectoryBackend returns a [DirectoryBackend].
func NewDirectoryBackend() *DirectoryBackend { return &DirectoryBackend{} }

// Login implements [Backend].
func (DirectoryBackend) Login(_ context.Context, credentials Credentials) (*LoginResponse, error) {
	user := access.FindDirectoryUser(access.ByEmail(credentials.Email))
	if user == nil || credentials.Password != access.DemoPassword {
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		return &LoginResponse{User: user, RequiresTwoFactor: true}, nil
	}
	return issueDirectoryTokens(user), nil
}

// VerifyTwoFactor implements [Backend].
func (DirectoryBackend) VerifyTwoFactor(_ context.Context, userID, code string) (*LoginResponse, error) {
	if !codePattern.MatchString(code) {
		return nil, ErrInvalidCode
	}

	user := access.FindDirectoryUser(access.ByID(userID))
	if user == nil {
		return nil, ErrSessionExpired
	}
	return issueDirectoryTokens(user), nil
}

// Refresh implements [Backend].
func (DirectoryBackend) Refresh(_ context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}
	return opaqueToken("directory_access_"), nil
}

// Logout implements [Backend].
func (DirectoryBackend) Logout(context.Context, string) error { return nil }

func issueDirectoryTokens(user *access.User) *LoginResponse {
	return &LoginResponse{
		User:         user,
		AccessToken:  opaqueToken("directory_access_"),
		RefreshToken: opaqueToken("directory_refresh_"),
	}
}

func opaqueToken(prefix string) string {
	token, err := sec.GenerateSecureToken(16)
	if err != nil {
		return prefix + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return prefix + token
}
