// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/taibuivan/quinca/internal/platform/constants"
)

// Authenticator is the part of [Manager] the [Transport] depends on.
type Authenticator interface {
	Token(ctx context.Context) string
	RefreshToken(ctx context.Context) (string, error)
	Logout(ctx context.Context) string
}

// Transport is an [http.RoundTripper] that authenticates outbound API calls.
//
//  1. Requests whose URL contains /auth/ or /public/, or that carry the
//     Skip-Auth header, are sent as-is (the header is stripped).
//  2. Others get "Authorization: Bearer <token>" when a token is persisted.
//  3. A 401 answer triggers one RefreshToken and one retry with the new
//     token. If the refresh fails, the session is logged out and the refresh
//     error is returned.
type Transport struct {
	Base    http.RoundTripper
	Session Authenticator
}

// NewTransport wraps base (nil means [http.DefaultTransport]).
func NewTransport(base http.RoundTripper, session Authenticator) *Transport {
	return &Transport{Base: base, Session: session}
}

func (transport *Transport) base() http.RoundTripper {
	if transport.Base != nil {
		return transport.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements [http.RoundTripper].
func (transport *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	ctx := request.Context()

	// ── 1. Public Calls ───────────────────────────────────────────────────
	if skipsAuth(request) {
		if request.Header.Get(constants.HeaderSkipAuth) != "" {
			request = request.Clone(ctx)
			request.Header.Del(constants.HeaderSkipAuth)
		}
		return transport.base().RoundTrip(request)
	}

	// ── 2. Bearer Injection ───────────────────────────────────────────────
	token := transport.Session.Token(ctx)
	response, err := transport.base().RoundTrip(withBearer(request, token))
	if err != nil || response.StatusCode != http.StatusUnauthorized || isRefreshCall(request) {
		return response, err
	}

	// Anonymous calls get the 401 as is.
	if token == "" {
		return response, nil
	}

	// A consumed body cannot be replayed.
	if request.Body != nil && request.Body != http.NoBody && request.GetBody == nil {
		return response, nil
	}

	// ── 3. Refresh & Retry ────────────────────────────────────────────────
	drain(response)

	accessToken, err := transport.Session.RefreshToken(ctx)
	if err != nil {
		transport.Session.Logout(ctx)
		return nil, err
	}

	retry := withBearer(request, accessToken)
	if request.GetBody != nil {
		body, err := request.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return transport.base().RoundTrip(retry)
}

func skipsAuth(request *http.Request) bool {
	if request.Header.Get(constants.HeaderSkipAuth) != "" {
		return true
	}
	url := request.URL.String()
	return strings.Contains(url, "/auth/") || strings.Contains(url, "/public/")
}

func isRefreshCall(request *http.Request) bool {
	return strings.Contains(request.URL.Path, "/auth/refresh")
}

func withBearer(request *http.Request, token string) *http.Request {
	clone := request.Clone(request.Context())
	if token != "" {
		clone.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	return clone
}

func drain(response *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 1<<16))
	_ = response.Body.Close()
}
