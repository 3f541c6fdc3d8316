// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/quinca/internal/users/access"
)

// codePattern is the only accepted shape of a second-factor code.
var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// # Definitions & Constructors

// Manager owns the session of one terminal.
//
// State is guarded by a mutex; backend calls run outside of it. IsLoading is
// the only re-entrancy signal: a second Login while one is in flight is not
// rejected, callers are expected to wait.
type Manager struct {
	store   Store
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextID      int

	refreshes singleflight.Group
}

// Option customizes a [Manager].
type Option func(manager *Manager)

// WithLogger sets the logger of the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(manager *Manager) {
		if logger != nil {
			manager.logger = logger
		}
	}
}

// WithClock overrides the time source used for Tokens.IssuedAt.
func WithClock(now func() time.Time) Option {
	return func(manager *Manager) { manager.now = now }
}

// NewManager creates a [Manager] in the unauthenticated state. Call Restore
// to pick up a persisted session.
func NewManager(store Store, backend Backend, options ...Option) *Manager {
	manager := &Manager{
		store:       store,
		backend:     backend,
		logger:      slog.Default(),
		now:         time.Now,
		subscribers: make(map[int]func(State)),
	}
	for _, option := range options {
		option(manager)
	}
	return manager
}

// # State Management

// State returns a snapshot of the session record.
func (manager *Manager) State() State {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.state
}

// Subscribe registers listener for every state change and returns a function
// that removes it. Listeners run synchronously, outside the manager lock.
func (manager *Manager) Subscribe(listener func(State)) (cancel func()) {
	manager.mu.Lock()
	id := manager.nextID
	manager.nextID++
	manager.subscribers[id] = listener
	manager.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			manager.mu.Lock()
			delete(manager.subscribers, id)
			manager.mu.Unlock()
		})
	}
}

func (manager *Manager) update(mutate func(state *State)) {
	manager.mu.Lock()
	mutate(&manager.state)
	manager.state.IsAuthenticated = manager.state.User != nil
	snapshot := manager.state
	listeners := make([]func(State), 0, len(manager.subscribers))
	for _, listener := range manager.subscribers {
		listeners = append(listeners, listener)
	}
	manager.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

// # Lifecycle

/*
Restore loads a persisted session.

Description: When both the access token and the identity are present and the
identity decodes, the session becomes authenticated. A malformed identity
clears every key and leaves the session unauthenticated; this is logged, not
returned. Calling Restore again with the same stored data yields the same
state.

Returns:
  - error: Store failures only
*/
func (manager *Manager) Restore(ctx context.Context) error {
	token, hasToken, err := manager.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return fmt.Errorf("session_restore_failed: %w", err)
	}
	encoded, hasUser, err := manager.store.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("session_restore_failed: %w", err)
	}

	if !hasToken || token == "" || !hasUser {
		manager.update(func(state *State) { state.User = nil })
		return nil
	}

	user, err := decodeUser(encoded)
	if err != nil {
		manager.logger.WarnContext(ctx, "session_restore_discarded_corrupt_identity", slog.String("error", err.Error()))
		if err := manager.store.Delete(ctx, allKeys...); err != nil {
			return fmt.Errorf("session_restore_cleanup_failed: %w", err)
		}
		manager.update(func(state *State) { *state = State{} })
		return nil
	}

	manager.update(func(state *State) { state.User = user })
	manager.logger.DebugContext(ctx, "session_restored", slog.String("user_id", user.ID))
	return nil
}

/*
Login submits credentials.

Description: Empty email or password is rejected before any call. On success
the outcome names the landing route of the user's role, or the two-factor
route when the account requires a second factor; in the latter case the
identity is kept as pending and the session stays unauthenticated. On failure
State.Error carries the display message and the current user is untouched.
*/
func (manager *Manager) Login(ctx context.Context, credentials Credentials) Outcome {
	if strings.TrimSpace(credentials.Email) == "" || credentials.Password == "" {
		return manager.fail(ErrMissingCredentials, MessageLoginFailed)
	}

	manager.update(func(state *State) {
		state.IsLoading = true
		state.Error = ""
	})

	response, err := manager.backend.Login(ctx, credentials)
	if err == nil && response.User == nil {
		err = fmt.Errorf("session_login_failed: response carries no identity")
	}
	if err != nil {
		manager.logger.InfoContext(ctx, "session_login_failed", slog.String("error", err.Error()))
		return manager.fail(err, MessageLoginFailed)
	}

	if response.RequiresTwoFactor {
		if err := manager.storePending(ctx, response.User); err != nil {
			return manager.fail(err, MessageLoginFailed)
		}
		manager.update(func(state *State) { state.IsLoading = false })
		return Outcome{Destination: access.RouteTwoFactor, RequiresTwoFactor: true}
	}

	return manager.complete(ctx, response, MessageLoginFailed)
}

/*
VerifyTwoFactor answers the second-factor challenge of the pending identity.

Description: The code shape is checked before anything else, so a malformed
code never reaches the pending identity. Without a pending identity the
outcome is ErrSessionExpired. On success the session is authenticated and the
pending identity is discarded.
*/
func (manager *Manager) VerifyTwoFactor(ctx context.Context, code string) Outcome {
	if !codePattern.MatchString(code) {
		return manager.fail(ErrInvalidCode, MessageTwoFactorFailed)
	}

	pending, err := manager.pending(ctx)
	if err != nil {
		return manager.fail(err, MessageTwoFactorFailed)
	}

	manager.update(func(state *State) {
		state.IsLoading = true
		state.Error = ""
	})

	response, err := manager.backend.VerifyTwoFactor(ctx, pending.ID, code)
	if err == nil && response.User == nil {
		response.User = pending
	}
	if err != nil {
		manager.logger.InfoContext(ctx, "session_2fa_failed",
			slog.String("user_id", pending.ID),
			slog.String("error", err.Error()),
		)
		return manager.fail(err, MessageTwoFactorFailed)
	}

	return manager.complete(ctx, response, MessageTwoFactorFailed)
}

// CancelTwoFactor abandons the pending identity and returns the login route.
func (manager *Manager) CancelTwoFactor(ctx context.Context) Outcome {
	if err := manager.store.Delete(ctx, KeyPendingUser); err != nil {
		manager.logger.WarnContext(ctx, "session_pending_cleanup_failed", slog.String("error", err.Error()))
	}
	manager.update(func(state *State) { state.Error = "" })
	return Outcome{Destination: access.RouteLogin}
}

// PendingUser returns the identity awaiting its second factor, or nil.
func (manager *Manager) PendingUser(ctx context.Context) *access.User {
	user, err := manager.pending(ctx)
	if err != nil {
		return nil
	}
	return user
}

/*
RefreshToken exchanges the persisted refresh token for a new access token and
persists it in place.

Description: Concurrent callers holding the same refresh token share a single
exchange. A caller whose context ends stops waiting; the exchange itself
completes for the others.

Returns:
  - string: New access token
  - error: ErrNoRefreshToken, backend or store failures
*/
func (manager *Manager) RefreshToken(ctx context.Context) (string, error) {
	refreshToken, found, err := manager.store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("session_refresh_failed: %w", err)
	}
	if !found || refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	detached := context.WithoutCancel(ctx)
	resultChan := manager.refreshes.DoChan(refreshToken, func() (any, error) {
		return manager.exchange(detached, refreshToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-resultChan:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	}
}

func (manager *Manager) exchange(ctx context.Context, refreshToken string) (string, error) {
	accessToken, err := manager.backend.Refresh(ctx, refreshToken)
	if err != nil {
		manager.logger.WarnContext(ctx, "session_refresh_rejected", slog.String("error", err.Error()))
		return "", err
	}

	// A logout during the exchange wins: do not resurrect the session.
	current, found, err := manager.store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("session_refresh_failed: %w", err)
	}
	if !found || current != refreshToken {
		return "", ErrNoRefreshToken
	}

	if err := manager.store.Set(ctx, KeyAccessToken, accessToken); err != nil {
		return "", fmt.Errorf("session_refresh_persist_failed: %w", err)
	}

	manager.logger.DebugContext(ctx, "session_token_refreshed")
	return accessToken, nil
}

/*
Logout ends the session and returns the login route.

Description: The refresh token is revoked server-side on a best-effort basis,
then every persisted key including the pending identity is removed and the
state is reset. Calling Logout again is harmless.
*/
func (manager *Manager) Logout(ctx context.Context) string {
	if refreshToken, found, err := manager.store.Get(ctx, KeyRefreshToken); err == nil && found && refreshToken != "" {
		if err := manager.backend.Logout(ctx, refreshToken); err != nil {
			manager.logger.WarnContext(ctx, "session_revoke_failed", slog.String("error", err.Error()))
		}
	}

	if err := manager.store.Delete(ctx, allKeys...); err != nil {
		manager.logger.ErrorContext(ctx, "session_clear_failed", slog.String("error", err.Error()))
	}

	manager.update(func(state *State) { *state = State{} })
	manager.logger.InfoContext(ctx, "session_logged_out")
	return access.RouteLogin
}

// # Queries

// IsAuthenticated reports whether an identity is established.
func (manager *Manager) IsAuthenticated() bool {
	return manager.State().IsAuthenticated
}

// User returns the authenticated identity, or nil.
func (manager *Manager) User() *access.User {
	return manager.State().User
}

// Token returns the persisted access token, or "" when there is none.
func (manager *Manager) Token(ctx context.Context) string {
	token, _, err := manager.store.Get(ctx, KeyAccessToken)
	if err != nil {
		manager.logger.WarnContext(ctx, "session_token_read_failed", slog.String("error", err.Error()))
		return ""
	}
	return token
}

// HasPermission reports whether the current identity holds permission.
func (manager *Manager) HasPermission(permission string) bool {
	return access.HasPermission(manager.User(), permission)
}

// HasAnyPermission reports whether the current identity holds one of permissions.
func (manager *Manager) HasAnyPermission(permissions ...string) bool {
	return access.HasAnyPermission(manager.User(), permissions...)
}

// HasRole reports whether the current identity has role.
func (manager *Manager) HasRole(role string) bool {
	return access.HasRole(manager.User(), role)
}

// HasAnyRole reports whether the current identity has one of roles.
func (manager *Manager) HasAnyRole(roles ...string) bool {
	return access.HasAnyRole(manager.User(), roles...)
}

// # Helpers

func (manager *Manager) fail(err error, fallback string) Outcome {
	message := Message(err, fallback)
	manager.update(func(state *State) {
		state.IsLoading = false
		state.Error = message
	})
	return Outcome{Err: err}
}

func (manager *Manager) complete(ctx context.Context, response *LoginResponse, fallback string) Outcome {
	encoded, err := json.Marshal(response.User)
	if err != nil {
		return manager.fail(fmt.Errorf("session_encode_identity_failed: %w", err), fallback)
	}

	tokens := Tokens{AccessToken: response.AccessToken, RefreshToken: response.RefreshToken, IssuedAt: manager.now()}
	for _, entry := range []struct{ key, value string }{
		{KeyAccessToken, tokens.AccessToken},
		{KeyRefreshToken, tokens.RefreshToken},
		{KeyUser, string(encoded)},
	} {
		if err := manager.store.Set(ctx, entry.key, entry.value); err != nil {
			_ = manager.store.Delete(ctx, KeyAccessToken, KeyRefreshToken, KeyUser)
			return manager.fail(fmt.Errorf("session_persist_failed: %w", err), fallback)
		}
	}

	// An authenticated user and a pending identity never coexist.
	if err := manager.store.Delete(ctx, KeyPendingUser); err != nil {
		manager.logger.WarnContext(ctx, "session_pending_cleanup_failed", slog.String("error", err.Error()))
	}

	user := response.User
	manager.update(func(state *State) {
		state.User = user
		state.IsLoading = false
		state.Error = ""
	})

	manager.logger.InfoContext(ctx, "session_authenticated",
		slog.String("user_id", user.ID),
		slog.String("role", user.RoleName()),
		slog.Time("issued_at", tokens.IssuedAt),
	)
	return Outcome{Destination: access.LandingRoute(user)}
}

func (manager *Manager) storePending(ctx context.Context, user *access.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session_encode_identity_failed: %w", err)
	}
	if err := manager.store.Set(ctx, KeyPendingUser, string(encoded)); err != nil {
		return fmt.Errorf("session_persist_pending_failed: %w", err)
	}
	return nil
}

func (manager *Manager) pending(ctx context.Context) (*access.User, error) {
	encoded, found, err := manager.store.Get(ctx, KeyPendingUser)
	if err != nil {
		return nil, fmt.Errorf("session_pending_read_failed: %w", err)
	}
	if !found {
		return nil, ErrSessionExpired
	}

	user, err := decodeUser(encoded)
	if err != nil {
		manager.logger.WarnContext(ctx, "session_pending_discarded_corrupt_identity", slog.String("error", err.Error()))
		_ = manager.store.Delete(ctx, KeyPendingUser)
		return nil, ErrSessionExpired
	}
	return user, nil
}

func decodeUser(encoded string) (*access.User, error) {
	user := &access.User{}
	if err := json.Unmarshal([]byte(encoded), user); err != nil {
		return nil, fmt.Errorf("session_decode_identity_failed: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("session_decode_identity_failed: identity has no id")
	}
	return user, nil
}
