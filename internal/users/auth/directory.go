// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/users/access"
)

// DirectoryRepository serves the built-in demo accounts of [access.DirectoryUsers].
// It is selected with IDENTITY_SOURCE=directory and used by tests.
type DirectoryRepository struct {
	hashOnce sync.Once
	hash     string
	hashErr  error

	mu         sync.Mutex
	lastLogins map[string]time.Time
}

// NewDirectoryRepository creates a [DirectoryRepository].
func NewDirectoryRepository() *DirectoryRepository {
	return &DirectoryRepository{lastLogins: make(map[string]time.Time)}
}

// FindByEmail implements [AccountRepository].
func (repository *DirectoryRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	return repository.find(access.ByEmail(email))
}

// FindByID implements [AccountRepository].
func (repository *DirectoryRepository) FindByID(_ context.Context, id string) (*Account, error) {
	return repository.find(access.ByID(id))
}

// TouchLastLogin implements [AccountRepository].
func (repository *DirectoryRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.lastLogins[id] = at
	return nil
}

func (repository *DirectoryRepository) find(match func(user *access.User) bool) (*Account, error) {
	user := access.FindDirectoryUser(match)
	if user == nil {
		return nil, ErrAccountNotFound
	}

	// The demo password is hashed once, lazily, so that bcrypt stays the only
	// comparison path of the service.
	repository.hashOnce.Do(func() {
		repository.hash, repository.hashErr = sec.HashPassword(access.DemoPassword)
	})
	if repository.hashErr != nil {
		return nil, fmt.Errorf("directory_repo_hash_failed: %w", repository.hashErr)
	}

	repository.mu.Lock()
	if at, found := repository.lastLogins[user.ID]; found {
		user.LastLogin = &at
	}
	repository.mu.Unlock()

	return &Account{User: user, PasswordHash: repository.hash}, nil
}
