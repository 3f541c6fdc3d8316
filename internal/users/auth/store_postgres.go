// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quinca/internal/users/access"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] on the users schema.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of [AccountRepository].
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const selectAccount = `
	SELECT a.id, a.email, a.passwordhash, a.firstname, a.lastname, a.phone,
	       a.roleid, a.isactive, a.twofactorenabled, a.twofactorsecret,
	       a.lastloginat, a.createdat, a.updatedat,
	       r.id, r.name, r.displayname, r.isactive
	FROM users.account a
	JOIN users.role r ON r.id = a.roleid
	WHERE a.deletedat IS NULL AND a.isactive = TRUE`

/*
FindByEmail retrieves an active account by email, ignoring case.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Account with role and ordered permissions
  - error: ErrAccountNotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	account, err := repository.scanAccount(context, selectAccount+` AND LOWER(a.email) = LOWER($1)`, email)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}
	return account, nil
}

/*
FindByID retrieves an active account by primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Account: Account with role and ordered permissions
  - error: ErrAccountNotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	account, err := repository.scanAccount(context, selectAccount+` AND a.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}
	return account, nil
}

/*
TouchLastLogin stamps lastloginat after a completed authentication.

Parameters:
  - context: context.Context
  - id: string
  - at: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	const query = "UPDATE users.account SET lastloginat = $2, updatedat = $2 WHERE id = $1"
	if _, err := repository.pool.Exec(context, query, id, at); err != nil {
		return fmt.Errorf("postgres_account_repo_touch_last_login_failed: %w", err)
	}
	return nil
}

// scanAccount runs an account query and loads the role permissions.
func (repository *PostgresAccountRepository) scanAccount(context context.Context, query string, argument string) (*Account, error) {
	user := &access.User{Role: &access.Role{}}
	account := &Account{User: user}

	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Email,
		&account.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.RoleID,
		&user.IsActive,
		&user.TwoFactorEnabled,
		&user.TwoFactorSecret,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Role.ID,
		&user.Role.Name,
		&user.Role.DisplayName,
		&user.Role.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	permissions, err := repository.rolePermissions(context, user.RoleID)
	if err != nil {
		return nil, err
	}
	user.Role.Permissions = permissions

	return account, nil
}

// rolePermissions returns the grants of a role in their declared order.
func (repository *PostgresAccountRepository) rolePermissions(context context.Context, roleID string) ([]access.Permission, error) {
	const query = `
		SELECT p.id, p.module, p.action, COALESCE(p.resource, '')
		FROM users.rolepermission rp
		JOIN users.permission p ON p.id = rp.permissionid
		WHERE rp.roleid = $1
		ORDER BY rp.position`

	rows, err := repository.pool.Query(context, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_permissions_failed: %w", err)
	}

	permissions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (access.Permission, error) {
		var permission access.Permission
		err := row.Scan(&permission.ID, &permission.Module, &permission.Action, &permission.Resource)
		return permission, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_permissions_scan_failed: %w", err)
	}

	return permissions, nil
}
