// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx failures into client-facing errors so that a
// duplicate sale number or a dangling product reference never surfaces as raw
// SQLSTATE text.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/quinca/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes classified by [Wrap].
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Wrap classifies err. resource names the entity in the client message
// ("Sale", "Sale line"). No rows becomes NOT_FOUND, unique violations become
// CONFLICT, foreign key and check violations become UNPROCESSABLE, and the
// rest is INTERNAL_ERROR.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		notFound := apperr.NotFound(resource)
		notFound.Cause = err
		return notFound
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		var mapped *apperr.AppError
		switch pgError.Code {
		case codeUniqueViolation:
			mapped = apperr.Conflict(resource + " already exists")
		case codeForeignKeyViolation:
			mapped = apperr.Unprocessable(resource + " references a missing record")
		case codeCheckViolation:
			mapped = apperr.Unprocessable(resource + " violates a data constraint")
		}
		if mapped != nil {
			mapped.Cause = err
			return mapped
		}
	}

	return apperr.Internal(err)
}
