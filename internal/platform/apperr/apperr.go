// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type that crosses the HTTP boundary.

Domain packages return plain sentinels (bad credentials, expired two-factor
challenge, insufficient payment, exhausted stock). Handlers translate them
with [From] and a [Mapping] table; the respond package renders the result as
{"error","code","details"}. Anything that reaches respond without being an
[AppError] is rendered as INTERNAL_ERROR.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a client-facing failure. Cause is logged, never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # 4xx

// NotFound reports a missing resource, e.g. NotFound("Cart") → "Cart not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, "NOT_FOUND", resource+" not found")
}

// Unauthorized rejects missing or bad credentials.
func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// SessionExpired rejects a two-factor challenge or refresh session that is
// gone. Clients restart the sign-in instead of retrying.
func SessionExpired(message string) *AppError {
	return newError(http.StatusUnauthorized, "SESSION_EXPIRED", message)
}

// Forbidden rejects an authenticated caller lacking a permission.
func Forbidden(message string) *AppError {
	return newError(http.StatusForbidden, "FORBIDDEN", message)
}

// Conflict reports a unique-constraint clash.
func Conflict(message string) *AppError {
	return newError(http.StatusConflict, "CONFLICT", message)
}

// ValidationError rejects malformed input, optionally per field.
func ValidationError(message string, details ...FieldError) *AppError {
	appErr := newError(http.StatusBadRequest, "VALIDATION_ERROR", message)
	appErr.Details = details
	return appErr
}

// PayloadTooLarge rejects a request body above limit bytes.
func PayloadTooLarge(limit int64) *AppError {
	return newError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", fmt.Sprintf("Request body exceeds %d bytes", limit))
}

// Unprocessable rejects well-formed input the data model refuses.
func Unprocessable(message string) *AppError {
	return newError(http.StatusUnprocessableEntity, "UNPROCESSABLE", message)
}

// Constraint is a 422 with a domain code such as INSUFFICIENT_PAYMENT or
// OUT_OF_STOCK: the request was valid but the current state refuses it and
// the till should re-prompt.
func Constraint(code, message string) *AppError {
	return newError(http.StatusUnprocessableEntity, code, message)
}

// # 5xx

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	appErr := newError(http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	appErr.Cause = cause
	return appErr
}

// # Translation

// As returns the [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Mapping turns a domain sentinel into the [AppError] it becomes on the wire.
type Mapping struct {
	Target error
	Build  func() *AppError
}

// From translates err with the first matching mapping. An [AppError] passes
// through untouched and an unmapped error becomes [Internal].
func From(err error, mappings ...Mapping) error {
	if err == nil {
		return nil
	}
	if appErr := As(err); appErr != nil {
		return appErr
	}
	for _, mapping := range mappings {
		if errors.Is(err, mapping.Target) {
			appErr := mapping.Build()
			appErr.Cause = err
			return appErr
		}
	}
	return Internal(err)
}
