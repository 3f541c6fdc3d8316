// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate accumulates field failures and turns them into one
VALIDATION_ERROR [apperr.AppError].

Handlers check request shape (a missing item id, an unknown tender method);
services check business input (credentials, second-factor codes). Neither
touches storage.

	validator := &validate.Validator{}
	validator.Required("email", input.Email).Required("password", input.Password)
	if err := validator.Err(); err != nil {
		return err
	}

A Validator belongs to one request and is not safe for concurrent use.
*/
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/quinca/internal/platform/apperr"
)

// ErrInvalidJSON is the answer to a body that does not decode.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects [apperr.FieldError] values in rule order.
type Validator struct {
	failures []apperr.FieldError
}

// # Rules

// Required fails on a blank (whitespace only) value.
func (validator *Validator) Required(field, value string) *Validator {
	return validator.Custom(field, strings.TrimSpace(value) == "", "This field is required")
}

// Email fails unless value parses as a single RFC 5322 address.
func (validator *Validator) Email(field, value string) *Validator {
	_, err := mail.ParseAddress(value)
	return validator.Custom(field, err != nil, "Must be a valid email address")
}

// Matches fails with message when pattern rejects value.
func (validator *Validator) Matches(field, value string, pattern *regexp.Regexp, message string) *Validator {
	return validator.Custom(field, !pattern.MatchString(value), message)
}

// OneOf fails when value is not among allowed.
func (validator *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return validator.Custom(field, !slices.Contains(allowed, value),
		fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
}

// NotNegative fails on an amount below zero.
func (validator *Validator) NotNegative(field string, amount decimal.Decimal) *Validator {
	return validator.Custom(field, amount.IsNegative(), "Must not be negative")
}

// Custom records message against field when failed is true.
func (validator *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		validator.failures = append(validator.failures, apperr.FieldError{Field: field, Message: message})
	}
	return validator
}

// # Results

// HasErrors reports whether any rule has failed so far.
func (validator *Validator) HasErrors() bool {
	return len(validator.failures) > 0
}

// Err returns nil when every rule passed, otherwise one VALIDATION_ERROR
// carrying all failures.
func (validator *Validator) Err() error {
	if !validator.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Validation failed", validator.failures...)
}

// RequiredError builds a VALIDATION_ERROR for a single field.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}
