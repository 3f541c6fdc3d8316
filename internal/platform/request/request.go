// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads what handlers need from an inbound request: the
// JSON body, chi path parameters, the page window and the caller's identity.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quinca/internal/platform/apperr"
	"github.com/taibuivan/quinca/internal/platform/ctxutil"
	"github.com/taibuivan/quinca/internal/platform/validate"
	"github.com/taibuivan/quinca/pkg/pagination"
)

// maxBodyBytes caps JSON bodies. Login forms and tender lists are tiny.
const maxBodyBytes int64 = 1 << 20

/*
DecodeJSON decodes exactly one JSON object from the body into target.

Unknown fields and trailing data are rejected so that a typo in a tender
list is reported instead of silently ignored.

Returns:
  - error: apperr.PayloadTooLarge above maxBodyBytes, validate.ErrInvalidJSON
    for anything else that does not decode
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge(tooLarge.Limit)
		}
		return validate.ErrInvalidJSON
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns the chi path parameter name.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Page reads ?page= and ?limit= with the shared clamping rules.
func Page(request *http.Request) pagination.Params {
	return pagination.FromRequest(request)
}

// RequiredUserID returns the account id of the verified caller.
func RequiredUserID(request *http.Request) (string, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return "", apperr.Unauthorized("Authentication required")
	}
	return claims.UserID, nil
}
