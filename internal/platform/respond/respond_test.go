// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/platform/apperr"
	"github.com/taibuivan/quinca/internal/platform/ctxutil"
	"github.com/taibuivan/quinca/internal/platform/respond"
	"github.com/taibuivan/quinca/pkg/pagination"
)

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"SO-2026-0001"}, pagination.NewMeta(1, 20, 1))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":["SO-2026-0001"],"meta":{"page":1,"limit":20,"total":1,"total_pages":1}}`, recorder.Body.String())
}

func TestError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   respond.ErrorEnvelope
	}{
		{
			"constraint",
			apperr.Constraint("INSUFFICIENT_PAYMENT", "Payment does not cover the total"),
			http.StatusUnprocessableEntity,
			respond.ErrorEnvelope{Error: "Payment does not cover the total", Code: "INSUFFICIENT_PAYMENT", RequestID: "req-7"},
		},
		{
			"validation_details",
			apperr.ValidationError("Validation failed", apperr.FieldError{Field: "email", Message: "This field is required"}),
			http.StatusBadRequest,
			respond.ErrorEnvelope{
				Error: "Validation failed", Code: "VALIDATION_ERROR", RequestID: "req-7",
				Details: []apperr.FieldError{{Field: "email", Message: "This field is required"}},
			},
		},
		{
			"plain_error_is_hidden",
			errors.New("pgx: connection refused"),
			http.StatusInternalServerError,
			respond.ErrorEnvelope{Error: "An unexpected error occurred", Code: "INTERNAL_ERROR", RequestID: "req-7"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request = request.WithContext(ctxutil.WithRequestID(request.Context(), "req-7"))
			recorder := httptest.NewRecorder()

			respond.Error(recorder, request, tc.err)

			assert.Equal(t, tc.status, recorder.Code)
			var body respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tc.body, body)
		})
	}
}
