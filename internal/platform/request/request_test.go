// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/platform/apperr"
	"github.com/taibuivan/quinca/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/quinca/internal/platform/request"
	"github.com/taibuivan/quinca/internal/platform/sec"
)

type addItem struct {
	ItemID string `json:"itemId"`
}

func TestDecodeJSON(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"itemId":"3"}`, 0},
		{"unknown_field", `{"itemId":"3","qty":2}`, http.StatusBadRequest},
		{"trailing_object", `{"itemId":"3"}{"itemId":"4"}`, http.StatusBadRequest},
		{"empty", ``, http.StatusBadRequest},
		{"too_large", `{"itemId":"` + strings.Repeat("9", 1<<20) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/carts/1/items", strings.NewReader(tc.body))
			var target addItem

			err := requestutil.DecodeJSON(httptest.NewRecorder(), request, &target)
			if tc.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "3", target.ItemID)
				return
			}

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.status, appErr.HTTPStatus)
		})
	}
}

func TestRequiredUserID(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/carts/1/settle", nil)

	_, err := requestutil.RequiredUserID(request)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "3"}))
	userID, err := requestutil.RequiredUserID(request)
	require.NoError(t, err)
	assert.Equal(t, "3", userID)
}
