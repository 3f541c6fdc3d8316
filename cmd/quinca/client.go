// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/quinca/internal/session"
	"github.com/taibuivan/quinca/pkg/pagination"
)

// apiClient calls the /api/v1 surface through the session transport.
type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration, manager *session.Manager) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		client: &http.Client{
			Timeout:   timeout,
			Transport: session.NewTransport(nil, manager),
		},
	}
}

/*
do sends one request and decodes the success envelope.

Parameters:
  - ctx: context.Context
  - method: string
  - path: string (relative to /api/v1)
  - payload: any (nil sends no body)
  - target: any (receives the data member, may be nil)

Returns:
  - *pagination.Meta: Set for paginated answers only
  - error: Transport failures or *session.APIError for non-2xx answers
*/
func (api *apiClient) do(ctx context.Context, method, path string, payload, target any) (*pagination.Meta, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode_request_failed: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, api.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build_request_failed: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := api.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(io.LimitReader(response.Body, 1<<16)).Decode(&envelope)
		return nil, &session.APIError{StatusCode: response.StatusCode, Code: envelope.Code, Message: envelope.Error}
	}

	if target == nil || response.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	envelope := struct {
		Data any              `json:"data"`
		Meta *pagination.Meta `json:"meta"`
	}{Data: target}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode_response_failed: %w", err)
	}
	return envelope.Meta, nil
}
