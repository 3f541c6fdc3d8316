// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/respond"
)

// readinessTimeout bounds every dependency probe of one /ready call.
const readinessTimeout = 3 * time.Second

// Dependency is a backing service the API cannot serve without.
type Dependency struct {
	Name  string
	Check func(ctx context.Context) error
}

type dependencyStatus struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers returns the /health and /ready handlers. Liveness never
// touches dependencies; readiness probes all of them concurrently.
func NewHealthHandlers(logger *slog.Logger, dependencies ...Dependency) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, map[string]string{
			constants.FieldStatus:  "ok",
			constants.FieldApp:     constants.AppName,
			constants.FieldVersion: constants.AppVersion,
		})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		defer cancel()

		statuses := make([]dependencyStatus, len(dependencies))
		var group errgroup.Group
		for index, dependency := range dependencies {
			group.Go(func() error {
				status := dependencyStatus{Name: dependency.Name, IsOK: true}
				if err := dependency.Check(ctx); err != nil {
					status.IsOK, status.Error = false, err.Error()
					logger.ErrorContext(ctx, "readiness_check_failed", slog.String("dependency", dependency.Name), slog.Any("error", err))
				}
				statuses[index] = status
				return nil
			})
		}
		_ = group.Wait()

		overall, httpStatus := "ready", http.StatusOK
		for _, status := range statuses {
			if !status.IsOK {
				overall, httpStatus = "degraded", http.StatusServiceUnavailable
				break
			}
		}

		respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
			constants.FieldStatus: overall,
			constants.FieldChecks: statuses,
		}})
	}

	return liveness, readiness
}
