// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package middleware

import (
	"net/http"
	"runtime/debug"

	apierrors "github.com/ferrovia/mantix/internal/api/errors"
)

// RecoveryConfig configures the panic recovery middleware.
type RecoveryConfig struct {
	// Logger receives panic reports. May be nil.
	Logger RequestLogger

	// PrintStack includes the goroutine stack in the log entry.
	PrintStack bool
}

// Recovery converts handler panics into 500 responses instead of killing
// the connection.
func Recovery(config RecoveryConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					if config.Logger != nil {
						fields := []interface{}{
							"panic", rec,
							"method", r.Method,
							"path", r.URL.Path,
							"request_id", GetRequestID(r.Context()),
						}
						if config.PrintStack {
							fields = append(fields, "stack", string(debug.Stack()))
						}
						config.Logger.Error("panic recovered", fields...)
					}

					apierrors.WriteErrorWithRequestID(w,
						apierrors.Internal(""), GetRequestID(r.Context()))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
