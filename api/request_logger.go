// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// newRequestLogger wraps a handler so every request is logged with its
// duration and body.
func newRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the body can only be read once, so restore it for the handler
		var bodyBytes []byte
		var err error
		if r.Body != nil {
			bodyBytes, err = io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("unexpected body read error", "err", err)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		start := time.Now()
		next.ServeHTTP(w, r)

		logger.Info("api request",
			"durationMs", time.Since(start).Milliseconds(),
			"uri", r.URL.String(),
			"method", r.Method,
			"body", string(bodyBytes),
		)
	})
}
