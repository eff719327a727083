// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/meridianchain/meridian/log"
	"github.com/meridianchain/meridian/solo"
)

var logger = log.WithContext("pkg", "api")

// Options configures the api router.
type Options struct {
	EnableReqLogger bool
}

// New returns the api handler.
func New(host *solo.Solo, opts Options) http.HandlerFunc {
	router := mux.NewRouter()

	NewStaking(host).Mount(router, "/staking")

	router.Path("/health").Methods(http.MethodGet).HandlerFunc(
		WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return WriteJSON(w, map[string]any{"healthy": true, "now": host.Now()})
		}))

	handler := http.Handler(router)
	if opts.EnableReqLogger {
		handler = newRequestLogger(handler)
	}
	handler = handlers.CompressHandler(handler)
	return handler.ServeHTTP
}
