// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package health serves the two readiness signals from spec.md §6
// (`/healthy`, `/ready`). The teacher wires these through
// sigs.k8s.io/controller-runtime/pkg/healthz onto its manager; this engine
// has no manager to attach checks to, so it runs its own small net/http
// server polling the same underlying state (SPEC_FULL §A.5).
package health

import (
	"context"
	"net/http"
	"time"
)

// Checker reports the two signals the server exposes.
type Checker interface {
	// Healthy reports whether the engine is running and its last sweep
	// completed within one full reconciliation interval.
	Healthy() bool
	// Ready reports whether the last completed sweep succeeded.
	Ready() bool
}

// Server is the standalone health/readiness HTTP server.
type Server struct {
	Addr    string
	Checker Checker

	server *http.Server
}

// Start begins serving and blocks until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthy", s.handle(s.Checker.Healthy))
	mux.HandleFunc("/ready", s.handle(s.Checker.Ready))

	s.server = &http.Server{Addr: s.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handle(check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}
