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

package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	healthy bool
	ready   bool
}

func (s stubChecker) Healthy() bool { return s.healthy }
func (s stubChecker) Ready() bool   { return s.ready }

func TestServer_Handle_ReturnsOKWhenTrue(t *testing.T) {
	s := &Server{Checker: stubChecker{healthy: true, ready: true}}

	rec := httptest.NewRecorder()
	s.handle(s.Checker.Healthy)(rec, httptest.NewRequest(http.MethodGet, "/healthy", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Handle_ReturnsServiceUnavailableWhenFalse(t *testing.T) {
	s := &Server{Checker: stubChecker{healthy: false, ready: false}}

	rec := httptest.NewRecorder()
	s.handle(s.Checker.Ready)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Start_StopsOnContextCancel(t *testing.T) {
	s := &Server{Addr: "127.0.0.1:0", Checker: stubChecker{healthy: true, ready: true}}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	cancel()
	require.NoError(t, <-errCh)
}
