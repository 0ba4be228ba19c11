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

// Package discovery registers reconciled clusters with an external
// service-discovery system (SPEC_FULL §C.2). It is best-effort: a
// registration failure is logged and never fails the composite operation
// that triggered it, since discovery is not part of the reconciled state
// the differ tracks.
package discovery

import "context"

// Registrar is implemented by every discovery backend the engine can be
// configured with.
type Registrar interface {
	// Register advertises the client service for a cluster. id should be
	// stable across reconciliations of the same cluster so repeated calls
	// update rather than duplicate the registration.
	Register(ctx context.Context, id, name, address string, port int, tags []string, meta map[string]string) error
	// Deregister removes a previously registered service. Deregistering
	// an id that was never registered is success.
	Deregister(ctx context.Context, id string) error
}

// NoOp is the Registrar used when CONSUL_ENABLED is false.
type NoOp struct{}

func (NoOp) Register(context.Context, string, string, string, int, []string, map[string]string) error {
	return nil
}

func (NoOp) Deregister(context.Context, string) error { return nil }
