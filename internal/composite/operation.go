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

// Package composite assembles and applies the ordered per-resource plans
// that bring a cluster's actual state to its desired state (spec.md §4.3
// Composite Operation). One Composite exists per clusterType; each
// dispatches internally across create/update/delete by inspecting the
// Operation it built in GetCluster, rather than existing as three
// separate types (see DESIGN.md).
package composite

import (
	"context"

	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

// Operation is the ClusterOperation of spec.md §9: the desired and
// recovered-current spec pair plus the diff between them, ready to be
// applied. Current is nil on create; Desired is nil on delete.
type Operation struct {
	Key     model.ClusterKey
	Current model.ClusterSpec
	Desired model.ClusterSpec
	Diff    model.ClusterDiff
}

// Composite is the capability the reconciliation engine dispatches
// against (spec.md §9): build the operation, then apply it.
type Composite interface {
	// GetCluster builds the Operation for (namespace, name): decodes the
	// input configuration object if present, recovers the current spec
	// from the representative resource if present, and diffs them.
	// Returning an Operation with both Current and Desired nil means
	// there is nothing to do (the caller should not have dispatched).
	GetCluster(ctx context.Context, namespace, name string) (*Operation, error)
	// Apply executes the plan for op: create, update or delete, selected
	// by which of Current/Desired is nil.
	Apply(ctx context.Context, namespace string, op *Operation) error
}
