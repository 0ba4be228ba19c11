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

// Package builder turns a decoded model.ClusterSpec into the orchestrator
// objects that implement it: stateful workload sets, deployments,
// services and metrics configuration objects, named per the templates in
// model.names.go.
package builder

import "github.com/netcracker/kafka-cluster-operator/internal/model"

// ownedLabels returns the label set every engine-owned resource for this
// cluster must carry (spec.md invariant I1), merged over any
// caller-supplied component-specific labels.
func ownedLabels(key model.ClusterKey, component string, extra map[string]string) map[string]string {
	labels := map[string]string{}
	for k, v := range extra {
		labels[k] = v
	}
	labels[model.ClusterLabel] = key.Name
	labels[model.TypeLabel] = string(key.ClusterType)
	if component != "" {
		labels["strimzi.io/component"] = component
	}
	return labels
}

// selector returns the label subset used to match pods/resources back to
// their StatefulSet or Deployment; kept separate from ownedLabels so that
// adding a caller-supplied label never perturbs pod selection.
func selector(key model.ClusterKey, component string) map[string]string {
	return map[string]string{
		model.ClusterLabel:        key.Name,
		"strimzi.io/component": component,
	}
}
