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

package model

import (
	"encoding/json"
	"fmt"
)

// LastAppliedAnnotation is the annotation key the composite operation
// writes on the representative resource (the Kafka stateful workload set,
// or the Connect Deployment) after every successful apply. It carries the
// exact ClusterSpec that produced that apply, so the next reconciliation
// can recover it without reverse-engineering it from pod template fields
// (spec.md §4.2 "Recover from actual").
const LastAppliedAnnotation = "strimzi.io/last-applied-configuration"

// Snapshot serializes a spec for storage in LastAppliedAnnotation.
func Snapshot(spec ClusterSpec) (string, error) {
	b, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", spec.Key(), err)
	}
	return string(b), nil
}

// RecoverKafka reconstructs the ClusterSpec that was last successfully
// applied to a Kafka cluster's representative resource. ok is false when
// the annotation is absent, meaning the caller is looking at a resource
// the engine did not create (or one predating this annotation) and should
// treat it as having no recoverable current state.
func RecoverKafka(annotations map[string]string) (spec *KafkaSpec, ok bool, err error) {
	raw, present := annotations[LastAppliedAnnotation]
	if !present {
		return nil, false, nil
	}
	var s KafkaSpec
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false, fmt.Errorf("recover kafka spec from %s: %w", LastAppliedAnnotation, err)
	}
	return &s, true, nil
}

// RecoverConnect is RecoverKafka's counterpart for Connect and
// Connect-with-build clusters.
func RecoverConnect(annotations map[string]string) (spec *ConnectSpec, ok bool, err error) {
	raw, present := annotations[LastAppliedAnnotation]
	if !present {
		return nil, false, nil
	}
	var s ConnectSpec
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false, fmt.Errorf("recover connect spec from %s: %w", LastAppliedAnnotation, err)
	}
	return &s, true, nil
}
