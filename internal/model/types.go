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

// Package model holds the desired-state representation of a cluster and
// the diff algorithm used to compare it against the recovered actual state.
package model

import "fmt"

// ClusterType discriminates the cluster flavor carried in the `type` label
// of the input ConfigMap.
type ClusterType string

const (
	KafkaType         ClusterType = "kafka"
	KafkaConnectType  ClusterType = "kafka-connect"
	KafkaConnectS2I   ClusterType = "kafka-connect-s2i"
)

// SupportedTypes lists the cluster types the engine watches, in a stable
// order so that sweep logging and tests are deterministic.
var SupportedTypes = []ClusterType{KafkaType, KafkaConnectType, KafkaConnectS2I}

// ClusterKey is the identity and lock key for a cluster: clusterType,
// namespace and name.
type ClusterKey struct {
	ClusterType ClusterType
	Namespace   string
	Name        string
}

func (k ClusterKey) String() string {
	return fmt.Sprintf("%s::%s::%s", k.ClusterType, k.Namespace, k.Name)
}

// LockName is the name used by the serializer, matching the
// "lock::<clusterType>::<namespace>::<name>" scheme from spec.md §4.5.
func (k ClusterKey) LockName() string {
	return fmt.Sprintf("lock::%s::%s::%s", k.ClusterType, k.Namespace, k.Name)
}

const (
	// ClusterLabel is the label carrying the cluster name on every
	// engine-owned resource (spec.md invariant I1).
	ClusterLabel = "strimzi.io/cluster"
	// TypeLabel is the label carrying the clusterType on the input
	// ConfigMap and on every engine-owned resource (spec.md invariant I1).
	TypeLabel = "strimzi.io/type"
	// KindLabel discriminates the input ConfigMaps from unrelated ones
	// (default selector {kind=cluster} from spec.md §6).
	KindLabel = "strimzi.io/kind"
	// DefaultKindLabelValue is the default value of KindLabel used when
	// CONFIGMAP_LABELS is not set.
	DefaultKindLabelValue = "cluster"
)

// StorageType is the tagged variant discriminator for StorageSpec.
type StorageType string

const (
	EphemeralStorage        StorageType = "ephemeral"
	PersistentClaimStorage  StorageType = "persistent-claim"
)

// StorageSpec is the tagged union described in spec.md §3. Its Type is
// immutable for the lifetime of a cluster (invariant I4): the differ must
// reject any change to it.
type StorageSpec struct {
	Type        StorageType       `json:"type"`
	Size        string            `json:"size,omitempty"`
	ClassName   string            `json:"class,omitempty"`
	Selector    map[string]string `json:"selector,omitempty"`
	DeleteClaim bool              `json:"delete-claim,omitempty"`
}

// Equal reports whether two storage specs describe the same desired state.
// Used by the differ to fold storage changes into ClusterDiff.Different,
// independent of the type-immutability check.
func (s StorageSpec) Equal(o StorageSpec) bool {
	if s.Type != o.Type {
		return false
	}
	if s.Type == EphemeralStorage {
		return true
	}
	if s.Size != o.Size || s.ClassName != o.ClassName || s.DeleteClaim != o.DeleteClaim {
		return false
	}
	if len(s.Selector) != len(o.Selector) {
		return false
	}
	for k, v := range s.Selector {
		if o.Selector[k] != v {
			return false
		}
	}
	return true
}

// MetricsConfig is the opaque JSON-valued metrics rule document mounted as
// a ConfigMap for the metrics exporter (spec.md §1 OUT OF SCOPE: the
// exporter itself; IN SCOPE: whether the rules changed).
type MetricsConfig struct {
	// Present is false when the metrics-config key was omitted, meaning
	// "no metrics" per spec.md §6.
	Present bool
	// Raw holds the parsed JSON document verbatim so the differ can
	// compare it without needing to understand its schema.
	Raw map[string]interface{}
}

// Equal compares two metrics configs by deep value, not by identity.
func (m MetricsConfig) Equal(o MetricsConfig) bool {
	if m.Present != o.Present {
		return false
	}
	if !m.Present {
		return true
	}
	return mapsEqual(m.Raw, o.Raw)
}

func mapsEqual(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !valuesEqual(av, bv) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b interface{}) bool {
	am, aok := a.(map[string]interface{})
	bm, bok := b.(map[string]interface{})
	if aok && bok {
		return mapsEqual(am, bm)
	}
	aSlice, aok := a.([]interface{})
	bSlice, bok := b.([]interface{})
	if aok && bok {
		if len(aSlice) != len(bSlice) {
			return false
		}
		for i := range aSlice {
			if !valuesEqual(aSlice[i], bSlice[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}
