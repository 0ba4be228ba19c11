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

// ConfigMapInput is the decoupled view of an input ConfigMap that Decode
// operates on. Keeping it separate from corev1.ConfigMap lets the decode
// and diff logic be tested without a fake Kubernetes client.
type ConfigMapInput struct {
	Name      string
	Namespace string
	Labels    map[string]string
	Data      map[string]string
}

// CommonSpec carries the fields shared by every cluster variant
// (spec.md §3 ClusterSpec).
type CommonSpec struct {
	ClusterType ClusterType
	Name        string
	Namespace   string
	Labels      map[string]string

	Replicas int
	Image    string

	HealthcheckInitialDelaySeconds int
	HealthcheckTimeoutSeconds      int
}

// Key returns the ClusterKey identifying this spec.
func (c CommonSpec) Key() ClusterKey {
	return ClusterKey{ClusterType: c.ClusterType, Namespace: c.Namespace, Name: c.Name}
}

// ClusterSpec is the polymorphic desired-state type. Both KafkaSpec and
// ConnectSpec implement it.
type ClusterSpec interface {
	Key() ClusterKey
	Common() CommonSpec
}

// KafkaSpec is the decoded desired state of a Kafka cluster
// (spec.md §3, §6 Kafka data keys).
type KafkaSpec struct {
	CommonSpec

	ZookeeperReplicas                       int
	ZookeeperImage                          string
	ZookeeperHealthcheckInitialDelaySeconds int
	ZookeeperHealthcheckTimeoutSeconds      int

	KafkaStorage     StorageSpec
	ZookeeperStorage StorageSpec

	KafkaMetricsConfig     MetricsConfig
	ZookeeperMetricsConfig MetricsConfig

	DefaultReplicationFactor             int
	OffsetsTopicReplicationFactor        int
	TransactionStateLogReplicationFactor int
}

func (k KafkaSpec) Common() CommonSpec { return k.CommonSpec }

// ConnectSpec is the decoded desired state of a Kafka-Connect (or
// Kafka-Connect-with-build, clusterType kafka-connect-s2i) cluster
// (spec.md §3, §6 Kafka-Connect data keys; SPEC_FULL §C.1 for the s2i
// build fields).
type ConnectSpec struct {
	CommonSpec

	BootstrapServers string
	GroupID          string

	KeyConverter                 string
	ValueConverter               string
	KeyConverterSchemasEnable    bool
	ValueConverterSchemasEnable  bool

	ConfigStorageReplicationFactor int
	OffsetStorageReplicationFactor int
	StatusStorageReplicationFactor int

	// BuildImage and BuildConfigName are only meaningful when
	// ClusterType == KafkaConnectS2I (SPEC_FULL §C.1). The build
	// resource itself is an opaque orchestrator-native primitive,
	// referenced only by name per spec.md §1 OUT OF SCOPE.
	BuildImage      string
	BuildConfigName string
}

func (c ConnectSpec) Common() CommonSpec { return c.CommonSpec }

// IsS2I reports whether this ConnectSpec describes a
// Kafka-Connect-with-build cluster.
func (c ConnectSpec) IsS2I() bool { return c.ClusterType == KafkaConnectS2I }
