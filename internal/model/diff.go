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

// ClusterDiff records which facets of a cluster changed between a
// recovered current spec and a freshly decoded desired spec (spec.md §3
// ClusterDiff, §4.2 Diff rules).
type ClusterDiff struct {
	ScaleUp        bool
	ScaleDown      bool
	RollingUpdate  bool
	MetricsChanged bool
	Different      bool
}

// Diff compares current (recovered from actual resources, or nil on
// create) against desired. Both must be the same concrete type; mixing
// variants is a caller bug, not a runtime condition, and panics.
//
// Storage type is immutable (I4/P6): a change is never folded into the
// returned diff, it is reported as an *IllegalTransitionError instead.
func Diff(current, desired ClusterSpec) (ClusterDiff, error) {
	if current == nil {
		return ClusterDiff{Different: true}, nil
	}

	switch d := desired.(type) {
	case *KafkaSpec:
		c, ok := current.(*KafkaSpec)
		if !ok {
			panic("model.Diff: current/desired variant mismatch")
		}
		return diffKafka(c, d)
	case *ConnectSpec:
		c, ok := current.(*ConnectSpec)
		if !ok {
			panic("model.Diff: current/desired variant mismatch")
		}
		return diffConnect(c, d)
	default:
		panic("model.Diff: unsupported ClusterSpec variant")
	}
}

func diffKafka(c, d *KafkaSpec) (ClusterDiff, error) {
	if c.KafkaStorage.Type != d.KafkaStorage.Type {
		return ClusterDiff{}, &IllegalTransitionError{
			Key:    d.Key(),
			Reason: "kafka-storage.type is immutable after creation",
		}
	}
	if c.ZookeeperStorage.Type != d.ZookeeperStorage.Type {
		return ClusterDiff{}, &IllegalTransitionError{
			Key:    d.Key(),
			Reason: "zookeeper-storage.type is immutable after creation",
		}
	}

	diff := ClusterDiff{}

	if d.Replicas > c.Replicas {
		diff.ScaleUp = true
	} else if d.Replicas < c.Replicas {
		diff.ScaleDown = true
	}

	diff.RollingUpdate = kafkaPodTemplateChanged(c, d)
	diff.MetricsChanged = !c.KafkaMetricsConfig.Equal(d.KafkaMetricsConfig) ||
		!c.ZookeeperMetricsConfig.Equal(d.ZookeeperMetricsConfig)

	diff.Different = diff.ScaleUp || diff.ScaleDown || diff.RollingUpdate || diff.MetricsChanged ||
		c.ZookeeperReplicas != d.ZookeeperReplicas ||
		!c.KafkaStorage.Equal(d.KafkaStorage) ||
		!c.ZookeeperStorage.Equal(d.ZookeeperStorage)

	return diff, nil
}

// kafkaPodTemplateChanged enumerates the fields that affect the pod
// template of the Kafka or Zookeeper stateful workload set, resolving
// the "which fields count as pod-template-affecting" design note
// (SPEC_FULL §C.3). Replica count and metrics are deliberately excluded:
// they are handled by their own diff flags and must not also trigger a
// rolling update.
func kafkaPodTemplateChanged(c, d *KafkaSpec) bool {
	return c.Image != d.Image ||
		c.ZookeeperImage != d.ZookeeperImage ||
		c.HealthcheckInitialDelaySeconds != d.HealthcheckInitialDelaySeconds ||
		c.HealthcheckTimeoutSeconds != d.HealthcheckTimeoutSeconds ||
		c.ZookeeperHealthcheckInitialDelaySeconds != d.ZookeeperHealthcheckInitialDelaySeconds ||
		c.ZookeeperHealthcheckTimeoutSeconds != d.ZookeeperHealthcheckTimeoutSeconds ||
		c.DefaultReplicationFactor != d.DefaultReplicationFactor ||
		c.OffsetsTopicReplicationFactor != d.OffsetsTopicReplicationFactor ||
		c.TransactionStateLogReplicationFactor != d.TransactionStateLogReplicationFactor
}

func diffConnect(c, d *ConnectSpec) (ClusterDiff, error) {
	diff := ClusterDiff{}

	if d.Replicas > c.Replicas {
		diff.ScaleUp = true
	} else if d.Replicas < c.Replicas {
		diff.ScaleDown = true
	}

	diff.RollingUpdate = connectPodTemplateChanged(c, d)
	// Connect clusters carry no metrics config of their own in this
	// model; metricsChanged is always false for them.

	diff.Different = diff.ScaleUp || diff.ScaleDown || diff.RollingUpdate ||
		c.BuildImage != d.BuildImage || c.BuildConfigName != d.BuildConfigName

	return diff, nil
}

func connectPodTemplateChanged(c, d *ConnectSpec) bool {
	return c.Image != d.Image ||
		c.HealthcheckInitialDelaySeconds != d.HealthcheckInitialDelaySeconds ||
		c.HealthcheckTimeoutSeconds != d.HealthcheckTimeoutSeconds ||
		c.BootstrapServers != d.BootstrapServers ||
		c.GroupID != d.GroupID ||
		c.KeyConverter != d.KeyConverter ||
		c.ValueConverter != d.ValueConverter ||
		c.KeyConverterSchemasEnable != d.KeyConverterSchemasEnable ||
		c.ValueConverterSchemasEnable != d.ValueConverterSchemasEnable ||
		c.ConfigStorageReplicationFactor != d.ConfigStorageReplicationFactor ||
		c.OffsetStorageReplicationFactor != d.OffsetStorageReplicationFactor ||
		c.StatusStorageReplicationFactor != d.StatusStorageReplicationFactor ||
		c.BuildImage != d.BuildImage
}
