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
	"strconv"
)

// Decode parses an input ConfigMap into the ClusterSpec variant selected
// by its TypeLabel (spec.md §4.2 Decode). Decode is pure (P4): called
// twice on the same input it returns equal specs.
func Decode(cm ConfigMapInput) (ClusterSpec, error) {
	clusterType := ClusterType(cm.Labels[TypeLabel])
	switch clusterType {
	case KafkaType:
		return decodeKafka(cm)
	case KafkaConnectType, KafkaConnectS2I:
		return decodeConnect(cm, clusterType)
	default:
		return nil, &DecodeError{
			Key: ClusterKey{ClusterType: clusterType, Namespace: cm.Namespace, Name: cm.Name},
			Field: TypeLabel,
			Err:   fmt.Errorf("unsupported cluster type %q", clusterType),
		}
	}
}

func decodeKafka(cm ConfigMapInput) (*KafkaSpec, error) {
	key := ClusterKey{ClusterType: KafkaType, Namespace: cm.Namespace, Name: cm.Name}

	kafkaStorage, err := decodeStorage(cm.Data, "kafka-storage")
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "kafka-storage", Err: err}
	}
	zkStorage, err := decodeStorage(cm.Data, "zookeeper-storage")
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "zookeeper-storage", Err: err}
	}
	if kafkaStorage == nil {
		return nil, missingField(key, "kafka-storage")
	}
	if zkStorage == nil {
		return nil, missingField(key, "zookeeper-storage")
	}

	kafkaMetrics, err := decodeMetrics(cm.Data, "kafka-metrics-config")
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "kafka-metrics-config", Err: err}
	}
	zkMetrics, err := decodeMetrics(cm.Data, "zookeeper-metrics-config")
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "zookeeper-metrics-config", Err: err}
	}

	replicas, err := intOrDefault(cm.Data, "kafka-nodes", 3)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "kafka-nodes", Err: err}
	}
	zkReplicas, err := intOrDefault(cm.Data, "zookeeper-nodes", 3)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "zookeeper-nodes", Err: err}
	}
	healthDelay, err := intOrDefault(cm.Data, "kafka-healthcheck-delay", 15)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "kafka-healthcheck-delay", Err: err}
	}
	healthTimeout, err := intOrDefault(cm.Data, "kafka-healthcheck-timeout", 5)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "kafka-healthcheck-timeout", Err: err}
	}
	zkHealthDelay, err := intOrDefault(cm.Data, "zookeeper-healthcheck-delay", 15)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "zookeeper-healthcheck-delay", Err: err}
	}
	zkHealthTimeout, err := intOrDefault(cm.Data, "zookeeper-healthcheck-timeout", 5)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "zookeeper-healthcheck-timeout", Err: err}
	}
	defaultRF, err := intOrDefault(cm.Data, "KAFKA_DEFAULT_REPLICATION_FACTOR", 3)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "KAFKA_DEFAULT_REPLICATION_FACTOR", Err: err}
	}
	offsetsRF, err := intOrDefault(cm.Data, "KAFKA_OFFSETS_TOPIC_REPLICATION_FACTOR", 3)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "KAFKA_OFFSETS_TOPIC_REPLICATION_FACTOR", Err: err}
	}
	txnRF, err := intOrDefault(cm.Data, "KAFKA_TRANSACTION_STATE_LOG_REPLICATION_FACTOR", 3)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "KAFKA_TRANSACTION_STATE_LOG_REPLICATION_FACTOR", Err: err}
	}

	if replicas < 1 {
		return nil, &DecodeError{Key: key, Field: "kafka-nodes", Err: fmt.Errorf("replicas must be >= 1, got %d", replicas)}
	}

	return &KafkaSpec{
		CommonSpec: CommonSpec{
			ClusterType:                    KafkaType,
			Name:                            cm.Name,
			Namespace:                       cm.Namespace,
			Labels:                          cm.Labels,
			Replicas:                        replicas,
			Image:                           stringOrDefault(cm.Data, "kafka-image", "strimzi/kafka:latest"),
			HealthcheckInitialDelaySeconds:  healthDelay,
			HealthcheckTimeoutSeconds:       healthTimeout,
		},
		ZookeeperReplicas:                       zkReplicas,
		ZookeeperImage:                           stringOrDefault(cm.Data, "zookeeper-image", "strimzi/zookeeper:latest"),
		ZookeeperHealthcheckInitialDelaySeconds:  zkHealthDelay,
		ZookeeperHealthcheckTimeoutSeconds:       zkHealthTimeout,
		KafkaStorage:                             *kafkaStorage,
		ZookeeperStorage:                         *zkStorage,
		KafkaMetricsConfig:                       kafkaMetrics,
		ZookeeperMetricsConfig:                   zkMetrics,
		DefaultReplicationFactor:                 defaultRF,
		OffsetsTopicReplicationFactor:             offsetsRF,
		TransactionStateLogReplicationFactor:      txnRF,
	}, nil
}

func decodeConnect(cm ConfigMapInput, clusterType ClusterType) (*ConnectSpec, error) {
	key := ClusterKey{ClusterType: clusterType, Namespace: cm.Namespace, Name: cm.Name}

	replicas, err := intOrDefault(cm.Data, "nodes", 1)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "nodes", Err: err}
	}
	if replicas < 1 {
		return nil, &DecodeError{Key: key, Field: "nodes", Err: fmt.Errorf("replicas must be >= 1, got %d", replicas)}
	}
	healthDelay, err := intOrDefault(cm.Data, "healthcheck-delay", 60)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "healthcheck-delay", Err: err}
	}
	healthTimeout, err := intOrDefault(cm.Data, "healthcheck-timeout", 5)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "healthcheck-timeout", Err: err}
	}
	configRF, err := intOrDefault(cm.Data, "CONFIG_STORAGE_REPLICATION_FACTOR", 3)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "CONFIG_STORAGE_REPLICATION_FACTOR", Err: err}
	}
	offsetRF, err := intOrDefault(cm.Data, "OFFSET_STORAGE_REPLICATION_FACTOR", 3)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "OFFSET_STORAGE_REPLICATION_FACTOR", Err: err}
	}
	statusRF, err := intOrDefault(cm.Data, "STATUS_STORAGE_REPLICATION_FACTOR", 3)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "STATUS_STORAGE_REPLICATION_FACTOR", Err: err}
	}
	keySchemas, err := boolOrDefault(cm.Data, "KEY_CONVERTER_SCHEMAS_ENABLE", false)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "KEY_CONVERTER_SCHEMAS_ENABLE", Err: err}
	}
	valueSchemas, err := boolOrDefault(cm.Data, "VALUE_CONVERTER_SCHEMAS_ENABLE", false)
	if err != nil {
		return nil, &DecodeError{Key: key, Field: "VALUE_CONVERTER_SCHEMAS_ENABLE", Err: err}
	}

	spec := &ConnectSpec{
		CommonSpec: CommonSpec{
			ClusterType:                    clusterType,
			Name:                           cm.Name,
			Namespace:                      cm.Namespace,
			Labels:                         cm.Labels,
			Replicas:                       replicas,
			Image:                          stringOrDefault(cm.Data, "image", "strimzi/kafka-connect:latest"),
			HealthcheckInitialDelaySeconds: healthDelay,
			HealthcheckTimeoutSeconds:      healthTimeout,
		},
		BootstrapServers:               stringOrDefault(cm.Data, "KAFKA_CONNECT_BOOTSTRAP_SERVERS", "my-cluster-kafka:9092"),
		GroupID:                        stringOrDefault(cm.Data, "KAFKA_CONNECT_GROUP_ID", "my-connect-cluster"),
		KeyConverter:                   stringOrDefault(cm.Data, "KEY_CONVERTER", "org.apache.kafka.connect.json.JsonConverter"),
		ValueConverter:                 stringOrDefault(cm.Data, "VALUE_CONVERTER", "org.apache.kafka.connect.json.JsonConverter"),
		KeyConverterSchemasEnable:      keySchemas,
		ValueConverterSchemasEnable:    valueSchemas,
		ConfigStorageReplicationFactor: configRF,
		OffsetStorageReplicationFactor: offsetRF,
		StatusStorageReplicationFactor: statusRF,
	}

	if clusterType == KafkaConnectS2I {
		spec.BuildImage = stringOrDefault(cm.Data, "build-image", "")
		spec.BuildConfigName = cm.Name + "-build"
		if spec.BuildImage == "" {
			return nil, missingField(key, "build-image")
		}
	}

	return spec, nil
}

func decodeStorage(data map[string]string, field string) (*StorageSpec, error) {
	raw, ok := data[field]
	if !ok || raw == "" {
		return nil, nil
	}
	var s StorageSpec
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	switch s.Type {
	case EphemeralStorage:
	case PersistentClaimStorage:
		if s.Size == "" {
			return nil, fmt.Errorf("persistent-claim storage requires a size")
		}
	default:
		return nil, fmt.Errorf("unknown storage type %q", s.Type)
	}
	return &s, nil
}

func decodeMetrics(data map[string]string, field string) (MetricsConfig, error) {
	raw, ok := data[field]
	if !ok || raw == "" {
		return MetricsConfig{Present: false}, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return MetricsConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return MetricsConfig{Present: true, Raw: m}, nil
}

func stringOrDefault(data map[string]string, key, def string) string {
	if v, ok := data[key]; ok && v != "" {
		return v
	}
	return def
}

func intOrDefault(data map[string]string, key string, def int) (int, error) {
	v, ok := data[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", v)
	}
	return n, nil
}

func boolOrDefault(data map[string]string, key string, def bool) (bool, error) {
	v, ok := data[key]
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("not a boolean: %q", v)
	}
	return b, nil
}
