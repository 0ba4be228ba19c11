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

package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

func kafkaSpecFixture() *model.KafkaSpec {
	return &model.KafkaSpec{
		CommonSpec: model.CommonSpec{
			ClusterType: model.KafkaType,
			Name:        "my-cluster",
			Namespace:   "kafka-service",
			Replicas:    3,
			Image:       "strimzi/kafka:latest",
		},
		ZookeeperReplicas: 3,
		ZookeeperImage:    "strimzi/zookeeper:latest",
		KafkaStorage:      model.StorageSpec{Type: model.EphemeralStorage},
		ZookeeperStorage:  model.StorageSpec{Type: model.EphemeralStorage},
	}
}

func TestKafka_HeadlessService_NamesAndPorts(t *testing.T) {
	b := Kafka{Spec: kafkaSpecFixture()}
	svc := b.HeadlessService()

	assert.Equal(t, "my-cluster-kafka-headless", svc.Name)
	assert.Equal(t, "kafka-service", svc.Namespace)
	assert.Equal(t, "None", string(svc.Spec.ClusterIP))
	require.Len(t, svc.Spec.Ports, 1)
	assert.EqualValues(t, 9092, svc.Spec.Ports[0].Port)
	assert.Equal(t, "my-cluster", svc.Labels[model.ClusterLabel])
}

func TestKafka_ClientService_HasClusterIP(t *testing.T) {
	b := Kafka{Spec: kafkaSpecFixture()}
	svc := b.ClientService()

	assert.Equal(t, "my-cluster-kafka", svc.Name)
	assert.NotEqual(t, "None", string(svc.Spec.ClusterIP))
}

func TestKafka_KafkaStatefulSet_Replicas(t *testing.T) {
	b := Kafka{Spec: kafkaSpecFixture()}
	sts, err := b.KafkaStatefulSet()
	require.NoError(t, err)

	require.NotNil(t, sts.Spec.Replicas)
	assert.EqualValues(t, 3, *sts.Spec.Replicas)
	assert.Equal(t, "my-cluster-kafka", sts.Name)
	assert.Equal(t, "my-cluster-kafka-headless", sts.Spec.ServiceName)
	require.Len(t, sts.Spec.Template.Spec.Containers, 1)
	assert.Equal(t, "strimzi/kafka:latest", sts.Spec.Template.Spec.Containers[0].Image)
}

func TestKafka_KafkaStatefulSet_EphemeralStorage_HasEmptyDirNoClaim(t *testing.T) {
	b := Kafka{Spec: kafkaSpecFixture()}
	sts, err := b.KafkaStatefulSet()
	require.NoError(t, err)

	assert.Empty(t, sts.Spec.VolumeClaimTemplates)
	require.Len(t, sts.Spec.Template.Spec.Volumes, 1)
	assert.NotNil(t, sts.Spec.Template.Spec.Volumes[0].EmptyDir)
}

func TestKafka_KafkaStatefulSet_PersistentStorage_HasClaimTemplate(t *testing.T) {
	spec := kafkaSpecFixture()
	spec.KafkaStorage = model.StorageSpec{Type: model.PersistentClaimStorage, Size: "10Gi", ClassName: "fast"}
	b := Kafka{Spec: spec}

	sts, err := b.KafkaStatefulSet()
	require.NoError(t, err)

	require.Len(t, sts.Spec.VolumeClaimTemplates, 1)
	claim := sts.Spec.VolumeClaimTemplates[0]
	assert.Equal(t, "kafka-storage", claim.Name)
	require.NotNil(t, claim.Spec.StorageClassName)
	assert.Equal(t, "fast", *claim.Spec.StorageClassName)
	assert.Empty(t, sts.Spec.Template.Spec.Volumes)
}

func TestKafka_MetricsConfigMap_NilWhenAbsent(t *testing.T) {
	b := Kafka{Spec: kafkaSpecFixture()}
	cm, err := b.KafkaMetricsConfigMap()
	require.NoError(t, err)
	assert.Nil(t, cm)
}

func TestKafka_MetricsConfigMap_PresentCarriesData(t *testing.T) {
	spec := kafkaSpecFixture()
	spec.KafkaMetricsConfig = model.MetricsConfig{Present: true, Raw: map[string]interface{}{"rules": []interface{}{}}}
	b := Kafka{Spec: spec}

	cm, err := b.KafkaMetricsConfigMap()
	require.NoError(t, err)
	require.NotNil(t, cm)
	assert.Equal(t, "my-cluster-kafka-metrics-config", cm.Name)
	assert.Contains(t, cm.Data["metrics-config.json"], "rules")
}

func TestKafka_ZookeeperStatefulSet_ServiceNameMatchesHeadless(t *testing.T) {
	b := Kafka{Spec: kafkaSpecFixture()}
	sts, err := b.ZookeeperStatefulSet()
	require.NoError(t, err)
	assert.Equal(t, "my-cluster-zookeeper-headless", sts.Spec.ServiceName)
}
