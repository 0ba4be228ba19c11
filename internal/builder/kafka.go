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
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/pointer"

	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

// Kafka builds the full set of orchestrator objects for a Kafka cluster
// (spec.md §3 name-template table, Create (Kafka) ordering in §4.3).
type Kafka struct {
	Spec *model.KafkaSpec
}

func (b Kafka) key() model.ClusterKey { return b.Spec.Key() }

// HeadlessService builds the per-pod DNS service for the Kafka brokers.
func (b Kafka) HeadlessService() *corev1.Service {
	return headlessService(b.key(), model.KafkaHeadlessServiceName(b.Spec.Name), "kafka", 9092)
}

// ClientService builds the client-facing service for the Kafka brokers.
func (b Kafka) ClientService() *corev1.Service {
	return clientService(b.key(), model.KafkaClientServiceName(b.Spec.Name), "kafka", 9092)
}

// ZookeeperHeadlessService builds the per-pod DNS service for Zookeeper.
func (b Kafka) ZookeeperHeadlessService() *corev1.Service {
	return headlessService(b.key(), model.ZookeeperHeadlessServiceName(b.Spec.Name), "zookeeper", 2181)
}

// ZookeeperClientService builds the client-facing service for Zookeeper.
func (b Kafka) ZookeeperClientService() *corev1.Service {
	return clientService(b.key(), model.ZookeeperClientServiceName(b.Spec.Name), "zookeeper", 2181)
}

// KafkaMetricsConfigMap builds the ConfigMap mounting the broker metrics
// rules, or nil when no metrics config was supplied.
func (b Kafka) KafkaMetricsConfigMap() (*corev1.ConfigMap, error) {
	return metricsConfigMap(b.key(), model.KafkaMetricsConfigName(b.Spec.Name), "kafka", b.Spec.KafkaMetricsConfig)
}

// ZookeeperMetricsConfigMap builds the ConfigMap mounting the zookeeper
// metrics rules, or nil when no metrics config was supplied.
func (b Kafka) ZookeeperMetricsConfigMap() (*corev1.ConfigMap, error) {
	return metricsConfigMap(b.key(), model.ZookeeperMetricsConfigName(b.Spec.Name), "zookeeper", b.Spec.ZookeeperMetricsConfig)
}

// ZookeeperStatefulSet builds the Zookeeper stateful workload set.
func (b Kafka) ZookeeperStatefulSet() (*appsv1.StatefulSet, error) {
	snapshot, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	name := model.ZookeeperStatefulSetName(b.Spec.Name)
	labels := ownedLabels(b.key(), "zookeeper", b.Spec.Labels)
	sel := selector(b.key(), "zookeeper")

	container := corev1.Container{
		Name:  "zookeeper",
		Image: b.Spec.ZookeeperImage,
		Ports: []corev1.ContainerPort{
			{Name: "client", ContainerPort: 2181},
			{Name: "peer", ContainerPort: 2888},
			{Name: "leader-election", ContainerPort: 3888},
		},
		ReadinessProbe: tcpProbe(2181, b.Spec.ZookeeperHealthcheckInitialDelaySeconds, b.Spec.ZookeeperHealthcheckTimeoutSeconds),
		LivenessProbe:  tcpProbe(2181, b.Spec.ZookeeperHealthcheckInitialDelaySeconds, b.Spec.ZookeeperHealthcheckTimeoutSeconds),
		VolumeMounts: []corev1.VolumeMount{
			{Name: "zookeeper-storage", MountPath: "/var/lib/zookeeper"},
		},
	}
	withMetricsMount(&container, b.Spec.ZookeeperMetricsConfig.Present, "zookeeper-metrics-config")

	sts := &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   b.Spec.Namespace,
			Labels:      labels,
			Annotations: map[string]string{model.LastAppliedAnnotation: snapshot},
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: model.ZookeeperHeadlessServiceName(b.Spec.Name),
			Replicas:    pointer.Int32Ptr(int32(b.Spec.ZookeeperReplicas)),
			Selector:    &metav1.LabelSelector{MatchLabels: sel},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
					Volumes: append(
						metricsVolumes(b.Spec.ZookeeperMetricsConfig.Present, "zookeeper-metrics-config", model.ZookeeperMetricsConfigName(b.Spec.Name)),
						ephemeralVolume("zookeeper-storage", b.Spec.ZookeeperStorage)...,
					),
				},
			},
		},
	}
	if claim := volumeClaimTemplate("zookeeper-storage", b.Spec.ZookeeperStorage); claim != nil {
		sts.Spec.VolumeClaimTemplates = []corev1.PersistentVolumeClaim{*claim}
	}
	return sts, nil
}

// KafkaStatefulSet builds the Kafka broker stateful workload set.
func (b Kafka) KafkaStatefulSet() (*appsv1.StatefulSet, error) {
	snapshot, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	name := model.KafkaStatefulSetName(b.Spec.Name)
	labels := ownedLabels(b.key(), "kafka", b.Spec.Labels)
	sel := selector(b.key(), "kafka")

	container := corev1.Container{
		Name:  "kafka",
		Image: b.Spec.Image,
		Ports: []corev1.ContainerPort{
			{Name: "client", ContainerPort: 9092},
			{Name: "replication", ContainerPort: 9091},
		},
		Env: []corev1.EnvVar{
			{Name: "KAFKA_DEFAULT_REPLICATION_FACTOR", Value: itoa(b.Spec.DefaultReplicationFactor)},
			{Name: "KAFKA_OFFSETS_TOPIC_REPLICATION_FACTOR", Value: itoa(b.Spec.OffsetsTopicReplicationFactor)},
			{Name: "KAFKA_TRANSACTION_STATE_LOG_REPLICATION_FACTOR", Value: itoa(b.Spec.TransactionStateLogReplicationFactor)},
			{Name: "ZOOKEEPER_CONNECT", Value: model.ZookeeperClientServiceName(b.Spec.Name) + ":2181"},
		},
		ReadinessProbe: tcpProbe(9092, b.Spec.HealthcheckInitialDelaySeconds, b.Spec.HealthcheckTimeoutSeconds),
		LivenessProbe:  tcpProbe(9092, b.Spec.HealthcheckInitialDelaySeconds, b.Spec.HealthcheckTimeoutSeconds),
		VolumeMounts: []corev1.VolumeMount{
			{Name: "kafka-storage", MountPath: "/var/lib/kafka/data"},
		},
	}
	withMetricsMount(&container, b.Spec.KafkaMetricsConfig.Present, "kafka-metrics-config")

	sts := &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   b.Spec.Namespace,
			Labels:      labels,
			Annotations: map[string]string{model.LastAppliedAnnotation: snapshot},
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: model.KafkaHeadlessServiceName(b.Spec.Name),
			Replicas:    pointer.Int32Ptr(int32(b.Spec.Replicas)),
			Selector:    &metav1.LabelSelector{MatchLabels: sel},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
					Volumes: append(
						metricsVolumes(b.Spec.KafkaMetricsConfig.Present, "kafka-metrics-config", model.KafkaMetricsConfigName(b.Spec.Name)),
						ephemeralVolume("kafka-storage", b.Spec.KafkaStorage)...,
					),
				},
			},
		},
	}
	if claim := volumeClaimTemplate("kafka-storage", b.Spec.KafkaStorage); claim != nil {
		sts.Spec.VolumeClaimTemplates = []corev1.PersistentVolumeClaim{*claim}
	}
	return sts, nil
}

func (b Kafka) snapshot() (string, error) { return model.Snapshot(b.Spec) }

func itoa(i int) string { return strconv.Itoa(i) }
