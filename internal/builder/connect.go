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
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/pointer"

	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

// Connect builds the orchestrator objects for a Kafka-Connect or
// Kafka-Connect-with-build cluster (spec.md §3 name-template table,
// Create (Connect) ordering in §4.3; SPEC_FULL §C.1 for the s2i variant).
type Connect struct {
	Spec *model.ConnectSpec
}

func (b Connect) key() model.ClusterKey { return b.Spec.Key() }

// Service builds the Connect REST service.
func (b Connect) Service() *corev1.Service {
	key := b.key()
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      model.ConnectServiceName(b.Spec.Name),
			Namespace: b.Spec.Namespace,
			Labels:    ownedLabels(key, "connect", nil),
		},
		Spec: corev1.ServiceSpec{
			Selector: selector(key, "connect"),
			Ports: []corev1.ServicePort{
				{Name: "rest-api", Port: 8083, TargetPort: intstr.FromInt(8083)},
			},
		},
	}
}

// BuildConfig builds the placeholder object standing in for the
// orchestrator-native image-build resource of the kafka-connect-s2i
// variant. The build resource itself is opaque and out of scope (spec.md
// §1); the engine only needs to own an object under BuildConfigName so
// create/update/delete ordering (SPEC_FULL §C.1) has something to
// reconcile.
func (b Connect) BuildConfig() *corev1.ConfigMap {
	key := b.key()
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      b.Spec.BuildConfigName,
			Namespace: b.Spec.Namespace,
			Labels:    ownedLabels(key, "connect-build", nil),
		},
		Data: map[string]string{
			"build-image": b.Spec.BuildImage,
		},
	}
}

// Deployment builds the Connect worker Deployment. Image is either the
// user-supplied base image (kafka-connect) or the build's output image
// (kafka-connect-s2i, referenced by name only per spec.md §1 OUT OF
// SCOPE: the build resource itself is opaque to the engine).
func (b Connect) Deployment() (*appsv1.Deployment, error) {
	snapshot, err := model.Snapshot(b.Spec)
	if err != nil {
		return nil, err
	}
	key := b.key()
	labels := ownedLabels(key, "connect", b.Spec.Labels)
	sel := selector(key, "connect")

	image := b.Spec.Image
	if b.Spec.IsS2I() {
		image = b.Spec.BuildImage
	}

	container := corev1.Container{
		Name:  "connect",
		Image: image,
		Ports: []corev1.ContainerPort{
			{Name: "rest-api", ContainerPort: 8083},
		},
		Env: []corev1.EnvVar{
			{Name: "KAFKA_CONNECT_BOOTSTRAP_SERVERS", Value: b.Spec.BootstrapServers},
			{Name: "KAFKA_CONNECT_GROUP_ID", Value: b.Spec.GroupID},
			{Name: "KEY_CONVERTER", Value: b.Spec.KeyConverter},
			{Name: "VALUE_CONVERTER", Value: b.Spec.ValueConverter},
			{Name: "KEY_CONVERTER_SCHEMAS_ENABLE", Value: strconv.FormatBool(b.Spec.KeyConverterSchemasEnable)},
			{Name: "VALUE_CONVERTER_SCHEMAS_ENABLE", Value: strconv.FormatBool(b.Spec.ValueConverterSchemasEnable)},
			{Name: "CONFIG_STORAGE_REPLICATION_FACTOR", Value: strconv.Itoa(b.Spec.ConfigStorageReplicationFactor)},
			{Name: "OFFSET_STORAGE_REPLICATION_FACTOR", Value: strconv.Itoa(b.Spec.OffsetStorageReplicationFactor)},
			{Name: "STATUS_STORAGE_REPLICATION_FACTOR", Value: strconv.Itoa(b.Spec.StatusStorageReplicationFactor)},
		},
		ReadinessProbe: tcpProbe(8083, b.Spec.HealthcheckInitialDelaySeconds, b.Spec.HealthcheckTimeoutSeconds),
		LivenessProbe:  tcpProbe(8083, b.Spec.HealthcheckInitialDelaySeconds, b.Spec.HealthcheckTimeoutSeconds),
	}

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:        model.ConnectDeploymentName(b.Spec.Name),
			Namespace:   b.Spec.Namespace,
			Labels:      labels,
			Annotations: map[string]string{model.LastAppliedAnnotation: snapshot},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: pointer.Int32Ptr(int32(b.Spec.Replicas)),
			Selector: &metav1.LabelSelector{MatchLabels: sel},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
				},
			},
		},
	}, nil
}
