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
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

func headlessService(key model.ClusterKey, name, component string, port int32) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: key.Namespace,
			Labels:    ownedLabels(key, component, nil),
		},
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  selector(key, component),
			Ports: []corev1.ServicePort{
				{Name: component, Port: port, TargetPort: intstr.FromInt(int(port))},
			},
		},
	}
}

func clientService(key model.ClusterKey, name, component string, port int32) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: key.Namespace,
			Labels:    ownedLabels(key, component, nil),
		},
		Spec: corev1.ServiceSpec{
			Selector: selector(key, component),
			Ports: []corev1.ServicePort{
				{Name: component, Port: port, TargetPort: intstr.FromInt(int(port))},
			},
		},
	}
}

// metricsConfigMap builds the ConfigMap carrying the raw metrics rules
// document, or returns nil when cfg.Present is false (spec.md §6: omit
// the key means no metrics).
func metricsConfigMap(key model.ClusterKey, name, component string, cfg model.MetricsConfig) (*corev1.ConfigMap, error) {
	if !cfg.Present {
		return nil, nil
	}
	raw, err := json.Marshal(cfg.Raw)
	if err != nil {
		return nil, fmt.Errorf("marshal metrics config for %s: %w", key, err)
	}
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: key.Namespace,
			Labels:    ownedLabels(key, component, nil),
		},
		Data: map[string]string{"metrics-config.json": string(raw)},
	}, nil
}

func tcpProbe(port int32, initialDelaySeconds, timeoutSeconds int) *corev1.Probe {
	return &corev1.Probe{
		Handler: corev1.Handler{
			TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt(int(port))},
		},
		InitialDelaySeconds: int32(initialDelaySeconds),
		TimeoutSeconds:      int32(timeoutSeconds),
	}
}

// volumeClaimTemplate builds the VolumeClaimTemplate for a stateful
// workload set. Its Name must equal templateName so that the orchestrator
// derives claim names matching model's "<template>-<sts>-<ordinal>"
// pattern (spec.md §3 claim name templates). Returns nil for ephemeral
// storage, where the pod instead gets an emptyDir (see ephemeralVolume).
func volumeClaimTemplate(templateName string, storage model.StorageSpec) *corev1.PersistentVolumeClaim {
	if storage.Type != model.PersistentClaimStorage {
		return nil
	}
	claim := &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: templateName},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.ResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse(storage.Size),
				},
			},
		},
	}
	if storage.ClassName != "" {
		claim.Spec.StorageClassName = &storage.ClassName
	}
	if len(storage.Selector) > 0 {
		claim.Spec.Selector = &metav1.LabelSelector{MatchLabels: storage.Selector}
	}
	return claim
}

// ephemeralVolume returns the emptyDir volume backing the data mount when
// storage is ephemeral, matching the VolumeMount name used by the
// container so that persistent-claim and ephemeral clusters share the
// same container spec save for the volume source.
func ephemeralVolume(name string, storage model.StorageSpec) []corev1.Volume {
	if storage.Type != model.EphemeralStorage {
		return nil
	}
	return []corev1.Volume{
		{Name: name, VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}}},
	}
}

func withMetricsMount(container *corev1.Container, present bool, volumeName string) {
	if !present {
		return
	}
	container.VolumeMounts = append(container.VolumeMounts, corev1.VolumeMount{
		Name:      volumeName,
		MountPath: "/opt/kafka/custom-config",
	})
}

func metricsVolumes(present bool, volumeName, configMapName string) []corev1.Volume {
	if !present {
		return nil
	}
	return []corev1.Volume{
		{
			Name: volumeName,
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: configMapName},
				},
			},
		},
	}
}
