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

package adapter

import (
	"context"
	"encoding/json"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// mergePatch strategic-merge-patches name in namespace with desired,
// marshaled as a merge patch. client-go's typed clients only expose
// Patch(patchType, data), so every kind adapter funnels through this.
func mergePatch[T any](ctx context.Context, desired T, do func(context.Context, []byte) error) error {
	data, err := json.Marshal(desired)
	if err != nil {
		return err
	}
	return do(ctx, data)
}

func labelSelector(set map[string]string) string {
	return labels.SelectorFromSet(set).String()
}

// NewConfigMaps returns the adapter for the input configuration objects
// and the metrics-config objects.
func NewConfigMaps(clientset kubernetes.Interface) Adapter[*corev1.ConfigMap] {
	c := func(ns string) interface {
		Get(context.Context, string, metav1.GetOptions) (*corev1.ConfigMap, error)
		List(context.Context, metav1.ListOptions) (*corev1.ConfigMapList, error)
		Create(context.Context, *corev1.ConfigMap, metav1.CreateOptions) (*corev1.ConfigMap, error)
		Patch(context.Context, string, types.PatchType, []byte, metav1.PatchOptions, ...string) (*corev1.ConfigMap, error)
		Delete(context.Context, string, metav1.DeleteOptions) error
	} {
		return clientset.CoreV1().ConfigMaps(ns)
	}
	return Adapter[*corev1.ConfigMap]{
		get: func(ctx context.Context, ns, name string) (*corev1.ConfigMap, error) {
			return c(ns).Get(ctx, name, metav1.GetOptions{})
		},
		list: func(ctx context.Context, ns string, sel map[string]string) ([]*corev1.ConfigMap, error) {
			l, err := c(ns).List(ctx, metav1.ListOptions{LabelSelector: labelSelector(sel)})
			if err != nil {
				return nil, err
			}
			out := make([]*corev1.ConfigMap, 0, len(l.Items))
			for i := range l.Items {
				out = append(out, &l.Items[i])
			}
			return out, nil
		},
		create: func(ctx context.Context, desired *corev1.ConfigMap) error {
			_, err := c(desired.Namespace).Create(ctx, desired, metav1.CreateOptions{})
			return err
		},
		patch: func(ctx context.Context, ns, name string, desired *corev1.ConfigMap) error {
			return mergePatch(ctx, desired, func(ctx context.Context, data []byte) error {
				_, err := c(ns).Patch(ctx, name, types.StrategicMergePatchType, data, metav1.PatchOptions{})
				return err
			})
		},
		delete: func(ctx context.Context, ns, name string) error {
			err := c(ns).Delete(ctx, name, metav1.DeleteOptions{})
			if apierrors.IsNotFound(err) {
				return nil
			}
			return err
		},
	}
}

// NewServices returns the adapter for headless and client services.
func NewServices(clientset kubernetes.Interface) Adapter[*corev1.Service] {
	c := func(ns string) interface {
		Get(context.Context, string, metav1.GetOptions) (*corev1.Service, error)
		List(context.Context, metav1.ListOptions) (*corev1.ServiceList, error)
		Create(context.Context, *corev1.Service, metav1.CreateOptions) (*corev1.Service, error)
		Patch(context.Context, string, types.PatchType, []byte, metav1.PatchOptions, ...string) (*corev1.Service, error)
		Delete(context.Context, string, metav1.DeleteOptions) error
	} {
		return clientset.CoreV1().Services(ns)
	}
	return Adapter[*corev1.Service]{
		get: func(ctx context.Context, ns, name string) (*corev1.Service, error) {
			return c(ns).Get(ctx, name, metav1.GetOptions{})
		},
		list: func(ctx context.Context, ns string, sel map[string]string) ([]*corev1.Service, error) {
			l, err := c(ns).List(ctx, metav1.ListOptions{LabelSelector: labelSelector(sel)})
			if err != nil {
				return nil, err
			}
			out := make([]*corev1.Service, 0, len(l.Items))
			for i := range l.Items {
				out = append(out, &l.Items[i])
			}
			return out, nil
		},
		create: func(ctx context.Context, desired *corev1.Service) error {
			_, err := c(desired.Namespace).Create(ctx, desired, metav1.CreateOptions{})
			return err
		},
		patch: func(ctx context.Context, ns, name string, desired *corev1.Service) error {
			return mergePatch(ctx, desired, func(ctx context.Context, data []byte) error {
				_, err := c(ns).Patch(ctx, name, types.StrategicMergePatchType, data, metav1.PatchOptions{})
				return err
			})
		},
		delete: func(ctx context.Context, ns, name string) error {
			err := c(ns).Delete(ctx, name, metav1.DeleteOptions{})
			if apierrors.IsNotFound(err) {
				return nil
			}
			return err
		},
	}
}

// NewStatefulSets returns the adapter for the Kafka and Zookeeper
// stateful workload sets.
func NewStatefulSets(clientset kubernetes.Interface) Adapter[*appsv1.StatefulSet] {
	c := func(ns string) interface {
		Get(context.Context, string, metav1.GetOptions) (*appsv1.StatefulSet, error)
		List(context.Context, metav1.ListOptions) (*appsv1.StatefulSetList, error)
		Create(context.Context, *appsv1.StatefulSet, metav1.CreateOptions) (*appsv1.StatefulSet, error)
		Patch(context.Context, string, types.PatchType, []byte, metav1.PatchOptions, ...string) (*appsv1.StatefulSet, error)
		Delete(context.Context, string, metav1.DeleteOptions) error
	} {
		return clientset.AppsV1().StatefulSets(ns)
	}
	return Adapter[*appsv1.StatefulSet]{
		get: func(ctx context.Context, ns, name string) (*appsv1.StatefulSet, error) {
			return c(ns).Get(ctx, name, metav1.GetOptions{})
		},
		list: func(ctx context.Context, ns string, sel map[string]string) ([]*appsv1.StatefulSet, error) {
			l, err := c(ns).List(ctx, metav1.ListOptions{LabelSelector: labelSelector(sel)})
			if err != nil {
				return nil, err
			}
			out := make([]*appsv1.StatefulSet, 0, len(l.Items))
			for i := range l.Items {
				out = append(out, &l.Items[i])
			}
			return out, nil
		},
		create: func(ctx context.Context, desired *appsv1.StatefulSet) error {
			_, err := c(desired.Namespace).Create(ctx, desired, metav1.CreateOptions{})
			return err
		},
		patch: func(ctx context.Context, ns, name string, desired *appsv1.StatefulSet) error {
			return mergePatch(ctx, desired, func(ctx context.Context, data []byte) error {
				_, err := c(ns).Patch(ctx, name, types.StrategicMergePatchType, data, metav1.PatchOptions{})
				return err
			})
		},
		delete: func(ctx context.Context, ns, name string) error {
			err := c(ns).Delete(ctx, name, metav1.DeleteOptions{})
			if apierrors.IsNotFound(err) {
				return nil
			}
			return err
		},
	}
}

// NewDeployments returns the adapter for the Connect Deployment.
func NewDeployments(clientset kubernetes.Interface) Adapter[*appsv1.Deployment] {
	c := func(ns string) interface {
		Get(context.Context, string, metav1.GetOptions) (*appsv1.Deployment, error)
		List(context.Context, metav1.ListOptions) (*appsv1.DeploymentList, error)
		Create(context.Context, *appsv1.Deployment, metav1.CreateOptions) (*appsv1.Deployment, error)
		Patch(context.Context, string, types.PatchType, []byte, metav1.PatchOptions, ...string) (*appsv1.Deployment, error)
		Delete(context.Context, string, metav1.DeleteOptions) error
	} {
		return clientset.AppsV1().Deployments(ns)
	}
	return Adapter[*appsv1.Deployment]{
		get: func(ctx context.Context, ns, name string) (*appsv1.Deployment, error) {
			return c(ns).Get(ctx, name, metav1.GetOptions{})
		},
		list: func(ctx context.Context, ns string, sel map[string]string) ([]*appsv1.Deployment, error) {
			l, err := c(ns).List(ctx, metav1.ListOptions{LabelSelector: labelSelector(sel)})
			if err != nil {
				return nil, err
			}
			out := make([]*appsv1.Deployment, 0, len(l.Items))
			for i := range l.Items {
				out = append(out, &l.Items[i])
			}
			return out, nil
		},
		create: func(ctx context.Context, desired *appsv1.Deployment) error {
			_, err := c(desired.Namespace).Create(ctx, desired, metav1.CreateOptions{})
			return err
		},
		patch: func(ctx context.Context, ns, name string, desired *appsv1.Deployment) error {
			return mergePatch(ctx, desired, func(ctx context.Context, data []byte) error {
				_, err := c(ns).Patch(ctx, name, types.StrategicMergePatchType, data, metav1.PatchOptions{})
				return err
			})
		},
		delete: func(ctx context.Context, ns, name string) error {
			err := c(ns).Delete(ctx, name, metav1.DeleteOptions{})
			if apierrors.IsNotFound(err) {
				return nil
			}
			return err
		},
	}
}

// NewPersistentVolumeClaims returns the adapter used only to delete
// claims when their storage has deleteClaim=true: the vacated claims on
// scale-down (spec.md invariant I3, §4.3 Update) and every claim of the
// cluster on delete (§4.3 Delete). Claims are otherwise implicit children of the
// stateful workload set's VolumeClaimTemplates and are never created or
// patched directly by the engine.
func NewPersistentVolumeClaims(clientset kubernetes.Interface) Adapter[*corev1.PersistentVolumeClaim] {
	c := func(ns string) interface {
		Get(context.Context, string, metav1.GetOptions) (*corev1.PersistentVolumeClaim, error)
		List(context.Context, metav1.ListOptions) (*corev1.PersistentVolumeClaimList, error)
		Create(context.Context, *corev1.PersistentVolumeClaim, metav1.CreateOptions) (*corev1.PersistentVolumeClaim, error)
		Patch(context.Context, string, types.PatchType, []byte, metav1.PatchOptions, ...string) (*corev1.PersistentVolumeClaim, error)
		Delete(context.Context, string, metav1.DeleteOptions) error
	} {
		return clientset.CoreV1().PersistentVolumeClaims(ns)
	}
	return Adapter[*corev1.PersistentVolumeClaim]{
		get: func(ctx context.Context, ns, name string) (*corev1.PersistentVolumeClaim, error) {
			return c(ns).Get(ctx, name, metav1.GetOptions{})
		},
		list: func(ctx context.Context, ns string, sel map[string]string) ([]*corev1.PersistentVolumeClaim, error) {
			l, err := c(ns).List(ctx, metav1.ListOptions{LabelSelector: labelSelector(sel)})
			if err != nil {
				return nil, err
			}
			out := make([]*corev1.PersistentVolumeClaim, 0, len(l.Items))
			for i := range l.Items {
				out = append(out, &l.Items[i])
			}
			return out, nil
		},
		create: func(ctx context.Context, desired *corev1.PersistentVolumeClaim) error {
			_, err := c(desired.Namespace).Create(ctx, desired, metav1.CreateOptions{})
			return err
		},
		patch: func(ctx context.Context, ns, name string, desired *corev1.PersistentVolumeClaim) error {
			return mergePatch(ctx, desired, func(ctx context.Context, data []byte) error {
				_, err := c(ns).Patch(ctx, name, types.StrategicMergePatchType, data, metav1.PatchOptions{})
				return err
			})
		},
		delete: func(ctx context.Context, ns, name string) error {
			err := c(ns).Delete(ctx, name, metav1.DeleteOptions{})
			if apierrors.IsNotFound(err) {
				return nil
			}
			return err
		},
	}
}
