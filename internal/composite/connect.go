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

package composite

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/go-logr/logr"

	"github.com/netcracker/kafka-cluster-operator/internal/adapter"
	"github.com/netcracker/kafka-cluster-operator/internal/builder"
	"github.com/netcracker/kafka-cluster-operator/internal/discovery"
	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

// Connect is the Composite for clusterType in {kafka-connect,
// kafka-connect-s2i}. The build resource of the s2i variant is opaque to
// the engine (spec.md §1 OUT OF SCOPE) and is referenced only by name.
type Connect struct {
	ConfigMaps  adapter.Adapter[*corev1.ConfigMap]
	Services    adapter.Adapter[*corev1.Service]
	Deployments adapter.Adapter[*appsv1.Deployment]
	Discovery   discovery.Registrar
	Log         logr.Logger
}

// GetCluster implements Composite.
func (c Connect) GetCluster(ctx context.Context, namespace, name string) (*Operation, error) {
	cm, err := c.ConfigMaps.Get(ctx, namespace, name)
	if err != nil && !apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("get config object %s/%s: %w", namespace, name, err)
	}

	var clusterType model.ClusterType = model.KafkaConnectType
	op := &Operation{}
	if err == nil {
		if t, ok := cm.Labels[model.TypeLabel]; ok {
			clusterType = model.ClusterType(t)
		}
		desired, err := model.Decode(model.ConfigMapInput{
			Name: cm.Name, Namespace: cm.Namespace, Labels: cm.Labels, Data: cm.Data,
		})
		if err != nil {
			return nil, err
		}
		op.Desired = desired
	}
	op.Key = model.ClusterKey{ClusterType: clusterType, Namespace: namespace, Name: name}

	deployment, err := c.Deployments.Get(ctx, namespace, model.ConnectDeploymentName(name))
	if err != nil && !apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("get deployment %s/%s: %w", namespace, model.ConnectDeploymentName(name), err)
	}
	if err == nil {
		current, ok, err := model.RecoverConnect(deployment.Annotations)
		if err != nil {
			return nil, err
		}
		if ok {
			op.Current = current
			if op.Key.ClusterType == "" {
				op.Key = current.Key()
			}
		}
	}

	if op.Desired != nil && op.Current != nil {
		diff, err := model.Diff(op.Current, op.Desired)
		if err != nil {
			return nil, err
		}
		op.Diff = diff
	}
	return op, nil
}

// Apply implements Composite.
func (c Connect) Apply(ctx context.Context, namespace string, op *Operation) error {
	switch {
	case op.Desired == nil:
		return c.delete(ctx, namespace, op)
	case op.Current == nil:
		return c.create(ctx, namespace, op)
	default:
		return c.update(ctx, namespace, op)
	}
}

// create implements the Create (Connect) ordering from spec.md §4.3:
// the Deployment, then its Service. For the kafka-connect-s2i variant,
// SPEC_FULL §C.1 prepends the build config object ahead of the
// Deployment step.
func (c Connect) create(ctx context.Context, namespace string, op *Operation) error {
	desired := op.Desired.(*model.ConnectSpec)
	b := builder.Connect{Spec: desired}

	if desired.IsS2I() {
		if err := c.ConfigMaps.Reconcile(ctx, namespace, desired.BuildConfigName, b.BuildConfig()); err != nil {
			return err
		}
	}

	deployment, err := b.Deployment()
	if err != nil {
		return err
	}
	if err := c.Deployments.Reconcile(ctx, namespace, model.ConnectDeploymentName(desired.Name), deployment); err != nil {
		return err
	}
	if err := c.Services.Reconcile(ctx, namespace, model.ConnectServiceName(desired.Name), b.Service()); err != nil {
		return err
	}

	c.registerDiscovery(ctx, desired)
	return nil
}

// update does nothing when the diff carries no change at all; otherwise it
// patches the Service, then (s2i only) the build config object, then the
// Deployment.
func (c Connect) update(ctx context.Context, namespace string, op *Operation) error {
	desired := op.Desired.(*model.ConnectSpec)
	b := builder.Connect{Spec: desired}

	if !op.Diff.Different {
		return nil
	}

	if err := c.Services.Reconcile(ctx, namespace, model.ConnectServiceName(desired.Name), b.Service()); err != nil {
		return err
	}

	if desired.IsS2I() {
		if err := c.ConfigMaps.Reconcile(ctx, namespace, desired.BuildConfigName, b.BuildConfig()); err != nil {
			return err
		}
	}

	deployment, err := b.Deployment()
	if err != nil {
		return err
	}
	if err := c.Deployments.Reconcile(ctx, namespace, model.ConnectDeploymentName(desired.Name), deployment); err != nil {
		return err
	}

	c.registerDiscovery(ctx, desired)
	return nil
}

// delete is the reverse of create: Service first, then the Deployment,
// then (s2i only) the build config object last (SPEC_FULL §C.1).
func (c Connect) delete(ctx context.Context, namespace string, op *Operation) error {
	current := op.Current.(*model.ConnectSpec)

	if err := c.Services.Reconcile(ctx, namespace, model.ConnectServiceName(current.Name), nil); err != nil {
		return err
	}
	if err := c.Deployments.Reconcile(ctx, namespace, model.ConnectDeploymentName(current.Name), nil); err != nil {
		return err
	}
	if current.IsS2I() {
		if err := c.ConfigMaps.Reconcile(ctx, namespace, current.BuildConfigName, nil); err != nil {
			return err
		}
	}

	if c.Discovery != nil {
		_ = c.Discovery.Deregister(ctx, current.Key().String())
	}
	return nil
}

func (c Connect) registerDiscovery(ctx context.Context, desired *model.ConnectSpec) {
	if c.Discovery == nil {
		return
	}
	address := model.ConnectServiceName(desired.Name) + "." + desired.Namespace
	if err := c.Discovery.Register(ctx, desired.Key().String(), desired.Name, address, 8083, nil, nil); err != nil {
		c.Log.Info("discovery registration failed, continuing", "cluster", desired.Key(), "error", err.Error())
	}
}
