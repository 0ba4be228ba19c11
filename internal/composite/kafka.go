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
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/go-logr/logr"

	"github.com/netcracker/kafka-cluster-operator/internal/adapter"
	"github.com/netcracker/kafka-cluster-operator/internal/builder"
	"github.com/netcracker/kafka-cluster-operator/internal/discovery"
	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

// Kafka is the Composite for clusterType=kafka.
type Kafka struct {
	ConfigMaps   adapter.Adapter[*corev1.ConfigMap]
	Services     adapter.Adapter[*corev1.Service]
	StatefulSets adapter.Adapter[*appsv1.StatefulSet]
	Claims       adapter.Adapter[*corev1.PersistentVolumeClaim]
	Discovery    discovery.Registrar
	Log          logr.Logger

	// ConvergencePoll/ConvergenceTimeout govern the scale-down claim
	// retention wait from SPEC_FULL §C.4. Zero values fall back to
	// sensible defaults so zero-valued Kafka composites in tests still
	// behave.
	ConvergencePoll    time.Duration
	ConvergenceTimeout time.Duration
}

func (k Kafka) pollInterval() time.Duration {
	if k.ConvergencePoll > 0 {
		return k.ConvergencePoll
	}
	return 2 * time.Second
}

func (k Kafka) convergenceTimeout() time.Duration {
	if k.ConvergenceTimeout > 0 {
		return k.ConvergenceTimeout
	}
	return 5 * time.Minute
}

// GetCluster implements Composite.
func (k Kafka) GetCluster(ctx context.Context, namespace, name string) (*Operation, error) {
	key := model.ClusterKey{ClusterType: model.KafkaType, Namespace: namespace, Name: name}
	op := &Operation{Key: key}

	cm, err := k.ConfigMaps.Get(ctx, namespace, name)
	if err != nil && !apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("get config object %s/%s: %w", namespace, name, err)
	}
	if err == nil {
		desired, err := model.Decode(model.ConfigMapInput{
			Name: cm.Name, Namespace: cm.Namespace, Labels: cm.Labels, Data: cm.Data,
		})
		if err != nil {
			return nil, err
		}
		op.Desired = desired
	}

	sts, err := k.StatefulSets.Get(ctx, namespace, model.KafkaStatefulSetName(name))
	if err != nil && !apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("get stateful workload set %s/%s: %w", namespace, model.KafkaStatefulSetName(name), err)
	}
	if err == nil {
		current, ok, err := model.RecoverKafka(sts.Annotations)
		if err != nil {
			return nil, err
		}
		if ok {
			op.Current = current
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
func (k Kafka) Apply(ctx context.Context, namespace string, op *Operation) error {
	switch {
	case op.Desired == nil:
		return k.delete(ctx, namespace, op)
	case op.Current == nil:
		return k.create(ctx, namespace, op)
	default:
		return k.update(ctx, namespace, op)
	}
}

// create implements the Create (Kafka) ordering from spec.md §4.3:
// headless services, client services, metrics config objects, Zookeeper
// stateful workload set, Kafka stateful workload set.
func (k Kafka) create(ctx context.Context, namespace string, op *Operation) error {
	desired := op.Desired.(*model.KafkaSpec)
	b := builder.Kafka{Spec: desired}

	if err := k.Services.Reconcile(ctx, namespace, model.KafkaHeadlessServiceName(desired.Name), b.HeadlessService()); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.ZookeeperHeadlessServiceName(desired.Name), b.ZookeeperHeadlessService()); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.KafkaClientServiceName(desired.Name), b.ClientService()); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.ZookeeperClientServiceName(desired.Name), b.ZookeeperClientService()); err != nil {
		return err
	}
	if err := k.reconcileMetrics(ctx, namespace, desired, b); err != nil {
		return err
	}

	zk, err := b.ZookeeperStatefulSet()
	if err != nil {
		return err
	}
	if err := k.StatefulSets.Reconcile(ctx, namespace, model.ZookeeperStatefulSetName(desired.Name), zk); err != nil {
		return err
	}

	kafka, err := b.KafkaStatefulSet()
	if err != nil {
		return err
	}
	if err := k.StatefulSets.Reconcile(ctx, namespace, model.KafkaStatefulSetName(desired.Name), kafka); err != nil {
		return err
	}

	k.registerDiscovery(ctx, desired)
	return nil
}

// update implements spec.md §4.3 Update: metrics config objects, then
// services, then the stateful workload sets -- omitting only the latter
// when the diff is metricsChanged-only so no rolling update is
// triggered; services always reconcile. On scaleDown with
// deleteClaim=true, waits for the StatefulSet's replica count to
// converge before deleting the now-vacated claims (SPEC_FULL §C.4,
// resolving the scale-down/claim-retention open question).
func (k Kafka) update(ctx context.Context, namespace string, op *Operation) error {
	current := op.Current.(*model.KafkaSpec)
	desired := op.Desired.(*model.KafkaSpec)
	b := builder.Kafka{Spec: desired}

	if !op.Diff.Different {
		return nil
	}

	if err := k.reconcileMetrics(ctx, namespace, desired, b); err != nil {
		return err
	}

	// Step (b) always runs, even when the diff is metricsChanged-only:
	// spec.md's Update algorithm omits only step (c) in that case, and a
	// Service Reconcile against an unchanged spec is a no-op anyway.
	if err := k.Services.Reconcile(ctx, namespace, model.KafkaHeadlessServiceName(desired.Name), b.HeadlessService()); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.ZookeeperHeadlessServiceName(desired.Name), b.ZookeeperHeadlessService()); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.KafkaClientServiceName(desired.Name), b.ClientService()); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.ZookeeperClientServiceName(desired.Name), b.ZookeeperClientService()); err != nil {
		return err
	}

	// metricsChanged-only: no rolling update, step (c) is skipped entirely.
	if op.Diff.MetricsChanged && !op.Diff.ScaleUp && !op.Diff.ScaleDown && !op.Diff.RollingUpdate {
		return nil
	}

	zk, err := b.ZookeeperStatefulSet()
	if err != nil {
		return err
	}
	if err := k.StatefulSets.Reconcile(ctx, namespace, model.ZookeeperStatefulSetName(desired.Name), zk); err != nil {
		return err
	}

	kafka, err := b.KafkaStatefulSet()
	if err != nil {
		return err
	}
	if err := k.StatefulSets.Reconcile(ctx, namespace, model.KafkaStatefulSetName(desired.Name), kafka); err != nil {
		return err
	}

	if op.Diff.ScaleDown {
		if desired.KafkaStorage.DeleteClaim {
			if err := k.waitAndDeleteVacatedClaims(ctx, namespace, model.KafkaStatefulSetName(desired.Name), desired.Name, model.KafkaClaimName, current.Replicas, desired.Replicas); err != nil {
				return err
			}
		}
		if desired.ZookeeperStorage.DeleteClaim {
			if err := k.waitAndDeleteVacatedClaims(ctx, namespace, model.ZookeeperStatefulSetName(desired.Name), desired.Name, model.ZookeeperClaimName, current.ZookeeperReplicas, desired.ZookeeperReplicas); err != nil {
				return err
			}
		}
	}

	k.registerDiscovery(ctx, desired)
	return nil
}

// delete implements spec.md §4.3 Delete: reverse order of create, and
// additionally deletes claims iff their storage spec has deleteClaim=true.
func (k Kafka) delete(ctx context.Context, namespace string, op *Operation) error {
	current := op.Current.(*model.KafkaSpec)
	name := current.Name

	if err := k.StatefulSets.Reconcile(ctx, namespace, model.KafkaStatefulSetName(name), nil); err != nil {
		return err
	}
	if err := k.StatefulSets.Reconcile(ctx, namespace, model.ZookeeperStatefulSetName(name), nil); err != nil {
		return err
	}
	if err := k.reconcileMetricsDelete(ctx, namespace, name); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.ZookeeperClientServiceName(name), nil); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.KafkaClientServiceName(name), nil); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.ZookeeperHeadlessServiceName(name), nil); err != nil {
		return err
	}
	if err := k.Services.Reconcile(ctx, namespace, model.KafkaHeadlessServiceName(name), nil); err != nil {
		return err
	}

	if current.KafkaStorage.DeleteClaim {
		if err := k.deleteClaims(ctx, namespace, name, model.KafkaClaimName, current.Replicas); err != nil {
			return err
		}
	}
	if current.ZookeeperStorage.DeleteClaim {
		if err := k.deleteClaims(ctx, namespace, name, model.ZookeeperClaimName, current.ZookeeperReplicas); err != nil {
			return err
		}
	}

	if k.Discovery != nil {
		_ = k.Discovery.Deregister(ctx, current.Key().String())
	}
	return nil
}

func (k Kafka) reconcileMetrics(ctx context.Context, namespace string, desired *model.KafkaSpec, b builder.Kafka) error {
	kafkaCM, err := b.KafkaMetricsConfigMap()
	if err != nil {
		return err
	}
	if err := k.ConfigMaps.Reconcile(ctx, namespace, model.KafkaMetricsConfigName(desired.Name), kafkaCM); err != nil {
		return err
	}
	zkCM, err := b.ZookeeperMetricsConfigMap()
	if err != nil {
		return err
	}
	return k.ConfigMaps.Reconcile(ctx, namespace, model.ZookeeperMetricsConfigName(desired.Name), zkCM)
}

func (k Kafka) reconcileMetricsDelete(ctx context.Context, namespace, name string) error {
	if err := k.ConfigMaps.Reconcile(ctx, namespace, model.KafkaMetricsConfigName(name), nil); err != nil {
		return err
	}
	return k.ConfigMaps.Reconcile(ctx, namespace, model.ZookeeperMetricsConfigName(name), nil)
}

// registerDiscovery is best-effort: a registration failure is logged but
// never fails the composite (SPEC_FULL §C.2).
func (k Kafka) registerDiscovery(ctx context.Context, desired *model.KafkaSpec) {
	if k.Discovery == nil {
		return
	}
	address := model.KafkaClientServiceName(desired.Name) + "." + desired.Namespace
	if err := k.Discovery.Register(ctx, desired.Key().String(), desired.Name, address, 9092, nil, nil); err != nil {
		k.Log.Info("discovery registration failed, continuing", "cluster", desired.Key(), "error", err.Error())
	}
}

func (k Kafka) deleteClaims(ctx context.Context, namespace, clusterName string, claimName func(string, int) string, replicas int) error {
	for i := 0; i < replicas; i++ {
		if err := k.Claims.Reconcile(ctx, namespace, claimName(clusterName, i), nil); err != nil {
			return err
		}
	}
	return nil
}

// waitAndDeleteVacatedClaims polls the stateful workload set until its
// observed replica count has converged to desiredReplicas, then deletes
// the claims for the ordinals between desiredReplicas and
// currentReplicas (the ones the scale-down vacated).
func (k Kafka) waitAndDeleteVacatedClaims(ctx context.Context, namespace, stsName, clusterName string, claimName func(string, int) string, currentReplicas, desiredReplicas int) error {
	deadline := time.Now().Add(k.convergenceTimeout())
	for {
		sts, err := k.StatefulSets.Get(ctx, namespace, stsName)
		if err != nil {
			return fmt.Errorf("poll stateful workload set %s/%s for convergence: %w", namespace, stsName, err)
		}
		if sts.Status.Replicas == int32(desiredReplicas) {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("stateful workload set %s/%s did not converge to %d replicas within %s", namespace, stsName, desiredReplicas, k.convergenceTimeout())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(k.pollInterval()):
		}
	}

	for i := desiredReplicas; i < currentReplicas; i++ {
		if err := k.Claims.Reconcile(ctx, namespace, claimName(clusterName, i), nil); err != nil {
			return err
		}
	}
	return nil
}
