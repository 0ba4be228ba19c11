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

// Package engine is the reconciliation engine (spec.md §4.5): it watches
// label-selected input configuration objects, partitions add/update/delete
// work against the representative resources of each watched clusterType,
// and dispatches each cluster's work through the per-cluster serializer to
// a composite operation.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	corev1 "k8s.io/api/core/v1"

	"github.com/netcracker/kafka-cluster-operator/internal/adapter"
	"github.com/netcracker/kafka-cluster-operator/internal/composite"
	"github.com/netcracker/kafka-cluster-operator/internal/lock"
	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

// RepresentativeLister, for one clusterType, lists the resources whose
// presence/absence the engine diffs against the input configuration
// objects: the Kafka StatefulSet for clusterType=kafka, the Deployment
// for the two Connect variants.
type RepresentativeLister interface {
	Names(ctx context.Context, namespace string, selector map[string]string) (map[string]struct{}, error)
}

// Engine owns one Composite and one RepresentativeLister per watched
// clusterType, the shared serializer/coalescer, and the sweep loop.
type Engine struct {
	Namespace       string
	SelectorLabels  map[string]string
	SweepInterval   time.Duration
	LockTimeout     time.Duration
	ConfigMaps      adapter.Adapter[*corev1.ConfigMap]
	Composites      map[model.ClusterType]composite.Composite
	Representatives map[model.ClusterType]RepresentativeLister
	Serializer      *lock.Serializer
	Coalescer       *lock.Coalescer
	Log             logr.Logger

	mu           sync.RWMutex
	lastSweepOK  bool
	lastSweepAt  time.Time
	running      bool
}

// Start runs the periodic sweep loop until ctx is canceled. A sweep in
// progress, with every operation it dispatched, finishes before Start
// returns; operations dispatched by WatchConfigMaps are not waited for.
func (e *Engine) Start(ctx context.Context) error {
	e.setRunning(true)
	defer e.setRunning(false)

	ticker := time.NewTicker(e.SweepInterval)
	defer ticker.Stop()

	e.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.sweep(ctx)
		}
	}
}

func (e *Engine) setRunning(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = v
}

// Healthy reports spec.md §6's health contract: true when the engine is
// running and its last sweep completed (successfully or not) within one
// full reconciliation interval.
func (e *Engine) Healthy() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.running {
		return false
	}
	return time.Since(e.lastSweepAt) < e.SweepInterval
}

// Ready reports whether the last completed sweep succeeded.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running && e.lastSweepOK && time.Since(e.lastSweepAt) < e.SweepInterval
}

// sweep implements spec.md §4.5's periodic full sweep: per supported
// clusterType, enumerate label-selected configuration objects and
// label-selected representative resources, partition by name-set, and
// dispatch each element to the corresponding operation.
func (e *Engine) sweep(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	ok := true
	var okMu sync.Mutex

	for _, clusterType := range model.SupportedTypes {
		clusterType := clusterType
		comp, haveComposite := e.Composites[clusterType]
		lister, haveLister := e.Representatives[clusterType]
		if !haveComposite || !haveLister {
			continue
		}
		g.Go(func() error {
			if err := e.sweepOne(gctx, clusterType, comp, lister); err != nil {
				e.Log.Error(err, "sweep failed", "clusterType", clusterType)
				okMu.Lock()
				ok = false
				okMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	e.mu.Lock()
	e.lastSweepAt = time.Now()
	e.lastSweepOK = ok
	e.mu.Unlock()
}

func (e *Engine) sweepOne(ctx context.Context, clusterType model.ClusterType, comp composite.Composite, lister RepresentativeLister) error {
	selector := map[string]string{model.TypeLabel: string(clusterType)}
	for k, v := range e.SelectorLabels {
		selector[k] = v
	}

	configs, err := e.ConfigMaps.List(ctx, e.Namespace, selector)
	if err != nil {
		return err
	}
	configNames := make(map[string]struct{}, len(configs))
	for _, cm := range configs {
		configNames[cm.Name] = struct{}{}
	}

	resources, err := lister.Names(ctx, e.Namespace, map[string]string{model.TypeLabel: string(clusterType)})
	if err != nil {
		return err
	}

	// add = configs without a resource, update = configs with one,
	// delete = resources without a config (spec.md §4.5 partition). All
	// three dispatch the same way; the composite decides create/update/
	// delete once it sees which of Current/Desired is nil.
	dispatched := make(map[string]struct{}, len(configNames)+len(resources))
	for name := range configNames {
		dispatched[name] = struct{}{}
	}
	for name := range resources {
		dispatched[name] = struct{}{}
	}

	// Fanned out the same way sweep() fans out clusterTypes: the
	// per-cluster Serializer is what keeps each cluster key single-flight,
	// not the order this loop runs in, so a slow-converging cluster must
	// not hold up reconciliation of every other cluster of the same
	// clusterType for the rest of this sweep.
	dg, dgctx := errgroup.WithContext(ctx)
	for name := range dispatched {
		name := name
		dg.Go(func() error {
			e.Dispatch(dgctx, clusterType, e.Namespace, name, comp)
			return nil
		})
	}
	return dg.Wait()
}

// Dispatch implements spec.md §4.5 execute(): acquire the per-cluster
// lock, build the operation, apply it, release. Coalesced through the
// singleflight group so a burst of identical dispatches for the same key
// collapses into one in-flight execution (spec.md §4.5 event coalescing).
func (e *Engine) Dispatch(ctx context.Context, clusterType model.ClusterType, namespace, name string, comp composite.Composite) {
	key := model.ClusterKey{ClusterType: clusterType, Namespace: namespace, Name: name}
	_, _ = e.Coalescer.Do(key.String(), func() (any, error) {
		e.execute(ctx, key, comp)
		return nil, nil
	})
}

func (e *Engine) execute(ctx context.Context, key model.ClusterKey, comp composite.Composite) {
	lease, err := e.Serializer.Acquire(ctx, key.LockName(), e.LockTimeout)
	if err != nil {
		e.Log.Error(err, "lock acquisition failed, abandoning operation for this sweep", "cluster", key)
		return
	}
	defer lease.Release()

	op, err := comp.GetCluster(ctx, key.Namespace, key.Name)
	if err != nil {
		e.Log.Error(err, "getCluster failed", "cluster", key)
		return
	}
	if op.Current == nil && op.Desired == nil {
		return
	}

	if err := comp.Apply(ctx, key.Namespace, op); err != nil {
		e.Log.Error(err, "apply failed", "cluster", key)
		return
	}
	e.Log.Info("reconciled", "cluster", key)
}
