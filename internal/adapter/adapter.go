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

// Package adapter is the thin capability surface over the orchestrator
// API for each resource kind the engine manipulates (spec.md §4.1
// Resource Client Adapter). Every adapter shares the same uniform
// reconcile contract; the per-kind files in this package only supply the
// get/list/create/patch/delete primitives the generic Adapter composes.
package adapter

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Object is the constraint every adapter's resource type satisfies: a
// pointer to a typed Kubernetes API object, which is what client-go's
// typed clientset methods return and accept.
type Object interface {
	comparable
}

// Adapter is the generic Resource Client Adapter (spec.md §4.1). T is a
// pointer type such as *corev1.ConfigMap. Reconcile is the canonical
// create-or-update-or-delete primitive every composite operation drives.
type Adapter[T Object] struct {
	get    func(ctx context.Context, namespace, name string) (T, error)
	list   func(ctx context.Context, namespace string, labels map[string]string) ([]T, error)
	create func(ctx context.Context, desired T) error
	patch  func(ctx context.Context, namespace, name string, desired T) error
	delete func(ctx context.Context, namespace, name string) error
}

// Get returns the named object, or a NotFound error matching
// apierrors.IsNotFound.
func (a Adapter[T]) Get(ctx context.Context, namespace, name string) (T, error) {
	return a.get(ctx, namespace, name)
}

// List returns every object in namespace whose labels are a superset of
// the given selector (spec.md §4.1: "every key=value pair in labels").
// Order is unspecified.
func (a Adapter[T]) List(ctx context.Context, namespace string, labels map[string]string) ([]T, error) {
	return a.list(ctx, namespace, labels)
}

// Reconcile implements the contract from spec.md §4.1:
//   - desired == nil (the zero value of T) and the object exists -> delete; idempotent.
//   - desired != nil and no object exists -> create.
//   - otherwise -> patch with strategic-merge semantics.
func (a Adapter[T]) Reconcile(ctx context.Context, namespace, name string, desired T) error {
	var zero T
	_, err := a.get(ctx, namespace, name)
	notFound := apierrors.IsNotFound(err)
	if err != nil && !notFound {
		return fmt.Errorf("get %s/%s: %w", namespace, name, err)
	}

	switch {
	case desired == zero && notFound:
		return nil
	case desired == zero:
		if err := a.delete(ctx, namespace, name); err != nil && !apierrors.IsNotFound(err) {
			return fmt.Errorf("delete %s/%s: %w", namespace, name, err)
		}
		return nil
	case notFound:
		if err := a.create(ctx, desired); err != nil {
			return fmt.Errorf("create %s/%s: %w", namespace, name, err)
		}
		return nil
	default:
		if err := a.patch(ctx, namespace, name, desired); err != nil {
			return fmt.Errorf("patch %s/%s: %w", namespace, name, err)
		}
		return nil
	}
}
