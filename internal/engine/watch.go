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

package engine

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"

	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

// WatchConfigMaps drives the event trigger half of spec.md §4.5: a
// SharedIndexInformer over label-selected input configuration objects,
// classifying and dispatching each add/modify/delete notification
// immediately and non-blockingly (the handler starts Dispatch in its own
// goroutine and returns; Dispatch itself blocks until the operation ends).
func (e *Engine) WatchConfigMaps(ctx context.Context, clientset kubernetes.Interface) {
	selector := labels.SelectorFromSet(e.SelectorLabels).String()
	lw := &cache.ListWatch{
		ListFunc: func(opts metav1.ListOptions) (runtime.Object, error) {
			opts.LabelSelector = selector
			return clientset.CoreV1().ConfigMaps(e.Namespace).List(ctx, opts)
		},
		WatchFunc: func(opts metav1.ListOptions) (watch.Interface, error) {
			opts.LabelSelector = selector
			return clientset.CoreV1().ConfigMaps(e.Namespace).Watch(ctx, opts)
		},
	}

	informer := cache.NewSharedIndexInformer(lw, &corev1.ConfigMap{}, 0, cache.Indexers{})
	informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc:    func(obj interface{}) { e.handleConfigMapEvent(ctx, obj) },
		UpdateFunc: func(_, obj interface{}) { e.handleConfigMapEvent(ctx, obj) },
		DeleteFunc: func(obj interface{}) { e.handleConfigMapEvent(ctx, obj) },
	})
	informer.Run(ctx.Done())
}

func (e *Engine) handleConfigMapEvent(ctx context.Context, obj interface{}) {
	cm, ok := obj.(*corev1.ConfigMap)
	if !ok {
		tomb, ok := obj.(cache.DeletedFinalStateUnknown)
		if !ok {
			return
		}
		cm, ok = tomb.Obj.(*corev1.ConfigMap)
		if !ok {
			return
		}
	}

	clusterType := model.ClusterType(cm.Labels[model.TypeLabel])
	comp, ok := e.Composites[clusterType]
	if !ok {
		return
	}

	// Non-blocking per spec.md §4.5: Dispatch waits on the coalescer and
	// serializer and runs the operation, so it runs in its own goroutine.
	go e.Dispatch(ctx, clusterType, cm.Namespace, cm.Name, comp)
}
