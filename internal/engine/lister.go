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
	"strings"

	appsv1 "k8s.io/api/apps/v1"

	"github.com/netcracker/kafka-cluster-operator/internal/adapter"
)

// StatefulSetLister is the RepresentativeLister for clusterType=kafka: the
// representative resource is the Kafka broker StatefulSet, named
// "<clusterName>-kafka". Names strips the "-kafka" suffix so the returned
// set is keyed by cluster name, matching the config-object name-set.
type StatefulSetLister struct {
	StatefulSets adapter.Adapter[*appsv1.StatefulSet]
}

func (l StatefulSetLister) Names(ctx context.Context, namespace string, selector map[string]string) (map[string]struct{}, error) {
	sets, err := l.StatefulSets.List(ctx, namespace, selector)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(sets))
	for _, s := range sets {
		if clusterName, ok := strings.CutSuffix(s.Name, "-kafka"); ok {
			names[clusterName] = struct{}{}
		}
	}
	return names, nil
}

// DeploymentLister is the RepresentativeLister for the two Connect
// clusterTypes: the representative resource is the Connect Deployment,
// named "<clusterName>-connect".
type DeploymentLister struct {
	Deployments adapter.Adapter[*appsv1.Deployment]
}

func (l DeploymentLister) Names(ctx context.Context, namespace string, selector map[string]string) (map[string]struct{}, error) {
	deployments, err := l.Deployments.List(ctx, namespace, selector)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(deployments))
	for _, d := range deployments {
		if clusterName, ok := strings.CutSuffix(d.Name, "-connect"); ok {
			names[clusterName] = struct{}{}
		}
	}
	return names, nil
}
