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

package model

import "fmt"

// Deterministic resource name templates (spec.md §3 name-template table).
// Every engine-owned resource name is derived from the cluster name alone,
// so recovery and lookup never need a side index.

func KafkaStatefulSetName(clusterName string) string { return clusterName + "-kafka" }

func ZookeeperStatefulSetName(clusterName string) string { return clusterName + "-zookeeper" }

func KafkaHeadlessServiceName(clusterName string) string { return clusterName + "-kafka-headless" }

func ZookeeperHeadlessServiceName(clusterName string) string { return clusterName + "-zookeeper-headless" }

func KafkaClientServiceName(clusterName string) string { return clusterName + "-kafka" }

func ZookeeperClientServiceName(clusterName string) string { return clusterName + "-zookeeper" }

func KafkaMetricsConfigName(clusterName string) string { return clusterName + "-kafka-metrics-config" }

func ZookeeperMetricsConfigName(clusterName string) string {
	return clusterName + "-zookeeper-metrics-config"
}

func ConnectDeploymentName(clusterName string) string { return clusterName + "-connect" }

func ConnectServiceName(clusterName string) string { return clusterName + "-connect" }

// KafkaClaimName returns the name of the i-th broker's persistent claim,
// i being the StatefulSet ordinal.
func KafkaClaimName(clusterName string, i int) string {
	return fmt.Sprintf("kafka-storage-%s-kafka-%d", clusterName, i)
}

// ZookeeperClaimName returns the name of the i-th zk node's persistent
// claim, i being the StatefulSet ordinal.
func ZookeeperClaimName(clusterName string, i int) string {
	return fmt.Sprintf("zookeeper-storage-%s-zookeeper-%d", clusterName, i)
}
