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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseKafkaSpec() *KafkaSpec {
	return &KafkaSpec{
		CommonSpec: CommonSpec{
			ClusterType: KafkaType,
			Name:        "my-cluster",
			Namespace:   "kafka-service",
			Replicas:    3,
			Image:       "strimzi/kafka:latest",
		},
		ZookeeperReplicas: 3,
		ZookeeperImage:    "strimzi/zookeeper:latest",
		KafkaStorage:      StorageSpec{Type: EphemeralStorage},
		ZookeeperStorage:  StorageSpec{Type: EphemeralStorage},
	}
}

// TestDiff_Identity exercises half of P5: diff(x, x) = ∅.
func TestDiff_Identity(t *testing.T) {
	spec := baseKafkaSpec()
	diff, err := Diff(spec, spec)
	require.NoError(t, err)
	assert.False(t, diff.Different)
	assert.False(t, diff.ScaleUp)
	assert.False(t, diff.ScaleDown)
	assert.False(t, diff.RollingUpdate)
	assert.False(t, diff.MetricsChanged)
}

func TestDiff_ScaleUp(t *testing.T) {
	current := baseKafkaSpec()
	desired := baseKafkaSpec()
	desired.Replicas = 5

	diff, err := Diff(current, desired)
	require.NoError(t, err)
	assert.True(t, diff.ScaleUp)
	assert.False(t, diff.ScaleDown)
	assert.False(t, diff.RollingUpdate)
	assert.True(t, diff.Different)
}

func TestDiff_ScaleDown(t *testing.T) {
	current := baseKafkaSpec()
	desired := baseKafkaSpec()
	desired.Replicas = 1

	diff, err := Diff(current, desired)
	require.NoError(t, err)
	assert.True(t, diff.ScaleDown)
	assert.False(t, diff.ScaleUp)
}

func TestDiff_MetricsOnly_NoRollingUpdate(t *testing.T) {
	current := baseKafkaSpec()
	desired := baseKafkaSpec()
	desired.KafkaMetricsConfig = MetricsConfig{Present: true, Raw: map[string]interface{}{"rules": []interface{}{}}}

	diff, err := Diff(current, desired)
	require.NoError(t, err)
	assert.True(t, diff.MetricsChanged)
	assert.False(t, diff.RollingUpdate)
	assert.False(t, diff.ScaleUp)
	assert.False(t, diff.ScaleDown)
	assert.True(t, diff.Different)
}

func TestDiff_ImageChange_RollingUpdate(t *testing.T) {
	current := baseKafkaSpec()
	desired := baseKafkaSpec()
	desired.Image = "strimzi/kafka:newer"

	diff, err := Diff(current, desired)
	require.NoError(t, err)
	assert.True(t, diff.RollingUpdate)
	assert.False(t, diff.ScaleUp)
	assert.False(t, diff.ScaleDown)
}

// TestDiff_StorageTypeChange_IllegalTransition exercises P6.
func TestDiff_StorageTypeChange_IllegalTransition(t *testing.T) {
	current := baseKafkaSpec()
	desired := baseKafkaSpec()
	desired.KafkaStorage = StorageSpec{Type: PersistentClaimStorage, Size: "10Gi"}

	_, err := Diff(current, desired)
	require.Error(t, err)

	var illegal *IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
}

func TestDiff_NilCurrent_IsCreate(t *testing.T) {
	desired := baseKafkaSpec()
	diff, err := Diff(nil, desired)
	require.NoError(t, err)
	assert.True(t, diff.Different)
}

func TestDiff_ConnectScaleUp(t *testing.T) {
	current := &ConnectSpec{CommonSpec: CommonSpec{ClusterType: KafkaConnectType, Replicas: 1, Image: "strimzi/kafka-connect:latest"}}
	desired := &ConnectSpec{CommonSpec: CommonSpec{ClusterType: KafkaConnectType, Replicas: 3, Image: "strimzi/kafka-connect:latest"}}

	diff, err := Diff(current, desired)
	require.NoError(t, err)
	assert.True(t, diff.ScaleUp)
	assert.False(t, diff.RollingUpdate)
}
