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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

func connectSpecFixture() *model.ConnectSpec {
	return &model.ConnectSpec{
		CommonSpec: model.CommonSpec{
			ClusterType: model.KafkaConnectType,
			Name:        "my-connect",
			Namespace:   "kafka-service",
			Replicas:    2,
			Image:       "strimzi/kafka-connect:latest",
		},
		BootstrapServers: "my-cluster-kafka:9092",
		GroupID:          "my-connect-group",
		KeyConverter:     "org.apache.kafka.connect.json.JsonConverter",
		ValueConverter:   "org.apache.kafka.connect.json.JsonConverter",
	}
}

func TestConnect_Service_Name(t *testing.T) {
	b := Connect{Spec: connectSpecFixture()}
	svc := b.Service()
	assert.Equal(t, "my-connect-connect", svc.Name)
	require.Len(t, svc.Spec.Ports, 1)
	assert.EqualValues(t, 8083, svc.Spec.Ports[0].Port)
}

func TestConnect_Deployment_UsesBaseImageWhenNotS2I(t *testing.T) {
	b := Connect{Spec: connectSpecFixture()}
	dep, err := b.Deployment()
	require.NoError(t, err)

	require.NotNil(t, dep.Spec.Replicas)
	assert.EqualValues(t, 2, *dep.Spec.Replicas)
	require.Len(t, dep.Spec.Template.Spec.Containers, 1)
	assert.Equal(t, "strimzi/kafka-connect:latest", dep.Spec.Template.Spec.Containers[0].Image)
}

func TestConnect_Deployment_UsesBuildImageWhenS2I(t *testing.T) {
	spec := connectSpecFixture()
	spec.ClusterType = model.KafkaConnectS2I
	spec.BuildImage = "image-registry.local/my-connect:build-7"
	spec.BuildConfigName = "my-connect-build"
	b := Connect{Spec: spec}

	dep, err := b.Deployment()
	require.NoError(t, err)
	assert.Equal(t, "image-registry.local/my-connect:build-7", dep.Spec.Template.Spec.Containers[0].Image)
	assert.True(t, spec.IsS2I())
}

func TestConnect_BuildConfig_CarriesBuildImage(t *testing.T) {
	spec := connectSpecFixture()
	spec.ClusterType = model.KafkaConnectS2I
	spec.BuildImage = "image-registry.local/my-connect:build-7"
	spec.BuildConfigName = "my-connect-build"
	b := Connect{Spec: spec}

	cm := b.BuildConfig()
	assert.Equal(t, "my-connect-build", cm.Name)
	assert.Equal(t, "image-registry.local/my-connect:build-7", cm.Data["build-image"])
}
