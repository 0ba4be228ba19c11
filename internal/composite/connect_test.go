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
	"testing"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netcracker/kafka-cluster-operator/internal/adapter"
	"github.com/netcracker/kafka-cluster-operator/internal/discovery"
	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

func connectInputConfigMap(clusterType model.ClusterType) *corev1.ConfigMap {
	data := map[string]string{}
	if clusterType == model.KafkaConnectS2I {
		data["build-image"] = "my-connect-build:latest"
	}
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "my-connect",
			Namespace: "kafka-service",
			Labels:    map[string]string{model.KindLabel: model.DefaultKindLabelValue, model.TypeLabel: string(clusterType)},
		},
		Data: data,
	}
}

func newConnectComposite(clientset *fake.Clientset) Connect {
	return Connect{
		ConfigMaps:  adapter.NewConfigMaps(clientset),
		Services:    adapter.NewServices(clientset),
		Deployments: adapter.NewDeployments(clientset),
		Discovery:   discovery.NoOp{},
		Log:         logr.Discard(),
	}
}

func TestConnect_Apply_Create_WritesServiceAndDeployment(t *testing.T) {
	clientset := fake.NewSimpleClientset(connectInputConfigMap(model.KafkaConnectType))
	c := newConnectComposite(clientset)

	op, err := c.GetCluster(context.Background(), "kafka-service", "my-connect")
	require.NoError(t, err)
	require.NotNil(t, op.Desired)
	assert.Nil(t, op.Current)

	require.NoError(t, c.Apply(context.Background(), "kafka-service", op))

	_, err = c.Services.Get(context.Background(), "kafka-service", model.ConnectServiceName("my-connect"))
	assert.NoError(t, err)
	dep, err := c.Deployments.Get(context.Background(), "kafka-service", model.ConnectDeploymentName("my-connect"))
	require.NoError(t, err)
	assert.Contains(t, dep.Annotations, model.LastAppliedAnnotation)
}

func TestConnect_Apply_Create_S2I_AlsoWritesBuildConfig(t *testing.T) {
	clientset := fake.NewSimpleClientset(connectInputConfigMap(model.KafkaConnectS2I))
	c := newConnectComposite(clientset)

	op, err := c.GetCluster(context.Background(), "kafka-service", "my-connect")
	require.NoError(t, err)
	desired := op.Desired.(*model.ConnectSpec)
	require.True(t, desired.IsS2I())

	require.NoError(t, c.Apply(context.Background(), "kafka-service", op))

	_, err = c.ConfigMaps.Get(context.Background(), "kafka-service", desired.BuildConfigName)
	assert.NoError(t, err)
}

func TestConnect_Apply_Delete_RemovesServiceAndDeployment(t *testing.T) {
	clientset := fake.NewSimpleClientset(connectInputConfigMap(model.KafkaConnectType))
	c := newConnectComposite(clientset)

	op, err := c.GetCluster(context.Background(), "kafka-service", "my-connect")
	require.NoError(t, err)
	require.NoError(t, c.Apply(context.Background(), "kafka-service", op))

	require.NoError(t, clientset.CoreV1().ConfigMaps("kafka-service").Delete(context.Background(), "my-connect", metav1.DeleteOptions{}))

	op2, err := c.GetCluster(context.Background(), "kafka-service", "my-connect")
	require.NoError(t, err)
	assert.Nil(t, op2.Desired)
	require.NotNil(t, op2.Current)

	require.NoError(t, c.Apply(context.Background(), "kafka-service", op2))

	_, err = c.Deployments.Get(context.Background(), "kafka-service", model.ConnectDeploymentName("my-connect"))
	assert.Error(t, err)
	_, err = c.Services.Get(context.Background(), "kafka-service", model.ConnectServiceName("my-connect"))
	assert.Error(t, err)
}
