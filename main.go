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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	goflags "github.com/jessevdk/go-flags"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/netcracker/kafka-cluster-operator/cfg"
	"github.com/netcracker/kafka-cluster-operator/internal/adapter"
	"github.com/netcracker/kafka-cluster-operator/internal/composite"
	"github.com/netcracker/kafka-cluster-operator/internal/discovery"
	"github.com/netcracker/kafka-cluster-operator/internal/engine"
	"github.com/netcracker/kafka-cluster-operator/internal/health"
	"github.com/netcracker/kafka-cluster-operator/internal/lock"
	"github.com/netcracker/kafka-cluster-operator/internal/model"
)

var setupLog = ctrl.Log.WithName("setup")

func main() {
	var opts cfg.Cfg

	// DefaultsFile names itself through the same flag/env surface goflags
	// parses below, so finding it has to happen one step ahead: fall back
	// to the DEFAULTS_FILE env var the way Cfg's own "env" tag does, then
	// seed opts from it before goflags applies its struct "default" tags
	// and any actually-given flag/env value on top.
	defaults, err := cfg.LoadDefaults(os.Getenv("DEFAULTS_FILE"))
	if err != nil {
		setupLog.Error(err, "unable to load defaults file")
		os.Exit(1)
	}
	defaults.Apply(&opts)

	zapOpts := zap.Options{Development: true}
	zapOpts.BindFlags(flag.CommandLine)
	parser := goflags.NewParser(&opts, goflags.Default)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}
	flag.Parse()
	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&zapOpts)))

	restCfg, err := rest.InClusterConfig()
	if err != nil {
		setupLog.Error(err, "unable to load in-cluster config")
		os.Exit(1)
	}
	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		setupLog.Error(err, "unable to build orchestrator client")
		os.Exit(1)
	}

	registrar := buildRegistrar(opts)

	e := buildEngine(opts, clientset, registrar)

	ctx := ctrl.SetupSignalHandler()
	run(ctx, e, opts, clientset)
}

func buildRegistrar(opts cfg.Cfg) discovery.Registrar {
	if !opts.ConsulEnabled {
		return discovery.NoOp{}
	}
	consul, err := discovery.NewConsul(opts.ConsulAddress)
	if err != nil {
		setupLog.Error(err, "unable to connect to consul, falling back to no-op discovery")
		return discovery.NoOp{}
	}
	return consul
}

func buildEngine(opts cfg.Cfg, clientset kubernetes.Interface, registrar discovery.Registrar) *engine.Engine {
	configMaps := adapter.NewConfigMaps(clientset)
	services := adapter.NewServices(clientset)
	statefulSets := adapter.NewStatefulSets(clientset)
	deployments := adapter.NewDeployments(clientset)
	claims := adapter.NewPersistentVolumeClaims(clientset)

	kafkaComposite := composite.Kafka{
		ConfigMaps:   configMaps,
		Services:     services,
		StatefulSets: statefulSets,
		Claims:       claims,
		Discovery:    registrar,
		Log:          ctrl.Log.WithName("composite").WithName("kafka"),
	}
	connectComposite := composite.Connect{
		ConfigMaps:  configMaps,
		Services:    services,
		Deployments: deployments,
		Discovery:   registrar,
		Log:         ctrl.Log.WithName("composite").WithName("connect"),
	}

	return &engine.Engine{
		Namespace:      opts.Namespace,
		SelectorLabels: selectorLabels(opts.ConfigMapLabels),
		SweepInterval:  opts.FullReconciliationInterval(),
		LockTimeout:    opts.LockTimeout(),
		ConfigMaps:     configMaps,
		Composites: map[model.ClusterType]composite.Composite{
			model.KafkaType:        kafkaComposite,
			model.KafkaConnectType: connectComposite,
			model.KafkaConnectS2I:  connectComposite,
		},
		Representatives: map[model.ClusterType]engine.RepresentativeLister{
			model.KafkaType:        engine.StatefulSetLister{StatefulSets: statefulSets},
			model.KafkaConnectType: engine.DeploymentLister{Deployments: deployments},
			model.KafkaConnectS2I:  engine.DeploymentLister{Deployments: deployments},
		},
		Serializer: lock.NewSerializer(),
		Coalescer:  lock.NewCoalescer(),
		Log:        ctrl.Log.WithName("engine"),
	}
}

// selectorLabels parses the "key=value[,key=value...]" syntax documented
// on cfg.Cfg.ConfigMapLabels (spec.md §6 CONFIGMAP_LABELS, default
// "kind=cluster").
func selectorLabels(raw string) map[string]string {
	labels := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		labels[key] = value
	}
	return labels
}

// run starts the engine's sweep loop, its event-driven watch, and the
// health server together and blocks until ctx is canceled and all three
// have returned. An in-progress sweep finishes first; operations started
// by watch events are not waited for.
func run(ctx context.Context, e *engine.Engine, opts cfg.Cfg, clientset kubernetes.Interface) {
	healthServer := &health.Server{Addr: opts.ProbeAddr, Checker: e}

	done := make(chan struct{}, 3)
	go func() { defer func() { done <- struct{}{} }(); e.WatchConfigMaps(ctx, clientset) }()
	go func() {
		defer func() { done <- struct{}{} }()
		if err := e.Start(ctx); err != nil {
			setupLog.Error(err, "engine stopped with error")
		}
	}()
	go func() {
		defer func() { done <- struct{}{} }()
		if err := healthServer.Start(ctx); err != nil {
			setupLog.Error(err, "health server stopped with error")
		}
	}()

	<-ctx.Done()
	setupLog.Info(fmt.Sprintf("shutting down, draining in-flight operations"))
	<-done
	<-done
	<-done
}
