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

package cfg

import (
	"fmt"
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

// Cfg is the engine's process configuration, populated from the
// environment and command-line flags (spec.md §6 "Process environment").
type Cfg struct {
	MetricsAddr          string `long:"metrics-bind-address" description:"The address the metric endpoint binds to." default:":8082"`
	ProbeAddr            string `long:"health-probe-bind-address" description:"The address the health probe endpoint binds to." default:":8081"`
	EnableLeaderElection bool   `long:"leader-elect" description:"Enable leader election. Enabling this will ensure there is only one active engine instance." env:"LEADER_ELECT"`

	Namespace string `long:"namespace" description:"Namespace to watch for cluster configuration objects" env:"NAMESPACE" required:"true"`

	ConfigMapLabels string `long:"configmap-labels" description:"Label selector for cluster configuration objects, as key=value[,key=value...]" env:"CONFIGMAP_LABELS" default:"kind=cluster"`

	FullReconciliationIntervalMs int `long:"full-reconciliation-interval" description:"Milliseconds between periodic full sweeps" env:"FULL_RECONCILIATION_INTERVAL" default:"120000"`

	LockTimeoutMs int `long:"lock-timeout" description:"Milliseconds to wait for a per-cluster lock before abandoning an operation" env:"LOCK_TIMEOUT" default:"60000"`

	ConsulEnabled bool   `long:"consul-enabled" description:"Register reconciled clusters in Consul service discovery" env:"CONSUL_ENABLED"`
	ConsulAddress string `long:"consul-address" description:"Consul HTTP API address" env:"CONSUL_ADDRESS" default:"consul:8500"`

	DefaultsFile string `long:"defaults-file" description:"Optional YAML file overriding the built-in per-field defaults" env:"DEFAULTS_FILE" optional:"true"`
}

// FullReconciliationInterval is FullReconciliationIntervalMs as a
// time.Duration, the unit every caller inside the engine actually wants.
func (c Cfg) FullReconciliationInterval() time.Duration {
	return time.Duration(c.FullReconciliationIntervalMs) * time.Millisecond
}

// LockTimeout is LockTimeoutMs as a time.Duration.
func (c Cfg) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

// Defaults is the document named by Cfg.DefaultsFile: cluster-wide
// defaults seeded into a Cfg before flags and environment variables are
// parsed, so anything actually given on the command line or environment
// still wins.
type Defaults struct {
	ConfigMapLabels              string `yaml:"configmap-labels"`
	FullReconciliationIntervalMs int    `yaml:"full-reconciliation-interval"`
	LockTimeoutMs                int    `yaml:"lock-timeout"`
	ConsulAddress                string `yaml:"consul-address"`
}

// LoadDefaults reads and parses path as a Defaults document. An empty
// path is not an error: it means no defaults file was configured.
func LoadDefaults(path string) (*Defaults, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults file %s: %w", path, err)
	}
	var d Defaults
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse defaults file %s: %w", path, err)
	}
	return &d, nil
}

// Apply seeds c's still-zero fields from d. It must run before the
// flags/env parser touches c: go-flags only assigns its own "default"
// tag value to a field that is still zero when parsing finishes, so a
// value seeded here survives unless a flag or environment variable
// overrides it, and a value seeded here is itself overridden the same
// way.
func (d *Defaults) Apply(c *Cfg) {
	if d == nil {
		return
	}
	if d.ConfigMapLabels != "" && c.ConfigMapLabels == "" {
		c.ConfigMapLabels = d.ConfigMapLabels
	}
	if d.FullReconciliationIntervalMs != 0 && c.FullReconciliationIntervalMs == 0 {
		c.FullReconciliationIntervalMs = d.FullReconciliationIntervalMs
	}
	if d.LockTimeoutMs != 0 && c.LockTimeoutMs == 0 {
		c.LockTimeoutMs = d.LockTimeoutMs
	}
	if d.ConsulAddress != "" && c.ConsulAddress == "" {
		c.ConsulAddress = d.ConsulAddress
	}
}
