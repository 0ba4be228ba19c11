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

package discovery

import (
	"context"
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
)

const (
	deregisterCriticalServiceAfter = "100s"
	healthCheckInterval            = "10s"
	healthCheckTimeout             = "1s"
)

// Consul registers cluster client services with a Consul agent, the
// pattern the teacher's own discovery provider follows for its Kafka
// client address.
type Consul struct {
	client *consulapi.Client
}

// NewConsul connects to the Consul HTTP API at address (host:port).
func NewConsul(address string) (*Consul, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = address
	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to consul at %s: %w", address, err)
	}
	return &Consul{client: client}, nil
}

func (c *Consul) Register(_ context.Context, id, name, address string, port int, tags []string, meta map[string]string) error {
	check := &consulapi.AgentServiceCheck{
		Name:                           "tcp-check",
		Interval:                       healthCheckInterval,
		Timeout:                        healthCheckTimeout,
		TCP:                            fmt.Sprintf("%s:%d", address, port),
		DeregisterCriticalServiceAfter: deregisterCriticalServiceAfter,
	}
	registration := &consulapi.AgentServiceRegistration{
		ID:                id,
		Name:              name,
		Address:           address,
		Port:              port,
		Tags:              tags,
		Meta:              meta,
		EnableTagOverride: true,
		Check:             check,
	}
	return c.client.Agent().ServiceRegisterOpts(registration, consulapi.ServiceRegisterOpts{ReplaceExistingChecks: true})
}

func (c *Consul) Deregister(_ context.Context, id string) error {
	return c.client.Agent().ServiceDeregister(id)
}
