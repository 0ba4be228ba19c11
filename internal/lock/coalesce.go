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

package lock

import "golang.org/x/sync/singleflight"

// Coalescer keeps a single pending execution token per key, so that a
// burst of identical events for one cluster collapses into one queued
// operation instead of one per event (spec.md §4.5 "Event coalescing").
// It does not replace the Serializer: the coalesced call still acquires
// the per-cluster lock like any other dispatch.
type Coalescer struct {
	group singleflight.Group
}

// NewCoalescer constructs an empty Coalescer.
func NewCoalescer() *Coalescer { return &Coalescer{} }

// Do runs fn for key, sharing the result with any other Do(key, ...)
// calls already in flight for the same key. Callers that arrive while one
// is running get that one's result instead of running fn again.
func (c *Coalescer) Do(key string, fn func() (any, error)) (any, error) {
	v, err, _ := c.group.Do(key, fn)
	return v, err
}
