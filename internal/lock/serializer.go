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

// Package lock provides the per-cluster serializer: named, timed,
// advisory mutual exclusion keyed by model.ClusterKey.LockName (spec.md
// §4.4 Per-Cluster Serializer).
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TimeoutError is returned by Acquire when a lease could not be obtained
// within the requested timeout (spec.md §7 error class 4: lock timeout).
type TimeoutError struct {
	Key     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for lock %q", e.Timeout, e.Key)
}

// Lease represents a held lock. Release is idempotent and safe to call
// from a deferred statement on every exit path.
type Lease struct {
	key      string
	release  func()
	released sync.Once
}

// Release drops the lease, letting the next waiter (if any) proceed.
// Calling it more than once is a no-op.
func (l *Lease) Release() {
	l.released.Do(l.release)
}

// Serializer hands out one Lease per key at a time (spec.md P1: per-key
// mutual exclusion). Distinct keys never contend with each other (P2).
// It holds no other engine state: the key->channel map is the only
// mutable structure, guarded by its own mutex as spec.md §5 "Shared
// state" requires.
type Serializer struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewSerializer constructs an empty Serializer.
func NewSerializer() *Serializer {
	return &Serializer{locks: make(map[string]chan struct{})}
}

// Acquire blocks until the named lock is free or ctx is cancelled or
// timeout elapses, whichever comes first. On success it returns a Lease
// that must be released by the caller. Waiters queue with no fairness
// guarantee beyond "best effort", matching spec.md §4.4.
func (s *Serializer) Acquire(ctx context.Context, key string, timeout time.Duration) (*Lease, error) {
	ch := s.channelFor(key)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return &Lease{key: key, release: func() { <-ch }}, nil
	case <-timer.C:
		return nil, &TimeoutError{Key: key, Timeout: timeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// channelFor returns the buffered, capacity-1 channel acting as key's
// binary semaphore, creating it on first use. The map is never pruned:
// the number of distinct ClusterKeys an engine ever sees over its
// lifetime is small and bounded by the namespace's cluster count.
func (s *Serializer) channelFor(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}
