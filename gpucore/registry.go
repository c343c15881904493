// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gputypes"
)

// Name of the wgpu implementation, registered by internal/wgpuadapter.
const ImplWGPU = "wgpu"

// ErrImplNotAvailable is returned when no implementation with the requested
// name has been registered.
var ErrImplNotAvailable = errors.New("gpucore: implementation not available")

// InstanceOptions are passed to an implementation factory.
type InstanceOptions struct {
	Backends gputypes.Backends
	// Debug enables backend validation where the implementation supports it.
	Debug bool
}

// Factory creates an Instance.
type Factory func(opts InstanceOptions) (Instance, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Selection order for OpenDefault; unknown names come after, sorted.
	implPriority = []string{ImplWGPU}
)

// Register makes an implementation available under name. It is typically
// called from an init function; a second registration replaces the first.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes an implementation. Useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered implementation names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates an Instance from the implementation registered as name.
func Open(name string, opts InstanceOptions) (Instance, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrImplNotAvailable, name)
	}
	return f(opts)
}

// OpenDefault creates an Instance from the first registered implementation
// in priority order. If an implementation fails, the next one is tried and
// the last error is returned when none succeeds.
func OpenDefault(opts InstanceOptions) (Instance, error) {
	lastErr := ErrImplNotAvailable
	for _, name := range defaultOrder() {
		inst, err := Open(name, opts)
		if err == nil {
			return inst, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func defaultOrder() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	order := make([]string, 0, len(factories))
	seen := make(map[string]bool, len(implPriority))
	for _, name := range implPriority {
		if _, ok := factories[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(factories))
	for name := range factories {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
