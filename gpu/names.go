// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
)

// ErrUnknownName is returned for an unrecognised backend or power preference name.
var ErrUnknownName = errors.New("gpu: unknown name")

var backendNames = map[string]gputypes.Backends{
	"all":     gputypes.BackendsAll,
	"primary": gputypes.BackendsPrimary,
	"vulkan":  gputypes.BackendsVulkan,
	"vk":      gputypes.BackendsVulkan,
	"metal":   gputypes.BackendsMetal,
	"dx12":    gputypes.BackendsDX12,
	"d3d12":   gputypes.BackendsDX12,
	"gl":      gputypes.BackendsGL,
	"gles":    gputypes.BackendsGL,
}

// ParseBackends maps a graphics API name to a backend set.
// The empty string selects all backends.
func ParseBackends(name string) (gputypes.Backends, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return gputypes.BackendsAll, nil
	}
	b, ok := backendNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: backend %q (known: %s)", ErrUnknownName, name, strings.Join(BackendNames(), ", "))
	}
	return b, nil
}

// BackendNames returns the accepted backend names, sorted.
func BackendNames() []string {
	names := make([]string, 0, len(backendNames))
	for n := range backendNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParsePowerPreference maps "high-performance", "low-power" or "none" to a
// power preference. The empty string selects high performance.
func ParsePowerPreference(name string) (gputypes.PowerPreference, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "high-performance", "high":
		return gputypes.PowerPreferenceHighPerformance, nil
	case "low-power", "low":
		return gputypes.PowerPreferenceLowPower, nil
	case "none":
		return gputypes.PowerPreferenceNone, nil
	default:
		return gputypes.PowerPreferenceNone, fmt.Errorf("%w: power preference %q", ErrUnknownName, name)
	}
}
