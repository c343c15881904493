// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import "errors"

// Surface acquisition errors. Adapters wrap or return these so that the
// surface state machine can decide between reconfiguring and skipping a frame.
var (
	// ErrSurfaceLost means the surface must be reconfigured before use.
	ErrSurfaceLost = errors.New("gpucore: surface lost")

	// ErrSurfaceOutdated means the surface no longer matches the window
	// (typically after a resize) and must be reconfigured.
	ErrSurfaceOutdated = errors.New("gpucore: surface outdated")

	// ErrTimeout means no surface texture became available in time.
	ErrTimeout = errors.New("gpucore: surface acquire timeout")
)

// ErrNoAdapter is returned by Instance.RequestAdapter when no adapter
// matches the requested options.
var ErrNoAdapter = errors.New("gpucore: no matching adapter")

// IsSurfaceStale reports whether err means the surface configuration must be
// re-applied before the next acquire.
func IsSurfaceStale(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated)
}
