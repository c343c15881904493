// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu owns the process-wide graphics context: the backend instance,
// the selected adapter, the logical device and its queue.
//
// The context is created once, before any window exists, and lives until the
// process exits. Adapter selection prefers a high-performance GPU, then any
// GPU, then a software fallback. The device is requested with no optional
// features and downlevel limits so it runs on low-end and mobile hardware.
//
// Usage:
//
//	inst, err := wgpuadapter.NewInstance(gputypes.BackendsAll, false)
//	...
//	ctx, err := gpu.New(inst)
//	if err != nil {
//	    return err // fatal: no adapter or no device
//	}
//	defer ctx.Close()
package gpu
