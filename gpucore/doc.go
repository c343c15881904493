// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpucore defines the GPU services the lifecycle components depend on.
//
// The interfaces mirror the small slice of WebGPU that one triangle needs:
// instance, adapter, device, queue, surface, command encoding and a render
// pipeline. Components are written against these interfaces and a thin
// adapter translates them to a concrete backend.
//
//	+-----------+  +-----------+  +-----------+  +-----------+
//	|    gpu    |  |  surface  |  |  pipeline |  | frameloop |
//	+-----+-----+  +-----+-----+  +-----+-----+  +-----+-----+
//	      |              |              |              |
//	      +--------------+------+-------+--------------+
//	                            |
//	                     +------v------+
//	                     |   gpucore   |
//	                     +------+------+
//	                            |
//	              +-------------+-------------+
//	              |                           |
//	   +----------v----------+     +----------v----------+
//	   | internal/wgpuadapter|     |   gpucore/gputest   |
//	   |   (gogpu/wgpu)      |     |   (recording fake)  |
//	   +---------------------+     +---------------------+
//
// # Implementations
//
// Implementations register a [Factory] by name from an init function;
// importing internal/wgpuadapter registers [ImplWGPU]. [OpenDefault] picks
// the first one that opens.
//
// # Errors
//
// Adapters translate backend surface errors to [ErrSurfaceLost],
// [ErrSurfaceOutdated] and [ErrTimeout] so callers can classify them with
// errors.Is without importing the backend.
//
// # Value types
//
// Formats, limits, colours and the other plain values come from
// github.com/gogpu/gputypes and are shared by every backend.
package gpucore
