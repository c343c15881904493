// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hellotriangle draws one animated full-screen triangle through a
// WebGPU render pipeline and keeps the GPU device, the presentable surface
// and the pipeline valid across window lifecycle events.
//
// # Overview
//
// The work is split across small packages:
//
//   - gpu: adapter, device and queue, created once per process
//   - surface: the presentable surface, a two-state machine (absent, configured)
//   - pipeline: the render pipeline, rebuilt only when the surface format changes
//   - frameloop: turns window events into surface and pipeline transitions and draws
//   - platform: a gogpu window whose callbacks produce those events
//
// This root package carries what they share: the logger and [Config].
//
// # Quick Start
//
//	cfg := hellotriangle.DefaultConfig().WithSize(1024, 768)
//	hellotriangle.SetLogger(slog.Default())
//
// The hellotriangle command wires everything together; see cmd/hellotriangle.
//
// # Logging
//
// Nothing is logged by default. Call [SetLogger] to route lifecycle and
// frame diagnostics to any [log/slog] handler.
package hellotriangle
