// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pipeline builds the render pipeline that draws the full-screen
// triangle and caches it per surface format.
//
// The WGSL source is embedded and checked with naga before the device sees
// it. The vertex stage derives the three corners from the vertex index, so
// the pipeline has no vertex buffers and no bind groups.
//
// A [Cache] holds at most one pipeline. [Cache.Ensure] rebuilds only when the
// surface format differs from the one the cached pipeline targets; a resize
// keeps the pipeline.
package pipeline
