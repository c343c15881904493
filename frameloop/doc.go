// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frameloop turns platform lifecycle events into surface and
// pipeline transitions and renders the animated triangle.
//
// Event handling:
//
//	WindowAvailable    create surface, ensure pipeline for its format
//	Resized            reconfigure surface (pipeline untouched)
//	WindowUnavailable  destroy surface, invalidate pipeline
//	RedrawRequested    acquire, clear, draw 3 vertices, submit, present
//	CloseRequested     release pipeline and surface, stop
//
// Redraws while no surface exists are dropped without error. Frames that
// cannot be acquired or presented are counted as skipped; everything else
// that goes wrong is fatal and is returned by [Loop.Handle] and [Loop.Run].
//
// The clear colour is a function of the injected [Clock] only, so tests use
// a [ManualClock].
package frameloop
