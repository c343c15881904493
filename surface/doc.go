// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface manages the presentable surface attached to a window.
//
// A [Surface] is a two-state machine:
//
//	            Create                 Reconfigure (size change)
//	  ABSENT ------------> CONFIGURED <----------+
//	    ^                      |   \_____________|
//	    |        Destroy       |
//	    +----------------------+
//
// The surface exists only while the platform reports a usable window.
// Format and alpha mode are the first entries of the adapter's capability
// lists; presentation is FIFO (vsync) and textures are render attachments.
//
// # Frames
//
// [Surface.Acquire] returns a [Frame] to render into. A lost or outdated
// surface is reconfigured with the last known size and the acquire is retried
// once; if that fails too the error wraps [ErrFrameSkipped] and the caller
// simply draws nothing this time. A zero-sized (minimised) window also skips.
//
// # Usage
//
//	s := surface.New(gpuCtx)
//	if err := s.Create(handle, 800, 600); err != nil {
//	    return err
//	}
//	defer s.Destroy()
//
//	frame, err := s.Acquire()
//	if errors.Is(err, surface.ErrFrameSkipped) {
//	    return nil
//	}
//	// ... record commands into frame.View() ...
//	err = frame.Present()
package surface
