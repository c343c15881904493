// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/gpucore"
)

// Frame is one acquired surface texture and its view.
// Exactly one of Present or Discard must be called.
type Frame struct {
	s    *Surface
	tex  gpucore.SurfaceTexture
	view gpucore.TextureView

	// Suboptimal reports that the texture was usable but the surface should
	// be reconfigured; the next Acquire does that.
	Suboptimal bool

	done bool
}

// View returns the render target view of the frame.
func (f *Frame) View() gpucore.TextureView { return f.view }

// Present queues the frame for display. A failed present skips the frame.
func (f *Frame) Present() error {
	if f.done {
		return nil
	}
	f.done = true
	f.view.Release()
	if f.s.state != StateConfigured {
		return ErrAbsent
	}
	if err := f.s.raw.Present(f.tex); err != nil {
		if gpucore.IsSurfaceStale(err) {
			f.s.stale = true
		}
		return fmt.Errorf("%w: present: %w", ErrFrameSkipped, err)
	}
	return nil
}

// Discard drops the frame without presenting it.
func (f *Frame) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.view.Release()
	if f.s.state == StateConfigured {
		f.s.raw.Discard()
	}
}

// Acquire returns the next frame to render into. It must be called while
// CONFIGURED.
//
// A lost or outdated surface is reconfigured with the last known size and
// the acquire is retried once. Every acquire failure is scoped to the frame
// and returns an error wrapping ErrFrameSkipped; the original error stays in
// the chain.
func (s *Surface) Acquire() (*Frame, error) {
	if s.state != StateConfigured {
		return nil, ErrAbsent
	}
	if s.config.Width == 0 || s.config.Height == 0 {
		return nil, fmt.Errorf("%w: zero-sized surface", ErrFrameSkipped)
	}
	if !s.applied || s.stale {
		if err := s.configure(); err != nil {
			return nil, fmt.Errorf("%w: configure: %w", ErrFrameSkipped, err)
		}
	}

	tex, suboptimal, err := s.raw.AcquireTexture()
	if err != nil && gpucore.IsSurfaceStale(err) {
		hellotriangle.Logger().Debug("surface: stale on acquire, reconfiguring", "err", err)
		if cerr := s.configure(); cerr != nil {
			return nil, fmt.Errorf("%w: reconfigure: %w", ErrFrameSkipped, cerr)
		}
		tex, suboptimal, err = s.raw.AcquireTexture()
	}
	if err != nil {
		if gpucore.IsSurfaceStale(err) {
			s.stale = true
		} else if !errors.Is(err, gpucore.ErrTimeout) {
			hellotriangle.Logger().Warn("surface: acquire failed", "err", err)
		}
		return nil, fmt.Errorf("%w: acquire: %w", ErrFrameSkipped, err)
	}
	if suboptimal {
		s.stale = true
	}

	view, err := tex.CreateView()
	if err != nil {
		s.raw.Discard()
		return nil, fmt.Errorf("%w: create view: %w", ErrFrameSkipped, err)
	}
	return &Frame{s: s, tex: tex, view: view, Suboptimal: suboptimal}, nil
}
