// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpuadapter

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/hellotriangle/gpucore"
)

// Surface wraps *wgpu.Surface.
type Surface struct {
	surf *wgpu.Surface
}

// Configure implements gpucore.Surface.
// wgpu always allows views in the surface format itself, so
// cfg.ViewFormats is satisfied when it lists only cfg.Format.
func (s *Surface) Configure(device gpucore.Device, cfg *gputypes.SurfaceConfiguration) error {
	d, ok := device.(*Device)
	if !ok {
		return errForeign
	}
	for _, f := range cfg.ViewFormats {
		if f != cfg.Format {
			return fmt.Errorf("wgpuadapter: extra view format %s not supported", f)
		}
	}
	return s.surf.Configure(d.dev, &wgpu.SurfaceConfiguration{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      cfg.Format,
		Usage:       cfg.Usage,
		PresentMode: cfg.PresentMode,
		AlphaMode:   cfg.AlphaMode,
	})
}

// Unconfigure implements gpucore.Surface.
func (s *Surface) Unconfigure() { s.surf.Unconfigure() }

// AcquireTexture implements gpucore.Surface.
func (s *Surface) AcquireTexture() (gpucore.SurfaceTexture, bool, error) {
	tex, suboptimal, err := s.surf.GetCurrentTexture()
	if err != nil {
		return nil, false, mapSurfaceError(err)
	}
	return &SurfaceTexture{tex: tex}, suboptimal, nil
}

// Present implements gpucore.Surface.
func (s *Surface) Present(tex gpucore.SurfaceTexture) error {
	st, ok := tex.(*SurfaceTexture)
	if !ok {
		return errForeign
	}
	return mapSurfaceError(s.surf.Present(st.tex))
}

// Discard implements gpucore.Surface.
func (s *Surface) Discard() { s.surf.DiscardTexture() }

// Release implements gpucore.Surface.
func (s *Surface) Release() { s.surf.Release() }

// SurfaceTexture wraps *wgpu.SurfaceTexture.
type SurfaceTexture struct {
	tex *wgpu.SurfaceTexture
}

// CreateView implements gpucore.SurfaceTexture.
func (t *SurfaceTexture) CreateView() (gpucore.TextureView, error) {
	v, err := t.tex.CreateView(nil)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// mapSurfaceError tags wgpu surface errors with the gpucore sentinels.
func mapSurfaceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wgpu.ErrSurfaceLost):
		return fmt.Errorf("%w: %w", gpucore.ErrSurfaceLost, err)
	case errors.Is(err, wgpu.ErrSurfaceOutdated):
		return fmt.Errorf("%w: %w", gpucore.ErrSurfaceOutdated, err)
	case errors.Is(err, wgpu.ErrTimeout):
		return fmt.Errorf("%w: %w", gpucore.ErrTimeout, err)
	default:
		return err
	}
}
