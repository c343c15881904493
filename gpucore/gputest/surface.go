// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gputest

import (
	"errors"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle/gpucore"
)

// ErrNotConfigured is returned by a fake Surface used before Configure.
var ErrNotConfigured = errors.New("gputest: surface not configured")

// Surface is a fake gpucore.Surface.
type Surface struct {
	log *Log

	Display, Window uintptr

	// ConfigureErr is returned by Configure when set.
	ConfigureErr error
	// Configs records every configuration applied.
	Configs []gputypes.SurfaceConfiguration

	// AcquireErrs is consumed one entry per AcquireTexture call; a nil
	// entry or an empty queue means success.
	AcquireErrs []error
	// Suboptimal is consumed like AcquireErrs and reports a suboptimal texture.
	Suboptimal []bool

	Acquired     int
	Presented    int
	Discarded    int
	Unconfigured int
	Released     bool

	configured bool
}

// Configure implements gpucore.Surface.
func (s *Surface) Configure(_ gpucore.Device, cfg *gputypes.SurfaceConfiguration) error {
	if s.ConfigureErr != nil {
		return s.ConfigureErr
	}
	c := *cfg
	c.ViewFormats = append([]gputypes.TextureFormat(nil), cfg.ViewFormats...)
	s.Configs = append(s.Configs, c)
	s.configured = true
	s.log.add("configure")
	return nil
}

// Unconfigure implements gpucore.Surface.
func (s *Surface) Unconfigure() {
	s.configured = false
	s.Unconfigured++
	s.log.add("unconfigure")
}

// AcquireTexture implements gpucore.Surface.
func (s *Surface) AcquireTexture() (gpucore.SurfaceTexture, bool, error) {
	s.log.add("acquire")
	var err error
	if len(s.AcquireErrs) > 0 {
		err, s.AcquireErrs = s.AcquireErrs[0], s.AcquireErrs[1:]
	}
	suboptimal := false
	if len(s.Suboptimal) > 0 {
		suboptimal, s.Suboptimal = s.Suboptimal[0], s.Suboptimal[1:]
	}
	if err != nil {
		return nil, false, err
	}
	if !s.configured || s.Released {
		return nil, false, ErrNotConfigured
	}
	s.Acquired++
	return &Texture{}, suboptimal, nil
}

// Present implements gpucore.Surface.
func (s *Surface) Present(gpucore.SurfaceTexture) error {
	if !s.configured || s.Released {
		return ErrNotConfigured
	}
	s.Presented++
	s.log.add("present")
	return nil
}

// Discard implements gpucore.Surface.
func (s *Surface) Discard() {
	s.Discarded++
	s.log.add("discard")
}

// Release implements gpucore.Surface.
func (s *Surface) Release() {
	s.Released = true
	s.configured = false
	s.log.add("release surface")
}

// LastConfig returns the most recent configuration, or the zero value.
func (s *Surface) LastConfig() gputypes.SurfaceConfiguration {
	if len(s.Configs) == 0 {
		return gputypes.SurfaceConfiguration{}
	}
	return s.Configs[len(s.Configs)-1]
}

// Texture is a fake gpucore.SurfaceTexture.
type Texture struct {
	Views []*Resource
}

// CreateView implements gpucore.SurfaceTexture.
func (t *Texture) CreateView() (gpucore.TextureView, error) {
	v := &Resource{Label: "surface view"}
	t.Views = append(t.Views, v)
	return v, nil
}

// Draws returns every draw call recorded on d, in order.
func (d *Device) Draws() []DrawCall {
	var out []DrawCall
	for _, e := range d.Encoders {
		for _, p := range e.Passes {
			out = append(out, p.Draws...)
		}
	}
	return out
}
