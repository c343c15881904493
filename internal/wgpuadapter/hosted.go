// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpuadapter

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/hellotriangle/gpucore"
)

// ErrNoHostDevice is returned by NewHosted when the host has not created its
// device yet or exposes a device from another backend.
var ErrNoHostDevice = errors.New("wgpuadapter: host has no wgpu device")

// FrameSource hands out the texture view of the frame the host is drawing.
// *gogpu.Context implements it. SurfaceView returns nil when the host could
// not acquire a texture.
type FrameSource interface {
	SurfaceView() *wgpu.TextureView
}

// Hosted is a gpucore.Instance over the adapter, device and swapchain of a
// window framework such as gogpu. The framework owns every object: Release
// calls on hosted objects are no-ops, and the swapchain is configured and
// presented by the framework around each draw callback.
//
// The host exposes exactly one adapter. A forced-fallback request matches it
// only if it is a CPU adapter.
type Hosted struct {
	adapter *Adapter
	device  *Device
	format  gputypes.TextureFormat
	frame   FrameSource
}

var _ gpucore.Instance = (*Hosted)(nil)

// NewHosted wraps the objects of p. Device and Adapter must be the wgpu
// types; gpucontext consumers type-assert them the same way.
func NewHosted(p gpucontext.DeviceProvider) (*Hosted, error) {
	dev, ok := p.Device().(*wgpu.Device)
	if !ok || dev == nil {
		return nil, ErrNoHostDevice
	}
	adapter, ok := p.Adapter().(*wgpu.Adapter)
	if !ok || adapter == nil {
		return nil, fmt.Errorf("%w: no adapter", ErrNoHostDevice)
	}
	q, ok := p.Queue().(*wgpu.Queue)
	if !ok || q == nil {
		q = dev.Queue()
	}
	return &Hosted{
		adapter: &Adapter{adapter: adapter, borrowed: true},
		device:  &Device{dev: dev, queue: &Queue{q: q}, borrowed: true},
		format:  p.SurfaceFormat(),
	}, nil
}

// SetFrame sets the frame that AcquireTexture reads from. Hosts call it at
// the start of a draw callback and reset it to nil when the callback returns.
func (h *Hosted) SetFrame(f FrameSource) { h.frame = f }

// RequestAdapter implements gpucore.Instance.
func (h *Hosted) RequestAdapter(opts *gpucore.AdapterOptions) (gpucore.Adapter, error) {
	if opts != nil && opts.ForceFallbackAdapter &&
		h.adapter.Info().DeviceType != gputypes.DeviceTypeCPU {
		return nil, fmt.Errorf("%w: host adapter is not a software adapter", gpucore.ErrNoAdapter)
	}
	return &hostedAdapter{h: h}, nil
}

// CreateSurface implements gpucore.Instance. The window handles are ignored:
// the host already bound its swapchain to the window.
func (h *Hosted) CreateSurface(_, _ uintptr) (gpucore.Surface, error) {
	return &HostedSurface{h: h}, nil
}

// Release implements gpucore.Instance.
func (h *Hosted) Release() {}

type hostedAdapter struct {
	h *Hosted
}

func (a *hostedAdapter) Info() gputypes.AdapterInfo { return a.h.adapter.Info() }
func (a *hostedAdapter) Limits() gputypes.Limits    { return a.h.adapter.Limits() }
func (a *hostedAdapter) Release()                   {}

// RequestDevice returns the host device. The host created it with default
// limits, which cover every downlevel limit.
func (a *hostedAdapter) RequestDevice(*gpucore.DeviceDescriptor) (gpucore.Device, error) {
	return a.h.device, nil
}

// SurfaceCapabilities reports the single configuration the host uses.
func (a *hostedAdapter) SurfaceCapabilities(s gpucore.Surface) *gputypes.SurfaceCapabilities {
	if _, ok := s.(*HostedSurface); !ok {
		return nil
	}
	return hostedCapabilities(a.h.format)
}

func hostedCapabilities(f gputypes.TextureFormat) *gputypes.SurfaceCapabilities {
	if f == gputypes.TextureFormatUndefined {
		return &gputypes.SurfaceCapabilities{}
	}
	return &gputypes.SurfaceCapabilities{
		Formats:      []gputypes.TextureFormat{f},
		PresentModes: []gputypes.PresentMode{gputypes.PresentModeFifo},
		AlphaModes:   []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeOpaque},
	}
}

// HostedSurface is the gpucore view of the host swapchain.
type HostedSurface struct {
	h          *Hosted
	configured bool
	config     gputypes.SurfaceConfiguration
}

// Configure checks cfg against what the host swapchain uses and records it.
// Size changes are applied by the host itself.
func (s *HostedSurface) Configure(_ gpucore.Device, cfg *gputypes.SurfaceConfiguration) error {
	if cfg.Format != s.h.format {
		return fmt.Errorf("wgpuadapter: host surface format is %s, not %s", s.h.format, cfg.Format)
	}
	if cfg.PresentMode != gputypes.PresentModeFifo {
		return fmt.Errorf("wgpuadapter: host surface presents with fifo only, not %s", cfg.PresentMode)
	}
	s.config = *cfg
	s.configured = true
	return nil
}

// Unconfigure implements gpucore.Surface.
func (s *HostedSurface) Unconfigure() { s.configured = false }

// AcquireTexture returns the texture of the frame being drawn. Outside a
// draw callback, or when the host failed to acquire, the surface is reported
// outdated; the host reconfigures its swapchain before the next callback.
func (s *HostedSurface) AcquireTexture() (gpucore.SurfaceTexture, bool, error) {
	if !s.configured {
		return nil, false, fmt.Errorf("%w: not configured", gpucore.ErrSurfaceOutdated)
	}
	if s.h.frame == nil {
		return nil, false, fmt.Errorf("%w: no frame in progress", gpucore.ErrSurfaceOutdated)
	}
	v := s.h.frame.SurfaceView()
	if v == nil {
		return nil, false, fmt.Errorf("%w: host could not acquire a texture", gpucore.ErrSurfaceOutdated)
	}
	return hostedTexture{view: v}, false, nil
}

// Present implements gpucore.Surface. The host presents once the draw
// callback returns.
func (s *HostedSurface) Present(tex gpucore.SurfaceTexture) error {
	if _, ok := tex.(hostedTexture); !ok {
		return errForeign
	}
	return nil
}

// Discard implements gpucore.Surface.
func (s *HostedSurface) Discard() {}

// Release implements gpucore.Surface.
func (s *HostedSurface) Release() { s.configured = false }

type hostedTexture struct {
	view *wgpu.TextureView
}

func (t hostedTexture) CreateView() (gpucore.TextureView, error) {
	return borrowedView{t.view}, nil
}

// borrowedView is a view released by its owner, not by the renderer.
type borrowedView struct {
	view *wgpu.TextureView
}

func (borrowedView) Release() {}

// textureView unwraps the views this package hands out.
func textureView(v gpucore.TextureView) (*wgpu.TextureView, bool) {
	switch tv := v.(type) {
	case *wgpu.TextureView:
		return tv, true
	case borrowedView:
		return tv.view, tv.view != nil
	default:
		return nil, false
	}
}
