// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpuadapter implements the gpucore interfaces on top of
// github.com/gogpu/wgpu, the pure Go WebGPU implementation.
//
// All HAL backends (Vulkan, Metal, DX12, GLES) are registered on import.
package wgpuadapter

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/hellotriangle/gpucore"
)

// errForeign is returned when a gpucore object from another backend is
// passed to this adapter.
var errForeign = errors.New("wgpuadapter: object does not belong to the wgpu backend")

// Instance wraps *wgpu.Instance.
type Instance struct {
	inst *wgpu.Instance
}

var _ gpucore.Instance = (*Instance)(nil)

func init() {
	gpucore.Register(gpucore.ImplWGPU, func(opts gpucore.InstanceOptions) (gpucore.Instance, error) {
		return NewInstance(opts.Backends, opts.Debug)
	})
}

// NewInstance creates a wgpu instance restricted to backends.
// debug enables backend validation layers where available.
func NewInstance(backends gputypes.Backends, debug bool) (*Instance, error) {
	desc := &wgpu.InstanceDescriptor{Backends: backends}
	if debug {
		desc.Flags = gputypes.InstanceFlagsDebug
	}
	inst, err := wgpu.CreateInstance(desc)
	if err != nil {
		return nil, fmt.Errorf("wgpuadapter: create instance: %w", err)
	}
	return &Instance{inst: inst}, nil
}

// RequestAdapter implements gpucore.Instance.
func (i *Instance) RequestAdapter(opts *gpucore.AdapterOptions) (gpucore.Adapter, error) {
	var wopts *wgpu.RequestAdapterOptions
	if opts != nil {
		wopts = &wgpu.RequestAdapterOptions{
			PowerPreference:      opts.PowerPreference,
			ForceFallbackAdapter: opts.ForceFallbackAdapter,
		}
		if opts.CompatibleSurface != nil {
			s, ok := opts.CompatibleSurface.(*Surface)
			if !ok {
				return nil, errForeign
			}
			wopts.CompatibleSurface = s.surf
		}
	}
	a, err := i.inst.RequestAdapter(wopts)
	if err != nil {
		if errors.Is(err, wgpu.ErrNoAdapters) {
			return nil, fmt.Errorf("%w: %w", gpucore.ErrNoAdapter, err)
		}
		return nil, err
	}
	if a == nil {
		return nil, gpucore.ErrNoAdapter
	}
	return &Adapter{adapter: a}, nil
}

// CreateSurface implements gpucore.Instance.
func (i *Instance) CreateSurface(display, window uintptr) (gpucore.Surface, error) {
	s, err := i.inst.CreateSurface(display, window)
	if err != nil {
		return nil, err
	}
	return &Surface{surf: s}, nil
}

// Release implements gpucore.Instance.
func (i *Instance) Release() { i.inst.Release() }

// Adapter wraps *wgpu.Adapter.
type Adapter struct {
	adapter *wgpu.Adapter
	// borrowed adapters belong to a host and are not released here.
	borrowed bool
}

// Info implements gpucore.Adapter.
func (a *Adapter) Info() gputypes.AdapterInfo { return a.adapter.Info() }

// Limits implements gpucore.Adapter.
func (a *Adapter) Limits() gputypes.Limits { return a.adapter.Limits() }

// RequestDevice implements gpucore.Adapter.
func (a *Adapter) RequestDevice(desc *gpucore.DeviceDescriptor) (gpucore.Device, error) {
	var wdesc *wgpu.DeviceDescriptor
	if desc != nil {
		wdesc = &wgpu.DeviceDescriptor{
			Label:            desc.Label,
			RequiredFeatures: desc.RequiredFeatures,
			RequiredLimits:   desc.RequiredLimits,
		}
	}
	d, err := a.adapter.RequestDevice(wdesc)
	if err != nil {
		return nil, err
	}
	return &Device{dev: d, queue: &Queue{q: d.Queue()}}, nil
}

// SurfaceCapabilities implements gpucore.Adapter.
func (a *Adapter) SurfaceCapabilities(s gpucore.Surface) *gputypes.SurfaceCapabilities {
	ws, ok := s.(*Surface)
	if !ok {
		return nil
	}
	caps := a.adapter.GetSurfaceCapabilities(ws.surf)
	if caps == nil {
		return nil
	}
	return &gputypes.SurfaceCapabilities{
		Formats:      caps.Formats,
		PresentModes: caps.PresentModes,
		AlphaModes:   caps.AlphaModes,
	}
}

// Release implements gpucore.Adapter.
func (a *Adapter) Release() {
	if !a.borrowed {
		a.adapter.Release()
	}
}
