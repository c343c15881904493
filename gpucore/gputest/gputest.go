// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gputest provides an in-memory gpucore backend that records every
// call, for tests that must run without a GPU or a display.
package gputest

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle/gpucore"
)

// DefaultFormat is the first surface format reported by a new Adapter.
const DefaultFormat = gputypes.TextureFormatBGRA8UnormSrgb

// DefaultCapabilities returns the capabilities reported by a new Adapter.
func DefaultCapabilities() *gputypes.SurfaceCapabilities {
	return &gputypes.SurfaceCapabilities{
		Formats:      []gputypes.TextureFormat{DefaultFormat, gputypes.TextureFormatRGBA8Unorm},
		PresentModes: []gputypes.PresentMode{gputypes.PresentModeFifo, gputypes.PresentModeMailbox},
		AlphaModes:   []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeOpaque, gputypes.CompositeAlphaModePremultiplied},
	}
}

// Log is an ordered record of calls shared by all objects of one Instance.
type Log struct {
	Events []string
}

func (l *Log) add(format string, args ...any) {
	l.Events = append(l.Events, fmt.Sprintf(format, args...))
}

// Count returns how many events equal name.
func (l *Log) Count(name string) int {
	n := 0
	for _, e := range l.Events {
		if e == name {
			n++
		}
	}
	return n
}

// Instance is a fake gpucore.Instance.
type Instance struct {
	Log *Log

	// Adapter is returned by RequestAdapter unless the request is refused.
	Adapter *Adapter

	// Refuse lists power preferences for which no hardware adapter is found.
	// It does not apply to forced-fallback requests.
	Refuse map[gputypes.PowerPreference]bool
	// RefuseFallback makes forced-fallback requests fail too.
	RefuseFallback bool

	// Requests records every adapter request in order.
	Requests []gpucore.AdapterOptions

	// CreateSurfaceErr is returned by CreateSurface when set.
	CreateSurfaceErr error
	// Surfaces records every surface created.
	Surfaces []*Surface
	// NextSurface, if set, is configured by the test and returned by the
	// next CreateSurface call.
	NextSurface *Surface

	Released bool
}

// NewInstance returns an Instance with one working adapter.
func NewInstance() *Instance {
	log := &Log{}
	return &Instance{
		Log: log,
		Adapter: &Adapter{
			log: log,
			InfoValue: gputypes.AdapterInfo{
				Name:       "Fake GPU",
				Vendor:     "gputest",
				DeviceType: gputypes.DeviceTypeDiscreteGPU,
				Backend:    gputypes.BackendVulkan,
				Driver:     "1.0",
			},
			LimitsValue: gputypes.DefaultLimits(),
			Caps:        DefaultCapabilities(),
		},
	}
}

// RequestAdapter implements gpucore.Instance.
func (i *Instance) RequestAdapter(opts *gpucore.AdapterOptions) (gpucore.Adapter, error) {
	var o gpucore.AdapterOptions
	if opts != nil {
		o = *opts
	}
	i.Requests = append(i.Requests, o)
	i.Log.add("request adapter")
	refused := i.Refuse[o.PowerPreference]
	if o.ForceFallbackAdapter {
		refused = i.RefuseFallback
	}
	if i.Adapter == nil || refused {
		return nil, gpucore.ErrNoAdapter
	}
	return i.Adapter, nil
}

// CreateSurface implements gpucore.Instance.
func (i *Instance) CreateSurface(display, window uintptr) (gpucore.Surface, error) {
	if i.CreateSurfaceErr != nil {
		return nil, i.CreateSurfaceErr
	}
	s := i.NextSurface
	i.NextSurface = nil
	if s == nil {
		s = &Surface{}
	}
	s.log = i.Log
	s.Display, s.Window = display, window
	i.Surfaces = append(i.Surfaces, s)
	i.Log.add("create surface")
	return s, nil
}

// Release implements gpucore.Instance.
func (i *Instance) Release() {
	i.Released = true
	i.Log.add("release instance")
}

// LastSurface returns the most recently created surface, or nil.
func (i *Instance) LastSurface() *Surface {
	if len(i.Surfaces) == 0 {
		return nil
	}
	return i.Surfaces[len(i.Surfaces)-1]
}

// Adapter is a fake gpucore.Adapter.
type Adapter struct {
	log *Log

	InfoValue   gputypes.AdapterInfo
	LimitsValue gputypes.Limits
	Caps        *gputypes.SurfaceCapabilities

	// DeviceErr is returned by RequestDevice when set.
	DeviceErr error
	// DeviceRequests records every device request.
	DeviceRequests []gpucore.DeviceDescriptor
	// Device is the last device created.
	Device *Device

	Released bool
}

// Info implements gpucore.Adapter.
func (a *Adapter) Info() gputypes.AdapterInfo { return a.InfoValue }

// Limits implements gpucore.Adapter.
func (a *Adapter) Limits() gputypes.Limits { return a.LimitsValue }

// RequestDevice implements gpucore.Adapter.
func (a *Adapter) RequestDevice(desc *gpucore.DeviceDescriptor) (gpucore.Device, error) {
	if desc != nil {
		a.DeviceRequests = append(a.DeviceRequests, *desc)
	}
	if a.DeviceErr != nil {
		return nil, a.DeviceErr
	}
	a.Device = &Device{log: a.log, QueueValue: &Queue{log: a.log}}
	a.log.add("request device")
	return a.Device, nil
}

// SurfaceCapabilities implements gpucore.Adapter.
func (a *Adapter) SurfaceCapabilities(gpucore.Surface) *gputypes.SurfaceCapabilities {
	return a.Caps
}

// Release implements gpucore.Adapter.
func (a *Adapter) Release() {
	a.Released = true
	a.log.add("release adapter")
}
