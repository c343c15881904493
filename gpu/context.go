// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/gpucore"
)

// Errors returned by New. Both are fatal for the application.
var (
	ErrNoAdapter = errors.New("gpu: no suitable adapter")
	ErrNoDevice  = errors.New("gpu: device creation failed")
)

// Option configures New.
type Option func(*options)

type options struct {
	power         gputypes.PowerPreference
	forceFallback bool
	limits        gputypes.Limits
	label         string
}

func defaultOptions() options {
	return options{
		power:  gputypes.PowerPreferenceHighPerformance,
		limits: gputypes.DownlevelLimits(),
		label:  "hellotriangle-device",
	}
}

// WithPowerPreference sets the first power preference tried.
func WithPowerPreference(p gputypes.PowerPreference) Option {
	return func(o *options) { o.power = p }
}

// WithForceFallback skips hardware adapters and requests a software adapter.
func WithForceFallback(force bool) Option {
	return func(o *options) { o.forceFallback = force }
}

// WithLimits overrides the required device limits.
func WithLimits(l gputypes.Limits) Option {
	return func(o *options) { o.limits = l }
}

// WithLabel sets the device debug label.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// Context is the graphics context: instance, adapter, device and queue.
// It is immutable after New and must only be used from the goroutine that
// drives rendering.
type Context struct {
	instance gpucore.Instance
	adapter  gpucore.Adapter
	device   gpucore.Device
	queue    gpucore.Queue
	info     GPUInfo
	closed   bool
}

// New selects an adapter from inst and opens a device on it.
// On success the Context takes ownership of inst and releases it in Close;
// on error inst stays with the caller.
//
// Adapter policy: the configured power preference (high performance by
// default), then no preference, then a forced software fallback. New returns
// an error wrapping ErrNoAdapter if every attempt fails, or ErrNoDevice if the
// device cannot be created.
func New(inst gpucore.Instance, opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	adapter, err := requestAdapter(inst, o)
	if err != nil {
		return nil, err
	}

	info := newGPUInfo(adapter.Info())
	logGPUInfo(info)

	device, err := adapter.RequestDevice(&gpucore.DeviceDescriptor{
		Label:          o.label,
		RequiredLimits: o.limits,
	})
	if err != nil {
		adapter.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}

	queue := device.Queue()
	if queue == nil {
		device.Release()
		adapter.Release()
		return nil, fmt.Errorf("%w: device has no queue", ErrNoDevice)
	}

	hellotriangle.Logger().Debug("gpu: context ready", "device", o.label)
	return &Context{
		instance: inst,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		info:     info,
	}, nil
}

// adapterAttempts lists the requests made for o, in order.
func adapterAttempts(o options) []gpucore.AdapterOptions {
	if o.forceFallback {
		return []gpucore.AdapterOptions{{ForceFallbackAdapter: true}}
	}
	attempts := []gpucore.AdapterOptions{{PowerPreference: o.power}}
	if o.power != gputypes.PowerPreferenceNone {
		attempts = append(attempts, gpucore.AdapterOptions{PowerPreference: gputypes.PowerPreferenceNone})
	}
	return append(attempts, gpucore.AdapterOptions{ForceFallbackAdapter: true})
}

func requestAdapter(inst gpucore.Instance, o options) (gpucore.Adapter, error) {
	var lastErr error
	for _, attempt := range adapterAttempts(o) {
		a, err := inst.RequestAdapter(&attempt)
		if err == nil && a != nil {
			return a, nil
		}
		if err == nil {
			err = gpucore.ErrNoAdapter
		}
		hellotriangle.Logger().Debug("gpu: adapter request failed",
			"power", attempt.PowerPreference,
			"fallback", attempt.ForceFallbackAdapter,
			"err", err)
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %w", ErrNoAdapter, lastErr)
}

func logGPUInfo(info GPUInfo) {
	log := hellotriangle.Logger()
	log.Info("gpu: adapter selected", "gpu", info.String())
	if info.Driver != "" {
		log.Debug("gpu: driver", "version", info.Driver, "vendor", info.Vendor)
	}
}

// Instance returns the backend instance used to create surfaces.
func (c *Context) Instance() gpucore.Instance { return c.instance }

// Adapter returns the selected adapter.
func (c *Context) Adapter() gpucore.Adapter { return c.adapter }

// Device returns the logical device.
func (c *Context) Device() gpucore.Device { return c.device }

// Queue returns the device queue.
func (c *Context) Queue() gpucore.Queue { return c.queue }

// Info returns information about the selected GPU.
func (c *Context) Info() GPUInfo { return c.info }

// SurfaceCapabilities returns what the adapter supports for s.
func (c *Context) SurfaceCapabilities(s gpucore.Surface) *gputypes.SurfaceCapabilities {
	return c.adapter.SurfaceCapabilities(s)
}

// Close releases the device, adapter and instance in reverse order of
// creation. It is safe to call more than once.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.device.Release()
	c.adapter.Release()
	c.instance.Release()
	hellotriangle.Logger().Debug("gpu: context closed")
}
