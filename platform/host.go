// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package platform opens the application window with gogpu and drives a
// frame loop from its callbacks.
//
// gogpu owns the window, the GPU device and the swapchain. It runs window
// callbacks on the main thread and draw callbacks on a dedicated render
// thread; Host queues lifecycle events from the former and delivers them on
// the latter, so every GPU object is used from the render thread only.
package platform

import (
	"errors"
	"fmt"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gogpu/gpu/types"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/gpucore"
	"github.com/gogpu/hellotriangle/internal/wgpuadapter"
	"github.com/gogpu/hellotriangle/platform/eventqueue"
	"github.com/gogpu/hellotriangle/surface"
)

// ErrNoDevice is returned by Run when the window framework exposes no GPU
// device on the first frame.
var ErrNoDevice = errors.New("platform: window has no GPU device")

// Session is the renderer driven by a Host. *frameloop.Loop provides
// Handle; Close releases whatever the StartFunc created.
type Session interface {
	eventqueue.Handler
	Close()
}

// StartFunc builds a session on the GPU objects of the window. It runs on
// the render thread before the first event is delivered.
type StartFunc func(inst gpucore.Instance) (Session, error)

// Options configure the window and the GPU the framework opens for it.
type Options struct {
	Title         string
	Width, Height int
	Mode          hellotriangle.EventMode
	Backends      gputypes.Backends
	Power         gputypes.PowerPreference
	ForceFallback bool
}

// app is the part of *gogpu.App a Host uses.
type app interface {
	gpucontext.WindowProvider
	PhysicalSize() (width, height int)
	GPUContextProvider() gpucontext.DeviceProvider
	Quit()
}

var _ app = (*gogpu.App)(nil)

// Host runs a gogpu application window.
type Host struct {
	app    app
	run    func() error
	opts   Options
	events *eventqueue.Queue
	start  StartFunc

	// Render thread.
	hosted  *wgpuadapter.Hosted
	session Session
	err     error

	// Main thread.
	minimized bool
}

// NewHost configures a window from opts. Nothing is opened until Run.
func NewHost(opts Options) *Host {
	a := gogpu.NewApp(appConfig(opts))
	h := newHost(a, opts)
	h.run = a.Run
	a.OnDraw(func(dc *gogpu.Context) { h.draw(dc) }).
		OnResize(h.resize).
		OnUpdate(h.update).
		OnClose(h.close)
	return h
}

func newHost(a app, opts Options) *Host {
	return &Host{app: a, opts: opts, events: eventqueue.New()}
}

func appConfig(opts Options) gogpu.Config {
	return gogpu.DefaultConfig().
		WithTitle(opts.Title).
		WithSize(opts.Width, opts.Height).
		WithVSync(true).
		WithContinuousRender(opts.Mode != hellotriangle.EventModeWait).
		WithPowerPreference(opts.Power).
		WithGraphicsAPI(GraphicsAPI(opts.Backends, opts.ForceFallback))
}

// GraphicsAPI maps a backend set to the API the framework opens. Sets naming
// more than one backend leave the choice to the framework.
func GraphicsAPI(b gputypes.Backends, forceFallback bool) types.GraphicsAPI {
	if forceFallback {
		return gogpu.GraphicsAPISoftware
	}
	switch b {
	case gputypes.BackendsVulkan:
		return gogpu.GraphicsAPIVulkan
	case gputypes.BackendsMetal:
		return gogpu.GraphicsAPIMetal
	case gputypes.BackendsDX12:
		return gogpu.GraphicsAPIDX12
	case gputypes.BackendsGL:
		return gogpu.GraphicsAPIGLES
	default:
		return gogpu.GraphicsAPIAuto
	}
}

// Run opens the window and blocks until it is closed. start is called once,
// on the first frame. Run returns nil after a close and the first fatal
// error otherwise. It must be called from the main goroutine.
func (h *Host) Run(start StartFunc) error {
	h.start = start
	if err := h.run(); err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	return h.err
}

// RequestClose ends Run after the current frame. It is safe to call from any
// goroutine.
func (h *Host) RequestClose() {
	h.events.RequestClose()
	h.app.RequestRedraw()
}

// draw runs on the render thread for every frame of a visible window. f is
// the *gogpu.Context of the frame.
func (h *Host) draw(f wgpuadapter.FrameSource) {
	if h.err != nil {
		return
	}
	if h.session == nil {
		if err := h.open(); err != nil {
			h.fail(err)
			return
		}
	}

	h.hosted.SetFrame(f)
	defer h.hosted.SetFrame(nil)
	if _, err := h.events.Flush(h.session); err != nil {
		h.fail(err)
	}
}

func (h *Host) open() error {
	p := h.app.GPUContextProvider()
	if p == nil {
		return ErrNoDevice
	}
	hosted, err := wgpuadapter.NewHosted(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	s, err := h.start(hosted)
	if err != nil {
		return err
	}
	h.hosted, h.session = hosted, s

	w, ht := h.app.PhysicalSize()
	lw, lh := h.app.Size()
	h.events.Created(surface.Handle{}, w, ht)
	hellotriangle.Logger().Debug("platform: window created",
		"title", h.opts.Title,
		"width", w, "height", ht,
		"logical_width", lw, "logical_height", lh,
		"scale", h.app.ScaleFactor(),
		"mode", h.opts.Mode)
	return nil
}

// fail records the first fatal error and stops the application. The session
// is closed by the shutdown callback.
func (h *Host) fail(err error) {
	if h.err == nil {
		h.err = err
	}
	h.app.Quit()
}

// resize runs on the main thread. The framework reports logical sizes; the
// surface is sized in physical pixels.
func (h *Host) resize(_, _ int) {
	w, ht := h.app.PhysicalSize()
	if w <= 0 || ht <= 0 {
		h.minimized = true
		h.events.Iconified(true)
		return
	}
	h.events.FramebufferResized(w, ht)
	if h.minimized {
		h.minimized = false
		h.events.Iconified(false)
	}
}

// update runs on the main thread every tick.
func (h *Host) update(float64) {
	if h.events.Closing() {
		h.app.Quit()
	}
}

// close runs on the render thread while the framework shuts down, before it
// destroys the device.
func (h *Host) close() {
	if h.session == nil {
		return
	}
	h.events.RequestClose()
	if _, err := h.events.Flush(h.session); err != nil && h.err == nil {
		h.err = err
	}
	h.session.Close()
	h.session = nil
}
