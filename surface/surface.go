// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/gpucore"
)

// Errors returned by Surface methods.
var (
	// ErrAbsent is returned by operations that need a CONFIGURED surface.
	ErrAbsent = errors.New("surface: absent")

	// ErrAlreadyCreated is returned by Create on a CONFIGURED surface.
	ErrAlreadyCreated = errors.New("surface: already created")

	// ErrUnsupported means the adapter reported no usable format or alpha mode.
	ErrUnsupported = errors.New("surface: no supported format or alpha mode")

	// ErrCreate wraps every failure of Create. It is fatal for the application.
	ErrCreate = errors.New("surface: create failed")

	// ErrFrameSkipped marks a frame-scoped failure: nothing is drawn this
	// time and the next frame is attempted normally.
	ErrFrameSkipped = errors.New("surface: frame skipped")
)

// State is the lifecycle state of a Surface.
type State uint8

const (
	// StateAbsent means no native surface exists.
	StateAbsent State = iota
	// StateConfigured means the native surface exists and carries a configuration.
	StateConfigured
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "Absent"
	case StateConfigured:
		return "Configured"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Handle identifies a native window. Display is zero on platforms that
// have no display connection.
type Handle struct {
	Display uintptr
	Window  uintptr
}

// Host is the part of the graphics context a Surface needs.
// *gpu.Context implements it.
type Host interface {
	Instance() gpucore.Instance
	Device() gpucore.Device
	SurfaceCapabilities(s gpucore.Surface) *gputypes.SurfaceCapabilities
}

// Surface is the presentable surface of one window.
// It is not safe for concurrent use.
type Surface struct {
	host Host

	state  State
	raw    gpucore.Surface
	config gputypes.SurfaceConfiguration

	// applied reports that config is the configuration currently on raw.
	applied bool
	// stale forces the configuration to be re-applied before the next acquire.
	stale bool
}

// New returns an ABSENT surface bound to host.
func New(host Host) *Surface {
	return &Surface{host: host}
}

// State returns the current lifecycle state.
func (s *Surface) State() State { return s.state }

// Format returns the configured texture format, or Undefined while ABSENT.
func (s *Surface) Format() gputypes.TextureFormat {
	if s.state == StateAbsent {
		return gputypes.TextureFormatUndefined
	}
	return s.config.Format
}

// Size returns the last requested size in physical pixels.
func (s *Surface) Size() (width, height uint32) {
	return s.config.Width, s.config.Height
}

// Config returns a copy of the current configuration.
func (s *Surface) Config() gputypes.SurfaceConfiguration {
	c := s.config
	c.ViewFormats = append([]gputypes.TextureFormat(nil), s.config.ViewFormats...)
	return c
}

// Create creates the native surface for h and configures it at the given size.
// It must be called while ABSENT. Any failure leaves the surface ABSENT and
// returns an error wrapping ErrCreate.
func (s *Surface) Create(h Handle, width, height uint32) error {
	if s.state != StateAbsent {
		return ErrAlreadyCreated
	}

	raw, err := s.host.Instance().CreateSurface(h.Display, h.Window)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	caps := s.host.SurfaceCapabilities(raw)
	if caps == nil || len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		raw.Release()
		return fmt.Errorf("%w: %w", ErrCreate, ErrUnsupported)
	}

	format := caps.Formats[0]
	s.raw = raw
	s.config = gputypes.SurfaceConfiguration{
		Usage:       gputypes.TextureUsageRenderAttachment,
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: gputypes.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
		ViewFormats: []gputypes.TextureFormat{format},
	}
	s.applied = false
	s.stale = false

	if width > 0 && height > 0 {
		if err := s.configure(); err != nil {
			raw.Release()
			s.raw = nil
			return fmt.Errorf("%w: %w", ErrCreate, err)
		}
	}

	s.state = StateConfigured
	hellotriangle.Logger().Info("surface: created",
		"format", format, "alpha", s.config.AlphaMode, "width", width, "height", height)
	return nil
}

// Reconfigure applies a new size. It must be called while CONFIGURED.
//
// Repeating the size of an already applied configuration is a no-op.
// A zero width or height is recorded but not applied; frames are skipped
// until a non-zero size arrives. If the backend rejects the configuration
// the error is returned and the configuration is retried on the next Acquire.
func (s *Surface) Reconfigure(width, height uint32) error {
	if s.state != StateConfigured {
		return ErrAbsent
	}
	if width == s.config.Width && height == s.config.Height && s.applied && !s.stale {
		return nil
	}

	s.config.Width, s.config.Height = width, height
	s.applied = false
	if width == 0 || height == 0 {
		hellotriangle.Logger().Debug("surface: zero size, configuration deferred")
		return nil
	}
	if err := s.configure(); err != nil {
		return fmt.Errorf("surface: reconfigure %dx%d: %w", width, height, err)
	}
	hellotriangle.Logger().Debug("surface: reconfigured", "width", width, "height", height)
	return nil
}

// Destroy unconfigures and releases the native surface. It is a no-op while ABSENT.
func (s *Surface) Destroy() {
	if s.state == StateAbsent {
		return
	}
	if s.applied {
		s.raw.Unconfigure()
	}
	s.raw.Release()
	s.raw = nil
	s.state = StateAbsent
	s.applied = false
	s.stale = false
	hellotriangle.Logger().Info("surface: destroyed")
}

// configure applies s.config to the native surface.
func (s *Surface) configure() error {
	cfg := s.Config()
	if err := s.raw.Configure(s.host.Device(), &cfg); err != nil {
		s.applied = false
		return err
	}
	s.applied = true
	s.stale = false
	return nil
}
