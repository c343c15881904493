// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frameloop

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/gpucore"
	"github.com/gogpu/hellotriangle/pipeline"
	"github.com/gogpu/hellotriangle/surface"
)

// GPU is the graphics context the loop renders with. *gpu.Context
// implements it.
type GPU interface {
	surface.Host
	Queue() gpucore.Queue
}

// IsFatal reports whether err must end the application. Skipped frames are
// not fatal.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, surface.ErrFrameSkipped)
}

// Stats counts rendered and skipped frames.
type Stats struct {
	FramesPresented uint64
	FramesSkipped   uint64

	// LastFrameTime is the clock reading of the last presented frame.
	LastFrameTime time.Duration
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the animation clock. The default is a SystemClock started
// by New.
func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// WithStatsInterval sets how often frame statistics are logged at Debug
// level. Zero disables the log.
func WithStatsInterval(d time.Duration) Option {
	return func(l *Loop) { l.statsInterval = d }
}

// Loop drives the surface and pipeline lifecycle from platform events and
// renders one frame per redraw request.
//
// A Loop is single-threaded: Handle and Run must be called from the goroutine
// that owns the GPU objects.
type Loop struct {
	gpu       GPU
	surface   *surface.Surface
	pipelines *pipeline.Cache
	clock     Clock

	stats         Stats
	statsInterval time.Duration
	statsMark     time.Duration
	statsFrames   uint64

	done bool
}

// New returns a loop with an ABSENT surface and an empty pipeline cache.
func New(g GPU, opts ...Option) *Loop {
	l := &Loop{
		gpu:           g,
		surface:       surface.New(g),
		pipelines:     &pipeline.Cache{},
		statsInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.clock == nil {
		l.clock = NewSystemClock()
	}
	return l
}

// Surface returns the presentation surface.
func (l *Loop) Surface() *surface.Surface { return l.surface }

// Pipelines returns the pipeline cache.
func (l *Loop) Pipelines() *pipeline.Cache { return l.pipelines }

// Stats returns frame counters.
func (l *Loop) Stats() Stats { return l.stats }

// Done reports whether a CloseRequested event has been handled.
func (l *Loop) Done() bool { return l.done }

// Run handles events from src until CloseRequested. It returns nil after a
// close and a fatal error otherwise. Surface and pipeline are released
// before Run returns; the GPU context stays with its owner.
func (l *Loop) Run(src EventSource) error {
	for {
		ev, err := src.Next()
		if err != nil {
			l.shutdown()
			return fmt.Errorf("frameloop: event source: %w", err)
		}
		done, err := l.Handle(ev)
		if err != nil {
			l.shutdown()
			return err
		}
		if done {
			return nil
		}
	}
}

// Handle processes one event. It returns done once the loop has closed;
// events after that are ignored. A non-nil error is fatal.
func (l *Loop) Handle(ev Event) (done bool, err error) {
	if l.done {
		return true, nil
	}
	log := hellotriangle.Logger()

	switch e := ev.(type) {
	case WindowAvailable:
		log.Debug("frameloop: event", "event", e)
		return false, l.windowAvailable(e)

	case WindowUnavailable:
		log.Debug("frameloop: event", "event", e)
		l.windowUnavailable()
		return false, nil

	case Resized:
		log.Debug("frameloop: event", "event", e)
		l.resized(e)
		return false, nil

	case RedrawRequested:
		return false, l.redraw()

	case CloseRequested:
		log.Debug("frameloop: event", "event", e)
		l.shutdown()
		l.done = true
		return true, nil

	default:
		log.Warn("frameloop: unknown event ignored", "event", fmt.Sprintf("%T", ev))
		return false, nil
	}
}

func (l *Loop) windowAvailable(e WindowAvailable) error {
	if l.surface.State() == surface.StateConfigured {
		hellotriangle.Logger().Warn("frameloop: window already available, event ignored")
		return nil
	}
	if err := l.surface.Create(e.Handle, e.Width, e.Height); err != nil {
		return err
	}
	_, err := l.pipelines.Ensure(l.gpu.Device(), l.surface.Format())
	return err
}

func (l *Loop) windowUnavailable() {
	l.surface.Destroy()
	l.pipelines.Invalidate()
}

func (l *Loop) resized(e Resized) {
	if l.surface.State() != surface.StateConfigured {
		return
	}
	if err := l.surface.Reconfigure(e.Width, e.Height); err != nil {
		hellotriangle.Logger().Warn("frameloop: reconfigure failed, retrying on next frame", "err", err)
	}
}

// redraw renders one frame. Transient failures are counted and logged and
// return nil.
func (l *Loop) redraw() error {
	if l.surface.State() != surface.StateConfigured {
		return nil
	}
	p, err := l.pipelines.Ensure(l.gpu.Device(), l.surface.Format())
	if err != nil {
		return err
	}

	frame, err := l.surface.Acquire()
	if err != nil {
		return l.skipped(err)
	}

	now := l.clock.Elapsed()
	cmd, err := l.encode(frame.View(), p, ClearColor(now))
	if err != nil {
		frame.Discard()
		return err
	}
	if err := l.gpu.Queue().Submit(cmd); err != nil {
		cmd.Release()
		frame.Discard()
		return fmt.Errorf("frameloop: submit: %w", err)
	}
	if err := frame.Present(); err != nil {
		return l.skipped(err)
	}

	l.stats.FramesPresented++
	l.stats.LastFrameTime = now
	l.logStats(now)
	return nil
}

func (l *Loop) skipped(err error) error {
	if IsFatal(err) {
		return err
	}
	l.stats.FramesSkipped++
	hellotriangle.Logger().Warn("frameloop: frame skipped", "err", err)
	return nil
}

// encode records one render pass that clears the target to clear and draws
// the triangle. The encoder is discarded when recording fails.
func (l *Loop) encode(target gpucore.TextureView, p *pipeline.Pipeline, clear gputypes.Color) (gpucore.CommandBuffer, error) {
	enc, err := l.gpu.Device().CreateCommandEncoder("frame")
	if err != nil {
		return nil, fmt.Errorf("frameloop: command encoder: %w", err)
	}
	pass, err := enc.BeginRenderPass(&gpucore.RenderPassDescriptor{
		Label: "triangle",
		ColorAttachments: []gpucore.ColorAttachment{{
			View:       target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	if err != nil {
		enc.Discard()
		return nil, fmt.Errorf("frameloop: begin render pass: %w", err)
	}
	pass.SetPipeline(p.Raw())
	pass.Draw(3, 1, 0, 0)
	if err := pass.End(); err != nil {
		enc.Discard()
		return nil, fmt.Errorf("frameloop: end render pass: %w", err)
	}
	cmd, err := enc.Finish()
	if err != nil {
		enc.Discard()
		return nil, fmt.Errorf("frameloop: finish: %w", err)
	}
	return cmd, nil
}

func (l *Loop) logStats(now time.Duration) {
	if l.statsInterval <= 0 {
		return
	}
	span := now - l.statsMark
	if span < l.statsInterval {
		return
	}
	frames := l.stats.FramesPresented - l.statsFrames
	hellotriangle.Logger().Debug("frameloop: stats",
		"fps", float64(frames)/span.Seconds(),
		"presented", l.stats.FramesPresented,
		"skipped", l.stats.FramesSkipped)
	l.statsMark = now
	l.statsFrames = l.stats.FramesPresented
}

// shutdown releases the pipeline and then the surface.
func (l *Loop) shutdown() {
	l.pipelines.Invalidate()
	l.surface.Destroy()
}
