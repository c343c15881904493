// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package eventqueue converts window-system callbacks into the ordered
// lifecycle events consumed by frameloop.
//
// It holds no window-system state of its own: the platform layer reports
// callbacks (creation, iconify, framebuffer size, close) from whichever
// thread the window system uses, and the render thread drains the queue into
// a Handler once per frame with Flush. All methods are safe for concurrent
// use.
package eventqueue

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/hellotriangle/frameloop"
	"github.com/gogpu/hellotriangle/surface"
)

// Handler consumes lifecycle events. *frameloop.Loop implements it.
type Handler interface {
	Handle(ev frameloop.Event) (done bool, err error)
}

var _ Handler = (*frameloop.Loop)(nil)

// Queue buffers lifecycle events between the window system and the loop.
type Queue struct {
	mu      sync.Mutex
	pending []frameloop.Event
	handle  surface.Handle
	width   uint32
	height  uint32
	created bool
	visible bool
	closed  bool

	closing atomic.Bool
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Created reports a new native window with its framebuffer size.
func (q *Queue) Created(h surface.Handle, width, height int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handle = h
	q.width, q.height = clampSize(width), clampSize(height)
	q.created = true
	q.show()
}

// Iconified reports that the window was minimised (true) or restored (false).
func (q *Queue) Iconified(iconified bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.created {
		return
	}
	if iconified {
		if q.visible {
			q.visible = false
			q.pending = append(q.pending, frameloop.WindowUnavailable{})
		}
		return
	}
	q.show()
}

// FramebufferResized reports a new framebuffer size in pixels. Sizes reported
// while the window is hidden are remembered for the next WindowAvailable.
func (q *Queue) FramebufferResized(width, height int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	w, h := clampSize(width), clampSize(height)
	if w == q.width && h == q.height {
		return
	}
	q.width, q.height = w, h
	if q.visible {
		q.pending = append(q.pending, frameloop.Resized{Width: w, Height: h})
	}
}

// RequestClose asks the loop to stop. The caller must wake the render loop
// itself so that Flush runs.
func (q *Queue) RequestClose() {
	q.closing.Store(true)
}

// Closing reports whether a close has been requested.
func (q *Queue) Closing() bool { return q.closing.Load() }

// Visible reports whether the window can currently be presented to.
func (q *Queue) Visible() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.visible
}

// Size returns the last known framebuffer size.
func (q *Queue) Size() (width, height uint32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.width, q.height
}

// Flush delivers the queued events to h in order, followed by one
// RedrawRequested if the window is visible. Delivery stops at the first
// error or once h reports done.
//
// After a close has been requested, pending events are dropped and h
// receives a single CloseRequested; later calls return done without calling
// h.
func (q *Queue) Flush(h Handler) (done bool, err error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return true, nil
	}
	if q.closing.Load() {
		q.closed = true
		q.pending = nil
		q.mu.Unlock()
		return h.Handle(frameloop.CloseRequested{})
	}
	events := q.pending
	q.pending = nil
	if q.visible {
		events = append(events, frameloop.RedrawRequested{})
	}
	q.mu.Unlock()

	for _, ev := range events {
		if done, err = h.Handle(ev); done || err != nil {
			return done, err
		}
	}
	return false, nil
}

func (q *Queue) show() {
	if q.visible {
		return
	}
	q.visible = true
	q.pending = append(q.pending, frameloop.WindowAvailable{
		Handle: q.handle,
		Width:  q.width,
		Height: q.height,
	})
}

func clampSize(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
