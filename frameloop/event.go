// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frameloop

import (
	"fmt"

	"github.com/gogpu/hellotriangle/surface"
)

// Event is a platform lifecycle event. The concrete types are
// WindowAvailable, WindowUnavailable, Resized, RedrawRequested and
// CloseRequested.
type Event interface {
	event()
}

// WindowAvailable reports a native window that can be presented to.
type WindowAvailable struct {
	Handle        surface.Handle
	Width, Height uint32
}

// WindowUnavailable reports that the native window must no longer be used.
type WindowUnavailable struct{}

// Resized reports a new framebuffer size in physical pixels.
type Resized struct {
	Width, Height uint32
}

// RedrawRequested asks for one frame.
type RedrawRequested struct{}

// CloseRequested ends the loop.
type CloseRequested struct{}

func (WindowAvailable) event()   {}
func (WindowUnavailable) event() {}
func (Resized) event()           {}
func (RedrawRequested) event()   {}
func (CloseRequested) event()    {}

func (e WindowAvailable) String() string {
	return fmt.Sprintf("WindowAvailable(%dx%d)", e.Width, e.Height)
}
func (WindowUnavailable) String() string { return "WindowUnavailable" }
func (e Resized) String() string         { return fmt.Sprintf("Resized(%dx%d)", e.Width, e.Height) }
func (RedrawRequested) String() string   { return "RedrawRequested" }
func (CloseRequested) String() string    { return "CloseRequested" }

// EventSource delivers events in order. Next blocks until an event is
// available. An error from Next is fatal for the loop.
type EventSource interface {
	Next() (Event, error)
}

// Events is an EventSource over a fixed list. When the list is exhausted it
// reports CloseRequested.
type Events []Event

// Next implements EventSource.
func (e *Events) Next() (Event, error) {
	if len(*e) == 0 {
		return CloseRequested{}, nil
	}
	ev := (*e)[0]
	*e = (*e)[1:]
	return ev, nil
}
