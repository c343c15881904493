// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frameloop

import (
	"math"
	"time"

	"github.com/gogpu/gputypes"
)

// ColorPeriodDivisor scales elapsed seconds before the sine in ClearColor.
// The animation repeats every 2π·ColorPeriodDivisor seconds.
const ColorPeriodDivisor = 5.0

// ClearColor returns the background colour at elapsed time t:
// green follows sin(t/5s), blue is its complement, red is zero and the
// colour is opaque.
func ClearColor(t time.Duration) gputypes.Color {
	g := math.Sin(t.Seconds() / ColorPeriodDivisor)
	return gputypes.Color{R: 0, G: g, B: 1 - g, A: 1}
}

// Clock reports the time elapsed since the animation started.
type Clock interface {
	Elapsed() time.Duration
}

// SystemClock measures wall-clock time from its creation.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock started now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Elapsed implements Clock.
func (c *SystemClock) Elapsed() time.Duration { return time.Since(c.start) }

// ManualClock is a Clock moved by hand.
type ManualClock struct {
	T time.Duration
}

// Elapsed implements Clock.
func (c *ManualClock) Elapsed() time.Duration { return c.T }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.T += d }
