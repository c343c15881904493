// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle/gpucore"
	"github.com/gogpu/hellotriangle/gpucore/gputest"
)

func TestNewPrefersHighPerformance(t *testing.T) {
	inst := gputest.NewInstance()

	ctx, err := New(inst)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if len(inst.Requests) != 1 {
		t.Fatalf("adapter requests = %d, want 1", len(inst.Requests))
	}
	if got := inst.Requests[0].PowerPreference; got != gputypes.PowerPreferenceHighPerformance {
		t.Errorf("first request PowerPreference = %v, want HighPerformance", got)
	}
	if ctx.Device() == nil || ctx.Queue() == nil || ctx.Adapter() == nil || ctx.Instance() == nil {
		t.Error("Context has nil handles after New")
	}
	if ctx.Info().Name != "Fake GPU" {
		t.Errorf("Info().Name = %q, want %q", ctx.Info().Name, "Fake GPU")
	}
}

func TestNewRequestsDownlevelLimitsAndNoFeatures(t *testing.T) {
	inst := gputest.NewInstance()
	ctx, err := New(inst)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	reqs := inst.Adapter.DeviceRequests
	if len(reqs) != 1 {
		t.Fatalf("device requests = %d, want 1", len(reqs))
	}
	if reqs[0].RequiredFeatures != 0 {
		t.Errorf("RequiredFeatures = %v, want none", reqs[0].RequiredFeatures)
	}
	if reqs[0].RequiredLimits != gputypes.DownlevelLimits() {
		t.Error("RequiredLimits != gputypes.DownlevelLimits()")
	}
}

func TestNewFallbackOrder(t *testing.T) {
	tests := []struct {
		name         string
		refuse       map[gputypes.PowerPreference]bool
		wantRequests int
		wantFallback bool
	}{
		{
			name:         "high performance available",
			wantRequests: 1,
		},
		{
			name:         "falls back to no preference",
			refuse:       map[gputypes.PowerPreference]bool{gputypes.PowerPreferenceHighPerformance: true},
			wantRequests: 2,
		},
		{
			name: "falls back to software",
			refuse: map[gputypes.PowerPreference]bool{
				gputypes.PowerPreferenceHighPerformance: true,
				gputypes.PowerPreferenceNone:            true,
			},
			wantRequests: 3,
			wantFallback: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := gputest.NewInstance()
			inst.Refuse = tt.refuse

			ctx, err := New(inst)
			if err != nil {
				t.Fatalf("New() = %v", err)
			}
			defer ctx.Close()

			if len(inst.Requests) != tt.wantRequests {
				t.Fatalf("requests = %d, want %d", len(inst.Requests), tt.wantRequests)
			}
			last := inst.Requests[len(inst.Requests)-1]
			if last.ForceFallbackAdapter != tt.wantFallback {
				t.Errorf("last request ForceFallbackAdapter = %v, want %v", last.ForceFallbackAdapter, tt.wantFallback)
			}
		})
	}
}

func TestNewNoAdapterIsFatal(t *testing.T) {
	inst := gputest.NewInstance()
	inst.Adapter = nil

	_, err := New(inst)
	if !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("New() = %v, want ErrNoAdapter", err)
	}
	if !errors.Is(err, gpucore.ErrNoAdapter) {
		t.Errorf("New() = %v, want it to wrap the backend cause", err)
	}
	if len(inst.Requests) != 3 {
		t.Errorf("requests = %d, want 3 attempts", len(inst.Requests))
	}
}

func TestNewDeviceFailureReleasesAdapter(t *testing.T) {
	inst := gputest.NewInstance()
	cause := errors.New("out of memory")
	inst.Adapter.DeviceErr = cause

	_, err := New(inst)
	if !errors.Is(err, ErrNoDevice) || !errors.Is(err, cause) {
		t.Fatalf("New() = %v, want ErrNoDevice wrapping cause", err)
	}
	if !inst.Adapter.Released {
		t.Error("adapter not released after device failure")
	}
}

func TestNewForceFallback(t *testing.T) {
	inst := gputest.NewInstance()
	ctx, err := New(inst, WithForceFallback(true))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()
	if len(inst.Requests) != 1 || !inst.Requests[0].ForceFallbackAdapter {
		t.Errorf("requests = %+v, want one forced-fallback request", inst.Requests)
	}
}

func TestAdapterAttempts(t *testing.T) {
	o := defaultOptions()
	o.power = gputypes.PowerPreferenceNone
	got := adapterAttempts(o)
	if len(got) != 2 {
		t.Fatalf("attempts for PowerPreferenceNone = %d, want 2 (no duplicate)", len(got))
	}
	if !got[1].ForceFallbackAdapter {
		t.Error("last attempt should force fallback")
	}
}

func TestCloseReleasesInReverseOrder(t *testing.T) {
	inst := gputest.NewInstance()
	ctx, err := New(inst)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	inst.Log.Events = nil

	ctx.Close()
	ctx.Close()

	want := []string{"release device", "release adapter", "release instance"}
	if len(inst.Log.Events) != len(want) {
		t.Fatalf("events = %v, want %v", inst.Log.Events, want)
	}
	for i := range want {
		if inst.Log.Events[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, inst.Log.Events[i], want[i])
		}
	}
}
