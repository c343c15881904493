// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpuadapter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/hellotriangle/gpucore"
	"github.com/gogpu/hellotriangle/gpucore/gputest"
)

func TestMapSurfaceError(t *testing.T) {
	other := errors.New("device lost")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"lost", wgpu.ErrSurfaceLost, gpucore.ErrSurfaceLost},
		{"outdated", wgpu.ErrSurfaceOutdated, gpucore.ErrSurfaceOutdated},
		{"timeout", wgpu.ErrTimeout, gpucore.ErrTimeout},
		{"wrapped outdated", fmt.Errorf("acquire: %w", wgpu.ErrSurfaceOutdated), gpucore.ErrSurfaceOutdated},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapSurfaceError(tt.in)
			if !errors.Is(got, tt.want) {
				t.Errorf("mapSurfaceError(%v) = %v, want errors.Is %v", tt.in, got, tt.want)
			}
			if !errors.Is(got, tt.in) {
				t.Errorf("mapSurfaceError(%v) lost the original error", tt.in)
			}
		})
	}
	if mapSurfaceError(nil) != nil {
		t.Error("mapSurfaceError(nil) != nil")
	}
}

func TestConvertRenderPipelineRejectsForeignModules(t *testing.T) {
	desc := &gpucore.RenderPipelineDescriptor{
		Vertex: gpucore.VertexState{Module: &gputest.Resource{}, EntryPoint: "vs_main"},
	}
	if _, err := convertRenderPipeline(desc); !errors.Is(err, errForeign) {
		t.Errorf("convertRenderPipeline(foreign) = %v, want errForeign", err)
	}
}

func TestSurfaceRejectsForeignDevice(t *testing.T) {
	s := &Surface{}
	cfg := &gputypes.SurfaceConfiguration{Width: 1, Height: 1}
	if err := s.Configure(&gputest.Device{}, cfg); !errors.Is(err, errForeign) {
		t.Errorf("Configure(foreign device) = %v, want errForeign", err)
	}
}

func TestAdapterCapabilitiesForeignSurface(t *testing.T) {
	a := &Adapter{}
	if caps := a.SurfaceCapabilities(&gputest.Surface{}); caps != nil {
		t.Errorf("SurfaceCapabilities(foreign) = %+v, want nil", caps)
	}
}
