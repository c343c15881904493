// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle/gpucore/gputest"
)

func newDevice(t *testing.T) *gputest.Device {
	t.Helper()
	inst := gputest.NewInstance()
	d, err := inst.Adapter.RequestDevice(nil)
	if err != nil {
		t.Fatalf("RequestDevice() = %v", err)
	}
	return d.(*gputest.Device)
}

var testFormats = []gputypes.TextureFormat{
	gputypes.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatRGBA8Unorm,
	gputypes.TextureFormatRGBA8UnormSrgb,
	gputypes.TextureFormatRGBA16Float,
}

func TestDescriptorShape(t *testing.T) {
	for _, format := range testFormats {
		t.Run(format.String(), func(t *testing.T) {
			d := Descriptor(format)

			if len(d.Vertex.Buffers) != 0 {
				t.Errorf("vertex buffers = %d, want 0", len(d.Vertex.Buffers))
			}
			if d.Vertex.EntryPoint != VertexEntryPoint {
				t.Errorf("vertex entry = %q, want %q", d.Vertex.EntryPoint, VertexEntryPoint)
			}
			if d.Primitive.Topology != gputypes.PrimitiveTopologyTriangleList {
				t.Errorf("topology = %v, want TriangleList", d.Primitive.Topology)
			}
			if d.Multisample != gputypes.DefaultMultisampleState() {
				t.Errorf("multisample = %+v, want default", d.Multisample)
			}
			if d.Fragment == nil {
				t.Fatal("Fragment = nil")
			}
			if d.Fragment.EntryPoint != FragmentEntryPoint {
				t.Errorf("fragment entry = %q, want %q", d.Fragment.EntryPoint, FragmentEntryPoint)
			}
			if len(d.Fragment.Targets) != 1 {
				t.Fatalf("colour targets = %d, want 1", len(d.Fragment.Targets))
			}
			target := d.Fragment.Targets[0]
			if target.Format != format {
				t.Errorf("target format = %v, want %v", target.Format, format)
			}
			if target.Blend != nil {
				t.Errorf("target blend = %+v, want nil", target.Blend)
			}
			if target.WriteMask != gputypes.ColorWriteMaskAll {
				t.Errorf("write mask = %v, want All", target.WriteMask)
			}
		})
	}
}

func TestDescriptorDeterministic(t *testing.T) {
	for _, format := range testFormats {
		a, b := Descriptor(format), Descriptor(format)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Descriptor(%v) differs between calls", format)
		}
	}

	// Only the target format depends on the input.
	x := Descriptor(gputypes.TextureFormatBGRA8UnormSrgb)
	y := Descriptor(gputypes.TextureFormatRGBA8Unorm)
	y.Fragment.Targets[0].Format = x.Fragment.Targets[0].Format
	if !reflect.DeepEqual(x, y) {
		t.Error("descriptors for different formats differ beyond the target format")
	}
}

func TestValidateTriangleShader(t *testing.T) {
	if err := ValidateShader(Source()); err != nil {
		t.Fatalf("ValidateShader(triangle) = %v", err)
	}
}

func TestValidateShaderErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "syntax",
			src:  "@vertex fn vs_main( -> {",
		},
		{
			name: "missing fragment",
			src: `@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}`,
			want: FragmentEntryPoint,
		},
		{
			name: "wrong stage",
			src: `@fragment
fn vs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}`,
			want: VertexEntryPoint,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShader(tt.src)
			if !errors.Is(err, ErrShader) {
				t.Fatalf("ValidateShader() = %v, want ErrShader", err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	dev := newDevice(t)
	p, err := Build(dev, gputypes.TextureFormatBGRA8UnormSrgb)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	if p.Format() != gputypes.TextureFormatBGRA8UnormSrgb {
		t.Errorf("Format() = %v", p.Format())
	}
	if len(dev.ShaderSources) != 1 || dev.ShaderSources[0] != Source() {
		t.Error("shader module not created from the embedded source")
	}
	if len(dev.LayoutDescs) != 1 || len(dev.LayoutDescs[0].BindGroupLayouts) != 0 {
		t.Errorf("layout descriptors = %+v, want one with no bind groups", dev.LayoutDescs)
	}
	if len(dev.Pipelines) != 1 {
		t.Fatalf("pipelines = %d, want 1", len(dev.Pipelines))
	}

	got := dev.Pipelines[0].Desc
	if got.Layout != dev.Layouts[0] {
		t.Error("pipeline not built with its layout")
	}
	if got.Vertex.Module != dev.Shaders[0] || got.Fragment.Module != dev.Shaders[0] {
		t.Error("pipeline stages not bound to the shader module")
	}
	if p.Raw() != dev.Pipelines[0] {
		t.Error("Raw() is not the created pipeline")
	}

	p.Release()
	if !dev.Pipelines[0].Released || !dev.Layouts[0].Released || !dev.Shaders[0].Released {
		t.Error("Release() left objects alive")
	}
	p.Release()
}

func TestBuildFailures(t *testing.T) {
	cause := errors.New("device says no")
	tests := []struct {
		name   string
		inject func(*gputest.Device)
		want   error
	}{
		{"shader", func(d *gputest.Device) { d.ShaderErr = cause }, ErrShader},
		{"layout", func(d *gputest.Device) { d.LayoutErr = cause }, ErrPipeline},
		{"pipeline", func(d *gputest.Device) { d.PipelineErr = cause }, ErrPipeline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newDevice(t)
			tt.inject(dev)

			var c Cache
			_, err := c.Ensure(dev, gputypes.TextureFormatBGRA8UnormSrgb)
			if !errors.Is(err, tt.want) || !errors.Is(err, cause) {
				t.Fatalf("Ensure() = %v, want %v wrapping cause", err, tt.want)
			}
			if c.Current() != nil {
				t.Error("failed build left a cached pipeline")
			}
			for _, s := range dev.Shaders {
				if !s.Released {
					t.Error("shader module leaked on failure")
				}
			}
			for _, l := range dev.Layouts {
				if !l.Released {
					t.Error("pipeline layout leaked on failure")
				}
			}
		})
	}
}

func TestCacheEnsureMemoizes(t *testing.T) {
	dev := newDevice(t)
	var c Cache

	first, err := c.Ensure(dev, gputypes.TextureFormatBGRA8UnormSrgb)
	if err != nil {
		t.Fatalf("Ensure() = %v", err)
	}
	for range 5 {
		p, err := c.Ensure(dev, gputypes.TextureFormatBGRA8UnormSrgb)
		if err != nil {
			t.Fatalf("Ensure() = %v", err)
		}
		if p != first {
			t.Fatal("Ensure() rebuilt for an unchanged format")
		}
	}
	if got := c.Stats().Builds; got != 1 {
		t.Errorf("Builds = %d, want 1", got)
	}
	if len(dev.Pipelines) != 1 {
		t.Errorf("device pipelines = %d, want 1", len(dev.Pipelines))
	}
}

func TestCacheEnsureRebuildsOnFormatChange(t *testing.T) {
	dev := newDevice(t)
	var c Cache

	if _, err := c.Ensure(dev, gputypes.TextureFormatBGRA8UnormSrgb); err != nil {
		t.Fatalf("Ensure() = %v", err)
	}
	p, err := c.Ensure(dev, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("Ensure() = %v", err)
	}
	if p.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", p.Format())
	}
	if got := dev.LivePipelines(); got != 1 {
		t.Errorf("live pipelines = %d, want 1", got)
	}
	if !dev.Pipelines[0].Released {
		t.Error("old pipeline not released")
	}
	if s := c.Stats(); s.Builds != 2 || s.Invalidations != 1 {
		t.Errorf("Stats() = %+v, want 2 builds, 1 invalidation", s)
	}
}

func TestCacheInvalidate(t *testing.T) {
	dev := newDevice(t)
	var c Cache

	c.Invalidate()
	if c.Stats().Invalidations != 0 {
		t.Error("Invalidate() on an empty cache counted")
	}

	if _, err := c.Ensure(dev, gputypes.TextureFormatBGRA8UnormSrgb); err != nil {
		t.Fatalf("Ensure() = %v", err)
	}
	c.Invalidate()
	c.Invalidate()
	if c.Current() != nil {
		t.Error("Current() != nil after Invalidate")
	}
	if dev.LivePipelines() != 0 {
		t.Errorf("live pipelines = %d, want 0", dev.LivePipelines())
	}
	if c.Stats().Invalidations != 1 {
		t.Errorf("Invalidations = %d, want 1", c.Stats().Invalidations)
	}

	if _, err := c.Ensure(dev, gputypes.TextureFormatBGRA8UnormSrgb); err != nil {
		t.Fatalf("Ensure() after Invalidate = %v", err)
	}
	if c.Stats().Builds != 2 {
		t.Errorf("Builds = %d, want 2", c.Stats().Builds)
	}
}
