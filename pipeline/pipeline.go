// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/gpucore"
)

// ErrPipeline is returned when the device rejects the pipeline layout or the
// render pipeline. It is fatal.
var ErrPipeline = errors.New("pipeline: creation failed")

// Descriptor returns the render pipeline description for a colour target of
// the given format. Shader module and layout are left nil; Build fills them.
//
// The result depends on format only: no bind groups, no vertex buffers,
// triangle list, no depth/stencil, single sample, one colour target without
// blending and with every channel written.
func Descriptor(format gputypes.TextureFormat) gpucore.RenderPipelineDescriptor {
	return gpucore.RenderPipelineDescriptor{
		Label: "triangle",
		Vertex: gpucore.VertexState{
			EntryPoint: VertexEntryPoint,
		},
		Primitive:   gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &gpucore.FragmentState{
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				Blend:     nil,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	}
}

// Pipeline is a render pipeline built for one surface format, together with
// the shader module and layout it owns.
type Pipeline struct {
	format gputypes.TextureFormat
	shader gpucore.ShaderModule
	layout gpucore.PipelineLayout
	raw    gpucore.RenderPipeline
}

// Format returns the colour target format the pipeline was built for.
func (p *Pipeline) Format() gputypes.TextureFormat { return p.format }

// Raw returns the backend pipeline to bind in a render pass.
func (p *Pipeline) Raw() gpucore.RenderPipeline { return p.raw }

// Release releases the pipeline, its layout and its shader module.
func (p *Pipeline) Release() {
	if p.raw != nil {
		p.raw.Release()
		p.raw = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.shader != nil {
		p.shader.Release()
		p.shader = nil
	}
}

// Build compiles the triangle shader and creates a pipeline that renders into
// format. Shader problems return an error wrapping ErrShader; device refusals
// wrap ErrPipeline.
func Build(device gpucore.Device, format gputypes.TextureFormat) (*Pipeline, error) {
	if err := checkTriangle(); err != nil {
		return nil, err
	}

	shader, err := device.CreateShaderModule(&gpucore.ShaderModuleDescriptor{
		Label: "triangle",
		WGSL:  triangleWGSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create module: %w", ErrShader, err)
	}
	p := &Pipeline{format: format, shader: shader}

	p.layout, err = device.CreatePipelineLayout(&gpucore.PipelineLayoutDescriptor{
		Label: "triangle",
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("%w: layout: %w", ErrPipeline, err)
	}

	desc := Descriptor(format)
	desc.Layout = p.layout
	desc.Vertex.Module = shader
	desc.Fragment.Module = shader

	p.raw, err = device.CreateRenderPipeline(&desc)
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("%w: render pipeline for %v: %w", ErrPipeline, format, err)
	}
	return p, nil
}

// Stats counts cache activity.
type Stats struct {
	Builds        int
	Invalidations int
}

// Cache holds at most one pipeline, keyed by the surface format it targets.
// The zero value is an empty cache. It is not safe for concurrent use.
type Cache struct {
	current *Pipeline
	stats   Stats
}

// Current returns the cached pipeline, or nil.
func (c *Cache) Current() *Pipeline { return c.current }

// Stats returns the build and invalidation counts.
func (c *Cache) Stats() Stats { return c.stats }

// Build replaces any cached pipeline with a new one for format.
func (c *Cache) Build(device gpucore.Device, format gputypes.TextureFormat) (*Pipeline, error) {
	c.Invalidate()
	p, err := Build(device, format)
	if err != nil {
		return nil, err
	}
	c.current = p
	c.stats.Builds++
	hellotriangle.Logger().Info("pipeline: built", "format", format)
	return p, nil
}

// Ensure returns the cached pipeline if it was built for format, and builds
// a new one otherwise.
func (c *Cache) Ensure(device gpucore.Device, format gputypes.TextureFormat) (*Pipeline, error) {
	if c.current != nil && c.current.format == format {
		return c.current, nil
	}
	return c.Build(device, format)
}

// Invalidate releases and drops the cached pipeline. It is a no-op on an
// empty cache.
func (c *Cache) Invalidate() {
	if c.current == nil {
		return
	}
	c.current.Release()
	c.current = nil
	c.stats.Invalidations++
	hellotriangle.Logger().Debug("pipeline: invalidated")
}
