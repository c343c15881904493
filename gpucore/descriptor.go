// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import "github.com/gogpu/gputypes"

// AdapterOptions selects an adapter.
type AdapterOptions struct {
	PowerPreference      gputypes.PowerPreference
	ForceFallbackAdapter bool

	// CompatibleSurface, if set, restricts selection to adapters that can
	// present to it.
	CompatibleSurface Surface
}

// DeviceDescriptor describes device creation.
type DeviceDescriptor struct {
	Label            string
	RequiredFeatures gputypes.Features
	RequiredLimits   gputypes.Limits
}

// ShaderModuleDescriptor describes a WGSL shader module.
type ShaderModuleDescriptor struct {
	Label string
	WGSL  string
}

// PipelineLayoutDescriptor describes a pipeline layout.
type PipelineLayoutDescriptor struct {
	Label            string
	BindGroupLayouts []BindGroupLayout
}

// RenderPipelineDescriptor describes a render pipeline.
// Pipelines built through gpucore carry no depth/stencil state.
type RenderPipelineDescriptor struct {
	Label       string
	Layout      PipelineLayout
	Vertex      VertexState
	Primitive   gputypes.PrimitiveState
	Multisample gputypes.MultisampleState
	Fragment    *FragmentState
}

// VertexState describes the vertex stage.
type VertexState struct {
	Module     ShaderModule
	EntryPoint string
	Buffers    []gputypes.VertexBufferLayout
}

// FragmentState describes the fragment stage and its colour targets.
type FragmentState struct {
	Module     ShaderModule
	EntryPoint string
	Targets    []gputypes.ColorTargetState
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []ColorAttachment
}

// ColorAttachment describes one colour attachment of a render pass.
type ColorAttachment struct {
	View       TextureView
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue gputypes.Color
}
