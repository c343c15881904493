// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import "github.com/gogpu/gputypes"

// Instance is the entry point to a GPU backend.
type Instance interface {
	// RequestAdapter selects a physical adapter. It returns an error wrapping
	// ErrNoAdapter when nothing matches opts.
	RequestAdapter(opts *AdapterOptions) (Adapter, error)

	// CreateSurface creates a presentable surface for a native window.
	// display is the platform display connection (zero where unused).
	CreateSurface(display, window uintptr) (Surface, error)

	Release()
}

// Adapter is a physical GPU selected by an Instance.
type Adapter interface {
	Info() gputypes.AdapterInfo
	Limits() gputypes.Limits
	RequestDevice(desc *DeviceDescriptor) (Device, error)

	// SurfaceCapabilities returns the formats, present modes and alpha modes
	// the adapter supports for s, or nil if s cannot be presented to.
	SurfaceCapabilities(s Surface) *gputypes.SurfaceCapabilities

	Release()
}

// Device is a logical device. All resource creation goes through it.
type Device interface {
	Queue() Queue
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)
	CreatePipelineLayout(desc *PipelineLayoutDescriptor) (PipelineLayout, error)
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)
	CreateCommandEncoder(label string) (CommandEncoder, error)
	Release()
}

// Queue executes recorded command buffers.
type Queue interface {
	Submit(buffers ...CommandBuffer) error
}

// Surface is the presentable target attached to a native window.
type Surface interface {
	// Configure applies cfg. It may be called again with a new size.
	Configure(device Device, cfg *gputypes.SurfaceConfiguration) error
	Unconfigure()

	// AcquireTexture returns the next texture to render into. The boolean
	// reports a suboptimal but usable texture.
	AcquireTexture() (SurfaceTexture, bool, error)

	Present(tex SurfaceTexture) error

	// Discard drops an acquired texture without presenting it.
	Discard()

	Release()
}

// SurfaceTexture is a texture acquired from a Surface for one frame.
type SurfaceTexture interface {
	CreateView() (TextureView, error)
}

// CommandEncoder records GPU commands.
type CommandEncoder interface {
	BeginRenderPass(desc *RenderPassDescriptor) (RenderPass, error)
	Finish() (CommandBuffer, error)
	// Discard abandons the recording. It is a no-op after Finish.
	Discard()
}

// RenderPass records draw commands into one set of attachments.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End() error
}

// Releasable GPU objects.
type (
	TextureView     interface{ Release() }
	CommandBuffer   interface{ Release() }
	ShaderModule    interface{ Release() }
	BindGroupLayout interface{ Release() }
	PipelineLayout  interface{ Release() }
	RenderPipeline  interface{ Release() }
)
