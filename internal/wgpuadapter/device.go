// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpuadapter

import (
	"fmt"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/hellotriangle/gpucore"
)

// Device wraps *wgpu.Device.
type Device struct {
	dev      *wgpu.Device
	queue    *Queue
	borrowed bool
}

// Queue implements gpucore.Device.
func (d *Device) Queue() gpucore.Queue { return d.queue }

// CreateShaderModule implements gpucore.Device.
func (d *Device) CreateShaderModule(desc *gpucore.ShaderModuleDescriptor) (gpucore.ShaderModule, error) {
	m, err := d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSL:  desc.WGSL,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CreatePipelineLayout implements gpucore.Device.
func (d *Device) CreatePipelineLayout(desc *gpucore.PipelineLayoutDescriptor) (gpucore.PipelineLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, 0, len(desc.BindGroupLayouts))
	for _, l := range desc.BindGroupLayouts {
		wl, ok := l.(*wgpu.BindGroupLayout)
		if !ok {
			return nil, errForeign
		}
		layouts = append(layouts, wl)
	}
	pl, err := d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, err
	}
	return pl, nil
}

// CreateRenderPipeline implements gpucore.Device.
func (d *Device) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	wdesc, err := convertRenderPipeline(desc)
	if err != nil {
		return nil, err
	}
	p, err := d.dev.CreateRenderPipeline(wdesc)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func convertRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (*wgpu.RenderPipelineDescriptor, error) {
	layout, ok := desc.Layout.(*wgpu.PipelineLayout)
	if !ok && desc.Layout != nil {
		return nil, fmt.Errorf("pipeline layout: %w", errForeign)
	}
	vs, ok := desc.Vertex.Module.(*wgpu.ShaderModule)
	if !ok {
		return nil, fmt.Errorf("vertex module: %w", errForeign)
	}
	out := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: desc.Vertex.EntryPoint,
			Buffers:    desc.Vertex.Buffers,
		},
		Primitive:   desc.Primitive,
		Multisample: desc.Multisample,
	}
	if f := desc.Fragment; f != nil {
		fs, ok := f.Module.(*wgpu.ShaderModule)
		if !ok {
			return nil, fmt.Errorf("fragment module: %w", errForeign)
		}
		out.Fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: f.EntryPoint,
			Targets:    f.Targets,
		}
	}
	return out, nil
}

// CreateCommandEncoder implements gpucore.Device.
func (d *Device) CreateCommandEncoder(label string) (gpucore.CommandEncoder, error) {
	e, err := d.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, err
	}
	return &Encoder{enc: e}, nil
}

// Release implements gpucore.Device.
func (d *Device) Release() {
	if !d.borrowed {
		d.dev.Release()
	}
}

// Queue wraps *wgpu.Queue.
type Queue struct {
	q *wgpu.Queue
}

// Submit implements gpucore.Queue.
func (q *Queue) Submit(buffers ...gpucore.CommandBuffer) error {
	cmds := make([]*wgpu.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*wgpu.CommandBuffer)
		if !ok {
			return errForeign
		}
		cmds = append(cmds, cb)
	}
	_, err := q.q.Submit(cmds...)
	return err
}

// Encoder wraps *wgpu.CommandEncoder.
type Encoder struct {
	enc *wgpu.CommandEncoder
}

// BeginRenderPass implements gpucore.CommandEncoder.
func (e *Encoder) BeginRenderPass(desc *gpucore.RenderPassDescriptor) (gpucore.RenderPass, error) {
	atts := make([]wgpu.RenderPassColorAttachment, 0, len(desc.ColorAttachments))
	for _, a := range desc.ColorAttachments {
		v, ok := textureView(a.View)
		if !ok {
			return nil, errForeign
		}
		atts = append(atts, wgpu.RenderPassColorAttachment{
			View:       v,
			LoadOp:     a.LoadOp,
			StoreOp:    a.StoreOp,
			ClearValue: a.ClearValue,
		})
	}
	p, err := e.enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: atts,
	})
	if err != nil {
		return nil, err
	}
	return &RenderPass{pass: p}, nil
}

// Finish implements gpucore.CommandEncoder.
func (e *Encoder) Finish() (gpucore.CommandBuffer, error) {
	cb, err := e.enc.Finish()
	if err != nil {
		return nil, err
	}
	return cb, nil
}

// Discard implements gpucore.CommandEncoder.
func (e *Encoder) Discard() { e.enc.DiscardEncoding() }

// RenderPass wraps *wgpu.RenderPassEncoder.
type RenderPass struct {
	pass *wgpu.RenderPassEncoder
}

// SetPipeline implements gpucore.RenderPass. Pipelines from another
// backend are ignored; the following Draw then fails validation in wgpu.
func (p *RenderPass) SetPipeline(pl gpucore.RenderPipeline) {
	if wp, ok := pl.(*wgpu.RenderPipeline); ok {
		p.pass.SetPipeline(wp)
	}
}

// Draw implements gpucore.RenderPass.
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

// End implements gpucore.RenderPass.
func (p *RenderPass) End() error { return p.pass.End() }
