// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gputest

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle/gpucore"
)

// Device is a fake gpucore.Device.
type Device struct {
	log *Log

	QueueValue *Queue

	// Errors returned by the matching Create* call when set.
	ShaderErr   error
	LayoutErr   error
	PipelineErr error
	EncoderErr  error

	// Copied into every new Encoder.
	BeginPassErr error
	EndPassErr   error
	FinishErr    error

	Shaders   []*Resource
	Layouts   []*Resource
	Pipelines []*Pipeline
	Encoders  []*Encoder

	// ShaderSources records the WGSL passed to CreateShaderModule.
	ShaderSources []string
	// LayoutDescs records every pipeline layout descriptor.
	LayoutDescs []gpucore.PipelineLayoutDescriptor

	Released bool
}

// Queue implements gpucore.Device.
func (d *Device) Queue() gpucore.Queue { return d.QueueValue }

// CreateShaderModule implements gpucore.Device.
func (d *Device) CreateShaderModule(desc *gpucore.ShaderModuleDescriptor) (gpucore.ShaderModule, error) {
	if d.ShaderErr != nil {
		return nil, d.ShaderErr
	}
	d.ShaderSources = append(d.ShaderSources, desc.WGSL)
	r := &Resource{Label: desc.Label}
	d.Shaders = append(d.Shaders, r)
	d.log.add("create shader")
	return r, nil
}

// CreatePipelineLayout implements gpucore.Device.
func (d *Device) CreatePipelineLayout(desc *gpucore.PipelineLayoutDescriptor) (gpucore.PipelineLayout, error) {
	if d.LayoutErr != nil {
		return nil, d.LayoutErr
	}
	d.LayoutDescs = append(d.LayoutDescs, *desc)
	r := &Resource{Label: desc.Label}
	d.Layouts = append(d.Layouts, r)
	d.log.add("create layout")
	return r, nil
}

// CreateRenderPipeline implements gpucore.Device.
func (d *Device) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	if d.PipelineErr != nil {
		return nil, d.PipelineErr
	}
	p := &Pipeline{Desc: *desc}
	d.Pipelines = append(d.Pipelines, p)
	d.log.add("create pipeline")
	return p, nil
}

// CreateCommandEncoder implements gpucore.Device.
func (d *Device) CreateCommandEncoder(label string) (gpucore.CommandEncoder, error) {
	if d.EncoderErr != nil {
		return nil, d.EncoderErr
	}
	e := &Encoder{
		log:       d.log,
		Label:     label,
		BeginErr:  d.BeginPassErr,
		EndErr:    d.EndPassErr,
		FinishErr: d.FinishErr,
	}
	d.Encoders = append(d.Encoders, e)
	return e, nil
}

// Release implements gpucore.Device.
func (d *Device) Release() {
	d.Released = true
	d.log.add("release device")
}

// LivePipelines returns the number of pipelines not yet released.
func (d *Device) LivePipelines() int {
	n := 0
	for _, p := range d.Pipelines {
		if !p.Released {
			n++
		}
	}
	return n
}

// Resource is a fake releasable object (shader module, layout, view, buffer).
type Resource struct {
	Label    string
	Released bool
}

// Release marks the resource released.
func (r *Resource) Release() { r.Released = true }

// Pipeline is a fake gpucore.RenderPipeline that keeps its descriptor.
type Pipeline struct {
	Desc     gpucore.RenderPipelineDescriptor
	Released bool
}

// Release implements gpucore.RenderPipeline.
func (p *Pipeline) Release() { p.Released = true }

// Format returns the first colour target format, or Undefined.
func (p *Pipeline) Format() gputypes.TextureFormat {
	if p.Desc.Fragment == nil || len(p.Desc.Fragment.Targets) == 0 {
		return gputypes.TextureFormatUndefined
	}
	return p.Desc.Fragment.Targets[0].Format
}

// Queue is a fake gpucore.Queue.
type Queue struct {
	log *Log

	SubmitErr error
	Submitted []gpucore.CommandBuffer
}

// Submit implements gpucore.Queue.
func (q *Queue) Submit(buffers ...gpucore.CommandBuffer) error {
	if q.SubmitErr != nil {
		return q.SubmitErr
	}
	q.Submitted = append(q.Submitted, buffers...)
	q.log.add("submit")
	return nil
}

// Encoder is a fake gpucore.CommandEncoder.
type Encoder struct {
	log *Log

	// Errors returned by BeginRenderPass, RenderPass.End and Finish when set.
	BeginErr  error
	EndErr    error
	FinishErr error

	Label     string
	Passes    []*Pass
	Finished  bool
	Discarded bool
}

// BeginRenderPass implements gpucore.CommandEncoder.
func (e *Encoder) BeginRenderPass(desc *gpucore.RenderPassDescriptor) (gpucore.RenderPass, error) {
	if e.BeginErr != nil {
		return nil, e.BeginErr
	}
	p := &Pass{log: e.log, Desc: *desc, endErr: e.EndErr}
	e.Passes = append(e.Passes, p)
	return p, nil
}

// Finish implements gpucore.CommandEncoder.
func (e *Encoder) Finish() (gpucore.CommandBuffer, error) {
	if e.FinishErr != nil {
		return nil, e.FinishErr
	}
	e.Finished = true
	return &Resource{Label: e.Label}, nil
}

// Discard implements gpucore.CommandEncoder.
func (e *Encoder) Discard() {
	if e.Finished || e.Discarded {
		return
	}
	e.Discarded = true
	e.log.add("discard encoder")
}

// DrawCall is one recorded Draw.
type DrawCall struct {
	VertexCount, InstanceCount, FirstVertex, FirstInstance uint32
	Pipeline                                               gpucore.RenderPipeline
}

// Pass is a fake gpucore.RenderPass.
type Pass struct {
	log *Log

	Desc     gpucore.RenderPassDescriptor
	Pipeline gpucore.RenderPipeline
	Draws    []DrawCall
	Ended    bool

	endErr error
}

// SetPipeline implements gpucore.RenderPass.
func (p *Pass) SetPipeline(pl gpucore.RenderPipeline) { p.Pipeline = pl }

// Draw implements gpucore.RenderPass.
func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.Draws = append(p.Draws, DrawCall{vertexCount, instanceCount, firstVertex, firstInstance, p.Pipeline})
	p.log.add("draw")
}

// End implements gpucore.RenderPass.
func (p *Pass) End() error {
	if p.Ended {
		return fmt.Errorf("gputest: render pass ended twice")
	}
	if p.endErr != nil {
		return p.endErr
	}
	p.Ended = true
	return nil
}
