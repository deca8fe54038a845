// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wsi"
)

// Pipeline is a render pipeline with the shader module and layout it was
// built from.
type Pipeline struct {
	d        *Device
	label    string
	module   hal.ShaderModule
	layout   hal.PipelineLayout
	pipeline hal.RenderPipeline
}

// CreatePipeline compiles desc and builds a pipeline drawing into pass.
func (d *Device) CreatePipeline(pass wsi.RenderPass, desc wsi.ShaderDescriptor) (wsi.Pipeline, error) {
	rp, ok := pass.(*renderPass)
	if !ok {
		return nil, ErrForeignResource
	}
	spirv, err := compileWGSL(desc.WGSL)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{d: d, label: desc.Label}
	p.module, err = d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: shaderSource(d.backend, desc.WGSL, spirv),
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create shader module: %w", err)
	}
	p.layout, err = d.dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{Label: desc.Label})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("halgpu: create pipeline layout: %w", err)
	}
	p.pipeline, err = d.dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.layout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: desc.VertexEntry,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: desc.FragmentEntry,
			Targets: []gputypes.ColorTargetState{{
				Format:    rp.format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("halgpu: create render pipeline %q: %w", desc.Label, err)
	}
	return p, nil
}

// Destroy releases the pipeline, its layout and its shader module.
func (p *Pipeline) Destroy() {
	if p.pipeline != nil {
		p.d.dev.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.layout != nil {
		p.d.dev.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.module != nil {
		p.d.dev.DestroyShaderModule(p.module)
		p.module = nil
	}
}

// commandBuffer is a recorded frame. It is encoded against the texture
// its framebuffer's slot holds at submit time.
type commandBuffer struct {
	rec       wsi.CommandRecording
	fb        *framebuffer
	pipeline  *Pipeline
	destroyed bool
}

func (c *commandBuffer) Destroy() { c.destroyed = true }

// RecordCommands records rec for later submission.
func (d *Device) RecordCommands(rec wsi.CommandRecording) (wsi.CommandBuffer, error) {
	fb, ok := rec.Framebuffer.(*framebuffer)
	if !ok {
		return nil, ErrForeignResource
	}
	c := &commandBuffer{rec: rec, fb: fb}
	if rec.Pipeline != nil {
		if c.pipeline, ok = rec.Pipeline.(*Pipeline); !ok {
			return nil, ErrForeignResource
		}
	}
	return c, nil
}

type semaphore struct {
	signaled bool
}

func (*semaphore) Destroy() {}

type fence struct {
	value     uint64
	submitted bool
}

func (*fence) Destroy() {}

// inflight holds what a submission uses until it completes.
type inflight struct {
	index uint64
	cmd   hal.CommandBuffer
	view  hal.TextureView
}

// Queue is the device queue.
type Queue struct {
	d        *Device
	hal      hal.Queue
	inflight []inflight
}

var _ wsi.Queue = (*Queue)(nil)

// Submit encodes info.Command against its acquired texture and submits
// it. The fence, if any, signals when the submission completes.
func (q *Queue) Submit(info wsi.SubmitInfo) error {
	c, ok := info.Command.(*commandBuffer)
	if !ok {
		return ErrForeignResource
	}
	if c.destroyed {
		return errors.New("halgpu: submit destroyed command buffer")
	}
	if sem, ok := info.Wait.(*semaphore); ok && !sem.signaled {
		return errors.New("halgpu: submit waits on an unsignaled semaphore")
	}
	tex := c.fb.view.slot.tex
	if tex == nil {
		return ErrNotAcquired
	}

	dev := q.d.dev
	view, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "wsi frame",
		Format:          c.fb.view.format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return fmt.Errorf("halgpu: create frame view: %w", err)
	}
	cmd, err := q.encode(c, view)
	if err != nil {
		dev.DestroyTextureView(view)
		return err
	}
	index, err := q.hal.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		dev.FreeCommandBuffer(cmd)
		dev.DestroyTextureView(view)
		return fmt.Errorf("halgpu: submit: %w", err)
	}
	q.inflight = append(q.inflight, inflight{index: index, cmd: cmd, view: view})

	if sem, ok := info.Wait.(*semaphore); ok {
		sem.signaled = false
	}
	if sem, ok := info.Signal.(*semaphore); ok {
		sem.signaled = true
	}
	if f, ok := info.Fence.(*fence); ok {
		f.value, f.submitted = index, true
	}
	return nil
}

func (q *Queue) encode(c *commandBuffer, view hal.TextureView) (hal.CommandBuffer, error) {
	enc, err := q.d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "wsi frame"})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("wsi frame"); err != nil {
		return nil, fmt.Errorf("halgpu: begin encoding: %w", err)
	}
	pass := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "wsi clear",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c.rec.ClearColor,
		}},
	})
	if c.pipeline != nil && c.rec.VertexCount > 0 {
		pass.SetPipeline(c.pipeline.pipeline)
		pass.SetViewport(0, 0, float32(c.rec.Extent.Width), float32(c.rec.Extent.Height), 0, 1)
		pass.Draw(c.rec.VertexCount, 1, 0, 0)
	}
	pass.End()
	cmd, err := enc.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("halgpu: end encoding: %w", err)
	}
	return cmd, nil
}

// Present presents the texture held by image index of sc.
func (q *Queue) Present(sc wsi.Swapchain, index int, wait wsi.Semaphore) error {
	s, ok := sc.(*Swapchain)
	if !ok {
		return ErrForeignResource
	}
	if index < 0 || index >= len(s.slots) {
		return fmt.Errorf("halgpu: present image %d of %d", index, len(s.slots))
	}
	if sem, ok := wait.(*semaphore); ok {
		sem.signaled = false
	}
	sl := s.slots[index]
	if sl.tex == nil {
		return ErrNotAcquired
	}
	tex := sl.tex
	sl.tex = nil
	if err := q.hal.Present(s.surface.hal, tex, nil); err != nil {
		return presentationError("present", err)
	}
	return nil
}

// reclaim frees the command buffers and views of completed submissions.
func (q *Queue) reclaim() {
	done := q.hal.PollCompleted()
	kept := q.inflight[:0]
	for _, f := range q.inflight {
		if f.index <= done {
			q.d.dev.FreeCommandBuffer(f.cmd)
			q.d.dev.DestroyTextureView(f.view)
			continue
		}
		kept = append(kept, f)
	}
	q.inflight = kept
}

func (q *Queue) releaseAll() {
	for _, f := range q.inflight {
		q.d.dev.FreeCommandBuffer(f.cmd)
		q.d.dev.DestroyTextureView(f.view)
	}
	q.inflight = nil
}
