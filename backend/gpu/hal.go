// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/acure"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoRenderTarget is returned when a HALTarget has no view to draw into.
var ErrNoRenderTarget = errors.New("gpu: no render target view")

// fenceTimeout bounds the wait for a submitted blit.
const fenceTimeout = 5 * time.Second

// HALTarget is a Target that draws frame textures on a HAL device.
//
// Frames are uploaded with Queue.WriteTexture and drawn with a render
// pipeline built from BlitShaderWGSL: one full-screen triangle per frame,
// restricted by the viewport to the frame's rectangle. The render pass loads
// the existing contents of the view, so the frame is composited over
// whatever the host drew before.
//
// The pipeline is created on the first texture. HALTarget is not safe for
// concurrent use.
type HALTarget struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	view   func() hal.TextureView

	shader      hal.ShaderModule
	bindLayout  hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
	sampler     hal.Sampler
	submissions int
}

var _ Target = (*HALTarget)(nil)

// NewHALTarget returns a target drawing into the view returned by view,
// which is called once per frame and must have the given format.
func NewHALTarget(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, view func() hal.TextureView) *HALTarget {
	return &HALTarget{
		device: device,
		queue:  queue,
		format: format,
		view:   view,
	}
}

// Format returns the format of the render target.
func (t *HALTarget) Format() gputypes.TextureFormat { return t.format }

// Ready reports whether the blit pipeline has been created.
func (t *HALTarget) Ready() bool { return t.pipeline != nil }

// Submissions returns the number of blits submitted to the queue.
func (t *HALTarget) Submissions() int { return t.submissions }

// halTexture is a frame texture with its view and bind group.
type halTexture struct {
	target        *HALTarget
	width, height uint32
	texture       hal.Texture
	view          hal.TextureView
	bindGroup     hal.BindGroup
}

// NewTextureFromRGBA creates a texture holding data and a bind group that
// samples it.
func (t *HALTarget) NewTextureFromRGBA(width, height int, data []byte) (any, error) {
	if err := t.ensurePipeline(); err != nil {
		return nil, err
	}

	w, h := uint32(width), uint32(height) //nolint:gosec // frame sizes come from uint32
	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "acure_frame",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create frame texture: %w", err)
	}
	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "acure_frame_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create frame texture view: %w", err)
	}
	bindGroup, err := t.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "acure_frame_bind",
		Layout: t.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: t.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		t.device.DestroyTextureView(view)
		t.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create frame bind group: %w", err)
	}

	ht := &halTexture{
		target:    t,
		width:     w,
		height:    h,
		texture:   tex,
		view:      view,
		bindGroup: bindGroup,
	}
	if err := ht.UpdateData(data); err != nil {
		ht.Destroy()
		return nil, err
	}
	return ht, nil
}

// UpdateData replaces the texture contents with data.
func (ht *halTexture) UpdateData(data []byte) error {
	if ht.texture == nil {
		return ErrClosed
	}
	if want := int(ht.width) * int(ht.height) * 4; len(data) != want {
		return fmt.Errorf("gpu: frame data is %d bytes, want %d", len(data), want)
	}
	ht.target.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  ht.texture,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  ht.width * 4,
			RowsPerImage: ht.height,
		},
		&hal.Extent3D{Width: ht.width, Height: ht.height, DepthOrArrayLayers: 1},
	)
	return nil
}

// Destroy releases the texture, its view and its bind group.
func (ht *halTexture) Destroy() {
	if ht.texture == nil {
		return
	}
	d := ht.target.device
	d.DestroyBindGroup(ht.bindGroup)
	d.DestroyTextureView(ht.view)
	d.DestroyTexture(ht.texture)
	ht.bindGroup, ht.view, ht.texture = nil, nil, nil
}

// DrawTexture blits tex with its top-left corner at (x, y) and waits for the
// queue to finish.
func (t *HALTarget) DrawTexture(tex any, x, y float32) error {
	ht, ok := tex.(*halTexture)
	if !ok || ht.target != t || ht.texture == nil {
		return ErrNotTexture
	}
	view := t.view()
	if view == nil {
		return ErrNoRenderTarget
	}

	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "acure_blit_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("acure_blit"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "acure_blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	rp.SetPipeline(t.pipeline)
	rp.SetBindGroup(0, ht.bindGroup, nil)
	rp.SetViewport(x, y, float32(ht.width), float32(ht.height), 0, 1)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer t.device.FreeCommandBuffer(cmdBuf)

	fence, err := t.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer t.device.DestroyFence(fence)

	if err := t.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := t.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for blit: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("gpu: wait for blit: timed out after %v", fenceTimeout)
	}
	t.submissions++
	return nil
}

// ensurePipeline creates the shader module, layouts, sampler and render
// pipeline once.
func (t *HALTarget) ensurePipeline() error {
	if t.pipeline != nil {
		return nil
	}

	shader, err := createBlitModule(t.device)
	if err != nil {
		return err
	}
	t.shader = shader

	// Binding 0: frame texture, binding 1: sampler. Matches BlitShaderWGSL.
	bindLayout, err := t.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "acure_blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		t.destroyPipeline()
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}
	t.bindLayout = bindLayout

	pipeLayout, err := t.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "acure_blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{t.bindLayout},
	})
	if err != nil {
		t.destroyPipeline()
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}
	t.pipeLayout = pipeLayout

	// Nearest filtering: the viewport maps frame pixels 1:1 onto the target.
	sampler, err := t.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "acure_blit_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		t.destroyPipeline()
		return fmt.Errorf("gpu: create sampler: %w", err)
	}
	t.sampler = sampler

	// image.RGBA pixels are alpha-premultiplied.
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := t.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "acure_blit_pipeline",
		Layout: t.pipeLayout,
		Vertex: hal.VertexState{
			Module:     t.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     t.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    t.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		t.destroyPipeline()
		return fmt.Errorf("gpu: create render pipeline: %w", err)
	}
	t.pipeline = pipeline
	acure.Logger().Debug("gpu: blit pipeline ready", "format", t.format)
	return nil
}

// Destroy releases the pipeline objects. Textures created by the target
// must be destroyed first. Destroy is idempotent.
func (t *HALTarget) Destroy() {
	t.destroyPipeline()
}

// destroyPipeline releases pipeline resources in reverse creation order.
func (t *HALTarget) destroyPipeline() {
	if t.pipeline != nil {
		t.device.DestroyRenderPipeline(t.pipeline)
		t.pipeline = nil
	}
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.pipeLayout != nil {
		t.device.DestroyPipelineLayout(t.pipeLayout)
		t.pipeLayout = nil
	}
	if t.bindLayout != nil {
		t.device.DestroyBindGroupLayout(t.bindLayout)
		t.bindLayout = nil
	}
	if t.shader != nil {
		t.device.DestroyShaderModule(t.shader)
		t.shader = nil
	}
}
