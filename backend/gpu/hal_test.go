// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/acure"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// createRenderView creates a texture view standing in for a window surface.
func createRenderView(t *testing.T, device hal.Device) hal.TextureView {
	t.Helper()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_surface",
		Size:          hal.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "test_surface_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateTextureView failed: %v", err)
	}
	t.Cleanup(func() {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
	})
	return view
}

// skipIfNagaUnsupported skips when the shader compiler lacks a feature the
// blit shader needs.
func skipIfNagaUnsupported(t *testing.T) {
	t.Helper()
	if _, err := CompileBlitShader(); err != nil {
		if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
	}
}

func newHALTestTarget(t *testing.T) *HALTarget {
	t.Helper()
	skipIfNagaUnsupported(t)
	device, queue := createNoopDevice(t)
	view := createRenderView(t, device)
	target := NewHALTarget(device, queue, gputypes.TextureFormatBGRA8Unorm, func() hal.TextureView { return view })
	t.Cleanup(target.Destroy)
	return target
}

func TestHALTargetFrames(t *testing.T) {
	target := newHALTestTarget(t)
	if target.Ready() {
		t.Fatal("pipeline should be created lazily")
	}

	s := newTestSurface(t, target)
	s.SetPosition(4, 2)
	for range 3 {
		if err := frame(t, s, acure.Red); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if !target.Ready() {
		t.Error("pipeline not created after the first frame")
	}
	if target.Submissions() != 3 || s.Uploads() != 3 {
		t.Errorf("submissions = %d, uploads = %d; want 3 and 3", target.Submissions(), s.Uploads())
	}
	ht, ok := s.Texture().(*halTexture)
	if !ok {
		t.Fatalf("Texture() = %T, want *halTexture", s.Texture())
	}
	if ht.width != 8 || ht.height != 4 || ht.bindGroup == nil {
		t.Errorf("texture = %dx%d bind=%v, want 8x4 with a bind group", ht.width, ht.height, ht.bindGroup)
	}
}

func TestHALTargetResize(t *testing.T) {
	target := newHALTestTarget(t)
	s := newTestSurface(t, target)

	if err := frame(t, s, acure.Blue); err != nil {
		t.Fatal(err)
	}
	old := s.Texture().(*halTexture)
	if err := s.Resize(16, 8); err != nil {
		t.Fatal(err)
	}
	if err := frame(t, s, acure.Blue); err != nil {
		t.Fatal(err)
	}

	if old.texture != nil {
		t.Error("old texture should be destroyed after a resize")
	}
	if nt := s.Texture().(*halTexture); nt.width != 16 || nt.height != 8 {
		t.Errorf("new texture = %dx%d, want 16x8", nt.width, nt.height)
	}
}

func TestHALTargetRejectsForeignTexture(t *testing.T) {
	target := newHALTestTarget(t)
	if err := target.DrawTexture(&mockTexture{}, 0, 0); !errors.Is(err, ErrNotTexture) {
		t.Errorf("DrawTexture(mock) error = %v, want ErrNotTexture", err)
	}

	tex, err := target.NewTextureFromRGBA(2, 2, make([]byte, 2*2*4))
	if err != nil {
		t.Fatalf("NewTextureFromRGBA() error = %v", err)
	}
	tex.(*halTexture).Destroy()
	if err := target.DrawTexture(tex, 0, 0); !errors.Is(err, ErrNotTexture) {
		t.Errorf("DrawTexture(destroyed) error = %v, want ErrNotTexture", err)
	}
}

func TestHALTargetNoView(t *testing.T) {
	skipIfNagaUnsupported(t)
	device, queue := createNoopDevice(t)
	target := NewHALTarget(device, queue, gputypes.TextureFormatBGRA8Unorm, func() hal.TextureView { return nil })
	defer target.Destroy()

	tex, err := target.NewTextureFromRGBA(2, 2, make([]byte, 2*2*4))
	if err != nil {
		t.Fatalf("NewTextureFromRGBA() error = %v", err)
	}
	defer tex.(*halTexture).Destroy()
	if err := target.DrawTexture(tex, 0, 0); !errors.Is(err, ErrNoRenderTarget) {
		t.Errorf("DrawTexture() error = %v, want ErrNoRenderTarget", err)
	}
}

func TestHALTextureSizeMismatch(t *testing.T) {
	target := newHALTestTarget(t)
	if _, err := target.NewTextureFromRGBA(4, 4, make([]byte, 3)); err == nil {
		t.Error("NewTextureFromRGBA with short data should fail")
	}
}

func TestHALTargetDestroyIdempotent(t *testing.T) {
	target := newHALTestTarget(t)
	if _, err := target.NewTextureFromRGBA(1, 1, make([]byte, 4)); err != nil {
		t.Fatal(err)
	}
	target.Destroy()
	target.Destroy()
	if target.Ready() {
		t.Error("Ready() after Destroy should be false")
	}
}
