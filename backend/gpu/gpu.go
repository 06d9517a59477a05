// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu provides a surface that renders frames in software and
// presents them as a texture on a host-owned WebGPU device.
//
// The surface draws each frame with the raster backend, uploads the pixels
// in End, and draws the texture through a Target. The texture is created
// lazily on the first frame and updated in place afterwards. If drawing
// fails the texture is dropped and recreated on the next frame.
//
// Two targets are provided: FromTextureDrawer presents through a host's
// gpucontext.TextureDrawer, and HALTarget blits the frame itself with a
// naga-compiled shader on a wgpu HAL device.
//
// The gpu backend is not registered: it needs a Target from the host
// application and is created with New.
//
// # Example
//
//	provider := app.GPUContextProvider()
//	s, err := gpu.New(gpu.FromTextureDrawer(dc), provider, acure.SurfaceOptions{Width: 800, Height: 600})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	_ = a.Begin(s)
//	_ = a.Write(s)
package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/acure"
	"github.com/gogpu/acure/backend/raster"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Name is the backend name reported in errors.
const Name = "gpu"

// Common errors returned by the gpu surface.
var (
	// ErrClosed is returned when operations are attempted on a closed surface.
	ErrClosed = errors.New("gpu: surface is closed")

	// ErrNilTarget is returned when New is called without a Target.
	ErrNilTarget = errors.New("gpu: nil Target")

	// ErrNoTextureCreator is returned when a TextureDrawer has no texture
	// creator.
	ErrNoTextureCreator = errors.New("gpu: draw context has no texture creator")

	// ErrNotTexture is returned when a target is asked to draw a texture it
	// did not create.
	ErrNotTexture = errors.New("gpu: texture does not belong to this target")
)

// Target creates and draws textures on the host's device.
type Target interface {
	// NewTextureFromRGBA creates a texture from premultiplied RGBA pixels.
	NewTextureFromRGBA(width, height int, data []byte) (any, error)

	// DrawTexture draws tex with its top-left corner at (x, y).
	DrawTexture(tex any, x, y float32) error
}

// textureUpdater is implemented by textures that accept new pixel data.
type textureUpdater interface {
	UpdateData(data []byte) error
}

// textureDestroyer is implemented by textures that hold GPU memory.
type textureDestroyer interface {
	Destroy()
}

// FromTextureDrawer adapts a gpucontext.TextureDrawer to a Target.
func FromTextureDrawer(dc gpucontext.TextureDrawer) Target {
	return drawerTarget{dc: dc}
}

type drawerTarget struct {
	dc gpucontext.TextureDrawer
}

func (d drawerTarget) NewTextureFromRGBA(width, height int, data []byte) (any, error) {
	creator := d.dc.TextureCreator()
	if creator == nil {
		return nil, ErrNoTextureCreator
	}
	return creator.NewTextureFromRGBA(width, height, data)
}

func (d drawerTarget) DrawTexture(tex any, x, y float32) error {
	gt, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrNotTexture
	}
	return d.dc.DrawTexture(gt, x, y)
}

// Surface renders into a raster surface and presents it through a Target.
// Surface is not safe for concurrent use.
type Surface struct {
	frame    *raster.Surface
	target   Target
	provider gpucontext.DeviceProvider

	x, y float32

	texture     any
	sizeChanged bool
	uploads     int

	closed bool
}

// Ensure Surface implements the interfaces it advertises.
var (
	_ acure.Surface = (*Surface)(nil)
	_ acure.Named   = (*Surface)(nil)
)

// New creates a gpu surface. provider may be nil; it is only consulted for
// the host surface format.
func New(target Target, provider gpucontext.DeviceProvider, opts acure.SurfaceOptions) (*Surface, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	frame, err := raster.New(opts)
	if err != nil {
		return nil, err
	}
	return &Surface{
		frame:    frame,
		target:   target,
		provider: provider,
	}, nil
}

// Name implements acure.Named.
func (s *Surface) Name() string { return Name }

// SetPosition sets where the frame texture is drawn on the host target.
func (s *Surface) SetPosition(x, y float32) {
	s.x, s.y = x, y
}

// Format returns the host surface format, or RGBA8Unorm without a provider.
func (s *Surface) Format() gputypes.TextureFormat {
	if s.provider == nil {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return s.provider.SurfaceFormat()
}

// Image returns the software frame.
func (s *Surface) Image() *image.RGBA { return s.frame.Image() }

// Texture returns the current frame texture, or nil before the first frame.
func (s *Surface) Texture() any { return s.texture }

// Uploads returns the number of completed texture uploads.
func (s *Surface) Uploads() int { return s.uploads }

// Resize resizes the frame. The texture is recreated on the next End.
func (s *Surface) Resize(width, height uint32) error {
	if s.closed {
		return ErrClosed
	}
	if uint32(s.frame.Width()) == width && uint32(s.frame.Height()) == height {
		return nil
	}
	if err := s.frame.Resize(width, height); err != nil {
		return err
	}
	s.sizeChanged = true
	return nil
}

// Begin starts a frame.
func (s *Surface) Begin() error {
	if s.closed {
		return ErrClosed
	}
	return s.frame.Begin()
}

// Clear fills the frame with c.
func (s *Surface) Clear(c acure.Color) {
	s.frame.Clear(c)
}

// Command draws a command into the frame.
func (s *Surface) Command(cmd acure.Command, align acure.AlignMode, mode acure.LayoutMode) {
	s.frame.Command(cmd, align, mode)
}

// End uploads the frame and draws it on the host target.
func (s *Surface) End() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.frame.End(); err != nil {
		return err
	}

	if err := s.upload(); err != nil {
		return err
	}

	if err := s.target.DrawTexture(s.texture, s.x, s.y); err != nil {
		// The device may be lost; start over with a fresh texture.
		acure.Logger().Warn("gpu: draw failed, dropping texture", "err", err)
		s.dropTexture()
		return fmt.Errorf("gpu: draw texture: %w", err)
	}
	return nil
}

func (s *Surface) upload() error {
	img := s.frame.Image()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	if s.texture != nil && !s.sizeChanged {
		if updater, ok := s.texture.(textureUpdater); ok {
			if err := updater.UpdateData(img.Pix); err != nil {
				return fmt.Errorf("gpu: update texture: %w", err)
			}
			s.uploads++
			return nil
		}
	}

	tex, err := s.target.NewTextureFromRGBA(w, h, img.Pix)
	if err != nil {
		return fmt.Errorf("gpu: create texture: %w", err)
	}
	// image.RGBA pixels are alpha-premultiplied.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}

	// Creating the new texture waits for the GPU, so the old one is idle.
	s.dropTexture()
	s.texture = tex
	s.sizeChanged = false
	s.uploads++
	return nil
}

func (s *Surface) dropTexture() {
	if s.texture == nil {
		return
	}
	if d, ok := s.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	s.texture = nil
}

// Close releases the texture and the frame.
// Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.dropTexture()
	return s.frame.Close()
}
