// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster provides a software surface that renders into an
// *image.RGBA.
//
// The raster surface serves multiple purposes:
//   - Reference implementation for other backends
//   - Headless rendering (PNG output, tests, servers)
//   - Frame source for the gpu backend
//
// # Supported Features
//
//   - Clear with any color, including translucent ones
//   - Axis-aligned and rounded rectangles (anti-aliased corners)
//   - Text shaped and rasterized by the text package, aligned and
//     clipped to its box
//   - PNG output
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/acure/backend/raster"
//
//	// Create via registry
//	s, _ := acure.NewSurface("raster", acure.SurfaceOptions{Width: 800, Height: 600})
//
//	// Or create directly
//	s, _ := raster.New(acure.SurfaceOptions{Width: 800, Height: 600})
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/gogpu/acure"
	"github.com/gogpu/acure/internal/layout"
	"github.com/gogpu/acure/text"
	"golang.org/x/image/vector"
)

// Name is the registry name of the raster backend.
const Name = "raster"

func init() {
	acure.Register(Name, func(opts acure.SurfaceOptions) (acure.Surface, error) {
		return New(opts)
	})
}

// ErrInvalidSize is returned when a surface is created or resized with a
// zero dimension.
var ErrInvalidSize = errors.New("raster: width and height must be positive")

// Surface renders commands into an *image.RGBA.
// It implements acure.Surface and io.WriterTo (PNG).
type Surface struct {
	img     *image.RGBA
	face    *text.Face
	drawing bool
	frames  uint64
}

// Ensure Surface implements the interfaces it advertises.
var (
	_ acure.Surface = (*Surface)(nil)
	_ acure.Named   = (*Surface)(nil)
	_ io.WriterTo   = (*Surface)(nil)
	_ io.Closer     = (*Surface)(nil)
)

// New creates a raster surface. Zero option fields take acure defaults.
func New(opts acure.SurfaceOptions) (*Surface, error) {
	opts = opts.WithDefaults()

	face, err := text.Default().Face(opts.FontSize)
	if err != nil {
		return nil, err
	}
	s, err := NewWithFace(opts.Width, opts.Height, face)
	if err != nil {
		_ = face.Close()
		return nil, err
	}
	return s, nil
}

// NewWithFace creates a raster surface that draws text with face.
// The surface takes ownership of face and closes it in Close.
func NewWithFace(width, height uint32, face *text.Face) (*Surface, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if face == nil {
		return nil, errors.New("raster: nil face")
	}
	return &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, int(width), int(height))),
		face: face,
	}, nil
}

// Name implements acure.Named.
func (s *Surface) Name() string { return Name }

// Resize reallocates the target. Existing content is discarded.
func (s *Surface) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	b := s.img.Bounds()
	if b.Dx() == int(width) && b.Dy() == int(height) {
		return nil
	}
	s.img = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	acure.Logger().Debug("raster: resized", "width", width, "height", height)
	return nil
}

// Begin starts a frame.
func (s *Surface) Begin() error {
	s.drawing = true
	return nil
}

// Clear replaces every pixel with c.
func (s *Surface) Clear(c acure.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Command draws a single command.
func (s *Surface) Command(cmd acure.Command, align acure.AlignMode, mode acure.LayoutMode) {
	switch c := cmd.(type) {
	case acure.Clear:
		s.Clear(c.Color)
	case acure.FillRectangle:
		s.fillRectangle(c)
	case acure.WriteString:
		s.writeString(c, align, mode)
	}
}

// End finishes the frame.
func (s *Surface) End() error {
	s.drawing = false
	s.frames++
	return nil
}

// Drawing reports whether a frame is open.
func (s *Surface) Drawing() bool { return s.drawing }

// Frames returns the number of completed frames.
func (s *Surface) Frames() uint64 { return s.frames }

// Image returns the render target. The image is shared with the surface and
// changes with the next frame.
func (s *Surface) Image() *image.RGBA { return s.img }

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// WriteTo writes the current image as PNG to w.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := png.Encode(cw, s.img)
	return cw.n, err
}

// SavePNG writes the current image to a PNG file.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: create %s: %w", path, err)
	}
	if _, err := s.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("raster: encode %s: %w", path, err)
	}
	return f.Close()
}

// Close releases the text face.
func (s *Surface) Close() error {
	return s.face.Close()
}

func (s *Surface) fillRectangle(c acure.FillRectangle) {
	r := c.Bounds()
	clip := r.Intersect(s.img.Bounds())
	if clip.Empty() || c.Color.IsTransparent() {
		return
	}
	src := image.NewUniform(c.Color)

	radius := cornerRadius(c.Radius, r)
	if radius == 0 {
		draw.Draw(s.img, clip, src, image.Point{}, draw.Over)
		return
	}

	mask := roundedRectMask(r, clip, radius)
	draw.DrawMask(s.img, clip, src, image.Point{}, mask, image.Point{}, draw.Over)
}

// cornerRadius clamps radius to half the shorter side of r. Negative and NaN
// radii draw square corners.
func cornerRadius(radius float64, r image.Rectangle) float64 {
	if !(radius > 0) {
		return 0
	}
	return min(radius, float64(min(r.Dx(), r.Dy()))/2)
}

func (s *Surface) writeString(c acure.WriteString, align acure.AlignMode, mode acure.LayoutMode) {
	if c.Text == "" || c.Color.IsTransparent() {
		return
	}

	ext := s.face.Measure(c.Text)
	clip, origin := layout.Resolve(c.Bounds(), ext.Size(), align, mode)
	clip = clip.Intersect(s.img.Bounds())
	if clip.Empty() {
		return
	}

	if missing := s.face.Missing(c.Text); len(missing) > 0 {
		acure.Logger().Warn("raster: font has no glyph", "runes", string(missing))
	}

	dst := s.img.SubImage(clip).(*image.RGBA)
	s.face.Draw(dst, c.Text, float64(origin.X), float64(origin.Y)+ext.Ascent, c.Color)
}

// kappa is the cubic Bézier control distance for a quarter circle.
const kappa = 0.5522847498

// roundedRectMask rasterizes the part of the rounded rectangle r that lies
// inside clip. The mask is clip-sized, so its origin is clip.Min.
func roundedRectMask(r, clip image.Rectangle, radius float64) *image.Alpha {
	w, h := clip.Dx(), clip.Dy()
	rad := float32(radius)

	// Edges further than one radius outside the clip cannot change the
	// visible shape, so the path is pulled in to keep the rasterizer small.
	pad := rad + 1
	x0 := clampf(float32(r.Min.X-clip.Min.X), -pad, float32(w)+pad)
	y0 := clampf(float32(r.Min.Y-clip.Min.Y), -pad, float32(h)+pad)
	x1 := clampf(float32(r.Max.X-clip.Min.X), -pad, float32(w)+pad)
	y1 := clampf(float32(r.Max.Y-clip.Min.Y), -pad, float32(h)+pad)
	k := float32(kappa) * rad

	z := vector.NewRasterizer(w, h)
	z.MoveTo(x0+rad, y0)
	z.LineTo(x1-rad, y0)
	z.CubeTo(x1-rad+k, y0, x1, y0+rad-k, x1, y0+rad)
	z.LineTo(x1, y1-rad)
	z.CubeTo(x1, y1-rad+k, x1-rad+k, y1, x1-rad, y1)
	z.LineTo(x0+rad, y1)
	z.CubeTo(x0+rad-k, y1, x0, y1-rad+k, x0, y1-rad)
	z.LineTo(x0, y0+rad)
	z.CubeTo(x0, y0+rad-k, x0+rad-k, y0, x0+rad, y0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func clampf(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
