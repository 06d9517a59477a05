// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/acure/internal/cache"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Extent is the measured size of a string.
// Ascent and Descent are both positive distances from the baseline.
type Extent struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Height returns Ascent + Descent.
func (e Extent) Height() float64 {
	return e.Ascent + e.Descent
}

// Size returns the extent rounded up to whole pixels.
func (e Extent) Size() image.Point {
	return image.Pt(int(math.Ceil(e.Width)), int(math.Ceil(e.Height())))
}

// widthCacheSize bounds the number of measured strings kept per face.
const widthCacheSize = 512

// Face is a Source bound to a pixel size.
//
// Face is safe for concurrent use. Drawing is serialized internally because
// x/image glyph faces keep per-face caches.
type Face struct {
	source *Source
	size   float64

	shaperPool sync.Pool
	widths     *cache.LRU[string, float64] // shaped advance per normalized string

	mu      sync.Mutex
	glyphs  font.Face
	metrics font.Metrics
	buf     sfnt.Buffer
}

// Face creates a face at size pixels.
func (s *Source) Face(size float64) (*Face, error) {
	if size <= 0 || math.IsNaN(size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}

	glyphs, err := opentype.NewFace(s.glyphs, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face: %w", err)
	}

	return &Face{
		source: s,
		size:   size,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		widths:  cache.New[string, float64](widthCacheSize),
		glyphs:  glyphs,
		metrics: glyphs.Metrics(),
	}, nil
}

// Size returns the face size in pixels.
func (f *Face) Size() float64 {
	return f.size
}

// Source returns the Source this face was created from.
func (f *Face) Source() *Source {
	return f.source
}

// Measure returns the extent of s. The width is the shaped advance.
// Widths are cached, so measuring the same string every frame is cheap.
func (f *Face) Measure(s string) Extent {
	s = Normalize(s)
	width := f.widths.GetOrCreate(s, func() float64 { return f.advance(s) })
	return Extent{
		Width:   width,
		Ascent:  fixedToFloat64(f.metrics.Ascent),
		Descent: fixedToFloat64(f.metrics.Descent),
	}
}

// Draw draws s with its baseline origin at (x, y).
// Glyphs are clipped to dst's bounds; pass a sub-image to clip further.
func (f *Face) Draw(dst draw.Image, s string, x, y float64, c color.Color) {
	s = Normalize(s)
	if s == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.glyphs,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	d.DrawString(s)
}

// Missing returns the runes of s that have no glyph in this face.
// Each rune is reported once.
func (f *Face) Missing(s string) []rune {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []rune
	seen := make(map[rune]bool)
	for _, r := range Normalize(s) {
		if seen[r] || r == ' ' || r == '\t' {
			continue
		}
		seen[r] = true
		if gid, err := f.source.glyphs.GlyphIndex(&f.buf, r); err != nil || gid == 0 {
			out = append(out, r)
		}
	}
	return out
}

// CacheStats returns the counters of the width cache.
func (f *Face) CacheStats() cache.Stats {
	return f.widths.Stats()
}

// Close releases the glyph face.
func (f *Face) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.glyphs.Close()
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

// floatToFixed converts a float64 to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
