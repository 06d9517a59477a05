// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package x11

import (
	"image"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/text/unicode/norm"
)

// fullCircle is 360 degrees in X arc units (1/64 degree).
const fullCircle = 360 * 64

// maxTextItem is the longest string a single PolyText8 item can carry.
const maxTextItem = 254

// toXRect converts r to an X rectangle, clamping to the protocol's
// coordinate range. Empty rectangles convert to a zero-sized one.
func toXRect(r image.Rectangle) xproto.Rectangle {
	if r.Empty() {
		return xproto.Rectangle{}
	}
	x0, y0 := clamp16(r.Min.X), clamp16(r.Min.Y)
	x1, y1 := clamp16(r.Max.X), clamp16(r.Max.Y)
	return xproto.Rectangle{
		X:      x0,
		Y:      y0,
		Width:  uint16(int(x1) - int(x0)),
		Height: uint16(int(y1) - int(y0)),
	}
}

func clamp16(v int) int16 {
	return int16(max(math.MinInt16, min(v, math.MaxInt16)))
}

// roundedRect decomposes a rounded rectangle into two overlapping
// rectangles (a horizontal and a vertical band) plus one full circle per
// corner. radius is clamped to half the shorter side and to the largest arc
// the protocol can express. Zero, negative and NaN radii yield a single
// rectangle.
func roundedRect(r image.Rectangle, radius float64) ([]xproto.Rectangle, []xproto.Arc) {
	if r.Empty() {
		return nil, nil
	}
	if !(radius > 0) {
		return []xproto.Rectangle{toXRect(r)}, nil
	}
	rad := int(math.Round(min(radius, float64(min(r.Dx(), r.Dy()))/2, math.MaxUint16/2)))
	if rad <= 0 {
		return []xproto.Rectangle{toXRect(r)}, nil
	}

	d := 2 * rad
	rects := []xproto.Rectangle{
		toXRect(image.Rect(r.Min.X, r.Min.Y+rad, r.Max.X, r.Max.Y-rad)),
		toXRect(image.Rect(r.Min.X+rad, r.Min.Y, r.Max.X-rad, r.Max.Y)),
	}
	corner := func(x, y int) xproto.Arc {
		return xproto.Arc{
			X:      clamp16(x),
			Y:      clamp16(y),
			Width:  uint16(d),
			Height: uint16(d),
			Angle1: 0,
			Angle2: fullCircle,
		}
	}
	arcs := []xproto.Arc{
		corner(r.Min.X, r.Min.Y),
		corner(r.Max.X-d, r.Min.Y),
		corner(r.Min.X, r.Max.Y-d),
		corner(r.Max.X-d, r.Max.Y-d),
	}
	return rects, arcs
}

// latin1 encodes s for an ISO 8859-1 core font. s is composed first so
// accents written as combining marks still map to one byte. Runes outside
// Latin-1 are replaced by '?'.
func latin1(s string) []byte {
	s = norm.NFC.String(s)
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}

// textItems encodes b as PolyText8 items. Each item carries at most
// maxTextItem bytes with a zero delta.
func textItems(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	n := (len(b) + maxTextItem - 1) / maxTextItem
	items := make([]byte, 0, len(b)+2*n)
	for len(b) > 0 {
		chunk := b[:min(len(b), maxTextItem)]
		b = b[len(chunk):]
		items = append(items, byte(len(chunk)), 0)
		items = append(items, chunk...)
	}
	return items
}

// color16 scales an 8-bit channel to the 16-bit range X uses.
func color16(v uint8) uint16 {
	return uint16(v) * 0x101
}

// atomBytes encodes atoms as little-endian 32-bit property data.
func atomBytes(values ...xproto.Atom) []byte {
	b := make([]byte, len(values)*4)
	for i, v := range values {
		b[4*i+0] = uint8(v >> 0)
		b[4*i+1] = uint8(v >> 8)
		b[4*i+2] = uint8(v >> 16)
		b[4*i+3] = uint8(v >> 24)
	}
	return b
}
