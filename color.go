package acure

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit per channel color with straight (non-premultiplied) alpha.
// Channels are stored in alpha, red, green, blue order, matching ARGB.
type Color struct {
	A, R, G, B uint8
}

// ARGB creates a color from alpha, red, green and blue channels.
func ARGB(a, r, g, b uint8) Color {
	return Color{A: a, R: r, G: g, B: b}
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{A: 0xff, R: r, G: g, B: b}
}

// RGBA implements color.Color. The returned values are alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts c to the standard library's straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromColor converts any color.Color to a Color.
func FromColor(c color.Color) Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{A: n.A, R: n.R, G: n.G, B: n.B}
}

// IsOpaque reports whether the color has full alpha.
func (c Color) IsOpaque() bool { return c.A == 0xff }

// IsTransparent reports whether the color has zero alpha.
func (c Color) IsTransparent() bool { return c.A == 0 }

// Over composites c over dst using the Porter-Duff source-over operator.
func (c Color) Over(dst Color) Color {
	switch {
	case c.A == 0xff:
		return c
	case c.A == 0:
		return dst
	}
	sa := uint32(c.A)
	da := uint32(dst.A) * (0xff - sa) / 0xff
	oa := sa + da
	if oa == 0 {
		return Color{}
	}
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*sa + uint32(d)*da) / oa)
	}
	return Color{
		A: uint8(oa),
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
	}
}

// String returns the color in #aarrggbb form.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseColor.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses a hex color. Supported forms are "#rgb", "#rrggbb"
// (both opaque) and "#aarrggbb". The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	alpha := uint8(0xff)
	if len(hex) == 8 {
		var a uint8
		if _, err := fmt.Sscanf(hex[:2], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("acure: invalid color %q: %w", s, err)
		}
		alpha = a
		hex = hex[2:]
	}

	cf, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("acure: invalid color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return Color{A: alpha, R: r, G: g, B: b}, nil
}

// Common colors
var (
	Transparent = ARGB(0, 0, 0, 0)
	Black       = RGB(0, 0, 0)
	White       = RGB(0xff, 0xff, 0xff)
	Red         = RGB(0xff, 0, 0)
	Green       = RGB(0, 0xff, 0)
	Blue        = RGB(0, 0, 0xff)
)

var _ color.Color = Color{}
