// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layout resolves where command content lands inside its box.
// It is shared by every backend that draws text.
package layout

import (
	"image"

	"github.com/gogpu/acure"
)

// Fit returns the box content is drawn in.
//
// With NoCare the box is returned unchanged. With AdjustSize the box grows
// from its origin until it is at least as large as content on both axes.
// Fit never shrinks a box.
func Fit(box image.Rectangle, content image.Point, mode acure.LayoutMode) image.Rectangle {
	if mode != acure.AdjustSize {
		return box
	}
	if box.Dx() < content.X {
		box.Max.X = box.Min.X + content.X
	}
	if box.Dy() < content.Y {
		box.Max.Y = box.Min.Y + content.Y
	}
	return box
}

// Place returns the top-left corner of content aligned inside box.
// Content larger than the box overflows on the far side for edge
// alignments and on both sides when centered.
func Place(box image.Rectangle, content image.Point, align acure.AlignMode) image.Point {
	left := box.Min.X
	right := box.Max.X - content.X
	top := box.Min.Y
	bottom := box.Max.Y - content.Y
	midX := box.Min.X + (box.Dx()-content.X)/2
	midY := box.Min.Y + (box.Dy()-content.Y)/2

	switch align {
	case acure.CenterAligned:
		return image.Pt(midX, midY)
	case acure.RightAligned:
		return image.Pt(right, midY)
	case acure.LeftAligned:
		return image.Pt(left, midY)
	case acure.TopAligned:
		return image.Pt(midX, top)
	case acure.BottomAligned:
		return image.Pt(midX, bottom)
	default:
		return image.Pt(left, top)
	}
}

// Resolve combines Fit and Place. It returns the fitted box, which is also
// the clip rectangle, and the content origin.
func Resolve(box image.Rectangle, content image.Point, align acure.AlignMode, mode acure.LayoutMode) (clip image.Rectangle, origin image.Point) {
	clip = Fit(box, content, mode)
	return clip, Place(clip, content, align)
}
