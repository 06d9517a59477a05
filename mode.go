package acure

import (
	"fmt"
	"strings"
)

// AlignMode controls where content is placed inside its box.
type AlignMode uint8

const (
	// Flex places content at the top-left corner of its box.
	Flex AlignMode = iota
	// CenterAligned centers content on both axes.
	CenterAligned
	// RightAligned places content against the right edge, vertically centered.
	RightAligned
	// LeftAligned places content against the left edge, vertically centered.
	LeftAligned
	// TopAligned places content against the top edge, horizontally centered.
	TopAligned
	// BottomAligned places content against the bottom edge, horizontally centered.
	BottomAligned
)

var alignModeNames = [...]string{
	Flex:          "flex",
	CenterAligned: "center",
	RightAligned:  "right",
	LeftAligned:   "left",
	TopAligned:    "top",
	BottomAligned: "bottom",
}

// String returns the lower-case name of the mode.
func (m AlignMode) String() string {
	if int(m) < len(alignModeNames) {
		return alignModeNames[m]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m AlignMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AlignMode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range alignModeNames {
		if s == name {
			*m = AlignMode(i)
			return nil
		}
	}
	return fmt.Errorf("acure: unknown align mode %q", string(text))
}

// LayoutMode controls whether a box may be resized to fit its content.
type LayoutMode uint8

const (
	// NoCare keeps the box as given; content that overflows is clipped.
	NoCare LayoutMode = iota
	// AdjustSize grows the box from its origin until the content fits.
	AdjustSize
)

var layoutModeNames = [...]string{
	NoCare:     "nocare",
	AdjustSize: "adjust",
}

// String returns the lower-case name of the mode.
func (m LayoutMode) String() string {
	if int(m) < len(layoutModeNames) {
		return layoutModeNames[m]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m LayoutMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LayoutMode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range layoutModeNames {
		if s == name {
			*m = LayoutMode(i)
			return nil
		}
	}
	return fmt.Errorf("acure: unknown layout mode %q", string(text))
}
