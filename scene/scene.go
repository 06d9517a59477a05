// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scene loads frame descriptions from TOML files.
//
// A scene file carries the surface size, the Acure settings and the command
// list of one frame:
//
//	width = 320
//	height = 200
//	background = "#ffffff"
//	align = "center"
//	layout = "adjust"
//
//	[[command]]
//	type = "fill_rectangle"
//	x = 10
//	y = 10
//	width = 100
//	height = 40
//	radius = 6
//	color = "#ff0000"
//
//	[[command]]
//	type = "write_string"
//	x = 10
//	y = 60
//	width = 200
//	height = 20
//	color = "#000000"
//	text = "Hello"
//
// Colors use the forms accepted by acure.ParseColor. Align and layout use the
// names printed by acure.AlignMode and acure.LayoutMode.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/gogpu/acure"
	"github.com/pelletier/go-toml/v2"
)

// Command type names used in scene files.
const (
	TypeClear         = "clear"
	TypeFillRectangle = "fill_rectangle"
	TypeWriteString   = "write_string"
)

// Validation errors, wrapped in a *CommandError.
var (
	ErrUnknownType   = errors.New("unknown command type")
	ErrMissingColor  = errors.New("missing color")
	ErrInvalidRadius = errors.New("radius must be a finite non-negative number")
)

// Scene is one frame loaded from a scene file.
type Scene struct {
	Width      uint32           `toml:"width"`
	Height     uint32           `toml:"height"`
	FontSize   float64          `toml:"font_size"`
	Background acure.Color      `toml:"background"`
	Align      acure.AlignMode  `toml:"align"`
	Layout     acure.LayoutMode `toml:"layout"`
	Command    []Command        `toml:"command"`
}

// Command is a command entry as written in a scene file.
// Fields that do not apply to Type are ignored.
type Command struct {
	Type   string       `toml:"type"`
	X      uint32       `toml:"x"`
	Y      uint32       `toml:"y"`
	Width  uint32       `toml:"width"`
	Height uint32       `toml:"height"`
	Radius float64      `toml:"radius"`
	Color  *acure.Color `toml:"color"`
	Text   string       `toml:"text"`
}

// CommandError reports an invalid entry of the command list.
type CommandError struct {
	// Index is the zero-based position in the command list.
	Index int
	// Type is the entry's type field as written.
	Type string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("scene: command %d (%q): %v", e.Index, e.Type, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse parses and validates scene data. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every command entry.
func (s *Scene) Validate() error {
	for i, c := range s.Command {
		if _, err := c.toCommand(); err != nil {
			return &CommandError{Index: i, Type: c.Type, Err: err}
		}
	}
	return nil
}

// Commands converts the command list to acure commands in file order.
func (s *Scene) Commands() ([]acure.Command, error) {
	cmds := make([]acure.Command, 0, len(s.Command))
	for i, c := range s.Command {
		cmd, err := c.toCommand()
		if err != nil {
			return nil, &CommandError{Index: i, Type: c.Type, Err: err}
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// SurfaceOptions returns the surface size and font size of the scene.
// Zero values are left for acure.SurfaceOptions.WithDefaults to fill.
func (s *Scene) SurfaceOptions() acure.SurfaceOptions {
	return acure.SurfaceOptions{
		Width:    s.Width,
		Height:   s.Height,
		FontSize: s.FontSize,
	}
}

// Apply copies the scene settings into a and replaces its buffer with the
// scene's commands. On error a is left unchanged.
func (s *Scene) Apply(a *acure.Acure) error {
	cmds, err := s.Commands()
	if err != nil {
		return err
	}
	a.Replace(cmds,
		acure.WithBackground(s.Background),
		acure.WithAlignMode(s.Align),
		acure.WithLayoutMode(s.Layout))
	return nil
}

func (c Command) toCommand() (acure.Command, error) {
	switch c.Type {
	case TypeClear, TypeFillRectangle, TypeWriteString:
	default:
		return nil, ErrUnknownType
	}
	if c.Color == nil {
		return nil, ErrMissingColor
	}

	switch c.Type {
	case TypeClear:
		return acure.Clear{Color: *c.Color}, nil
	case TypeFillRectangle:
		if c.Radius < 0 || math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) {
			return nil, ErrInvalidRadius
		}
		return acure.FillRectangle{
			X:      c.X,
			Y:      c.Y,
			Width:  c.Width,
			Height: c.Height,
			Radius: c.Radius,
			Color:  *c.Color,
		}, nil
	default:
		return acure.WriteString{
			X:      c.X,
			Y:      c.Y,
			Width:  c.Width,
			Height: c.Height,
			Color:  *c.Color,
			Text:   c.Text,
		}, nil
	}
}
