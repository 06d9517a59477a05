// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/acure"
	"github.com/gogpu/acure/backend/record"
	"github.com/google/go-cmp/cmp"
)

const sample = `
width = 320
height = 200
font_size = 18
background = "#ffffff"
align = "center"
layout = "adjust"

[[command]]
type = "clear"
color = "#000000"

[[command]]
type = "fill_rectangle"
x = 10
y = 20
width = 100
height = 40
radius = 6.5
color = "#80ff0000"

[[command]]
type = "write_string"
x = 10
y = 60
width = 200
height = 20
color = "#00f"
text = "Hello, 世界"
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.Width != 320 || s.Height != 200 || s.FontSize != 18 {
		t.Errorf("size = %dx%d font %v", s.Width, s.Height, s.FontSize)
	}
	if s.Background != acure.White || s.Align != acure.CenterAligned || s.Layout != acure.AdjustSize {
		t.Errorf("settings = %v %v %v", s.Background, s.Align, s.Layout)
	}

	cmds, err := s.Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}
	want := []acure.Command{
		acure.Clear{Color: acure.Black},
		acure.FillRectangle{X: 10, Y: 20, Width: 100, Height: 40, Radius: 6.5, Color: acure.ARGB(0x80, 0xff, 0, 0)},
		acure.WriteString{X: 10, Y: 60, Width: 200, Height: 20, Color: acure.Blue, Text: "Hello, 世界"},
	}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("Commands() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if s.Background != acure.Transparent || s.Align != acure.Flex || s.Layout != acure.NoCare {
		t.Errorf("defaults = %v %v %v", s.Background, s.Align, s.Layout)
	}
	got := s.SurfaceOptions().WithDefaults()
	if got.Width != acure.DefaultWidth || got.Height != acure.DefaultHeight {
		t.Errorf("SurfaceOptions() = %+v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		index   int
	}{
		{
			name:    "unknown type",
			data:    "[[command]]\ntype = \"clear\"\ncolor = \"#000\"\n[[command]]\ntype = \"circle\"\ncolor = \"#000\"\n",
			wantErr: ErrUnknownType,
			index:   1,
		},
		{
			name:    "missing color",
			data:    "[[command]]\ntype = \"fill_rectangle\"\nwidth = 3\n",
			wantErr: ErrMissingColor,
			index:   0,
		},
		{
			name:    "negative radius",
			data:    "[[command]]\ntype = \"fill_rectangle\"\nradius = -1.0\ncolor = \"#000\"\n",
			wantErr: ErrInvalidRadius,
			index:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
			}
			var ce *CommandError
			if !errors.As(err, &ce) || ce.Index != tt.index {
				t.Errorf("error %v does not name command %d", err, tt.index)
			}
		})
	}
}

func TestParseDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "width = "},
		{"unknown key", "depth = 3\n"},
		{"bad color", "background = \"#nothex\"\n"},
		{"bad align", "align = \"diagonal\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil || !strings.HasPrefix(err.Error(), "scene: parse") {
				t.Errorf("Parse(%q) error = %v, want parse error", tt.data, err)
			}
		})
	}
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Index: 2, Type: "circle", Err: ErrUnknownType}
	if got, want := err.Error(), `scene: command 2 ("circle"): unknown command type`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.toml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Command) != 3 {
		t.Errorf("loaded %d commands, want 3", len(s.Command))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[[command]]\ntype = \"blur\"\ncolor = \"#000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("Load(bad) error = %v, want path in message", err)
	}
}

func TestApply(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	a := acure.New()
	a.Push(acure.Clear{Color: acure.Green})
	if err := s.Apply(a); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}

	rec := record.New(s.SurfaceOptions())
	if err := a.Begin(rec); err != nil {
		t.Fatal(err)
	}
	if err := a.Write(rec); err != nil {
		t.Fatal(err)
	}

	frame := rec.LastFrame()
	if frame[1].Op != record.OpClear || frame[1].Color != acure.White {
		t.Errorf("frame cleared with %v, want white background", frame[1])
	}
	for _, ev := range frame {
		if ev.Op == record.OpCommand && (ev.Align != acure.CenterAligned || ev.Layout != acure.AdjustSize) {
			t.Errorf("command sent with %v/%v", ev.Align, ev.Layout)
		}
	}
}

func TestApplyResetsModes(t *testing.T) {
	s := &Scene{
		Background: acure.Black,
		Command:    []Command{{Type: TypeClear, Color: &acure.Red}},
	}
	a := acure.New(acure.WithBackground(acure.White), acure.WithAlignMode(acure.RightAligned), acure.WithLayoutMode(acure.AdjustSize))
	a.Push(acure.Clear{Color: acure.Green}, acure.Clear{Color: acure.Green})

	if err := s.Apply(a); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]acure.Command{acure.Clear{Color: acure.Red}}, a.Commands()); diff != "" {
		t.Errorf("Commands() mismatch (-want +got):\n%s", diff)
	}
	if a.BackgroundColor() != acure.Black || a.AlignMode() != acure.Flex || a.LayoutMode() != acure.NoCare {
		t.Errorf("settings = %v/%v/%v", a.BackgroundColor(), a.AlignMode(), a.LayoutMode())
	}
}

func TestApplyInvalidLeavesBuffer(t *testing.T) {
	s := &Scene{
		Background: acure.Red,
		Command:    []Command{{Type: "nope"}},
	}
	a := acure.New()
	a.Push(acure.Clear{Color: acure.Green})

	if err := s.Apply(a); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("Apply() error = %v, want ErrUnknownType", err)
	}
	if a.Len() != 1 || a.BackgroundColor() != acure.Transparent {
		t.Errorf("failed Apply changed the buffer or settings")
	}
}
