// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package term provides a surface that draws into terminal cells through
// tcell.
//
// Pixel coordinates are mapped onto a cell grid where each cell stands for
// CellWidth x CellHeight pixels. A cell belongs to a rectangle when the
// cell's center lies inside it. Rectangles paint cell backgrounds, text
// paints runes in the foreground. Corner radii are ignored.
//
// Drawing goes into an in-memory cell buffer that is flushed to the screen
// in End, so a frame is shown at once.
package term

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/acure"
	"github.com/gogpu/acure/internal/layout"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Name is the registry name of the terminal backend.
const Name = "term"

func init() {
	acure.Register(Name, func(opts acure.SurfaceOptions) (acure.Surface, error) {
		return New(opts)
	})
}

// ErrClosed is returned by Begin and End after Close.
var ErrClosed = errors.New("term: surface is closed")

// Cell is the content of one terminal cell.
type Cell struct {
	Rune rune // 0 for an empty cell
	Fg   acure.Color
	Bg   acure.Color

	// wide marks the second column of a double-width rune.
	wide bool
}

// Surface draws into a tcell.Screen.
type Surface struct {
	mu     sync.Mutex
	screen tcell.Screen
	owned  bool

	cellW, cellH int
	cols, rows   int
	cells        []Cell

	closed bool
}

// Ensure Surface implements the interfaces it advertises.
var (
	_ acure.Surface = (*Surface)(nil)
	_ acure.Named   = (*Surface)(nil)
)

// New opens the controlling terminal and creates a surface covering it.
// The terminal is restored by Close.
func New(opts acure.SurfaceOptions) (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("term: init terminal: %w", err)
	}

	s := NewWithScreen(screen, opts)
	s.owned = true
	return s, nil
}

// NewWithScreen creates a surface on an initialized screen. The grid
// follows the screen size. The caller keeps ownership of screen.
func NewWithScreen(screen tcell.Screen, opts acure.SurfaceOptions) *Surface {
	opts = opts.WithDefaults()
	cols, rows := screen.Size()

	s := &Surface{
		screen: screen,
		cellW:  opts.CellWidth,
		cellH:  opts.CellHeight,
	}
	s.resizeGrid(cols, rows)
	return s
}

// Name implements acure.Named.
func (s *Surface) Name() string { return Name }

// Screen returns the underlying screen, for event polling.
func (s *Surface) Screen() tcell.Screen { return s.screen }

// Grid returns the size of the cell grid.
func (s *Surface) Grid() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

// PixelSize returns the grid size in pixels.
func (s *Surface) PixelSize() (width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint32(s.cols * s.cellW), uint32(s.rows * s.cellH)
}

// Cell returns the buffered content of the cell at (col, row).
func (s *Surface) Cell(col, row int) Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return Cell{}
	}
	return s.cells[row*s.cols+col]
}

// Resize sets the grid to cover width x height pixels. Content is
// discarded.
func (s *Surface) Resize(width, height uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeGrid(int(width)/s.cellW, int(height)/s.cellH)
	acure.Logger().Debug("term: resized", "cols", s.cols, "rows", s.rows)
	return nil
}

// Begin starts a frame.
func (s *Surface) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Clear resets every cell to an empty cell with background c.
func (s *Surface) Clear(c acure.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		s.cells[i] = Cell{Bg: c}
	}
}

// Command draws a single command into the cell buffer.
func (s *Surface) Command(cmd acure.Command, align acure.AlignMode, mode acure.LayoutMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c := cmd.(type) {
	case acure.Clear:
		for i := range s.cells {
			s.cells[i] = Cell{Bg: c.Color}
		}
	case acure.FillRectangle:
		s.fillRectangle(c)
	case acure.WriteString:
		s.writeString(c, align, mode)
	}
}

// End flushes the cell buffer to the screen and shows it.
func (s *Surface) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	sw, sh := s.screen.Size()
	for row := 0; row < min(s.rows, sh); row++ {
		for col := 0; col < min(s.cols, sw); col++ {
			cell := s.cells[row*s.cols+col]
			if cell.wide {
				continue
			}
			ch := cell.Rune
			if ch == 0 {
				ch = ' '
			}
			s.screen.SetContent(col, row, ch, nil, Style(cell))
		}
	}
	s.screen.Show()
	return nil
}

// Close restores the terminal if the surface opened it.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.owned {
		s.screen.Fini()
	}
	return nil
}

// Style returns the tcell style a cell is shown with. Transparent colors
// map to the terminal default.
func Style(c Cell) tcell.Style {
	return tcell.StyleDefault.Foreground(toTcell(c.Fg)).Background(toTcell(c.Bg))
}

func toTcell(c acure.Color) tcell.Color {
	if c.IsTransparent() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (s *Surface) resizeGrid(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	s.cols, s.rows = cols, rows
	s.cells = make([]Cell, cols*rows)
}

// cellRect returns the cells whose centers lie inside the pixel rectangle r.
func (s *Surface) cellRect(r image.Rectangle) image.Rectangle {
	cr := image.Rect(
		ceilDiv(r.Min.X*2-s.cellW, 2*s.cellW),
		ceilDiv(r.Min.Y*2-s.cellH, 2*s.cellH),
		ceilDiv(r.Max.X*2-s.cellW, 2*s.cellW),
		ceilDiv(r.Max.Y*2-s.cellH, 2*s.cellH),
	)
	return cr.Intersect(image.Rect(0, 0, s.cols, s.rows))
}

func (s *Surface) fillRectangle(c acure.FillRectangle) {
	if c.Color.IsTransparent() {
		return
	}
	cr := s.cellRect(c.Bounds())
	for row := cr.Min.Y; row < cr.Max.Y; row++ {
		for col := cr.Min.X; col < cr.Max.X; col++ {
			cell := &s.cells[row*s.cols+col]
			cell.Bg = c.Color.Over(cell.Bg)
		}
	}
}

func (s *Surface) writeString(c acure.WriteString, align acure.AlignMode, mode acure.LayoutMode) {
	if c.Text == "" || c.Color.IsTransparent() {
		return
	}

	text := norm.NFC.String(c.Text)
	content := image.Pt(runewidth.StringWidth(text)*s.cellW, s.cellH)
	clip, origin := layout.Resolve(c.Bounds(), content, align, mode)
	cr := s.cellRect(clip)
	if cr.Empty() {
		return
	}

	col := roundDiv(origin.X, s.cellW)
	row := roundDiv(origin.Y, s.cellH)
	if row < cr.Min.Y || row >= cr.Max.Y {
		return
	}

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= cr.Min.X && col+w <= cr.Max.X {
			cell := &s.cells[row*s.cols+col]
			cell.Rune = r
			cell.Fg = c.Color.Over(cell.Bg)
			cell.wide = false
			if w == 2 {
				next := &s.cells[row*s.cols+col+1]
				next.Rune = 0
				next.wide = true
			}
		}
		col += w
	}
}

// ceilDiv divides rounding toward positive infinity. b must be positive.
func ceilDiv(a, b int) int {
	if a >= 0 {
		return (a + b - 1) / b
	}
	return -((-a) / b)
}

// roundDiv divides rounding to the nearest integer. b must be positive.
func roundDiv(a, b int) int {
	if a >= 0 {
		return (a + b/2) / b
	}
	return -((-a + b/2) / b)
}
