// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package x11 provides a surface that draws into an X11 window with core
// protocol requests.
//
// The surface either creates and maps its own top-level window or draws
// into an existing one (SurfaceOptions.Window). Rectangles are filled with
// PolyFillRectangle, rounded corners with PolyFillArc, and text uses the
// server's "fixed" core font clipped to the command box.
//
// The core protocol has no alpha: fully transparent commands are skipped
// and every other color is drawn opaque.
package x11

import (
	"errors"
	"fmt"
	"image"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/gogpu/acure"
	"github.com/gogpu/acure/internal/layout"
)

// Name is the registry name of the X11 backend.
const Name = "x11"

// FontName is the core font used for text.
const FontName = "fixed"

func init() {
	acure.Register(Name, func(opts acure.SurfaceOptions) (acure.Surface, error) {
		return New(opts)
	})
}

// ErrClosed is returned by Begin and End after Close.
var ErrClosed = errors.New("x11: surface is closed")

// Surface draws into an X11 window.
type Surface struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	win    xproto.Window
	gc     xproto.Gcontext
	font   xproto.Font

	ownsWindow bool
	ownsConn   bool
	closed     bool

	wmProtocols, wmDelete xproto.Atom

	width, height uint32

	ascent, descent, charWidth int

	pixels map[acure.Color]uint32
	fg     uint32
	fgSet  bool
}

// Ensure Surface implements the interfaces it advertises.
var (
	_ acure.Surface = (*Surface)(nil)
	_ acure.Named   = (*Surface)(nil)
)

// New connects to opts.Display (or $DISPLAY) and creates a surface.
// The connection is closed by Close.
func New(opts acure.SurfaceOptions) (*Surface, error) {
	conn, err := xgb.NewConnDisplay(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("x11: connect to display %q: %w", opts.Display, err)
	}

	s, err := NewWithConn(conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	s.ownsConn = true
	return s, nil
}

// NewWithConn creates a surface on an open connection. If opts.Window is
// zero a new window is created and mapped, otherwise the surface draws into
// that window. The caller keeps ownership of conn.
func NewWithConn(conn *xgb.Conn, opts acure.SurfaceOptions) (*Surface, error) {
	opts = opts.WithDefaults()

	s := &Surface{
		conn:   conn,
		screen: xproto.Setup(conn).DefaultScreen(conn),
		width:  opts.Width,
		height: opts.Height,
		pixels: make(map[acure.Color]uint32),
	}

	if opts.Window != 0 {
		s.win = xproto.Window(opts.Window)
		geom, err := xproto.GetGeometry(conn, xproto.Drawable(s.win)).Reply()
		if err != nil {
			return nil, fmt.Errorf("x11: query window 0x%x: %w", opts.Window, err)
		}
		s.width, s.height = uint32(geom.Width), uint32(geom.Height)
	} else if err := s.createWindow(opts.Title); err != nil {
		return nil, err
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return nil, fmt.Errorf("x11: allocate gc id: %w", err)
	}
	s.gc = gc
	xproto.CreateGC(conn, gc, xproto.Drawable(s.win), 0, nil)

	if err := s.openFont(); err != nil {
		xproto.FreeGC(conn, gc)
		if s.ownsWindow {
			xproto.DestroyWindow(conn, s.win)
		}
		return nil, err
	}

	acure.Logger().Info("x11: surface ready",
		"window", uint32(s.win),
		"width", s.width,
		"height", s.height,
		"owned", s.ownsWindow)
	return s, nil
}

func (s *Surface) createWindow(title string) error {
	win, err := xproto.NewWindowId(s.conn)
	if err != nil {
		return fmt.Errorf("x11: allocate window id: %w", err)
	}

	xproto.CreateWindow(s.conn, s.screen.RootDepth, win, s.screen.Root,
		0, 0, uint16(s.width), uint16(s.height), 0,
		xproto.WindowClassInputOutput, s.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			s.screen.BlackPixel,
			xproto.EventMaskExposure | xproto.EventMaskStructureNotify,
		},
	)

	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, win,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(title)), []byte(title))

	protocols, err := s.internAtom("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	deleteWindow, err := s.internAtom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, win,
		protocols, xproto.AtomAtom, 32, 1, atomBytes(deleteWindow))

	xproto.MapWindow(s.conn, win)

	s.win = win
	s.wmProtocols, s.wmDelete = protocols, deleteWindow
	s.ownsWindow = true
	return nil
}

func (s *Surface) internAtom(name string) (xproto.Atom, error) {
	r, err := xproto.InternAtom(s.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("x11: intern atom %s: %w", name, err)
	}
	if r == nil {
		return 0, fmt.Errorf("x11: intern atom %s: no reply", name)
	}
	return r.Atom, nil
}

func (s *Surface) openFont() error {
	font, err := xproto.NewFontId(s.conn)
	if err != nil {
		return fmt.Errorf("x11: allocate font id: %w", err)
	}
	if err := xproto.OpenFontChecked(s.conn, font, uint16(len(FontName)), FontName).Check(); err != nil {
		return fmt.Errorf("x11: open font %q: %w", FontName, err)
	}

	info, err := xproto.QueryFont(s.conn, xproto.Fontable(font)).Reply()
	if err != nil {
		xproto.CloseFont(s.conn, font)
		return fmt.Errorf("x11: query font %q: %w", FontName, err)
	}

	s.font = font
	s.ascent = int(info.FontAscent)
	s.descent = int(info.FontDescent)
	s.charWidth = int(info.MaxBounds.CharacterWidth)
	xproto.ChangeGC(s.conn, s.gc, xproto.GcFont, []uint32{uint32(font)})
	return nil
}

// Name implements acure.Named.
func (s *Surface) Name() string { return Name }

// Window returns the window the surface draws into.
func (s *Surface) Window() uint32 { return uint32(s.win) }

// Conn returns the X connection, for event handling.
func (s *Surface) Conn() *xgb.Conn { return s.conn }

// Size returns the drawable size in pixels.
func (s *Surface) Size() (width, height uint32) { return s.width, s.height }

// Resize resizes the window.
func (s *Surface) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("x11: invalid size %dx%d", width, height)
	}
	xproto.ConfigureWindow(s.conn, s.win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{width, height})
	s.width, s.height = width, height
	return nil
}

// Begin starts a frame.
func (s *Surface) Begin() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Clear fills the window with c. Alpha is ignored.
func (s *Surface) Clear(c acure.Color) {
	s.setForeground(c)
	xproto.PolyFillRectangle(s.conn, xproto.Drawable(s.win), s.gc, []xproto.Rectangle{
		toXRect(image.Rect(0, 0, int(s.width), int(s.height))),
	})
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

// End flushes queued requests and waits for the server to process them.
func (s *Surface) End() error {
	if s.closed {
		return ErrClosed
	}
	if _, err := xproto.GetInputFocus(s.conn).Reply(); err != nil {
		return fmt.Errorf("x11: sync: %w", err)
	}
	return nil
}

// Close frees server resources. The window is destroyed only if the surface
// created it, and the connection is closed only if New opened it.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	xproto.CloseFont(s.conn, s.font)
	xproto.FreeGC(s.conn, s.gc)
	if s.ownsWindow {
		xproto.DestroyWindow(s.conn, s.win)
	}
	if s.ownsConn {
		s.conn.Close()
	}
	return nil
}

func (s *Surface) fillRectangle(c acure.FillRectangle) {
	if c.Color.IsTransparent() {
		return
	}
	rects, arcs := roundedRect(c.Bounds(), c.Radius)
	if len(rects) == 0 {
		return
	}

	s.setForeground(c.Color)
	d := xproto.Drawable(s.win)
	xproto.PolyFillRectangle(s.conn, d, s.gc, rects)
	if len(arcs) > 0 {
		xproto.PolyFillArc(s.conn, d, s.gc, arcs)
	}
}

func (s *Surface) writeString(c acure.WriteString, align acure.AlignMode, mode acure.LayoutMode) {
	if c.Text == "" || c.Color.IsTransparent() {
		return
	}
	text := latin1(c.Text)

	content := image.Pt(len(text)*s.charWidth, s.ascent+s.descent)
	clip, origin := layout.Resolve(c.Bounds(), content, align, mode)
	if clip.Empty() {
		return
	}

	s.setForeground(c.Color)
	xproto.SetClipRectangles(s.conn, xproto.ClipOrderingUnsorted, s.gc, 0, 0,
		[]xproto.Rectangle{toXRect(clip)})
	xproto.PolyText8(s.conn, xproto.Drawable(s.win), s.gc,
		clamp16(origin.X), clamp16(origin.Y+s.ascent), textItems(text))
	xproto.ChangeGC(s.conn, s.gc, xproto.GcClipMask, []uint32{xproto.PixmapNone})
}

// setForeground sets the GC foreground to c, allocating the pixel once per
// color.
func (s *Surface) setForeground(c acure.Color) {
	c.A = 0xff
	pixel, ok := s.pixels[c]
	if !ok {
		pixel = s.allocPixel(c)
		s.pixels[c] = pixel
	}
	if s.fgSet && s.fg == pixel {
		return
	}
	xproto.ChangeGC(s.conn, s.gc, xproto.GcForeground, []uint32{pixel})
	s.fg, s.fgSet = pixel, true
}

func (s *Surface) allocPixel(c acure.Color) uint32 {
	reply, err := xproto.AllocColor(s.conn, s.screen.DefaultColormap,
		color16(c.R), color16(c.G), color16(c.B)).Reply()
	if err != nil {
		acure.Logger().Warn("x11: color allocation failed, using black", "color", c, "err", err)
		return s.screen.BlackPixel
	}
	return reply.Pixel
}
