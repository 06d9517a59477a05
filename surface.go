package acure

import "fmt"

// Surface is a backend-specific render target driven by Acure.
//
// Acure only sequences calls to a Surface: Begin opens a frame, Clear and
// Command draw into it, End finishes and presents it. A Surface never sees
// the command buffer itself.
//
// # Implementation Contract
//
// Each backend must:
//  1. Accept Clear and Command only between Begin and End
//  2. Handle every Command type, even if drawing nothing for some
//  3. Keep native resources (connections, fonts, textures) to itself
//  4. Register a factory in init() via Register when it can be created
//     from SurfaceOptions alone
//
// Surfaces are not safe for concurrent use. Acure serializes the calls it
// makes; callers that also drive the surface directly must synchronize.
type Surface interface {
	// Resize changes the drawable size in pixels.
	Resize(width, height uint32) error

	// Begin starts a frame. Backends create device resources lazily here.
	Begin() error

	// Clear fills the whole surface with c.
	Clear(c Color)

	// Command draws a single command using the given placement policy.
	Command(cmd Command, align AlignMode, layout LayoutMode)

	// End finishes the frame and presents or flushes it.
	End() error
}

// Named is implemented by surfaces that report their backend name.
// The name is used in BackendError values.
type Named interface {
	Name() string
}

// SurfaceOptions configures a surface created through the registry.
// Backends ignore the fields that do not apply to them.
type SurfaceOptions struct {
	// Width and Height are the drawable size in pixels.
	Width, Height uint32

	// FontSize is the text size in pixels.
	FontSize float64

	// Display is the X11 display name. Empty uses $DISPLAY.
	Display string

	// Window is an existing X11 window id. Zero creates a new window.
	Window uint32

	// Title is the window title for backends that create windows.
	Title string

	// CellWidth and CellHeight are the pixel size of one terminal cell.
	CellWidth, CellHeight int
}

// Default surface option values.
const (
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultFontSize   = 14
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o SurfaceOptions) WithDefaults() SurfaceOptions {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = DefaultCellHeight
	}
	if o.Title == "" {
		o.Title = "acure"
	}
	return o
}

// surfaceName returns the backend name used in errors for s.
func surfaceName(s Surface) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
