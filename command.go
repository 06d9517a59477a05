package acure

import "image"

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdClear         CommandType = iota // Fill the whole surface with a color
	CmdFillRectangle                    // Fill an optionally rounded rectangle
	CmdWriteString                      // Draw a string inside a box
)

var commandTypeNames = [...]string{
	CmdClear:         "Clear",
	CmdFillRectangle: "FillRectangle",
	CmdWriteString:   "WriteString",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one buffered drawing instruction.
//
// The set of commands is closed: Clear, FillRectangle and WriteString are the
// only implementations. Backends switch on the concrete type.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	command()
}

// Clear fills the entire surface with Color.
type Clear struct {
	Color Color
}

// Type implements Command.
func (Clear) Type() CommandType { return CmdClear }

func (Clear) command() {}

// FillRectangle fills the rectangle at (X, Y) of size Width x Height.
// A positive Radius rounds the corners.
type FillRectangle struct {
	X, Y          uint32
	Width, Height uint32
	Radius        float64
	Color         Color
}

// Type implements Command.
func (FillRectangle) Type() CommandType { return CmdFillRectangle }

func (FillRectangle) command() {}

// Bounds returns the rectangle in pixel coordinates.
func (f FillRectangle) Bounds() image.Rectangle {
	return rect(f.X, f.Y, f.Width, f.Height)
}

// WriteString draws Text inside the box at (X, Y) of size Width x Height.
// Placement within the box follows the AlignMode and LayoutMode that the
// command is replayed with.
type WriteString struct {
	X, Y          uint32
	Width, Height uint32
	Color         Color
	Text          string
}

// Type implements Command.
func (WriteString) Type() CommandType { return CmdWriteString }

func (WriteString) command() {}

// Bounds returns the text box in pixel coordinates.
func (w WriteString) Bounds() image.Rectangle {
	return rect(w.X, w.Y, w.Width, w.Height)
}

func rect(x, y, w, h uint32) image.Rectangle {
	return image.Rect(int(x), int(y), int(x)+int(w), int(y)+int(h))
}
