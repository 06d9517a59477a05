package acure

import (
	"sync"
)

// sessionState is the two-state drawing session flag.
type sessionState uint8

const (
	stateEnd sessionState = iota
	stateBegin
)

func (s sessionState) String() string {
	if s == stateBegin {
		return "begin"
	}
	return "end"
}

// Acure is a retained command buffer with a begin/write session.
//
// Commands are pushed in paint order at any time. A frame is drawn by
// calling Begin, then Write: Write clears the surface with the background
// color, replays every buffered command, ends the frame and closes the
// session. The buffer is kept between frames until Clear is called.
//
// Example:
//
//	a := acure.New(acure.WithBackground(acure.White))
//	a.Push(acure.FillRectangle{X: 10, Y: 10, Width: 100, Height: 40, Color: acure.Red})
//	if err := a.Begin(surface); err != nil {
//	    return err
//	}
//	if err := a.Write(surface); err != nil {
//	    return err
//	}
//
// Acure is safe for concurrent use. Calls into the Surface are serialized
// by the same lock that guards the buffer.
type Acure struct {
	mu         sync.Mutex
	buffer     []Command
	background Color
	align      AlignMode
	layout     LayoutMode
	state      sessionState
}

// New creates an Acure with an empty buffer and no active session.
// Without options the background is transparent, alignment is Flex and the
// layout mode is NoCare.
func New(opts ...Option) *Acure {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Acure{
		buffer:     make([]Command, 0, o.capacity),
		background: o.background,
		align:      o.align,
		layout:     o.layout,
		state:      stateEnd,
	}
}

// SetBackgroundColor sets the color every frame is cleared with.
func (a *Acure) SetBackgroundColor(c Color) {
	a.mu.Lock()
	a.background = c
	a.mu.Unlock()
}

// BackgroundColor returns the current background color.
func (a *Acure) BackgroundColor() Color {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.background
}

// SetAlignMode sets the alignment passed to the surface with each command.
func (a *Acure) SetAlignMode(mode AlignMode) {
	a.mu.Lock()
	a.align = mode
	a.mu.Unlock()
}

// AlignMode returns the current alignment mode.
func (a *Acure) AlignMode() AlignMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.align
}

// SetLayoutMode sets the layout mode passed to the surface with each command.
func (a *Acure) SetLayoutMode(mode LayoutMode) {
	a.mu.Lock()
	a.layout = mode
	a.mu.Unlock()
}

// LayoutMode returns the current layout mode.
func (a *Acure) LayoutMode() LayoutMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.layout
}

// Clear empties the command buffer. It is legal in any session state.
func (a *Acure) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.buffer) == 0 {
		return
	}
	clear(a.buffer)
	a.buffer = a.buffer[:0]
}

// Replace swaps the whole buffer for cmds and applies opts to the frame
// settings in one step, so a concurrent Write sees either the old frame or
// the new one. Settings the options leave alone keep their value. Nil
// commands are skipped; WithCapacity is ignored.
func (a *Acure) Replace(cmds []Command, opts ...Option) {
	a.mu.Lock()
	defer a.mu.Unlock()

	o := options{background: a.background, align: a.align, layout: a.layout}
	for _, opt := range opts {
		opt(&o)
	}
	a.background, a.align, a.layout = o.background, o.align, o.layout

	clear(a.buffer)
	a.buffer = a.buffer[:0]
	for _, cmd := range cmds {
		if cmd != nil {
			a.buffer = append(a.buffer, cmd)
		}
	}
}

// Begin opens a drawing session and notifies the surface.
//
// If the surface fails to begin, the session stays closed and the failure
// is returned as a *BackendError.
func (a *Acure) Begin(s Surface) error {
	if s == nil {
		return ErrNilSurface
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := s.Begin(); err != nil {
		surfaceLogger(s).Warn("acure: surface begin failed", "err", err)
		return NewBackendError(surfaceName(s), "begin", err)
	}
	a.state = stateBegin
	return nil
}

// Push appends commands to the tail of the buffer. It is legal in any
// session state. Nil commands are skipped.
func (a *Acure) Push(cmds ...Command) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		a.buffer = append(a.buffer, cmd)
	}
}

// Write replays the buffer to the surface and closes the session.
//
// Write returns ErrUnauthorizedOperation, and changes nothing, unless Begin
// was called first. Otherwise it clears the surface with the background
// color, sends every buffered command in push order, and ends the frame.
// The session is closed even if the surface fails to end the frame; that
// failure is returned as a *BackendError.
func (a *Acure) Write(s Surface) error {
	if s == nil {
		return ErrNilSurface
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != stateBegin {
		return ErrUnauthorizedOperation
	}

	s.Clear(a.background)
	for _, cmd := range a.buffer {
		s.Command(cmd, a.align, a.layout)
	}

	err := s.End()
	a.state = stateEnd

	log := surfaceLogger(s)
	log.Debug("acure: frame written",
		"commands", len(a.buffer),
		"align", a.align,
		"layout", a.layout)

	if err != nil {
		log.Warn("acure: surface end failed", "err", err)
		return NewBackendError(surfaceName(s), "end", err)
	}
	return nil
}

// IsEmpty reports whether the buffer holds no commands.
func (a *Acure) IsEmpty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffer) == 0
}

// Len returns the number of buffered commands.
func (a *Acure) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffer)
}

// Commands returns a copy of the buffered commands in push order.
func (a *Acure) Commands() []Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Command, len(a.buffer))
	copy(out, a.buffer)
	return out
}

// InSession reports whether Begin has been called without a matching Write.
func (a *Acure) InSession() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == stateBegin
}
