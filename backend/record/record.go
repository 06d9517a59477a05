// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package record provides a surface that captures every call it receives
// instead of drawing.
//
// Recorded events are inspectable, which makes the surface useful for tests
// and dry runs, and can be replayed onto any other acure.Surface.
//
// # Example
//
//	rec := record.New(acure.SurfaceOptions{Width: 800, Height: 600})
//	_ = a.Begin(rec)
//	_ = a.Write(rec)
//
//	for _, ev := range rec.Events() {
//	    fmt.Println(ev)
//	}
//
//	// Replay the last frame to a real backend
//	_ = rec.Replay(rasterSurface)
package record

import (
	"fmt"
	"sync"

	"github.com/gogpu/acure"
)

// Name is the registry name of the record backend.
const Name = "record"

func init() {
	acure.Register(Name, func(opts acure.SurfaceOptions) (acure.Surface, error) {
		return New(opts), nil
	})
}

// Op identifies the surface method that produced an Event.
type Op uint8

const (
	OpResize  Op = iota // Resize(width, height)
	OpBegin             // Begin()
	OpClear             // Clear(color)
	OpCommand           // Command(cmd, align, layout)
	OpEnd               // End()
)

// opNames maps Op values to their string representation.
var opNames = [...]string{
	OpResize:  "Resize",
	OpBegin:   "Begin",
	OpClear:   "Clear",
	OpCommand: "Command",
	OpEnd:     "End",
}

// String returns the method name.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// Event is one recorded surface call. Only the fields relevant to Op are set.
type Event struct {
	Op Op

	// Clear
	Color acure.Color

	// Command
	Command acure.Command
	Align   acure.AlignMode
	Layout  acure.LayoutMode

	// Resize
	Width, Height uint32
}

// String returns a compact description of the event.
func (e Event) String() string {
	switch e.Op {
	case OpResize:
		return fmt.Sprintf("Resize(%d, %d)", e.Width, e.Height)
	case OpClear:
		return fmt.Sprintf("Clear(%v)", e.Color)
	case OpCommand:
		return fmt.Sprintf("Command(%v, %v, %v)", e.Command.Type(), e.Align, e.Layout)
	default:
		return e.Op.String() + "()"
	}
}

// Surface records calls. It is safe for concurrent use.
type Surface struct {
	mu     sync.Mutex
	events []Event
	width  uint32
	height uint32
	open   bool
	frames int
	last   []Event // events of the last completed frame

	beginErr error
	endErr   error
}

// Ensure Surface implements the interfaces it advertises.
var (
	_ acure.Surface = (*Surface)(nil)
	_ acure.Named   = (*Surface)(nil)
)

// New creates a record surface. Zero option fields take acure defaults.
func New(opts acure.SurfaceOptions) *Surface {
	opts = opts.WithDefaults()
	return &Surface{
		events: make([]Event, 0, 64),
		width:  opts.Width,
		height: opts.Height,
	}
}

// Name implements acure.Named.
func (s *Surface) Name() string { return Name }

// FailBegin makes subsequent Begin calls return err. Pass nil to clear.
func (s *Surface) FailBegin(err error) {
	s.mu.Lock()
	s.beginErr = err
	s.mu.Unlock()
}

// FailEnd makes subsequent End calls return err. Pass nil to clear.
func (s *Surface) FailEnd(err error) {
	s.mu.Lock()
	s.endErr = err
	s.mu.Unlock()
}

// Resize records the new size.
func (s *Surface) Resize(width, height uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.events = append(s.events, Event{Op: OpResize, Width: width, Height: height})
	return nil
}

// Begin records the start of a frame. A failing Begin is still recorded.
func (s *Surface) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Op: OpBegin})
	if s.beginErr != nil {
		return s.beginErr
	}
	s.open = true
	return nil
}

// Clear records a clear.
func (s *Surface) Clear(c acure.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Op: OpClear, Color: c})
}

// Command records a command with its placement policy.
func (s *Surface) Command(cmd acure.Command, align acure.AlignMode, layout acure.LayoutMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Op: OpCommand, Command: cmd, Align: align, Layout: layout})
}

// End records the end of a frame. The frame counts as completed even when
// End is configured to fail.
func (s *Surface) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Op: OpEnd})
	s.open = false
	s.frames++
	s.last = lastFrame(s.events)
	return s.endErr
}

// Events returns a copy of every recorded event in call order.
func (s *Surface) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// LastFrame returns the events from the most recent Begin up to and
// including its End, or nil if no frame has completed.
func (s *Surface) LastFrame() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	out := make([]Event, len(s.last))
	copy(out, s.last)
	return out
}

// Commands returns the commands drawn in the last completed frame.
func (s *Surface) Commands() []acure.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []acure.Command
	for _, ev := range s.last {
		if ev.Op == OpCommand {
			out = append(out, ev.Command)
		}
	}
	return out
}

// Ops returns the Op of every recorded event in call order.
func (s *Surface) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Op, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Op
	}
	return out
}

// Frames returns the number of End calls.
func (s *Surface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// InFrame reports whether Begin succeeded without a matching End.
func (s *Surface) InFrame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Size returns the last size set by New or Resize.
func (s *Surface) Size() (width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Reset discards all recorded events and counters. Injected failures are
// kept.
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.events)
	s.events = s.events[:0]
	s.last = nil
	s.frames = 0
	s.open = false
}

// Replay sends the last completed frame to dst, in the order it was
// recorded. It returns the first error from dst.Begin or dst.End.
func (s *Surface) Replay(dst acure.Surface) error {
	frame := s.LastFrame()
	if frame == nil {
		return fmt.Errorf("record: no completed frame to replay")
	}

	for _, ev := range frame {
		switch ev.Op {
		case OpResize:
			if err := dst.Resize(ev.Width, ev.Height); err != nil {
				return err
			}
		case OpBegin:
			if err := dst.Begin(); err != nil {
				return err
			}
		case OpClear:
			dst.Clear(ev.Color)
		case OpCommand:
			dst.Command(ev.Command, ev.Align, ev.Layout)
		case OpEnd:
			if err := dst.End(); err != nil {
				return err
			}
		}
	}
	return nil
}

// lastFrame returns a copy of events from the last Begin through the final
// End.
func lastFrame(events []Event) []Event {
	start := 0
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Op == OpBegin {
			start = i
			break
		}
	}
	out := make([]Event, len(events)-start)
	copy(out, events[start:])
	return out
}
