// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/acure"
)

// EventKind says how the owner of a surface should react to a terminal
// event.
type EventKind int

const (
	// EventOther needs no reaction.
	EventOther EventKind = iota

	// EventResize means the terminal changed size. Call Fit, then draw the
	// frame again.
	EventResize

	// EventQuit means the user asked to quit with Ctrl-C, Esc or q.
	EventQuit
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventQuit:
		return "quit"
	default:
		return "other"
	}
}

// Classify reports how ev affects a terminal surface. The terminal runs in
// raw mode, so Ctrl-C arrives as a key event rather than a signal.
func Classify(ev tcell.Event) EventKind {
	switch e := ev.(type) {
	case *tcell.EventResize:
		return EventResize
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			return EventQuit
		case tcell.KeyRune:
			if e.Rune() == 'q' {
				return EventQuit
			}
		}
	}
	return EventOther
}

// Fit resizes the grid to the current screen size. Content is discarded.
func (s *Surface) Fit() {
	s.screen.Sync()
	cols, rows := s.screen.Size()

	s.mu.Lock()
	defer s.mu.Unlock()
	if cols == s.cols && rows == s.rows {
		return
	}
	s.resizeGrid(cols, rows)
	acure.Logger().Debug("term: fit to screen", "cols", cols, "rows", rows)
}
