// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// EventKind says how the owner of a surface should react to an X event.
type EventKind int

const (
	// EventOther needs no reaction.
	EventOther EventKind = iota

	// EventExpose means the window lost its contents and the frame must be
	// drawn again.
	EventExpose

	// EventClose means the user asked the window manager to close the
	// window.
	EventClose
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventExpose:
		return "expose"
	case EventClose:
		return "close"
	default:
		return "other"
	}
}

// Classify reports how ev affects the surface window. Only the last event
// of an expose series is reported, so a frame is redrawn once per exposure.
// Close requests are recognized for windows the surface created.
func (s *Surface) Classify(ev xgb.Event) EventKind {
	switch e := ev.(type) {
	case xproto.ExposeEvent:
		if e.Window == s.win && e.Count == 0 {
			return EventExpose
		}
	case xproto.ClientMessageEvent:
		if s.wmDelete == 0 || e.Window != s.win || e.Type != s.wmProtocols || e.Format != 32 {
			return EventOther
		}
		if len(e.Data.Data32) > 0 && xproto.Atom(e.Data.Data32[0]) == s.wmDelete {
			return EventClose
		}
	}
	return EventOther
}
