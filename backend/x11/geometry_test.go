// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package x11

import (
	"bytes"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/gogpu/acure"
	"github.com/google/go-cmp/cmp"
)

func TestToXRect(t *testing.T) {
	tests := []struct {
		name string
		in   image.Rectangle
		want xproto.Rectangle
	}{
		{"plain", image.Rect(1, 2, 11, 22), xproto.Rectangle{X: 1, Y: 2, Width: 10, Height: 20}},
		{"empty", image.Rect(5, 5, 5, 9), xproto.Rectangle{}},
		{"clamped", image.Rect(-40000, 0, 40000, 1), xproto.Rectangle{X: -32768, Y: 0, Width: 65535, Height: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toXRect(tt.in); got != tt.want {
				t.Errorf("toXRect(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundedRectSquare(t *testing.T) {
	rects, arcs := roundedRect(image.Rect(0, 0, 20, 10), 0)
	if diff := cmp.Diff([]xproto.Rectangle{{Width: 20, Height: 10}}, rects); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}
	if len(arcs) != 0 {
		t.Errorf("got %d arcs, want 0", len(arcs))
	}
}

func TestRoundedRect(t *testing.T) {
	rects, arcs := roundedRect(image.Rect(10, 20, 50, 40), 4)

	wantRects := []xproto.Rectangle{
		{X: 10, Y: 24, Width: 40, Height: 12},
		{X: 14, Y: 20, Width: 32, Height: 20},
	}
	if diff := cmp.Diff(wantRects, rects); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}

	wantArcs := []xproto.Arc{
		{X: 10, Y: 20, Width: 8, Height: 8, Angle2: fullCircle},
		{X: 42, Y: 20, Width: 8, Height: 8, Angle2: fullCircle},
		{X: 10, Y: 32, Width: 8, Height: 8, Angle2: fullCircle},
		{X: 42, Y: 32, Width: 8, Height: 8, Angle2: fullCircle},
	}
	if diff := cmp.Diff(wantArcs, arcs); diff != "" {
		t.Errorf("arcs mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundedRectRadiusClamped(t *testing.T) {
	_, arcs := roundedRect(image.Rect(0, 0, 30, 10), 100)
	for _, a := range arcs {
		if a.Width != 10 || a.Height != 10 {
			t.Errorf("arc %+v, want diameter 10", a)
		}
	}
}

func TestRoundedRectInvalidRadius(t *testing.T) {
	for _, radius := range []float64{math.NaN(), -4, math.Inf(-1)} {
		rects, arcs := roundedRect(image.Rect(0, 0, 20, 10), radius)
		if diff := cmp.Diff([]xproto.Rectangle{{Width: 20, Height: 10}}, rects); diff != "" {
			t.Errorf("radius %v: rects mismatch (-want +got):\n%s", radius, diff)
		}
		if len(arcs) != 0 {
			t.Errorf("radius %v: got %d arcs, want 0", radius, len(arcs))
		}
	}
}

func TestRoundedRectHugeRadius(t *testing.T) {
	_, arcs := roundedRect(image.Rect(0, 0, 1<<20, 1<<20), math.Inf(1))
	for _, a := range arcs {
		if a.Width != 65534 || a.Height != 65534 {
			t.Errorf("arc %+v, want diameter 65534", a)
		}
	}
}

func TestRoundedRectEmpty(t *testing.T) {
	rects, arcs := roundedRect(image.Rect(0, 0, 0, 10), 3)
	if rects != nil || arcs != nil {
		t.Errorf("empty rect gave %v, %v", rects, arcs)
	}
}

func TestLatin1(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"abc", []byte("abc")},
		{"café", []byte{'c', 'a', 'f', 0xe9}},
		{"cafe\u0301", []byte{'c', 'a', 'f', 0xe9}},
		{"a世b", []byte("a?b")},
		{"", []byte{}},
	}
	for _, tt := range tests {
		if got := latin1(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("latin1(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTextItems(t *testing.T) {
	if got := textItems(nil); got != nil {
		t.Errorf("textItems(nil) = %v, want nil", got)
	}

	got := textItems([]byte("hi"))
	if want := []byte{2, 0, 'h', 'i'}; !bytes.Equal(got, want) {
		t.Errorf("textItems(hi) = %v, want %v", got, want)
	}

	long := []byte(strings.Repeat("x", 300))
	got = textItems(long)
	if len(got) != 300+4 {
		t.Fatalf("len = %d, want 304", len(got))
	}
	if got[0] != maxTextItem || got[1] != 0 {
		t.Errorf("first item header = %v, want [254 0]", got[:2])
	}
	second := 2 + maxTextItem
	if got[second] != 300-maxTextItem || got[second+1] != 0 {
		t.Errorf("second item header = %v, want [46 0]", got[second:second+2])
	}
}

func TestColor16(t *testing.T) {
	tests := []struct {
		in   uint8
		want uint16
	}{
		{0, 0},
		{0x80, 0x8080},
		{0xff, 0xffff},
	}
	for _, tt := range tests {
		if got := color16(tt.in); got != tt.want {
			t.Errorf("color16(%#x) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestAtomBytes(t *testing.T) {
	got := atomBytes(0x01020304, 0x0a)
	want := []byte{4, 3, 2, 1, 0x0a, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("atomBytes = %v, want %v", got, want)
	}
}

func TestRegistered(t *testing.T) {
	if !acure.IsRegistered(Name) {
		t.Error("x11 backend not registered")
	}
}

func TestClassify(t *testing.T) {
	s := &Surface{win: 7, wmProtocols: 40, wmDelete: 41}
	deleteMsg := func(win xproto.Window, typ xproto.Atom, atom uint32) xproto.ClientMessageEvent {
		return xproto.ClientMessageEvent{
			Format: 32,
			Window: win,
			Type:   typ,
			Data:   xproto.ClientMessageDataUnionData32New([]uint32{atom, 0, 0, 0, 0}),
		}
	}

	tests := []struct {
		name string
		ev   xgb.Event
		want EventKind
	}{
		{"last expose", xproto.ExposeEvent{Window: 7, Count: 0}, EventExpose},
		{"expose series", xproto.ExposeEvent{Window: 7, Count: 2}, EventOther},
		{"other window expose", xproto.ExposeEvent{Window: 8}, EventOther},
		{"delete window", deleteMsg(7, 40, 41), EventClose},
		{"other protocol", deleteMsg(7, 40, 99), EventOther},
		{"other message type", deleteMsg(7, 12, 41), EventOther},
		{"other window delete", deleteMsg(8, 40, 41), EventOther},
		{"configure", xproto.ConfigureNotifyEvent{Window: 7}, EventOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Classify(tt.ev); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyForeignWindow(t *testing.T) {
	// A surface drawing into a window it did not create never sees close
	// requests, even for a zero atom.
	s := &Surface{win: 7}
	ev := xproto.ClientMessageEvent{Format: 32, Window: 7, Data: xproto.ClientMessageDataUnionData32New(make([]uint32, 5))}
	if got := s.Classify(ev); got != EventOther {
		t.Errorf("Classify() = %v, want other", got)
	}
}
