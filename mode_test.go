package acure

import "testing"

func TestAlignMode_Text(t *testing.T) {
	modes := []AlignMode{Flex, CenterAligned, RightAligned, LeftAligned, TopAligned, BottomAligned}
	for _, m := range modes {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) error = %v", m, err)
		}
		var got AlignMode
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if got != m {
			t.Errorf("round trip %q = %v, want %v", text, got, m)
		}
	}
}

func TestAlignMode_UnmarshalText(t *testing.T) {
	var m AlignMode
	if err := m.UnmarshalText([]byte(" Center ")); err != nil || m != CenterAligned {
		t.Errorf("UnmarshalText(Center) = %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("diagonal")); err == nil {
		t.Error("UnmarshalText(diagonal) should fail")
	}
}

func TestAlignMode_StringUnknown(t *testing.T) {
	if got := AlignMode(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestLayoutMode_Text(t *testing.T) {
	tests := []struct {
		in   string
		want LayoutMode
	}{
		{"nocare", NoCare},
		{"adjust", AdjustSize},
		{"ADJUST", AdjustSize},
	}
	for _, tt := range tests {
		var m LayoutMode
		if err := m.UnmarshalText([]byte(tt.in)); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", tt.in, err)
		}
		if m != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, m, tt.want)
		}
	}

	var m LayoutMode
	if err := m.UnmarshalText([]byte("shrink")); err == nil {
		t.Error("UnmarshalText(shrink) should fail")
	}
	if got := LayoutMode(7).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}
