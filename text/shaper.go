// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import (
	"math"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns s in Unicode normalization form C.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// advance shapes s as a single left-to-right run and returns its advance in
// pixels. s must already be normalized.
func (f *Face) advance(s string) float64 {
	if s == "" {
		return 0
	}
	runes := []rune(s)

	// font.Face is not safe for concurrent use; NewFace only wraps the
	// shared *Font so a fresh one per call is cheap.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(f.source.shaped),
		Size:      floatToFixed(f.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := f.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	f.shaperPool.Put(hb)

	return math.Abs(fixedToFloat64(out.Advance))
}

// detectScript returns the script of the first non-space rune.
// Mixed-script strings are shaped as one run in that script.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
