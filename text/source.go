// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Source is a parsed font shared by every Face created from it.
// Source is safe for concurrent use.
type Source struct {
	name   string
	shaped *gotext.Font   // read-only, shared by shaping calls
	glyphs *opentype.Font // read-only, shared by glyph faces
}

// NewSource parses TrueType or OpenType font data.
func NewSource(data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	glyphs, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}

	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font for shaping: %w", err)
	}

	name, _ := glyphs.Name(nil, sfnt.NameIDFamily)

	return &Source{
		name:   name,
		shaped: face.Font,
		glyphs: glyphs,
	}, nil
}

// NewSourceFromFile reads and parses a font file.
func NewSourceFromFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: read font: %w", err)
	}
	return NewSource(data)
}

// Name returns the font family name, or "" if the font has none.
func (s *Source) Name() string {
	return s.name
}

var (
	defaultOnce   sync.Once
	defaultSource *Source
)

// Default returns the Go Regular font. It is parsed once on first use.
func Default() *Source {
	defaultOnce.Do(func() {
		s, err := NewSource(goregular.TTF)
		if err != nil {
			// The embedded font is known-good.
			panic(err)
		}
		defaultSource = s
	})
	return defaultSource
}
