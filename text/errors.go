// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrInvalidSize is returned when a face is requested with a
	// non-positive size.
	ErrInvalidSize = errors.New("text: face size must be positive")
)
