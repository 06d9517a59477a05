// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package text measures and draws the strings of WriteString commands.
//
// The pipeline separates heavyweight and lightweight resources:
//
//   - Source: parsed font data, shared across sizes and goroutines
//   - Face: a Source bound to a pixel size, used for measuring and drawing
//
// Measuring shapes the string with go-text/typesetting's HarfBuzz port, so
// kerning and ligatures are reflected in the advance width. Drawing
// rasterizes unhinted glyphs with golang.org/x/image/font/opentype, so the
// pen advances by the same fractional widths the shaper measured. Strings
// are NFC-normalized before either step.
//
// # Example usage
//
//	face, err := text.Default().Face(16)
//	if err != nil {
//	    return err
//	}
//	defer face.Close()
//
//	ext := face.Measure("Hello")
//	face.Draw(img, "Hello", 10, 10+ext.Ascent, color.Black)
package text
