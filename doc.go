// Package acure provides a retained 2D drawing command buffer that is
// replayed onto interchangeable backend surfaces.
//
// # Overview
//
// A client pushes drawing commands (Clear, FillRectangle, WriteString) into
// an Acure. To draw a frame it opens a session with Begin and submits the
// buffer with Write. Write clears the surface with the background color,
// replays every command in push order, and ends the frame.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/acure"
//	    "github.com/gogpu/acure/backend/raster"
//	)
//
//	s, err := raster.New(acure.SurfaceOptions{Width: 320, Height: 200})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	a := acure.New(acure.WithBackground(acure.White))
//	a.Push(
//	    acure.FillRectangle{X: 20, Y: 20, Width: 120, Height: 60, Radius: 8, Color: acure.Red},
//	    acure.WriteString{X: 20, Y: 20, Width: 120, Height: 60, Color: acure.White, Text: "hello"},
//	)
//	a.SetAlignMode(acure.CenterAligned)
//
//	_ = a.Begin(s)
//	_ = a.Write(s)
//	_ = s.SavePNG("hello.png")
//
// # Sessions
//
// Write is only valid after Begin. Calling it outside a session returns
// ErrUnauthorizedOperation and leaves the buffer untouched. After a Write
// the session is closed again, so every frame needs its own Begin.
//
// # Backends
//
// Backends live under backend/ and register themselves on import:
//   - raster: software rendering into an *image.RGBA (PNG output)
//   - x11: X protocol drawing into a window
//   - term: terminal cells via tcell
//   - gpu: software frame uploaded to a host-owned WebGPU device (not
//     registered, see gpu.New)
//   - record: records surface calls, for tests and dry runs
//
// # Coordinate System
//
// Origin (0,0) is the top-left corner, X grows right and Y grows down.
// Units are pixels.
package acure
