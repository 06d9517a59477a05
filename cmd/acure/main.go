// Command acure draws a TOML scene file with one of the acure backends.
//
// Usage:
//
//	acure -scene frame.toml [-backend raster] [-o out.png] [-watch] [-v]
//
// The raster backend writes a PNG, the record backend prints the surface
// calls of the frame, and the x11 and term backends draw on screen until the
// window is closed or Ctrl-C, Esc or q is pressed in the terminal. With
// -watch the scene is redrawn every time the file changes, until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/gogpu/acure"
	"github.com/gogpu/acure/backend"
	"github.com/gogpu/acure/backend/raster"
	"github.com/gogpu/acure/backend/record"
	"github.com/gogpu/acure/scene"
)

func main() {
	var (
		scenePath   = flag.String("scene", "", "scene file (TOML)")
		backendName = flag.String("backend", raster.Name, "backend: "+backend.Auto+", "+strings.Join(acure.Backends(), ", "))
		output      = flag.String("o", "acure.png", "output file for the raster backend")
		watch       = flag.Bool("watch", false, "redraw when the scene file changes")
		verbose     = flag.Bool("v", false, "log diagnostics to stderr")
	)
	flag.Parse()

	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		acure.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, config{
		scene:   *scenePath,
		backend: *backendName,
		output:  *output,
		watch:   *watch,
		stdout:  os.Stdout,
	})
	if err != nil {
		log.Fatalf("acure: %v", err)
	}
}

type config struct {
	scene   string
	backend string
	output  string
	watch   bool
	stdout  io.Writer

	// open creates the surface; nil means backend.OpenNamed.
	open func(name string, opts acure.SurfaceOptions) (acure.Surface, string, error)
}

func run(ctx context.Context, cfg config) error {
	sc, err := scene.Load(cfg.scene)
	if err != nil {
		return err
	}

	opts := sc.SurfaceOptions().WithDefaults()
	open := cfg.open
	if open == nil {
		open = backend.OpenNamed
	}
	s, name, err := open(cfg.backend, opts)
	if err != nil {
		return err
	}
	defer closeSurface(s)
	acure.Logger().Info("acure: drawing", "backend", name, "scene", cfg.scene)

	a := acure.New()
	if err := sc.Apply(a); err != nil {
		return err
	}

	r := &renderer{
		acure:   a,
		surface: s,
		output:  cfg.output,
		stdout:  cfg.stdout,
		width:   opts.Width,
		height:  opts.Height,
	}
	if err := r.draw(); err != nil {
		return err
	}

	events := eventsFor(s)
	if !cfg.watch && events == nil {
		return nil
	}
	return serve(ctx, cfg, a, r, events)
}

// renderer draws frames. The watch and event goroutines share it.
type renderer struct {
	mu sync.Mutex

	acure   *acure.Acure
	surface acure.Surface
	output  string
	stdout  io.Writer

	width, height uint32
}

// redraw resizes the surface if the scene size changed, then draws.
func (r *renderer) redraw(opts acure.SurfaceOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	opts = opts.WithDefaults()
	if opts.Width != r.width || opts.Height != r.height {
		if err := r.surface.Resize(opts.Width, opts.Height); err != nil {
			return fmt.Errorf("resize: %w", err)
		}
		r.width, r.height = opts.Width, opts.Height
	}
	return r.draw()
}

// refresh draws the current buffer again at the current size.
func (r *renderer) refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draw()
}

func (r *renderer) draw() error {
	if err := r.acure.Begin(r.surface); err != nil {
		return err
	}
	if err := r.acure.Write(r.surface); err != nil {
		return err
	}

	switch s := r.surface.(type) {
	case *raster.Surface:
		if err := s.SavePNG(r.output); err != nil {
			return err
		}
		acure.Logger().Info("acure: frame saved", "path", r.output, "width", r.width, "height", r.height)
	case *record.Surface:
		for _, ev := range s.LastFrame() {
			fmt.Fprintln(r.stdout, ev)
		}
	}
	return nil
}

func closeSurface(s acure.Surface) {
	if err := backend.Close(s); err != nil {
		acure.Logger().Warn("acure: close surface", "err", err)
	}
}
