package main

import (
	"context"
	"errors"

	"github.com/gogpu/acure"
	"github.com/gogpu/acure/backend/term"
	"github.com/gogpu/acure/backend/x11"
	"golang.org/x/sync/errgroup"
)

// action is what an input event asks the CLI to do.
type action int

const (
	actionNone action = iota
	actionRedraw
	actionQuit
)

// eventSource blocks for the next input event of an on-screen surface.
// ok is false once the surface is closed.
type eventSource func() (act action, ok bool)

// errQuit stops the other goroutines of serve when the user quits.
var errQuit = errors.New("quit")

// eventsFor returns the event source of s, or nil for headless surfaces.
func eventsFor(s acure.Surface) eventSource {
	switch s := s.(type) {
	case *term.Surface:
		return termEvents(s)
	case *x11.Surface:
		return x11Events(s)
	}
	return nil
}

func termEvents(s *term.Surface) eventSource {
	return func() (action, bool) {
		ev := s.Screen().PollEvent()
		if ev == nil {
			return actionNone, false
		}
		switch term.Classify(ev) {
		case term.EventQuit:
			return actionQuit, true
		case term.EventResize:
			s.Fit()
			return actionRedraw, true
		}
		return actionNone, true
	}
}

func x11Events(s *x11.Surface) eventSource {
	return func() (action, bool) {
		ev, xerr := s.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return actionNone, false
		}
		if xerr != nil {
			acure.Logger().Warn("acure: x11 error", "err", xerr)
			return actionNone, true
		}
		switch s.Classify(ev) {
		case x11.EventClose:
			return actionQuit, true
		case x11.EventExpose:
			return actionRedraw, true
		}
		return actionNone, true
	}
}

// eventLoop reacts to input until the user quits or the surface closes.
func eventLoop(next eventSource, r *renderer) error {
	for {
		act, ok := next()
		if !ok {
			return nil
		}
		switch act {
		case actionQuit:
			return nil
		case actionRedraw:
			if err := r.refresh(); err != nil {
				return err
			}
		}
	}
}

// serve keeps the frame up to date until ctx is done, the user quits, or
// drawing fails. With watch it reloads the scene on change; with events it
// redraws and quits on input.
//
// The event source blocks in the surface and only returns once the surface
// is closed, which happens after serve returns, so it runs outside the
// errgroup and reports through quit.
func serve(ctx context.Context, cfg config, a *acure.Acure, r *renderer, events eventSource) error {
	g, ctx := errgroup.WithContext(ctx)

	if cfg.watch {
		w, err := newWatcher(cfg.scene)
		if err != nil {
			return err
		}
		defer w.Close()
		g.Go(func() error {
			return watchLoop(ctx, w, cfg.scene, a, r.redraw)
		})
	}

	quit := make(chan error, 1)
	if events != nil {
		go func() { quit <- eventLoop(events, r) }()
	}
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case err := <-quit:
			if err == nil {
				err = errQuit
			}
			return err
		}
	})

	if err := g.Wait(); !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
