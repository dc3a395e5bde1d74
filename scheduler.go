package main

import (
	"context"
	"image"
	"log"
	"sync"
)

// frameSink is where finished frames go. The LCD implements it; tests
// substitute an in-memory sink.
type frameSink interface {
	PushFrame(frame *image.RGBA) error
}

// panelArtist renders one panel into a fresh frame. panelRenderer is
// the real implementation.
type panelArtist interface {
	Render(p Panel, index, count int) *image.RGBA
}

// renderScheduler owns the render thread. It renders the active panel,
// pushes the frame to the sink, then sleeps until the panel's refresh
// interval elapses or a navigation event wakes it early. All drawing to
// the display happens on this goroutine; the control plane only ever
// reads lastFrame or renders to a private buffer.
type renderScheduler struct {
	nav      *NavigationState
	sink     frameSink
	renderer panelArtist

	frameMu   sync.RWMutex
	lastFrame *image.RGBA
}

func newRenderScheduler(nav *NavigationState, sink frameSink, renderer panelArtist) *renderScheduler {
	return &renderScheduler{nav: nav, sink: sink, renderer: renderer}
}

// Run loops until ctx is cancelled. A panel that fails to render only
// costs its own frame; the loop continues offering the other panels.
func (s *renderScheduler) Run(ctx context.Context) {
	for {
		panel := s.nav.Current()
		frame := s.renderSafe(panel)
		if frame != nil {
			if err := s.sink.PushFrame(frame); err != nil {
				log.Printf("scheduler: push frame: %v", err)
			}
			s.frameMu.Lock()
			s.lastFrame = frame
			s.frameMu.Unlock()
		}
		if !s.nav.Wait(ctx, panel.Refresh) {
			log.Println("scheduler: shutdown, render loop exiting")
			return
		}
	}
}

// renderSafe fences off panel rendering faults so one bad panel cannot
// take down the scheduling loop.
func (s *renderScheduler) renderSafe(panel Panel) (frame *image.RGBA) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: panel %q panicked: %v", panel.Name, r)
			frame = nil
		}
	}()
	return s.renderer.Render(panel, s.nav.Index(), s.nav.Count())
}

// LastFrame returns the most recently pushed frame, or nil before the
// first render completes.
func (s *renderScheduler) LastFrame() *image.RGBA {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()
	return s.lastFrame
}

// Snapshot renders the active panel on demand for the screenshot
// endpoint. The render goes to a fresh buffer and never touches the
// display; if it fails, the caller falls back to LastFrame.
func (s *renderScheduler) Snapshot() *image.RGBA {
	panel := s.nav.Current()
	if frame := s.renderSafe(panel); frame != nil {
		return frame
	}
	return s.LastFrame()
}
