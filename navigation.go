package main

import (
	"context"
	"sync"
	"time"
)

// NavigationState is the single source of truth for which panel is
// active. It is mutated by the touch thread and the control plane and
// read by the render thread, so every access goes through the mutex.
// Mutations latch the wake channel so a sleeping render loop picks the
// change up immediately.
type NavigationState struct {
	mu     sync.Mutex
	panels []Panel
	index  int
	wake   chan struct{}
}

func newNavigationState(panels []Panel) *NavigationState {
	if len(panels) == 0 {
		panic("navigation: need at least one panel")
	}
	return &NavigationState{
		panels: panels,
		wake:   make(chan struct{}, 1),
	}
}

// Next advances to the following panel, wrapping at the end, and
// returns the new index.
func (n *NavigationState) Next() int {
	n.mu.Lock()
	n.index = (n.index + 1) % len(n.panels)
	idx := n.index
	n.mu.Unlock()
	n.signal()
	return idx
}

// Prev steps back one panel, wrapping at the start.
func (n *NavigationState) Prev() int {
	n.mu.Lock()
	n.index = (n.index - 1 + len(n.panels)) % len(n.panels)
	idx := n.index
	n.mu.Unlock()
	n.signal()
	return idx
}

func (n *NavigationState) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

func (n *NavigationState) Count() int {
	return len(n.panels)
}

// Current returns a snapshot of the active panel.
func (n *NavigationState) Current() Panel {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.panels[n.index]
}

// signal latches the wake notification. The buffered channel keeps a
// mutation that lands just before the scheduler starts waiting from
// being lost; a second pending signal is redundant and dropped.
func (n *NavigationState) signal() {
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until a navigation mutation, the timeout, or shutdown,
// whichever comes first. It reports false only when ctx was cancelled.
func (n *NavigationState) Wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-n.wake:
		return true
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
