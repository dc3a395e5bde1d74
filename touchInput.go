package main

import (
	"context"
	"errors"
	"log"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

var errTouchNotFound = errors.New("touch device not found")

// TouchTransform maps raw touch controller samples to screen pixels.
// The panel is mounted rotated, so the controller axes do not line up
// with the framebuffer axes; SwapAxes/InvertX/InvertY/Rotate180 cover
// every mounting orientation.
type TouchTransform struct {
	RawMin    int
	RawMax    int
	Width     int
	Height    int
	SwapAxes  bool
	InvertX   bool
	InvertY   bool
	Rotate180 bool
}

// Apply converts a raw (x, y) sample to screen coordinates. Raw values
// outside [RawMin, RawMax] are clamped, never rejected. The function is
// pure: identical input always yields identical output.
func (t TouchTransform) Apply(rawX, rawY int) (int, int) {
	nx := t.normalize(rawX)
	ny := t.normalize(rawY)

	if t.SwapAxes {
		nx, ny = ny, nx
	}
	if t.InvertX {
		nx = 1 - nx
	}
	if t.InvertY {
		ny = 1 - ny
	}
	if t.Rotate180 {
		nx = 1 - nx
		ny = 1 - ny
	}

	sx := clamp(int(nx*float64(t.Width)), 0, t.Width-1)
	sy := clamp(int(ny*float64(t.Height)), 0, t.Height-1)
	return sx, sy
}

func (t TouchTransform) normalize(raw int) float64 {
	span := t.RawMax - t.RawMin
	if span <= 0 {
		return 0
	}
	raw = clamp(raw, t.RawMin, t.RawMax)
	return float64(raw-t.RawMin) / float64(span)
}

// findTouchDevice locates the touch controller by its advertised name.
func findTouchDevice(name string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", err
	}
	for _, ip := range paths {
		if ip.Name == name {
			return ip.Path, nil
		}
	}
	return "", errTouchNotFound
}

// runTouchLoop is the touch thread: a blocking read loop over the evdev
// event stream. Classified gestures mutate nav directly; the mutation is
// a fast in-memory operation, so the loop never stalls on it. A device
// error stops the loop and the rest of the system keeps running without
// touch navigation.
func runTouchLoop(ctx context.Context, dev *evdev.InputDevice, gc *gestureClassifier, nav *NavigationState, buttons navButtons) {
	// Unblock ReadOne when the process is shutting down.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			dev.Close()
		case <-done:
		}
	}()

	if err := dev.Grab(); err != nil {
		log.Printf("touch: grab failed: %v", err)
	}
	defer dev.Ungrab()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("touch: read error, stopping touch input: %v", err)
			return
		}
		handleTouchEvent(ev, gc, nav, buttons)
	}
}

// handleTouchEvent feeds one evdev event into the gesture classifier and
// applies any resulting navigation action.
func handleTouchEvent(ev *evdev.InputEvent, gc *gestureClassifier, nav *NavigationState, buttons navButtons) {
	switch ev.Type {
	case evdev.EV_KEY:
		if ev.Code != evdev.BTN_TOUCH {
			return
		}
		if ev.Value == 1 {
			gc.Down()
			return
		}
		applyGesture(gc.Up(), nav, buttons)
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_X, evdev.ABS_MT_POSITION_X:
			gc.Sample(axisX, int(ev.Value))
		case evdev.ABS_Y, evdev.ABS_MT_POSITION_Y:
			gc.Sample(axisY, int(ev.Value))
		}
	}
}

// applyGesture turns a classified gesture into exactly one navigation
// step, or none.
func applyGesture(res GestureResult, nav *NavigationState, buttons navButtons) {
	switch res.Kind {
	case GestureSwipePrev:
		nav.Prev()
	case GestureSwipeNext:
		nav.Next()
	case GestureTap:
		switch buttons.hitTest(res.X, res.Y) {
		case navTapPrev:
			nav.Prev()
		case navTapNext:
			nav.Next()
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openTouchDevice retries the device open a few times, since the
// controller sometimes enumerates after the daemon starts on boot.
func openTouchDevice(name string, retries int) (*evdev.InputDevice, error) {
	var lastErr error
	for i := 0; i <= retries; i++ {
		path, err := findTouchDevice(name)
		if err == nil {
			dev, err := evdev.Open(path)
			if err == nil {
				return dev, nil
			}
			lastErr = err
		} else {
			lastErr = err
		}
		time.Sleep(time.Second)
	}
	return nil, lastErr
}
