// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless provides an in-memory wsi.Platform.
//
// Windows are plain structs and events come from a script, which makes the
// platform deterministic. It is used by tests and by programs that want to
// exercise the render path without a display.
//
// Event delivery order is: queued events, then pending redraws (one Paint
// per window, coalesced), then the next scripted step. When all three are
// exhausted the loop terminates.
package headless

import (
	"errors"

	"github.com/gogpu/wsi"
)

func init() {
	wsi.RegisterPlatform("headless", func() wsi.Platform { return New() })
}

// ErrNotInitialized is returned by CreateWindow before Init.
var ErrNotInitialized = errors.New("headless: platform not initialized")

// Option configures a Platform.
type Option func(*Platform)

// WithInitError makes Init fail with err.
func WithInitError(err error) Option {
	return func(p *Platform) { p.initErr = err }
}

// WithCreateError makes every CreateWindow call fail with err.
func WithCreateError(err error) Option {
	return func(p *Platform) { p.createErr = err }
}

// WithScaleFactor sets the scale factor reported by every window.
func WithScaleFactor(f float64) Option {
	return func(p *Platform) { p.scale = f }
}

// Step is one scripted action, run when the platform has nothing else to
// deliver.
type Step func(p *Platform)

// Platform is a scripted in-memory platform.
type Platform struct {
	initErr   error
	createErr error
	scale     float64

	initialized bool
	shutdown    bool
	queue       []wsi.Event
	steps       []Step
	windows     []*Window
	nextID      uintptr
	paints      int
}

var _ wsi.Platform = (*Platform)(nil)

// New returns a platform with an empty script.
func New(opts ...Option) *Platform {
	p := &Platform{scale: 1, nextID: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "headless".
func (p *Platform) Name() string { return "headless" }

// Init posts EventReady.
func (p *Platform) Init() error {
	if p.initErr != nil {
		return p.initErr
	}
	p.initialized = true
	p.Post(wsi.Event{Kind: wsi.EventReady})
	return nil
}

// CreateWindow creates an in-memory window for h.
func (p *Platform) CreateWindow(cfg wsi.WindowConfig, h wsi.EventHandler) (wsi.NativeWindow, error) {
	if !p.initialized {
		return nil, ErrNotInitialized
	}
	if p.createErr != nil {
		return nil, p.createErr
	}
	w := &Window{
		p:       p,
		id:      p.nextID,
		handler: h,
		cfg:     cfg,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	p.nextID++
	p.windows = append(p.windows, w)
	return w, nil
}

// NextEvent returns the next queued event, pending redraw or scripted
// event.
func (p *Platform) NextEvent() (wsi.Event, bool) {
	for {
		if len(p.queue) > 0 {
			ev := p.queue[0]
			p.queue = p.queue[1:]
			return ev, true
		}
		for _, w := range p.windows {
			if w.redraw && !w.destroyed {
				w.redraw = false
				p.paints++
				return wsi.Event{Kind: wsi.EventPaint, Target: w.handler}, true
			}
		}
		if len(p.steps) == 0 {
			return wsi.Event{}, false
		}
		step := p.steps[0]
		p.steps = p.steps[1:]
		step(p)
	}
}

// Quit queues EventQuit.
func (p *Platform) Quit(code int) {
	p.Post(wsi.Event{Kind: wsi.EventQuit, Code: code})
}

// Shutdown marks the platform as shut down.
func (p *Platform) Shutdown() { p.shutdown = true }

// Post queues ev for delivery.
func (p *Platform) Post(ev wsi.Event) { p.queue = append(p.queue, ev) }

// Then appends steps to the script.
func (p *Platform) Then(steps ...Step) *Platform {
	p.steps = append(p.steps, steps...)
	return p
}

// Activate queues an application activation.
func (p *Platform) Activate() { p.Post(wsi.Event{Kind: wsi.EventActivated}) }

// Windows returns every window created so far, destroyed ones included.
func (p *Platform) Windows() []*Window { return p.windows }

// Window returns the i-th created window, or nil.
func (p *Platform) Window(i int) *Window {
	if i < 0 || i >= len(p.windows) {
		return nil
	}
	return p.windows[i]
}

// Paints returns the number of EventPaint events delivered.
func (p *Platform) Paints() int { return p.paints }

// IsShutdown reports whether Shutdown has been called.
func (p *Platform) IsShutdown() bool { return p.shutdown }

// Window is an in-memory native window.
type Window struct {
	p       *Platform
	id      uintptr
	handler wsi.EventHandler
	cfg     wsi.WindowConfig

	width, height int
	shown         int
	redraw        bool
	redraws       int
	destroyed     bool
}

var _ wsi.NativeWindow = (*Window)(nil)

// Show marks the window visible.
func (w *Window) Show() { w.shown++ }

// ClientSize returns the scripted size.
func (w *Window) ClientSize() (int, int) { return w.width, w.height }

// ScaleFactor returns the platform scale factor.
func (w *Window) ScaleFactor() float64 { return w.p.scale }

// RequestRedraw schedules one Paint. Repeated requests are coalesced.
func (w *Window) RequestRedraw() {
	w.redraws++
	w.redraw = true
}

// Handles returns the window id as the window handle.
func (w *Window) Handles() wsi.NativeHandles { return wsi.NativeHandles{Window: w.id} }

// Destroy releases the window.
func (w *Window) Destroy() { w.destroyed = true }

// Config returns the configuration the window was created with.
func (w *Window) Config() wsi.WindowConfig { return w.cfg }

// ShowCount returns how many times Show reached the native window.
func (w *Window) ShowCount() int { return w.shown }

// RedrawRequests returns how many times RequestRedraw was called.
func (w *Window) RedrawRequests() int { return w.redraws }

// Destroyed reports whether Destroy has been called.
func (w *Window) Destroyed() bool { return w.destroyed }

// Resize sets the client size and queues a non-live resize.
func (w *Window) Resize(width, height int) {
	w.width, w.height = width, height
	w.post(wsi.Event{Kind: wsi.EventResize, Width: width, Height: height})
}

// Drag queues a live resize through each size in turn, then the end of
// the drag.
func (w *Window) Drag(sizes ...[2]int) {
	for _, s := range sizes {
		w.width, w.height = s[0], s[1]
		w.post(wsi.Event{Kind: wsi.EventResize, Width: s[0], Height: s[1], Live: true})
	}
	w.post(wsi.Event{Kind: wsi.EventResizeEnd})
}

// Expose queues a Paint, as a window system does when the window is
// uncovered.
func (w *Window) Expose() { w.post(wsi.Event{Kind: wsi.EventPaint}) }

// RequestClose queues a Close, as the close button does.
func (w *Window) RequestClose() { w.post(wsi.Event{Kind: wsi.EventClose}) }

func (w *Window) post(ev wsi.Event) {
	ev.Target = w.handler
	w.p.Post(ev)
}
