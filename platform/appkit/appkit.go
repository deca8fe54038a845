// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build darwin

// Package appkit implements wsi.Platform on Cocoa.
//
// The Objective-C runtime is driven through purego, so the package builds
// without cgo. Instead of handing the thread to -[NSApplication run], the
// platform pumps events itself with nextEventMatchingMask. Application and
// window delegate callbacks queue wsi events that NextEvent returns once
// sendEvent has finished, which keeps delegate code out of AppKit's call
// stack.
//
// Renderable windows get a layer-backed content view whose layer is a
// CAMetalLayer; the layer is the window handle GPU surfaces are created
// from.
//
// Cocoa must run on the main thread. Importing the package locks the main
// goroutine to it.
package appkit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego/objc"

	"github.com/gogpu/wsi"
)

func init() {
	runtime.LockOSThread()
	if frameworks() == nil {
		wsi.RegisterPlatform("appkit", func() wsi.Platform { return New() })
	}
}

var (
	ErrNotInitialized = errors.New("appkit: platform not initialized")
	ErrNoWindow       = errors.New("appkit: NSWindow creation failed")
)

// active is the platform the delegate classes route to. A process runs one
// Application loop at a time.
var active *Platform

// Option configures a Platform.
type Option func(*Platform)

// WithAppName sets the name shown in the application menu. It defaults to
// the executable name.
func WithAppName(name string) Option {
	return func(p *Platform) { p.appName = name }
}

// Platform is the Cocoa window system.
type Platform struct {
	appName string

	app            objc.ID
	appDelegate    objc.ID
	windowDelegate objc.ID
	runLoopMode    objc.ID

	windows map[objc.ID]*Window
	order   []*Window
	queue   []wsi.Event
	done    bool
}

var _ wsi.Platform = (*Platform)(nil)

// New returns an uninitialized platform.
func New(opts ...Option) *Platform {
	p := &Platform{
		appName: filepath.Base(os.Args[0]),
		windows: make(map[objc.ID]*Window),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "appkit".
func (p *Platform) Name() string { return "appkit" }

// Init sets up NSApplication as a regular, menu-bearing application and
// finishes launching it. The launch completion posts EventReady.
func (p *Platform) Init() error {
	if err := frameworks(); err != nil {
		return err
	}
	if err := registerClasses(); err != nil {
		return err
	}
	pool := autoreleasePool()
	defer pool.Send(selDrain)

	active = p
	p.app = class("NSApplication").Send(selSharedApplication)
	if p.app == 0 {
		return errors.New("appkit: no shared NSApplication")
	}
	p.appDelegate = objc.ID(appDelegateClass).Send(selNew)
	p.windowDelegate = objc.ID(windowDelegateClass).Send(selNew)
	p.runLoopMode = nsString(defaultRunLoopMode)

	p.app.Send(selSetActivationPolicy, int64(nsApplicationActivationPolicyRegular))
	p.app.Send(selSetDelegate, p.appDelegate)
	menu := mainMenu(p.appName)
	p.app.Send(selSetMainMenu, menu)
	menu.Send(selRelease)

	p.app.Send(selFinishLaunching)
	return nil
}

// CreateWindow creates a hidden, centered NSWindow.
func (p *Platform) CreateWindow(cfg wsi.WindowConfig, h wsi.EventHandler) (wsi.NativeWindow, error) {
	if active != p || p.app == 0 {
		return nil, ErrNotInitialized
	}
	pool := autoreleasePool()
	defer pool.Send(selDrain)

	frame := nsRect{Size: cgSize{Width: float64(cfg.Width), Height: float64(cfg.Height)}}
	ns := class("NSWindow").Send(selAlloc).Send(selInitWithContentRect,
		frame, uint64(styleMask(cfg)), uint64(nsBackingStoreBuffered), false)
	if ns == 0 {
		return nil, ErrNoWindow
	}
	ns.Send(selSetReleasedWhenClosed, false)
	title := nsString(cfg.Title)
	ns.Send(selSetTitle, title)
	title.Send(selRelease)
	ns.Send(selCenter)
	ns.Send(selSetDelegate, p.windowDelegate)

	w := &Window{p: p, ns: ns, handler: h}
	if cfg.Transparent {
		ns.Send(selSetOpaque, false)
		ns.Send(selSetBackgroundColor, class("NSColor").Send(selClearColor))
	}
	if cfg.Renderable {
		if err := w.attachLayer(cfg.Transparent); err != nil {
			ns.Send(selClose)
			ns.Send(selRelease)
			return nil, err
		}
	}
	p.windows[ns] = w
	p.order = append(p.order, w)
	return w, nil
}

// NextEvent delivers queued events first, then drains AppKit without
// blocking, then delivers pending redraws, and only then waits for AppKit.
func (p *Platform) NextEvent() (wsi.Event, bool) {
	for {
		if len(p.queue) > 0 {
			ev := p.queue[0]
			p.queue = p.queue[1:]
			return ev, true
		}
		if p.done || p.app == 0 {
			return wsi.Event{}, false
		}
		if p.pump(false) {
			continue
		}
		if w := p.pendingRedraw(); w != nil {
			w.redraw = false
			return wsi.Event{Kind: wsi.EventPaint, Target: w.handler}, true
		}
		p.pump(true)
	}
}

// pump dispatches one AppKit event and reports whether there was one.
func (p *Platform) pump(wait bool) bool {
	pool := autoreleasePool()
	defer pool.Send(selDrain)

	until := class("NSDate").Send(selDistantPast)
	if wait {
		until = class("NSDate").Send(selDistantFuture)
	}
	ev := p.app.Send(selNextEvent, nsEventMaskAny, until, p.runLoopMode, true)
	if ev == 0 {
		return false
	}
	p.app.Send(selSendEvent, ev)
	p.app.Send(selUpdateWindows)
	return true
}

func (p *Platform) pendingRedraw() *Window {
	for _, w := range p.order {
		if w.redraw && !w.destroyed {
			return w
		}
	}
	return nil
}

// Quit queues EventQuit.
func (p *Platform) Quit(code int) {
	p.post(wsi.Event{Kind: wsi.EventQuit, Code: code})
}

// Shutdown closes the remaining windows and releases the delegates.
func (p *Platform) Shutdown() {
	if p.app == 0 {
		return
	}
	for _, w := range p.order {
		w.Destroy()
	}
	p.app.Send(selSetDelegate, objc.ID(0))
	for _, id := range []objc.ID{p.appDelegate, p.windowDelegate, p.runLoopMode} {
		if id != 0 {
			id.Send(selRelease)
		}
	}
	p.app, p.appDelegate, p.windowDelegate, p.runLoopMode = 0, 0, 0, 0
	p.done = true
	if active == p {
		active = nil
	}
}

func (p *Platform) post(ev wsi.Event) { p.queue = append(p.queue, ev) }

var (
	appDelegateClass    objc.Class
	windowDelegateClass objc.Class
)

var registerClasses = sync.OnceValue(func() error {
	var err error
	appDelegateClass, err = objc.RegisterClass("WSIApplicationDelegate", objc.GetClass("NSObject"),
		protocols("NSApplicationDelegate"), nil,
		[]objc.MethodDef{
			{Cmd: selDidFinishLaunching, Fn: didFinishLaunching},
			{Cmd: selDidBecomeActive, Fn: didBecomeActive},
			{Cmd: selShouldTerminate, Fn: shouldTerminate},
		})
	if err != nil {
		return fmt.Errorf("appkit: register application delegate: %w", err)
	}
	windowDelegateClass, err = objc.RegisterClass("WSIWindowDelegate", objc.GetClass("NSObject"),
		protocols("NSWindowDelegate"), nil,
		[]objc.MethodDef{
			{Cmd: selWindowShouldClose, Fn: windowShouldClose},
			{Cmd: selWindowDidResize, Fn: windowDidResize},
			{Cmd: selWindowDidEndLive, Fn: windowDidEndLiveResize},
			{Cmd: selWindowDidBacking, Fn: windowDidChangeBacking},
		})
	if err != nil {
		return fmt.Errorf("appkit: register window delegate: %w", err)
	}
	return nil
})

// protocols skips protocols the runtime does not know; conformance is only
// advisory for delegates.
func protocols(names ...string) []*objc.Protocol {
	var out []*objc.Protocol
	for _, name := range names {
		if pr := objc.GetProtocol(name); pr != nil {
			out = append(out, pr)
		}
	}
	return out
}

func didFinishLaunching(_ objc.ID, _ objc.SEL, _ objc.ID) {
	if p := active; p != nil {
		p.post(wsi.Event{Kind: wsi.EventReady})
		p.app.Send(selActivateIgnoring, true)
	}
}

func didBecomeActive(_ objc.ID, _ objc.SEL, _ objc.ID) {
	if p := active; p != nil {
		p.post(wsi.Event{Kind: wsi.EventActivated})
	}
}

// shouldTerminate turns Quit from the menu into EventQuit so the loop ends
// normally instead of AppKit calling exit.
func shouldTerminate(_ objc.ID, _ objc.SEL, _ objc.ID) uint {
	if p := active; p != nil {
		p.Quit(0)
	}
	return nsTerminateCancel
}

func windowFor(ns objc.ID) *Window {
	if p := active; p != nil {
		return p.windows[ns]
	}
	return nil
}

func windowShouldClose(_ objc.ID, _ objc.SEL, sender objc.ID) bool {
	if w := windowFor(sender); w != nil {
		w.post(wsi.Event{Kind: wsi.EventClose})
	}
	return false
}

func windowDidResize(_ objc.ID, _ objc.SEL, notification objc.ID) {
	w := windowFor(notification.Send(selObject))
	if w == nil {
		return
	}
	width, height := w.ClientSize()
	w.post(wsi.Event{
		Kind:   wsi.EventResize,
		Width:  width,
		Height: height,
		Live:   objc.Send[bool](w.ns, selInLiveResize),
	})
}

func windowDidEndLiveResize(_ objc.ID, _ objc.SEL, notification objc.ID) {
	if w := windowFor(notification.Send(selObject)); w != nil {
		w.post(wsi.Event{Kind: wsi.EventResizeEnd})
	}
}

func windowDidChangeBacking(_ objc.ID, _ objc.SEL, notification objc.ID) {
	if w := windowFor(notification.Send(selObject)); w != nil && w.layer != 0 {
		w.layer.Send(selSetContentsScale, w.ScaleFactor())
	}
}
