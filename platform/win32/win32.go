// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

// Package win32 implements wsi.Platform on the Windows user32 API.
//
// user32 is called through purego, so the package builds without cgo.
// Window procedures never call into wsi directly: they translate messages
// into queued wsi events that NextEvent hands to the application after
// DispatchMessage returns.
//
// Redraws go through InvalidateRect, which lets the system coalesce them
// into one WM_PAINT delivered when the message queue is otherwise empty.
package win32

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"

	"github.com/gogpu/wsi"
)

func init() {
	// Windows are owned by the thread that creates them.
	runtime.LockOSThread()
	wsi.RegisterPlatform("win32", func() wsi.Platform { return New() })
}

var ErrNotInitialized = errors.New("win32: platform not initialized")

// active is the platform the window procedure routes to. A process runs
// one Application loop at a time.
var (
	active  *Platform
	wndProc = purego.NewCallback(windowProc)
)

// Platform is the Windows window system.
type Platform struct {
	instance uintptr
	classes  map[uint32]*uint16
	windows  map[uintptr]*Window
	queue    []wsi.Event
	sizing   bool
	done     bool
	com      bool
}

var _ wsi.Platform = (*Platform)(nil)

// New returns an uninitialized platform.
func New() *Platform {
	return &Platform{
		classes: make(map[uint32]*uint16),
		windows: make(map[uintptr]*Window),
	}
}

// Name returns "win32".
func (p *Platform) Name() string { return "win32" }

// Init initializes COM for the thread and posts EventReady.
func (p *Platform) Init() error {
	if err := windows.CoInitializeEx(0, windows.COINIT_MULTITHREADED); err != nil {
		wsi.Logger().Warn("win32: CoInitializeEx", "err", err)
	} else {
		p.com = true
	}
	p.instance = getModuleHandle(nil)
	active = p
	p.post(wsi.Event{Kind: wsi.EventReady})
	return nil
}

func (p *Platform) class(style uint32) (*uint16, error) {
	if name, ok := p.classes[style]; ok {
		return name, nil
	}
	name, err := windows.UTF16PtrFromString(className(style))
	if err != nil {
		return nil, err
	}
	wc := wndClassEx{
		Size:      uint32(unsafe.Sizeof(wndClassEx{})),
		Style:     style,
		WndProc:   wndProc,
		Instance:  p.instance,
		Cursor:    loadCursor(0, idcArrow),
		ClassName: name,
	}
	if registerClassEx(&wc) == 0 {
		return nil, fmt.Errorf("win32: RegisterClassEx: %w", windows.GetLastError())
	}
	p.classes[style] = name
	return name, nil
}

// CreateWindow creates a hidden window sized so that its client area is
// cfg.Width by cfg.Height.
func (p *Platform) CreateWindow(cfg wsi.WindowConfig, h wsi.EventHandler) (wsi.NativeWindow, error) {
	if active != p {
		return nil, ErrNotInitialized
	}
	if cfg.Transparent {
		wsi.Logger().Warn("win32: transparent windows are not supported", "title", cfg.Title)
	}
	style, classStyle := windowStyle(cfg)
	class, err := p.class(classStyle)
	if err != nil {
		return nil, err
	}
	title, err := windows.UTF16PtrFromString(cfg.Title)
	if err != nil {
		return nil, fmt.Errorf("win32: title: %w", err)
	}
	r := rect{Right: int32(cfg.Width), Bottom: int32(cfg.Height)}
	adjustWindowRectEx(&r, style, false, 0)

	hwnd := createWindowEx(0, class, title, style,
		cwUseDefault, cwUseDefault, r.Right-r.Left, r.Bottom-r.Top,
		0, 0, p.instance, nil)
	if hwnd == 0 {
		return nil, fmt.Errorf("win32: CreateWindowEx: %w", windows.GetLastError())
	}
	w := &Window{p: p, hwnd: hwnd, handler: h}
	p.windows[hwnd] = w
	return w, nil
}

// NextEvent pumps the message queue until a message has been translated
// into an event. GetMessage returning zero ends the loop with the code
// given to PostQuitMessage.
func (p *Platform) NextEvent() (wsi.Event, bool) {
	for {
		if len(p.queue) > 0 {
			ev := p.queue[0]
			p.queue = p.queue[1:]
			return ev, true
		}
		if p.done {
			return wsi.Event{}, false
		}
		var m msg
		switch getMessage(&m, 0, 0, 0) {
		case 0:
			p.done = true
			p.post(wsi.Event{Kind: wsi.EventQuit, Code: int(int32(m.WParam))})
		case -1:
			wsi.Logger().Error("win32: GetMessage", "err", windows.GetLastError())
			p.done = true
		default:
			translateMessage(&m)
			dispatchMessage(&m)
		}
	}
}

// Quit posts WM_QUIT; the loop ends once the messages ahead of it are
// handled.
func (p *Platform) Quit(code int) { postQuitMessage(int32(code)) }

// Shutdown destroys the remaining windows and releases COM.
func (p *Platform) Shutdown() {
	for _, w := range p.windows {
		w.Destroy()
	}
	if p.com {
		windows.CoUninitialize()
		p.com = false
	}
	if active == p {
		active = nil
	}
}

func (p *Platform) post(ev wsi.Event) { p.queue = append(p.queue, ev) }

func windowProc(hwnd uintptr, message uint32, wParam, lParam uintptr) uintptr {
	p := active
	if p == nil {
		return defWindowProc(hwnd, message, wParam, lParam)
	}
	if message == wmActivateApp {
		if wParam != 0 {
			p.post(wsi.Event{Kind: wsi.EventActivated})
		}
		return 0
	}
	w := p.windows[hwnd]
	if w == nil {
		// Messages sent from inside CreateWindowEx arrive before the window
		// is registered.
		return defWindowProc(hwnd, message, wParam, lParam)
	}
	switch message {
	case wmPaint:
		validateRect(hwnd, nil)
		w.post(wsi.Event{Kind: wsi.EventPaint})
		return 0
	case wmSize:
		w.post(sizeEvent(wParam, lParam, dpiFor(hwnd), p.sizing))
		return 0
	case wmEnterSizeMove:
		p.sizing = true
	case wmExitSizeMove:
		if p.sizing {
			p.sizing = false
			w.post(wsi.Event{Kind: wsi.EventResizeEnd})
		}
	case wmClose:
		w.post(wsi.Event{Kind: wsi.EventClose})
		return 0
	case wmDestroy:
		w.forget()
		return 0
	}
	return defWindowProc(hwnd, message, wParam, lParam)
}
