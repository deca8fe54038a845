// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package win32

import "github.com/gogpu/wsi"

// Window is a top-level HWND.
type Window struct {
	p         *Platform
	hwnd      uintptr
	handler   wsi.EventHandler
	destroyed bool
}

var _ wsi.NativeWindow = (*Window)(nil)

// Show shows the window in its normal state.
func (w *Window) Show() {
	if !w.destroyed {
		showWindow(w.hwnd, swShowNormal)
	}
}

// ClientSize returns the client rectangle in logical pixels.
func (w *Window) ClientSize() (int, int) {
	var r rect
	if w.destroyed || !getClientRect(w.hwnd, &r) {
		return 0, 0
	}
	dpi := dpiFor(w.hwnd)
	return physicalToLogical(int(r.Right-r.Left), dpi), physicalToLogical(int(r.Bottom-r.Top), dpi)
}

// ScaleFactor returns the monitor DPI relative to 96.
func (w *Window) ScaleFactor() float64 {
	return float64(dpiFor(w.hwnd)) / userDefaultDPI
}

// RequestRedraw invalidates the client area without erasing it.
func (w *Window) RequestRedraw() {
	if !w.destroyed {
		invalidateRect(w.hwnd, nil, false)
	}
}

// Handles returns the module instance and the HWND.
func (w *Window) Handles() wsi.NativeHandles {
	return wsi.NativeHandles{Display: w.p.instance, Window: w.hwnd}
}

// Destroy destroys the HWND. WM_DESTROY drops it from the platform.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	if !destroyWindow(w.hwnd) {
		w.forget()
	}
}

// forget drops the window from the platform and the event queue.
func (w *Window) forget() {
	w.destroyed = true
	delete(w.p.windows, w.hwnd)
	queue := w.p.queue[:0]
	for _, ev := range w.p.queue {
		if ev.Target != w.handler || w.handler == nil {
			queue = append(queue, ev)
		}
	}
	w.p.queue = queue
}

func (w *Window) post(ev wsi.Event) {
	ev.Target = w.handler
	w.p.post(ev)
}
