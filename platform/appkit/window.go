// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build darwin

package appkit

import (
	"errors"

	"github.com/ebitengine/purego/objc"

	"github.com/gogpu/wsi"
)

// Window is an NSWindow.
type Window struct {
	p       *Platform
	ns      objc.ID
	layer   objc.ID
	handler wsi.EventHandler

	redraw    bool
	destroyed bool
}

var _ wsi.NativeWindow = (*Window)(nil)

// styleMask maps the window options onto NSWindowStyleMask.
func styleMask(cfg wsi.WindowConfig) uint {
	mask := uint(nsWindowStyleMaskTitled | nsWindowStyleMaskMiniaturizable)
	if cfg.Closable {
		mask |= nsWindowStyleMaskClosable
	}
	if cfg.Resizable {
		mask |= nsWindowStyleMaskResizable
	}
	return mask
}

// attachLayer backs the content view with a CAMetalLayer.
func (w *Window) attachLayer(transparent bool) error {
	view := w.ns.Send(selContentView)
	layer := class("CAMetalLayer").Send(selNew)
	if view == 0 || layer == 0 {
		return errors.New("appkit: no content view or CAMetalLayer")
	}
	view.Send(selSetWantsLayer, true)
	view.Send(selSetLayer, layer)
	layer.Send(selSetContentsScale, w.ScaleFactor())
	if transparent {
		layer.Send(selSetOpaque, false)
	}
	w.layer = layer
	return nil
}

// Show orders the window front, makes it key and schedules a paint.
func (w *Window) Show() {
	if w.destroyed {
		return
	}
	w.ns.Send(selMakeKeyAndOrderFront, objc.ID(0))
	w.redraw = true
}

// ClientSize returns the content view size in points.
func (w *Window) ClientSize() (int, int) {
	if w.destroyed {
		return 0, 0
	}
	view := w.ns.Send(selContentView)
	if view == 0 {
		return 0, 0
	}
	r := objc.Send[nsRect](view, selFrame)
	return int(r.Size.Width), int(r.Size.Height)
}

// ScaleFactor returns the backing scale factor of the window's screen.
func (w *Window) ScaleFactor() float64 {
	if w.destroyed {
		return 1
	}
	if s := objc.Send[float64](w.ns, selBackingScaleFactor); s > 0 {
		return s
	}
	return 1
}

// RequestRedraw schedules one paint, delivered once AppKit has no events
// pending.
func (w *Window) RequestRedraw() { w.redraw = true }

// Handles returns the CAMetalLayer as the window handle.
func (w *Window) Handles() wsi.NativeHandles {
	return wsi.NativeHandles{Window: uintptr(w.layer)}
}

// Destroy closes and releases the NSWindow.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	delete(w.p.windows, w.ns)
	queue := w.p.queue[:0]
	for _, ev := range w.p.queue {
		if ev.Target != w.handler || w.handler == nil {
			queue = append(queue, ev)
		}
	}
	w.p.queue = queue

	w.ns.Send(selSetDelegate, objc.ID(0))
	w.ns.Send(selClose)
	if w.layer != 0 {
		w.layer.Send(selRelease)
		w.layer = 0
	}
	w.ns.Send(selRelease)
}

func (w *Window) post(ev wsi.Event) {
	ev.Target = w.handler
	w.p.post(ev)
}
