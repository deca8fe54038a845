// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux || freebsd || netbsd

package x11

import (
	"fmt"

	"github.com/jezek/xgb/xproto"

	"github.com/gogpu/wsi"
)

// Window is an X11 top-level window.
type Window struct {
	p       *Platform
	id      xproto.Window
	handler wsi.EventHandler

	width, height int
	redraw        bool
	destroyed     bool
}

var _ wsi.NativeWindow = (*Window)(nil)

func (w *Window) setProperties(cfg wsi.WindowConfig) error {
	c, atoms := w.p.conn, w.p.atoms
	change := func(prop, typ xproto.Atom, format byte, n int, data []byte) error {
		return xproto.ChangePropertyChecked(c, xproto.PropModeReplace, w.id, prop, typ, format, uint32(n), data).Check()
	}

	protocols := []xproto.Atom{atoms["WM_DELETE_WINDOW"]}
	if err := change(atoms["WM_PROTOCOLS"], xproto.AtomAtom, 32, len(protocols), atomBytes(protocols)); err != nil {
		return fmt.Errorf("x11: WM_PROTOCOLS: %w", err)
	}

	name := latin1Title(cfg.Title)
	if err := change(xproto.AtomWmName, xproto.AtomString, 8, len(name), name); err != nil {
		return fmt.Errorf("x11: WM_NAME: %w", err)
	}
	if err := change(atoms["_NET_WM_NAME"], atoms["UTF8_STRING"], 8, len(cfg.Title), []byte(cfg.Title)); err != nil {
		return fmt.Errorf("x11: _NET_WM_NAME: %w", err)
	}

	actions := atoms.list(allowedActions(cfg.Closable, cfg.Resizable))
	if err := change(atoms["_NET_WM_ALLOWED_ACTIONS"], xproto.AtomAtom, 32, len(actions), atomBytes(actions)); err != nil {
		return fmt.Errorf("x11: _NET_WM_ALLOWED_ACTIONS: %w", err)
	}
	return nil
}

// Show maps the window.
func (w *Window) Show() {
	if w.destroyed {
		return
	}
	if err := xproto.MapWindowChecked(w.p.conn, w.id).Check(); err != nil {
		wsi.Logger().Warn("x11: map window", "window", w.id, "err", err)
	}
}

// ClientSize returns the size last reported by the server.
func (w *Window) ClientSize() (int, int) { return w.width, w.height }

// ScaleFactor is derived from the physical size of the screen.
func (w *Window) ScaleFactor() float64 { return scaleFactor(w.p.screen) }

// RequestRedraw marks the window for a paint once the server queue is
// drained.
func (w *Window) RequestRedraw() { w.redraw = true }

// Handles returns the Xlib display and the window XID.
func (w *Window) Handles() wsi.NativeHandles {
	h := wsi.NativeHandles{Window: uintptr(w.id)}
	if w.p.xlib != nil {
		h.Display = w.p.xlib.display
	}
	return h
}

// Destroy destroys the native window.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	if w.p.conn != nil {
		xproto.DestroyWindow(w.p.conn, w.id)
	}
	w.forget()
}

// forget drops the window from the platform and the event queue.
func (w *Window) forget() {
	w.destroyed = true
	delete(w.p.windows, w.id)
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
