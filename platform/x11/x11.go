// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux || freebsd || netbsd

// Package x11 implements wsi.Platform on the X Window System.
//
// The protocol is spoken with the pure Go xgb client. Windows use a 32-bit
// TrueColor visual when the server has one so that transparent windows can
// be composited, falling back to 24 bits. Closing is negotiated through
// WM_DELETE_WINDOW and the window manager is told which actions a window
// allows through _NET_WM_ALLOWED_ACTIONS.
//
// The platform registers itself as "x11" when DISPLAY is set.
package x11

import (
	"errors"
	"fmt"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/gogpu/wsi"
)

func init() {
	if os.Getenv("DISPLAY") != "" {
		wsi.RegisterPlatform("x11", func() wsi.Platform { return New() })
	}
}

var (
	ErrNotInitialized = errors.New("x11: platform not initialized")
	ErrNoVisual       = errors.New("x11: no TrueColor visual")
)

const eventMask = xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange

// Option configures a Platform.
type Option func(*Platform)

// WithDisplay connects to name instead of $DISPLAY.
func WithDisplay(name string) Option {
	return func(p *Platform) { p.display = name }
}

// Platform is the X11 window system.
type Platform struct {
	display string

	conn     *xgb.Conn
	xlib     *xlib
	screen   *xproto.ScreenInfo
	visual   xproto.Visualid
	depth    byte
	colormap xproto.Colormap
	atoms    atomTable

	windows map[xproto.Window]*Window
	order   []*Window
	queue   []wsi.Event
	focused bool
	closed  bool
}

var _ wsi.Platform = (*Platform)(nil)

// New returns an unconnected platform.
func New(opts ...Option) *Platform {
	p := &Platform{
		display: os.Getenv("DISPLAY"),
		windows: make(map[xproto.Window]*Window),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "x11".
func (p *Platform) Name() string { return "x11" }

// Init connects to the server, picks the visual, creates its colormap and
// interns the atoms. It posts EventReady.
func (p *Platform) Init() error {
	conn, err := xgb.NewConnDisplay(p.display)
	if err != nil {
		return fmt.Errorf("x11: connect %q: %w", p.display, err)
	}
	p.conn = conn
	p.screen = xproto.Setup(conn).DefaultScreen(conn)

	visual, depth, ok := pickVisual(p.screen, 32, 24)
	if !ok {
		p.Shutdown()
		return ErrNoVisual
	}
	p.visual, p.depth = visual, depth

	cmap, err := xproto.NewColormapId(conn)
	if err != nil {
		p.Shutdown()
		return fmt.Errorf("x11: colormap id: %w", err)
	}
	if err := xproto.CreateColormapChecked(conn, xproto.ColormapAllocNone, cmap, p.screen.Root, visual).Check(); err != nil {
		p.Shutdown()
		return fmt.Errorf("x11: create colormap: %w", err)
	}
	p.colormap = cmap

	if p.atoms, err = internAtoms(conn, atomNames); err != nil {
		p.Shutdown()
		return err
	}

	// Without libX11 windows still work; only GPU surfaces are unavailable.
	if p.xlib, err = openXlib(p.display); err != nil {
		wsi.Logger().Warn("x11: no Xlib display for GPU surfaces", "err", err)
	}

	wsi.Logger().Debug("x11: connected", "display", p.display, "depth", depth, "visual", visual)
	p.post(wsi.Event{Kind: wsi.EventReady})
	return nil
}

// CreateWindow creates an unmapped window for h.
func (p *Platform) CreateWindow(cfg wsi.WindowConfig, h wsi.EventHandler) (wsi.NativeWindow, error) {
	if p.conn == nil {
		return nil, ErrNotInitialized
	}
	if cfg.Transparent && p.depth != 32 {
		wsi.Logger().Warn("x11: no 32-bit visual, window will be opaque", "title", cfg.Title)
	}

	wid, err := xproto.NewWindowId(p.conn)
	if err != nil {
		return nil, fmt.Errorf("x11: window id: %w", err)
	}
	// Values follow the bit order of the mask.
	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwEventMask | xproto.CwColormap)
	values := []uint32{0, 0, eventMask, uint32(p.colormap)}
	err = xproto.CreateWindowChecked(p.conn, p.depth, wid, p.screen.Root,
		0, 0, uint16(cfg.Width), uint16(cfg.Height), 0,
		xproto.WindowClassInputOutput, p.visual, mask, values).Check()
	if err != nil {
		return nil, fmt.Errorf("x11: create window: %w", err)
	}

	w := &Window{p: p, id: wid, handler: h, width: cfg.Width, height: cfg.Height}
	if err := w.setProperties(cfg); err != nil {
		xproto.DestroyWindow(p.conn, wid)
		return nil, err
	}
	p.windows[wid] = w
	p.order = append(p.order, w)
	return w, nil
}

// NextEvent delivers, in order: queued events, events already received
// from the server, pending redraws, then blocks for the server.
func (p *Platform) NextEvent() (wsi.Event, bool) {
	for {
		if len(p.queue) > 0 {
			ev := p.queue[0]
			p.queue = p.queue[1:]
			return ev, true
		}
		if p.closed || p.conn == nil {
			return wsi.Event{}, false
		}

		xev, xerr := p.conn.PollForEvent()
		if xev == nil && xerr == nil {
			if w := p.pendingRedraw(); w != nil {
				w.redraw = false
				return wsi.Event{Kind: wsi.EventPaint, Target: w.handler}, true
			}
			xev, xerr = p.conn.WaitForEvent()
			if xev == nil && xerr == nil {
				p.closed = true
				continue
			}
		}
		if xerr != nil {
			wsi.Logger().Warn("x11: protocol error", "err", xerr)
			continue
		}
		p.translate(xev)
	}
}

func (p *Platform) pendingRedraw() *Window {
	for _, w := range p.order {
		if w.redraw && !w.destroyed {
			return w
		}
	}
	return nil
}

func (p *Platform) translate(xev xgb.Event) {
	switch e := xev.(type) {
	case xproto.ConfigureNotifyEvent:
		w := p.windows[e.Window]
		if w == nil {
			return
		}
		width, height := int(e.Width), int(e.Height)
		if width == w.width && height == w.height {
			return
		}
		w.width, w.height = width, height
		w.post(wsi.Event{Kind: wsi.EventResize, Width: width, Height: height})
	case xproto.ExposeEvent:
		// Only the last of a batch of exposures triggers a paint.
		if w := p.windows[e.Window]; w != nil && e.Count == 0 {
			w.redraw = false
			w.post(wsi.Event{Kind: wsi.EventPaint})
		}
	case xproto.ClientMessageEvent:
		w := p.windows[e.Window]
		if w == nil || e.Type != p.atoms["WM_PROTOCOLS"] || len(e.Data.Data32) == 0 {
			return
		}
		if xproto.Atom(e.Data.Data32[0]) == p.atoms["WM_DELETE_WINDOW"] {
			w.post(wsi.Event{Kind: wsi.EventClose})
		}
	case xproto.FocusInEvent:
		if e.Mode != xproto.NotifyModeNormal || p.focused {
			return
		}
		p.focused = true
		p.post(wsi.Event{Kind: wsi.EventActivated})
	case xproto.FocusOutEvent:
		if e.Mode == xproto.NotifyModeNormal {
			p.focused = false
		}
	case xproto.DestroyNotifyEvent:
		if w := p.windows[e.Window]; w != nil {
			w.forget()
		}
	}
}

// Quit queues EventQuit.
func (p *Platform) Quit(code int) {
	p.post(wsi.Event{Kind: wsi.EventQuit, Code: code})
}

// Shutdown destroys the remaining windows and closes both connections.
func (p *Platform) Shutdown() {
	if p.conn == nil {
		return
	}
	for _, w := range p.order {
		w.Destroy()
	}
	if p.colormap != 0 {
		xproto.FreeColormap(p.conn, p.colormap)
	}
	p.xlib.Close()
	p.conn.Close()
	p.conn = nil
	p.closed = true
}

func (p *Platform) post(ev wsi.Event) { p.queue = append(p.queue, ev) }
