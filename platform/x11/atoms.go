// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux || freebsd || netbsd

package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// atomNames lists every atom the platform interns at Init.
var atomNames = []string{
	"WM_PROTOCOLS",
	"WM_DELETE_WINDOW",
	"UTF8_STRING",
	"_NET_WM_NAME",
	"_NET_WM_ALLOWED_ACTIONS",
	"_NET_WM_ACTION_MOVE",
	"_NET_WM_ACTION_RESIZE",
	"_NET_WM_ACTION_MINIMIZE",
	"_NET_WM_ACTION_SHADE",
	"_NET_WM_ACTION_STICK",
	"_NET_WM_ACTION_MAXIMIZE_HORZ",
	"_NET_WM_ACTION_MAXIMIZE_VERT",
	"_NET_WM_ACTION_FULLSCREEN",
	"_NET_WM_ACTION_CHANGE_DESKTOP",
	"_NET_WM_ACTION_CLOSE",
	"_NET_WM_ACTION_ABOVE",
	"_NET_WM_ACTION_BELOW",
}

// baseActions are allowed on every window.
var baseActions = []string{
	"_NET_WM_ACTION_MOVE",
	"_NET_WM_ACTION_MINIMIZE",
	"_NET_WM_ACTION_SHADE",
	"_NET_WM_ACTION_STICK",
	"_NET_WM_ACTION_MAXIMIZE_HORZ",
	"_NET_WM_ACTION_MAXIMIZE_VERT",
	"_NET_WM_ACTION_FULLSCREEN",
	"_NET_WM_ACTION_CHANGE_DESKTOP",
	"_NET_WM_ACTION_ABOVE",
	"_NET_WM_ACTION_BELOW",
}

// allowedActions returns the _NET_WM_ALLOWED_ACTIONS entries for a window.
func allowedActions(closable, resizable bool) []string {
	actions := append([]string(nil), baseActions...)
	if closable {
		actions = append(actions, "_NET_WM_ACTION_CLOSE")
	}
	if resizable {
		actions = append(actions, "_NET_WM_ACTION_RESIZE")
	}
	return actions
}

type atomTable map[string]xproto.Atom

// internAtoms sends every request before reading the first reply.
func internAtoms(c *xgb.Conn, names []string) (atomTable, error) {
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(c, false, uint16(len(name)), name)
	}
	atoms := make(atomTable, len(names))
	for i, cookie := range cookies {
		reply, err := cookie.Reply()
		if err != nil {
			return nil, fmt.Errorf("x11: intern %s: %w", names[i], err)
		}
		atoms[names[i]] = reply.Atom
	}
	return atoms, nil
}

func (t atomTable) list(names []string) []xproto.Atom {
	out := make([]xproto.Atom, 0, len(names))
	for _, name := range names {
		if a, ok := t[name]; ok {
			out = append(out, a)
		}
	}
	return out
}

// atomBytes encodes atoms as a format-32 property value.
func atomBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, 4*len(atoms))
	for i, a := range atoms {
		xgb.Put32(buf[4*i:], uint32(a))
	}
	return buf
}

var latin1 = encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())

// latin1Title encodes a caption for WM_NAME, whose STRING type is
// ISO-8859-1. Unencodable runes are replaced; _NET_WM_NAME carries the
// exact UTF-8 title.
func latin1Title(title string) []byte {
	b, err := latin1.Bytes([]byte(title))
	if err != nil {
		return []byte(title)
	}
	return b
}

// pickVisual returns the first TrueColor visual of the deepest preferred
// depth the screen offers.
func pickVisual(screen *xproto.ScreenInfo, depths ...byte) (xproto.Visualid, byte, bool) {
	for _, want := range depths {
		for _, d := range screen.AllowedDepths {
			if d.Depth != want {
				continue
			}
			for _, v := range d.Visuals {
				if v.Class == xproto.VisualClassTrueColor {
					return v.VisualId, d.Depth, true
				}
			}
		}
	}
	return 0, 0, false
}

// scaleFactor derives a scale from the physical screen size, relative to
// 96 DPI and rounded to quarters.
func scaleFactor(screen *xproto.ScreenInfo) float64 {
	if screen.WidthInMillimeters == 0 {
		return 1
	}
	dpi := float64(screen.WidthInPixels) * 25.4 / float64(screen.WidthInMillimeters)
	s := float64(int(dpi/96*4+0.5)) / 4
	if s < 1 {
		return 1
	}
	return s
}
