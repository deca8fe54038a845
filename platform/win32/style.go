// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package win32

import "github.com/gogpu/wsi"

// windowStyle returns the window and class styles for cfg. A window that
// cannot be resized loses its sizing border and maximize box; one that
// cannot be closed gets a class without the close item.
func windowStyle(cfg wsi.WindowConfig) (style, classStyle uint32) {
	style = wsCaption | wsBorder | wsSysMenu | wsMinimizeBox
	if cfg.Resizable {
		style |= wsThickFrame | wsMaximizeBox
	}
	classStyle = csOwnDC
	if !cfg.Closable {
		classStyle |= csNoClose
	}
	return style, classStyle
}

// className names the window class registered for classStyle.
func className(classStyle uint32) string {
	if classStyle&csNoClose != 0 {
		return "wsi.window.noclose"
	}
	return "wsi.window"
}

// sizeEvent translates WM_SIZE. A minimized window has no drawable area and
// reports 0x0 whatever lParam holds.
func sizeEvent(wParam, lParam uintptr, dpi uint32, live bool) wsi.Event {
	if wParam == sizeMinimized {
		return wsi.Event{Kind: wsi.EventResize}
	}
	return wsi.Event{
		Kind:   wsi.EventResize,
		Width:  physicalToLogical(loword(lParam), dpi),
		Height: physicalToLogical(hiword(lParam), dpi),
		Live:   live,
	}
}

func loword(v uintptr) int { return int(uint16(v)) }
func hiword(v uintptr) int { return int(uint16(v >> 16)) }

// physicalToLogical converts a size reported by the system into logical
// pixels.
func physicalToLogical(v int, dpi uint32) int {
	if dpi == 0 || dpi == userDefaultDPI {
		return v
	}
	return (v*userDefaultDPI + int(dpi)/2) / int(dpi)
}
