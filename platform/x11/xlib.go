// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux || freebsd || netbsd

package x11

import (
	"fmt"
	"runtime"

	"github.com/ebitengine/purego"
)

// xlib is the libX11 connection handed to Vulkan as the surface display.
// Windows are created and driven over the xgb connection; XIDs are global
// to the server, so the surface binds to them from either connection.
type xlib struct {
	display uintptr
	close   func(display uintptr) int32
}

func xlibName() string {
	if runtime.GOOS == "linux" {
		return "libX11.so.6"
	}
	return "libX11.so"
}

func openXlib(name string) (*xlib, error) {
	lib, err := purego.Dlopen(xlibName(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("x11: load %s: %w", xlibName(), err)
	}
	var open func(name string) uintptr
	x := &xlib{}
	purego.RegisterLibFunc(&open, lib, "XOpenDisplay")
	purego.RegisterLibFunc(&x.close, lib, "XCloseDisplay")
	x.display = open(name)
	if x.display == 0 {
		return nil, fmt.Errorf("x11: XOpenDisplay(%q) failed", name)
	}
	return x, nil
}

func (x *xlib) Close() {
	if x == nil || x.display == 0 {
		return
	}
	x.close(x.display)
	x.display = 0
}
