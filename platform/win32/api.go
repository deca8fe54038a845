// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package win32

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

const (
	csOwnDC   = 0x0020
	csNoClose = 0x0200

	wsBorder      = 0x00800000
	wsCaption     = 0x00C00000
	wsSysMenu     = 0x00080000
	wsThickFrame  = 0x00040000
	wsMinimizeBox = 0x00020000
	wsMaximizeBox = 0x00010000

	cwUseDefault = ^0x7fffffff
	swShowNormal = 1
	idcArrow     = 32512
	gwlpUserData = -21

	wmDestroy       = 0x0002
	wmSize          = 0x0005
	wmPaint         = 0x000F
	wmClose         = 0x0010
	wmActivateApp   = 0x001C
	wmEnterSizeMove = 0x0231
	wmExitSizeMove  = 0x0232
	wmDpiChanged    = 0x02E0

	sizeMinimized = 1

	userDefaultDPI = 96
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

type rect struct {
	Left, Top, Right, Bottom int32
}

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

var (
	getModuleHandle    func(name *uint16) uintptr
	registerClassEx    func(wc *wndClassEx) uint16
	createWindowEx     func(exStyle uint32, className, windowName *uint16, style uint32, x, y, width, height int32, parent, menu, instance uintptr, param unsafe.Pointer) uintptr
	destroyWindow      func(hwnd uintptr) bool
	adjustWindowRectEx func(r *rect, style uint32, menu bool, exStyle uint32) bool
	showWindow         func(hwnd uintptr, cmd int32) bool
	getClientRect      func(hwnd uintptr, r *rect) bool
	invalidateRect     func(hwnd uintptr, r *rect, erase bool) bool
	validateRect       func(hwnd uintptr, r *rect) bool
	loadCursor         func(instance uintptr, name uintptr) uintptr
	getMessage         func(m *msg, hwnd uintptr, min, max uint32) int32
	translateMessage   func(m *msg) bool
	dispatchMessage    func(m *msg) uintptr
	defWindowProc      func(hwnd uintptr, message uint32, wParam, lParam uintptr) uintptr
	postQuitMessage    func(code int32)

	getDpiForWindow = windows.NewLazySystemDLL("user32.dll").NewProc("GetDpiForWindow")
)

func init() {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll").Handle()
	purego.RegisterLibFunc(&getModuleHandle, kernel32, "GetModuleHandleW")

	user32 := windows.NewLazySystemDLL("user32.dll").Handle()
	purego.RegisterLibFunc(&registerClassEx, user32, "RegisterClassExW")
	purego.RegisterLibFunc(&createWindowEx, user32, "CreateWindowExW")
	purego.RegisterLibFunc(&destroyWindow, user32, "DestroyWindow")
	purego.RegisterLibFunc(&adjustWindowRectEx, user32, "AdjustWindowRectEx")
	purego.RegisterLibFunc(&showWindow, user32, "ShowWindow")
	purego.RegisterLibFunc(&getClientRect, user32, "GetClientRect")
	purego.RegisterLibFunc(&invalidateRect, user32, "InvalidateRect")
	purego.RegisterLibFunc(&validateRect, user32, "ValidateRect")
	purego.RegisterLibFunc(&loadCursor, user32, "LoadCursorW")
	purego.RegisterLibFunc(&getMessage, user32, "GetMessageW")
	purego.RegisterLibFunc(&translateMessage, user32, "TranslateMessage")
	purego.RegisterLibFunc(&dispatchMessage, user32, "DispatchMessageW")
	purego.RegisterLibFunc(&defWindowProc, user32, "DefWindowProcW")
	purego.RegisterLibFunc(&postQuitMessage, user32, "PostQuitMessage")
}

// dpiFor returns the DPI of the monitor hwnd is on. GetDpiForWindow needs
// Windows 10 1607; older systems report the default.
func dpiFor(hwnd uintptr) uint32 {
	if getDpiForWindow.Find() != nil {
		return userDefaultDPI
	}
	dpi, _, _ := getDpiForWindow.Call(hwnd)
	if dpi == 0 {
		return userDefaultDPI
	}
	return uint32(dpi)
}
