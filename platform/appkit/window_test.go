// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build darwin

package appkit

import (
	"testing"

	"github.com/gogpu/wsi"
)

func TestStyleMask(t *testing.T) {
	tests := []struct {
		closable, resizable bool
		want                uint
	}{
		{false, false, nsWindowStyleMaskTitled | nsWindowStyleMaskMiniaturizable},
		{true, false, nsWindowStyleMaskTitled | nsWindowStyleMaskMiniaturizable | nsWindowStyleMaskClosable},
		{false, true, nsWindowStyleMaskTitled | nsWindowStyleMaskMiniaturizable | nsWindowStyleMaskResizable},
		{true, true, 0xf},
	}
	for _, tt := range tests {
		got := styleMask(wsi.WindowConfig{Closable: tt.closable, Resizable: tt.resizable})
		if got != tt.want {
			t.Errorf("styleMask(closable=%v, resizable=%v) = %#x, want %#x", tt.closable, tt.resizable, got, tt.want)
		}
	}
}

func TestCreateWindowBeforeInit(t *testing.T) {
	p := New(WithAppName("test"))
	if _, err := p.CreateWindow(wsi.WindowConfig{Width: 64, Height: 64}, nil); err != ErrNotInitialized {
		t.Errorf("CreateWindow() error = %v, want %v", err, ErrNotInitialized)
	}
	if _, ok := p.NextEvent(); ok {
		t.Error("NextEvent() before Init should report a terminated loop")
	}
}
