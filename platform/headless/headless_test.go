// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"errors"
	"testing"

	"github.com/gogpu/wsi"
)

type handler struct{ events []wsi.Event }

func (h *handler) HandleEvent(ev wsi.Event) { h.events = append(h.events, ev) }

func drain(p *Platform) []wsi.EventKind {
	var kinds []wsi.EventKind
	for {
		ev, ok := p.NextEvent()
		if !ok {
			return kinds
		}
		kinds = append(kinds, ev.Kind)
	}
}

func TestCreateWindowBeforeInit(t *testing.T) {
	p := New()
	if _, err := p.CreateWindow(wsi.WindowConfig{Width: 1, Height: 1}, &handler{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CreateWindow() before Init = %v, want ErrNotInitialized", err)
	}
}

func TestInitError(t *testing.T) {
	cause := errors.New("boom")
	if err := New(WithInitError(cause)).Init(); !errors.Is(err, cause) {
		t.Errorf("Init() = %v, want %v", err, cause)
	}
}

func TestEventOrder(t *testing.T) {
	p := New()
	if err := p.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	h := &handler{}
	nw, err := p.CreateWindow(wsi.WindowConfig{Width: 10, Height: 20}, h)
	if err != nil {
		t.Fatalf("CreateWindow() = %v", err)
	}
	w := nw.(*Window)
	w.RequestRedraw()
	w.RequestRedraw()
	p.Then(func(*Platform) { w.Resize(30, 40) }, func(p *Platform) { p.Quit(2) })

	got := drain(p)
	want := []wsi.EventKind{wsi.EventReady, wsi.EventPaint, wsi.EventResize, wsi.EventQuit}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	if p.Paints() != 1 {
		t.Errorf("Paints() = %d, want 1", p.Paints())
	}
	if w.RedrawRequests() != 2 {
		t.Errorf("RedrawRequests() = %d, want 2", w.RedrawRequests())
	}
	if width, height := w.ClientSize(); width != 30 || height != 40 {
		t.Errorf("ClientSize() = %dx%d, want 30x40", width, height)
	}
}

func TestDrag(t *testing.T) {
	p := New()
	_ = p.Init()
	h := &handler{}
	nw, _ := p.CreateWindow(wsi.WindowConfig{Width: 10, Height: 10}, h)
	w := nw.(*Window)
	p.queue = nil

	w.Drag([2]int{11, 12}, [2]int{13, 14})
	var evs []wsi.Event
	for {
		ev, ok := p.NextEvent()
		if !ok {
			break
		}
		evs = append(evs, ev)
	}
	if len(evs) != 3 {
		t.Fatalf("events = %d, want 3", len(evs))
	}
	for _, ev := range evs[:2] {
		if ev.Kind != wsi.EventResize || !ev.Live || ev.Target != h {
			t.Errorf("drag event = %+v, want live resize targeting the window", ev)
		}
	}
	if evs[2].Kind != wsi.EventResizeEnd {
		t.Errorf("last event = %v, want ResizeEnd", evs[2].Kind)
	}
}

func TestDestroyedWindowNotPainted(t *testing.T) {
	p := New()
	_ = p.Init()
	nw, _ := p.CreateWindow(wsi.WindowConfig{Width: 10, Height: 10}, &handler{})
	nw.RequestRedraw()
	nw.Destroy()
	if got := drain(p); len(got) != 1 || got[0] != wsi.EventReady {
		t.Errorf("events = %v, want only Ready", got)
	}
}

func TestHandlesUnique(t *testing.T) {
	p := New()
	_ = p.Init()
	a, _ := p.CreateWindow(wsi.WindowConfig{Width: 1, Height: 1}, &handler{})
	b, _ := p.CreateWindow(wsi.WindowConfig{Width: 1, Height: 1}, &handler{})
	if a.Handles() == b.Handles() {
		t.Errorf("Handles() equal for two windows: %v", a.Handles())
	}
	if len(p.Windows()) != 2 || p.Window(2) != nil {
		t.Errorf("Windows() = %d, Window(2) = %v", len(p.Windows()), p.Window(2))
	}
}
