// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	_ "github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/wsi"
	"github.com/gogpu/wsi/gpu/halgpu"
	"github.com/gogpu/wsi/platform/headless"
)

func openNoop(t *testing.T) *halgpu.Device {
	t.Helper()
	dev, err := halgpu.Open(halgpu.WithBackend(gputypes.BackendEmpty))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(dev.Destroy)
	return dev
}

func TestOpen(t *testing.T) {
	dev := openNoop(t)
	if dev.Backend() != gputypes.BackendEmpty {
		t.Errorf("Backend() = %v, want BackendEmpty", dev.Backend())
	}
	if dev.Info().Name == "" {
		t.Error("Info().Name is empty")
	}
	if dev.HAL() == nil {
		t.Error("HAL() = nil")
	}
}

func TestOpenUnregisteredBackend(t *testing.T) {
	_, err := halgpu.Open(halgpu.WithBackend(gputypes.BackendMetal))
	if !errors.Is(err, halgpu.ErrNoBackend) {
		t.Errorf("Open(metal) = %v, want ErrNoBackend", err)
	}
}

func TestSurfaceCapabilities(t *testing.T) {
	dev := openNoop(t)
	h := wsi.NativeHandles{Window: 1}
	if !dev.PresentationSupported(h) {
		t.Fatal("PresentationSupported() = false")
	}
	s, err := dev.CreateSurface(h)
	if err != nil {
		t.Fatalf("CreateSurface() = %v", err)
	}
	defer s.Destroy()

	caps, err := s.Capabilities()
	if err != nil {
		t.Fatalf("Capabilities() = %v", err)
	}
	if len(caps.Formats) == 0 || len(caps.PresentModes) == 0 {
		t.Errorf("Capabilities() = %+v, want formats and present modes", caps)
	}
	if !caps.CurrentExtent.IsUndefined() {
		t.Errorf("CurrentExtent = %v, want undefined", caps.CurrentExtent)
	}
	if caps.MinImageCount < 2 {
		t.Errorf("MinImageCount = %d, want >= 2", caps.MinImageCount)
	}
}

func TestResolveDescriptor(t *testing.T) {
	dev := openNoop(t)
	d, err := wsi.ResolveSurfaceDescriptor(dev, wsi.NativeHandles{Window: 7}, wsi.DefaultPresentModes)
	if err != nil {
		t.Fatalf("ResolveSurfaceDescriptor() = %v", err)
	}
	defer d.Destroy()
	if d.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want BGRA8Unorm", d.Format)
	}
	if d.PresentMode != gputypes.PresentModeMailbox {
		t.Errorf("PresentMode = %v, want Mailbox", d.PresentMode)
	}
	if d.AlphaMode != gputypes.CompositeAlphaModeUnpremultiplied {
		t.Errorf("AlphaMode = %v, want Unpremultiplied", d.AlphaMode)
	}
}

func TestFenceWithoutSubmit(t *testing.T) {
	dev := openNoop(t)
	f, err := dev.CreateFence()
	if err != nil {
		t.Fatalf("CreateFence() = %v", err)
	}
	if err := dev.WaitFence(f, time.Second); !errors.Is(err, halgpu.ErrFenceNotSubmitted) {
		t.Errorf("WaitFence() = %v, want ErrFenceNotSubmitted", err)
	}
	if err := dev.ResetFence(f); err != nil {
		t.Errorf("ResetFence() = %v", err)
	}
}

func TestSubmitBeforeAcquire(t *testing.T) {
	dev := openNoop(t)
	d, err := wsi.ResolveSurfaceDescriptor(dev, wsi.NativeHandles{Window: 3}, nil)
	if err != nil {
		t.Fatalf("ResolveSurfaceDescriptor() = %v", err)
	}
	defer d.Destroy()
	pass, _ := dev.CreateRenderPass(d.Format)
	targets, err := wsi.BuildRenderTargets(dev, d, pass, wsi.Extent{Width: 64, Height: 64})
	if err != nil {
		t.Fatalf("BuildRenderTargets() = %v", err)
	}
	defer targets.Destroy()
	cmds, err := wsi.RecordCommandSet(dev, targets, pass, nil, wsi.Scene{ClearColor: wsi.DefaultClearColor})
	if err != nil {
		t.Fatalf("RecordCommandSet() = %v", err)
	}
	defer cmds.Destroy()

	err = dev.Queue().Submit(wsi.SubmitInfo{Command: cmds.Buffers[0]})
	if !errors.Is(err, halgpu.ErrNotAcquired) {
		t.Errorf("Submit() before acquire = %v, want ErrNotAcquired", err)
	}
}

func TestForeignResource(t *testing.T) {
	dev := openNoop(t)
	if _, err := dev.CreateImageView(42, gputypes.TextureFormatBGRA8Unorm); !errors.Is(err, halgpu.ErrForeignResource) {
		t.Errorf("CreateImageView(int) = %v, want ErrForeignResource", err)
	}
}

func TestRenderTriangle(t *testing.T) {
	dev := openNoop(t)
	gpu := wsi.NewGPUContext(dev)
	r := wsi.NewSurfaceRenderer(gpu, wsi.WithScene(wsi.TriangleScene()))
	t.Cleanup(func() { runtime.KeepAlive(gpu) })

	p := headless.New()
	var win *wsi.Window
	p.Then(
		func(p *headless.Platform) { p.Window(0).Expose() },
		func(p *headless.Platform) { p.Window(0).Resize(320, 240) },
		func(p *headless.Platform) { p.Window(0).RequestClose() },
	)
	code, err := wsi.NewApplication(p).Run(wsi.DelegateFunc(func(app *wsi.Application) {
		var err error
		win, err = app.CreateRenderableWindow(640, 360, "triangle", r)
		if err != nil {
			t.Fatalf("CreateRenderableWindow() = %v", err)
		}
		win.Show()
	}))
	if err != nil || code != 0 {
		t.Fatalf("Run() = (%d, %v), want (0, nil)", code, err)
	}

	st := r.Stats()
	if st.Presents != 2 {
		t.Errorf("Presents = %d, want 2", st.Presents)
	}
	if st.TargetBuilds != 2 {
		t.Errorf("TargetBuilds = %d, want 2", st.TargetBuilds)
	}
	if win.State() != wsi.WindowDestroyed {
		t.Errorf("State() = %v, want Destroyed", win.State())
	}
	if got := gpu.SurfaceFormat(); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want BGRA8Unorm", got)
	}
}
