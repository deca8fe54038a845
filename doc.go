// Package wsi connects native windows to GPU presentation surfaces.
//
// # Overview
//
// wsi (window system integration) hides three windowing substrates (AppKit,
// Win32 and X11) behind one event-driven abstraction and keeps the lifetime
// of presentation resources (surface, swapchain, framebuffers, command
// buffers) in step with the geometry and visibility of the window they draw
// into.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/wsi"
//	    "github.com/gogpu/wsi/gpu/halgpu"
//	    _ "github.com/gogpu/wsi/platform/x11"
//	)
//
//	type demo struct{ gpu *wsi.GPUContext }
//
//	func (d *demo) PostInit(app *wsi.Application) {
//	    r := wsi.NewSurfaceRenderer(d.gpu)
//	    w, err := app.CreateRenderableWindow(640, 360, "demo", r)
//	    if err != nil {
//	        app.Quit(1)
//	        return
//	    }
//	    w.Show()
//	}
//
//	platform, _ := wsi.DefaultPlatform()
//	app := wsi.NewApplication(platform)
//	code, err := app.Run(&demo{gpu: gpu})
//
// # Architecture
//
// The package is organized into:
//   - Cells: LazyCell (set once) and DiscardableCell (set, discard, rebuild)
//   - Hosts: Application owns the event loop, Window owns one native window
//   - Delegates: EventDelegate and WindowEventDelegate receive callbacks
//   - Presentation: SurfaceDescriptor, RenderTargetSet, RenderCommandSet
//   - SurfaceRenderer: the swapchain validity state machine
//
// Platforms live in platform/headless, platform/x11, platform/win32 and
// platform/appkit. The GPU boundary is implemented by gpu/halgpu on top of
// gogpu/wgpu.
//
// # Threading
//
// All callbacks run on the goroutine that called [Application.Run], which
// must be locked to the main OS thread on platforms that require it. No type
// in this package is safe for concurrent use unless documented otherwise.
package wsi
