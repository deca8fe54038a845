package wsi

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// WindowState is the lifecycle state of a Window.
type WindowState int

const (
	// WindowCreated: the native window exists, the view does not.
	WindowCreated WindowState = iota
	// WindowViewReady: the view exists and InitView is running.
	WindowViewReady
	// WindowLive: InitView succeeded; Resize and Render are delivered.
	WindowLive
	// WindowDestroyed: the native window has been released.
	WindowDestroyed
)

func (s WindowState) String() string {
	switch s {
	case WindowCreated:
		return "Created"
	case WindowViewReady:
		return "ViewReady"
	case WindowLive:
		return "Live"
	case WindowDestroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("WindowState(%d)", int(s))
	}
}

// View is the renderer-facing side of a renderable window.
type View struct {
	window  *Window
	handles NativeHandles
}

// Handles returns the native handles a GPU surface is created from.
func (v *View) Handles() NativeHandles { return v.handles }

// LogicalExtent returns the last size the window was created with or
// resized to.
func (v *View) LogicalExtent() Extent {
	return Extent{Width: uint32(max(v.window.width, 0)), Height: uint32(max(v.window.height, 0))}
}

// Window returns the window the view belongs to.
func (v *View) Window() *Window { return v.window }

// MarkDirty requests a Render at the next repaint opportunity.
func (v *View) MarkDirty() { v.window.MarkDirty() }

// Window hosts one native window and, for renderable windows, the
// WindowEventDelegate drawing into it.
//
// A Window holds a plain reference to its Application; the Application
// only counts live windows.
type Window struct {
	app      *Application
	native   NativeWindow
	cfg      WindowConfig
	delegate WindowEventDelegate
	view     *View
	state    WindowState
	shown    bool

	width, height int

	// liveResize is set while an interactive resize is in progress.
	liveResize bool
}

var (
	_ EventHandler              = (*Window)(nil)
	_ gpucontext.WindowProvider = (*Window)(nil)
)

func (cfg WindowConfig) validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidWindowConfig, cfg.Width, cfg.Height)
	}
	if cfg.RenderMode != RenderOnDemand && cfg.RenderMode != RenderContinuous {
		return fmt.Errorf("%w: render mode %d", ErrInvalidWindowConfig, int(cfg.RenderMode))
	}
	return nil
}

func newWindow(app *Application, cfg WindowConfig, delegate WindowEventDelegate) (*Window, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	w := &Window{
		app:      app,
		cfg:      cfg,
		delegate: delegate,
		width:    cfg.Width,
		height:   cfg.Height,
	}
	native, err := app.platform.CreateWindow(cfg, w)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWindowCreation, err)
	}
	w.native = native
	w.state = WindowCreated
	Logger().Info("wsi: window created", "title", cfg.Title, "size", Extent{uint32(cfg.Width), uint32(cfg.Height)})

	if delegate != nil {
		w.view = &View{window: w, handles: native.Handles()}
		w.state = WindowViewReady
		if err := delegate.InitView(w.view); err != nil {
			// Not counted as open yet: no last-window quit.
			w.destroy()
			return nil, err
		}
		w.state = WindowLive
	}
	app.windowOpened()
	return w, nil
}

// Show makes the window visible and focused. Showing a shown window does
// nothing.
func (w *Window) Show() {
	if w.shown || w.state == WindowDestroyed {
		return
	}
	w.shown = true
	w.native.Show()
}

// MarkDirty requests a Render callback at the next repaint opportunity. It
// may be called from inside Render.
func (w *Window) MarkDirty() {
	if w.state == WindowDestroyed {
		return
	}
	w.native.RequestRedraw()
}

// ClientSize returns the current client size as reported by the platform.
func (w *Window) ClientSize() (width, height int) {
	if w.state == WindowDestroyed {
		return 0, 0
	}
	return w.native.ClientSize()
}

// Size implements gpucontext.WindowProvider.
func (w *Window) Size() (width, height int) { return w.ClientSize() }

// ScaleFactor implements gpucontext.WindowProvider.
func (w *Window) ScaleFactor() float64 {
	if w.state == WindowDestroyed {
		return 1
	}
	return w.native.ScaleFactor()
}

// RequestRedraw implements gpucontext.WindowProvider.
func (w *Window) RequestRedraw() { w.MarkDirty() }

// State returns the lifecycle state.
func (w *Window) State() WindowState { return w.state }

// Config returns the configuration the window was created with.
func (w *Window) Config() WindowConfig { return w.cfg }

// Application returns the application that created the window.
func (w *Window) Application() *Application { return w.app }

// Close tears the window down: the delegate's resources first, then the
// native window. Closing a closed window does nothing.
func (w *Window) Close() {
	if w.state == WindowDestroyed {
		return
	}
	w.destroy()
	w.app.windowClosed()
}

func (w *Window) destroy() {
	w.state = WindowDestroyed
	if d, ok := w.delegate.(Destroyer); ok {
		d.Destroy()
	}
	w.native.Destroy()
	Logger().Info("wsi: window closed", "title", w.cfg.Title)
}

// HandleEvent implements EventHandler. Platforms call it (through the
// Application loop) for events targeting this window.
func (w *Window) HandleEvent(ev Event) {
	if w.state == WindowDestroyed {
		return
	}
	switch ev.Kind {
	case EventResize:
		w.width, w.height = ev.Width, ev.Height
		w.liveResize = ev.Live
		w.dispatchResize(ev.Width, ev.Height, ev.Live)
	case EventResizeEnd:
		if !w.liveResize {
			return
		}
		w.liveResize = false
		w.dispatchResize(w.width, w.height, false)
	case EventPaint:
		w.dispatchRender()
	case EventClose:
		if !w.cfg.Closable {
			return
		}
		w.Close()
	}
}

func (w *Window) dispatchResize(width, height int, live bool) {
	if w.state != WindowLive {
		return
	}
	if err := w.delegate.Resize(width, height, live); err != nil {
		w.app.fail(fmt.Errorf("wsi: resize %q to %dx%d: %w", w.cfg.Title, width, height, err))
	}
}

func (w *Window) dispatchRender() {
	if w.state != WindowLive {
		return
	}
	if err := w.delegate.Render(); err != nil {
		w.app.fail(fmt.Errorf("wsi: render %q: %w", w.cfg.Title, err))
		return
	}
	if w.cfg.RenderMode != RenderContinuous || w.state != WindowLive {
		return
	}
	if i, ok := w.delegate.(Idler); ok && i.Idle() {
		return
	}
	w.native.RequestRedraw()
}
