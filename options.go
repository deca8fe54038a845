package wsi

import (
	"time"

	"github.com/gogpu/gputypes"
)

// RenderMode controls when a renderable window receives Render callbacks.
type RenderMode int

const (
	// RenderOnDemand renders only when the platform asks for a repaint or
	// the window is marked dirty.
	RenderOnDemand RenderMode = iota

	// RenderContinuous requests a new frame after every rendered frame.
	RenderContinuous
)

func (m RenderMode) String() string {
	switch m {
	case RenderOnDemand:
		return "on-demand"
	case RenderContinuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// WindowOption configures a Window during creation.
//
// Example:
//
//	w, err := app.CreateWindow(640, 360, "tool",
//	    wsi.WithResizable(false),
//	    wsi.WithClosable(true),
//	)
type WindowOption func(*WindowConfig)

func defaultWindowConfig(width, height int, title string) WindowConfig {
	return WindowConfig{
		Width:     width,
		Height:    height,
		Title:     title,
		Closable:  true,
		Resizable: true,
	}
}

// WithClosable sets whether the window has a working close control.
func WithClosable(closable bool) WindowOption {
	return func(c *WindowConfig) { c.Closable = closable }
}

// WithResizable sets whether the user can resize or maximize the window.
func WithResizable(resizable bool) WindowOption {
	return func(c *WindowConfig) { c.Resizable = resizable }
}

// WithTransparent requests a window whose background the compositor blends
// with what is behind it. Platforms without support log a warning and
// create an opaque window.
func WithTransparent(transparent bool) WindowOption {
	return func(c *WindowConfig) { c.Transparent = transparent }
}

// WithRenderMode sets when Render is called. The default is RenderOnDemand.
func WithRenderMode(mode RenderMode) WindowOption {
	return func(c *WindowConfig) { c.RenderMode = mode }
}

// AppOption configures an Application.
type AppOption func(*appOptions)

type appOptions struct {
	name                   string
	quitOnLastWindowClosed bool
}

func defaultAppOptions() appOptions {
	return appOptions{
		name:                   "wsi",
		quitOnLastWindowClosed: true,
	}
}

// WithAppName sets the application name reported to the platform.
func WithAppName(name string) AppOption {
	return func(o *appOptions) { o.name = name }
}

// WithQuitOnLastWindowClosed sets whether closing the last window ends
// Run. The default is true.
func WithQuitOnLastWindowClosed(quit bool) AppOption {
	return func(o *appOptions) { o.quitOnLastWindowClosed = quit }
}

// RendererOption configures a SurfaceRenderer.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	presentModes []gputypes.PresentMode
	maxRetries   int
	fenceTimeout time.Duration
	scene        Scene
}

// DefaultFenceTimeout bounds every wait for a frame to retire.
const DefaultFenceTimeout = 5 * time.Second

func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		presentModes: DefaultPresentModes,
		maxRetries:   1,
		fenceTimeout: DefaultFenceTimeout,
		scene:        Scene{ClearColor: DefaultClearColor},
	}
}

// WithPresentModes sets the present mode preference, most preferred first.
// When none is supported the first mode reported by the surface is used.
func WithPresentModes(modes ...gputypes.PresentMode) RendererOption {
	return func(o *rendererOptions) { o.presentModes = modes }
}

// WithMaxOutOfDateRetries sets how many times one Render call rebuilds the
// swapchain after an out-of-date report before giving up. The default is 1.
// Negative values are treated as 0.
func WithMaxOutOfDateRetries(n int) RendererOption {
	return func(o *rendererOptions) { o.maxRetries = max(n, 0) }
}

// WithFenceTimeout bounds the wait for each frame to retire.
func WithFenceTimeout(d time.Duration) RendererOption {
	return func(o *rendererOptions) { o.fenceTimeout = d }
}

// WithScene sets the initial scene.
func WithScene(s Scene) RendererOption {
	return func(o *rendererOptions) { o.scene = s }
}
