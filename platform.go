package wsi

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// EventKind identifies a platform event.
type EventKind int

const (
	EventNone EventKind = iota
	// EventReady is sent once, when the native application has finished
	// launching.
	EventReady
	// EventActivated is sent each time the application comes to the
	// foreground.
	EventActivated
	// EventResize reports a new client size. Live is set while the user
	// is still dragging.
	EventResize
	// EventResizeEnd is sent when an interactive resize ends.
	EventResizeEnd
	// EventPaint asks the window to render.
	EventPaint
	// EventClose reports that the user asked to close the window.
	EventClose
	// EventQuit ends the event loop with Code as the exit code.
	EventQuit
)

var eventKindNames = [...]string{
	EventNone:      "None",
	EventReady:     "Ready",
	EventActivated: "Activated",
	EventResize:    "Resize",
	EventResizeEnd: "ResizeEnd",
	EventPaint:     "Paint",
	EventClose:     "Close",
	EventQuit:      "Quit",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// EventHandler receives the events of one native window.
type EventHandler interface {
	HandleEvent(ev Event)
}

// Event is a platform event translated into wsi terms.
type Event struct {
	Kind EventKind

	// Target is the handler passed to Platform.CreateWindow for the window
	// the event concerns, or nil for application events.
	Target EventHandler

	Width  int
	Height int
	Live   bool
	Code   int
}

// WindowConfig is the resolved configuration of a window.
type WindowConfig struct {
	Width       int
	Height      int
	Title       string
	Closable    bool
	Resizable   bool
	Transparent bool
	RenderMode  RenderMode

	// Renderable asks the platform to back the window with a view a GPU
	// surface can be created for.
	Renderable bool
}

// NativeWindow is one window of the native window system.
type NativeWindow interface {
	// Show makes the window visible and focused.
	Show()

	// ClientSize returns the current drawable size in logical pixels.
	ClientSize() (width, height int)

	ScaleFactor() float64

	// RequestRedraw schedules an EventPaint for the window. Requests made
	// before the paint is delivered are coalesced, and the call never
	// dispatches events itself.
	RequestRedraw()

	// Handles returns the handles a GPU surface is created from.
	Handles() NativeHandles

	// Destroy releases the native window. No events for it are delivered
	// afterwards.
	Destroy()
}

// Platform adapts one native window system.
//
// A Platform owns the association between native windows and their
// EventHandler and stamps Event.Target on window events.
type Platform interface {
	Name() string

	// Init acquires the native application. It is called once, by
	// Application.Run, on the goroutine that runs the loop.
	Init() error

	CreateWindow(cfg WindowConfig, h EventHandler) (NativeWindow, error)

	// NextEvent blocks until an event is available. It returns false when
	// the native loop has terminated.
	NextEvent() (Event, bool)

	// Quit asks the loop to deliver EventQuit with code.
	Quit(code int)

	// Shutdown releases the native application after the loop ends.
	Shutdown()
}

// platforms holds the platforms compiled into the binary. Platform packages
// register themselves from init, typically only when their window system
// is reachable.
var platforms = gpucontext.NewRegistry[Platform](
	gpucontext.WithPriority("appkit", "win32", "x11", "headless"),
)

// RegisterPlatform makes a platform available under name. Registering a
// name again replaces the previous factory.
func RegisterPlatform(name string, factory func() Platform) {
	platforms.Register(name, factory)
}

// NewPlatform creates the platform registered under name.
func NewPlatform(name string) (Platform, error) {
	if !platforms.Has(name) {
		return nil, fmt.Errorf("%w: %q not registered (have %v)", ErrNoPlatform, name, platforms.Available())
	}
	return platforms.Get(name), nil
}

// DefaultPlatform creates the most preferred registered platform.
func DefaultPlatform() (Platform, error) {
	if platforms.Count() == 0 {
		return nil, ErrNoPlatform
	}
	return platforms.Best(), nil
}

// Platforms returns the names of the registered platforms.
func Platforms() []string {
	return platforms.Available()
}
