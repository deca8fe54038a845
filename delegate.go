package wsi

// EventDelegate receives application lifecycle callbacks. Exactly one
// delegate is installed per Application, by Run.
type EventDelegate interface {
	// PostInit is called exactly once, after the native application is
	// ready and before any window callback.
	PostInit(app *Application)
}

// ActivationHandler is implemented by delegates that want to know when the
// application comes to the foreground.
type ActivationHandler interface {
	// OnActivated is called each time the application is activated. It is
	// never called before PostInit.
	OnActivated(app *Application)
}

// TerminationHandler is implemented by delegates that own windows and need
// to close them before the platform shuts down.
type TerminationHandler interface {
	WillTerminate(app *Application)
}

// WindowEventDelegate receives the callbacks of one renderable window.
//
// InitView is called exactly once, when the native view exists. Resize and
// Render are never called before InitView returns successfully.
type WindowEventDelegate interface {
	InitView(view *View) error

	// Resize reports a new client size. live is true while an interactive
	// resize is in progress; a call with live false follows when it ends.
	Resize(width, height int, live bool) error

	Render() error
}

// Destroyer is implemented by window delegates that hold resources bound to
// the window. Destroy is called before the native window is released.
type Destroyer interface {
	Destroy()
}

// Idler is implemented by window delegates that can be left with nothing to
// draw into, such as a renderer whose window has no drawable area. A
// continuous window stops requesting redraws while Idle reports true; the
// next MarkDirty restarts it.
type Idler interface {
	Idle() bool
}

// DelegateFunc adapts a function to EventDelegate.
type DelegateFunc func(app *Application)

// PostInit calls f(app).
func (f DelegateFunc) PostInit(app *Application) { f(app) }
