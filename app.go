package wsi

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Application bridges one native event loop to an EventDelegate.
//
// An Application runs at most once. It keeps no list of windows; it only
// counts them so it can quit when the last one closes.
type Application struct {
	platform Platform
	opts     appOptions
	delegate EventDelegate

	ran      atomic.Bool
	running  bool
	quitting bool

	postInitDone      bool
	pendingActivation bool
	liveWindows       int

	err error
}

// NewApplication returns an application driving platform.
func NewApplication(platform Platform, opts ...AppOption) *Application {
	o := defaultAppOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Application{platform: platform, opts: o}
}

// Run installs delegate, runs the native event loop until it terminates
// and returns the exit code.
//
// Run fails without starting the loop if the platform cannot be
// initialized. If a window delegate returns an error from Resize or Render,
// the error is logged, the loop stops and Run returns exit code 1 together
// with the error.
//
// Run must be called from the main goroutine, locked to the main OS thread
// on platforms that require it (see runtime.LockOSThread).
func (a *Application) Run(delegate EventDelegate) (int, error) {
	if delegate == nil {
		return 1, errors.New("wsi: nil EventDelegate")
	}
	if !a.ran.CompareAndSwap(false, true) {
		return 1, ErrAlreadyRunning
	}
	if err := a.platform.Init(); err != nil {
		return 1, fmt.Errorf("%w: %s: %w", ErrPlatformInit, a.platform.Name(), err)
	}
	a.delegate = delegate
	a.running = true
	Logger().Info("wsi: application started", "name", a.opts.name, "platform", a.platform.Name())

	code := 0
	for {
		ev, ok := a.platform.NextEvent()
		if !ok {
			break
		}
		if ev.Kind == EventQuit {
			code = ev.Code
			break
		}
		a.dispatch(ev)
	}
	a.quitting = true

	if t, ok := delegate.(TerminationHandler); ok {
		t.WillTerminate(a)
	}
	a.running = false
	a.platform.Shutdown()
	Logger().Info("wsi: application stopped", "code", code)

	if a.err != nil && code == 0 {
		code = 1
	}
	return code, a.err
}

func (a *Application) dispatch(ev Event) {
	switch ev.Kind {
	case EventReady:
		if a.postInitDone {
			return
		}
		a.postInitDone = true
		a.delegate.PostInit(a)
		if a.pendingActivation {
			a.pendingActivation = false
			a.activate()
		}
	case EventActivated:
		if !a.postInitDone {
			a.pendingActivation = true
			return
		}
		a.activate()
	default:
		if ev.Target != nil {
			ev.Target.HandleEvent(ev)
		}
	}
}

func (a *Application) activate() {
	if h, ok := a.delegate.(ActivationHandler); ok {
		h.OnActivated(a)
	}
}

// CreateWindow creates a window without a render surface. It must be
// called while Run is running, typically from PostInit.
//
// Errors wrap ErrInvalidWindowConfig when the arguments can never succeed,
// or ErrWindowCreation when the native window system failed.
func (a *Application) CreateWindow(width, height int, title string, opts ...WindowOption) (*Window, error) {
	return a.createWindow(width, height, title, nil, opts)
}

// CreateRenderableWindow creates a window backed by a GPU-capable view and
// calls delegate.InitView before returning. When it returns without error
// the surface is usable.
func (a *Application) CreateRenderableWindow(width, height int, title string, delegate WindowEventDelegate, opts ...WindowOption) (*Window, error) {
	if delegate == nil {
		return nil, fmt.Errorf("%w: nil WindowEventDelegate", ErrInvalidWindowConfig)
	}
	return a.createWindow(width, height, title, delegate, opts)
}

func (a *Application) createWindow(width, height int, title string, delegate WindowEventDelegate, opts []WindowOption) (*Window, error) {
	if !a.running {
		return nil, fmt.Errorf("%w: application is not running", ErrWindowCreation)
	}
	cfg := defaultWindowConfig(width, height, title)
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Renderable = delegate != nil
	return newWindow(a, cfg, delegate)
}

// Quit asks the event loop to stop with code. Only the first call has an
// effect.
func (a *Application) Quit(code int) {
	if a.quitting {
		return
	}
	a.quitting = true
	a.platform.Quit(code)
}

// Platform returns the platform the application runs on.
func (a *Application) Platform() Platform { return a.platform }

// Err returns the error that stopped the loop, if any.
func (a *Application) Err() error { return a.err }

// fail records err and stops the loop.
func (a *Application) fail(err error) {
	Logger().Error("wsi: stopping after window error", "err", err)
	if a.err == nil {
		a.err = err
	}
	a.Quit(1)
}

func (a *Application) windowOpened() { a.liveWindows++ }

func (a *Application) windowClosed() {
	a.liveWindows--
	if a.liveWindows == 0 && a.opts.quitOnLastWindowClosed {
		a.Quit(0)
	}
}
