package wsi_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/wsi"
	"github.com/gogpu/wsi/platform/headless"
)

// recordingDelegate records application callbacks in order.
type recordingDelegate struct {
	calls    []string
	postInit func(app *wsi.Application)
}

func (d *recordingDelegate) PostInit(app *wsi.Application) {
	d.calls = append(d.calls, "postinit")
	if d.postInit != nil {
		d.postInit(app)
	}
}

func (d *recordingDelegate) OnActivated(*wsi.Application) {
	d.calls = append(d.calls, "activated")
}

func (d *recordingDelegate) WillTerminate(*wsi.Application) {
	d.calls = append(d.calls, "terminate")
}

func TestRunPostInitOnce(t *testing.T) {
	p := headless.New()
	// Activation before readiness is held back until PostInit has run.
	p.Activate()
	p.Then(func(p *headless.Platform) {
		p.Post(wsi.Event{Kind: wsi.EventReady})
		p.Activate()
	})
	d := &recordingDelegate{}

	code, err := wsi.NewApplication(p).Run(d)
	if err != nil || code != 0 {
		t.Fatalf("Run() = (%d, %v), want (0, nil)", code, err)
	}
	want := []string{"postinit", "activated", "activated", "terminate"}
	if !slices.Equal(d.calls, want) {
		t.Errorf("callbacks = %v, want %v", d.calls, want)
	}
	if !p.IsShutdown() {
		t.Error("platform not shut down after Run")
	}
}

func TestRunTwice(t *testing.T) {
	app := wsi.NewApplication(headless.New())
	d := &recordingDelegate{}
	if _, err := app.Run(d); err != nil {
		t.Fatalf("first Run() = %v", err)
	}
	code, err := app.Run(d)
	if !errors.Is(err, wsi.ErrAlreadyRunning) || code == 0 {
		t.Errorf("second Run() = (%d, %v), want ErrAlreadyRunning", code, err)
	}
}

func TestRunNilDelegate(t *testing.T) {
	if _, err := wsi.NewApplication(headless.New()).Run(nil); err == nil {
		t.Error("Run(nil) = nil error")
	}
}

func TestRunInitFailure(t *testing.T) {
	cause := errors.New("no display")
	p := headless.New(headless.WithInitError(cause))
	d := &recordingDelegate{}
	code, err := wsi.NewApplication(p).Run(d)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if !errors.Is(err, wsi.ErrPlatformInit) || !errors.Is(err, cause) {
		t.Errorf("Run() error = %v, want ErrPlatformInit wrapping the cause", err)
	}
	if len(d.calls) != 0 {
		t.Errorf("callbacks after failed init = %v, want none", d.calls)
	}
}

func TestCreateWindowErrors(t *testing.T) {
	tests := []struct {
		name    string
		opts    []headless.Option
		w, h    int
		mode    wsi.RenderMode
		wantErr error
	}{
		{"zero width", nil, 0, 100, wsi.RenderOnDemand, wsi.ErrInvalidWindowConfig},
		{"negative height", nil, 100, -1, wsi.RenderOnDemand, wsi.ErrInvalidWindowConfig},
		{"bad render mode", nil, 100, 100, wsi.RenderMode(9), wsi.ErrInvalidWindowConfig},
		{"native failure", []headless.Option{headless.WithCreateError(errors.New("out of handles"))}, 100, 100, wsi.RenderOnDemand, wsi.ErrWindowCreation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := headless.New(tt.opts...)
			var err error
			_, _ = wsi.NewApplication(p).Run(wsi.DelegateFunc(func(app *wsi.Application) {
				_, err = app.CreateWindow(tt.w, tt.h, "bad", wsi.WithRenderMode(tt.mode))
			}))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateWindow() = %v, want %v", err, tt.wantErr)
			}
			if len(p.Windows()) != 0 {
				t.Errorf("native windows = %d, want 0", len(p.Windows()))
			}
		})
	}
}

func TestCreateWindowOutsideRun(t *testing.T) {
	app := wsi.NewApplication(headless.New())
	if _, err := app.CreateWindow(100, 100, "early"); !errors.Is(err, wsi.ErrWindowCreation) {
		t.Errorf("CreateWindow() before Run = %v, want ErrWindowCreation", err)
	}
}

func TestCreateRenderableWindowNilDelegate(t *testing.T) {
	var err error
	_, _ = wsi.NewApplication(headless.New()).Run(wsi.DelegateFunc(func(app *wsi.Application) {
		_, err = app.CreateRenderableWindow(100, 100, "nil", nil)
	}))
	if !errors.Is(err, wsi.ErrInvalidWindowConfig) {
		t.Errorf("CreateRenderableWindow(nil) = %v, want ErrInvalidWindowConfig", err)
	}
}

func TestWindowOptions(t *testing.T) {
	p := headless.New(headless.WithScaleFactor(2))
	var w *wsi.Window
	_, err := wsi.NewApplication(p).Run(wsi.DelegateFunc(func(app *wsi.Application) {
		var err error
		w, err = app.CreateWindow(320, 200, "tool",
			wsi.WithClosable(false),
			wsi.WithResizable(false),
			wsi.WithTransparent(true),
		)
		if err != nil {
			t.Fatalf("CreateWindow() = %v", err)
		}
		w.Show()
		w.Show()
	}))
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}

	got := p.Window(0).Config()
	want := wsi.WindowConfig{Width: 320, Height: 200, Title: "tool", Transparent: true}
	if got != want {
		t.Errorf("native config = %+v, want %+v", got, want)
	}
	if n := p.Window(0).ShowCount(); n != 1 {
		t.Errorf("native Show calls = %d, want 1", n)
	}
	if f := w.ScaleFactor(); f != 2 {
		t.Errorf("ScaleFactor() = %v, want 2", f)
	}
	if width, height := w.Size(); width != 320 || height != 200 {
		t.Errorf("Size() = %dx%d, want 320x200", width, height)
	}
	if w.State() != wsi.WindowCreated {
		t.Errorf("State() = %v, want Created for a plain window", w.State())
	}
}

func TestMarkDirtyCoalesced(t *testing.T) {
	s := newScenario(t)
	code, err := s.run(func(*headless.Platform) {
		s.win.MarkDirty()
		s.win.MarkDirty()
		s.win.MarkDirty()
	})
	if err != nil || code != 0 {
		t.Fatalf("Run() = (%d, %v)", code, err)
	}
	if got := s.p.Paints(); got != 1 {
		t.Errorf("paints = %d, want 1", got)
	}
	if got := s.r.Stats().Presents; got != 1 {
		t.Errorf("Presents = %d, want 1", got)
	}
}

func TestQuitOnLastWindowClosed(t *testing.T) {
	tests := []struct {
		name      string
		quit      bool
		wantSteps int
	}{
		{"quit", true, 1},
		{"keep running", false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := headless.New()
			steps := 0
			p.Then(
				func(p *headless.Platform) {
					steps++
					p.Window(0).RequestClose()
				},
				func(*headless.Platform) { steps++ },
			)
			app := wsi.NewApplication(p, wsi.WithQuitOnLastWindowClosed(tt.quit), wsi.WithAppName("closer"))
			var w *wsi.Window
			code, err := app.Run(wsi.DelegateFunc(func(app *wsi.Application) {
				w, _ = app.CreateWindow(100, 100, "only")
			}))
			if err != nil || code != 0 {
				t.Fatalf("Run() = (%d, %v)", code, err)
			}
			if steps != tt.wantSteps {
				t.Errorf("script steps run = %d, want %d", steps, tt.wantSteps)
			}
			if w.State() != wsi.WindowDestroyed || !p.Window(0).Destroyed() {
				t.Error("window not destroyed by Close event")
			}
		})
	}
}

func TestQuitCode(t *testing.T) {
	p := headless.New()
	app := wsi.NewApplication(p)
	p.Then(func(*headless.Platform) {
		app.Quit(3)
		app.Quit(4)
	})
	code, err := app.Run(&recordingDelegate{})
	if err != nil || code != 3 {
		t.Errorf("Run() = (%d, %v), want (3, nil)", code, err)
	}
}

func TestWillTerminateClosesWindows(t *testing.T) {
	s := newScenario(t)
	d := &closingDelegate{s: s}
	s.p.Then(expose(s))
	code, err := s.app.Run(d)
	if err != nil || code != 0 {
		t.Fatalf("Run() = (%d, %v)", code, err)
	}
	if s.win.State() != wsi.WindowDestroyed {
		t.Errorf("State() = %v, want Destroyed", s.win.State())
	}
	if n := s.dev.LiveTotal(); n != 0 {
		t.Errorf("live GPU resources after termination = %d, want 0", n)
	}
}

type closingDelegate struct{ s *scenario }

func (d *closingDelegate) PostInit(app *wsi.Application) {
	d.s.win, d.s.createErr = app.CreateRenderableWindow(640, 360, "test", d.s.r)
}

func (d *closingDelegate) WillTerminate(*wsi.Application) { d.s.win.Close() }

func TestPlatformRegistry(t *testing.T) {
	if !slices.Contains(wsi.Platforms(), "headless") {
		t.Fatalf("Platforms() = %v, want headless registered", wsi.Platforms())
	}
	p, err := wsi.NewPlatform("headless")
	if err != nil {
		t.Fatalf("NewPlatform(headless) = %v", err)
	}
	if p.Name() != "headless" {
		t.Errorf("Name() = %q, want headless", p.Name())
	}
	if _, err := wsi.NewPlatform("nonexistent"); !errors.Is(err, wsi.ErrNoPlatform) {
		t.Errorf("NewPlatform(nonexistent) = %v, want ErrNoPlatform", err)
	}
	if _, err := wsi.DefaultPlatform(); err != nil {
		t.Errorf("DefaultPlatform() = %v", err)
	}
}
