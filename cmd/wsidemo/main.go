// Command wsidemo opens one renderable window and draws into it until the
// window is closed.
//
// Usage:
//
//	wsidemo [-config demo.yaml] [-platform x11] [-backend vulkan] [-frames 0] [-v]
//
// Settings come from the YAML file, if any, over built-in defaults; see
// internal/config. Flags override the file.
//
// Running with -platform headless -backend noop exercises the whole render
// path without a display or GPU:
//
//	wsidemo -platform headless -backend noop -frames 60
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gogpu/gputypes"
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/wsi"
	"github.com/gogpu/wsi/gpu/halgpu"
	"github.com/gogpu/wsi/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		platform   = flag.String("platform", "", "window system (default: best available)")
		backend    = flag.String("backend", "", "GPU backend: vulkan, metal, dx12, gl or noop")
		frames     = flag.Int("frames", 0, "quit after presenting this many frames (0: run until closed)")
		validation = flag.Bool("validation", false, "enable GPU validation layers")
		verbose    = flag.Bool("v", false, "log at debug level")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *platform != "" {
		cfg.Platform = *platform
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	code, err := run(cfg, *backend, *frames, *validation)
	if err != nil {
		log.Print(err)
	}
	os.Exit(code)
}

func run(cfg config.Config, backend string, frames int, validation bool) (int, error) {
	level, err := cfg.Level()
	if err != nil {
		return 2, err
	}
	wsi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	platform, err := newPlatform(cfg.Platform)
	if err != nil {
		return 2, err
	}

	opts := []halgpu.Option{halgpu.WithValidation(validation)}
	if backend != "" {
		b, err := parseBackend(backend)
		if err != nil {
			return 2, err
		}
		opts = append(opts, halgpu.WithBackend(b))
	}
	dev, err := halgpu.Open(opts...)
	if err != nil {
		return 1, err
	}
	defer dev.Destroy()
	info := dev.Info()
	wsi.Logger().Info("wsidemo: device", "backend", dev.Backend(), "adapter", info.Name)

	gpu := wsi.NewGPUContext(dev)
	d := &demo{cfg: cfg, gpu: gpu, frames: frames}
	app := wsi.NewApplication(platform, wsi.WithAppName("wsidemo"))
	code, err := app.Run(d)
	if err == nil {
		err = d.err
	}

	if d.renderer != nil {
		s := d.renderer.Stats()
		fmt.Printf("presented %d frames (%d swapchains, %d command sets, %d recoveries, %d skipped)\n",
			s.Presents, s.TargetBuilds, s.CommandBuilds, s.Recoveries, s.SkippedFrames)
	}
	return code, err
}

func newPlatform(name string) (wsi.Platform, error) {
	if name == "" {
		return wsi.DefaultPlatform()
	}
	return wsi.NewPlatform(name)
}

func parseBackend(name string) (gputypes.Backend, error) {
	if strings.EqualFold(name, "noop") {
		return gputypes.BackendEmpty, nil
	}
	for _, b := range []gputypes.Backend{
		gputypes.BackendVulkan,
		gputypes.BackendMetal,
		gputypes.BackendDX12,
		gputypes.BackendGL,
	} {
		if strings.EqualFold(name, b.String()) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown backend %q", name)
}

// demo opens the window once the application is ready.
type demo struct {
	cfg    config.Config
	gpu    *wsi.GPUContext
	frames int

	renderer *wsi.SurfaceRenderer
	window   *wsi.Window
	err      error
}

func (d *demo) PostInit(app *wsi.Application) {
	d.renderer = wsi.NewSurfaceRenderer(d.gpu, d.cfg.RendererOptions()...)
	delegate := &animated{
		SurfaceRenderer: d.renderer,
		scene:           d.cfg.Scene(),
		now:             time.Now,
		maxFrames:       d.frames,
		onDone:          func() { app.Quit(0) },
	}
	opts := d.cfg.WindowOptions()
	if d.cfg.Render.Pulse > 0 {
		delegate.pulse = newPulse(delegate.scene.ClearColor, d.cfg.Render.Pulse)
		opts = append(opts, wsi.WithRenderMode(wsi.RenderContinuous))
	}

	w := d.cfg.Window
	win, err := app.CreateRenderableWindow(w.Width, w.Height, w.Title, delegate, opts...)
	if err != nil {
		d.err = fmt.Errorf("wsidemo: create window: %w", err)
		app.Quit(1)
		return
	}
	d.window = win
	win.Show()
	win.MarkDirty()
}

func (d *demo) WillTerminate(*wsi.Application) {
	if d.window != nil {
		d.window.Close()
	}
}
