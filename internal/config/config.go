// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads the demo's YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/wsi"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config is the file format.
//
//	platform: x11
//	log_level: debug
//	window:
//	  width: 800
//	  height: 600
//	  title: demo
//	  resizable: true
//	  mode: continuous
//	render:
//	  present_modes: [mailbox, fifo]
//	  max_out_of_date_retries: 1
//	  clear_color: black
//	  opacity: 0.5
//	  triangle: true
//	  pulse: 2s
type Config struct {
	// Platform names a registered platform. Empty picks the default.
	Platform string `yaml:"platform"`
	LogLevel string `yaml:"log_level"`
	Window   Window `yaml:"window"`
	Render   Render `yaml:"render"`
}

// Window holds the window settings.
type Window struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Title       string `yaml:"title"`
	Closable    bool   `yaml:"closable"`
	Resizable   bool   `yaml:"resizable"`
	Transparent bool   `yaml:"transparent"`

	// Mode is "on-demand" or "continuous".
	Mode string `yaml:"mode"`
}

// Render holds the renderer settings.
type Render struct {
	PresentModes []string `yaml:"present_modes"`
	MaxRetries   int      `yaml:"max_out_of_date_retries"`

	// ClearColor is a CSS color name.
	ClearColor string  `yaml:"clear_color"`
	Opacity    float64 `yaml:"opacity"`
	Triangle   bool    `yaml:"triangle"`

	// Pulse is the period of the clear color animation. Zero disables it.
	Pulse time.Duration `yaml:"pulse"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: Window{
			Width:     640,
			Height:    360,
			Title:     "wsi demo",
			Closable:  true,
			Resizable: true,
			Mode:      wsi.RenderOnDemand.String(),
		},
		Render: Render{
			PresentModes: []string{"mailbox", "fifo"},
			MaxRetries:   1,
			ClearColor:   "black",
			Opacity:      0.5,
			Triangle:     true,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
// Unknown keys are errors.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse is Decode for an in-memory document.
func Parse(b []byte) (Config, error) { return Decode(bytes.NewReader(b)) }

// Validate checks every field that can be checked without a platform.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if _, err := c.RenderMode(); err != nil {
		return err
	}
	if _, err := c.PresentModes(); err != nil {
		return err
	}
	if _, err := c.ClearColor(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Render.Opacity < 0 || c.Render.Opacity > 1 {
		return fmt.Errorf("%w: opacity %v outside [0,1]", ErrInvalid, c.Render.Opacity)
	}
	if c.Render.Pulse < 0 {
		return fmt.Errorf("%w: negative pulse %v", ErrInvalid, c.Render.Pulse)
	}
	return nil
}

// RenderMode parses Window.Mode.
func (c Config) RenderMode() (wsi.RenderMode, error) {
	for _, m := range []wsi.RenderMode{wsi.RenderOnDemand, wsi.RenderContinuous} {
		if strings.EqualFold(c.Window.Mode, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: render mode %q", ErrInvalid, c.Window.Mode)
}

var presentModes = []gputypes.PresentMode{
	gputypes.PresentModeFifo,
	gputypes.PresentModeFifoRelaxed,
	gputypes.PresentModeImmediate,
	gputypes.PresentModeMailbox,
}

// PresentModes parses Render.PresentModes. Names are matched without
// regard to case; "fifo-relaxed" and "fiforelaxed" are the same mode.
func (c Config) PresentModes() ([]gputypes.PresentMode, error) {
	out := make([]gputypes.PresentMode, 0, len(c.Render.PresentModes))
next:
	for _, name := range c.Render.PresentModes {
		norm := strings.ReplaceAll(name, "-", "")
		for _, m := range presentModes {
			if strings.EqualFold(norm, m.String()) {
				out = append(out, m)
				continue next
			}
		}
		return nil, fmt.Errorf("%w: present mode %q", ErrInvalid, name)
	}
	return out, nil
}

// ClearColor resolves Render.ClearColor with Render.Opacity as alpha.
func (c Config) ClearColor() (gputypes.Color, error) {
	rgba, ok := colornames.Map[strings.ToLower(c.Render.ClearColor)]
	if !ok {
		return gputypes.Color{}, fmt.Errorf("%w: unknown color %q", ErrInvalid, c.Render.ClearColor)
	}
	return gputypes.Color{
		R: float64(rgba.R) / 255,
		G: float64(rgba.G) / 255,
		B: float64(rgba.B) / 255,
		A: c.Render.Opacity,
	}, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	return l, nil
}

// WindowOptions returns the window settings as options. c must be valid.
func (c Config) WindowOptions() []wsi.WindowOption {
	mode, _ := c.RenderMode()
	return []wsi.WindowOption{
		wsi.WithClosable(c.Window.Closable),
		wsi.WithResizable(c.Window.Resizable),
		wsi.WithTransparent(c.Window.Transparent),
		wsi.WithRenderMode(mode),
	}
}

// Scene returns the scene described by the render settings. c must be
// valid.
func (c Config) Scene() wsi.Scene {
	bg, _ := c.ClearColor()
	if !c.Render.Triangle {
		return wsi.Scene{ClearColor: bg}
	}
	s := wsi.TriangleScene()
	s.ClearColor = bg
	return s
}

// RendererOptions returns the renderer settings as options. c must be
// valid.
func (c Config) RendererOptions() []wsi.RendererOption {
	modes, _ := c.PresentModes()
	return []wsi.RendererOption{
		wsi.WithPresentModes(modes...),
		wsi.WithMaxOutOfDateRetries(c.Render.MaxRetries),
		wsi.WithScene(c.Scene()),
	}
}
