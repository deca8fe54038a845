// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wsi"
)

// halMinImageCount is reported as the surface minimum. hal does not expose
// the driver's minimum; two images is what every backend supports.
const halMinImageCount = 2

// Surface is a hal surface for one native view.
type Surface struct {
	d          *Device
	hal        hal.Surface
	configured bool
	destroyed  bool
}

// Capabilities reports the formats, present modes and alpha modes the
// adapter supports for the surface. The current extent is always
// undefined: hal surfaces take their size from the configuration.
func (s *Surface) Capabilities() (wsi.SurfaceCapabilities, error) {
	caps := s.d.adapter.Adapter.SurfaceCapabilities(s.hal)
	if caps == nil {
		return wsi.SurfaceCapabilities{}, errors.New("halgpu: adapter cannot present to surface")
	}
	return wsi.SurfaceCapabilities{
		Formats:       caps.Formats,
		PresentModes:  caps.PresentModes,
		AlphaModes:    caps.AlphaModes,
		MinImageCount: halMinImageCount,
		CurrentExtent: wsi.UndefinedExtent,
	}, nil
}

// Destroy unconfigures and releases the surface.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.configured {
		s.hal.Unconfigure(s.d.dev)
		s.configured = false
	}
	s.hal.Destroy()
}

func (s *Surface) configure(cfg wsi.SwapchainConfig) (*Swapchain, error) {
	if s.destroyed {
		return nil, errors.New("halgpu: configure destroyed surface")
	}
	err := s.hal.Configure(s.d.dev, &hal.SurfaceConfiguration{
		Width:       cfg.Extent.Width,
		Height:      cfg.Extent.Height,
		Format:      cfg.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: cfg.PresentMode,
		AlphaMode:   cfg.AlphaMode,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: configure surface %v: %w", cfg.Extent, err)
	}
	s.configured = true

	sc := &Swapchain{surface: s, cfg: cfg}
	sc.slots = make([]*slot, cfg.ImageCount)
	sc.images = make([]wsi.Image, cfg.ImageCount)
	for i := range sc.slots {
		sc.slots[i] = &slot{swapchain: sc, index: i}
		sc.images[i] = sc.slots[i]
	}
	return sc, nil
}

// Swapchain is a configured surface together with its image slots. Only
// one swapchain per surface is live at a time.
type Swapchain struct {
	surface   *Surface
	cfg       wsi.SwapchainConfig
	slots     []*slot
	images    []wsi.Image
	next      int
	destroyed bool
}

// Images returns the image slots in index order.
func (sc *Swapchain) Images() []wsi.Image { return sc.images }

// Extent returns the configured size.
func (sc *Swapchain) Extent() wsi.Extent { return sc.cfg.Extent }

// AcquireNext acquires a surface texture into the next slot and signals
// signal.
func (sc *Swapchain) AcquireNext(signal wsi.Semaphore) (int, error) {
	if sc.destroyed {
		return 0, errors.New("halgpu: acquire on destroyed swapchain")
	}
	acquired, err := sc.surface.hal.AcquireTexture(nil)
	if err != nil {
		return 0, presentationError("acquire", err)
	}
	if acquired.Suboptimal {
		wsi.Logger().Debug("halgpu: suboptimal surface texture", "extent", sc.cfg.Extent)
	}
	s := sc.slots[sc.next]
	sc.next = (sc.next + 1) % len(sc.slots)
	if s.tex != nil {
		sc.surface.hal.DiscardTexture(s.tex)
	}
	s.tex = acquired.Texture
	if sem, ok := signal.(*semaphore); ok {
		sem.signaled = true
	}
	return s.index, nil
}

// Destroy discards textures still held and unconfigures the surface.
func (sc *Swapchain) Destroy() {
	if sc.destroyed {
		return
	}
	sc.destroyed = true
	for _, s := range sc.slots {
		if s.tex != nil {
			sc.surface.hal.DiscardTexture(s.tex)
			s.tex = nil
		}
	}
	if sc.surface.configured && !sc.surface.destroyed {
		sc.surface.hal.Unconfigure(sc.surface.d.dev)
		sc.surface.configured = false
	}
}

// slot is one swapchain image: the texture acquired for it, if any.
type slot struct {
	swapchain *Swapchain
	index     int
	tex       hal.SurfaceTexture
}

type imageView struct {
	slot   *slot
	format gputypes.TextureFormat
}

func (*imageView) Destroy() {}

type renderPass struct {
	format gputypes.TextureFormat
}

func (p *renderPass) Format() gputypes.TextureFormat { return p.format }
func (*renderPass) Destroy()                         {}

type framebuffer struct {
	pass   *renderPass
	view   *imageView
	extent wsi.Extent
}

func (*framebuffer) Destroy() {}
