// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gputest provides a fake wsi.Device that counts what it is asked
// to do and can be told to fail.
package gputest

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/wsi"
)

// Resource kinds, as recorded in Device.Log.
const (
	KindSurface       = "surface"
	KindSwapchain     = "swapchain"
	KindImageView     = "imageview"
	KindFramebuffer   = "framebuffer"
	KindRenderPass    = "renderpass"
	KindPipeline      = "pipeline"
	KindCommandBuffer = "commandbuffer"
	KindSemaphore     = "semaphore"
	KindFence         = "fence"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("gputest: injected failure")

// Device is a fake wsi.Device.
//
// Capabilities default to what a typical desktop driver reports: BGRA8 and
// RGBA8 (sRGB listed first), Fifo and Mailbox, opaque and post-multiplied
// alpha, a minimum of two images and an undefined current extent.
type Device struct {
	Formats       []gputypes.TextureFormat
	PresentModes  []gputypes.PresentMode
	AlphaModes    []gputypes.CompositeAlphaMode
	MinImageCount uint32

	// Extent returns the surface's current extent. When nil the surface
	// reports wsi.UndefinedExtent.
	Extent func() wsi.Extent

	NoPresentation bool
	SurfaceErr     error
	SwapchainErr   error
	RecordErr      error

	// Counters.
	Swapchains       []wsi.SwapchainConfig
	RecordedCommands int
	Transitions      int
	Submits          []wsi.SubmitInfo
	Presents         int
	WaitIdles        int
	FenceWaits       int

	// Log records every create and destroy as "create:<kind>" or
	// "destroy:<kind>" in call order.
	Log []string

	live           map[string]int
	doubleDestroy  int
	acquireFails   int
	presentFails   int
	acquireCount   int
	fencesSignaled map[*resource]bool
	queue          *Queue
}

var _ wsi.Device = (*Device)(nil)

// New returns a device with default capabilities.
func New() *Device {
	d := &Device{
		Formats: []gputypes.TextureFormat{
			gputypes.TextureFormatBGRA8UnormSrgb,
			gputypes.TextureFormatBGRA8Unorm,
			gputypes.TextureFormatRGBA8Unorm,
		},
		PresentModes: []gputypes.PresentMode{
			gputypes.PresentModeFifo,
			gputypes.PresentModeMailbox,
		},
		AlphaModes: []gputypes.CompositeAlphaMode{
			gputypes.CompositeAlphaModeOpaque,
			gputypes.CompositeAlphaModeUnpremultiplied,
		},
		MinImageCount:  2,
		live:           make(map[string]int),
		fencesSignaled: make(map[*resource]bool),
	}
	d.queue = &Queue{d: d}
	return d
}

// FailAcquire makes the next n acquires report an out-of-date surface.
func (d *Device) FailAcquire(n int) { d.acquireFails = n }

// FailPresent makes the next n presents report an out-of-date surface.
func (d *Device) FailPresent(n int) { d.presentFails = n }

// Live returns the number of resources of kind that are created and not yet
// destroyed.
func (d *Device) Live(kind string) int { return d.live[kind] }

// LiveTotal returns the number of live resources of every kind.
func (d *Device) LiveTotal() int {
	n := 0
	for _, c := range d.live {
		n += c
	}
	return n
}

// DoubleDestroys returns how many times a resource was destroyed twice.
func (d *Device) DoubleDestroys() int { return d.doubleDestroy }

// Created returns how many resources of kind were ever created.
func (d *Device) Created(kind string) int {
	n := 0
	for _, e := range d.Log {
		if e == "create:"+kind {
			n++
		}
	}
	return n
}

type resource struct {
	d         *Device
	kind      string
	destroyed bool
	format    gputypes.TextureFormat
}

func (d *Device) newResource(kind string) *resource {
	d.live[kind]++
	d.Log = append(d.Log, "create:"+kind)
	return &resource{d: d, kind: kind}
}

func (r *resource) Destroy() {
	if r.destroyed {
		r.d.doubleDestroy++
		return
	}
	r.destroyed = true
	r.d.live[r.kind]--
	r.d.Log = append(r.d.Log, "destroy:"+r.kind)
}

func (r *resource) Format() gputypes.TextureFormat { return r.format }

type surface struct {
	*resource
}

func (s *surface) Capabilities() (wsi.SurfaceCapabilities, error) {
	d := s.d
	extent := wsi.UndefinedExtent
	if d.Extent != nil {
		extent = d.Extent()
	}
	return wsi.SurfaceCapabilities{
		Formats:       d.Formats,
		PresentModes:  d.PresentModes,
		AlphaModes:    d.AlphaModes,
		MinImageCount: d.MinImageCount,
		CurrentExtent: extent,
	}, nil
}

type swapchain struct {
	*resource
	cfg    wsi.SwapchainConfig
	images []wsi.Image
	next   int
}

func (s *swapchain) Images() []wsi.Image { return s.images }
func (s *swapchain) Extent() wsi.Extent  { return s.cfg.Extent }

func (s *swapchain) AcquireNext(wsi.Semaphore) (int, error) {
	d := s.d
	d.acquireCount++
	if s.destroyed {
		return 0, errors.New("gputest: acquire on destroyed swapchain")
	}
	if d.acquireFails > 0 {
		d.acquireFails--
		return 0, fmt.Errorf("gputest: acquire: %w", wsi.ErrSurfaceOutOfDate)
	}
	i := s.next
	s.next = (s.next + 1) % len(s.images)
	return i, nil
}

// Info describes a fake integrated adapter.
func (d *Device) Info() gputypes.AdapterInfo {
	return gputypes.AdapterInfo{Name: "gputest", DeviceType: gputypes.DeviceTypeIntegratedGPU}
}

func (d *Device) PresentationSupported(wsi.NativeHandles) bool { return !d.NoPresentation }

func (d *Device) CreateSurface(wsi.NativeHandles) (wsi.Surface, error) {
	if d.SurfaceErr != nil {
		return nil, d.SurfaceErr
	}
	return &surface{d.newResource(KindSurface)}, nil
}

func (d *Device) CreateSwapchain(_ wsi.Surface, cfg wsi.SwapchainConfig) (wsi.Swapchain, error) {
	if d.SwapchainErr != nil {
		return nil, d.SwapchainErr
	}
	d.Swapchains = append(d.Swapchains, cfg)
	sc := &swapchain{resource: d.newResource(KindSwapchain), cfg: cfg}
	for i := range int(cfg.ImageCount) {
		sc.images = append(sc.images, i)
	}
	return sc, nil
}

func (d *Device) CreateImageView(wsi.Image, gputypes.TextureFormat) (wsi.ImageView, error) {
	return d.newResource(KindImageView), nil
}

func (d *Device) CreateRenderPass(format gputypes.TextureFormat) (wsi.RenderPass, error) {
	r := d.newResource(KindRenderPass)
	r.format = format
	return r, nil
}

func (d *Device) CreateFramebuffer(wsi.RenderPass, wsi.ImageView, wsi.Extent) (wsi.Framebuffer, error) {
	return d.newResource(KindFramebuffer), nil
}

func (d *Device) CreatePipeline(wsi.RenderPass, wsi.ShaderDescriptor) (wsi.Pipeline, error) {
	return d.newResource(KindPipeline), nil
}

func (d *Device) RecordCommands(wsi.CommandRecording) (wsi.CommandBuffer, error) {
	if d.RecordErr != nil {
		return nil, d.RecordErr
	}
	d.RecordedCommands++
	return d.newResource(KindCommandBuffer), nil
}

func (d *Device) TransitionToPresent([]wsi.Image) error {
	d.Transitions++
	return nil
}

func (d *Device) CreateSemaphore() (wsi.Semaphore, error) {
	return d.newResource(KindSemaphore), nil
}

func (d *Device) CreateFence() (wsi.Fence, error) {
	return d.newResource(KindFence), nil
}

func (d *Device) WaitFence(f wsi.Fence, _ time.Duration) error {
	d.FenceWaits++
	r := f.(*resource)
	if !d.fencesSignaled[r] {
		return fmt.Errorf("gputest: wait on unsubmitted fence: %w", ErrInjected)
	}
	return nil
}

func (d *Device) ResetFence(f wsi.Fence) error {
	delete(d.fencesSignaled, f.(*resource))
	return nil
}

func (d *Device) WaitIdle() error {
	d.WaitIdles++
	return nil
}

func (d *Device) Queue() wsi.Queue { return d.queue }

// Queue is the fake queue of a Device. Submitted work completes
// immediately.
type Queue struct {
	d *Device
}

func (q *Queue) Submit(info wsi.SubmitInfo) error {
	d := q.d
	if info.Fence != nil {
		r := info.Fence.(*resource)
		if d.fencesSignaled[r] {
			return errors.New("gputest: submit with a signaled fence")
		}
		d.fencesSignaled[r] = true
	}
	d.Submits = append(d.Submits, info)
	return nil
}

func (q *Queue) Present(sc wsi.Swapchain, _ int, _ wsi.Semaphore) error {
	d := q.d
	if sc.(*swapchain).destroyed {
		return errors.New("gputest: present on destroyed swapchain")
	}
	if d.presentFails > 0 {
		d.presentFails--
		return fmt.Errorf("gputest: present: %w", wsi.ErrSurfaceOutOfDate)
	}
	d.Presents++
	return nil
}
