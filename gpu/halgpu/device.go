// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wsi"
)

// Option configures Open.
type Option func(*options)

type options struct {
	backend      gputypes.Backend
	anyBackend   bool
	flags        gputypes.InstanceFlags
	pollInterval time.Duration
}

func defaultOptions() options {
	return options{
		anyBackend:   true,
		pollInterval: 100 * time.Microsecond,
	}
}

// WithBackend selects the hal backend. By default the most capable
// registered backend is used.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) {
		o.backend = b
		o.anyBackend = false
	}
}

// WithValidation enables the backend's debug and validation layers.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		if enabled {
			o.flags |= gputypes.InstanceFlagsDebug | gputypes.InstanceFlagsValidation
		} else {
			o.flags = gputypes.InstanceFlagsNone
		}
	}
}

// WithFencePollInterval sets how often WaitFence polls for completion.
func WithFencePollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// Device is a wsi.Device backed by an opened hal device.
type Device struct {
	opts     options
	backend  gputypes.Backend
	instance hal.Instance
	adapter  hal.ExposedAdapter
	dev      hal.Device
	queue    *Queue

	// checked holds surfaces created by PresentationSupported, handed out
	// by the next CreateSurface for the same handles.
	checked map[wsi.NativeHandles]hal.Surface
}

var _ wsi.Device = (*Device)(nil)

// Open creates a hal instance, picks an adapter and opens a device on it.
// Discrete and integrated GPUs are preferred over software adapters.
func Open(opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	hal.SetLogger(wsi.Logger())

	backend, err := selectBackend(o)
	if err != nil {
		return nil, err
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsAll,
		Flags:    o.flags,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := pickAdapter(adapters)

	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("halgpu: open device on %q: %w", selected.Info.Name, err)
	}

	d := &Device{
		opts:     o,
		backend:  backend.Variant(),
		instance: instance,
		adapter:  selected,
		dev:      open.Device,
		checked:  make(map[wsi.NativeHandles]hal.Surface),
	}
	d.queue = &Queue{d: d, hal: open.Queue}
	wsi.Logger().Info("halgpu: device opened",
		"adapter", selected.Info.Name, "type", selected.Info.DeviceType, "backend", d.backend)
	return d, nil
}

func selectBackend(o options) (hal.Backend, error) {
	if o.anyBackend {
		b, err := hal.SelectBestBackend()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoBackend, err)
		}
		return b, nil
	}
	b, ok := hal.GetBackend(o.backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v not registered", ErrNoBackend, o.backend)
	}
	return b, nil
}

func pickAdapter(adapters []hal.ExposedAdapter) hal.ExposedAdapter {
	for _, want := range []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU} {
		for _, a := range adapters {
			if a.Info.DeviceType == want {
				return a
			}
		}
	}
	return adapters[0]
}

// Backend returns the hal backend the device was opened on.
func (d *Device) Backend() gputypes.Backend { return d.backend }

// HAL returns the underlying hal device.
func (d *Device) HAL() hal.Device { return d.dev }

// Info describes the selected adapter.
func (d *Device) Info() gputypes.AdapterInfo { return d.adapter.Info }

// PresentationSupported reports whether the adapter can present to the
// view behind h. The surface created for the check is kept for the next
// CreateSurface call.
func (d *Device) PresentationSupported(h wsi.NativeHandles) bool {
	s, ok := d.checked[h]
	if !ok {
		var err error
		s, err = d.instance.CreateSurface(h.Display, h.Window)
		if err != nil {
			wsi.Logger().Warn("halgpu: presentation check failed", "err", err)
			return false
		}
		d.checked[h] = s
	}
	return d.adapter.Adapter.SurfaceCapabilities(s) != nil
}

// CreateSurface creates a surface for the native view.
func (d *Device) CreateSurface(h wsi.NativeHandles) (wsi.Surface, error) {
	s, ok := d.checked[h]
	if ok {
		delete(d.checked, h)
	} else {
		var err error
		if s, err = d.instance.CreateSurface(h.Display, h.Window); err != nil {
			return nil, fmt.Errorf("halgpu: create surface: %w", err)
		}
	}
	return &Surface{d: d, hal: s}, nil
}

// CreateSwapchain configures s for cfg.
func (d *Device) CreateSwapchain(s wsi.Surface, cfg wsi.SwapchainConfig) (wsi.Swapchain, error) {
	surf, ok := s.(*Surface)
	if !ok {
		return nil, ErrForeignResource
	}
	return surf.configure(cfg)
}

// CreateImageView returns a view of a swapchain image slot.
func (d *Device) CreateImageView(img wsi.Image, format gputypes.TextureFormat) (wsi.ImageView, error) {
	s, ok := img.(*slot)
	if !ok {
		return nil, ErrForeignResource
	}
	return &imageView{slot: s, format: format}, nil
}

// CreateRenderPass returns the description of a single cleared and stored
// color attachment of format.
func (d *Device) CreateRenderPass(format gputypes.TextureFormat) (wsi.RenderPass, error) {
	return &renderPass{format: format}, nil
}

// CreateFramebuffer binds view to pass.
func (d *Device) CreateFramebuffer(pass wsi.RenderPass, view wsi.ImageView, extent wsi.Extent) (wsi.Framebuffer, error) {
	rp, ok1 := pass.(*renderPass)
	v, ok2 := view.(*imageView)
	if !ok1 || !ok2 {
		return nil, ErrForeignResource
	}
	return &framebuffer{pass: rp, view: v, extent: extent}, nil
}

// TransitionToPresent waits for the device to go idle. hal surfaces hand
// out textures already in a renderable state and move them to the present
// layout in Queue.Present, so there is no barrier to record.
func (d *Device) TransitionToPresent(images []wsi.Image) error {
	for _, img := range images {
		if _, ok := img.(*slot); !ok {
			return ErrForeignResource
		}
	}
	return d.dev.WaitIdle()
}

// CreateSemaphore returns an ordering token.
func (d *Device) CreateSemaphore() (wsi.Semaphore, error) { return &semaphore{}, nil }

// CreateFence returns an unsignaled fence.
func (d *Device) CreateFence() (wsi.Fence, error) { return &fence{}, nil }

// WaitFence blocks until the submission that signals f has completed, or
// timeout elapses.
func (d *Device) WaitFence(f wsi.Fence, timeout time.Duration) error {
	fc, ok := f.(*fence)
	if !ok {
		return ErrForeignResource
	}
	if !fc.submitted {
		return ErrFenceNotSubmitted
	}
	deadline := time.Now().Add(timeout)
	for d.queue.hal.PollCompleted() < fc.value {
		if time.Now().After(deadline) {
			return fmt.Errorf("halgpu: submission %d: %w", fc.value, hal.ErrTimeout)
		}
		time.Sleep(d.opts.pollInterval)
	}
	d.queue.reclaim()
	return nil
}

// ResetFence returns f to the unsignaled state.
func (d *Device) ResetFence(f wsi.Fence) error {
	fc, ok := f.(*fence)
	if !ok {
		return ErrForeignResource
	}
	fc.value, fc.submitted = 0, false
	return nil
}

// WaitIdle blocks until all submitted work has completed.
func (d *Device) WaitIdle() error {
	if err := d.dev.WaitIdle(); err != nil {
		return fmt.Errorf("halgpu: wait idle: %w", err)
	}
	d.queue.reclaim()
	return nil
}

// Queue returns the device queue.
func (d *Device) Queue() wsi.Queue { return d.queue }

// Destroy waits for the device and releases it together with the
// instance. Surfaces must be destroyed first.
func (d *Device) Destroy() {
	if d.dev == nil {
		return
	}
	if err := d.dev.WaitIdle(); err != nil {
		wsi.Logger().Warn("halgpu: wait idle on destroy", "err", err)
	}
	d.queue.releaseAll()
	for h, s := range d.checked {
		s.Destroy()
		delete(d.checked, h)
	}
	d.dev.Destroy()
	d.instance.Destroy()
	d.dev = nil
}
