package wsi

import (
	"errors"
	"fmt"
	"time"
	"weak"
)

// RenderStats counts the work a SurfaceRenderer has done.
type RenderStats struct {
	// TargetBuilds counts swapchains built.
	TargetBuilds int
	// EmptyTargets counts rebuild attempts that found a zero drawable area.
	EmptyTargets int
	// CommandBuilds counts command sets recorded.
	CommandBuilds int
	Submissions   int
	Presents      int
	// Recoveries counts out-of-date reports answered with a rebuild.
	Recoveries int
	// SkippedFrames counts Render calls that had nothing to draw into.
	SkippedFrames int
}

// frameSync is the synchronization for one in-flight frame.
type frameSync struct {
	acquired Semaphore
	rendered Semaphore
	fence    Fence
	pending  bool
}

func newFrameSync(dev Device) (*frameSync, error) {
	s := &frameSync{}
	var err error
	if s.acquired, err = dev.CreateSemaphore(); err != nil {
		return nil, err
	}
	if s.rendered, err = dev.CreateSemaphore(); err != nil {
		s.destroy()
		return nil, err
	}
	if s.fence, err = dev.CreateFence(); err != nil {
		s.destroy()
		return nil, err
	}
	return s, nil
}

// retire waits for the submitted frame, if any, and resets the fence.
func (s *frameSync) retire(dev Device, timeout time.Duration) error {
	if !s.pending {
		return nil
	}
	if err := dev.WaitFence(s.fence, timeout); err != nil {
		return fmt.Errorf("wsi: wait for frame: %w", err)
	}
	if err := dev.ResetFence(s.fence); err != nil {
		return fmt.Errorf("wsi: reset frame fence: %w", err)
	}
	s.pending = false
	return nil
}

func (s *frameSync) destroy() {
	for _, r := range []Resource{s.fence, s.rendered, s.acquired} {
		if r != nil {
			r.Destroy()
		}
	}
	s.acquired, s.rendered, s.fence = nil, nil, nil
}

// SurfaceRenderer is a WindowEventDelegate that keeps a window's
// presentation resources valid and draws a Scene into them.
//
// The surface descriptor, render pass and frame synchronization are created
// once in InitView. The render targets and command set are discardable:
// they are rebuilt on the next Render after a resize or an out-of-date
// report. Each Render waits for its frame to retire before returning, so
// discarding never races the GPU.
type SurfaceRenderer struct {
	gpu  weak.Pointer[GPUContext]
	opts rendererOptions

	view       LazyCell[*View]
	descriptor LazyCell[*SurfaceDescriptor]
	pass       LazyCell[RenderPass]
	sync       LazyCell[*frameSync]

	scene    Scene
	pipeline DiscardableCell[Pipeline]
	targets  DiscardableCell[*RenderTargetSet]
	commands DiscardableCell[*RenderCommandSet]

	// extent is the last logical size the window reported. It stands in
	// for surfaces that report UndefinedExtent.
	extent    Extent
	stats     RenderStats
	destroyed bool
}

var (
	_ WindowEventDelegate = (*SurfaceRenderer)(nil)
	_ Destroyer           = (*SurfaceRenderer)(nil)
	_ Idler               = (*SurfaceRenderer)(nil)
)

// NewSurfaceRenderer returns a renderer drawing with gpu. The renderer holds
// gpu weakly; the caller keeps it alive for as long as windows render.
func NewSurfaceRenderer(gpu *GPUContext, opts ...RendererOption) *SurfaceRenderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SurfaceRenderer{
		gpu:   weak.Make(gpu),
		opts:  o,
		scene: o.scene,
	}
}

func (r *SurfaceRenderer) device() (Device, error) {
	g := r.gpu.Value()
	if g == nil {
		return nil, ErrGPUContextReleased
	}
	return g.device, nil
}

// InitView resolves the surface descriptor for view and builds the first
// render targets and command set.
func (r *SurfaceRenderer) InitView(view *View) error {
	r.view.Init(view)
	g := r.gpu.Value()
	if g == nil {
		return ErrGPUContextReleased
	}
	dev := g.device

	desc, err := ResolveSurfaceDescriptor(dev, view.Handles(), r.opts.presentModes)
	if err != nil {
		return err
	}
	r.descriptor.Init(desc)
	g.noteSurfaceFormat(desc.Format)

	pass, err := dev.CreateRenderPass(desc.Format)
	if err != nil {
		return fmt.Errorf("wsi: create render pass: %w", err)
	}
	r.pass.Init(pass)

	sync, err := newFrameSync(dev)
	if err != nil {
		return fmt.Errorf("wsi: create frame sync: %w", err)
	}
	r.sync.Init(sync)

	r.extent = view.LogicalExtent()
	return r.ensureResources(dev)
}

// Resize rebuilds the render targets for the new size. Live resizes, sent
// while the user is still dragging, are ignored; the window sends a final
// non-live resize when the drag ends.
func (r *SurfaceRenderer) Resize(width, height int, live bool) error {
	if r.destroyed {
		return ErrWindowDestroyed
	}
	view := r.view.Get()
	if live {
		return nil
	}
	dev, err := r.device()
	if err != nil {
		return err
	}
	r.extent = Extent{Width: uint32(max(width, 0)), Height: uint32(max(height, 0))}

	if err := dev.WaitIdle(); err != nil {
		return fmt.Errorf("wsi: wait idle before resize: %w", err)
	}
	if err := r.sync.Get().retire(dev, r.opts.fenceTimeout); err != nil {
		return err
	}
	r.releaseCommands()
	r.releaseTargets()
	if err := r.ensureResources(dev); err != nil {
		return err
	}
	view.MarkDirty()
	return nil
}

// Render draws one frame. It returns nil without drawing while the window
// has no drawable area.
func (r *SurfaceRenderer) Render() error {
	if r.destroyed {
		return ErrWindowDestroyed
	}
	r.descriptor.Get() // panics before InitView
	dev, err := r.device()
	if err != nil {
		return err
	}
	return r.render(dev, 0)
}

func (r *SurfaceRenderer) render(dev Device, attempt int) error {
	if err := r.ensureResources(dev); err != nil {
		return err
	}
	if r.targets.IsDiscarded() {
		r.stats.SkippedFrames++
		return nil
	}

	err := r.commitFrame(dev)
	if err == nil || !errors.Is(err, ErrSurfaceOutOfDate) {
		return err
	}
	if attempt >= r.opts.maxRetries {
		return fmt.Errorf("%w (%d rebuilds): %w", ErrSurfaceOutOfDateRepeated, attempt, err)
	}

	Logger().Debug("wsi: surface out of date, rebuilding", "attempt", attempt+1)
	r.stats.Recoveries++
	if err := r.sync.Get().retire(dev, r.opts.fenceTimeout); err != nil {
		return err
	}
	r.releaseCommands()
	r.releaseTargets()
	return r.render(dev, attempt+1)
}

// Idle reports whether the renderer has no render targets, which is the
// case while the window has no drawable area. Resize marks the window
// dirty once targets can be built again.
func (r *SurfaceRenderer) Idle() bool {
	return r.destroyed || r.targets.IsDiscarded()
}

// ensureResources rebuilds whatever has been discarded. Targets may stay
// discarded when the drawable area is zero.
func (r *SurfaceRenderer) ensureResources(dev Device) error {
	if r.targets.IsDiscarded() {
		t, err := BuildRenderTargets(dev, r.descriptor.Get(), r.pass.Get(), r.extent)
		if err != nil {
			return err
		}
		if t == nil {
			r.stats.EmptyTargets++
			return nil
		}
		r.targets.Set(t)
		r.stats.TargetBuilds++
	}
	targets := r.targets.Get()

	if !r.commands.IsDiscarded() && !r.commands.Get().BoundTo(targets) {
		r.releaseCommands()
	}
	if r.commands.IsDiscarded() {
		pipeline, err := r.ensurePipeline(dev)
		if err != nil {
			return err
		}
		c, err := RecordCommandSet(dev, targets, r.pass.Get(), pipeline, r.scene)
		if err != nil {
			return err
		}
		r.commands.Set(c)
		r.stats.CommandBuilds++
	}
	return nil
}

func (r *SurfaceRenderer) ensurePipeline(dev Device) (Pipeline, error) {
	if r.scene.Shader == nil {
		return nil, nil
	}
	if r.pipeline.IsDiscarded() {
		p, err := dev.CreatePipeline(r.pass.Get(), *r.scene.Shader)
		if err != nil {
			return nil, fmt.Errorf("wsi: create pipeline %q: %w", r.scene.Shader.Label, err)
		}
		r.pipeline.Set(p)
	}
	return r.pipeline.Get(), nil
}

// commitFrame acquires an image, submits its commands, presents it and
// waits for the frame to retire.
func (r *SurfaceRenderer) commitFrame(dev Device) error {
	targets := r.targets.Get()
	cmds := r.commands.Get()
	sync := r.sync.Get()
	queue := dev.Queue()

	// A frame left pending by an earlier failed present must retire before
	// its fence is reused.
	if err := sync.retire(dev, r.opts.fenceTimeout); err != nil {
		return err
	}

	index, err := targets.Swapchain.AcquireNext(sync.acquired)
	if err != nil {
		return fmt.Errorf("wsi: acquire: %w", err)
	}
	if index < 0 || index >= len(cmds.Buffers) {
		return fmt.Errorf("wsi: acquired image %d out of range [0,%d)", index, len(cmds.Buffers))
	}

	err = queue.Submit(SubmitInfo{
		Command:   cmds.Buffers[index],
		Wait:      sync.acquired,
		WaitStage: StageColorAttachmentOutput,
		Signal:    sync.rendered,
		Fence:     sync.fence,
	})
	if err != nil {
		return fmt.Errorf("wsi: submit: %w", err)
	}
	sync.pending = true
	r.stats.Submissions++

	if err := queue.Present(targets.Swapchain, index, sync.rendered); err != nil {
		return fmt.Errorf("wsi: present: %w", err)
	}
	r.stats.Presents++

	return sync.retire(dev, r.opts.fenceTimeout)
}

// SetScene replaces what is drawn. The command set is recorded again on the
// next Render; the pipeline is rebuilt only if the shader changed.
func (r *SurfaceRenderer) SetScene(s Scene) {
	if !sameShader(r.scene.Shader, s.Shader) {
		if p, ok := r.pipeline.Take(); ok {
			p.Destroy()
		}
	}
	r.scene = s
	if r.destroyed || !r.descriptor.IsPresent() {
		return
	}
	r.releaseCommands()
	if r.view.IsPresent() {
		r.view.Get().MarkDirty()
	}
}

func sameShader(a, b *ShaderDescriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *SurfaceRenderer) releaseCommands() {
	if c, ok := r.commands.Take(); ok {
		c.Destroy()
	}
}

func (r *SurfaceRenderer) releaseTargets() {
	if t, ok := r.targets.Take(); ok {
		t.Destroy()
	}
}

// Destroy waits for the GPU and releases every resource: commands first,
// then render targets, then the surface.
func (r *SurfaceRenderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	if dev, err := r.device(); err == nil {
		if err := dev.WaitIdle(); err != nil {
			Logger().Warn("wsi: wait idle during teardown", "err", err)
		}
	} else {
		Logger().Warn("wsi: renderer outlived its GPU context")
	}

	r.releaseCommands()
	r.releaseTargets()
	if p, ok := r.pipeline.Take(); ok {
		p.Destroy()
	}
	if r.sync.IsPresent() {
		r.sync.Get().destroy()
	}
	if r.pass.IsPresent() {
		r.pass.Get().Destroy()
	}
	if r.descriptor.IsPresent() {
		r.descriptor.Get().Destroy()
	}
}

// Stats returns the work counters.
func (r *SurfaceRenderer) Stats() RenderStats { return r.stats }

// Descriptor returns the resolved surface descriptor, or nil before
// InitView.
func (r *SurfaceRenderer) Descriptor() *SurfaceDescriptor {
	if !r.descriptor.IsPresent() {
		return nil
	}
	return r.descriptor.Get()
}

// Targets returns the current render targets, or nil when they are
// discarded.
func (r *SurfaceRenderer) Targets() *RenderTargetSet {
	if r.targets.IsDiscarded() {
		return nil
	}
	return r.targets.Get()
}

// Commands returns the current command set, or nil when it is discarded.
func (r *SurfaceRenderer) Commands() *RenderCommandSet {
	if r.commands.IsDiscarded() {
		return nil
	}
	return r.commands.Get()
}

// Extent returns the logical size the renderer last built for.
func (r *SurfaceRenderer) Extent() Extent { return r.extent }
