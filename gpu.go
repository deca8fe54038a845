package wsi

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
)

// NativeHandles identifies the native view a surface is created for.
//
// The meaning of each field depends on the platform:
//   - X11: Display is the Xlib Display, Window is the XID.
//   - Win32: Display is the HINSTANCE, Window is the HWND.
//   - AppKit: Display is 0, Window is the CAMetalLayer of the content view.
type NativeHandles struct {
	Display uintptr
	Window  uintptr
}

// Extent is a size in physical pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// UndefinedExtent is reported by surfaces whose size is decided by the
// swapchain rather than by the window.
var UndefinedExtent = Extent{Width: math.MaxUint32, Height: math.MaxUint32}

// IsUndefined reports whether e is the undefined extent sentinel.
func (e Extent) IsUndefined() bool {
	return e.Width == math.MaxUint32 || e.Height == math.MaxUint32
}

// Empty reports whether either dimension is zero.
func (e Extent) Empty() bool { return e.Width == 0 || e.Height == 0 }

func (e Extent) String() string { return fmt.Sprintf("%dx%d", e.Width, e.Height) }

// Resource is a GPU object that must be released explicitly.
type Resource interface {
	Destroy()
}

// Image is one backing image of a swapchain. It is owned by the swapchain
// and is never destroyed directly.
type Image interface{}

// ImageView is a typed view of a swapchain image.
type ImageView interface{ Resource }

// RenderPass describes the single color attachment every framebuffer of a
// window is rendered with.
type RenderPass interface {
	Resource
	Format() gputypes.TextureFormat
}

// Framebuffer binds one image view to a render pass.
type Framebuffer interface{ Resource }

// Pipeline is a compiled graphics pipeline.
type Pipeline interface{ Resource }

// CommandBuffer is a recorded, replayable command sequence.
type CommandBuffer interface{ Resource }

// Semaphore orders GPU work on the queue.
type Semaphore interface{ Resource }

// Fence signals GPU completion to the host.
type Fence interface{ Resource }

// SurfaceCapabilities describes what a surface supports.
type SurfaceCapabilities struct {
	Formats       []gputypes.TextureFormat
	PresentModes  []gputypes.PresentMode
	AlphaModes    []gputypes.CompositeAlphaMode
	MinImageCount uint32

	// CurrentExtent is the surface size, or UndefinedExtent when the
	// swapchain decides it.
	CurrentExtent Extent
}

// Surface is a presentable target bound to a native view.
type Surface interface {
	Resource
	Capabilities() (SurfaceCapabilities, error)
}

// SwapchainConfig is the resolved configuration a swapchain is built with.
type SwapchainConfig struct {
	Format      gputypes.TextureFormat
	PresentMode gputypes.PresentMode
	AlphaMode   gputypes.CompositeAlphaMode
	ImageCount  uint32
	Extent      Extent
}

// Swapchain is a ring of backing images cycled between rendering and
// presentation.
type Swapchain interface {
	Resource

	// Images returns the backing images in index order.
	Images() []Image

	// Extent returns the size the swapchain was built with.
	Extent() Extent

	// AcquireNext returns the index of the next image and arranges for
	// signal to be signaled once it is ready. It returns an error matching
	// ErrSurfaceOutOfDate when the swapchain must be rebuilt.
	AcquireNext(signal Semaphore) (int, error)
}

// ShaderDescriptor describes a WGSL program with one vertex and one fragment
// entry point.
type ShaderDescriptor struct {
	Label         string
	WGSL          string
	VertexEntry   string
	FragmentEntry string
}

// CommandRecording is everything needed to record the commands for one
// framebuffer.
type CommandRecording struct {
	Pass        RenderPass
	Framebuffer Framebuffer
	Extent      Extent
	ClearColor  gputypes.Color

	// Pipeline is optional. When nil only the clear is recorded.
	Pipeline    Pipeline
	VertexCount uint32
}

// PipelineStage identifies the point in the pipeline a semaphore wait
// applies to.
type PipelineStage uint32

const (
	// StageTopOfPipe waits before any work starts.
	StageTopOfPipe PipelineStage = iota
	// StageColorAttachmentOutput waits before color attachments are written.
	StageColorAttachmentOutput
)

// SubmitInfo describes one queue submission.
type SubmitInfo struct {
	Command   CommandBuffer
	Wait      Semaphore
	WaitStage PipelineStage
	Signal    Semaphore
	Fence     Fence
}

// Queue submits recorded work and presents swapchain images.
type Queue interface {
	Submit(info SubmitInfo) error

	// Present queues image index of sc for display after wait is
	// signaled. It returns an error matching ErrSurfaceOutOfDate when the
	// swapchain must be rebuilt.
	Present(sc Swapchain, index int, wait Semaphore) error
}

// Device is the GPU collaborator a window renders with.
//
// Implementations live outside this package (see gpu/halgpu). All methods
// are called from the event loop goroutine.
type Device interface {
	// Info describes the adapter backing the device.
	Info() gputypes.AdapterInfo

	// PresentationSupported reports whether the device queue can present
	// to the native view.
	PresentationSupported(h NativeHandles) bool

	CreateSurface(h NativeHandles) (Surface, error)
	CreateSwapchain(s Surface, cfg SwapchainConfig) (Swapchain, error)
	CreateImageView(img Image, format gputypes.TextureFormat) (ImageView, error)
	CreateRenderPass(format gputypes.TextureFormat) (RenderPass, error)
	CreateFramebuffer(pass RenderPass, view ImageView, extent Extent) (Framebuffer, error)
	CreatePipeline(pass RenderPass, desc ShaderDescriptor) (Pipeline, error)
	RecordCommands(rec CommandRecording) (CommandBuffer, error)

	// TransitionToPresent moves every image from the undefined layout to
	// the presentable layout and waits for the transition to finish.
	TransitionToPresent(images []Image) error

	CreateSemaphore() (Semaphore, error)
	CreateFence() (Fence, error)
	WaitFence(f Fence, timeout time.Duration) error
	ResetFence(f Fence) error

	// WaitIdle blocks until all submitted work has retired.
	WaitIdle() error

	Queue() Queue
}
