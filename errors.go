package wsi

import "errors"

// Fatal setup errors. These abort startup; no partially running state is
// left behind.
var (
	// ErrNoPlatform is returned when no windowing platform is registered
	// or available on this system.
	ErrNoPlatform = errors.New("wsi: no platform available")

	// ErrPlatformInit is returned when the native application singleton
	// or its delegate shim cannot be acquired.
	ErrPlatformInit = errors.New("wsi: platform initialization failed")

	// ErrAlreadyRunning is returned by Application.Run when called twice.
	ErrAlreadyRunning = errors.New("wsi: application already running")

	// ErrPresentationUnsupported is returned when the GPU queue cannot
	// present to the native window.
	ErrPresentationUnsupported = errors.New("wsi: presentation not supported for window")

	// ErrNoSuitableFormat is returned when the surface offers no 32-bit
	// 4-component unsigned-normalized format.
	ErrNoSuitableFormat = errors.New("wsi: no suitable surface format")
)

// Resource construction errors. The caller of CreateWindow or
// CreateRenderableWindow may recover from these.
var (
	// ErrInvalidWindowConfig is returned for window arguments that can never
	// succeed, such as a non-positive size.
	ErrInvalidWindowConfig = errors.New("wsi: invalid window configuration")

	// ErrWindowCreation is returned when the native window system refuses to
	// allocate a window.
	ErrWindowCreation = errors.New("wsi: native window creation failed")

	// ErrSurfaceCreation is returned when a GPU surface cannot be bound to a
	// native view.
	ErrSurfaceCreation = errors.New("wsi: surface creation failed")

	// ErrSwapchainCreation is returned when a swapchain or one of its
	// per-image resources cannot be built.
	ErrSwapchainCreation = errors.New("wsi: swapchain creation failed")

	// ErrCommandRecording is returned when per-image command buffers cannot
	// be recorded.
	ErrCommandRecording = errors.New("wsi: command recording failed")
)

// Presentation errors.
var (
	// ErrSurfaceOutOfDate reports that the swapchain images no longer match
	// the window and must be rebuilt. GPU implementations return it (or an
	// error wrapping it) from Swapchain.AcquireNext and Queue.Present.
	ErrSurfaceOutOfDate = errors.New("wsi: surface out of date")

	// ErrSurfaceOutOfDateRepeated is returned by Render when the surface is
	// still out of date after the configured number of rebuilds.
	ErrSurfaceOutOfDateRepeated = errors.New("wsi: surface out of date after rebuild")

	// ErrGPUContextReleased is returned when a renderer outlives the
	// GPUContext it was created with.
	ErrGPUContextReleased = errors.New("wsi: GPU context released")

	// ErrWindowDestroyed is returned by operations on a destroyed window.
	ErrWindowDestroyed = errors.New("wsi: window destroyed")
)
