package wsi

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// GPUContext is the device shared by every window of an application.
//
// It is owned by the application code (usually the EventDelegate). Windows
// and renderers hold only a weak reference to it, so dropping the context
// never keeps a window alive and a window never keeps the device alive.
//
// GPUContext implements gpucontext.DeviceProvider, so it can be handed to
// other gogpu libraries that render into the same device.
type GPUContext struct {
	device        Device
	surfaceFormat gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = (*GPUContext)(nil)

// NewGPUContext wraps an opened device.
func NewGPUContext(dev Device) *GPUContext {
	return &GPUContext{device: dev}
}

// Device returns the wrapped Device. Type-assert to wsi.Device for the
// full API.
func (g *GPUContext) Device() gpucontext.Device { return g.device }

// Queue returns the device queue.
func (g *GPUContext) Queue() gpucontext.Queue { return g.device.Queue() }

// SurfaceFormat returns the format of the first surface resolved against
// this context, or TextureFormatUndefined before any window has a surface.
func (g *GPUContext) SurfaceFormat() gputypes.TextureFormat { return g.surfaceFormat }

// Adapter returns the device; adapters are not exposed separately.
func (g *GPUContext) Adapter() gpucontext.Adapter { return g.device }

// AdapterInfo describes the adapter backing the device.
func (g *GPUContext) AdapterInfo() gpucontext.AdapterInfo {
	info := g.device.Info()
	return gpucontext.AdapterInfo{Name: info.Name, Type: adapterType(info.DeviceType)}
}

func (g *GPUContext) noteSurfaceFormat(f gputypes.TextureFormat) {
	if g.surfaceFormat == gputypes.TextureFormatUndefined {
		g.surfaceFormat = f
	}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
