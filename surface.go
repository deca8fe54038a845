package wsi

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
)

// minImageCount is the lower bound on swapchain images, whatever the
// surface minimum is.
const minImageCount = 2

// DefaultPresentModes is the present mode preference used when none is
// configured. Both modes are tear free; Fifo is supported everywhere.
var DefaultPresentModes = []gputypes.PresentMode{
	gputypes.PresentModeMailbox,
	gputypes.PresentModeFifo,
}

// SurfaceDescriptor is the surface of one window and the configuration
// resolved for it. It is resolved once, when the native view first exists,
// and lives until the window is destroyed.
type SurfaceDescriptor struct {
	Surface     Surface
	Format      gputypes.TextureFormat
	PresentMode gputypes.PresentMode
	AlphaMode   gputypes.CompositeAlphaMode
	ImageCount  uint32
}

// ResolveSurfaceDescriptor creates a surface for h and picks its
// configuration.
//
// The format is the first reported 32-bit, 4-component, unsigned-normalized
// format. The present mode is the first entry of presentModes the surface
// supports, falling back to the first mode the surface reports. Post-multiplied
// alpha is used when supported, otherwise opaque. The image count is the
// surface minimum, but never less than two.
func ResolveSurfaceDescriptor(dev Device, h NativeHandles, presentModes []gputypes.PresentMode) (*SurfaceDescriptor, error) {
	if !dev.PresentationSupported(h) {
		return nil, ErrPresentationUnsupported
	}
	s, err := dev.CreateSurface(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceCreation, err)
	}
	caps, err := s.Capabilities()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("%w: capabilities: %w", ErrSurfaceCreation, err)
	}
	format, ok := chooseFormat(caps.Formats)
	if !ok {
		s.Destroy()
		return nil, fmt.Errorf("%w: offered %v", ErrNoSuitableFormat, caps.Formats)
	}
	if len(caps.PresentModes) == 0 {
		s.Destroy()
		return nil, fmt.Errorf("%w: no present modes", ErrSurfaceCreation)
	}
	d := &SurfaceDescriptor{
		Surface:     s,
		Format:      format,
		PresentMode: choosePresentMode(caps.PresentModes, presentModes),
		AlphaMode:   chooseAlphaMode(caps.AlphaModes),
		ImageCount:  max(caps.MinImageCount, minImageCount),
	}
	Logger().Info("wsi: surface resolved",
		"format", d.Format, "presentMode", d.PresentMode,
		"alphaMode", d.AlphaMode, "images", d.ImageCount)
	return d, nil
}

// Destroy releases the surface.
func (d *SurfaceDescriptor) Destroy() {
	if d.Surface != nil {
		d.Surface.Destroy()
		d.Surface = nil
	}
}

// isRGBA8Class reports whether f is a 32-bit, 4-component,
// unsigned-normalized color format with 8-bit channels. sRGB variants and
// packed 10-bit formats are excluded.
func isRGBA8Class(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatBGRA8Unorm:
		return true
	}
	return false
}

func chooseFormat(formats []gputypes.TextureFormat) (gputypes.TextureFormat, bool) {
	for _, f := range formats {
		if isRGBA8Class(f) {
			return f, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}

func choosePresentMode(supported, preferred []gputypes.PresentMode) gputypes.PresentMode {
	for _, m := range preferred {
		if slices.Contains(supported, m) {
			return m
		}
	}
	if len(preferred) > 0 {
		Logger().Warn("wsi: no preferred present mode supported",
			"preferred", preferred, "using", supported[0])
	}
	return supported[0]
}

func chooseAlphaMode(supported []gputypes.CompositeAlphaMode) gputypes.CompositeAlphaMode {
	if slices.Contains(supported, gputypes.CompositeAlphaModeUnpremultiplied) {
		return gputypes.CompositeAlphaModeUnpremultiplied
	}
	return gputypes.CompositeAlphaModeOpaque
}
