package wsi

import "fmt"

// RenderTargetSet is a swapchain together with one view and one
// framebuffer per backing image, all sized to a single extent.
//
// A RenderTargetSet is valid only for the extent it was built with. Any
// change in window geometry, or an out-of-date report from the GPU,
// invalidates it.
type RenderTargetSet struct {
	Swapchain    Swapchain
	Images       []Image
	Views        []ImageView
	Framebuffers []Framebuffer
	Extent       Extent
}

// BuildRenderTargets builds the swapchain and per-image resources for desc.
//
// The size is the surface's current extent, or fallback when the surface
// reports UndefinedExtent. If either dimension is zero, BuildRenderTargets
// returns (nil, nil): the window is minimized or collapsed and there is
// nothing to render into.
//
// Before returning, every image is transitioned to the presentable layout
// and the transition is waited on.
func BuildRenderTargets(dev Device, desc *SurfaceDescriptor, pass RenderPass, fallback Extent) (*RenderTargetSet, error) {
	caps, err := desc.Surface.Capabilities()
	if err != nil {
		return nil, fmt.Errorf("%w: capabilities: %w", ErrSwapchainCreation, err)
	}
	extent := caps.CurrentExtent
	if extent.IsUndefined() {
		extent = fallback
	}
	if extent.Empty() {
		Logger().Debug("wsi: zero drawable area, no render targets", "extent", extent)
		return nil, nil
	}

	sc, err := dev.CreateSwapchain(desc.Surface, SwapchainConfig{
		Format:      desc.Format,
		PresentMode: desc.PresentMode,
		AlphaMode:   desc.AlphaMode,
		ImageCount:  desc.ImageCount,
		Extent:      extent,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSwapchainCreation, err)
	}

	t := &RenderTargetSet{Swapchain: sc, Images: sc.Images(), Extent: extent}
	t.Views = make([]ImageView, 0, len(t.Images))
	t.Framebuffers = make([]Framebuffer, 0, len(t.Images))
	for i, img := range t.Images {
		view, err := dev.CreateImageView(img, desc.Format)
		if err != nil {
			t.Destroy()
			return nil, fmt.Errorf("%w: image view %d: %w", ErrSwapchainCreation, i, err)
		}
		t.Views = append(t.Views, view)

		fb, err := dev.CreateFramebuffer(pass, view, extent)
		if err != nil {
			t.Destroy()
			return nil, fmt.Errorf("%w: framebuffer %d: %w", ErrSwapchainCreation, i, err)
		}
		t.Framebuffers = append(t.Framebuffers, fb)
	}

	if err := dev.TransitionToPresent(t.Images); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("%w: initial layout transition: %w", ErrSwapchainCreation, err)
	}

	Logger().Debug("wsi: render targets built", "extent", extent, "images", len(t.Images))
	return t, nil
}

// Len returns the number of backing images.
func (t *RenderTargetSet) Len() int { return len(t.Images) }

// Destroy releases framebuffers, then views, then the swapchain. The
// caller must make sure the GPU no longer uses any of them.
func (t *RenderTargetSet) Destroy() {
	for _, fb := range t.Framebuffers {
		fb.Destroy()
	}
	for _, v := range t.Views {
		v.Destroy()
	}
	if t.Swapchain != nil {
		t.Swapchain.Destroy()
	}
	t.Framebuffers, t.Views, t.Images, t.Swapchain = nil, nil, nil, nil
}
