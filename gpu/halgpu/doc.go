// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package halgpu implements the wsi GPU boundary on top of the gogpu/wgpu
// hardware abstraction layer.
//
// Any registered hal backend can be used. Import the backends to compile
// in, for example:
//
//	import _ "github.com/gogpu/wgpu/hal/allbackends"
//
//	dev, err := halgpu.Open()
//	if err != nil { ... }
//	defer dev.Destroy()
//	gpu := wsi.NewGPUContext(dev)
//
// # Mapping to hal
//
// hal surfaces hand out a new texture on every acquire and track texture
// layouts themselves. The wsi model of fixed swapchain images with
// pre-recorded command buffers maps onto it as follows:
//
//   - a swapchain image is a slot that holds the texture acquired for it
//   - an image view and a framebuffer refer to a slot
//   - a command buffer is a recipe, encoded against the slot's texture when
//     it is submitted
//   - a fence is the submission index, compared against
//     hal.Queue.PollCompleted
//   - semaphores are ordering tokens; the hal queue already orders submit
//     before present
//
// WGSL is validated with naga when a pipeline is created and handed to the
// Vulkan backend as SPIR-V.
package halgpu
