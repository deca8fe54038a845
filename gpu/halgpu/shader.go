// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// compileWGSL validates WGSL and lowers it to SPIR-V words.
func compileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("halgpu: compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("halgpu: compile shader: SPIR-V length %d not a multiple of 4", len(spirvBytes))
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// shaderSource returns the module source for the backend. Vulkan takes the
// SPIR-V naga produced; the other backends translate WGSL themselves.
func shaderSource(backend gputypes.Backend, wgsl string, spirv []uint32) hal.ShaderSource {
	if backend == gputypes.BackendVulkan {
		return hal.ShaderSource{SPIRV: spirv}
	}
	return hal.ShaderSource{WGSL: wgsl}
}
