// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wsi"
)

func TestPresentationError(t *testing.T) {
	tests := []struct {
		err       error
		outOfDate bool
	}{
		{hal.ErrSurfaceOutdated, true},
		{hal.ErrZeroArea, true},
		{hal.ErrSurfaceLost, false},
		{hal.ErrDeviceLost, false},
		{hal.ErrTimeout, false},
	}
	for _, tt := range tests {
		got := presentationError("present", tt.err)
		if errors.Is(got, wsi.ErrSurfaceOutOfDate) != tt.outOfDate {
			t.Errorf("presentationError(%v) out of date = %v, want %v", tt.err, !tt.outOfDate, tt.outOfDate)
		}
		if !errors.Is(got, tt.err) {
			t.Errorf("presentationError(%v) = %v, does not wrap the cause", tt.err, got)
		}
	}
}

func TestCompileWGSL(t *testing.T) {
	words, err := compileWGSL(wsi.TriangleShader.WGSL)
	if err != nil {
		t.Fatalf("compileWGSL(triangle) = %v", err)
	}
	if len(words) == 0 || words[0] != 0x07230203 {
		t.Errorf("compileWGSL() does not start with the SPIR-V magic number")
	}
	if _, err := compileWGSL("fn broken( {"); err == nil {
		t.Error("compileWGSL(invalid) = nil error")
	}
}

func TestShaderSource(t *testing.T) {
	spirv := []uint32{0x07230203, 0}
	if s := shaderSource(gputypes.BackendVulkan, "wgsl", spirv); len(s.SPIRV) != 2 || s.WGSL != "" {
		t.Errorf("shaderSource(vulkan) = %+v, want SPIR-V only", s)
	}
	if s := shaderSource(gputypes.BackendMetal, "wgsl", spirv); s.WGSL != "wgsl" || s.SPIRV != nil {
		t.Errorf("shaderSource(metal) = %+v, want WGSL only", s)
	}
}
