package wsi

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Scene is what every frame of a window draws: a clear followed by an
// optional non-indexed draw.
type Scene struct {
	ClearColor gputypes.Color

	// Shader is optional. When nil, frames are only cleared.
	Shader      *ShaderDescriptor
	VertexCount uint32
}

// DefaultClearColor is black at half opacity.
var DefaultClearColor = gputypes.Color{R: 0, G: 0, B: 0, A: 0.5}

// RenderCommandSet holds one recorded command buffer per framebuffer of the
// RenderTargetSet it was recorded against. It is never reused with another
// RenderTargetSet.
type RenderCommandSet struct {
	Buffers []CommandBuffer
	targets *RenderTargetSet
}

// RecordCommandSet records the commands for scene into every framebuffer
// of targets. pipeline may be nil when scene has no shader.
func RecordCommandSet(dev Device, targets *RenderTargetSet, pass RenderPass, pipeline Pipeline, scene Scene) (*RenderCommandSet, error) {
	c := &RenderCommandSet{
		Buffers: make([]CommandBuffer, 0, len(targets.Framebuffers)),
		targets: targets,
	}
	for i, fb := range targets.Framebuffers {
		rec := CommandRecording{
			Pass:        pass,
			Framebuffer: fb,
			Extent:      targets.Extent,
			ClearColor:  scene.ClearColor,
		}
		if pipeline != nil {
			rec.Pipeline = pipeline
			rec.VertexCount = scene.VertexCount
		}
		cmd, err := dev.RecordCommands(rec)
		if err != nil {
			c.Destroy()
			return nil, fmt.Errorf("%w: framebuffer %d: %w", ErrCommandRecording, i, err)
		}
		c.Buffers = append(c.Buffers, cmd)
	}
	Logger().Debug("wsi: commands recorded", "buffers", len(c.Buffers))
	return c, nil
}

// BoundTo reports whether c was recorded against t.
func (c *RenderCommandSet) BoundTo(t *RenderTargetSet) bool { return c.targets == t }

// Destroy releases every command buffer.
func (c *RenderCommandSet) Destroy() {
	for _, b := range c.Buffers {
		b.Destroy()
	}
	c.Buffers = nil
	c.targets = nil
}

const triangleWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    var positions = array<vec2<f32>, 3>(
        vec2<f32>(0.0, 0.5),
        vec2<f32>(-0.5, -0.5),
        vec2<f32>(0.5, -0.5)
    );
    return vec4<f32>(positions[idx], 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

// TriangleShader draws one red triangle from the vertex index alone, with
// no vertex buffers. Draw it with a VertexCount of 3.
var TriangleShader = ShaderDescriptor{
	Label:         "triangle",
	WGSL:          triangleWGSL,
	VertexEntry:   "vs_main",
	FragmentEntry: "fs_main",
}

// TriangleScene clears to DefaultClearColor and draws TriangleShader.
func TriangleScene() Scene {
	shader := TriangleShader
	return Scene{ClearColor: DefaultClearColor, Shader: &shader, VertexCount: 3}
}
