package wsi

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestChooseFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []gputypes.TextureFormat
		want    gputypes.TextureFormat
		wantOK  bool
	}{
		{"rgba first", []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm}, gputypes.TextureFormatRGBA8Unorm, true},
		{"skips srgb", []gputypes.TextureFormat{gputypes.TextureFormatBGRA8UnormSrgb, gputypes.TextureFormatBGRA8Unorm}, gputypes.TextureFormatBGRA8Unorm, true},
		{"packed 10-bit skipped", []gputypes.TextureFormat{gputypes.TextureFormatRGB10A2Unorm, gputypes.TextureFormatRGBA8Unorm}, gputypes.TextureFormatRGBA8Unorm, true},
		{"only 10-bit", []gputypes.TextureFormat{gputypes.TextureFormatRGBA16Float, gputypes.TextureFormatRGB10A2Unorm}, gputypes.TextureFormatUndefined, false},
		{"only srgb", []gputypes.TextureFormat{gputypes.TextureFormatRGBA8UnormSrgb}, gputypes.TextureFormatUndefined, false},
		{"empty", nil, gputypes.TextureFormatUndefined, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := chooseFormat(tt.formats)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("chooseFormat() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	fifo, mailbox, immediate := gputypes.PresentModeFifo, gputypes.PresentModeMailbox, gputypes.PresentModeImmediate
	tests := []struct {
		name      string
		supported []gputypes.PresentMode
		preferred []gputypes.PresentMode
		want      gputypes.PresentMode
	}{
		{"first preference", []gputypes.PresentMode{fifo, mailbox}, DefaultPresentModes, mailbox},
		{"second preference", []gputypes.PresentMode{immediate, fifo}, DefaultPresentModes, fifo},
		{"fallback to first supported", []gputypes.PresentMode{immediate}, DefaultPresentModes, immediate},
		{"no preference", []gputypes.PresentMode{immediate, fifo}, nil, immediate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := choosePresentMode(tt.supported, tt.preferred); got != tt.want {
				t.Errorf("choosePresentMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChooseAlphaMode(t *testing.T) {
	tests := []struct {
		name      string
		supported []gputypes.CompositeAlphaMode
		want      gputypes.CompositeAlphaMode
	}{
		{"post-multiplied supported", []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeOpaque, gputypes.CompositeAlphaModeUnpremultiplied}, gputypes.CompositeAlphaModeUnpremultiplied},
		{"premultiplied only", []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModePremultiplied}, gputypes.CompositeAlphaModeOpaque},
		{"none reported", nil, gputypes.CompositeAlphaModeOpaque},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chooseAlphaMode(tt.supported); got != tt.want {
				t.Errorf("chooseAlphaMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtent(t *testing.T) {
	tests := []struct {
		e         Extent
		undefined bool
		empty     bool
	}{
		{Extent{640, 360}, false, false},
		{Extent{0, 200}, false, true},
		{Extent{200, 0}, false, true},
		{UndefinedExtent, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.e.String(), func(t *testing.T) {
			if got := tt.e.IsUndefined(); got != tt.undefined {
				t.Errorf("IsUndefined() = %v, want %v", got, tt.undefined)
			}
			if got := tt.e.Empty(); got != tt.empty {
				t.Errorf("Empty() = %v, want %v", got, tt.empty)
			}
		})
	}
}

func TestEventKindString(t *testing.T) {
	if got := EventResizeEnd.String(); got != "ResizeEnd" {
		t.Errorf("EventResizeEnd.String() = %q, want %q", got, "ResizeEnd")
	}
	if got := EventKind(99).String(); got != "EventKind(99)" {
		t.Errorf("EventKind(99).String() = %q", got)
	}
}

func TestWindowConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     WindowConfig
		wantErr bool
	}{
		{"valid", defaultWindowConfig(640, 360, "ok"), false},
		{"zero width", defaultWindowConfig(0, 360, "w"), true},
		{"negative height", defaultWindowConfig(640, -1, "h"), true},
		{"bad render mode", WindowConfig{Width: 1, Height: 1, RenderMode: 7}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRendererOptions(t *testing.T) {
	o := defaultRendererOptions()
	if o.maxRetries != 1 {
		t.Errorf("default maxRetries = %d, want 1", o.maxRetries)
	}
	if o.scene.ClearColor != DefaultClearColor {
		t.Errorf("default clear color = %v, want %v", o.scene.ClearColor, DefaultClearColor)
	}
	WithMaxOutOfDateRetries(-3)(&o)
	if o.maxRetries != 0 {
		t.Errorf("WithMaxOutOfDateRetries(-3) = %d, want 0", o.maxRetries)
	}
	WithPresentModes(gputypes.PresentModeImmediate)(&o)
	if len(o.presentModes) != 1 || o.presentModes[0] != gputypes.PresentModeImmediate {
		t.Errorf("WithPresentModes() = %v", o.presentModes)
	}
}
