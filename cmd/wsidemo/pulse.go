package main

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/gogpu/wsi"
)

// pulse brightens a base clear color towards white and back, forever.
type pulse struct {
	base gputypes.Color
	seq  *gween.Sequence
}

func newPulse(base gputypes.Color, period time.Duration) *pulse {
	half := float32(period.Seconds() / 2)
	seq := gween.NewSequence(
		gween.New(0, 1, half, ease.InOutSine),
		gween.New(1, 0, half, ease.InOutSine),
	)
	seq.SetLoop(-1)
	return &pulse{base: base, seq: seq}
}

// advance moves the animation by dt and returns the current color.
func (p *pulse) advance(dt time.Duration) gputypes.Color {
	v, _, _ := p.seq.Update(float32(dt.Seconds()))
	t := float64(v) / 2
	return gputypes.Color{
		R: p.base.R + (1-p.base.R)*t,
		G: p.base.G + (1-p.base.G)*t,
		B: p.base.B + (1-p.base.B)*t,
		A: p.base.A,
	}
}

// animated drives a SurfaceRenderer, updating its scene before each frame
// and quitting after a fixed number of presented frames when asked to.
type animated struct {
	*wsi.SurfaceRenderer

	scene     wsi.Scene
	pulse     *pulse
	last      time.Time
	now       func() time.Time
	maxFrames int
	onDone    func()
}

var (
	_ wsi.WindowEventDelegate = (*animated)(nil)
	_ wsi.Destroyer           = (*animated)(nil)
)

func (a *animated) Render() error {
	if a.pulse != nil {
		now := a.now()
		if !a.last.IsZero() {
			s := a.scene
			s.ClearColor = a.pulse.advance(now.Sub(a.last))
			a.SetScene(s)
		}
		a.last = now
	}
	if err := a.SurfaceRenderer.Render(); err != nil {
		return err
	}
	if a.maxFrames > 0 && a.Stats().Presents >= a.maxFrames && a.onDone != nil {
		a.onDone()
		a.onDone = nil
	}
	return nil
}
