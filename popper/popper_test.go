// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popper

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/geometry"
	"cogentcore.org/popover/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(left, top, width, height float32) string {
	return fmt.Sprintf("position: absolute; left: %gpx; top: %gpx; width: %gpx; height: %gpx", left, top, width, height)
}

// setup returns a document with the given viewport size, a reference
// with the given rect, and an 80x30 popper, both in the body.
func setup(vw, vh float32, ref dom.Rect) (d *dom.Document, reference, popper *dom.Element) {
	d = dom.NewDocument(vw, vh)
	reference = d.CreateElement("button")
	reference.SetAttribute("style", box(ref.Left, ref.Top, ref.Width, ref.Height))
	d.Body().AppendChild(reference)
	popper = d.CreateElement("div")
	popper.SetAttribute("style", "position: absolute; width: 80px; height: 30px")
	d.Body().AppendChild(popper)
	return
}

// options returns default options with the given placement and
// modifier changes, without event listeners.
func options(pl Placement, changes func(o *Options)) Options {
	o := DefaultOptions()
	o.Placement = pl
	o.EventsEnabled = false
	if changes != nil {
		changes(&o)
	}
	return o
}

func TestCenteredAndVariationOffsets(t *testing.T) {
	ref := geometry.Rect{Top: 500, Left: 500, Width: 60, Height: 40}
	for _, pl := range validPlacements {
		t.Run(string(pl), func(t *testing.T) {
			_, r, p := setup(2000, 2000, dom.Rect{Left: ref.Left, Top: ref.Top, Width: ref.Width, Height: ref.Height})
			pp, err := New(r, p, options(pl, nil))
			require.NoError(t, err)
			data := pp.Data()
			assert.Equal(t, pl, data.Placement)
			assert.Equal(t, ref, data.Offsets.Reference)
			po := data.Offsets.Popper
			if pl.Side().IsVertical() {
				switch pl.Variation() {
				case NoVariation:
					assert.Equal(t, ref.Left+ref.Width/2-po.Width/2, po.Left)
				case Start:
					assert.Equal(t, ref.Left, po.Left)
				case End:
					assert.Equal(t, ref.Right(), po.Right())
				}
				if pl.Side() == geometry.Top {
					assert.Equal(t, ref.Top, po.Bottom())
				} else {
					assert.Equal(t, ref.Bottom(), po.Top)
				}
			} else {
				switch pl.Variation() {
				case NoVariation:
					assert.Equal(t, ref.Top+ref.Height/2-po.Height/2, po.Top)
				case Start:
					assert.Equal(t, ref.Top, po.Top)
				case End:
					assert.Equal(t, ref.Bottom(), po.Bottom())
				}
				if pl.Side() == geometry.Left {
					assert.Equal(t, ref.Left, po.Right())
				} else {
					assert.Equal(t, ref.Right(), po.Left)
				}
			}
			assert.Equal(t, string(pl), p.GetAttribute("x-placement"))
		})
	}
}

func TestEndToEnd(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 50, Height: 20})
	pp, err := New(r, p, options(Top, func(o *Options) {
		o.Modifier("offset").Offset = "0, 10"
		o.Modifier("flip").Enabled = false
	}))
	require.NoError(t, err)
	po := pp.Data().Offsets.Popper
	assert.Equal(t, float32(60), po.Top)
	assert.Equal(t, float32(85), po.Left)
	assert.Equal(t, "translate3d(85px, 60px, 0)", p.Style("transform"))
	assert.Equal(t, "absolute", p.Style("position"))
	assert.Equal(t, "0", p.Style("top"))
	assert.Equal(t, "0", p.Style("left"))
	assert.Equal(t, "transform", p.Style("will-change"))
	assert.Equal(t, "top", p.GetAttribute("x-placement"))
}

func TestEndToEndClamped(t *testing.T) {
	d, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 50, Height: 20})
	b := d.CreateElement("div")
	b.SetAttribute("style", box(0, 70, 800, 530))
	d.Body().AppendChild(b)
	pp, err := New(r, p, options(Top, func(o *Options) {
		o.Modifier("offset").Offset = "0, 10"
		o.Modifier("flip").Enabled = false
		po := o.Modifier("preventOverflow")
		po.Boundary = geometry.ElementBoundaryOf(b)
		po.Padding = geometry.Uniform(5)
	}))
	require.NoError(t, err)
	po := pp.Data().Offsets.Popper
	assert.Equal(t, float32(75), po.Top)
	assert.Equal(t, float32(85), po.Left)
	assert.Equal(t, geometry.Rect{Top: 75, Left: 5, Width: 790, Height: 520}, pp.Data().Boundaries)
	assert.Equal(t, "translate3d(85px, 75px, 0)", p.Style("transform"))
}

func TestFlip(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 10, Width: 50, Height: 20})
	pp, err := New(r, p, options(Top, nil))
	require.NoError(t, err)
	data := pp.Data()
	assert.Equal(t, Bottom, data.Placement)
	assert.Equal(t, Top, data.OriginalPlacement)
	assert.True(t, data.Flipped)
	assert.Equal(t, float32(30), data.Offsets.Popper.Top)
	assert.Equal(t, "bottom", p.GetAttribute("x-placement"))

	_, r, p = setup(800, 600, dom.Rect{Left: 100, Top: 570, Width: 50, Height: 20})
	pp, err = New(r, p, options(BottomStart, nil))
	require.NoError(t, err)
	data = pp.Data()
	assert.Equal(t, TopStart, data.Placement)
	assert.Equal(t, float32(540), data.Offsets.Popper.Top)
	assert.Equal(t, float32(100), data.Offsets.Popper.Left)
}

func TestFlipBothSidesOverlap(t *testing.T) {
	_, r, p := setup(800, 60, dom.Rect{Left: 100, Top: 15, Width: 50, Height: 20})
	creates := 0
	pp, err := New(r, p, options(Top, func(o *Options) {
		o.OnCreate = func(d *Data) { creates++ }
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, creates)
	assert.Equal(t, Bottom, pp.Data().Placement)
	assert.True(t, pp.Data().Flipped)
}

func TestFlipOrders(t *testing.T) {
	assert.Equal(t, []Placement{Top, Bottom}, FlipBehavior{}.order(Top))
	assert.Equal(t, []Placement{LeftEnd, RightEnd}, FlipBehavior{}.order(LeftEnd))
	cw := FlipBehavior{Mode: FlipClockwise}.order(Right)
	assert.Equal(t, []Placement{Right, RightEnd, BottomEnd, Bottom}, cw[:4])
	assert.Len(t, cw, 12)
	ccw := FlipBehavior{Mode: FlipCounterclockwise}.order(Right)
	assert.Equal(t, []Placement{Right, RightStart, TopEnd, Top}, ccw[:4])

	list := FlipBehavior{Mode: FlipList, Placements: []Placement{Top, Left, Bottom}}
	assert.Equal(t, 0, flipIndex(list.order(TopStart), TopStart))
	assert.Equal(t, -1, flipIndex(list.order(Right), Right))

	fb, err := FlipBehaviorFromString("clockwise")
	require.NoError(t, err)
	assert.Equal(t, FlipClockwise, fb.Mode)
	_, err = FlipBehaviorFromString("sideways")
	assert.Error(t, err)
}

func TestFlipClockwise(t *testing.T) {
	// no room above or to the right: clockwise from top goes through
	// top-end and the right placements before reaching bottom
	_, r, p := setup(800, 600, dom.Rect{Left: 740, Top: 10, Width: 50, Height: 20})
	pp, err := New(r, p, options(Top, func(o *Options) {
		o.Modifier("flip").Behavior = FlipBehavior{Mode: FlipClockwise}
	}))
	require.NoError(t, err)
	assert.Equal(t, geometry.Bottom, pp.Data().Placement.Side())
}

func TestPreventOverflowProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	f := func(lo, hi float32) float32 { return lo + rng.Float32()*(hi-lo) }
	priority := []geometry.Side{geometry.Left, geometry.Right, geometry.Top, geometry.Bottom}
	for range 1000 {
		b := geometry.Rect{Left: f(-500, 500), Top: f(-500, 500), Width: f(50, 1000), Height: f(50, 1000)}
		p := geometry.Rect{Left: f(-2000, 2000), Top: f(-2000, 2000), Width: f(1, b.Width), Height: f(1, b.Height)}
		ref := geometry.Rect{Left: f(-2000, 2000), Top: f(-2000, 2000), Width: f(0, 300), Height: f(0, 300)}
		res := clampToBoundaries(p, ref, b, priority, false)
		assert.GreaterOrEqual(t, res.Left, b.Left-1e-3, "%v in %v", res, b)
		assert.GreaterOrEqual(t, res.Top, b.Top-1e-3, "%v in %v", res, b)
		assert.LessOrEqual(t, res.Right(), b.Right()+1e-3, "%v in %v", res, b)
		assert.LessOrEqual(t, res.Bottom(), b.Bottom()+1e-3, "%v in %v", res, b)
		assert.Equal(t, p.Width, res.Width)
		assert.Equal(t, p.Height, res.Height)
	}
}

func TestPreventOverflowEscape(t *testing.T) {
	b := geometry.Rect{Left: 0, Top: 0, Width: 100, Height: 100}
	priority := []geometry.Side{geometry.Left, geometry.Right, geometry.Top, geometry.Bottom}
	p := geometry.Rect{Left: -50, Top: 10, Width: 20, Height: 20}

	// the reference is still inside on the left, so the popper is clamped
	res := clampToBoundaries(p, geometry.Rect{Left: 10, Top: 10, Width: 10, Height: 10}, b, priority, true)
	assert.Equal(t, float32(0), res.Left)

	// the reference has left the boundaries, so the popper may follow
	res = clampToBoundaries(p, geometry.Rect{Left: -40, Top: 10, Width: 10, Height: 10}, b, priority, true)
	assert.Equal(t, float32(-50), res.Left)
}

func TestAutoPlacement(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 50, Width: 50, Height: 20})
	pp, err := New(r, p, options(AutoStart, nil))
	require.NoError(t, err)
	assert.Equal(t, BottomStart, pp.Data().Placement)

	// equal areas on every side resolve to top
	_, r, p = setup(400, 400, dom.Rect{Left: 180, Top: 180, Width: 40, Height: 40})
	pp, err = New(r, p, options(Auto, nil))
	require.NoError(t, err)
	assert.Equal(t, Top, pp.Data().Placement)
}

func TestArrow(t *testing.T) {
	d, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 50, Height: 20})
	arrowEl := d.CreateElement("div")
	arrowEl.SetAttribute("x-arrow", "")
	arrowEl.SetAttribute("style", "width: 10px; height: 10px")
	p.AppendChild(arrowEl)

	pp, err := New(r, p, options(Bottom, nil))
	require.NoError(t, err)
	data := pp.Data()
	assert.Equal(t, arrowEl, data.ArrowElement)
	assert.Equal(t, ArrowOffset{Valid: true, Side: geometry.Left, Value: 35}, data.Offsets.Arrow)
	assert.Equal(t, "35px", arrowEl.Style("left"))

	// the popper is clamped to the viewport; the arrow stays on the reference
	r.SetStyle("left", "770px")
	r.SetStyle("width", "20px")
	pp.Update()
	data = pp.Data()
	assert.Equal(t, float32(715), data.Offsets.Popper.Left)
	assert.Equal(t, float32(60), data.Offsets.Arrow.Value)
	assert.Equal(t, "60px", arrowEl.Style("left"))
}

func TestArrowMissing(t *testing.T) {
	d, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 50, Height: 20})
	outside := d.CreateElement("div")
	d.Body().AppendChild(outside)
	pp, err := New(r, p, options(Bottom, func(o *Options) {
		o.Modifier("arrow").Element = outside
	}))
	require.NoError(t, err)
	assert.Nil(t, pp.Data().ArrowElement)
	assert.False(t, pp.Data().Offsets.Arrow.Valid)
	assert.Equal(t, float32(85), pp.Data().Offsets.Popper.Left)

	// arrow requires keepTogether
	arrowEl := d.CreateElement("div")
	p.AppendChild(arrowEl)
	pp, err = New(r, p, options(Bottom, func(o *Options) {
		o.Modifier("arrow").Element = arrowEl
		o.Modifier("keepTogether").Enabled = false
	}))
	require.NoError(t, err)
	assert.Nil(t, pp.Data().ArrowElement)
}

func TestHide(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{Left: 100, Top: -100, Width: 50, Height: 20})
	pp, err := New(r, p, options(Bottom, func(o *Options) {
		o.Modifier("flip").Enabled = false
	}))
	require.NoError(t, err)
	assert.True(t, pp.Data().Hide)
	assert.True(t, p.HasAttribute("x-out-of-boundaries"))

	r.SetStyle("top", "100px")
	pp.Update()
	assert.False(t, pp.Data().Hide)
	assert.False(t, p.HasAttribute("x-out-of-boundaries"))
}

func TestComputeStyleWithoutGPU(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 50, Height: 20})
	_, err := New(r, p, options(Bottom, func(o *Options) {
		o.Modifier("computeStyle").GPUAcceleration = false
	}))
	require.NoError(t, err)
	assert.Equal(t, "120px", p.Style("top"))
	assert.Equal(t, "85px", p.Style("left"))
	assert.Equal(t, "top, left", p.Style("will-change"))
	assert.Equal(t, "", p.Style("transform"))
}

func TestRoundedOffsets(t *testing.T) {
	d := &Data{Placement: Bottom}
	d.Offsets.Reference = geometry.Rect{Width: 51}
	d.Offsets.Popper = geometry.Rect{Left: 10.5, Top: 3.5, Width: 81, Height: 10}
	left, top, _, _ := roundedOffsets(d)
	// both widths are odd, so the left edge moves back a pixel before rounding
	assert.Equal(t, float32(10), left)
	assert.Equal(t, float32(4), top)

	d.Offsets.Popper.Width = 80
	left, _, _, _ = roundedOffsets(d)
	assert.Equal(t, float32(10), left)
}

func TestInner(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 200, Height: 100})
	pp, err := New(r, p, options(Bottom, func(o *Options) {
		o.Modifier("inner").Enabled = true
	}))
	require.NoError(t, err)
	assert.Equal(t, Top, pp.Data().Placement)
	assert.Equal(t, float32(170), pp.Data().Offsets.Popper.Top)
}

func TestScheduleUpdate(t *testing.T) {
	d, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 50, Height: 20})
	m := loop.NewManual(time.Unix(0, 0))
	d.SetScheduler(m)
	scroller := d.CreateElement("div")
	scroller.SetAttribute("style", box(0, 0, 400, 300)+"; overflow: auto")
	d.Body().AppendChild(scroller)
	scroller.AppendChild(r)
	inner := d.CreateElement("div")
	inner.SetAttribute("style", "width: 400px; height: 1000px")
	scroller.AppendChild(inner)

	updates := 0
	pp, err := New(r, p, Options{Placement: Bottom, EventsEnabled: true, OnUpdate: func(d *Data) { updates++ }})
	require.NoError(t, err)
	assert.True(t, pp.EventsEnabled())

	pp.ScheduleUpdate()
	pp.ScheduleUpdate()
	assert.Equal(t, 0, updates)
	m.Frame()
	assert.Equal(t, 1, updates)

	scroller.SetScroll(0, 50)
	d.SetViewport(700, 600)
	m.Frame()
	assert.Equal(t, 2, updates)
	assert.Equal(t, float32(100-50), pp.Data().Offsets.Reference.Top)

	pp.DisableEventListeners()
	scroller.SetScroll(0, 0)
	assert.Equal(t, 0, m.PendingFrames())
	assert.False(t, scroller.HasEventListener(dom.Scroll))

	pp.EnableEventListeners()
	pp.ScheduleUpdate()
	pp.Destroy()
	assert.Equal(t, 0, m.PendingFrames())
	assert.True(t, pp.IsDestroyed())
	assert.Equal(t, "", p.Style("transform"))
	assert.Equal(t, "", p.Style("position"))
	assert.False(t, p.HasAttribute("x-placement"))
	assert.True(t, p.IsConnected())
	pp.Update()
	assert.Equal(t, 2, updates)
}

func TestRemoveOnDestroy(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 50, Height: 20})
	pp, err := New(r, p, Options{RemoveOnDestroy: true})
	require.NoError(t, err)
	assert.Equal(t, "bottom", p.GetAttribute("x-placement"))
	pp.Destroy()
	assert.False(t, p.IsConnected())
}

func TestVirtualReference(t *testing.T) {
	_, _, p := setup(800, 600, dom.Rect{})
	v := &VirtualReference{Rect: dom.Rect{Left: 300, Top: 200}}
	pp, err := New(v, p, options(Top, nil))
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{Top: 170, Left: 260, Width: 80, Height: 30}, pp.Data().Offsets.Popper)
}

func TestNewErrors(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{})
	_, err := New(nil, p, Options{})
	assert.Error(t, err)
	_, err = New(r, nil, Options{})
	assert.Error(t, err)
	_, err = New(r, p, Options{Placement: "middle"})
	assert.Error(t, err)
}

func TestCustomModifier(t *testing.T) {
	_, r, p := setup(800, 600, dom.Rect{Left: 100, Top: 100, Width: 50, Height: 20})
	var seen []string
	pp, err := New(r, p, Options{Modifiers: []*Modifier{
		{Name: "record", Order: 450, Enabled: true, Run: func(d *Data, m *Modifier) *Data {
			seen = append(seen, string(d.Placement))
			return d
		}},
		{Name: "hide", Order: HideOrder, Enabled: false},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"bottom"}, seen)
	names := []string{}
	for _, m := range pp.Modifiers() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"shift", "offset", "preventOverflow", "keepTogether", "record", "arrow", "flip", "inner", "hide", "computeStyle", "applyStyle"}, names)
	assert.NotNil(t, pp.Modifier("hide").Run)
	assert.False(t, pp.Modifier("hide").Enabled)
}
