// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tooltip

import (
	"strconv"
	"testing"
	"time"

	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/loop"
	"cogentcore.org/popover/popper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sizedContent is content with a fixed size of 80x30.
const sizedContent = `<div style="width: 80px; height: 30px"></div>`

// setup returns a document with a manual scheduler and a reference
// button at (360, 300) of size 80x30.
func setup(t *testing.T) (*dom.Document, *loop.Manual, *dom.Element) {
	t.Cleanup(TheGlobals.Shutdown)
	doc := dom.NewDocument(800, 600)
	m := loop.NewManual(time.Unix(0, 0))
	doc.SetScheduler(m)
	ref := doc.CreateElement("button")
	ref.SetAttribute("style", "position: absolute; left: 360px; top: 300px; width: 80px; height: 30px")
	doc.Body().AppendChild(ref)
	return doc, m, ref
}

// testProps returns default props with sized content and no transitions.
func testProps(changes func(p *Props)) Props {
	p := DefaultProps()
	p.Content = sizedContent
	p.Duration = Uniform(0)
	if changes != nil {
		changes(&p)
	}
	return p
}

func newOne(t *testing.T, doc *dom.Document, ref *dom.Element, props Props) *Instance {
	insts, err := New(doc, ref, props)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	return insts[0]
}

func mouse(typ dom.Types, x, y float32) *dom.Event {
	return dom.NewMouseEvent(typ, x, y)
}

func TestShowHide(t *testing.T) {
	doc, m, ref := setup(t)
	shows, hiddens, mounts := 0, 0, 0
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.OnShow = func(*Instance) bool { shows++; return true }
		p.OnMount = func(*Instance) { mounts++ }
		p.OnHidden = func(*Instance) { hiddens++ }
	}))
	assert.Equal(t, "tippy-"+strconv.Itoa(inst.ID), inst.Popper.ID())
	assert.Nil(t, inst.PopperInstance, "lazy")
	assert.False(t, inst.Popper.IsConnected())

	inst.Show()
	assert.True(t, inst.State.IsVisible)
	assert.True(t, inst.State.IsMounted)
	assert.False(t, inst.State.IsShown)
	assert.Equal(t, doc.Body(), inst.Popper.Parent())
	require.NotNil(t, inst.PopperInstance)

	m.Frame()
	assert.True(t, inst.State.IsShown)
	assert.Equal(t, "visible", inst.Children.Tooltip.GetAttribute("data-state"))
	assert.Equal(t, "1", inst.Children.Tooltip.Style("opacity"))
	assert.Equal(t, "top", inst.Children.Tooltip.GetAttribute("x-placement"))
	assert.Equal(t, inst.Popper.ID(), ref.GetAttribute("aria-describedby"))

	inst.Show()
	m.Frame()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 1, mounts)

	inst.Hide()
	assert.False(t, inst.State.IsVisible)
	assert.False(t, inst.State.IsShown)
	assert.False(t, inst.State.IsMounted)
	assert.False(t, inst.Popper.IsConnected())
	assert.False(t, ref.HasAttribute("aria-describedby"))
	assert.Equal(t, "hidden", inst.Children.Tooltip.GetAttribute("data-state"))

	inst.Hide()
	assert.Equal(t, 1, hiddens)
}

func TestTransitions(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.Duration = Pair{300 * time.Millisecond, 200 * time.Millisecond}
	}))
	inst.Show()
	m.Frame()
	assert.Equal(t, "300ms", inst.Children.Tooltip.Style("transition-duration"))
	assert.False(t, inst.State.IsShown)
	m.Advance(300 * time.Millisecond)
	assert.True(t, inst.State.IsShown)

	inst.Hide()
	assert.False(t, inst.State.IsVisible)
	assert.True(t, inst.State.IsMounted)
	m.Advance(199 * time.Millisecond)
	assert.True(t, inst.State.IsMounted)
	m.Advance(time.Millisecond)
	assert.False(t, inst.State.IsMounted)
	assert.False(t, inst.Popper.IsConnected())
}

func TestHideBeforeMountCallback(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.Duration = Uniform(300 * time.Millisecond)
	}))
	inst.Show()
	inst.Hide()
	assert.False(t, inst.State.IsMounted)
	m.Frames(2)
	assert.False(t, inst.State.IsShown)
	assert.Zero(t, m.PendingTimers())
}

func TestDelay(t *testing.T) {
	doc, m, ref := setup(t)
	shows := 0
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.Delay = Pair{100 * time.Millisecond, 300 * time.Millisecond}
		p.OnShow = func(*Instance) bool { shows++; return true }
	}))

	ref.Dispatch(mouse(dom.MouseEnter, 370, 310))
	m.Advance(50 * time.Millisecond)
	ref.Dispatch(mouse(dom.MouseLeave, 370, 290))
	m.Advance(time.Second)
	m.Frames(2)
	assert.False(t, inst.State.IsVisible)
	assert.Zero(t, shows)

	ref.Dispatch(mouse(dom.MouseEnter, 370, 310))
	m.Advance(99 * time.Millisecond)
	assert.False(t, inst.State.IsVisible)
	m.Advance(time.Millisecond)
	assert.True(t, inst.State.IsVisible)
	m.Frame()

	ref.Dispatch(mouse(dom.MouseLeave, 370, 290))
	m.Advance(299 * time.Millisecond)
	assert.True(t, inst.State.IsVisible)
	m.Advance(time.Millisecond)
	assert.False(t, inst.State.IsVisible)
	assert.Equal(t, 1, shows)
}

func TestZeroHideDelayWaitsForFrame(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(nil))
	ref.Dispatch(mouse(dom.MouseEnter, 370, 310))
	assert.True(t, inst.State.IsVisible)
	m.Frame()
	ref.Dispatch(mouse(dom.MouseLeave, 370, 290))
	assert.True(t, inst.State.IsVisible)
	// entering again before the frame cancels the hide
	ref.Dispatch(mouse(dom.MouseEnter, 370, 310))
	m.Frame()
	assert.True(t, inst.State.IsVisible)
	ref.Dispatch(mouse(dom.MouseLeave, 370, 290))
	m.Frame()
	assert.False(t, inst.State.IsVisible)
}

func TestDisable(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(nil))
	inst.Disable()
	ref.Dispatch(mouse(dom.MouseEnter, 370, 310))
	inst.Show()
	assert.False(t, inst.State.IsVisible)

	inst.Enable()
	inst.Show()
	m.Frame()
	inst.Disable()
	assert.True(t, inst.State.IsVisible)
	inst.Hide()
	assert.False(t, inst.State.IsVisible)

	inst.Enable()
	ref.SetAttribute("disabled", "")
	inst.Show()
	assert.False(t, inst.State.IsVisible)
}

func TestVetoes(t *testing.T) {
	doc, m, ref := setup(t)
	allowHide := false
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.OnHide = func(*Instance) bool { return allowHide }
	}))
	inst.Show()
	m.Frame()
	inst.Hide()
	assert.True(t, inst.State.IsVisible)
	allowHide = true
	inst.Hide()
	assert.False(t, inst.State.IsVisible)

	require.NoError(t, inst.SetProps(func(p *Props) {
		p.OnShow = func(*Instance) bool { return false }
	}))
	inst.Show()
	assert.False(t, inst.State.IsVisible)
	assert.False(t, inst.State.IsMounted)
}

func TestDestroy(t *testing.T) {
	doc, m, ref := setup(t)
	hiddens := 0
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.OnHidden = func(*Instance) { hiddens++ }
	}))
	inst.Show()
	m.Frame()
	inst.Destroy()
	assert.True(t, inst.State.IsDestroyed)
	assert.False(t, inst.State.IsVisible)
	assert.False(t, inst.State.IsMounted)
	assert.False(t, inst.Popper.IsConnected())
	assert.Equal(t, 1, hiddens)
	assert.False(t, ref.HasEventListener(dom.MouseEnter))
	assert.False(t, ref.HasEventListener(dom.Focus))
	assert.Nil(t, TheGlobals.InstanceOf(ref))
	assert.True(t, inst.PopperInstance.IsDestroyed())

	inst.Show()
	assert.False(t, inst.State.IsVisible)
	assert.NoError(t, inst.SetProps(func(p *Props) { p.Placement = popper.Bottom }))
	assert.Equal(t, popper.Top, inst.Props.Placement)
	inst.Destroy()
	assert.True(t, inst.State.IsDestroyed)
	assert.Equal(t, 1, hiddens)

	// a new instance can be created on the reference again
	insts, err := New(doc, ref, testProps(nil))
	require.NoError(t, err)
	assert.Len(t, insts, 1)
}

func TestMultiple(t *testing.T) {
	doc, _, ref := setup(t)
	newOne(t, doc, ref, testProps(nil))
	insts, err := New(doc, ref, testProps(nil))
	require.NoError(t, err)
	assert.Empty(t, insts)
	insts, err = New(doc, ref, testProps(func(p *Props) { p.Multiple = true }))
	require.NoError(t, err)
	assert.Len(t, insts, 1)
	assert.Len(t, TheGlobals.InstancesOf(ref), 2)
}

func TestNewErrors(t *testing.T) {
	doc, _, ref := setup(t)
	_, err := New(doc, 42, testProps(nil))
	assert.Error(t, err)
	_, err = New(doc, ref, testProps(func(p *Props) { p.Placement = "middle" }))
	assert.Error(t, err)
	_, err = New(doc, "[", testProps(nil))
	assert.Error(t, err)
	_, err = Delegate(doc, ref, testProps(nil))
	assert.Error(t, err)

	bare := dom.NewDocument(100, 100)
	b := bare.CreateElement("button")
	bare.Body().AppendChild(b)
	_, err = New(bare, b, testProps(nil))
	assert.Error(t, err)

	insts, err := New(doc, "button", testProps(nil))
	require.NoError(t, err)
	assert.Len(t, insts, 1)
}

func TestClickToggle(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) { p.Trigger = "click" }))
	assert.False(t, ref.HasEventListener(dom.MouseEnter))
	ref.Dispatch(mouse(dom.Click, 370, 310))
	assert.True(t, inst.State.IsVisible)
	m.Frame()
	ref.Dispatch(mouse(dom.Click, 370, 310))
	m.Frame()
	assert.False(t, inst.State.IsVisible)
}

func TestFocusBlur(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(nil))
	ref.Focus()
	assert.True(t, inst.State.IsVisible)
	m.Frame()
	ref.Blur()
	m.Frame()
	assert.False(t, inst.State.IsVisible)
}

func TestHideOnClick(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(nil))
	inst.Show()
	m.Frame()
	doc.Body().Dispatch(mouse(dom.MouseDown, 10, 10))
	assert.False(t, inst.State.IsVisible)

	require.NoError(t, inst.SetProps(func(p *Props) { p.HideOnClick = HideOnClickFalse }))
	inst.Show()
	m.Frame()
	doc.Body().Dispatch(mouse(dom.MouseDown, 10, 10))
	assert.True(t, inst.State.IsVisible)
}

func TestClickInsideInteractive(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) { p.Interactive = true }))
	inst.Show()
	m.Frame()
	inst.Children.Content.Dispatch(mouse(dom.MouseDown, 380, 270))
	assert.True(t, inst.State.IsVisible)
	doc.Body().Dispatch(mouse(dom.MouseDown, 10, 10))
	assert.False(t, inst.State.IsVisible)
}

func TestInteractiveBorder(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.Interactive = true
		p.InteractiveBorder = 2
		p.Distance = 10
	}))
	ref.Dispatch(mouse(dom.MouseEnter, 370, 310))
	m.Frame()
	require.True(t, inst.State.IsVisible)
	assert.True(t, ref.HasClass(ActiveClass))
	require.Equal(t, "top", inst.Children.Tooltip.GetAttribute("x-placement"))

	ref.Dispatch(mouse(dom.MouseLeave, 370, 290))
	m.Frame()
	assert.True(t, inst.State.IsVisible, "interactive instances stay on leave")

	r := inst.Popper.BoundingClientRect()
	doc.Dispatch(mouse(dom.MouseMove, r.Left+10, r.Top-12))
	assert.Zero(t, inst.hideFrame)
	m.Frame()
	assert.True(t, inst.State.IsVisible)

	doc.Dispatch(mouse(dom.MouseMove, r.Left+10, r.Top-13))
	assert.NotZero(t, inst.hideFrame)
	m.Frame()
	assert.False(t, inst.State.IsVisible)
	assert.False(t, ref.HasClass(ActiveClass))
	assert.Nil(t, inst.mouseMoveListener)
}

func TestIsCursorOutsideInteractiveBorder(t *testing.T) {
	p := &Props{InteractiveBorder: 2, Distance: 10}
	rect := dom.Rect{Left: 100, Top: 100, Width: 80, Height: 30}
	tests := []struct {
		placement popper.Placement
		x, y      float32
		want      bool
	}{
		{popper.Top, 120, 88, false},
		{popper.Top, 120, 87, true},
		{popper.Top, 120, 143, true},
		{popper.Top, 120, 132, false},
		{popper.Bottom, 120, 142, false},
		{popper.Bottom, 120, 143, true},
		{popper.Bottom, 120, 97, true},
		{popper.Left, 88, 110, false},
		{popper.Left, 192, 110, true},
		{popper.Right, 192, 110, false},
		{popper.Right, 97, 110, true},
		{popper.TopStart, 120, 88, false},
		{"", 120, 110, true},
	}
	for _, tt := range tests {
		got := isCursorOutsideInteractiveBorder(tt.placement, rect, tt.x, tt.y, p)
		assert.Equal(t, tt.want, got, "%s at (%g, %g)", tt.placement, tt.x, tt.y)
	}
}

func TestDataAttributes(t *testing.T) {
	doc, _, ref := setup(t)
	ref.SetAttribute("data-tippy-placement", "bottom")
	ref.SetAttribute("data-tippy-content", "42")
	ref.SetAttribute("data-tippy-delay", "[100, 200]")
	ref.SetAttribute("data-tippy-interactive", "true")
	inst := newOne(t, doc, ref, testProps(nil))
	assert.Equal(t, popper.Bottom, inst.Props.Placement)
	assert.Equal(t, "42", inst.Props.Content)
	assert.Equal(t, Pair{100 * time.Millisecond, 200 * time.Millisecond}, inst.Props.Delay)
	assert.True(t, inst.Props.Interactive)
	assert.Equal(t, "42", inst.Children.Content.Text())

	require.NoError(t, inst.SetProps(func(p *Props) { p.Placement = popper.Left }))
	assert.Equal(t, popper.Left, inst.Props.Placement)

	other := doc.CreateElement("button")
	other.SetAttribute("data-tippy-placement", "bottom")
	doc.Body().AppendChild(other)
	ignored := newOne(t, doc, other, testProps(func(p *Props) { p.IgnoreAttributes = true }))
	assert.Equal(t, popper.Top, ignored.Props.Placement)
}

func TestSetProps(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(nil))
	inst.Show()
	m.Frame()
	first := inst.PopperInstance

	require.NoError(t, inst.SetContent("hello"))
	assert.Same(t, first, inst.PopperInstance)
	assert.Equal(t, "hello", inst.Children.Content.Text())

	require.NoError(t, inst.SetProps(func(p *Props) {
		p.Content = sizedContent
		p.Placement = popper.Bottom
	}))
	assert.NotSame(t, first, inst.PopperInstance)
	assert.True(t, first.IsDestroyed())
	assert.True(t, inst.PopperInstance.EventsEnabled())
	assert.Equal(t, "bottom", inst.Children.Tooltip.GetAttribute("x-placement"))

	err := inst.SetProps(func(p *Props) { p.Placement = "middle" })
	assert.Error(t, err)
	assert.Equal(t, popper.Bottom, inst.Props.Placement)

	require.NoError(t, inst.SetProps(func(p *Props) {
		p.Trigger = "click"
		p.Arrow = true
		p.Theme = "light border"
	}))
	assert.False(t, ref.HasEventListener(dom.MouseEnter))
	assert.True(t, ref.HasEventListener(dom.Click))
	assert.NotNil(t, inst.Children.Arrow)
	assert.Nil(t, inst.Children.Backdrop)
	assert.True(t, inst.Children.Tooltip.HasClass("light-theme"))
	assert.False(t, inst.Children.Tooltip.HasClass("dark-theme"))
}

func TestArrowAndElements(t *testing.T) {
	doc, _, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.Arrow = true
		p.ArrowType = "round"
		p.Interactive = true
		p.Theme = "light"
	}))
	c := inst.Children
	require.NotNil(t, c.Arrow)
	assert.True(t, c.Arrow.HasClass(RoundArrowClass))
	assert.Nil(t, c.Backdrop, "arrows turn off the backdrop")
	assert.Equal(t, "-1", inst.Popper.GetAttribute("tabindex"))
	assert.True(t, c.Tooltip.HasAttribute("data-interactive"))
	assert.True(t, c.Tooltip.HasClass("light-theme"))
	assert.Equal(t, "tooltip", inst.Popper.GetAttribute("role"))
	assert.Equal(t, "9999", inst.Popper.Style("z-index"))
}

func TestA11y(t *testing.T) {
	doc, _, _ := setup(t)
	span := doc.CreateElement("span")
	doc.Body().AppendChild(span)
	newOne(t, doc, span, testProps(nil))
	assert.Equal(t, "0", span.GetAttribute("tabindex"))

	other := doc.CreateElement("span")
	doc.Body().AppendChild(other)
	newOne(t, doc, other, testProps(func(p *Props) { p.A11y = false }))
	assert.False(t, other.HasAttribute("tabindex"))
}

func TestAppendToParent(t *testing.T) {
	doc, m, _ := setup(t)
	wrap := doc.CreateElement("div")
	doc.Body().AppendChild(wrap)
	ref := doc.CreateElement("button")
	wrap.AppendChild(ref)
	inst := newOne(t, doc, ref, testProps(func(p *Props) { p.AppendTo = AppendTo{Parent: true} }))
	inst.Show()
	m.Frame()
	assert.Equal(t, wrap, inst.Popper.Parent())
}

func TestHideAll(t *testing.T) {
	doc, m, ref := setup(t)
	other := doc.CreateElement("button")
	doc.Body().AppendChild(other)
	a := newOne(t, doc, ref, testProps(nil))
	b := newOne(t, doc, other, testProps(func(p *Props) {
		p.Duration = Uniform(time.Second)
	}))
	a.Show()
	b.Show()
	m.Frame()

	zero := time.Duration(0)
	HideAll(doc, HideAllOptions{Exclude: a, Duration: &zero})
	assert.True(t, a.State.IsVisible)
	assert.False(t, b.State.IsVisible)
	assert.False(t, b.State.IsMounted)

	HideAll(doc, HideAllOptions{})
	assert.False(t, a.State.IsVisible)
}

func TestSingleton(t *testing.T) {
	doc, m, refA := setup(t)
	refB := doc.CreateElement("button")
	refB.SetAttribute("style", "position: absolute; left: 100px; top: 300px; width: 80px; height: 30px")
	doc.Body().AppendChild(refB)
	a := newOne(t, doc, refA, testProps(func(p *Props) { p.Content = "A"; p.AllowHTML = false }))
	b := newOne(t, doc, refB, testProps(func(p *Props) { p.Content = "B"; p.AllowHTML = false }))

	s, err := Singleton([]*Instance{a, b}, testProps(nil))
	require.NoError(t, err)
	assert.Equal(t, "manual", s.Props.Trigger)

	refA.Dispatch(mouse(dom.MouseEnter, 370, 310))
	m.Frame()
	assert.True(t, s.State.IsVisible)
	assert.False(t, a.State.IsVisible)
	assert.Equal(t, "A", s.Children.Content.Text())

	refA.Dispatch(mouse(dom.MouseLeave, 370, 290))
	refB.Dispatch(mouse(dom.MouseEnter, 110, 310))
	m.Frame()
	assert.True(t, s.State.IsVisible)
	assert.Same(t, refB, s.Reference)
	assert.Equal(t, "B", s.Children.Content.Text())
	assert.False(t, b.State.IsVisible)

	refB.Dispatch(mouse(dom.MouseLeave, 110, 290))
	m.Frame()
	assert.False(t, s.State.IsVisible)

	s.Destroy()
	assert.Nil(t, a.Props.OnShow)
	refA.Dispatch(mouse(dom.MouseEnter, 370, 310))
	assert.True(t, a.State.IsVisible)

	_, err = Singleton(nil, testProps(nil))
	assert.Error(t, err)
}

func TestGroup(t *testing.T) {
	doc, m, refA := setup(t)
	refB := doc.CreateElement("button")
	doc.Body().AppendChild(refB)
	delay := Pair{200 * time.Millisecond, 0}
	a := newOne(t, doc, refA, testProps(func(p *Props) { p.Delay = delay }))
	b := newOne(t, doc, refB, testProps(func(p *Props) { p.Delay = delay }))
	Group([]*Instance{a, b}, GroupOptions{})

	refA.Dispatch(mouse(dom.MouseEnter, 370, 310))
	m.Advance(200 * time.Millisecond)
	assert.True(t, a.State.IsVisible)
	assert.Equal(t, Pair{0, 0}, b.Props.Delay)

	refA.Dispatch(mouse(dom.MouseLeave, 370, 290))
	refB.Dispatch(mouse(dom.MouseEnter, 10, 10))
	assert.True(t, b.State.IsVisible, "no show delay while the group is open")
	assert.False(t, a.State.IsVisible)
	m.Frame()

	refB.Dispatch(mouse(dom.MouseLeave, 10, 10))
	m.Frame()
	assert.False(t, b.State.IsVisible)
	assert.Equal(t, delay, a.Props.Delay)
	assert.Equal(t, delay, b.Props.Delay)
}

func TestDelegate(t *testing.T) {
	doc, m, _ := setup(t)
	list := doc.CreateElement("div")
	doc.Body().AppendChild(list)
	item := doc.CreateElement("button")
	item.AddClass("item")
	list.AppendChild(item)

	insts, err := Delegate(doc, list, testProps(func(p *Props) { p.Target = ".item" }))
	require.NoError(t, err)
	require.Len(t, insts, 1)
	parent := insts[0]

	list.Dispatch(mouse(dom.MouseOver, 5, 5))
	assert.Nil(t, TheGlobals.InstanceOf(item), "only matching targets")

	later := doc.CreateElement("button")
	later.AddClass("item")
	list.AppendChild(later)
	later.Dispatch(mouse(dom.MouseOver, 5, 5))
	child := TheGlobals.InstanceOf(later)
	require.NotNil(t, child)
	assert.True(t, child.State.IsVisible)
	assert.Empty(t, child.Props.Target)
	assert.False(t, parent.State.IsVisible)
	m.Frame()

	later.Dispatch(mouse(dom.MouseLeave, 5, 5))
	m.Frame()
	assert.False(t, child.State.IsVisible)

	parent.Destroy()
	assert.True(t, child.State.IsDestroyed)
}

func TestFollowCursor(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.FollowCursor = FollowBoth
		p.Flip = false
	}))
	ref.Dispatch(mouse(dom.MouseEnter, 380, 310))
	m.Frame()
	require.True(t, inst.State.IsVisible)
	po := inst.PopperInstance.Data().Offsets.Popper
	assert.InDelta(t, 340, po.Left, 1)
	assert.InDelta(t, 270, po.Top, 1)

	doc.Dispatch(mouse(dom.MouseMove, 400, 320))
	po = inst.PopperInstance.Data().Offsets.Popper
	assert.InDelta(t, 360, po.Left, 1)
	assert.InDelta(t, 280, po.Top, 1)

	ref.Dispatch(mouse(dom.MouseLeave, 400, 340))
	m.Frame()
	assert.False(t, inst.State.IsVisible)
	assert.Nil(t, inst.followListener)
}

func TestTouchInput(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) { p.Touch = false }))
	doc.Body().Dispatch(dom.NewEvent(dom.TouchStart))
	assert.True(t, TheGlobals.IsUsingTouch())

	inst.Show()
	assert.False(t, inst.State.IsVisible)

	e1 := mouse(dom.MouseMove, 1, 1)
	e1.Time = m.Now()
	doc.Dispatch(e1)
	assert.True(t, TheGlobals.IsUsingTouch())
	e2 := mouse(dom.MouseMove, 2, 2)
	e2.Time = m.Now().Add(10 * time.Millisecond)
	doc.Dispatch(e2)
	assert.False(t, TheGlobals.IsUsingTouch())

	inst.Show()
	assert.True(t, inst.State.IsVisible)
}

func TestWindowBlur(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(nil))
	ref.Focus()
	m.Frame()
	require.True(t, inst.State.IsVisible)
	doc.Window().Dispatch(dom.NewEvent(dom.Blur))
	assert.Nil(t, doc.ActiveElement())
	m.Frame()
	assert.False(t, inst.State.IsVisible)
}

func TestLazyFalse(t *testing.T) {
	doc, _, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) { p.Lazy = false }))
	assert.NotNil(t, inst.PopperInstance)
	assert.False(t, inst.PopperInstance.EventsEnabled())
}

func TestOffsetWithDistance(t *testing.T) {
	assert.Equal(t, "0, 10", offsetWithDistance("0", 10))
	assert.Equal(t, "5, 20 + 10", offsetWithDistance("5, 20", 10))
	assert.Equal(t, "5, 20", offsetWithDistance("5, 20", 0))
}

func TestReferenceRemovedDestroys(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(nil))
	inst.Show()
	m.Frame()
	require.True(t, inst.State.IsShown)

	ref.Remove()
	assert.True(t, inst.State.IsDestroyed)
	assert.False(t, inst.State.IsVisible)
	assert.False(t, inst.State.IsMounted)
	assert.False(t, inst.Popper.IsConnected())
	assert.Nil(t, TheGlobals.InstanceOf(ref))
	assert.Nil(t, TheGlobals.PopperInstance(inst.Popper))

	// references in a removed subtree, including its shadow trees
	wrap := doc.CreateElement("div")
	doc.Body().AppendChild(wrap)
	host := doc.CreateElement("div")
	wrap.AppendChild(host)
	inner := doc.CreateElement("span")
	host.AttachShadow().AppendChild(inner)
	insts, err := New(doc, []*dom.Element{host, inner}, testProps(nil))
	require.NoError(t, err)
	require.Len(t, insts, 2)
	doc.Body().RemoveChild(wrap)
	assert.True(t, insts[0].State.IsDestroyed)
	assert.True(t, insts[1].State.IsDestroyed)

	// unmounting a popper keeps the instances of references inside it
	button := doc.CreateElement("button")
	button.SetAttribute("style", "position: absolute; left: 100px; top: 100px; width: 40px; height: 20px")
	doc.Body().AppendChild(button)
	nestedRef := doc.CreateElement("span")
	outer := newOne(t, doc, button, testProps(func(p *Props) {
		p.ContentElement = nestedRef
		p.Interactive = true
	}))
	outer.Show()
	m.Frame()
	require.True(t, nestedRef.IsConnected())
	nested := newOne(t, doc, nestedRef, testProps(nil))
	outer.Hide()
	assert.False(t, outer.State.IsMounted)
	assert.False(t, nestedRef.IsConnected())
	assert.False(t, nested.State.IsDestroyed)
	assert.False(t, outer.State.IsDestroyed)
}

func TestSticky(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) { p.Sticky = true }))
	inst.Show()
	m.Frame()
	require.True(t, inst.State.IsShown)
	assert.Equal(t, "translate3d(360px, 260px, 0)", inst.Popper.Style("transform"))

	ref.SetStyle("left", "100px")
	m.Frames(2)
	assert.Equal(t, "translate3d(100px, 260px, 0)", inst.Popper.Style("transform"))

	inst.Hide()
	assert.False(t, inst.State.IsMounted)
	m.Frames(3)
	assert.Zero(t, m.PendingFrames())
	assert.Zero(t, inst.stickyFrame)
}

func TestStickyShowAgainBeforeUnmount(t *testing.T) {
	doc, m, ref := setup(t)
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.Sticky = true
		p.Duration = Uniform(100 * time.Millisecond)
	}))
	inst.Show()
	m.Frames(2)
	steady := m.PendingFrames()
	require.NotZero(t, steady)

	inst.Hide()
	require.True(t, inst.State.IsMounted, "still transitioning out")
	inst.Show()
	m.Frames(3)
	assert.Equal(t, steady, m.PendingFrames(), "one sticky frame loop")

	inst.Destroy()
	m.Frames(3)
	assert.Zero(t, m.PendingFrames())
}

func TestWait(t *testing.T) {
	doc, m, ref := setup(t)
	triggers := 0
	var waited *dom.Event
	inst := newOne(t, doc, ref, testProps(func(p *Props) {
		p.Delay = Uniform(100 * time.Millisecond)
		p.OnTrigger = func(*Instance, *dom.Event) { triggers++ }
		p.Wait = func(_ *Instance, e *dom.Event) { waited = e }
	}))

	ref.Dispatch(mouse(dom.MouseEnter, 370, 310))
	assert.Equal(t, 1, triggers)
	require.NotNil(t, waited)
	assert.Equal(t, dom.MouseEnter, waited.Type)
	assert.Zero(t, inst.showTimer)
	assert.Zero(t, m.PendingTimers())

	m.Advance(time.Second)
	m.Frames(2)
	assert.False(t, inst.State.IsVisible)

	inst.Show()
	assert.True(t, inst.State.IsVisible)
}
