// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package popper positions a floating element (the popper) next to
// a reference element. Each update computes the offsets of the
// reference, places the popper on the requested side, and runs an
// ordered pipeline of [Modifier]s that shift, offset, clamp, flip and
// finally style the popper.
package popper

import (
	"errors"
	"slices"

	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/geometry"
	"cogentcore.org/popover/loop"
)

// Options are the options of a [Popper].
type Options struct {

	// Placement is the requested placement. It defaults to [Bottom].
	Placement Placement

	// PositionFixed positions the popper with fixed positioning.
	PositionFixed bool

	// EventsEnabled is whether the popper updates on scroll and
	// resize from the start.
	EventsEnabled bool

	// RemoveOnDestroy removes the popper from the document on destroy.
	RemoveOnDestroy bool

	// Modifiers override the [DefaultModifiers] with the same name and
	// add custom ones. An override with a nil Run keeps the Run and
	// OnLoad functions of the default modifier.
	Modifiers []*Modifier

	// OnCreate is called after the first update.
	OnCreate func(d *Data)

	// OnUpdate is called after every update except the first.
	OnUpdate func(d *Data)
}

// DefaultOptions returns the default options, with the default modifiers.
func DefaultOptions() Options {
	return Options{Placement: Bottom, EventsEnabled: true, Modifiers: DefaultModifiers()}
}

// Modifier returns the modifier with the given name in the options, or nil.
func (o *Options) Modifier(name string) *Modifier {
	return findModifier(o.Modifiers, name)
}

// Popper is a positioning session for one floating element.
// All of its methods must be called from the goroutine of the
// scheduler of the document.
type Popper struct {

	// Reference is the element or virtual reference the popper is
	// positioned against. It may be replaced between updates.
	Reference geometry.Reference

	// Element is the floating element.
	Element *dom.Element

	// Options are the options. Placement and modifier changes
	// take effect on the next update.
	Options Options

	doc       *dom.Document
	modifiers []*Modifier
	data      *Data

	isCreated     bool
	isDestroyed   bool
	eventsEnabled bool
	updateFrame   loop.Handle

	resizeListener *dom.Listener
	scrollListener *dom.Listener
	scrollParents  []scrollBinding
}

type scrollBinding struct {
	element  *dom.Element
	listener *dom.Listener
}

// New returns a new [Popper] for the given reference and floating
// element and runs its first update.
func New(reference geometry.Reference, popper *dom.Element, opts Options) (*Popper, error) {
	if reference == nil {
		return nil, errors.New("popper.New: reference is nil")
	}
	if popper == nil {
		return nil, errors.New("popper.New: popper element is nil")
	}
	if opts.Placement == "" {
		opts.Placement = Bottom
	}
	if err := opts.Placement.Validate(); err != nil {
		return nil, err
	}
	p := &Popper{Reference: reference, Element: popper, Options: opts, doc: popper.Document()}
	p.modifiers = mergeModifiers(opts.Modifiers)
	for _, m := range p.modifiers {
		if m.Enabled && m.OnLoad != nil {
			m.OnLoad(p, m)
		}
	}
	p.Update()
	if opts.EventsEnabled {
		p.EnableEventListeners()
	}
	return p, nil
}

// mergeModifiers returns the default modifiers with the given
// overrides and additions, sorted by order.
func mergeModifiers(overrides []*Modifier) []*Modifier {
	ms := DefaultModifiers()
	for _, o := range overrides {
		if o == nil {
			continue
		}
		i := slices.IndexFunc(ms, func(m *Modifier) bool { return m.Name == o.Name })
		if i < 0 {
			ms = append(ms, o)
			continue
		}
		if o.Run == nil {
			o.Run = ms[i].Run
			if o.OnLoad == nil {
				o.OnLoad = ms[i].OnLoad
			}
		}
		ms[i] = o
	}
	sortModifiers(ms)
	return ms
}

// Modifier returns the modifier of the popper with the given name, or nil.
// Changes to it take effect on the next update.
func (p *Popper) Modifier(name string) *Modifier {
	return findModifier(p.modifiers, name)
}

// Modifiers returns the modifiers of the popper in order.
func (p *Popper) Modifiers() []*Modifier {
	return p.modifiers
}

// Data returns the data of the last update.
func (p *Popper) Data() *Data {
	return p.data
}

// IsDestroyed returns whether [Popper.Destroy] has been called.
func (p *Popper) IsDestroyed() bool {
	return p.isDestroyed
}

// EventsEnabled returns whether the popper updates on scroll and resize.
func (p *Popper) EventsEnabled() bool {
	return p.eventsEnabled
}

// Update recomputes the position of the popper and applies it.
func (p *Popper) Update() {
	if p.isDestroyed {
		return
	}
	d := newData(p)
	d.Offsets.Reference = p.referenceOffsets()
	var b geometry.Boundary
	var padding geometry.Padding
	if fm := p.Modifier("flip"); fm != nil {
		b, padding = fm.Boundary, fm.Padding
	}
	d.Placement = p.computeAutoPlacement(p.Options.Placement, d.Offsets.Reference, b, padding)
	d.OriginalPlacement = d.Placement
	d.PositionFixed = p.Options.PositionFixed
	d.Offsets.Popper = popperOffsets(p.Element, d.Offsets.Reference, d.Placement)
	d = runModifiers(p.modifiers, d, "")
	p.data = d
	if !p.isCreated {
		p.isCreated = true
		if p.Options.OnCreate != nil {
			p.Options.OnCreate(d)
		}
		return
	}
	if p.Options.OnUpdate != nil {
		p.Options.OnUpdate(d)
	}
}

// ScheduleUpdate updates the popper on the next animation frame.
// Calls before that frame are coalesced into one update. Without
// a scheduler, the update happens immediately.
func (p *Popper) ScheduleUpdate() {
	s := p.doc.Scheduler()
	if s == nil {
		p.Update()
		return
	}
	if p.updateFrame != 0 {
		return
	}
	p.updateFrame = s.RequestAnimationFrame(func() {
		p.updateFrame = 0
		p.Update()
	})
}

// EnableEventListeners makes the popper update when the window
// is resized or the document or any scroll parent of the reference
// is scrolled.
func (p *Popper) EnableEventListeners() {
	if p.eventsEnabled || p.isDestroyed {
		return
	}
	p.eventsEnabled = true
	opts := dom.ListenerOptions{Passive: true}
	update := func(e *dom.Event) { p.ScheduleUpdate() }
	w := p.doc.Window()
	p.resizeListener = w.AddEventListener(dom.Resize, update, opts)
	p.scrollListener = w.AddEventListener(dom.Scroll, update, opts)
	for _, sp := range geometry.ScrollParents(p.doc, p.Reference) {
		p.scrollParents = append(p.scrollParents, scrollBinding{sp, sp.AddEventListener(dom.Scroll, update, opts)})
	}
}

// DisableEventListeners removes the listeners added by
// [Popper.EnableEventListeners] and cancels any scheduled update.
func (p *Popper) DisableEventListeners() {
	if !p.eventsEnabled {
		return
	}
	p.eventsEnabled = false
	w := p.doc.Window()
	w.RemoveEventListener(p.resizeListener)
	w.RemoveEventListener(p.scrollListener)
	p.resizeListener, p.scrollListener = nil, nil
	for _, sb := range p.scrollParents {
		sb.element.RemoveEventListener(sb.listener)
	}
	p.scrollParents = nil
	if s := p.doc.Scheduler(); s != nil {
		s.CancelAnimationFrame(p.updateFrame)
	}
	p.updateFrame = 0
}

// Destroy ends the session: it removes the styles and attributes
// applied to the popper and the event listeners, and removes the
// popper from the document if [Options.RemoveOnDestroy] is set.
func (p *Popper) Destroy() {
	if p.isDestroyed {
		return
	}
	if isModifierEnabled(p.modifiers, "applyStyle") {
		p.Element.RemoveAttribute("x-placement")
		for _, s := range []string{"position", "top", "left", "right", "bottom", "will-change", "transform"} {
			p.Element.SetStyle(s, "")
		}
	}
	p.DisableEventListeners()
	if s := p.doc.Scheduler(); s != nil && p.updateFrame != 0 {
		s.CancelAnimationFrame(p.updateFrame)
		p.updateFrame = 0
	}
	p.isDestroyed = true
	if p.Options.RemoveOnDestroy {
		p.Element.Remove()
	}
}

// referenceOffsets returns the rect of the reference relative to the
// offset parent the popper is positioned in.
func (p *Popper) referenceOffsets() geometry.Rect {
	var op *dom.Element
	if p.Options.PositionFixed {
		op = geometry.FixedPositionOffsetParent(p.doc, p.Element)
	} else {
		op = geometry.CommonOffsetParent(p.doc, p.Element, geometry.ReferenceNode(p.Reference))
	}
	return geometry.OffsetRectRelativeTo(p.Reference, op, p.Options.PositionFixed)
}

// computeAutoPlacement resolves an auto placement to the side with the
// largest area between the reference and the boundaries that fits the
// popper, or the largest area if none fits. Ties go to the first side
// in the order top, right, bottom, left. The variation is kept.
func (p *Popper) computeAutoPlacement(pl Placement, ref geometry.Rect, b geometry.Boundary, padding geometry.Padding) Placement {
	if !pl.IsAuto() {
		return pl
	}
	bounds := geometry.Boundaries(p.Element, p.Reference, padding, b, false)
	type area struct {
		side          geometry.Side
		width, height float32
	}
	areas := []area{
		{geometry.Top, bounds.Width, ref.Top - bounds.Top},
		{geometry.Right, bounds.Right() - ref.Right(), bounds.Height},
		{geometry.Bottom, bounds.Width, bounds.Bottom() - ref.Bottom()},
		{geometry.Left, ref.Left - bounds.Left, bounds.Height},
	}
	slices.SortStableFunc(areas, func(a, b area) int {
		aa, ba := a.width*a.height, b.width*b.height
		switch {
		case aa > ba:
			return -1
		case aa < ba:
			return 1
		}
		return 0
	})
	chosen := areas[0].side
	pw, ph := p.Element.ClientWidth(), p.Element.ClientHeight()
	if i := slices.IndexFunc(areas, func(a area) bool { return a.width >= pw && a.height >= ph }); i >= 0 {
		chosen = areas[i].side
	}
	return Compose(chosen, pl.Variation())
}

// popperOffsets returns the rect of the popper placed on the side of
// the placement of the reference, centered along that side.
func popperOffsets(popper *dom.Element, ref geometry.Rect, pl Placement) geometry.Rect {
	w, h := geometry.OuterSizes(popper)
	r := geometry.Rect{Width: w, Height: h}
	switch pl.Side() {
	case geometry.Top:
		r.Left = ref.Left + ref.Width/2 - w/2
		r.Top = ref.Top - h
	case geometry.Bottom:
		r.Left = ref.Left + ref.Width/2 - w/2
		r.Top = ref.Bottom()
	case geometry.Left:
		r.Top = ref.Top + ref.Height/2 - h/2
		r.Left = ref.Left - w
	case geometry.Right:
		r.Top = ref.Top + ref.Height/2 - h/2
		r.Left = ref.Right()
	}
	return r
}

// VirtualReference is a [geometry.Reference] with a given client rect,
// such as a point at the mouse cursor.
type VirtualReference struct {

	// Rect is the client rect of the reference.
	Rect dom.Rect

	// Context is the element the reference belongs to, used to find
	// offset and scroll parents. It may be nil.
	Context *dom.Element
}

func (v *VirtualReference) BoundingClientRect() dom.Rect { return v.Rect }
func (v *VirtualReference) ClientWidth() float32         { return v.Rect.Width }
func (v *VirtualReference) ClientHeight() float32        { return v.Rect.Height }

// ContextElement returns the context element of the reference.
func (v *VirtualReference) ContextElement() *dom.Element { return v.Context }
