// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tooltip

import (
	"cogentcore.org/popover/base/errors"
	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/geometry"
	"cogentcore.org/popover/loop"
	"cogentcore.org/popover/popper"
)

// on adds a trigger listener to the events target.
func (inst *Instance) on(typ dom.Types, fun func(e *dom.Event), opts ...dom.ListenerOptions) {
	t := inst.eventsTarget()
	inst.bindings = append(inst.bindings, binding{target: t, listener: t.AddEventListener(typ, fun, opts...)})
}

// addTriggers adds the listeners of the triggers of the props. With a
// Target, the bubbling variants of the events are used to create
// child instances for matching descendants.
func (inst *Instance) addTriggers() {
	p := &inst.Props
	passive := dom.ListenerOptions{Passive: true}
	if p.TouchHold && p.Target == "" {
		inst.on(dom.TouchStart, inst.onTrigger, passive)
		inst.on(dom.TouchEnd, inst.onMouseLeave, passive)
	}
	for _, name := range p.triggers() {
		typ, err := dom.TypesFromString(name)
		if errors.Log(err) != nil {
			continue
		}
		if p.Target == "" {
			inst.on(typ, inst.onTrigger)
			switch typ {
			case dom.MouseEnter:
				inst.on(dom.MouseLeave, inst.onMouseLeave)
			case dom.Focus:
				inst.on(dom.Blur, inst.onBlur)
			}
			continue
		}
		switch typ {
		case dom.MouseEnter:
			inst.on(dom.MouseOver, inst.onDelegateShow)
			inst.on(dom.MouseOut, inst.onDelegateHide)
		case dom.Focus:
			inst.on(dom.FocusIn, inst.onDelegateShow)
			inst.on(dom.FocusOut, inst.onDelegateHide)
		case dom.Click:
			inst.on(dom.Click, inst.onDelegateShow)
		}
	}
}

// removeTriggers removes the listeners added by addTriggers.
func (inst *Instance) removeTriggers() {
	for _, b := range inst.bindings {
		b.target.RemoveEventListener(b.listener)
	}
	inst.bindings = nil
}

// isEventListenerStopped returns whether the event is ignored for
// the current input mode: with touch input, touch events only count
// for TouchHold, and mouse events only without it.
func (inst *Instance) isEventListenerStopped(e *dom.Event) bool {
	if !TheGlobals.IsUsingTouch() {
		return false
	}
	isTouch := e.Type.IsTouch()
	return (inst.Props.TouchHold && !isTouch) || (!inst.Props.TouchHold && isTouch)
}

func (inst *Instance) onTrigger(e *dom.Event) {
	if !inst.State.IsEnabled || inst.isEventListenerStopped(e) {
		return
	}
	if !inst.State.IsVisible {
		inst.lastTriggerEvent = e.Type
		if e.Type.IsMouse() {
			inst.lastMouseMove = e
		}
	}
	// clicks toggle
	if e.Type == dom.Click && inst.Props.HideOnClick != HideOnClickFalse && inst.State.IsVisible {
		inst.scheduleHide(e)
		return
	}
	inst.scheduleShow(e, false)
}

func (inst *Instance) onMouseLeave(e *dom.Event) {
	if inst.isEventListenerStopped(e) {
		return
	}
	if inst.Props.Interactive {
		inst.addInteractiveListeners()
		return
	}
	inst.scheduleHide(e)
}

func (inst *Instance) onBlur(e *dom.Event) {
	if e.Target != inst.eventsTarget() {
		return
	}
	if inst.Props.Interactive && e.RelatedTarget != nil && inst.Popper.Contains(e.RelatedTarget) {
		return
	}
	inst.scheduleHide(e)
}

func (inst *Instance) onDelegateShow(e *dom.Event) {
	if target := inst.delegateTarget(e); target != nil {
		inst.scheduleShow(e, false)
	}
}

func (inst *Instance) onDelegateHide(e *dom.Event) {
	if target := inst.delegateTarget(e); target != nil {
		inst.scheduleHide(e)
	}
}

// delegateTarget returns the closest ancestor of the event target
// that matches Target, or nil.
func (inst *Instance) delegateTarget(e *dom.Event) *dom.Element {
	if e == nil || e.Target == nil {
		return nil
	}
	target, err := e.Target.Closest(inst.Props.Target)
	if errors.Log(err) != nil || target == nil || !inst.Reference.Contains(target) {
		return nil
	}
	return target
}

// createDelegateChild creates and shows an instance for the delegated
// target of the event.
func (inst *Instance) createDelegateChild(e *dom.Event) {
	target := inst.delegateTarget(e)
	if target == nil || TheGlobals.InstanceOf(target) != nil {
		return
	}
	props := inst.collectionProps.Clone()
	props.Target = ""
	props.ShowOnInit = true
	errors.Log1(newInstance(target, props))
}

// scheduleShow shows the instance after the show delay, or right away
// for a zero delay. Delegate instances create a child instance instead.
func (inst *Instance) scheduleShow(e *dom.Event, avoidOnTrigger bool) {
	inst.ClearDelayTimeouts()
	if inst.State.IsVisible {
		return
	}
	if inst.Props.Target != "" {
		inst.createDelegateChild(e)
		return
	}
	inst.isScheduledToShow = true
	if e != nil && !avoidOnTrigger && inst.Props.OnTrigger != nil {
		inst.Props.OnTrigger(inst, e)
	}
	if inst.Props.Wait != nil {
		inst.Props.Wait(inst, e)
		return
	}
	if inst.isInLooseFollowCursorMode() && !inst.State.IsMounted {
		if inst.PopperInstance == nil {
			inst.createPopperInstance()
		}
		inst.addFollowCursorListener()
	}
	d := inst.Props.Delay.Show()
	if d <= 0 {
		inst.Show()
		return
	}
	inst.showTimer = inst.scheduler().SetTimeout(d, func() {
		inst.showTimer = 0
		inst.Show()
	})
}

// scheduleHide hides the instance after the hide delay, or on the
// next animation frame for a zero delay.
func (inst *Instance) scheduleHide(e *dom.Event) {
	inst.ClearDelayTimeouts()
	if e != nil && inst.Props.OnUntrigger != nil {
		inst.Props.OnUntrigger(inst, e)
	}
	if !inst.State.IsVisible {
		inst.removeFollowCursorListener()
		return
	}
	inst.isScheduledToShow = false
	s := inst.scheduler()
	d := inst.Props.Delay.Hide()
	if d <= 0 {
		inst.hideFrame = s.RequestAnimationFrame(func() {
			inst.hideFrame = 0
			inst.Hide()
		})
		return
	}
	inst.hideTimer = s.SetTimeout(d, func() {
		inst.hideTimer = 0
		if inst.State.IsVisible {
			inst.Hide()
		}
	})
}

// buildMouseMove makes the pointer tracker of interactive poppers.
func (inst *Instance) buildMouseMove() {
	inst.onMouseMove = loop.Debounce(inst.scheduler(), inst.Props.InteractiveDebounce, inst.trackInteractiveMouse)
}

// addInteractiveListeners starts tracking the pointer after it leaves
// the reference of an interactive instance.
func (inst *Instance) addInteractiveListeners() {
	body := inst.doc.Body()
	if inst.bodyLeaveListener == nil {
		inst.bodyLeaveListener = body.AddEventListener(dom.MouseLeave, inst.onBodyLeave)
	}
	inst.addMouseMoveListener()
}

func (inst *Instance) addMouseMoveListener() {
	if inst.mouseMoveListener == nil {
		inst.mouseMoveListener = inst.doc.AddEventListener(dom.MouseMove, func(e *dom.Event) { inst.onMouseMove(e) })
	}
}

func (inst *Instance) onBodyLeave(e *dom.Event) {
	if e.Target != inst.doc.Body() {
		return
	}
	inst.cleanupInteractiveMouseListeners()
	inst.scheduleHide(e)
}

// cleanupInteractiveMouseListeners stops tracking the pointer.
func (inst *Instance) cleanupInteractiveMouseListeners() {
	if inst.bodyLeaveListener != nil {
		inst.doc.Body().RemoveEventListener(inst.bodyLeaveListener)
		inst.bodyLeaveListener = nil
	}
	if inst.mouseMoveListener != nil {
		inst.doc.RemoveEventListener(inst.mouseMoveListener)
		inst.mouseMoveListener = nil
	}
}

// trackInteractiveMouse hides an interactive instance once the pointer
// is outside of both elements and beyond the interactive border.
func (inst *Instance) trackInteractiveMouse(e *dom.Event) {
	for el := e.Target; el != nil; el = el.ParentNode() {
		if el == inst.Reference || el == inst.Popper {
			return
		}
	}
	placement := popper.Placement(inst.Children.Tooltip.GetAttribute("x-placement"))
	if isCursorOutsideInteractiveBorder(placement, inst.Popper.BoundingClientRect(), e.ClientX, e.ClientY, &inst.Props) {
		inst.cleanupInteractiveMouseListeners()
		inst.scheduleHide(e)
	}
}

// isCursorOutsideInteractiveBorder returns whether the point is
// further than the interactive border from the popper rect. On the
// side facing the reference the distance is added to the border.
func isCursorOutsideInteractiveBorder(placement popper.Placement, rect dom.Rect, x, y float32, p *Props) bool {
	if placement == "" {
		return true
	}
	side := placement.Side()
	border := p.InteractiveBorder
	gap := func(s geometry.Side) float32 {
		if side == s {
			return border + p.Distance
		}
		return border
	}
	exceedsTop := rect.Top-y > gap(geometry.Top)
	exceedsBottom := y-rect.Bottom() > gap(geometry.Bottom)
	exceedsLeft := rect.Left-x > gap(geometry.Left)
	exceedsRight := x-rect.Right() > gap(geometry.Right)
	return exceedsTop || exceedsBottom || exceedsLeft || exceedsRight
}

// isInLooseFollowCursorMode returns whether the popper follows the
// cursor instead of the reference.
func (inst *Instance) isInLooseFollowCursorMode() bool {
	fc := inst.Props.FollowCursor
	return (fc != FollowNone && inst.lastTriggerEvent != dom.Focus) ||
		(TheGlobals.IsUsingTouch() && fc == FollowInitial)
}

func (inst *Instance) addFollowCursorListener() {
	if inst.followListener == nil {
		inst.followListener = inst.doc.AddEventListener(dom.MouseMove, inst.positionVirtualReferenceNearCursor)
	}
}

func (inst *Instance) removeFollowCursorListener() {
	if inst.followListener != nil {
		inst.doc.RemoveEventListener(inst.followListener)
		inst.followListener = nil
	}
}

// positionVirtualReferenceNearCursor positions the popper at the
// cursor of the mouse event, kept inside of the viewport.
func (inst *Instance) positionVirtualReferenceNearCursor(e *dom.Event) {
	inst.lastMouseMove = e
	pp := inst.PopperInstance
	if pp == nil {
		return
	}
	placement := popper.Placement(inst.Children.Tooltip.GetAttribute("x-placement"))
	if placement == "" {
		placement = inst.Props.Placement
	}
	padding := float32(popper.DefaultPadding)
	if inst.Props.Arrow {
		padding += 16
	}
	vertical := placement.Side().IsVertical()
	vw, vh := inst.doc.Viewport()
	x, y := e.ClientX, e.ClientY
	if vertical {
		x = min(max(x, padding), max(vw-padding, padding))
	} else {
		y = min(max(y, padding), max(vh-padding, padding))
	}

	ref := inst.Reference.BoundingClientRect()
	r := dom.Rect{Left: x, Top: y}
	switch inst.Props.FollowCursor {
	case FollowHorizontal:
		r.Top, r.Height = ref.Top, ref.Height
	case FollowVertical:
		r.Left, r.Width = ref.Left, ref.Width
	}
	if inst.virtual == nil {
		inst.virtual = &popper.VirtualReference{}
	}
	inst.virtual.Rect = r
	inst.virtual.Context = inst.Reference
	pp.Reference = inst.virtual
	pp.Update()

	if inst.Props.FollowCursor == FollowInitial && inst.State.IsVisible {
		inst.removeFollowCursorListener()
	}
}
