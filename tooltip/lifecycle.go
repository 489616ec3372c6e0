// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tooltip

import (
	"log/slog"
	"time"

	"cogentcore.org/popover/dom"
)

// ShowDuration shows the instance with the given transition duration.
// It does nothing if the instance is destroyed, disabled, already
// visible, vetoed by OnShow, or if its events target is disabled.
func (inst *Instance) ShowDuration(d time.Duration) {
	if inst.State.IsDestroyed || !inst.State.IsEnabled || (TheGlobals.IsUsingTouch() && !inst.Props.Touch) {
		return
	}
	if inst.eventsTarget().HasAttribute("disabled") || inst.State.IsVisible {
		return
	}
	if inst.Props.OnShow != nil && !inst.Props.OnShow(inst) {
		return
	}
	slog.Debug("tooltip: show", "instance", inst.ID, "duration", d)

	inst.Popper.SetStyle("visibility", "visible")
	inst.State.IsVisible = true
	if inst.Props.Interactive {
		inst.eventsTarget().AddClass(ActiveClass)
	}

	// no transitions until the popper is positioned
	els := inst.Children.transitionable()
	setTransitionDuration(append(els, inst.Popper), 0)

	inst.hasMountCallbackRun = false
	inst.mountCallback = func() {
		if !inst.State.IsVisible || inst.hasMountCallbackRun {
			return
		}
		inst.hasMountCallbackRun = true
		loose := inst.isInLooseFollowCursorMode()
		if loose && inst.lastMouseMove != nil {
			inst.positionVirtualReferenceNearCursor(inst.lastMouseMove)
		} else if !loose && inst.PopperInstance != nil {
			inst.PopperInstance.Update()
		}
		if inst.Children.Backdrop != nil && inst.Children.Content != nil {
			inst.Children.Content.SetStyle("transition-delay", durationMs(d/12))
		}
		if inst.Props.Sticky {
			inst.makeSticky()
		}
		setTransitionDuration([]*dom.Element{inst.Popper}, inst.Props.UpdateDuration)
		setTransitionDuration(els, d)
		setVisibilityState(els, "visible")
		inst.onTransitionedIn(d, func() {
			if inst.Props.Aria != "" {
				inst.eventsTarget().SetAttribute("aria-"+inst.Props.Aria, inst.Popper.ID())
			}
			if inst.Props.OnShown != nil {
				inst.Props.OnShown(inst)
			}
			inst.State.IsShown = true
		})
	}
	inst.mount()
}

// HideDuration hides the instance with the given transition duration,
// then unmounts it. It does nothing if the instance is destroyed, not
// visible, or vetoed by OnHide. A disabled instance can be hidden.
func (inst *Instance) HideDuration(d time.Duration) {
	if inst.State.IsDestroyed {
		return
	}
	if !inst.State.IsVisible && !inst.isBeingDestroyed {
		return
	}
	if !inst.isBeingDestroyed && inst.Props.OnHide != nil && !inst.Props.OnHide(inst) {
		return
	}
	if !inst.hasMountCallbackRun {
		// the show transition never started
		d = 0
	}
	slog.Debug("tooltip: hide", "instance", inst.ID, "duration", d)

	inst.Popper.SetStyle("visibility", "hidden")
	inst.State.IsVisible = false
	inst.State.IsShown = false
	inst.wasVisibleDuringPreviousUpdate = false
	if inst.Props.Interactive {
		inst.eventsTarget().RemoveClass(ActiveClass)
	}

	els := inst.Children.transitionable()
	setTransitionDuration(els, d)
	setVisibilityState(els, "hidden")

	inst.onTransitionedOut(d, func() {
		if !inst.isScheduledToShow {
			inst.removeFollowCursorListener()
		}
		if inst.Props.Aria != "" {
			inst.eventsTarget().RemoveAttribute("aria-" + inst.Props.Aria)
		}
		if pp := inst.PopperInstance; pp != nil {
			pp.DisableEventListeners()
			pp.Options.Placement = inst.Props.Placement
		}
		s := inst.scheduler()
		s.CancelAnimationFrame(inst.mountFrame)
		inst.mountFrame = 0
		inst.Popper.Remove()
		inst.State.IsMounted = false
		if inst.Props.OnHidden != nil {
			inst.Props.OnHidden(inst)
		}
	})
}

// mount appends the popper to its parent, positions it, and runs
// the mount callback on the next animation frame.
func (inst *Instance) mount() {
	loose := inst.isInLooseFollowCursorMode()
	enableListeners := !loose && !(inst.Props.FollowCursor == FollowInitial && TheGlobals.IsUsingTouch())

	parent := inst.Props.AppendTo.element(inst.Reference)
	if !parent.Contains(inst.Popper) {
		parent.AppendChild(inst.Popper)
		if inst.Props.OnMount != nil {
			inst.Props.OnMount(inst)
		}
		inst.State.IsMounted = true
	}

	if inst.PopperInstance == nil {
		inst.createPopperInstance()
	} else {
		pp := inst.PopperInstance
		pp.Reference = inst.Reference
		pp.Options.Placement = inst.Props.Placement
		if m := pp.Modifier("flip"); m != nil {
			m.Enabled = inst.Props.Flip
		}
		if !loose {
			pp.Update()
		}
	}
	pp := inst.PopperInstance
	if pp == nil {
		return
	}
	if enableListeners {
		pp.EnableEventListeners()
	} else {
		pp.DisableEventListeners()
	}

	if arrow := inst.Children.Arrow; arrow != nil {
		if loose {
			arrow.SetStyle("margin", "0")
		} else {
			arrow.SetStyle("margin", "")
		}
	}
	if loose && inst.lastMouseMove != nil {
		inst.positionVirtualReferenceNearCursor(inst.lastMouseMove)
	}

	s := inst.scheduler()
	s.CancelAnimationFrame(inst.mountFrame)
	inst.mountFrame = s.RequestAnimationFrame(func() {
		inst.mountFrame = 0
		if inst.mountCallback != nil {
			inst.mountCallback()
		}
	})
}

// makeSticky updates the position on every animation frame while
// the popper is mounted, replacing the frame loop of an earlier show.
func (inst *Instance) makeSticky() {
	setTransitionDuration([]*dom.Element{inst.Popper}, inst.Props.UpdateDuration)
	s := inst.scheduler()
	s.CancelAnimationFrame(inst.stickyFrame)
	inst.stickyFrame = 0
	var update func()
	update = func() {
		inst.stickyFrame = 0
		if inst.State.IsDestroyed {
			return
		}
		if !inst.State.IsMounted {
			setTransitionDuration([]*dom.Element{inst.Popper}, 0)
			return
		}
		if inst.PopperInstance != nil {
			inst.PopperInstance.ScheduleUpdate()
		}
		inst.stickyFrame = s.RequestAnimationFrame(update)
	}
	update()
}

// onTransitionedIn calls fun when the show transition of the
// tooltip ends, or right away for a zero duration.
func (inst *Instance) onTransitionedIn(d time.Duration, fun func()) {
	inst.onTransitionEnd(d, fun)
}

// onTransitionedOut calls fun when the hide transition of the tooltip
// ends, if the instance is still hidden and mounted.
func (inst *Instance) onTransitionedOut(d time.Duration, fun func()) {
	inst.onTransitionEnd(d, func() {
		if !inst.State.IsVisible && inst.Popper.Parent() != nil {
			fun()
		}
	})
}

// onTransitionEnd calls fun when the transition of the tooltip ends,
// replacing any transition listener from before.
func (inst *Instance) onTransitionEnd(d time.Duration, fun func()) {
	tooltip := inst.Children.Tooltip
	if inst.transitionEnd != nil {
		tooltip.RemoveEventListener(inst.transitionEnd)
		inst.transitionEnd = nil
	}
	if d == 0 {
		fun()
		return
	}
	var l *dom.Listener
	l = tooltip.AddEventListener(dom.TransitionEnd, func(e *dom.Event) {
		if e.Target != tooltip {
			return
		}
		tooltip.RemoveEventListener(l)
		if inst.transitionEnd == l {
			inst.transitionEnd = nil
		}
		fun()
	})
	inst.transitionEnd = l
}
