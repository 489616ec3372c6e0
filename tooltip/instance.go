// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tooltip shows floating elements, such as tooltips and
// popovers, next to reference elements of a [dom.Document]. Each
// [Instance] owns a popper element, binds trigger listeners to its
// reference, and runs the show and hide lifecycle with its delays,
// transitions and positioning session.
package tooltip

import (
	"fmt"
	"slices"
	"time"

	"cogentcore.org/popover/base/errors"
	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/loop"
	"cogentcore.org/popover/popper"
)

// State is the lifecycle state of an [Instance].
// IsShown implies IsVisible, which implies IsMounted.
type State struct {

	// IsEnabled is whether the instance can be shown.
	IsEnabled bool

	// IsVisible is whether the instance is showing or shown.
	IsVisible bool

	// IsMounted is whether the popper element is in the document.
	IsMounted bool

	// IsShown is whether the show transition has finished.
	IsShown bool

	// IsDestroyed is whether the instance has been destroyed.
	// It is permanent.
	IsDestroyed bool
}

// Instance is a floating element attached to a reference element.
// All of its methods must be called on the goroutine of the
// scheduler of its document.
type Instance struct {

	// ID is the unique id of the instance. The popper element
	// has the id tippy-<ID>.
	ID int

	// Reference is the element the instance is attached to.
	Reference *dom.Element

	// Popper is the floating element.
	Popper *dom.Element

	// Children are the elements inside of Popper.
	Children Children

	// Props are the current props. Use [Instance.SetProps] to change them.
	Props Props

	// State is the lifecycle state.
	State State

	// PopperInstance is the positioning session, created on the
	// first show unless Props.Lazy is false.
	PopperInstance *popper.Popper

	doc *dom.Document

	// collectionProps are the props the instance was created with,
	// before evaluation for its reference.
	collectionProps Props

	// groupOriginal are the props from before a [Group] changed them.
	groupOriginal *Props

	lastTriggerEvent dom.Types
	lastMouseMove    *dom.Event
	virtual          *popper.VirtualReference

	showTimer  loop.Handle
	hideTimer  loop.Handle
	hideFrame   loop.Handle
	mountFrame  loop.Handle
	stickyFrame loop.Handle

	isScheduledToShow bool
	isBeingDestroyed  bool

	previousPlacement              popper.Placement
	wasVisibleDuringPreviousUpdate bool

	hasMountCallbackRun bool
	mountCallback       func()

	transitionEnd *dom.Listener

	// bindings are the trigger listeners.
	bindings []binding

	// onMouseMove tracks the pointer around interactive poppers,
	// debounced by Props.InteractiveDebounce.
	onMouseMove       func(e *dom.Event)
	mouseMoveListener *dom.Listener
	bodyLeaveListener *dom.Listener
	followListener    *dom.Listener

	popperListeners []*dom.Listener

	// destroyHooks are called on destroy.
	destroyHooks []func()
}

// binding is a trigger listener on an events target.
type binding struct {
	target   *dom.Element
	listener *dom.Listener
}

// newInstance returns a new instance for the reference with the given
// collection props, or nil if the reference already has an instance
// and Multiple is not set.
func newInstance(reference *dom.Element, collectionProps Props) (*Instance, error) {
	props := collectionProps.evaluate(reference)
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("invalid props for %v: %w", reference, err)
	}
	if !props.Multiple && TheGlobals.InstanceOf(reference) != nil {
		return nil, nil
	}
	doc := reference.Document()
	if doc.Scheduler() == nil {
		return nil, errors.New("tooltip: the document of the reference has no scheduler")
	}
	TheGlobals.Bind(doc)

	inst := &Instance{
		ID:              TheGlobals.nextID(),
		Reference:       reference,
		Props:           props,
		doc:             doc,
		collectionProps: collectionProps,
	}
	inst.State.IsEnabled = true
	inst.Popper = newPopperElement(doc, inst.ID, &inst.Props)
	inst.Children = getChildren(inst.Popper)
	inst.buildMouseMove()
	TheGlobals.register(inst)
	inst.addTriggers()

	if !props.Lazy {
		inst.createPopperInstance()
	}
	if props.ShowOnInit {
		inst.scheduleShow(nil, false)
	}

	inst.popperListeners = append(inst.popperListeners,
		inst.Popper.AddEventListener(dom.MouseEnter, func(e *dom.Event) {
			if inst.Props.Interactive && inst.State.IsVisible && inst.lastTriggerEvent == dom.MouseEnter {
				inst.scheduleShow(e, true)
			}
		}),
		inst.Popper.AddEventListener(dom.MouseLeave, func(e *dom.Event) {
			if inst.Props.Interactive && inst.lastTriggerEvent == dom.MouseEnter {
				inst.addMouseMoveListener()
			}
		}))

	if props.A11y && props.Target == "" && !canReceiveFocus(reference) {
		reference.SetAttribute("tabindex", "0")
	}
	return inst, nil
}

func canReceiveFocus(e *dom.Element) bool {
	return e.IsFocusable() && !e.HasAttribute("disabled")
}

func (inst *Instance) String() string {
	return fmt.Sprintf("tooltip.Instance(%d on %v)", inst.ID, inst.Reference)
}

// scheduler returns the scheduler of the document.
func (inst *Instance) scheduler() loop.Scheduler {
	return inst.doc.Scheduler()
}

// eventsTarget returns the element that receives the trigger listeners.
func (inst *Instance) eventsTarget() *dom.Element {
	if inst.Props.TriggerTarget != nil {
		return inst.Props.TriggerTarget
	}
	return inst.Reference
}

// Show shows the instance with the show duration of its props.
func (inst *Instance) Show() {
	inst.ShowDuration(inst.Props.Duration.Show())
}

// Hide hides the instance with the hide duration of its props.
func (inst *Instance) Hide() {
	inst.HideDuration(inst.Props.Duration.Hide())
}

// Enable allows the instance to show.
func (inst *Instance) Enable() {
	inst.State.IsEnabled = true
}

// Disable prevents the instance from showing. Trigger events are
// still received but ignored. It does not hide a visible instance.
func (inst *Instance) Disable() {
	inst.State.IsEnabled = false
}

// ClearDelayTimeouts cancels any pending delayed show or hide.
func (inst *Instance) ClearDelayTimeouts() {
	s := inst.scheduler()
	s.ClearTimeout(inst.showTimer)
	s.ClearTimeout(inst.hideTimer)
	s.CancelAnimationFrame(inst.hideFrame)
	inst.showTimer, inst.hideTimer, inst.hideFrame = 0, 0, 0
}

// SetContent sets the content of the instance.
func (inst *Instance) SetContent(content string) error {
	return inst.SetProps(func(p *Props) { p.Content = content })
}

// SetProps changes the props with the given function. The
// data-tippy-* attributes of the reference are read again, with the
// props changed by the function taking precedence. Invalid props
// return an error and leave the instance unchanged.
func (inst *Instance) SetProps(fun func(p *Props)) error {
	if inst.State.IsDestroyed {
		return nil
	}
	prev := inst.Props
	next := prev.Clone()
	fun(&next)
	changed := changedProps(&prev, &next)
	evaluated := next.evaluate(inst.Reference)
	copyProps(&evaluated, &next, changed)
	if evaluated.Arrow {
		evaluated.AnimateFill = false
	}
	if err := evaluated.Validate(); err != nil {
		return fmt.Errorf("invalid props for %v: %w", inst, err)
	}
	inst.Props = evaluated
	all := changedProps(&prev, &inst.Props)
	has := func(names ...string) bool {
		for _, n := range names {
			if slices.Contains(all, n) {
				return true
			}
		}
		return false
	}

	if has("Trigger", "TouchHold", "TriggerTarget", "Target") {
		inst.removeTriggers()
		inst.addTriggers()
	}
	if has("InteractiveDebounce") {
		inst.cleanupInteractiveMouseListeners()
		inst.buildMouseMove()
	}
	updatePopperElement(inst.Popper, &prev, &inst.Props)
	inst.Children = getChildren(inst.Popper)

	if pp := inst.PopperInstance; pp != nil {
		if has(popperDependencies...) {
			pp.Destroy()
			inst.PopperInstance = nil
			inst.createPopperInstance()
			if inst.State.IsVisible && inst.PopperInstance != nil {
				inst.PopperInstance.EnableEventListeners()
			}
			if inst.Props.FollowCursor != FollowNone && inst.lastMouseMove != nil {
				inst.positionVirtualReferenceNearCursor(inst.lastMouseMove)
			}
		} else if inst.State.IsMounted {
			pp.Update()
		}
	}
	return nil
}

// popperDependencies are the props that recreate the positioning session.
var popperDependencies = []string{"Arrow", "ArrowType", "Boundary", "Distance", "Flip", "FlipBehavior", "FlipOnUpdate", "Offset", "Placement", "PopperOptions"}

// Destroy hides the instance immediately, removes its listeners and
// positioning session, and destroys the instances it created for
// delegated targets. A destroyed instance ignores every call.
func (inst *Instance) Destroy() {
	if inst.State.IsDestroyed {
		return
	}
	inst.isBeingDestroyed = true
	if inst.State.IsMounted {
		inst.HideDuration(0)
	}
	inst.removeTriggers()
	inst.cleanupInteractiveMouseListeners()
	inst.removeFollowCursorListener()
	inst.ClearDelayTimeouts()
	s := inst.scheduler()
	s.CancelAnimationFrame(inst.mountFrame)
	inst.mountFrame = 0
	s.CancelAnimationFrame(inst.stickyFrame)
	inst.stickyFrame = 0
	for _, l := range inst.popperListeners {
		inst.Popper.RemoveEventListener(l)
	}
	inst.popperListeners = nil
	TheGlobals.unregister(inst)

	if inst.Props.Target != "" {
		targets, err := inst.Reference.QuerySelectorAll(inst.Props.Target)
		errors.Log(err)
		for _, t := range targets {
			for _, child := range TheGlobals.InstancesOf(t) {
				child.Destroy()
			}
		}
	}
	if inst.PopperInstance != nil {
		inst.PopperInstance.Destroy()
	}
	for _, h := range inst.destroyHooks {
		h()
	}
	inst.destroyHooks = nil
	inst.isBeingDestroyed = false
	inst.State.IsDestroyed = true
}

// setReference moves the instance to another reference element.
func (inst *Instance) setReference(reference *dom.Element) {
	if reference == inst.Reference {
		return
	}
	if inst.State.IsShown && inst.Props.Aria != "" {
		inst.eventsTarget().RemoveAttribute("aria-" + inst.Props.Aria)
		defer func() {
			inst.eventsTarget().SetAttribute("aria-"+inst.Props.Aria, inst.Popper.ID())
		}()
	}
	TheGlobals.unregister(inst)
	inst.Reference = reference
	TheGlobals.register(inst)
	if inst.virtual != nil {
		inst.virtual.Context = reference
	}
	if inst.PopperInstance != nil && !inst.isInLooseFollowCursorMode() {
		inst.PopperInstance.Reference = reference
	}
}

// createPopperInstance creates the positioning session.
func (inst *Instance) createPopperInstance() {
	p := &inst.Props
	po := p.PopperOptions
	placement := p.Placement
	if po.Placement != "" {
		placement = po.Placement
	}
	opts := popper.Options{
		Placement:       placement,
		PositionFixed:   po.PositionFixed,
		RemoveOnDestroy: false,
		Modifiers:       inst.modifiers(),
		OnCreate: func(d *popper.Data) {
			inst.applyMutations(d)
			if po.OnCreate != nil {
				po.OnCreate(d)
			}
		},
		OnUpdate: func(d *popper.Data) {
			inst.applyMutations(d)
			if po.OnUpdate != nil {
				po.OnUpdate(d)
			}
		},
	}
	pp, err := popper.New(inst.Reference, inst.Popper, opts)
	if errors.Log(err) != nil {
		return
	}
	inst.PopperInstance = pp
}

// modifiers returns the modifiers of the positioning session, derived
// from the props and overridden by Props.PopperOptions.
func (inst *Instance) modifiers() []*popper.Modifier {
	p := &inst.Props
	ms := popper.DefaultModifiers()
	for _, m := range ms {
		switch m.Name {
		case "preventOverflow":
			m.Boundary = p.Boundary
		case "arrow":
			m.Element = inst.Children.Arrow
			m.Selector = ""
			m.Enabled = inst.Children.Arrow != nil
		case "flip":
			m.Enabled = p.Flip
			m.Behavior = p.FlipBehavior
		case "offset":
			m.Offset = offsetWithDistance(p.Offset, p.Distance)
		}
	}
	for _, o := range p.PopperOptions.Modifiers {
		if o == nil {
			continue
		}
		c := *o
		ms = append(ms, &c)
	}
	return ms
}

// offsetWithDistance adds the distance to the main axis of the offset.
func offsetWithDistance(offset string, distance float32) string {
	ex, err := popper.ParseOffset(offset)
	if err != nil {
		errors.Warn(err)
		ex = popper.OffsetExpr{}
	}
	if distance != 0 {
		ex.Main = append(ex.Main, popper.Term{Value: distance, Unit: popper.UnitPx})
	}
	return ex.String()
}

// applyMutations applies the result of an update to the tooltip.
// Unless FlipOnUpdate is set, flipping only happens on the first
// update after mounting, and the flipped placement is kept.
func (inst *Instance) applyMutations(d *popper.Data) {
	pp := d.Instance
	if inst.Props.Flip && !inst.Props.FlipOnUpdate {
		if d.Flipped {
			pp.Options.Placement = d.Placement
		}
		if m := pp.Modifier("flip"); m != nil {
			m.Enabled = false
		}
	}
	tooltip := inst.Children.Tooltip
	tooltip.SetAttribute("x-placement", string(d.Placement))
	if d.Hide {
		tooltip.SetAttribute("x-out-of-boundaries", "")
	} else {
		tooltip.RemoveAttribute("x-out-of-boundaries")
	}
	// no transition when the placement changes while visible
	if inst.previousPlacement != "" && inst.previousPlacement != d.Placement && inst.wasVisibleDuringPreviousUpdate {
		tooltip.SetStyle("transition", "none")
		inst.scheduler().RequestAnimationFrame(func() {
			tooltip.SetStyle("transition", "")
		})
	}
	inst.previousPlacement = d.Placement
	inst.wasVisibleDuringPreviousUpdate = inst.State.IsVisible
}

// durationMs formats a duration in whole milliseconds.
func durationMs(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
