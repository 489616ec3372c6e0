// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tooltip

import (
	"fmt"
	"log/slog"
	"time"

	"cogentcore.org/popover/base/errors"
	"cogentcore.org/popover/dom"
)

// New creates instances with the given props for the targets, which
// are a selector string, a *dom.Element or a []*dom.Element. A
// selector is matched against the given document. References that
// already have an instance are skipped unless Multiple is set.
func New(doc *dom.Document, targets any, props Props) ([]*Instance, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	var refs []*dom.Element
	switch t := targets.(type) {
	case string:
		if doc == nil {
			return nil, errors.New("tooltip.New: a selector needs a document")
		}
		els, err := doc.QuerySelectorAll(t)
		if err != nil {
			return nil, fmt.Errorf("tooltip.New: %w", err)
		}
		refs = els
	case *dom.Element:
		if t != nil {
			refs = []*dom.Element{t}
		}
	case []*dom.Element:
		refs = t
	default:
		return nil, fmt.Errorf("tooltip.New: invalid targets of type %T", targets)
	}

	var insts []*Instance
	var errs []error
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		inst, err := newInstance(ref, props.Clone())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if inst != nil {
			insts = append(insts, inst)
		}
	}
	if len(refs) == 0 {
		slog.Warn("tooltip.New: no reference elements", "targets", targets)
	}
	return insts, errors.Join(errs...)
}

// Delegate creates instances on the targets that create child
// instances for their descendants matching Props.Target, including
// descendants added later.
func Delegate(doc *dom.Document, targets any, props Props) ([]*Instance, error) {
	if props.Target == "" {
		return nil, errors.New("tooltip.Delegate: props have no target selector")
	}
	return New(doc, targets, props)
}

// HideAllOptions are the options of [HideAll].
type HideAllOptions struct {

	// Exclude is an instance that is not hidden.
	Exclude *Instance

	// Duration, if set, is used instead of the hide duration of each instance.
	Duration *time.Duration

	// CheckHideOnClick only hides instances whose HideOnClick is true.
	CheckHideOnClick bool
}

// HideAll hides the instances of all popper elements in the document.
func HideAll(doc *dom.Document, opts HideAllOptions) {
	poppers, err := doc.QuerySelectorAll("." + PopperClass)
	if errors.Log(err) != nil {
		return
	}
	for _, pe := range poppers {
		inst := TheGlobals.PopperInstance(pe)
		if inst == nil {
			continue
		}
		if opts.CheckHideOnClick && inst.Props.HideOnClick != HideOnClickTrue {
			continue
		}
		if opts.Exclude != nil && (inst == opts.Exclude || inst.Reference == opts.Exclude.Reference) {
			continue
		}
		d := inst.Props.Duration.Hide()
		if opts.Duration != nil {
			d = *opts.Duration
		}
		inst.HideDuration(d)
	}
}

// Singleton returns an instance that shows for all of the given
// instances, moving between their references, in place of their own
// poppers. The given instances keep their triggers and delays but
// never show themselves until the singleton is destroyed.
func Singleton(instances []*Instance, props Props) (*Instance, error) {
	if len(instances) == 0 {
		return nil, errors.New("tooltip.Singleton: no instances")
	}
	props.Trigger = "manual"
	props.Multiple = true
	props.Target = ""
	props.IgnoreAttributes = true
	first := instances[0]
	props.Content = first.Props.Content
	s, err := newInstance(first.Reference, props)
	if err != nil {
		return nil, err
	}

	for _, child := range instances {
		onShow, onTrigger, onUntrigger := child.Props.OnShow, child.Props.OnTrigger, child.Props.OnUntrigger
		errors.Log(child.SetProps(func(p *Props) {
			p.OnShow = func(*Instance) bool { return false }
			p.OnTrigger = func(c *Instance, e *dom.Event) {
				if onTrigger != nil {
					onTrigger(c, e)
				}
				s.ClearDelayTimeouts()
				s.setReference(c.Reference)
				errors.Log(s.SetProps(func(sp *Props) {
					sp.Content = c.Props.Content
					sp.ContentElement = c.Props.ContentElement
					sp.AllowHTML = c.Props.AllowHTML
				}))
				if s.State.IsVisible {
					if s.PopperInstance != nil {
						s.PopperInstance.Update()
					}
					return
				}
				s.scheduleShow(e, false)
			}
			p.OnUntrigger = func(c *Instance, e *dom.Event) {
				if onUntrigger != nil {
					onUntrigger(c, e)
				}
				s.scheduleHide(e)
			}
		}))
		s.destroyHooks = append(s.destroyHooks, func() {
			errors.Log(child.SetProps(func(p *Props) {
				p.OnShow, p.OnTrigger, p.OnUntrigger = onShow, onTrigger, onUntrigger
			}))
		})
	}
	return s, nil
}

// GroupOptions are the options of [Group].
type GroupOptions struct {

	// Delay, if set, is the delay of the group. It defaults to the
	// delay of the first instance.
	Delay *Pair

	// Duration is the transition duration while any instance of the
	// group is showing.
	Duration time.Duration
}

// Group makes the instances behave as a group: once one of them is
// showing, the others show without their show delay and with the
// group duration, and showing one hides the others.
func Group(instances []*Instance, opts GroupOptions) {
	if len(instances) == 0 {
		return
	}
	delay := instances[0].Props.Delay
	if opts.Delay != nil {
		delay = *opts.Delay
	}
	for _, inst := range instances {
		if inst.groupOriginal != nil {
			orig := *inst.groupOriginal
			errors.Log(inst.SetProps(func(p *Props) { *p = orig }))
		}
		o := inst.Props.Clone()
		inst.groupOriginal = &o
	}

	isAnyOpen := false
	var update func()
	setOpen := func(open bool) {
		isAnyOpen = open
		update()
	}
	onShow := func(inst *Instance) bool {
		if orig := inst.groupOriginal; orig.OnShow != nil && !orig.OnShow(inst) {
			return false
		}
		for _, o := range instances {
			errors.Log(o.SetProps(func(p *Props) { p.Duration = Uniform(opts.Duration) }))
			if o.State.IsVisible {
				o.Hide()
			}
		}
		setOpen(true)
		return true
	}
	onHide := func(inst *Instance) bool {
		if orig := inst.groupOriginal; orig.OnHide != nil && !orig.OnHide(inst) {
			return false
		}
		setOpen(false)
		return true
	}
	onShown := func(inst *Instance) {
		orig := inst.groupOriginal
		if orig.OnShown != nil {
			orig.OnShown(inst)
		}
		errors.Log(inst.SetProps(func(p *Props) { p.Duration = orig.Duration }))
	}
	update = func() {
		for _, o := range instances {
			errors.Log(o.SetProps(func(p *Props) {
				p.OnShow, p.OnHide, p.OnShown = onShow, onHide, onShown
				if isAnyOpen {
					p.Delay = Pair{0, delay.Hide()}
					p.Duration = Uniform(opts.Duration)
				} else {
					p.Delay = delay
					p.Duration = o.groupOriginal.Duration
				}
			}))
		}
	}
	update()
}
