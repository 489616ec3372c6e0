// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tooltip

import (
	"strconv"
	"strings"
	"time"

	"cogentcore.org/popover/base/errors"
	"cogentcore.org/popover/dom"
)

// The classes of the elements of a popper.
const (
	PopperClass     = "tippy-popper"
	TooltipClass    = "tippy-tooltip"
	ContentClass    = "tippy-content"
	BackdropClass   = "tippy-backdrop"
	ArrowClass      = "tippy-arrow"
	RoundArrowClass = "tippy-roundarrow"

	// ActiveClass is added to the reference of an interactive
	// instance while it is visible.
	ActiveClass = "tippy-active"
)

// roundArrowSVG is the content of a round arrow.
const roundArrowSVG = `<svg viewBox="0 0 18 7" xmlns="http://www.w3.org/2000/svg"><path d="M0 7s2.021-.015 5.253-4.218C6.584 1.051 7.797.007 9 0c1.203-.007 2.416 1.035 3.761 2.782C16.012 7.005 18 7 18 7H0z"/></svg>`

// Children are the elements inside of a popper element.
type Children struct {

	// Tooltip is the box of the tooltip.
	Tooltip *dom.Element

	// Content holds the content.
	Content *dom.Element

	// Arrow is the arrow, or nil.
	Arrow *dom.Element

	// Backdrop is the fill backdrop, or nil.
	Backdrop *dom.Element
}

// transitionable returns the elements that transition when showing and hiding.
func (c Children) transitionable() []*dom.Element {
	els := []*dom.Element{c.Tooltip, c.Content}
	if c.Backdrop != nil {
		els = append(els, c.Backdrop)
	}
	return els
}

// getChildren returns the children of the given popper element.
func getChildren(popper *dom.Element) Children {
	var c Children
	c.Tooltip = firstByClass(popper, TooltipClass)
	if c.Tooltip == nil {
		return c
	}
	c.Content = firstByClass(c.Tooltip, ContentClass)
	c.Arrow = firstByClass(c.Tooltip, ArrowClass)
	if c.Arrow == nil {
		c.Arrow = firstByClass(c.Tooltip, RoundArrowClass)
	}
	c.Backdrop = firstByClass(c.Tooltip, BackdropClass)
	return c
}

func firstByClass(e *dom.Element, class string) *dom.Element {
	for _, c := range e.Children() {
		if c.HasClass(class) {
			return c
		}
	}
	return nil
}

// newPopperElement returns a new popper element for the instance
// with the given id and props:
//
//	div.tippy-popper#tippy-<id>
//	  div.tippy-tooltip
//	    div.tippy-arrow | div.tippy-roundarrow
//	    div.tippy-backdrop
//	    div.tippy-content
func newPopperElement(doc *dom.Document, id int, props *Props) *dom.Element {
	popper := doc.CreateElement("div")
	popper.AddClass(PopperClass)
	popper.SetAttribute("id", "tippy-"+strconv.Itoa(id))
	popper.SetStyle("z-index", strconv.Itoa(props.ZIndex))
	popper.SetStyle("position", "absolute")
	if props.Role != "" {
		popper.SetAttribute("role", props.Role)
	}

	tooltip := doc.CreateElement("div")
	tooltip.AddClass(TooltipClass)
	tooltip.SetStyle("max-width", props.MaxWidth)
	tooltip.SetAttribute("data-size", props.Size)
	tooltip.SetAttribute("data-animation", props.Animation)
	tooltip.AddClass(themeClasses(props.Theme)...)

	content := doc.CreateElement("div")
	content.AddClass(ContentClass)

	if props.Interactive {
		popper.SetAttribute("tabindex", "-1")
		tooltip.SetAttribute("data-interactive", "")
	}
	if props.Arrow {
		tooltip.AppendChild(newArrowElement(doc, props.ArrowType))
	}
	if props.AnimateFill {
		tooltip.AppendChild(newBackdropElement(doc))
		tooltip.SetAttribute("data-animatefill", "")
	}
	if props.Inertia {
		tooltip.SetAttribute("data-inertia", "")
	}
	setContent(content, props)
	tooltip.AppendChild(content)
	popper.AppendChild(tooltip)
	setVisibilityState(getChildren(popper).transitionable(), "hidden")
	return popper
}

func newArrowElement(doc *dom.Document, arrowType string) *dom.Element {
	arrow := doc.CreateElement("div")
	if arrowType == "round" {
		arrow.AddClass(RoundArrowClass)
		errors.Log(arrow.SetInnerHTML(roundArrowSVG))
	} else {
		arrow.AddClass(ArrowClass)
	}
	return arrow
}

func newBackdropElement(doc *dom.Document) *dom.Element {
	backdrop := doc.CreateElement("div")
	backdrop.AddClass(BackdropClass)
	setVisibilityState([]*dom.Element{backdrop}, "hidden")
	return backdrop
}

// themeClasses returns the classes of the given themes.
func themeClasses(theme string) []string {
	var cls []string
	for _, t := range strings.Fields(theme) {
		cls = append(cls, t+"-theme")
	}
	return cls
}

// setContent sets the content of the content element from the props.
func setContent(content *dom.Element, props *Props) {
	switch {
	case props.ContentElement != nil:
		if props.ContentElement.Parent() == content && len(content.Children()) == 1 {
			return
		}
		content.SetText("")
		content.AppendChild(props.ContentElement)
	case props.AllowHTML:
		if err := content.SetInnerHTML(props.Content); err != nil {
			errors.Log(err)
			content.SetText(props.Content)
		}
	default:
		content.SetText(props.Content)
	}
}

// updatePopperElement updates the popper element for a change of
// props from prev to next.
func updatePopperElement(popper *dom.Element, prev, next *Props) {
	doc := popper.Document()
	c := getChildren(popper)
	popper.SetStyle("z-index", strconv.Itoa(next.ZIndex))
	if next.Role != "" {
		popper.SetAttribute("role", next.Role)
	} else {
		popper.RemoveAttribute("role")
	}
	c.Tooltip.SetStyle("max-width", next.MaxWidth)
	c.Tooltip.SetAttribute("data-size", next.Size)
	c.Tooltip.SetAttribute("data-animation", next.Animation)

	if prev.Content != next.Content || prev.ContentElement != next.ContentElement || prev.AllowHTML != next.AllowHTML {
		setContent(c.Content, next)
	}

	switch {
	case !prev.AnimateFill && next.AnimateFill:
		backdrop := newBackdropElement(doc)
		c.Tooltip.AppendChild(backdrop)
		c.Tooltip.AppendChild(c.Content) // the backdrop goes before the content
		c.Tooltip.SetAttribute("data-animatefill", "")
	case prev.AnimateFill && !next.AnimateFill && c.Backdrop != nil:
		c.Tooltip.RemoveChild(c.Backdrop)
		c.Tooltip.RemoveAttribute("data-animatefill")
	}

	switch {
	case !prev.Arrow && next.Arrow:
		c.Tooltip.AppendChild(newArrowElement(doc, next.ArrowType))
		moveToEnd(c.Tooltip, firstByClass(c.Tooltip, BackdropClass), c.Content)
	case prev.Arrow && !next.Arrow && c.Arrow != nil:
		c.Tooltip.RemoveChild(c.Arrow)
	case prev.Arrow && next.Arrow && prev.ArrowType != next.ArrowType && c.Arrow != nil:
		c.Tooltip.RemoveChild(c.Arrow)
		c.Tooltip.AppendChild(newArrowElement(doc, next.ArrowType))
		moveToEnd(c.Tooltip, firstByClass(c.Tooltip, BackdropClass), c.Content)
	}

	switch {
	case !prev.Interactive && next.Interactive:
		popper.SetAttribute("tabindex", "-1")
		c.Tooltip.SetAttribute("data-interactive", "")
	case prev.Interactive && !next.Interactive:
		popper.RemoveAttribute("tabindex")
		c.Tooltip.RemoveAttribute("data-interactive")
	}

	switch {
	case !prev.Inertia && next.Inertia:
		c.Tooltip.SetAttribute("data-inertia", "")
	case prev.Inertia && !next.Inertia:
		c.Tooltip.RemoveAttribute("data-inertia")
	}

	if prev.Theme != next.Theme {
		c.Tooltip.RemoveClass(themeClasses(prev.Theme)...)
		c.Tooltip.AddClass(themeClasses(next.Theme)...)
	}
}

// moveToEnd moves the given children of parent to its end in order,
// skipping nil ones.
func moveToEnd(parent *dom.Element, children ...*dom.Element) {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
}

// setTransitionDuration sets the transition duration of the elements.
func setTransitionDuration(els []*dom.Element, d time.Duration) {
	v := strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	for _, e := range els {
		if e != nil {
			e.SetStyle("transition-duration", v)
		}
	}
}

// setVisibilityState sets the data-state attribute of the elements,
// visible or hidden, and their opacity, which starts their transitions.
func setVisibilityState(els []*dom.Element, state string) {
	opacity := "0"
	if state == "visible" {
		opacity = "1"
	}
	for _, e := range els {
		if e != nil {
			e.SetAttribute("data-state", state)
			e.SetStyle("opacity", opacity)
		}
	}
}
