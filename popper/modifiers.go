// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popper

import (
	"log/slog"
	"slices"
	"strconv"

	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/geometry"
	"github.com/chewxy/math32"
)

// maxFlips is the maximum number of placement changes flip makes in
// one update, in addition to never returning to a placement it has
// already tried.
const maxFlips = 16

// shift aligns the popper with the start or end of the reference
// for placements with a variation.
func shift(d *Data, m *Modifier) *Data {
	v := d.Placement.Variation()
	if v == NoVariation {
		return d
	}
	ref, p := d.Offsets.Reference, &d.Offsets.Popper
	if d.Placement.Side().IsVertical() {
		if v == Start {
			p.Left = ref.Left
		} else {
			p.Left = ref.Right() - p.Width
		}
	} else {
		if v == Start {
			p.Top = ref.Top
		} else {
			p.Top = ref.Bottom() - p.Height
		}
	}
	return d
}

// boundaries returns the boundaries of the modifier for the popper.
func boundaries(d *Data, m *Modifier) geometry.Rect {
	p := d.Instance
	b := m.Boundary
	if b.Kind == geometry.ElementBoundary && b.Element != nil && b.Element == geometry.ReferenceNode(p.Reference) {
		b.Element = geometry.OffsetParent(p.doc, b.Element)
	}
	return geometry.Boundaries(p.Element, p.Reference, m.Padding, b, d.PositionFixed)
}

// preventOverflow keeps the popper inside its boundaries, checking
// the sides in priority order.
func preventOverflow(d *Data, m *Modifier) *Data {
	d.Boundaries = boundaries(d, m)
	d.Offsets.Popper = clampToBoundaries(d.Offsets.Popper, d.Offsets.Reference, d.Boundaries, m.Priority, m.EscapeWithReference)
	return d
}

// clampToBoundaries moves p inside the boundaries b on each of the
// given sides in order. With escape, sides on which the reference is
// already outside of b are skipped.
func clampToBoundaries(p, ref, b geometry.Rect, priority []geometry.Side, escape bool) geometry.Rect {
	for _, side := range priority {
		if escape && escaped(ref, b, side) {
			continue
		}
		switch side {
		case geometry.Left:
			p.Left = math32.Max(p.Left, b.Left)
		case geometry.Top:
			p.Top = math32.Max(p.Top, b.Top)
		case geometry.Right:
			if p.Right() > b.Right() {
				p.Left = math32.Min(p.Left, b.Right()-p.Width)
			}
		case geometry.Bottom:
			if p.Bottom() > b.Bottom() {
				p.Top = math32.Min(p.Top, b.Bottom()-p.Height)
			}
		}
	}
	return p
}

// escaped returns whether the reference is beyond the boundaries on the given side.
func escaped(ref, b geometry.Rect, side geometry.Side) bool {
	switch side {
	case geometry.Left:
		return ref.Left < b.Left
	case geometry.Top:
		return ref.Top < b.Top
	case geometry.Right:
		return ref.Right() > b.Right()
	default:
		return ref.Bottom() > b.Bottom()
	}
}

// keepTogether keeps the popper touching the reference along the cross axis.
func keepTogether(d *Data, m *Modifier) *Data {
	ref := d.Offsets.Reference
	p := &d.Offsets.Popper
	floor := math32.Floor
	if d.Placement.Side().IsVertical() {
		if p.Right() < floor(ref.Left) {
			p.Left = floor(ref.Left) - p.Width
		}
		if p.Left > floor(ref.Right()) {
			p.Left = floor(ref.Right())
		}
	} else {
		if p.Bottom() < floor(ref.Top) {
			p.Top = floor(ref.Top) - p.Height
		}
		if p.Top > floor(ref.Bottom()) {
			p.Top = floor(ref.Bottom())
		}
	}
	return d
}

// arrow centers the arrow on the part of the edge the popper shares
// with the reference, moving the popper if needed to fit the arrow.
func arrow(d *Data, m *Modifier) *Data {
	if !isModifierRequired(d.Instance.modifiers, "arrow", "keepTogether") {
		return d
	}
	pe := d.Instance.Element
	el := m.Element
	if el == nil {
		if m.Selector == "" {
			return d
		}
		var err error
		el, err = pe.QuerySelector(m.Selector)
		if err != nil {
			slog.Warn("popper: invalid arrow selector", "err", err)
			return d
		}
		if el == nil {
			return d
		}
	} else if !pe.Contains(el) {
		slog.Warn("popper: the arrow element must be a child of its popper element", "arrow", el)
		return d
	}

	horiz := !d.Placement.Side().IsVertical()
	side, opSide := geometry.Left, geometry.Right
	if horiz {
		side, opSide = geometry.Top, geometry.Bottom
	}
	ref := d.Offsets.Reference
	p := &d.Offsets.Popper
	aw, ah := geometry.OuterSizes(el)
	size, plen, rlen := aw, p.Width, ref.Width
	if horiz {
		size, plen, rlen = ah, p.Height, ref.Height
	}
	// top/left side
	if ref.Get(opSide)-size < p.Get(side) {
		p.Set(side, ref.Get(opSide)-size)
	}
	// bottom/right side
	if ref.Get(side)+size > p.Get(opSide) {
		p.Set(side, p.Get(side)+ref.Get(side)+size-p.Get(opSide))
	}
	center := ref.Get(side) + rlen/2 - size/2
	margins, borders := pe.Margins(), pe.Borders()
	marginSide, borderSide := margins.Left, borders.Left
	if horiz {
		marginSide, borderSide = margins.Top, borders.Top
	}
	v := center - p.Get(side) - marginSide - borderSide
	v = math32.Max(math32.Min(plen-size, v), 0)
	d.ArrowElement = el
	d.Offsets.Arrow = ArrowOffset{Valid: true, Side: side, Value: jsRound(v)}
	return d
}

// flip changes the placement when the popper overlaps the reference
// or overflows the boundaries, rerunning the modifiers before it for
// each new placement.
func flip(d *Data, m *Modifier) *Data {
	ms := d.Instance.modifiers
	if isModifierEnabled(ms, "inner") {
		return d
	}
	if !isModifierRequired(ms, "flip", "preventOverflow") {
		return d
	}
	if d.Flipped && d.Placement == d.OriginalPlacement {
		return d
	}
	b := boundaries(d, m)
	order := m.Behavior.order(d.Placement)
	seen := []Placement{d.Placement}
	floor := math32.Floor
	for range maxFlips {
		idx := flipIndex(order, d.Placement)
		if idx < 0 || idx == len(order)-1 {
			break
		}
		side := d.Placement.Side()
		variation := d.Placement.Variation()
		p, ref := d.Offsets.Popper, d.Offsets.Reference

		var overlapsRef bool
		switch side {
		case geometry.Left:
			overlapsRef = floor(p.Right()) > floor(ref.Left)
		case geometry.Right:
			overlapsRef = floor(p.Left) < floor(ref.Right())
		case geometry.Top:
			overlapsRef = floor(p.Bottom()) > floor(ref.Top)
		case geometry.Bottom:
			overlapsRef = floor(p.Top) < floor(ref.Bottom())
		}
		overflowsLeft := floor(p.Left) < floor(b.Left)
		overflowsRight := floor(p.Right()) > floor(b.Right())
		overflowsTop := floor(p.Top) < floor(b.Top)
		overflowsBottom := floor(p.Bottom()) > floor(b.Bottom())
		overflows := (side == geometry.Left && overflowsLeft) ||
			(side == geometry.Right && overflowsRight) ||
			(side == geometry.Top && overflowsTop) ||
			(side == geometry.Bottom && overflowsBottom)

		vertical := side.IsVertical()
		byRef := m.FlipVariations &&
			((vertical && variation == Start && overflowsLeft) ||
				(vertical && variation == End && overflowsRight) ||
				(!vertical && variation == Start && overflowsTop) ||
				(!vertical && variation == End && overflowsBottom))
		byContent := m.FlipVariationsByContent &&
			((vertical && variation == Start && overflowsRight) ||
				(vertical && variation == End && overflowsLeft) ||
				(!vertical && variation == Start && overflowsBottom) ||
				(!vertical && variation == End && overflowsTop))
		flipVariation := byRef || byContent

		if !overlapsRef && !overflows && !flipVariation {
			break
		}
		next := d.Placement
		if overlapsRef || overflows {
			next = order[idx+1]
			if next.Variation() == NoVariation && !m.Behavior.walks() {
				next = Compose(next.Side(), variation)
			}
		}
		if flipVariation {
			next = Compose(next.Side(), next.Variation().Opposite())
		}
		if slices.Contains(seen, next) {
			break
		}
		seen = append(seen, next)
		d.Flipped = true
		d.Placement = next
		d.Offsets.Popper = popperOffsets(d.Instance.Element, d.Offsets.Reference, next)
		d = runModifiers(ms, d, "flip")
	}
	return d
}

// flipIndex returns the index of p in order, matching by side for
// orders without the variation of p.
func flipIndex(order []Placement, p Placement) int {
	if i := slices.Index(order, p); i >= 0 {
		return i
	}
	return slices.IndexFunc(order, func(o Placement) bool {
		return o.Variation() == NoVariation && o.Side() == p.Side()
	})
}

// inner places the popper inside the reference, against the side
// of its placement.
func inner(d *Data, m *Modifier) *Data {
	side := d.Placement.Side()
	ref := d.Offsets.Reference
	p := &d.Offsets.Popper
	switch side {
	case geometry.Left:
		p.Left = ref.Left
	case geometry.Right:
		p.Left = ref.Right() - p.Width
	case geometry.Top:
		p.Top = ref.Top
	case geometry.Bottom:
		p.Top = ref.Bottom() - p.Height
	}
	d.Placement = d.Placement.Opposite()
	return d
}

// hide marks the data when the reference is completely outside of
// the boundaries computed by preventOverflow.
func hide(d *Data, m *Modifier) *Data {
	if !isModifierRequired(d.Instance.modifiers, "hide", "preventOverflow") {
		return d
	}
	ref, b := d.Offsets.Reference, d.Boundaries
	if ref.Bottom() < b.Top || ref.Left > b.Right() || ref.Top > b.Bottom() || ref.Right() < b.Left {
		d.Hide = true
		d.setAttribute("x-out-of-boundaries", "")
	} else {
		d.Hide = false
		d.removeAttribute("x-out-of-boundaries")
	}
	return d
}

// jsRound rounds half values up, as in JavaScript.
func jsRound(v float32) float32 {
	return math32.Floor(v + 0.5)
}

func px(v float32) string {
	if v == 0 {
		v = 0 // no negative zero
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 32) + "px"
}

// roundedOffsets returns the popper offsets rounded to whole pixels,
// flooring the left edge when centering would otherwise blur it.
func roundedOffsets(d *Data) (left, top, right, bottom float32) {
	p, ref := d.Offsets.Popper, d.Offsets.Reference
	refWidth := int(jsRound(ref.Width))
	popWidth := int(jsRound(p.Width))
	horiz := d.Placement == Left || d.Placement == Right
	variation := d.Placement.Variation() != NoVariation
	sameParity := refWidth%2 == popWidth%2
	bothOdd := refWidth%2 == 1 && popWidth%2 == 1
	horizontalToInteger := math32.Floor
	if horiz || variation || sameParity {
		horizontalToInteger = jsRound
	}
	l := p.Left
	if bothOdd && !variation {
		l--
	}
	return horizontalToInteger(l), jsRound(p.Top), horizontalToInteger(p.Right()), jsRound(p.Bottom())
}

// computeStyle converts the popper offsets into styles.
func computeStyle(d *Data, m *Modifier) *Data {
	pe := d.Instance.Element
	op := geometry.OffsetParent(d.Instance.doc, pe)
	opRect := geometry.ClientRect(op)
	position := "absolute"
	if d.PositionFixed {
		position = "fixed"
	}
	styles := map[string]string{"position": position}
	left, top, right, bottom := roundedOffsets(d)

	sideA, sideB := "bottom", "right"
	if m.X != "top" {
		sideA = "top"
	}
	if m.Y != "left" {
		sideB = "left"
	}
	var x, y float32
	if sideA == "bottom" {
		if op.Tag() == "html" {
			y = -op.ClientHeight() + bottom
		} else {
			y = -opRect.Height + bottom
		}
	} else {
		y = top
	}
	if sideB == "right" {
		if op.Tag() == "html" {
			x = -op.ClientWidth() + right
		} else {
			x = -opRect.Width + right
		}
	} else {
		x = left
	}
	if m.GPUAcceleration {
		styles["transform"] = "translate3d(" + px(x) + ", " + px(y) + ", 0)"
		styles[sideA] = "0"
		styles[sideB] = "0"
		styles["will-change"] = "transform"
	} else {
		if sideA == "bottom" {
			y = -y
		}
		if sideB == "right" {
			x = -x
		}
		styles[sideA] = px(y)
		styles[sideB] = px(x)
		styles["will-change"] = sideA + ", " + sideB
	}

	if _, ok := d.Attributes["x-placement"]; !ok {
		d.Attributes["x-placement"] = string(d.Placement)
	}
	for k, v := range styles {
		if _, ok := d.Styles[k]; !ok {
			d.Styles[k] = v
		}
	}
	if a := d.Offsets.Arrow; a.Valid {
		arrowStyles := map[string]string{}
		alt := "top"
		if a.Side == geometry.Top {
			alt = "left"
		}
		arrowStyles[a.Side.String()] = px(a.Value)
		arrowStyles[alt] = ""
		for k, v := range arrowStyles {
			if _, ok := d.ArrowStyles[k]; !ok {
				d.ArrowStyles[k] = v
			}
		}
	}
	return d
}

// applyStyle writes the styles and attributes to the popper and arrow.
// It is the only modifier that changes the document.
func applyStyle(d *Data, m *Modifier) *Data {
	pe := d.Instance.Element
	setStyles(pe, d.Styles)
	for _, name := range d.RemovedAttributes {
		pe.RemoveAttribute(name)
	}
	for name, v := range d.Attributes {
		pe.SetAttribute(name, v)
	}
	if d.ArrowElement != nil && len(d.ArrowStyles) > 0 {
		setStyles(d.ArrowElement, d.ArrowStyles)
	}
	return d
}

// applyStyleOnLoad sets the initial placement and position of the
// popper before the first update.
func applyStyleOnLoad(p *Popper, m *Modifier) {
	refOffsets := p.referenceOffsets()
	fm := findModifier(p.modifiers, "flip")
	var b geometry.Boundary
	var padding geometry.Padding
	if fm != nil {
		b, padding = fm.Boundary, fm.Padding
	}
	placement := p.computeAutoPlacement(p.Options.Placement, refOffsets, b, padding)
	p.Element.SetAttribute("x-placement", string(placement))
	position := "absolute"
	if p.Options.PositionFixed {
		position = "fixed"
	}
	p.Element.SetStyle("position", position)
}

func setStyles(e *dom.Element, styles map[string]string) {
	for k, v := range styles {
		e.SetStyle(k, v)
	}
}
