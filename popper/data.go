// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popper

import (
	"slices"

	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/geometry"
)

// Data is the layout data passed through the modifiers on each update.
// It is created by [Popper.Update] and is not kept between updates.
type Data struct {

	// Instance is the popper being updated.
	Instance *Popper

	// Placement is the current placement, which flip can change.
	Placement Placement

	// OriginalPlacement is the placement before any flipping.
	OriginalPlacement Placement

	// Flipped is whether flip has changed the placement.
	Flipped bool

	// Hide is whether the reference is outside of the boundaries.
	Hide bool

	// PositionFixed is whether the popper uses fixed positioning.
	PositionFixed bool

	// Offsets are the rects of the reference and popper relative to
	// their common offset parent, and the offset of the arrow.
	Offsets Offsets

	// Boundaries are the boundaries computed by preventOverflow.
	Boundaries geometry.Rect

	// Styles are the styles applyStyle writes to the popper.
	// An empty value removes the style.
	Styles map[string]string

	// ArrowStyles are the styles applyStyle writes to the arrow.
	ArrowStyles map[string]string

	// Attributes are the attributes applyStyle sets on the popper.
	Attributes map[string]string

	// RemovedAttributes are the attributes applyStyle removes from the popper.
	RemovedAttributes []string

	// ArrowElement is the arrow found by the arrow modifier.
	ArrowElement *dom.Element
}

// Offsets are the computed positions within [Data].
type Offsets struct {
	Reference geometry.Rect
	Popper    geometry.Rect
	Arrow     ArrowOffset
}

// ArrowOffset is the position of the arrow along the edge of the popper.
type ArrowOffset struct {

	// Valid is whether the arrow has been positioned.
	Valid bool

	// Side is [geometry.Left] for popper placed on the top or bottom,
	// and [geometry.Top] otherwise.
	Side geometry.Side

	// Value is the distance of the arrow from Side of the popper.
	Value float32
}

func newData(p *Popper) *Data {
	return &Data{
		Instance:    p,
		Styles:      map[string]string{},
		ArrowStyles: map[string]string{},
		Attributes:  map[string]string{},
	}
}

// setAttribute sets an attribute to be applied.
func (d *Data) setAttribute(name, value string) {
	d.Attributes[name] = value
	d.RemovedAttributes = slices.DeleteFunc(d.RemovedAttributes, func(a string) bool { return a == name })
}

// removeAttribute marks an attribute for removal.
func (d *Data) removeAttribute(name string) {
	delete(d.Attributes, name)
	if !slices.Contains(d.RemovedAttributes, name) {
		d.RemovedAttributes = append(d.RemovedAttributes, name)
	}
}
