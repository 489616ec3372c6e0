// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popper

import (
	"fmt"
	"slices"
	"strings"

	"cogentcore.org/popover/geometry"
)

// Placement is where a floating element is placed relative to its
// reference: a side, optionally followed by a -start or -end
// [Variation], or auto, which picks the side with the most space.
type Placement string

const (
	AutoStart   Placement = "auto-start"
	Auto        Placement = "auto"
	AutoEnd     Placement = "auto-end"
	TopStart    Placement = "top-start"
	Top         Placement = "top"
	TopEnd      Placement = "top-end"
	RightStart  Placement = "right-start"
	Right       Placement = "right"
	RightEnd    Placement = "right-end"
	BottomEnd   Placement = "bottom-end"
	Bottom      Placement = "bottom"
	BottomStart Placement = "bottom-start"
	LeftEnd     Placement = "left-end"
	Left        Placement = "left"
	LeftStart   Placement = "left-start"
)

// Placements are all of the placements. After the auto placements,
// they go clockwise around the reference starting at its top left.
var Placements = []Placement{
	AutoStart, Auto, AutoEnd,
	TopStart, Top, TopEnd,
	RightStart, Right, RightEnd,
	BottomEnd, Bottom, BottomStart,
	LeftEnd, Left, LeftStart,
}

// validPlacements are the placements that are not auto.
var validPlacements = Placements[3:]

// Variation aligns a floating element with the start or end of
// its reference instead of centering it.
type Variation string

const (
	NoVariation Variation = ""
	Start       Variation = "start"
	End         Variation = "end"
)

// Opposite returns the other variation.
func (v Variation) Opposite() Variation {
	switch v {
	case Start:
		return End
	case End:
		return Start
	}
	return v
}

// Compose returns the placement with the given side and variation.
func Compose(side geometry.Side, v Variation) Placement {
	if v == NoVariation {
		return Placement(side.String())
	}
	return Placement(side.String() + "-" + string(v))
}

// Validate returns an error if p is not one of [Placements].
func (p Placement) Validate() error {
	if !slices.Contains(Placements, p) {
		return fmt.Errorf("invalid placement %q", string(p))
	}
	return nil
}

func (p Placement) split() (base string, v Variation) {
	base, after, _ := strings.Cut(string(p), "-")
	return base, Variation(after)
}

// IsAuto returns whether p is one of the auto placements.
func (p Placement) IsAuto() bool {
	base, _ := p.split()
	return base == "auto"
}

// Side returns the side of p, which is [geometry.Top] for auto placements.
func (p Placement) Side() geometry.Side {
	base, _ := p.split()
	s, err := geometry.SideFromString(base)
	if err != nil {
		return geometry.Top
	}
	return s
}

// Variation returns the variation of p.
func (p Placement) Variation() Variation {
	_, v := p.split()
	return v
}

// Opposite returns the placement on the other side with the same variation.
func (p Placement) Opposite() Placement {
	if p.IsAuto() {
		return p
	}
	return Compose(p.Side().Opposite(), p.Variation())
}

// clockwise returns the non-auto placements in clockwise order starting
// at p, or in counterclockwise order if counter is true.
func clockwise(p Placement, counter bool) []Placement {
	i := max(slices.Index(validPlacements, p), 0)
	res := slices.Concat(validPlacements[i:], validPlacements[:i])
	if counter {
		slices.Reverse(res[1:])
	}
	return res
}
