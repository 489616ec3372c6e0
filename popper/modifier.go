// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popper

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/geometry"
	"gopkg.in/yaml.v3"
)

// Modifier is one named step of the positioning pipeline. Modifiers
// run in increasing Order on each update, and each one refines the
// [Data] produced by the ones before it. The option fields are used
// by the built-in modifiers named in their comments; custom modifiers
// can use them as they like.
type Modifier struct {

	// Name is the unique name of the modifier.
	Name string

	// Order is the position of the modifier in the pipeline.
	Order int

	// Enabled is whether the modifier runs.
	Enabled bool

	// Run is the function of the modifier.
	Run func(d *Data, m *Modifier) *Data

	// OnLoad, if set, is called once when the popper is created,
	// if the modifier is enabled.
	OnLoad func(p *Popper, m *Modifier)

	// Offset is the offset expression of offset.
	Offset string

	// Priority is the order in which preventOverflow checks the sides.
	Priority []geometry.Side

	// Padding is the space kept from the boundaries by preventOverflow and flip.
	Padding geometry.Padding

	// Boundary is the boundary of preventOverflow and flip.
	Boundary geometry.Boundary

	// EscapeWithReference lets preventOverflow move the popper out of
	// the boundaries on a side the reference has already left.
	EscapeWithReference bool

	// Element is the arrow element of arrow.
	Element *dom.Element

	// Selector selects the arrow element inside the popper when Element is nil.
	Selector string

	// Behavior is the flip behavior of flip.
	Behavior FlipBehavior

	// FlipVariations makes flip change the variation when the
	// reference is near the boundaries.
	FlipVariations bool

	// FlipVariationsByContent makes flip change the variation when
	// the popper would overflow the boundaries.
	FlipVariationsByContent bool

	// GPUAcceleration makes computeStyle position with a translate3d
	// transform instead of top and left.
	GPUAcceleration bool

	// X is the vertical edge computeStyle anchors to: bottom (the
	// default, using the top style) or top (using the bottom style).
	X string

	// Y is the horizontal edge computeStyle anchors to: right (the
	// default, using the left style) or left (using the right style).
	Y string
}

// The orders of the built-in modifiers.
const (
	ShiftOrder           = 100
	OffsetOrder          = 200
	PreventOverflowOrder = 300
	KeepTogetherOrder    = 400
	ArrowOrder           = 500
	FlipOrder            = 600
	InnerOrder           = 700
	HideOrder            = 800
	ComputeStyleOrder    = 850
	ApplyStyleOrder      = 900
)

// DefaultPadding is the default padding of preventOverflow and flip.
const DefaultPadding = 5

// DefaultModifiers returns new instances of the built-in modifiers
// with their default options, in order.
func DefaultModifiers() []*Modifier {
	return []*Modifier{
		{Name: "shift", Order: ShiftOrder, Enabled: true, Run: shift},
		{Name: "offset", Order: OffsetOrder, Enabled: true, Run: offset, Offset: "0"},
		{Name: "preventOverflow", Order: PreventOverflowOrder, Enabled: true, Run: preventOverflow,
			Priority: []geometry.Side{geometry.Left, geometry.Right, geometry.Top, geometry.Bottom},
			Padding:  geometry.Uniform(DefaultPadding)},
		{Name: "keepTogether", Order: KeepTogetherOrder, Enabled: true, Run: keepTogether},
		{Name: "arrow", Order: ArrowOrder, Enabled: true, Run: arrow, Selector: "[x-arrow]"},
		{Name: "flip", Order: FlipOrder, Enabled: true, Run: flip, Padding: geometry.Uniform(DefaultPadding),
			Boundary: geometry.Boundary{Kind: geometry.ViewportBoundary}},
		{Name: "inner", Order: InnerOrder, Enabled: false, Run: inner},
		{Name: "hide", Order: HideOrder, Enabled: true, Run: hide},
		{Name: "computeStyle", Order: ComputeStyleOrder, Enabled: true, Run: computeStyle,
			GPUAcceleration: true, X: "bottom", Y: "right"},
		{Name: "applyStyle", Order: ApplyStyleOrder, Enabled: true, Run: applyStyle, OnLoad: applyStyleOnLoad},
	}
}

// findModifier returns the modifier with the given name, or nil.
func findModifier(ms []*Modifier, name string) *Modifier {
	i := slices.IndexFunc(ms, func(m *Modifier) bool { return m.Name == name })
	if i < 0 {
		return nil
	}
	return ms[i]
}

// isModifierEnabled returns whether the named modifier exists and is enabled.
func isModifierEnabled(ms []*Modifier, name string) bool {
	m := findModifier(ms, name)
	return m != nil && m.Enabled
}

// isModifierRequired returns whether the requested modifier is enabled
// and runs before the requesting one, logging a warning if not.
func isModifierRequired(ms []*Modifier, requesting, requested string) bool {
	req := findModifier(ms, requesting)
	ok := req != nil && slices.ContainsFunc(ms, func(m *Modifier) bool {
		return m.Name == requested && m.Enabled && m.Order < req.Order
	})
	if !ok {
		slog.Warn("popper: modifier is required by another modifier in order to work; be sure to include it before", "required", requested, "by", requesting)
	}
	return ok
}

// runModifiers runs the enabled modifiers in order, stopping before
// the modifier named ends if it is not "".
func runModifiers(ms []*Modifier, d *Data, ends string) *Data {
	for _, m := range ms {
		if ends != "" && m.Name == ends {
			break
		}
		if !m.Enabled || m.Run == nil {
			continue
		}
		d = m.Run(d, m)
	}
	return d
}

// sortModifiers sorts the modifiers by order, keeping the given
// order for modifiers with the same order.
func sortModifiers(ms []*Modifier) {
	slices.SortStableFunc(ms, func(a, b *Modifier) int { return a.Order - b.Order })
}

// FlipModes are the ways flip orders the placements it tries.
type FlipModes int32

const (
	// FlipOpposite tries the opposite side only.
	FlipOpposite FlipModes = iota

	// FlipClockwise walks the placements clockwise.
	FlipClockwise

	// FlipCounterclockwise walks the placements counterclockwise.
	FlipCounterclockwise

	// FlipList walks a given list of placements.
	FlipList
)

// FlipBehavior is the flip behavior of the flip modifier.
// The zero value flips to the opposite side.
type FlipBehavior struct {
	Mode FlipModes

	// Placements are the placements for [FlipList].
	Placements []Placement
}

// FlipBehaviorFromString returns the behavior with the given name:
// flip, clockwise, or counterclockwise.
func FlipBehaviorFromString(s string) (FlipBehavior, error) {
	switch s {
	case "", "flip":
		return FlipBehavior{}, nil
	case "clockwise":
		return FlipBehavior{Mode: FlipClockwise}, nil
	case "counterclockwise":
		return FlipBehavior{Mode: FlipCounterclockwise}, nil
	}
	return FlipBehavior{}, fmt.Errorf("invalid flip behavior %q", s)
}

func (fb FlipBehavior) String() string {
	switch fb.Mode {
	case FlipClockwise:
		return "clockwise"
	case FlipCounterclockwise:
		return "counterclockwise"
	case FlipList:
		ps := make([]string, len(fb.Placements))
		for i, p := range fb.Placements {
			ps[i] = string(p)
		}
		return "[" + strings.Join(ps, ", ") + "]"
	}
	return "flip"
}

// Equal returns whether fb and o are the same behavior.
func (fb FlipBehavior) Equal(o FlipBehavior) bool {
	return fb.Mode == o.Mode && slices.Equal(fb.Placements, o.Placements)
}

// order returns the placements flip tries, starting with p.
func (fb FlipBehavior) order(p Placement) []Placement {
	switch fb.Mode {
	case FlipClockwise:
		return clockwise(p, false)
	case FlipCounterclockwise:
		return clockwise(p, true)
	case FlipList:
		return fb.Placements
	}
	return []Placement{p, p.Opposite()}
}

// walks returns whether the behavior walks around the reference
// through every placement, so that the placements it tries already
// carry their variations.
func (fb FlipBehavior) walks() bool {
	return fb.Mode == FlipClockwise || fb.Mode == FlipCounterclockwise
}

// UnmarshalYAML decodes a behavior name or a list of placements.
func (fb *FlipBehavior) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var ps []Placement
		if err := value.Decode(&ps); err != nil {
			return err
		}
		for _, p := range ps {
			if err := p.Validate(); err != nil {
				return err
			}
		}
		*fb = FlipBehavior{Mode: FlipList, Placements: ps}
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	b, err := FlipBehaviorFromString(s)
	if err != nil {
		return err
	}
	*fb = b
	return nil
}

// MarshalYAML encodes the behavior as its name or list of placements.
func (fb FlipBehavior) MarshalYAML() (any, error) {
	if fb.Mode == FlipList {
		return fb.Placements, nil
	}
	return fb.String(), nil
}
