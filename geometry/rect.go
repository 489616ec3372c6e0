// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"fmt"
	"strings"

	"cogentcore.org/popover/dom"
)

// Side is one of the four sides of a box.
type Side int32

const (
	Top Side = iota
	Right
	Bottom
	Left

	// SidesN is the number of sides.
	SidesN
)

var sideNames = [...]string{"top", "right", "bottom", "left"}

func (s Side) String() string {
	if s < 0 || s >= SidesN {
		return fmt.Sprintf("Side(%d)", int32(s))
	}
	return sideNames[s]
}

// SideFromString returns the side with the given lowercase name.
func SideFromString(s string) (Side, error) {
	for i, n := range sideNames {
		if n == s {
			return Side(i), nil
		}
	}
	return Top, fmt.Errorf("geometry.Side: unknown side %q", s)
}

// Opposite returns the side across the box from s.
func (s Side) Opposite() Side {
	return (s + 2) % SidesN
}

// IsVertical returns whether s is the top or bottom side, which
// places content along the vertical axis.
func (s Side) IsVertical() bool {
	return s == Top || s == Bottom
}

// Rect is a rectangle with derived right and bottom edges.
// Popper and reference offsets, boundaries, and client rects are all Rects.
type Rect struct {
	Top, Left, Width, Height float32
}

// RectFromEdges returns the rect with the given edges.
func RectFromEdges(top, right, bottom, left float32) Rect {
	return Rect{Top: top, Left: left, Width: right - left, Height: bottom - top}
}

// FromDOM converts a [dom.Rect].
func FromDOM(r dom.Rect) Rect {
	return Rect{Top: r.Top, Left: r.Left, Width: r.Width, Height: r.Height}
}

func (r Rect) Right() float32  { return r.Left + r.Width }
func (r Rect) Bottom() float32 { return r.Top + r.Height }

// Get returns the coordinate of the given side.
func (r Rect) Get(s Side) float32 {
	switch s {
	case Top:
		return r.Top
	case Right:
		return r.Right()
	case Bottom:
		return r.Bottom()
	default:
		return r.Left
	}
}

// Set moves the rect so that the given side is at v, keeping its size.
func (r *Rect) Set(s Side, v float32) {
	switch s {
	case Top:
		r.Top = v
	case Right:
		r.Left = v - r.Width
	case Bottom:
		r.Top = v - r.Height
	default:
		r.Left = v
	}
}

// Length returns the width for vertical sides and the height
// otherwise: the length of the rect along the edge at side s.
func (r Rect) Length(s Side) float32 {
	if s.IsVertical() {
		return r.Width
	}
	return r.Height
}

// Translate returns the rect moved by the given amounts.
func (r Rect) Translate(dx, dy float32) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// Inset returns the rect with each edge moved inward by the padding.
func (r Rect) Inset(p Padding) Rect {
	return RectFromEdges(r.Top+p.Top, r.Right()-p.Right, r.Bottom()-p.Bottom, r.Left+p.Left)
}

func (r Rect) String() string {
	return fmt.Sprintf("{top: %g, left: %g, width: %g, height: %g}", r.Top, r.Left, r.Width, r.Height)
}

// Padding is a space for each side.
type Padding struct {
	Top, Right, Bottom, Left float32
}

// Uniform returns padding of v on every side.
func Uniform(v float32) Padding {
	return Padding{v, v, v, v}
}

// Get returns the padding of the given side.
func (p Padding) Get(s Side) float32 {
	switch s {
	case Top:
		return p.Top
	case Right:
		return p.Right
	case Bottom:
		return p.Bottom
	default:
		return p.Left
	}
}

// BoundaryKinds are the kinds of [Boundary].
type BoundaryKinds int32

const (
	// ScrollParentBoundary is the nearest scroll container of the
	// reference, or the whole document when there is none.
	ScrollParentBoundary BoundaryKinds = iota

	// WindowBoundary is the whole document.
	WindowBoundary

	// ViewportBoundary is the visible part of the document.
	ViewportBoundary

	// ElementBoundary is a given element.
	ElementBoundary

	// SelectorBoundary is the first element matching a selector.
	SelectorBoundary
)

// Boundary specifies the clipping rectangle of a floating element.
// The zero value is the scroll parent of the reference.
type Boundary struct {
	Kind BoundaryKinds

	// Element is the boundary element for [ElementBoundary].
	Element *dom.Element

	// Selector is the boundary selector for [SelectorBoundary].
	Selector string
}

// ParseBoundary returns the boundary for the given name:
// scrollParent, window, viewport, or otherwise a CSS selector.
func ParseBoundary(s string) Boundary {
	switch strings.TrimSpace(s) {
	case "", "scrollParent":
		return Boundary{}
	case "window":
		return Boundary{Kind: WindowBoundary}
	case "viewport":
		return Boundary{Kind: ViewportBoundary}
	}
	return Boundary{Kind: SelectorBoundary, Selector: s}
}

// ElementBoundaryOf returns a boundary for the given element.
func ElementBoundaryOf(e *dom.Element) Boundary {
	return Boundary{Kind: ElementBoundary, Element: e}
}

func (b Boundary) String() string {
	switch b.Kind {
	case WindowBoundary:
		return "window"
	case ViewportBoundary:
		return "viewport"
	case ElementBoundary:
		return b.Element.String()
	case SelectorBoundary:
		return b.Selector
	}
	return "scrollParent"
}

// MarshalText encodes the boundary by name; element boundaries
// cannot be encoded and are written as their description.
func (b Boundary) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes the boundary with [ParseBoundary].
func (b *Boundary) UnmarshalText(text []byte) error {
	*b = ParseBoundary(string(text))
	return nil
}
