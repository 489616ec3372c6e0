// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"strings"

	"cogentcore.org/popover/dom"
)

// Reference is anything a floating element can be positioned
// against: a [*dom.Element] or a virtual reference with a
// synthetic client rect.
type Reference interface {
	BoundingClientRect() dom.Rect
	ClientWidth() float32
	ClientHeight() float32
}

// ContextElementer is implemented by virtual references that
// belong to an element, which is then used for finding offset
// and scroll parents.
type ContextElementer interface {
	ContextElement() *dom.Element
}

// ReferenceNode returns the element of the given reference, which is
// the reference itself, its context element, or nil.
func ReferenceNode(ref Reference) *dom.Element {
	switch r := ref.(type) {
	case *dom.Element:
		return r
	case ContextElementer:
		return r.ContextElement()
	}
	return nil
}

// ParentNode returns the parent of the element across shadow roots.
// The html element is its own parent.
func ParentNode(e *dom.Element) *dom.Element {
	if e.Tag() == "html" {
		return e
	}
	return e.ParentNode()
}

// ScrollParent returns the nearest inclusive ancestor of e that has
// auto, scroll or overlay overflow. The html and body elements, and a
// nil element, give the body of the document d.
func ScrollParent(d *dom.Document, e *dom.Element) *dom.Element {
	for ; e != nil; e = e.ParentNode() {
		switch e.Tag() {
		case "html", "body":
			return d.Body()
		}
		o, x, y := e.Overflow()
		all := o + y + x
		if strings.Contains(all, "auto") || strings.Contains(all, "scroll") || strings.Contains(all, "overlay") {
			return e
		}
	}
	return d.Body()
}

// ScrollParents returns the chain of scroll containers of the reference
// below the body, starting with the nearest, whose scrolling moves it.
// Scrolling of the document itself is seen on the window.
func ScrollParents(d *dom.Document, ref Reference) []*dom.Element {
	var res []*dom.Element
	for sp := ScrollParent(d, ReferenceNode(ref)); sp != d.Body(); {
		res = append(res, sp)
		sp = ScrollParent(d, sp.ParentNode())
	}
	return res
}

// OffsetParent returns the element that the offsets of e are relative
// to. Elements without a usable offset parent, such as fixed elements,
// use that of their next sibling, and finally the html element.
// Static table elements are skipped.
func OffsetParent(d *dom.Document, e *dom.Element) *dom.Element {
	if e == nil {
		return d.DocumentElement()
	}
	op := e.OffsetParent()
	for op == nil {
		next := e.NextElementSibling()
		if next == nil {
			break
		}
		e = next
		op = e.OffsetParent()
	}
	if op == nil || op.Tag() == "body" || op.Tag() == "html" {
		return d.DocumentElement()
	}
	switch op.Tag() {
	case "th", "td", "table":
		if op.Position() == "static" {
			return OffsetParent(d, op)
		}
	}
	return op
}

// IsOffsetContainer returns whether e is the html element or is the
// offset parent of its first child.
func IsOffsetContainer(d *dom.Document, e *dom.Element) bool {
	switch e.Tag() {
	case "body":
		return false
	case "html":
		return true
	}
	return OffsetParent(d, e.FirstElementChild()) == e
}

// CommonOffsetParent returns the offset parent that the offsets of
// both a and b can be expressed relative to. Elements in shadow trees
// are replaced by their hosts until both are in the same tree.
func CommonOffsetParent(d *dom.Document, a, b *dom.Element) *dom.Element {
	if a == nil || b == nil {
		return d.DocumentElement()
	}
	if ca := commonAncestor(a, b); ca != nil {
		if IsOffsetContainer(d, ca) {
			return ca
		}
		return OffsetParent(d, ca)
	}
	if h := a.RootHost(); h != nil {
		return CommonOffsetParent(d, h, b)
	}
	if h := b.RootHost(); h != nil {
		return CommonOffsetParent(d, a, h)
	}
	// the document node is the only common ancestor, or the
	// elements are in different detached trees
	return d.DocumentElement()
}

// commonAncestor returns the nearest common inclusive ancestor element
// of a and b within one tree, or nil.
func commonAncestor(a, b *dom.Element) *dom.Element {
	for p := a; p != nil; p = p.Parent() {
		if p.Contains(b) {
			return p
		}
	}
	return nil
}

// IsFixed returns whether e or one of its ancestors below the body
// has fixed position.
func IsFixed(e *dom.Element) bool {
	for ; e != nil; e = e.ParentNode() {
		switch e.Tag() {
		case "body", "html":
			return false
		}
		if e.Position() == "fixed" {
			return true
		}
	}
	return false
}

// FixedPositionOffsetParent returns the nearest ancestor of e with
// a transform, which contains fixed elements, or the html element.
func FixedPositionOffsetParent(d *dom.Document, e *dom.Element) *dom.Element {
	if e == nil {
		return d.DocumentElement()
	}
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.HasTransform() {
			return p
		}
	}
	return d.DocumentElement()
}
