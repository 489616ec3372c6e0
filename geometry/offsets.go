// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"cogentcore.org/popover/dom"
	"github.com/chewxy/math32"
)

// Scroll returns the scroll offsets of e; the html and body
// elements give the scroll of the document.
func Scroll(e *dom.Element) (left, top float32) {
	switch e.Tag() {
	case "html", "body":
		return e.Document().Scroll()
	}
	return e.ScrollLeft(), e.ScrollTop()
}

// IncludeScroll returns r moved by the scroll offsets of e,
// or against them if subtract is true.
func IncludeScroll(r Rect, e *dom.Element, subtract bool) Rect {
	left, top := Scroll(e)
	if subtract {
		return r.Translate(-left, -top)
	}
	return r.Translate(left, top)
}

// WindowSizes returns the size of the whole document.
func WindowSizes(d *dom.Document) (width, height float32) {
	body, html := d.Body(), d.DocumentElement()
	width = math32.Max(math32.Max(body.OffsetWidth(), body.ScrollWidth()), math32.Max(html.ClientWidth(), math32.Max(html.OffsetWidth(), html.ScrollWidth())))
	height = math32.Max(math32.Max(body.OffsetHeight(), body.ScrollHeight()), math32.Max(html.ClientHeight(), math32.Max(html.OffsetHeight(), html.ScrollHeight())))
	return
}

// OuterSizes returns the size of e including its margins.
func OuterSizes(e *dom.Element) (width, height float32) {
	m := e.Margins()
	return e.OffsetWidth() + m.Horizontal(), e.OffsetHeight() + m.Vertical()
}

// ClientRect returns the client rect of the reference without any
// scrollbars. The html element is as large as the whole document.
func ClientRect(ref Reference) Rect {
	r := FromDOM(ref.BoundingClientRect())
	e, ok := ref.(*dom.Element)
	if !ok {
		return r
	}
	var width, height float32
	if e.Tag() == "html" {
		width, height = WindowSizes(e.Document())
	}
	width = firstNonZero(width, e.ClientWidth(), r.Width)
	height = firstNonZero(height, e.ClientHeight(), r.Height)
	horiz := e.OffsetWidth() - width
	vert := e.OffsetHeight() - height
	if horiz != 0 || vert != 0 {
		b := e.Borders()
		r.Width -= horiz - b.Horizontal()
		r.Height -= vert - b.Vertical()
	}
	return r
}

func firstNonZero(vals ...float32) float32 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

// OffsetRectRelativeTo returns the client rect of child relative to the
// padding box of parent. When parent is the scroll parent of child,
// its scroll offsets are included so that the rect is relative to the
// scrolled content.
func OffsetRectRelativeTo(child Reference, parent *dom.Element, fixed bool) Rect {
	r, _, _ := offsetRectRelativeTo(child, parent, fixed)
	return r
}

// offsetRectRelativeTo is [OffsetRectRelativeTo] also returning the
// top and left margins of parent when it is the html element.
func offsetRectRelativeTo(child Reference, parent *dom.Element, fixed bool) (r Rect, marginTop, marginLeft float32) {
	d := parent.Document()
	isHTML := parent.Tag() == "html"
	cr := ClientRect(child)
	pr := ClientRect(parent)
	sp := ScrollParent(d, ReferenceNode(child))
	b := parent.Borders()
	if fixed && isHTML {
		pr.Top = math32.Max(pr.Top, 0)
		pr.Left = math32.Max(pr.Left, 0)
	}
	r = Rect{Top: cr.Top - pr.Top - b.Top, Left: cr.Left - pr.Left - b.Left, Width: cr.Width, Height: cr.Height}
	if isHTML {
		m := parent.Margins()
		r.Top -= b.Top - m.Top
		r.Left -= b.Left - m.Left
		marginTop, marginLeft = m.Top, m.Left
	}
	if parent == sp && sp.Tag() != "body" {
		r = IncludeScroll(r, parent, false)
	}
	return
}

// ViewportOffsetRectRelativeTo returns the visible viewport relative to e,
// within the scrolled document unless excludeScroll is true.
func ViewportOffsetRectRelativeTo(e *dom.Element, excludeScroll bool) Rect {
	d := e.Document()
	html := d.DocumentElement()
	rel, marginTop, marginLeft := offsetRectRelativeTo(e, html, false)
	vw, vh := d.Viewport()
	width := math32.Max(html.ClientWidth(), vw)
	height := math32.Max(html.ClientHeight(), vh)
	var left, top float32
	if !excludeScroll {
		left, top = Scroll(html)
	}
	return Rect{
		Top:    top - rel.Top + marginTop,
		Left:   left - rel.Left + marginLeft,
		Width:  width,
		Height: height,
	}
}

// Boundaries returns the clipping rectangle of the given boundary,
// relative to the common offset parent of popper and reference,
// shrunk by the padding. Boundaries that cannot be found fall back
// to the whole document.
func Boundaries(popper *dom.Element, ref Reference, padding Padding, boundary Boundary, fixed bool) Rect {
	d := popper.Document()
	var op *dom.Element
	if fixed {
		op = FixedPositionOffsetParent(d, popper)
	} else {
		op = CommonOffsetParent(d, popper, ReferenceNode(ref))
	}
	if boundary.Kind == ViewportBoundary {
		return ViewportOffsetRectRelativeTo(op, fixed).Inset(padding)
	}
	var node *dom.Element
	switch boundary.Kind {
	case ScrollParentBoundary:
		if rn := ReferenceNode(ref); rn != nil {
			node = ScrollParent(d, rn.ParentNode())
		} else {
			node = d.Body()
		}
		if node.Tag() == "body" {
			node = d.DocumentElement()
		}
	case WindowBoundary:
		node = d.DocumentElement()
	case ElementBoundary:
		node = boundary.Element
	case SelectorBoundary:
		node, _ = d.QuerySelector(boundary.Selector)
	}
	if node == nil || !node.IsConnected() {
		node = d.DocumentElement()
	}
	offsets, marginTop, marginLeft := offsetRectRelativeTo(node, op, fixed)
	var b Rect
	if node.Tag() == "html" && !IsFixed(op) {
		width, height := WindowSizes(d)
		b = RectFromEdges(offsets.Top-marginTop, width+offsets.Left, height+offsets.Top, offsets.Left-marginLeft)
	} else {
		b = offsets
	}
	return b.Inset(padding)
}
