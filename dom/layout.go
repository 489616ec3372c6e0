// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"github.com/chewxy/math32"
	"golang.org/x/net/html"
)

// Rect is a box in pixels.
type Rect struct {
	Left, Top, Width, Height float32
}

// Right returns the right edge of the rect.
func (r Rect) Right() float32 { return r.Left + r.Width }

// Bottom returns the bottom edge of the rect.
func (r Rect) Bottom() float32 { return r.Top + r.Height }

// IsZero returns whether all of the fields of the rect are zero.
func (r Rect) IsZero() bool { return r == Rect{} }

// Translate returns the rect moved by the given amounts.
func (r Rect) Translate(dx, dy float32) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// OffsetWidth returns the border box width of the element from its
// width style. The html element and, by default, the body are as
// wide as the viewport. Other elements without a width shrink to
// fit their in-flow children.
func (e *Element) OffsetWidth() float32 {
	if w, ok := e.length("width"); ok {
		return w
	}
	if e == e.doc.html || e == e.doc.body {
		return e.doc.viewportWidth
	}
	return e.autoSize(false)
}

// OffsetHeight returns the border box height of the element from its
// height style. The html element and, by default, the body are as
// tall as the viewport. Other elements without a height shrink to
// fit their in-flow children.
func (e *Element) OffsetHeight() float32 {
	if h, ok := e.length("height"); ok {
		return h
	}
	if e == e.doc.html || e == e.doc.body {
		return e.doc.viewportHeight
	}
	return e.autoSize(true)
}

// autoSize returns the largest margin box width (or height) of the
// children of e that are not absolutely positioned, plus the borders
// of e. Children overlap rather than stack, so this is the size of
// the largest child. An element without sized children has zero size.
func (e *Element) autoSize(height bool) float32 {
	var size float32
	for _, c := range e.Children() {
		switch c.Position() {
		case "absolute", "fixed":
			continue
		}
		m := c.Margins()
		if height {
			size = max(size, c.OffsetHeight()+m.Vertical())
		} else {
			size = max(size, c.OffsetWidth()+m.Horizontal())
		}
	}
	if size == 0 {
		return 0
	}
	b := e.Borders()
	if height {
		return size + b.Vertical()
	}
	return size + b.Horizontal()
}

// ClientWidth returns the padding box width of the element. For the
// html element it is the viewport width.
func (e *Element) ClientWidth() float32 {
	if e == e.doc.html {
		return e.doc.viewportWidth
	}
	return max(0, e.OffsetWidth()-e.Borders().Horizontal())
}

// ClientHeight returns the padding box height of the element. For the
// html element it is the viewport height.
func (e *Element) ClientHeight() float32 {
	if e == e.doc.html {
		return e.doc.viewportHeight
	}
	return max(0, e.OffsetHeight()-e.Borders().Vertical())
}

// ClientLeft returns the width of the left border.
func (e *Element) ClientLeft() float32 { return e.Borders().Left }

// ClientTop returns the width of the top border.
func (e *Element) ClientTop() float32 { return e.Borders().Top }

// ScrollLeft returns the horizontal scroll offset.
func (e *Element) ScrollLeft() float32 { return e.scrollLeft }

// ScrollTop returns the vertical scroll offset.
func (e *Element) ScrollTop() float32 { return e.scrollTop }

// ScrollWidth returns the width of the scrollable content of the
// element, which is at least its client width.
func (e *Element) ScrollWidth() float32 {
	w := e.ClientWidth()
	if e == e.doc.html {
		return max(w, e.doc.extent().Right()+e.scrollLeft)
	}
	e.eachContained(func(c *Element, local Rect) {
		w = max(w, local.Right()+c.Margins().Right)
	})
	return w
}

// ScrollHeight returns the height of the scrollable content of the
// element, which is at least its client height.
func (e *Element) ScrollHeight() float32 {
	h := e.ClientHeight()
	if e == e.doc.html {
		return max(h, e.doc.extent().Bottom()+e.scrollTop)
	}
	e.eachContained(func(c *Element, local Rect) {
		h = max(h, local.Bottom()+c.Margins().Bottom)
	})
	return h
}

// eachContained calls fun for each descendant whose containing
// block is e, with its rect relative to the padding box of e.
func (e *Element) eachContained(fun func(c *Element, local Rect)) {
	var visit func(p *Element)
	visit = func(p *Element) {
		for _, c := range p.Children() {
			if c.containingBlock() == e {
				fun(c, c.localRect(e))
			}
			visit(c)
		}
	}
	visit(e)
}

// extent returns the union of the client rects of the elements that
// scroll with the document, which excludes fixed elements and the
// content of scroll containers.
func (d *Document) extent() Rect {
	var right, bottom float32
	walk(d.root, func(n *html.Node) bool {
		e := d.element(n)
		if e == nil {
			return true
		}
		if e != d.html && e.Tag() != "head" && scrollsWithDocument(e) {
			r := e.clientRect()
			right = max(right, r.Right())
			bottom = max(bottom, r.Bottom())
		}
		return true
	})
	return Rect{Width: right, Height: bottom}
}

// scrollsWithDocument returns whether the containing block chain of
// e reaches the html element without passing a scroll container.
func scrollsWithDocument(e *Element) bool {
	for cb := e.containingBlock(); cb != e.doc.html; cb = cb.containingBlock() {
		if cb == nil {
			return false
		}
		if cb != e.doc.body && cb.IsScrollContainer() {
			return false
		}
	}
	return true
}

// IsScrollContainer returns whether any of the overflow styles of
// the element is auto, scroll, overlay or hidden.
func (e *Element) IsScrollContainer() bool {
	o, x, y := e.Overflow()
	return o+x+y != "visiblevisiblevisible"
}

// SetScroll sets the scroll offsets of the element, clamped to its
// scrollable range, and sends a [Scroll] event if they changed.
// Scrolling the html element scrolls the document, and the event is
// sent to the document, from where it reaches the window.
func (e *Element) SetScroll(left, top float32) {
	left = math32.Max(0, math32.Min(left, e.ScrollWidth()-e.ClientWidth()))
	top = math32.Max(0, math32.Min(top, e.ScrollHeight()-e.ClientHeight()))
	if left == e.scrollLeft && top == e.scrollTop {
		return
	}
	e.scrollLeft, e.scrollTop = left, top
	if e == e.doc.html {
		e.doc.Dispatch(NewEvent(Scroll))
		return
	}
	e.Dispatch(NewEvent(Scroll))
}

// IsPositioned returns whether the position of the element is not static.
func (e *Element) IsPositioned() bool {
	return e.Position() != "static"
}

// containingBlock returns the element the position of e is relative
// to, or nil for fixed elements positioned relative to the viewport
// and for the html element.
func (e *Element) containingBlock() *Element {
	if e == e.doc.html {
		return nil
	}
	switch e.Position() {
	case "fixed":
		for p := e.ParentNode(); p != nil; p = p.ParentNode() {
			if p.HasTransform() {
				return p
			}
		}
		return nil
	case "absolute":
		for p := e.ParentNode(); p != nil; p = p.ParentNode() {
			if p.IsPositioned() || p.HasTransform() {
				return p
			}
		}
		return e.doc.html
	}
	return e.ParentNode()
}

// localRect returns the border box of e relative to the padding box
// of its containing block cb, ignoring the scroll of cb. The left
// and top styles place elements of every position, standing in for
// flow layout for static elements; absolute and fixed elements with
// only right or bottom are placed from the far edge.
func (e *Element) localRect(cb *Element) Rect {
	w, h := e.OffsetWidth(), e.OffsetHeight()
	m := e.Margins()
	var cbw, cbh float32
	if cb != nil {
		cbw, cbh = cb.ClientWidth(), cb.ClientHeight()
	} else {
		cbw, cbh = e.doc.viewportWidth, e.doc.viewportHeight
	}
	pos := e.Position()
	farEdge := pos == "absolute" || pos == "fixed"
	r := Rect{Width: w, Height: h}
	if l, ok := e.length("left"); ok {
		r.Left = l + m.Left
	} else if rt, ok := e.length("right"); ok && farEdge {
		r.Left = cbw - rt - w - m.Right
	} else {
		r.Left = m.Left
	}
	if t, ok := e.length("top"); ok {
		r.Top = t + m.Top
	} else if b, ok := e.length("bottom"); ok && farEdge {
		r.Top = cbh - b - h - m.Bottom
	} else {
		r.Top = m.Top
	}
	tx, ty := e.Translation()
	return r.Translate(tx, ty)
}

// BoundingClientRect returns the border box of the element relative
// to the viewport, taking into account the scroll offsets of its
// containing blocks. Elements not in the document have a zero rect.
func (e *Element) BoundingClientRect() Rect {
	if !e.IsConnected() {
		return Rect{}
	}
	return e.clientRect()
}

func (e *Element) clientRect() Rect {
	if e == e.doc.html {
		m := e.Margins()
		return Rect{Left: m.Left - e.scrollLeft, Top: m.Top - e.scrollTop, Width: e.OffsetWidth(), Height: e.OffsetHeight()}
	}
	cb := e.containingBlock()
	local := e.localRect(cb)
	if cb == nil {
		return local
	}
	base := cb.clientRect()
	b := cb.Borders()
	x, y := base.Left+b.Left, base.Top+b.Top
	if cb != e.doc.html {
		x -= cb.scrollLeft
		y -= cb.scrollTop
	}
	return local.Translate(x, y)
}

// OffsetParent returns the nearest positioned ancestor of the element,
// a table cell or table ancestor of a static element, or the body.
// It returns nil for the html and body elements, fixed elements, and
// elements not in the document.
func (e *Element) OffsetParent() *Element {
	d := e.doc
	if e == d.html || e == d.body || e.Position() == "fixed" || !e.IsConnected() {
		return nil
	}
	static := !e.IsPositioned()
	for p := e.ParentNode(); p != nil; p = p.ParentNode() {
		if p == d.body || p.IsPositioned() {
			return p
		}
		if static {
			switch p.Tag() {
			case "td", "th", "table":
				return p
			}
		}
	}
	return nil
}

// OffsetLeft returns the left of the border box of the element relative
// to the padding box of its offset parent.
func (e *Element) OffsetLeft() float32 {
	x, _ := e.offset()
	return x
}

// OffsetTop returns the top of the border box of the element relative
// to the padding box of its offset parent.
func (e *Element) OffsetTop() float32 {
	_, y := e.offset()
	return y
}

func (e *Element) offset() (x, y float32) {
	r := e.BoundingClientRect()
	p := e.OffsetParent()
	if p == nil {
		return r.Left, r.Top
	}
	pr := p.BoundingClientRect()
	b := p.Borders()
	return r.Left - pr.Left - b.Left + p.scrollLeft, r.Top - pr.Top - b.Top + p.scrollTop
}
