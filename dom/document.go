// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dom provides a headless document model: an element tree
// built on [html.Node]s with an explicit box model read from inline
// styles, CSS selector queries, focus, scrolling, and DOM-style event
// dispatch with capture and bubbling phases.
//
// Layout is not computed from the flow of the document; instead, every
// element is placed from its left/top/right/bottom, width/height, margin,
// border and transform styles relative to its containing block, which is
// enough to exercise positioning code that depends on offset parents,
// scroll containers and fixed positioning.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"cogentcore.org/popover/loop"
	"golang.org/x/net/html"
)

// Document is a headless HTML document with a viewport.
type Document struct {
	root   *html.Node
	html   *Element
	head   *Element
	body   *Element
	window *Window

	// elements maps every known element node to its element.
	elements map[*html.Node]*Element

	// shadowHosts maps shadow root nodes to their host elements.
	shadowHosts map[*html.Node]*Element

	viewportWidth, viewportHeight float32

	active    *Element
	listeners Listeners
	scheduler loop.Scheduler

	disconnectObservers []*disconnectObserver
}

type disconnectObserver struct {
	fun func(root *Element)
}

// Window is the event target above the document, receiving
// resize, blur, and document scroll events.
type Window struct {
	doc       *Document
	listeners Listeners
}

// NewDocument returns a new empty document with the given viewport size.
func NewDocument(width, height float32) *Document {
	d, err := ParseHTMLString("<html><head></head><body></body></html>", width, height)
	if err != nil {
		panic(err) // the constant document above always parses
	}
	return d
}

// ParseHTMLString parses the given HTML string into a new [Document]
// with the given viewport size.
func ParseHTMLString(s string, width, height float32) (*Document, error) {
	return ParseHTML(bytes.NewBufferString(s), width, height)
}

// ParseHTML parses HTML from the given reader into a new [Document]
// with the given viewport size. The inline style attribute of each
// element determines its box.
func ParseHTML(r io.Reader, width, height float32) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	d := &Document{
		root:           n,
		elements:       map[*html.Node]*Element{},
		shadowHosts:    map[*html.Node]*Element{},
		viewportWidth:  width,
		viewportHeight: height,
	}
	d.window = &Window{doc: d}
	d.adoptTree(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "html" {
			d.html = d.elements[c]
		}
	}
	if d.html == nil {
		return nil, fmt.Errorf("error parsing HTML: no html element")
	}
	for _, c := range d.html.Children() {
		switch c.Tag() {
		case "head":
			d.head = c
		case "body":
			d.body = c
		}
	}
	return d, nil
}

// adoptTree creates elements for every element node in the given tree
// that does not have one yet.
func (d *Document) adoptTree(n *html.Node) {
	if n.Type == html.ElementNode {
		if _, ok := d.elements[n]; !ok {
			e := &Element{doc: d, node: n}
			d.elements[n] = e
			if style, ok := e.Attr("style"); ok {
				e.parseStyleAttr(style)
			}
			e.parseScrollAttrs()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.adoptTree(c)
	}
}

// element returns the element for the given node, or nil.
func (d *Document) element(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return d.elements[n]
}

// CreateElement returns a new detached element with the given tag.
func (d *Document) CreateElement(tag string) *Element {
	n := &html.Node{Type: html.ElementNode, Data: strings.ToLower(tag)}
	n.DataAtom = atomOf(n.Data)
	e := &Element{doc: d, node: n}
	d.elements[n] = e
	return e
}

// DocumentElement returns the root html element.
func (d *Document) DocumentElement() *Element {
	return d.html
}

// Head returns the head element.
func (d *Document) Head() *Element {
	return d.head
}

// Body returns the body element.
func (d *Document) Body() *Element {
	return d.body
}

// Window returns the window of the document.
func (d *Document) Window() *Window {
	return d.window
}

// Viewport returns the width and height of the viewport.
func (d *Document) Viewport() (width, height float32) {
	return d.viewportWidth, d.viewportHeight
}

// SetViewport sets the viewport size and sends a [Resize] event to the window.
func (d *Document) SetViewport(width, height float32) {
	d.viewportWidth, d.viewportHeight = width, height
	d.window.Dispatch(NewEvent(Resize))
}

// Scroll returns the scroll offsets of the document.
func (d *Document) Scroll() (left, top float32) {
	return d.html.ScrollLeft(), d.html.ScrollTop()
}

// ScrollTo sets the scroll offsets of the document and sends a
// [Scroll] event to the document, which reaches the window.
func (d *Document) ScrollTo(left, top float32) {
	d.html.SetScroll(left, top)
}

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *Element {
	return d.active
}

// Scheduler returns the scheduler of the document, which
// may be nil if none has been set.
func (d *Document) Scheduler() loop.Scheduler {
	return d.scheduler
}

// SetScheduler sets the scheduler used for emulated transitions
// and by code positioning elements in the document.
func (d *Document) SetScheduler(s loop.Scheduler) *Document {
	d.scheduler = s
	return d
}

// AddEventListener adds a listener to the document.
func (d *Document) AddEventListener(typ Types, fun func(e *Event), opts ...ListenerOptions) *Listener {
	return d.listeners.Add(typ, fun, firstOptions(opts))
}

// RemoveEventListener removes a listener from the document.
func (d *Document) RemoveEventListener(l *Listener) {
	d.listeners.Remove(l)
}

// HasEventListener returns whether the document has a listener of the given type.
func (d *Document) HasEventListener(typ Types) bool {
	return d.listeners.Has(typ)
}

// Dispatch sends the given event to the document, from where it
// bubbles to the window if its type bubbles or is [Scroll].
func (d *Document) Dispatch(e *Event) {
	e.Target = nil
	d.window.listeners.call(e, true, false)
	if e.stopped {
		return
	}
	d.listeners.call(e, false, true)
	if e.stopped || (!e.Type.Bubbles() && e.Type != Scroll) {
		return
	}
	d.window.listeners.call(e, false, false)
}

// OnDisconnect registers fun to be called after elements leave the
// document, with the root of each removed subtree. Moving an element
// within the document does not call it. The returned function
// removes the registration.
func (d *Document) OnDisconnect(fun func(root *Element)) (remove func()) {
	o := &disconnectObserver{fun: fun}
	d.disconnectObservers = append(d.disconnectObservers, o)
	return func() {
		d.disconnectObservers = slices.DeleteFunc(d.disconnectObservers, func(x *disconnectObserver) bool { return x == o })
	}
}

// disconnected is called after the subtree of root left the document.
func (d *Document) disconnected(root *Element) {
	if d.active != nil && !d.active.IsConnected() {
		d.active = nil
	}
	for _, o := range slices.Clone(d.disconnectObservers) {
		o.fun(root)
	}
}

// QuerySelector returns the first element in the document
// matching the given selector, or nil.
func (d *Document) QuerySelector(selector string) (*Element, error) {
	return querySelector(d, d.root, selector)
}

// QuerySelectorAll returns all of the elements in the document
// matching the given selector, in document order.
func (d *Document) QuerySelectorAll(selector string) ([]*Element, error) {
	return querySelectorAll(d, d.root, selector)
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	var found *Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				found = d.elements[n]
				return false
			}
		}
		return true
	})
	return found
}

// AddEventListener adds a listener to the window.
func (w *Window) AddEventListener(typ Types, fun func(e *Event), opts ...ListenerOptions) *Listener {
	return w.listeners.Add(typ, fun, firstOptions(opts))
}

// RemoveEventListener removes a listener from the window.
func (w *Window) RemoveEventListener(l *Listener) {
	w.listeners.Remove(l)
}

// HasEventListener returns whether the window has a listener of the given type.
func (w *Window) HasEventListener(typ Types) bool {
	return w.listeners.Has(typ)
}

// Dispatch sends the given event to the window only.
func (w *Window) Dispatch(e *Event) {
	e.Target = nil
	w.listeners.call(e, false, true)
}

// Blur sends a [Blur] event to the window, as happens when the
// user switches to another window.
func (w *Window) Blur() {
	w.Dispatch(NewEvent(Blur))
}

func firstOptions(opts []ListenerOptions) ListenerOptions {
	if len(opts) == 0 {
		return ListenerOptions{}
	}
	return opts[0]
}

// walk calls fun for n and its descendants in document order,
// stopping when fun returns false.
func walk(n *html.Node, fun func(n *html.Node) bool) bool {
	if !fun(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fun) {
			return false
		}
	}
	return true
}
