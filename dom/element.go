// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"fmt"
	"slices"
	"strings"

	"cogentcore.org/popover/loop"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is an element of a [Document]. Its tree structure
// and attributes are stored in the underlying [html.Node].
type Element struct {
	doc  *Document
	node *html.Node

	// style is the inline style of the element.
	style map[string]string

	// scrollLeft and scrollTop are the scroll offsets.
	scrollLeft, scrollTop float32

	// shadowRoot is the root node of the attached shadow tree, if any.
	shadowRoot *html.Node

	listeners Listeners

	// transitions are the pending emulated transitions by property.
	transitions map[string]loop.Handle
}

func atomOf(tag string) atom.Atom {
	return atom.Lookup([]byte(tag))
}

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	s := e.Tag()
	if id := e.ID(); id != "" {
		s += "#" + id
	}
	if cl := e.GetAttribute("class"); cl != "" {
		s += "." + strings.Join(strings.Fields(cl), ".")
	}
	return s
}

// Node returns the underlying [html.Node].
func (e *Element) Node() *html.Node {
	return e.node
}

// Document returns the document that created this element.
func (e *Element) Document() *Document {
	return e.doc
}

// Tag returns the lowercase tag name of the element.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the id attribute of the element.
func (e *Element) ID() string {
	return e.GetAttribute("id")
}

// Attr returns the value of the given attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttribute returns the value of the given attribute, or "".
func (e *Element) GetAttribute(name string) string {
	v, _ := e.Attr(name)
	return v
}

// HasAttribute returns whether the given attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttribute sets the given attribute. Setting the style
// attribute replaces the inline style.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	if name == "style" {
		e.style = nil
		e.parseStyleAttr(value)
	}
	e.setAttr(name, value)
}

func (e *Element) setAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute removes the given attribute, if present.
func (e *Element) RemoveAttribute(name string) {
	e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool { return a.Key == name })
	if name == "style" {
		e.style = nil
	}
}

// Classes returns the classes of the element.
func (e *Element) Classes() []string {
	return strings.Fields(e.GetAttribute("class"))
}

// HasClass returns whether the element has the given class.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Classes(), class)
}

// AddClass adds the given classes to the element, if not already present.
func (e *Element) AddClass(classes ...string) {
	cl := e.Classes()
	for _, c := range classes {
		if c != "" && !slices.Contains(cl, c) {
			cl = append(cl, c)
		}
	}
	e.setAttr("class", strings.Join(cl, " "))
}

// RemoveClass removes the given classes from the element.
func (e *Element) RemoveClass(classes ...string) {
	cl := slices.DeleteFunc(e.Classes(), func(c string) bool { return slices.Contains(classes, c) })
	e.setAttr("class", strings.Join(cl, " "))
}

// Parent returns the parent element within the same tree, or nil
// for the document element, detached elements, and the top level
// elements of a shadow tree.
func (e *Element) Parent() *Element {
	return e.doc.element(e.node.Parent)
}

// ParentNode returns the parent element, continuing to the host
// element from the top level of a shadow tree.
func (e *Element) ParentNode() *Element {
	if p := e.Parent(); p != nil {
		return p
	}
	if e.node.Parent != nil {
		return e.doc.shadowHosts[e.node.Parent]
	}
	return nil
}

// Children returns the child elements.
func (e *Element) Children() []*Element {
	return childElements(e.doc, e.node)
}

func childElements(d *Document, n *html.Node) []*Element {
	var ch []*Element
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if ce := d.element(c); ce != nil {
			ch = append(ch, ce)
		}
	}
	return ch
}

// FirstElementChild returns the first child element, or nil.
func (e *Element) FirstElementChild() *Element {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if ce := e.doc.element(c); ce != nil {
			return ce
		}
	}
	return nil
}

// NextElementSibling returns the next sibling element, or nil.
func (e *Element) NextElementSibling() *Element {
	for c := e.node.NextSibling; c != nil; c = c.NextSibling {
		if ce := e.doc.element(c); ce != nil {
			return ce
		}
	}
	return nil
}

// AppendChild appends the given element as the last child,
// removing it from its previous parent first.
func (e *Element) AppendChild(child *Element) {
	appendNode(e.node, child)
}

func appendNode(parent *html.Node, child *Element) {
	was := child.IsConnected()
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	parent.AppendChild(child.node)
	if was && !child.IsConnected() {
		child.doc.disconnected(child)
	}
}

// RemoveChild removes the given child element. It does nothing
// if child is not a child of e.
func (e *Element) RemoveChild(child *Element) {
	if child == nil || child.node.Parent != e.node {
		return
	}
	was := child.IsConnected()
	e.node.RemoveChild(child.node)
	if was {
		e.doc.disconnected(child)
	}
}

// Remove removes the element from its parent.
func (e *Element) Remove() {
	was := e.IsConnected()
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
	if e.doc.active != nil && e.Contains(e.doc.active) {
		e.doc.active = nil
	}
	if was && !e.IsConnected() {
		e.doc.disconnected(e)
	}
}

// Contains returns whether other is e or a descendant of e in the same tree.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// ContainsComposed is like [Element.Contains], but also looks into
// the shadow trees attached to e and its descendants.
func (e *Element) ContainsComposed(other *Element) bool {
	for cur := other; cur != nil; cur = cur.ParentNode() {
		if cur == e {
			return true
		}
	}
	return false
}

// rootNode returns the root node of the tree containing e:
// the document node, a shadow root, or a detached element.
func (e *Element) rootNode() *html.Node {
	n := e.node
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// IsConnected returns whether the element is in the document,
// possibly through shadow hosts.
func (e *Element) IsConnected() bool {
	for cur := e; cur != nil; {
		root := cur.rootNode()
		if root == e.doc.root {
			return true
		}
		cur = e.doc.shadowHosts[root]
	}
	return false
}

// RootHost returns the host element when e is inside a shadow tree, or nil.
func (e *Element) RootHost() *Element {
	return e.doc.shadowHosts[e.rootNode()]
}

// SetText replaces the children of the element with the given text.
func (e *Element) SetText(text string) {
	e.clearChildren()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Text returns the concatenated text content of the element.
func (e *Element) Text() string {
	var sb strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}

// SetInnerHTML replaces the children of the element with the
// result of parsing the given HTML fragment.
func (e *Element) SetInnerHTML(s string) error {
	nodes, err := html.ParseFragment(strings.NewReader(s), e.node)
	if err != nil {
		return fmt.Errorf("error parsing HTML fragment: %w", err)
	}
	e.clearChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	e.doc.adoptTree(e.node)
	return nil
}

func (e *Element) clearChildren() {
	was := e.IsConnected()
	var removed []*Element
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		if ce := e.doc.element(c); ce != nil && was {
			removed = append(removed, ce)
		}
		c = next
	}
	for _, ce := range removed {
		e.doc.disconnected(ce)
	}
}

// ShadowRoot is the root of a shadow tree attached to a host element.
type ShadowRoot struct {
	host *Element
	node *html.Node
}

// AttachShadow attaches a shadow tree to the element and returns
// its root. Calling it again returns the existing root.
func (e *Element) AttachShadow() *ShadowRoot {
	if e.shadowRoot == nil {
		e.shadowRoot = &html.Node{Type: html.DocumentNode}
		e.doc.shadowHosts[e.shadowRoot] = e
	}
	return &ShadowRoot{host: e, node: e.shadowRoot}
}

// Host returns the host element of the shadow root.
func (s *ShadowRoot) Host() *Element {
	return s.host
}

// AppendChild appends the given element to the top level of the shadow tree.
func (s *ShadowRoot) AppendChild(child *Element) {
	appendNode(s.node, child)
}

// QuerySelector returns the first element in the shadow tree matching the selector.
func (s *ShadowRoot) QuerySelector(selector string) (*Element, error) {
	return querySelector(s.host.doc, s.node, selector)
}

// Focus focuses the element, sending [Blur] and [FocusOut] to the
// previously focused element and [Focus] and [FocusIn] to this one.
func (e *Element) Focus() {
	d := e.doc
	if d.active == e {
		return
	}
	prev := d.active
	if prev != nil {
		d.active = nil
		prev.dispatchRelated(Blur, e)
		prev.dispatchRelated(FocusOut, e)
	}
	d.active = e
	e.dispatchRelated(Focus, prev)
	e.dispatchRelated(FocusIn, prev)
}

// Blur removes focus from the element if it is focused.
func (e *Element) Blur() {
	if e.doc.active != e {
		return
	}
	e.doc.active = nil
	e.dispatchRelated(Blur, nil)
	e.dispatchRelated(FocusOut, nil)
}

func (e *Element) dispatchRelated(typ Types, related *Element) {
	ev := NewEvent(typ)
	ev.RelatedTarget = related
	e.Dispatch(ev)
}

// IsFocusable returns whether the element can receive focus
// without a tabindex attribute.
func (e *Element) IsFocusable() bool {
	switch e.Tag() {
	case "a":
		return e.HasAttribute("href")
	case "button", "input", "select", "textarea", "iframe":
		return true
	}
	return e.HasAttribute("tabindex")
}

// AddEventListener adds a listener to the element.
func (e *Element) AddEventListener(typ Types, fun func(e *Event), opts ...ListenerOptions) *Listener {
	return e.listeners.Add(typ, fun, firstOptions(opts))
}

// RemoveEventListener removes a listener from the element.
func (e *Element) RemoveEventListener(l *Listener) {
	e.listeners.Remove(l)
}

// HasEventListener returns whether the element has a listener of the given type.
func (e *Element) HasEventListener(typ Types) bool {
	return e.listeners.Has(typ)
}

// Dispatch sends the given event to the element. Capture listeners
// of the window, document and ancestors run first, then the listeners
// of the element, then, for bubbling types, the non-capture listeners
// of the ancestors, the document and the window.
func (e *Element) Dispatch(ev *Event) {
	ev.Target = e
	var path []*Element
	for p := e.ParentNode(); p != nil; p = p.ParentNode() {
		path = append(path, p)
	}
	connected := e.IsConnected()
	d := e.doc
	if connected {
		d.window.listeners.call(ev, true, false)
		if ev.stopped {
			return
		}
		d.listeners.call(ev, true, false)
		if ev.stopped {
			return
		}
	}
	for i := len(path) - 1; i >= 0; i-- {
		path[i].listeners.call(ev, true, false)
		if ev.stopped {
			return
		}
	}
	e.listeners.call(ev, false, true)
	if ev.stopped || !ev.Type.Bubbles() {
		return
	}
	for _, p := range path {
		p.listeners.call(ev, false, false)
		if ev.stopped {
			return
		}
	}
	if connected {
		d.listeners.call(ev, false, false)
		if ev.stopped {
			return
		}
		d.window.listeners.call(ev, false, false)
	}
}
