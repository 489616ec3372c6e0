// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"cogentcore.org/popover/loop"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/exp/maps"
	"golang.org/x/net/html"
)

// transitionProperties are the style properties whose changes
// start an emulated transition.
var transitionProperties = []string{"opacity", "transform", "visibility"}

// parseStyleAttr sets the inline style from the given style attribute value.
func (e *Element) parseStyleAttr(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	// our CSS parser is strict about semicolons, but
	// they aren't needed in normal inline styles in HTML
	if !strings.HasSuffix(s, ";") {
		s += ";"
	}
	decls, err := parser.ParseDeclarations(s)
	if err != nil {
		slog.Warn("dom: invalid inline style", "element", e, "err", err)
		return
	}
	if e.style == nil {
		e.style = map[string]string{}
	}
	for _, d := range decls {
		e.style[strings.ToLower(d.Property)] = strings.TrimSpace(d.Value)
	}
}

// parseScrollAttrs sets the scroll offsets from the data-scroll-left
// and data-scroll-top attributes, which stand in for user scrolling
// in parsed documents.
func (e *Element) parseScrollAttrs() {
	if v, ok := e.Attr("data-scroll-left"); ok {
		e.scrollLeft, _ = parseLength(v)
	}
	if v, ok := e.Attr("data-scroll-top"); ok {
		e.scrollTop, _ = parseLength(v)
	}
}

// Style returns the value of the given inline style property, or "".
func (e *Element) Style(prop string) string {
	return e.style[strings.ToLower(prop)]
}

// Styles returns a copy of the inline style of the element.
func (e *Element) Styles() map[string]string {
	return maps.Clone(e.style)
}

// SetStyle sets the given inline style property. An empty value
// removes the property. Changing opacity, transform or visibility on
// an element with a transition duration starts an emulated transition
// that ends with a [TransitionEnd] event.
func (e *Element) SetStyle(prop, value string) {
	prop = strings.ToLower(strings.TrimSpace(prop))
	value = strings.TrimSpace(value)
	old := e.style[prop]
	if value == "" {
		delete(e.style, prop)
	} else {
		if e.style == nil {
			e.style = map[string]string{}
		}
		e.style[prop] = value
	}
	e.syncStyleAttr()
	if old != value && slices.Contains(transitionProperties, prop) {
		e.startTransition(prop)
	}
}

// syncStyleAttr writes the inline style back to the style attribute.
func (e *Element) syncStyleAttr() {
	if len(e.style) == 0 {
		e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool { return a.Key == "style" })
		return
	}
	e.setAttr("style", e.StyleString())
}

// StyleString returns the inline style as a declaration list
// sorted by property name.
func (e *Element) StyleString() string {
	keys := maps.Keys(e.style)
	slices.Sort(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k + ": " + e.style[k] + ";")
	}
	return sb.String()
}

// TransitionDuration returns the first transition duration of the element.
func (e *Element) TransitionDuration() time.Duration {
	v := e.Style("transition-duration")
	if v == "" {
		return 0
	}
	v = strings.TrimSpace(strings.Split(v, ",")[0])
	var unit time.Duration
	switch {
	case strings.HasSuffix(v, "ms"):
		unit, v = time.Millisecond, strings.TrimSuffix(v, "ms")
	case strings.HasSuffix(v, "s"):
		unit, v = time.Second, strings.TrimSuffix(v, "s")
	default:
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0
	}
	return time.Duration(f * float64(unit))
}

func (e *Element) startTransition(prop string) {
	s := e.doc.scheduler
	d := e.TransitionDuration()
	if s == nil || d <= 0 {
		return
	}
	if e.transitions == nil {
		e.transitions = map[string]loop.Handle{}
	}
	s.ClearTimeout(e.transitions[prop])
	e.transitions[prop] = s.SetTimeout(d, func() {
		delete(e.transitions, prop)
		if e.IsConnected() {
			e.Dispatch(NewEvent(TransitionEnd))
		}
	})
}

// parseLength parses a pixel length such as "10px", "-2.5" or "0".
// Other units are not supported and return false.
func parseLength(s string) (float32, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "px")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// length returns the pixel length of the given style property.
func (e *Element) length(prop string) (float32, bool) {
	return parseLength(e.style[prop])
}

// Edges are values for the four edges of a box.
type Edges struct {
	Top, Right, Bottom, Left float32
}

// Horizontal returns the sum of the left and right values.
func (ed Edges) Horizontal() float32 { return ed.Left + ed.Right }

// Vertical returns the sum of the top and bottom values.
func (ed Edges) Vertical() float32 { return ed.Top + ed.Bottom }

var edgeNames = [4]string{"top", "right", "bottom", "left"}

// set sets the edges from a CSS multi-value shorthand.
func (ed *Edges) set(vals []float32) {
	switch len(vals) {
	case 1:
		*ed = Edges{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		*ed = Edges{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		*ed = Edges{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		*ed = Edges{vals[0], vals[1], vals[2], vals[3]}
	}
}

func (ed *Edges) setIndex(i int, v float32) {
	switch i {
	case 0:
		ed.Top = v
	case 1:
		ed.Right = v
	case 2:
		ed.Bottom = v
	case 3:
		ed.Left = v
	}
}

// lengths returns all of the pixel lengths in a space separated value.
func lengths(s string) []float32 {
	var vals []float32
	for _, f := range strings.Fields(s) {
		if v, ok := parseLength(f); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// Margins returns the margins of the element.
func (e *Element) Margins() Edges {
	var ed Edges
	ed.set(lengths(e.style["margin"]))
	for i, n := range edgeNames {
		if v, ok := e.length("margin-" + n); ok {
			ed.setIndex(i, v)
		}
	}
	return ed
}

// Borders returns the border widths of the element.
func (e *Element) Borders() Edges {
	var ed Edges
	if vals := lengths(e.style["border"]); len(vals) > 0 {
		ed.set(vals[:1])
	}
	ed.set(lengths(e.style["border-width"]))
	for i, n := range edgeNames {
		if vals := lengths(e.style["border-"+n]); len(vals) > 0 {
			ed.setIndex(i, vals[0])
		}
		if v, ok := e.length("border-" + n + "-width"); ok {
			ed.setIndex(i, v)
		}
	}
	return ed
}

// Position returns the position style of the element, "static" by default.
func (e *Element) Position() string {
	if p := e.Style("position"); p != "" {
		return p
	}
	return "static"
}

// Overflow returns the overflow, overflow-x, and overflow-y style
// values of the element, with "visible" for unset values.
func (e *Element) Overflow() (overflow, x, y string) {
	get := func(p string) string {
		if v := e.Style(p); v != "" {
			return v
		}
		return "visible"
	}
	return get("overflow"), get("overflow-x"), get("overflow-y")
}

// HasTransform returns whether the element has a transform, which
// makes it the containing block of its fixed position descendants.
func (e *Element) HasTransform() bool {
	t := e.Style("transform")
	return t != "" && t != "none"
}

// Translation returns the translation of the element from its
// transform style, supporting translate, translate3d, translateX
// and translateY functions with pixel lengths.
func (e *Element) Translation() (x, y float32) {
	t := e.Style("transform")
	for t != "" {
		open := strings.IndexByte(t, '(')
		closing := strings.IndexByte(t, ')')
		if open < 0 || closing < open {
			break
		}
		name := strings.TrimSpace(t[:open])
		args := strings.Split(t[open+1:closing], ",")
		t = t[closing+1:]
		arg := func(i int) float32 {
			if i >= len(args) {
				return 0
			}
			v, _ := parseLength(args[i])
			return v
		}
		switch name {
		case "translate", "translate3d":
			x += arg(0)
			y += arg(1)
		case "translateX":
			x += arg(0)
		case "translateY":
			y += arg(0)
		}
	}
	return
}
