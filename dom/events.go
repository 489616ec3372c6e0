// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Types determines the type of a document event. The names
// follow the standard [JavaScript events] that the floating
// element lifecycle reacts to.
//
// [JavaScript events]: https://developer.mozilla.org/en-US/docs/Web/Events
type Types int32

const (
	// UnknownType is the zero value.
	UnknownType Types = iota

	// MouseEnter is sent to an element when the pointer enters it.
	// It does not bubble.
	MouseEnter

	// MouseLeave is sent to an element when the pointer leaves it.
	// It does not bubble.
	MouseLeave

	// MouseOver is the bubbling version of MouseEnter.
	MouseOver

	// MouseOut is the bubbling version of MouseLeave.
	MouseOut

	// MouseMove is sent to the element under the pointer whenever it moves.
	MouseMove

	// MouseDown is sent when a pointer button is pressed.
	MouseDown

	// Click is sent after a MouseDown followed by a MouseUp on the same element.
	Click

	// Focus is sent to an element receiving focus. It does not bubble.
	Focus

	// Blur is sent to an element losing focus. It does not bubble.
	Blur

	// FocusIn is the bubbling version of Focus.
	FocusIn

	// FocusOut is the bubbling version of Blur.
	FocusOut

	// TouchStart is sent when a touch point is placed on an element.
	TouchStart

	// TouchEnd is sent when a touch point is removed.
	TouchEnd

	// Scroll is sent when an element or the document scrolls.
	// On elements it does not bubble; on the document it reaches the window.
	Scroll

	// Resize is sent to the window when the viewport size changes.
	Resize

	// TransitionEnd is sent when a style transition on an element finishes.
	TransitionEnd

	// TypesN is the number of event types.
	TypesN
)

var typeNames = [...]string{
	UnknownType:   "unknown",
	MouseEnter:    "mouseenter",
	MouseLeave:    "mouseleave",
	MouseOver:     "mouseover",
	MouseOut:      "mouseout",
	MouseMove:     "mousemove",
	MouseDown:     "mousedown",
	Click:         "click",
	Focus:         "focus",
	Blur:          "blur",
	FocusIn:       "focusin",
	FocusOut:      "focusout",
	TouchStart:    "touchstart",
	TouchEnd:      "touchend",
	Scroll:        "scroll",
	Resize:        "resize",
	TransitionEnd: "transitionend",
}

// String returns the JavaScript name of the event type.
func (t Types) String() string {
	if t < 0 || t >= TypesN {
		return fmt.Sprintf("Types(%d)", int32(t))
	}
	return typeNames[t]
}

// SetString sets the type from its JavaScript name.
func (t *Types) SetString(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	i := slices.Index(typeNames[:], s)
	if i < 0 {
		return fmt.Errorf("dom.Types: unknown event type %q", s)
	}
	*t = Types(i)
	return nil
}

// TypesFromString returns the event type with the given JavaScript name.
func TypesFromString(s string) (Types, error) {
	var t Types
	err := t.SetString(s)
	return t, err
}

// Bubbles returns whether events of this type propagate up to
// ancestors after reaching their target.
func (t Types) Bubbles() bool {
	switch t {
	case MouseEnter, MouseLeave, Focus, Blur, Scroll, Resize:
		return false
	}
	return true
}

// IsTouch returns whether this is a touch event type.
func (t Types) IsTouch() bool {
	return t == TouchStart || t == TouchEnd
}

// IsMouse returns whether this is a mouse event type.
func (t Types) IsMouse() bool {
	return t >= MouseEnter && t <= Click
}

// Event is a document event. Events are created with [NewEvent]
// or [NewMouseEvent] and sent with a Dispatch method.
type Event struct {

	// Type is the type of the event.
	Type Types

	// Target is the element the event was dispatched on,
	// or nil for events dispatched on the document or window.
	Target *Element

	// RelatedTarget is the secondary target: the element gaining focus
	// for Blur, the element losing it for Focus, and so on.
	RelatedTarget *Element

	// ClientX and ClientY are the viewport coordinates of the pointer.
	ClientX, ClientY float32

	// Time is when the event happened.
	Time time.Time

	stopped bool
}

// NewEvent returns a new event of the given type.
func NewEvent(typ Types) *Event {
	return &Event{Type: typ}
}

// NewMouseEvent returns a new event of the given type at the
// given viewport coordinates.
func NewMouseEvent(typ Types, x, y float32) *Event {
	return &Event{Type: typ, ClientX: x, ClientY: y}
}

// StopPropagation prevents the event from reaching further targets.
// Remaining listeners on the current target are still called.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// IsStopped returns whether [Event.StopPropagation] has been called.
func (e *Event) IsStopped() bool {
	return e.stopped
}

func (e *Event) String() string {
	return fmt.Sprintf("%s at (%g, %g) on %v", e.Type, e.ClientX, e.ClientY, e.Target)
}

// ListenerOptions are the options of an event listener.
type ListenerOptions struct {

	// Capture makes the listener run during the capture phase,
	// before listeners on the target and its ancestors.
	Capture bool

	// Passive indicates that the listener never cancels the event.
	Passive bool

	// Once removes the listener after its first call.
	Once bool
}

// Listener is a registered event listener. It is returned by
// AddEventListener methods and passed to RemoveEventListener.
type Listener struct {
	Type    Types
	Func    func(e *Event)
	Options ListenerOptions

	removed bool
}

// Listeners is a list of event listeners for one event target,
// called in the order they were added.
type Listeners []*Listener

// Add adds a listener and returns it.
func (ls *Listeners) Add(typ Types, fun func(e *Event), opts ListenerOptions) *Listener {
	l := &Listener{Type: typ, Func: fun, Options: opts}
	*ls = append(*ls, l)
	return l
}

// Remove removes the given listener. It does nothing if the
// listener is nil or not in the list.
func (ls *Listeners) Remove(l *Listener) {
	if l == nil {
		return
	}
	i := slices.Index(*ls, l)
	if i < 0 {
		return
	}
	l.removed = true
	*ls = slices.Delete(*ls, i, i+1)
}

// Has returns whether any listener of the given type is registered.
func (ls Listeners) Has(typ Types) bool {
	return slices.ContainsFunc(ls, func(l *Listener) bool { return l.Type == typ })
}

// call calls the listeners matching the event type and phase.
// Listeners added during the call are not called.
func (ls *Listeners) call(e *Event, capture, target bool) {
	for _, l := range slices.Clone(*ls) {
		if l.removed || l.Type != e.Type {
			continue
		}
		if !target && l.Options.Capture != capture {
			continue
		}
		if l.Options.Once {
			ls.Remove(l)
		}
		l.Func(e)
	}
}
