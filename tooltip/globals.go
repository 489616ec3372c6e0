// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tooltip

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"cogentcore.org/popover/dom"
	"golang.org/x/exp/maps"
)

// touchMouseMoveWindow is how close two mouse moves must be for
// the input to switch back from touch to mouse.
const touchMouseMoveWindow = 20 * time.Millisecond

// Globals is the process wide state shared by all instances: the
// listeners bound once per document, the touch input mode, and the
// registry of instances by reference and popper element.
// Use [TheGlobals].
type Globals struct {
	mu sync.Mutex

	// docs are the bound documents.
	docs map[*dom.Document]*docListeners

	// references are the instances of each reference element.
	references map[*dom.Element][]*Instance

	// poppers are the instances of each popper element.
	poppers map[*dom.Element]*Instance

	isUsingTouch  bool
	lastMouseMove time.Time
	lastID        int
}

// docListeners are the global listeners of one document.
type docListeners struct {
	mouseDown  *dom.Listener
	touchStart *dom.Listener
	blur       *dom.Listener
	mouseMove  *dom.Listener
	disconnect func()
}

// TheGlobals is the global state used by all instances.
var TheGlobals = newGlobals()

func newGlobals() *Globals {
	return &Globals{
		docs:       map[*dom.Document]*docListeners{},
		references: map[*dom.Element][]*Instance{},
		poppers:    map[*dom.Element]*Instance{},
	}
}

// IsUsingTouch returns whether the user is currently using touch input.
func (g *Globals) IsUsingTouch() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isUsingTouch
}

// Bind adds the global listeners to the given document. It does
// nothing if the document is already bound.
func (g *Globals) Bind(doc *dom.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.docs[doc]; ok {
		return
	}
	dl := &docListeners{}
	g.docs[doc] = dl
	capture := dom.ListenerOptions{Capture: true}
	dl.mouseDown = doc.AddEventListener(dom.MouseDown, func(e *dom.Event) { g.onDocumentMouseDown(doc, e) }, capture)
	dl.touchStart = doc.AddEventListener(dom.TouchStart, func(e *dom.Event) { g.onDocumentTouch(doc) }, dom.ListenerOptions{Capture: true, Passive: true})
	dl.blur = doc.Window().AddEventListener(dom.Blur, func(e *dom.Event) { g.onWindowBlur(doc) })
	dl.disconnect = doc.OnDisconnect(g.onDisconnected)
	slog.Debug("tooltip: bound document listeners")
}

// Unbind removes the global listeners from the given document.
func (g *Globals) Unbind(doc *dom.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unbind(doc)
}

func (g *Globals) unbind(doc *dom.Document) {
	dl, ok := g.docs[doc]
	if !ok {
		return
	}
	doc.RemoveEventListener(dl.mouseDown)
	doc.RemoveEventListener(dl.touchStart)
	doc.RemoveEventListener(dl.mouseMove)
	doc.Window().RemoveEventListener(dl.blur)
	dl.disconnect()
	delete(g.docs, doc)
}

// Shutdown unbinds every document and resets the global state.
// Instances created before are no longer found by [HideAll].
func (g *Globals) Shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, doc := range maps.Keys(g.docs) {
		g.unbind(doc)
	}
	clear(g.references)
	clear(g.poppers)
	g.isUsingTouch = false
	g.lastMouseMove = time.Time{}
}

// nextID returns the id of a new instance.
func (g *Globals) nextID() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.lastID
	g.lastID++
	return id
}

// register adds an instance to the registry.
func (g *Globals) register(inst *Instance) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.references[inst.Reference] = append(g.references[inst.Reference], inst)
	g.poppers[inst.Popper] = inst
}

// unregister removes an instance from the registry.
func (g *Globals) unregister(inst *Instance) {
	g.mu.Lock()
	defer g.mu.Unlock()
	insts := slices.DeleteFunc(g.references[inst.Reference], func(o *Instance) bool { return o == inst })
	if len(insts) == 0 {
		delete(g.references, inst.Reference)
	} else {
		g.references[inst.Reference] = insts
	}
	delete(g.poppers, inst.Popper)
}

// InstancesOf returns the instances of the given reference element.
func (g *Globals) InstancesOf(reference *dom.Element) []*Instance {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.references[reference])
}

// InstanceOf returns the first instance of the given reference element, or nil.
func (g *Globals) InstanceOf(reference *dom.Element) *Instance {
	g.mu.Lock()
	defer g.mu.Unlock()
	if insts := g.references[reference]; len(insts) > 0 {
		return insts[0]
	}
	return nil
}

// PopperInstance returns the instance of the given popper element, or nil.
func (g *Globals) PopperInstance(popper *dom.Element) *Instance {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.poppers[popper]
}

// onDocumentMouseDown hides the instances that hide on clicks,
// except for clicks inside an interactive popper and the instance
// of a clicked reference with a click trigger.
func (g *Globals) onDocumentMouseDown(doc *dom.Document, e *dom.Event) {
	if e.Target == nil {
		HideAll(doc, HideAllOptions{})
		return
	}
	if pe, _ := e.Target.Closest("." + PopperClass); pe != nil {
		if inst := g.PopperInstance(pe); inst != nil && inst.Props.Interactive {
			return
		}
	}
	for el := e.Target; el != nil; el = el.ParentNode() {
		inst := g.InstanceOf(el)
		if inst == nil {
			continue
		}
		isClickTrigger := inst.Props.hasTrigger("click")
		if g.IsUsingTouch() || isClickTrigger {
			HideAll(doc, HideAllOptions{Exclude: inst, CheckHideOnClick: true})
			return
		}
		if inst.Props.HideOnClick != HideOnClickTrue {
			return
		}
		inst.ClearDelayTimeouts()
		break
	}
	HideAll(doc, HideAllOptions{CheckHideOnClick: true})
}

// onDocumentTouch switches to touch input, until two mouse moves
// happen in quick succession.
func (g *Globals) onDocumentTouch(doc *dom.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.isUsingTouch {
		return
	}
	g.isUsingTouch = true
	g.lastMouseMove = time.Time{}
	if dl := g.docs[doc]; dl != nil && dl.mouseMove == nil {
		dl.mouseMove = doc.AddEventListener(dom.MouseMove, func(e *dom.Event) { g.onDocumentMouseMove(doc, e) })
	}
}

func (g *Globals) onDocumentMouseMove(doc *dom.Document, e *dom.Event) {
	now := e.Time
	if now.IsZero() {
		if s := doc.Scheduler(); s != nil {
			now = s.Now()
		} else {
			now = time.Now()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.lastMouseMove.IsZero() && now.Sub(g.lastMouseMove) < touchMouseMoveWindow {
		g.isUsingTouch = false
		if dl := g.docs[doc]; dl != nil {
			doc.RemoveEventListener(dl.mouseMove)
			dl.mouseMove = nil
		}
	}
	g.lastMouseMove = now
}

// onDisconnected destroys the instances whose reference left the
// document with the given subtree. Unmounting a popper does not
// destroy the instances of references inside of it.
func (g *Globals) onDisconnected(root *dom.Element) {
	if g.PopperInstance(root) != nil {
		return
	}
	g.mu.Lock()
	var insts []*Instance
	for ref, refInsts := range g.references {
		if !ref.IsConnected() && root.ContainsComposed(ref) {
			insts = append(insts, refInsts...)
		}
	}
	g.mu.Unlock()
	for _, inst := range insts {
		slog.Debug("tooltip: reference removed", "instance", inst.ID)
		inst.Destroy()
	}
}

// onWindowBlur blurs the focused reference when the window loses
// focus, so that its instance hides and shows again on refocus.
func (g *Globals) onWindowBlur(doc *dom.Document) {
	active := doc.ActiveElement()
	if active != nil && g.InstanceOf(active) != nil {
		active.Blur()
	}
}
