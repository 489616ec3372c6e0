// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tooltip

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"cogentcore.org/popover/base/errors"
	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/geometry"
	"cogentcore.org/popover/popper"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// Props are the properties of an [Instance]. The yaml names are used
// in props files and in data-tippy-* attributes of reference elements.
type Props struct {

	// A11y makes the reference focusable with a tabindex of 0 when
	// it is not focusable already.
	A11y bool `yaml:"a11y"`

	// AllowHTML parses Content as HTML instead of setting it as text.
	AllowHTML bool `yaml:"allowHTML"`

	// AnimateFill adds a backdrop that fills the tooltip as it shows.
	// It is turned off when Arrow is set.
	AnimateFill bool `yaml:"animateFill"`

	// Animation is the name of the show and hide animation, set as
	// the data-animation attribute of the tooltip.
	Animation string `yaml:"animation"`

	// AppendTo is the element the popper is mounted in.
	AppendTo AppendTo `yaml:"appendTo"`

	// Aria is the aria attribute, without its aria- prefix, that links
	// the reference to the popper while it is shown. It is not set
	// when empty.
	Aria string `yaml:"aria"`

	// Arrow adds an arrow pointing at the reference.
	Arrow bool `yaml:"arrow"`

	// ArrowType is the shape of the arrow: sharp or round.
	ArrowType string `yaml:"arrowType"`

	// Boundary is the boundary the popper is kept inside of.
	Boundary geometry.Boundary `yaml:"boundary"`

	// Content is the content of the tooltip.
	Content string `yaml:"content"`

	// ContentElement, if set, is shown instead of Content.
	ContentElement *dom.Element `yaml:"-"`

	// ContentFunc, if set, returns the content for a reference
	// when an instance is created or its props are set.
	ContentFunc func(reference *dom.Element) string `yaml:"-"`

	// Delay is the delay before showing and hiding on a trigger.
	Delay Pair `yaml:"delay"`

	// Distance is the distance between the popper and the reference in pixels.
	Distance float32 `yaml:"distance"`

	// Duration is the duration of the show and hide transitions.
	Duration Pair `yaml:"duration"`

	// Flip flips the popper to the other side when it overflows.
	Flip bool `yaml:"flip"`

	// FlipBehavior is the order of placements tried when flipping.
	FlipBehavior popper.FlipBehavior `yaml:"flipBehavior"`

	// FlipOnUpdate keeps flipping on scroll and resize updates
	// once the popper is shown, instead of keeping the first placement.
	FlipOnUpdate bool `yaml:"flipOnUpdate"`

	// FollowCursor positions the popper at the mouse cursor.
	FollowCursor FollowCursor `yaml:"followCursor"`

	// HideOnClick is whether clicking outside of the popper hides it.
	HideOnClick HideOnClick `yaml:"hideOnClick"`

	// IgnoreAttributes ignores the data-tippy-* attributes of the reference.
	IgnoreAttributes bool `yaml:"ignoreAttributes"`

	// Inertia sets the data-inertia attribute of the tooltip.
	Inertia bool `yaml:"inertia"`

	// Interactive lets the pointer move onto the popper and
	// interact with it without hiding it.
	Interactive bool `yaml:"interactive"`

	// InteractiveBorder is the size in pixels of the area around an
	// interactive popper that the pointer can move in without hiding it.
	InteractiveBorder float32 `yaml:"interactiveBorder"`

	// InteractiveDebounce debounces the pointer tracking of interactive
	// poppers. In files it is written as a duration such as 20ms.
	InteractiveDebounce time.Duration `yaml:"interactiveDebounce"`

	// Lazy creates the positioning session on the first show
	// instead of when the instance is created.
	Lazy bool `yaml:"lazy"`

	// MaxWidth is the max-width style of the tooltip.
	MaxWidth string `yaml:"maxWidth"`

	// Multiple allows more than one instance per reference.
	Multiple bool `yaml:"multiple"`

	// Offset is the popper offset expression, such as "10, 5".
	Offset string `yaml:"offset"`

	// Placement is the requested placement of the popper.
	Placement popper.Placement `yaml:"placement"`

	// PopperOptions are extra options of the positioning session.
	// Their modifiers override the ones derived from these props.
	PopperOptions popper.Options `yaml:"-"`

	// Role is the role attribute of the popper.
	Role string `yaml:"role"`

	// ShowOnInit shows the instance as soon as it is created.
	ShowOnInit bool `yaml:"showOnInit"`

	// Size is the data-size attribute of the tooltip.
	Size string `yaml:"size"`

	// Sticky updates the position on every animation frame while mounted.
	Sticky bool `yaml:"sticky"`

	// Target is the selector of the descendants that a delegate
	// instance creates child instances for.
	Target string `yaml:"target"`

	// Theme is the space separated list of themes of the tooltip.
	Theme string `yaml:"theme"`

	// Touch allows showing on touch input.
	Touch bool `yaml:"touch"`

	// TouchHold shows on touch hold instead of on tap.
	TouchHold bool `yaml:"touchHold"`

	// Trigger is the space separated list of events that show the
	// instance, or manual.
	Trigger string `yaml:"trigger"`

	// TriggerTarget, if set, receives the trigger listeners instead
	// of the reference.
	TriggerTarget *dom.Element `yaml:"-"`

	// UpdateDuration is the transition duration of the popper
	// when its position changes, written as a duration in files.
	UpdateDuration time.Duration `yaml:"updateDuration"`

	// ZIndex is the z-index of the popper.
	ZIndex int `yaml:"zIndex"`

	// OnHidden is called after the popper is hidden and unmounted.
	OnHidden func(inst *Instance) `yaml:"-"`

	// OnHide is called before hiding. Returning false cancels the hide.
	OnHide func(inst *Instance) bool `yaml:"-"`

	// OnMount is called after the popper is mounted.
	OnMount func(inst *Instance) `yaml:"-"`

	// OnShow is called before showing. Returning false cancels the show.
	OnShow func(inst *Instance) bool `yaml:"-"`

	// OnShown is called after the show transition.
	OnShown func(inst *Instance) `yaml:"-"`

	// OnTrigger is called when a trigger event schedules a show.
	OnTrigger func(inst *Instance, e *dom.Event) `yaml:"-"`

	// OnUntrigger is called when a trigger event schedules a hide.
	OnUntrigger func(inst *Instance, e *dom.Event) `yaml:"-"`

	// Wait, if set, is called instead of showing after a trigger,
	// and must call [Instance.Show] itself.
	Wait func(inst *Instance, e *dom.Event) `yaml:"-"`
}

// DefaultProps returns the default props.
func DefaultProps() Props {
	return Props{
		A11y:              true,
		AllowHTML:         true,
		AnimateFill:       true,
		Animation:         "shift-away",
		Aria:              "describedby",
		ArrowType:         "sharp",
		Delay:             Pair{0, 0},
		Distance:          10,
		Duration:          Pair{325 * time.Millisecond, 275 * time.Millisecond},
		Flip:              true,
		HideOnClick:       HideOnClickTrue,
		InteractiveBorder: 2,
		Lazy:              true,
		MaxWidth:          "350px",
		Offset:            "0",
		Placement:         popper.Top,
		Role:              "tooltip",
		Size:              "regular",
		Theme:             "dark",
		Touch:             true,
		Trigger:           "mouseenter focus",
		ZIndex:            9999,
	}
}

// Clone returns a shallow copy of the props.
func (p *Props) Clone() Props {
	var c Props
	if err := copier.Copy(&c, p); err != nil {
		return *p
	}
	return c
}

// Validate returns an error for props that cannot be used.
func (p *Props) Validate() error {
	var errs []error
	if err := p.Placement.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch p.ArrowType {
	case "sharp", "round":
	default:
		errs = append(errs, fmt.Errorf("invalid arrowType %q", p.ArrowType))
	}
	if p.Delay[0] < 0 || p.Delay[1] < 0 || p.Duration[0] < 0 || p.Duration[1] < 0 {
		errs = append(errs, errors.New("delay and duration must not be negative"))
	}
	if strings.TrimSpace(p.Trigger) == "" {
		errs = append(errs, errors.New("trigger must not be empty"))
	}
	for _, t := range p.triggers() {
		if _, err := dom.TypesFromString(t); err != nil {
			errs = append(errs, fmt.Errorf("invalid trigger %q", t))
		}
	}
	if _, err := popper.ParseOffset(p.Offset); err != nil && strings.TrimSpace(p.Offset) != "" {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// triggers returns the trigger event names, without manual.
func (p *Props) triggers() []string {
	return slices.DeleteFunc(strings.Fields(p.Trigger), func(s string) bool { return s == "manual" })
}

// hasTrigger returns whether the given event name is one of the triggers.
func (p *Props) hasTrigger(name string) bool {
	return slices.Contains(strings.Fields(p.Trigger), name)
}

// PropNames returns the yaml names of the props that can be set
// from files and attributes.
func PropNames() []string {
	var names []string
	t := reflect.TypeFor[Props]()
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}

// DataAttributePrefix is the prefix of the reference attributes that set props.
const DataAttributePrefix = "data-tippy-"

// applyAttributes sets the props given by the data-tippy-* attributes
// of the reference, such as data-tippy-placement="bottom". Values are
// decoded as YAML, so JSON arrays and numbers work, and content is
// always taken as text. Invalid values are logged and ignored.
func (p *Props) applyAttributes(reference *dom.Element) error {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range PropNames() {
		v, ok := reference.Attr(DataAttributePrefix + strings.ToLower(name))
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
		if name != "content" {
			var doc yaml.Node
			if err := yaml.Unmarshal([]byte(v), &doc); err == nil && len(doc.Content) == 1 {
				value = doc.Content[0]
			}
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, value)
	}
	if len(m.Content) == 0 {
		return nil
	}
	if err := m.Decode(p); err != nil {
		return fmt.Errorf("invalid %s attribute on %v: %w", strings.TrimSuffix(DataAttributePrefix, "-"), reference, err)
	}
	return nil
}

// evaluate returns the props for the given reference: the content of
// ContentFunc, the data-tippy-* attributes unless IgnoreAttributes is
// set, and no backdrop when there is an arrow.
func (p *Props) evaluate(reference *dom.Element) Props {
	out := p.Clone()
	if out.ContentFunc != nil && reference != nil {
		out.Content = out.ContentFunc(reference)
	}
	if !out.IgnoreAttributes && reference != nil {
		if err := out.applyAttributes(reference); err != nil {
			errors.Warn(err)
		}
	}
	if out.Arrow {
		out.AnimateFill = false
	}
	return out
}

// Pair is a show and hide pair of durations, written either as one
// value for both or as a [show, hide] list. Values are numbers of
// milliseconds or durations such as 1.5s.
type Pair [2]time.Duration

// Uniform returns a pair with both durations set to d.
func Uniform(d time.Duration) Pair {
	return Pair{d, d}
}

// Show returns the show duration.
func (p Pair) Show() time.Duration { return p[0] }

// Hide returns the hide duration.
func (p Pair) Hide() time.Duration { return p[1] }

func (p *Pair) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		if len(value.Content) != 2 {
			return fmt.Errorf("a pair needs 2 values, not %d", len(value.Content))
		}
		for i, n := range value.Content {
			d, err := parseMillis(n)
			if err != nil {
				return err
			}
			p[i] = d
		}
		return nil
	}
	d, err := parseMillis(value)
	if err != nil {
		return err
	}
	*p = Uniform(d)
	return nil
}

// parseMillis parses a number of milliseconds or a duration string.
func parseMillis(n *yaml.Node) (time.Duration, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("invalid duration at line %d", n.Line)
	}
	var v float64
	if err := n.Decode(&v); err == nil {
		return time.Duration(v * float64(time.Millisecond)), nil
	}
	d, err := time.ParseDuration(n.Value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", n.Value)
	}
	return d, nil
}

func (p Pair) MarshalYAML() (any, error) {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	if p[0] == p[1] {
		return ms(p[0]), nil
	}
	return []float64{ms(p[0]), ms(p[1])}, nil
}

// FollowCursor is how the popper follows the mouse cursor.
type FollowCursor int32

const (
	// FollowNone does not follow the cursor.
	FollowNone FollowCursor = iota

	// FollowBoth follows the cursor on both axes.
	FollowBoth

	// FollowHorizontal follows the cursor on the horizontal axis only.
	FollowHorizontal

	// FollowVertical follows the cursor on the vertical axis only.
	FollowVertical

	// FollowInitial places the popper at the cursor when it shows
	// and then stops following.
	FollowInitial
)

var followCursorNames = [...]string{"false", "true", "horizontal", "vertical", "initial"}

func (f FollowCursor) String() string {
	if f < 0 || int(f) >= len(followCursorNames) {
		return fmt.Sprintf("FollowCursor(%d)", int32(f))
	}
	return followCursorNames[f]
}

func (f *FollowCursor) UnmarshalYAML(value *yaml.Node) error {
	i := slices.Index(followCursorNames[:], strings.ToLower(value.Value))
	if value.Kind != yaml.ScalarNode || i < 0 {
		return fmt.Errorf("invalid followCursor %q", value.Value)
	}
	*f = FollowCursor(i)
	return nil
}

func (f FollowCursor) MarshalYAML() (any, error) {
	switch f {
	case FollowNone:
		return false, nil
	case FollowBoth:
		return true, nil
	}
	return f.String(), nil
}

// HideOnClick is whether clicks hide the popper.
type HideOnClick int32

const (
	// HideOnClickFalse never hides on clicks.
	HideOnClickFalse HideOnClick = iota

	// HideOnClickTrue hides on clicks outside of the popper.
	HideOnClickTrue

	// HideOnClickToggle hides only on clicks on the reference of
	// an instance with a click trigger.
	HideOnClickToggle
)

var hideOnClickNames = [...]string{"false", "true", "toggle"}

func (h HideOnClick) String() string {
	if h < 0 || int(h) >= len(hideOnClickNames) {
		return fmt.Sprintf("HideOnClick(%d)", int32(h))
	}
	return hideOnClickNames[h]
}

func (h *HideOnClick) UnmarshalYAML(value *yaml.Node) error {
	i := slices.Index(hideOnClickNames[:], strings.ToLower(value.Value))
	if value.Kind != yaml.ScalarNode || i < 0 {
		return fmt.Errorf("invalid hideOnClick %q", value.Value)
	}
	*h = HideOnClick(i)
	return nil
}

func (h HideOnClick) MarshalYAML() (any, error) {
	if h == HideOnClickToggle {
		return h.String(), nil
	}
	return h == HideOnClickTrue, nil
}

// AppendTo is the element the popper is mounted in. The zero
// value is the body of the document.
type AppendTo struct {

	// Parent mounts the popper in the parent of the reference.
	Parent bool

	// Element, if set, is the element to mount in.
	Element *dom.Element

	// Func, if set, returns the element to mount in for a reference.
	Func func(reference *dom.Element) *dom.Element
}

// element returns the element to mount the popper of the given reference in.
func (a AppendTo) element(reference *dom.Element) *dom.Element {
	switch {
	case a.Func != nil:
		if e := a.Func(reference); e != nil {
			return e
		}
	case a.Element != nil:
		return a.Element
	case a.Parent:
		if p := reference.Parent(); p != nil {
			return p
		}
	}
	return reference.Document().Body()
}

func (a AppendTo) String() string {
	switch {
	case a.Func != nil:
		return "func"
	case a.Element != nil:
		return a.Element.String()
	case a.Parent:
		return "parent"
	}
	return "body"
}

func (a *AppendTo) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "body":
		*a = AppendTo{}
	case "parent":
		*a = AppendTo{Parent: true}
	default:
		return fmt.Errorf("invalid appendTo %q: only body and parent can be set by name", string(text))
	}
	return nil
}

func (a AppendTo) MarshalText() ([]byte, error) {
	if a.Parent {
		return []byte("parent"), nil
	}
	return []byte("body"), nil
}

// changedProps returns the Go names of the fields that differ between
// prev and next. Functions and pointers are compared by identity.
func changedProps(prev, next *Props) []string {
	var names []string
	pv, nv := reflect.ValueOf(prev).Elem(), reflect.ValueOf(next).Elem()
	t := pv.Type()
	for i := range t.NumField() {
		if !valuesEqual(pv.Field(i), nv.Field(i)) {
			names = append(names, t.Field(i).Name)
		}
	}
	return names
}

// copyProps copies the named fields from src to dst.
func copyProps(dst, src *Props, names []string) {
	dv, sv := reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()
	for _, n := range names {
		dv.FieldByName(n).Set(sv.FieldByName(n))
	}
}

func valuesEqual(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return a.Elem().Type() == b.Elem().Type() && valuesEqual(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := range a.NumField() {
			if !valuesEqual(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := range a.Len() {
			if !valuesEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	}
	return a.Equal(b)
}
