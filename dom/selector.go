// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"fmt"
	"slices"

	selcss "github.com/ericchiang/css"
	"golang.org/x/net/html"
)

func parseSelector(selector string) (*selcss.Selector, error) {
	sel, err := selcss.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel, nil
}

// querySelectorAll returns the elements below root matching the
// selector, without duplicates, in document order.
func querySelectorAll(d *Document, root *html.Node, selector string) ([]*Element, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	matched := map[*html.Node]bool{}
	for _, n := range sel.Select(root) {
		matched[n] = true
	}
	var res []*Element
	walk(root, func(n *html.Node) bool {
		if n != root && matched[n] {
			if e := d.element(n); e != nil {
				res = append(res, e)
			}
		}
		return true
	})
	return res, nil
}

// querySelector returns the first element below root matching the selector.
func querySelector(d *Document, root *html.Node, selector string) (*Element, error) {
	all, err := querySelectorAll(d, root, selector)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

// QuerySelector returns the first descendant of the element matching
// the given selector, or nil.
func (e *Element) QuerySelector(selector string) (*Element, error) {
	return querySelector(e.doc, e.node, selector)
}

// QuerySelectorAll returns all of the descendants of the element
// matching the given selector, in document order.
func (e *Element) QuerySelectorAll(selector string) ([]*Element, error) {
	return querySelectorAll(e.doc, e.node, selector)
}

// Matches returns whether the element matches the given selector.
func (e *Element) Matches(selector string) (bool, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return false, err
	}
	return slices.Contains(sel.Select(e.rootNode()), e.node), nil
}

// Closest returns the nearest inclusive ancestor of the element within
// its tree that matches the given selector, or nil.
func (e *Element) Closest(selector string) (*Element, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	matches := sel.Select(e.rootNode())
	for cur := e; cur != nil; cur = cur.Parent() {
		if slices.Contains(matches, cur.node) {
			return cur, nil
		}
	}
	return nil, nil
}
