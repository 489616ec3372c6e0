// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popper

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"cogentcore.org/popover/geometry"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Units are the units of offset terms.
type Units int32

const (
	// UnitPx is pixels, used for plain numbers.
	UnitPx Units = iota

	// UnitReference is a percentage of the reference length,
	// written as % or %r.
	UnitReference

	// UnitPopper is a percentage of the popper length, written as %p.
	UnitPopper

	// UnitVW is a percentage of the viewport width.
	UnitVW

	// UnitVH is a percentage of the viewport height.
	UnitVH
)

// Term is one signed value of an offset expression.
type Term struct {
	Value float32
	Unit  Units
}

// OffsetExpr is a parsed offset of the form "cross, main", where each
// part is a sum of terms such as "10 + 50% - 5px". The cross part moves
// the popper along the edge of the reference, and the main part moves
// it away from the reference.
type OffsetExpr struct {
	Cross, Main []Term

	// Deprecated is whether the parts were separated by whitespace
	// instead of a comma.
	Deprecated bool
}

// ParseOffset parses an offset expression.
func ParseOffset(s string) (OffsetExpr, error) {
	var ex OffsetExpr
	l := css.NewLexer(parse.NewInputString(s))
	part := 0
	sign := float32(1)
	hasOp := false  // an operator is waiting for its operand
	hasVal := false // the current part has a value
	wsBefore := false
	add := func(t Term) {
		if part == 0 {
			ex.Cross = append(ex.Cross, t)
		} else {
			ex.Main = append(ex.Main, t)
		}
		hasVal, hasOp, sign = true, false, 1
	}
	nextPart := func() error {
		if part == 1 {
			return fmt.Errorf("invalid offset %q: more than two parts", s)
		}
		part = 1
		hasVal, hasOp, sign = false, false, 1
		return nil
	}
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		text := string(data)
		ws := wsBefore
		wsBefore = false
		switch tt {
		case css.WhitespaceToken:
			wsBefore = true
		case css.CommaToken:
			if hasOp {
				return ex, fmt.Errorf("invalid offset %q: missing operand", s)
			}
			if err := nextPart(); err != nil {
				return ex, err
			}
		case css.DelimToken:
			if text != "+" && text != "-" {
				return ex, fmt.Errorf("invalid offset %q: unexpected %q", s, text)
			}
			if hasOp {
				return ex, fmt.Errorf("invalid offset %q: unexpected %q", s, text)
			}
			hasOp = true
			if text == "-" {
				sign = -1
			}
		case css.NumberToken, css.PercentageToken, css.DimensionToken:
			t, err := parseTerm(tt, text)
			if err != nil {
				return ex, fmt.Errorf("invalid offset %q: %w", s, err)
			}
			signed := text[0] == '+' || text[0] == '-'
			if hasVal && !hasOp && !signed {
				if !ws {
					return ex, fmt.Errorf("invalid offset %q: unexpected %q", s, text)
				}
				// whitespace separated parts
				ex.Deprecated = true
				if err := nextPart(); err != nil {
					return ex, err
				}
			}
			t.Value *= sign
			add(t)
		case css.IdentToken:
			// the p or r of %p and %r follows a percentage directly
			last := lastTerm(&ex, part)
			if ws || last == nil || last.Unit != UnitReference || (text != "p" && text != "r") {
				return ex, fmt.Errorf("invalid offset %q: unexpected %q", s, text)
			}
			if text == "p" {
				last.Unit = UnitPopper
			}
		default:
			return ex, fmt.Errorf("invalid offset %q: unexpected %q", s, text)
		}
	}
	if hasOp {
		return ex, fmt.Errorf("invalid offset %q: missing operand", s)
	}
	return ex, nil
}

// String returns the expression in its comma separated form.
func (ex OffsetExpr) String() string {
	return formatTerms(ex.Cross) + ", " + formatTerms(ex.Main)
}

var unitSuffixes = [...]string{UnitPx: "", UnitReference: "%", UnitPopper: "%p", UnitVW: "vw", UnitVH: "vh"}

func formatTerms(terms []Term) string {
	if len(terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range terms {
		v := t.Value
		if i > 0 {
			if v < 0 {
				sb.WriteString(" - ")
				v = -v
			} else {
				sb.WriteString(" + ")
			}
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
		sb.WriteString(unitSuffixes[t.Unit])
	}
	return sb.String()
}

func lastTerm(ex *OffsetExpr, part int) *Term {
	terms := ex.Cross
	if part == 1 {
		terms = ex.Main
	}
	if len(terms) == 0 {
		return nil
	}
	return &terms[len(terms)-1]
}

func parseTerm(tt css.TokenType, text string) (Term, error) {
	num := text
	unit := UnitPx
	switch tt {
	case css.PercentageToken:
		num = strings.TrimSuffix(text, "%")
		unit = UnitReference
	case css.DimensionToken:
		i := strings.IndexFunc(text, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.' && r != '+' && r != '-' && r != 'e' && r != 'E'
		})
		// an exponent is part of the number only if followed by a digit
		for i > 0 && (text[i-1] == 'e' || text[i-1] == 'E') {
			i--
		}
		num = text[:i]
		switch strings.ToLower(text[i:]) {
		case "px":
		case "vw":
			unit = UnitVW
		case "vh":
			unit = UnitVH
		default:
			return Term{}, fmt.Errorf("unknown unit %q", text[i:])
		}
	}
	v, err := strconv.ParseFloat(num, 32)
	if err != nil {
		return Term{}, err
	}
	return Term{Value: float32(v), Unit: unit}, nil
}

// Resolve returns the cross and main axis offsets in pixels for a
// popper placed on the given side. Percentages are of the width of
// the reference or popper along the cross axis and of their height
// along the main axis for the top and bottom sides, and the reverse
// for the left and right sides.
func (ex OffsetExpr) Resolve(popper, reference geometry.Rect, side geometry.Side, vw, vh float32) (cross, main float32) {
	useHeight := !side.IsVertical()
	sum := func(terms []Term, height bool) float32 {
		var total float32
		for _, t := range terms {
			switch t.Unit {
			case UnitPx:
				total += t.Value
			case UnitReference:
				total += measure(reference, height) / 100 * t.Value
			case UnitPopper:
				total += measure(popper, height) / 100 * t.Value
			case UnitVW:
				total += vw / 100 * t.Value
			case UnitVH:
				total += vh / 100 * t.Value
			}
		}
		return total
	}
	return sum(ex.Cross, useHeight), sum(ex.Main, !useHeight)
}

func measure(r geometry.Rect, height bool) float32 {
	if height {
		return r.Height
	}
	return r.Width
}

// offset moves the popper by its offset expression.
func offset(d *Data, m *Modifier) *Data {
	if strings.TrimSpace(m.Offset) == "" {
		return d
	}
	ex, err := ParseOffset(m.Offset)
	if err != nil {
		slog.Warn("popper: ignoring offset", "err", err)
		return d
	}
	if ex.Deprecated {
		slog.Warn("popper: offsets separated by whitespace are deprecated, use a comma instead", "offset", m.Offset)
	}
	side := d.Placement.Side()
	vw, vh := viewportSize(d.Instance)
	cross, main := ex.Resolve(d.Offsets.Popper, d.Offsets.Reference, side, vw, vh)
	p := &d.Offsets.Popper
	switch side {
	case geometry.Left:
		p.Top += cross
		p.Left -= main
	case geometry.Right:
		p.Top += cross
		p.Left += main
	case geometry.Top:
		p.Left += cross
		p.Top -= main
	case geometry.Bottom:
		p.Left += cross
		p.Top += main
	}
	return d
}

// viewportSize returns the size of the visible viewport.
func viewportSize(p *Popper) (w, h float32) {
	html := p.doc.DocumentElement()
	vw, vh := p.doc.Viewport()
	return max(html.ClientWidth(), vw), max(html.ClientHeight(), vh)
}
