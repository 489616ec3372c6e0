// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"cogentcore.org/popover/base/errors"
	"cogentcore.org/popover/config"
	"cogentcore.org/popover/dom"
	"cogentcore.org/popover/loop"
	"cogentcore.org/popover/popper"
	"cogentcore.org/popover/tooltip"
	"github.com/spf13/cobra"
)

var placeCmd = &cobra.Command{
	Use:   "place [flags] page.html",
	Short: "Show tooltips in a page and print their placement",
	Long: `Place loads an HTML page into a headless document, shows a tooltip
for each element matching the reference selector, and prints the
placement, offsets and styles of each popper.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	f := placeCmd.Flags()
	f.String("reference", "[data-tippy-content]", "selector of the reference elements")
	f.String("props", "", "props file (.toml, .yaml or .yml)")
	f.String("content", "", "content of the tooltips")
	f.String("placement", "", "placement, overriding the props")
	f.Float32("width", 1024, "viewport width")
	f.Float32("height", 768, "viewport height")
	f.String("scroll", "", "document scroll position as x,y")
	errors.Must(placeCmd.MarkFlagFilename("props", "toml", "yaml", "yml"))
}

// placeOptions are the options of the place command.
type placeOptions struct {
	Page      string
	Reference string
	Props     string
	Content   string
	Placement string
	Width     float32
	Height    float32
	Scroll    string
}

func runPlace(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	o := placeOptions{Page: args[0]}
	o.Reference = errors.Must1(f.GetString("reference"))
	o.Props = errors.Must1(f.GetString("props"))
	o.Content = errors.Must1(f.GetString("content"))
	o.Placement = errors.Must1(f.GetString("placement"))
	o.Width = errors.Must1(f.GetFloat32("width"))
	o.Height = errors.Must1(f.GetFloat32("height"))
	o.Scroll = errors.Must1(f.GetString("scroll"))
	return place(o, cmd.OutOrStdout())
}

// place shows the tooltips described by the options and writes a
// report of each one to w.
func place(o placeOptions, w io.Writer) error {
	fp, err := os.Open(o.Page)
	if err != nil {
		return err
	}
	defer fp.Close()
	doc, err := dom.ParseHTML(fp, o.Width, o.Height)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", o.Page, err)
	}
	m := loop.NewManual(time.Now())
	doc.SetScheduler(m)
	if o.Scroll != "" {
		x, y, err := parsePoint(o.Scroll)
		if err != nil {
			return err
		}
		doc.ScrollTo(x, y)
	}

	props := tooltip.DefaultProps()
	if o.Props != "" {
		props, err = config.Load(o.Props)
		if err != nil {
			return err
		}
	}
	if o.Content != "" {
		props.Content = o.Content
	}
	if o.Placement != "" {
		props.Placement = popper.Placement(o.Placement)
	}
	props.Duration = tooltip.Uniform(0)
	props.Delay = tooltip.Uniform(0)
	props.Lazy = true

	insts, err := tooltip.New(doc, o.Reference, props)
	if err != nil {
		return err
	}
	if len(insts) == 0 {
		return fmt.Errorf("no elements match %q in %s", o.Reference, o.Page)
	}
	defer tooltip.TheGlobals.Unbind(doc)
	for i, inst := range insts {
		inst.Show()
		m.Frames(2)
		report(w, i, inst)
		inst.Destroy()
	}
	return nil
}

// report writes the placement of a shown instance.
func report(w io.Writer, i int, inst *tooltip.Instance) {
	fmt.Fprintf(w, "reference %d: %v\n", i, inst.Reference)
	pp := inst.PopperInstance
	if pp == nil || pp.Data() == nil {
		fmt.Fprintln(w, "  not positioned")
		return
	}
	d := pp.Data()
	r := d.Offsets.Popper
	fmt.Fprintf(w, "  placement: %s\n", d.Placement)
	if d.Flipped {
		fmt.Fprintf(w, "  flipped from: %s\n", d.OriginalPlacement)
	}
	fmt.Fprintf(w, "  popper: left=%g top=%g width=%g height=%g\n", r.Left, r.Top, r.Width, r.Height)
	fmt.Fprintf(w, "  out of boundaries: %t\n", d.Hide)
	fmt.Fprintf(w, "  style: %s\n", inst.Popper.StyleString())
	if a := inst.Children.Arrow; a != nil {
		fmt.Fprintf(w, "  arrow style: %s\n", a.StyleString())
	}
}

// parsePoint parses a point written as x,y.
func parsePoint(s string) (x, y float32, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q: want x,y", s)
	}
	xf, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	yf, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return float32(xf), float32(yf), nil
}
