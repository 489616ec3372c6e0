// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"cogentcore.org/popover/config"
	"cogentcore.org/popover/tooltip"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] props.toml",
	Short: "Print a props file each time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watch(ctx, args[0], cmd.OutOrStdout())
	},
}

// watch prints the props of the file, then prints them again on
// every change until the context is done.
func watch(ctx context.Context, filename string, w io.Writer) error {
	p, err := config.Load(filename)
	if err != nil {
		return err
	}
	if err := printProps(w, &p); err != nil {
		return err
	}
	return config.Watch(ctx, filename, func(p tooltip.Props, err error) {
		if err != nil {
			slog.Error("popover: invalid props file", "file", filename, "err", err)
			return
		}
		slog.Info("popover: props file reloaded", "file", filename)
		if err := printProps(w, &p); err != nil {
			slog.Error("popover: printing props", "err", err)
		}
	})
}

func printProps(w io.Writer, p *tooltip.Props) error {
	b, err := config.Marshal(p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "---\n%s", b)
	return err
}
