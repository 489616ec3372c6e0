// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command popover places tooltips in HTML pages and prints the
// resulting positions, and watches props files.
package main

import (
	"os"

	"cogentcore.org/popover/base/errors"
	"cogentcore.org/popover/base/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "popover",
	Short: "Position tooltips and popovers in HTML pages",
	Long: `Popover shows tooltips next to reference elements of a headless
HTML page and prints where they are placed, using the same props
files as the tooltip package.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		flags := cmd.Root().PersistentFlags()
		vv := errors.Must1(flags.GetBool("vv"))
		v := errors.Must1(flags.GetBool("verbose"))
		q := errors.Must1(flags.GetBool("quiet"))
		logx.UserLevel = logx.LevelFromFlags(vv, v, q)
		logx.SetDefaultLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show info messages")
	rootCmd.PersistentFlags().Bool("vv", false, "show debug messages")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only show errors")
	rootCmd.AddCommand(placeCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
