// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"cogentcore.org/popover/tooltip"
	"github.com/fsnotify/fsnotify"
)

// Watch calls fun with the props of the given file each time it is
// written, until the context is done. The directory of the file is
// watched, so that editors that replace the file are seen. Load
// errors are passed to fun and do not stop watching.
func Watch(ctx context.Context, filename string, fun func(p tooltip.Props, err error)) error {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	if _, err := DecoderFor(abs); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			slog.Debug("config: props file changed", "file", abs, "op", event.Op)
			fun(Load(abs))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config: watch error", "file", abs, "err", err)
		}
	}
}
