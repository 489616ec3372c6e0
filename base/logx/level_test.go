// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, false))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, true))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelInfo))
	l.Debug("hidden")
	l.With("instance", 3).WithGroup("popper").Warn("arrow missing", "placement", "top")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "arrow missing")
	assert.Contains(t, out, "instance")
	assert.Contains(t, out, "popper.placement")
	assert.Contains(t, out, "top")
}
