// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import (
	"slices"
	"time"
)

// Manual is a deterministic [Scheduler] whose time only moves
// when [Manual.Advance] is called and whose frames only run when
// [Manual.Frame] is called. It is used in tests and in tools that
// need to compute a layout synchronously.
type Manual struct {
	now     time.Time
	next    Handle
	timers  []*manualTimer
	frames  []manualFrame
	running bool
}

type manualTimer struct {
	handle   Handle
	deadline time.Time
	fun      func()
}

type manualFrame struct {
	handle Handle
	fun    func()
}

// NewManual returns a new [Manual] scheduler starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) SetTimeout(delay time.Duration, fun func()) Handle {
	m.next++
	m.timers = append(m.timers, &manualTimer{handle: m.next, deadline: m.now.Add(max(delay, 0)), fun: fun})
	return m.next
}

func (m *Manual) ClearTimeout(h Handle) {
	if h == 0 {
		return
	}
	m.timers = slices.DeleteFunc(m.timers, func(t *manualTimer) bool { return t.handle == h })
}

func (m *Manual) RequestAnimationFrame(fun func()) Handle {
	m.next++
	m.frames = append(m.frames, manualFrame{handle: m.next, fun: fun})
	return m.next
}

func (m *Manual) CancelAnimationFrame(h Handle) {
	if h == 0 {
		return
	}
	m.frames = slices.DeleteFunc(m.frames, func(f manualFrame) bool { return f.handle == h })
}

// Advance moves time forward by the given duration, running every
// timer that becomes due, in deadline order. Timers scheduled by
// those callbacks also run if they become due within the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		t := m.nextDue(end)
		if t == nil {
			break
		}
		m.ClearTimeout(t.handle)
		if t.deadline.After(m.now) {
			m.now = t.deadline
		}
		t.fun()
	}
	m.now = end
}

// nextDue returns the earliest timer due at or before end.
// Ties are broken by scheduling order.
func (m *Manual) nextDue(end time.Time) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.deadline.After(end) {
			continue
		}
		if best == nil || t.deadline.Before(best.deadline) {
			best = t
		}
	}
	return best
}

// Frame runs the animation frame callbacks that were pending
// when it was called. Callbacks requested during the frame run
// on the following frame. It returns the number of callbacks run.
func (m *Manual) Frame() int {
	frames := m.frames
	m.frames = nil
	for _, f := range frames {
		f.fun()
	}
	return len(frames)
}

// Frames runs up to n frames, stopping early when no callbacks are pending.
func (m *Manual) Frames(n int) {
	for range n {
		if m.Frame() == 0 {
			return
		}
	}
}

// PendingTimers returns the number of timers that have not yet run.
func (m *Manual) PendingTimers() int {
	return len(m.timers)
}

// PendingFrames returns the number of frame callbacks waiting for the next frame.
func (m *Manual) PendingFrames() int {
	return len(m.frames)
}
