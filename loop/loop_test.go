// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualTimers(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var got []string
	m.SetTimeout(300*time.Millisecond, func() { got = append(got, "c") })
	h := m.SetTimeout(100*time.Millisecond, func() { got = append(got, "a") })
	m.SetTimeout(200*time.Millisecond, func() {
		got = append(got, "b")
		m.SetTimeout(50*time.Millisecond, func() { got = append(got, "b2") })
	})
	m.SetTimeout(200*time.Millisecond, func() { got = append(got, "b1") })

	m.Advance(99 * time.Millisecond)
	assert.Empty(t, got)
	m.ClearTimeout(h)
	m.ClearTimeout(h)
	m.ClearTimeout(0)
	m.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"b", "b1", "b2"}, got)
	assert.Equal(t, 1, m.PendingTimers())
	m.Advance(time.Millisecond)
	assert.Equal(t, []string{"b", "b1", "b2", "c"}, got)
	assert.Equal(t, time.Unix(0, 0).Add(300*time.Millisecond), m.Now())
}

func TestManualFrames(t *testing.T) {
	m := NewManual(time.Time{})
	n := 0
	var step func()
	step = func() {
		n++
		if n < 3 {
			m.RequestAnimationFrame(step)
		}
	}
	m.RequestAnimationFrame(step)
	c := m.RequestAnimationFrame(func() { n += 100 })
	m.CancelAnimationFrame(c)

	assert.Equal(t, 1, m.Frame())
	assert.Equal(t, 1, n)
	m.Frames(10)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0, m.PendingFrames())
}

func TestDebounce(t *testing.T) {
	m := NewManual(time.Time{})
	var got []int
	f := Debounce(m, 10*time.Millisecond, func(v int) { got = append(got, v) })
	f(1)
	m.Advance(5 * time.Millisecond)
	f(2)
	m.Advance(5 * time.Millisecond)
	assert.Empty(t, got)
	m.Advance(5 * time.Millisecond)
	assert.Equal(t, []int{2}, got)

	direct := Debounce(m, 0, func(v int) { got = append(got, v) })
	direct(3)
	assert.Equal(t, []int{2, 3}, got)
}

func TestLoopRun(t *testing.T) {
	l := New()
	l.FrameInterval = time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan string, 3)
	l.Post(func() {
		l.SetTimeout(5*time.Millisecond, func() { done <- "timer" })
		cleared := l.SetTimeout(time.Millisecond, func() { done <- "cleared" })
		l.ClearTimeout(cleared)
		l.RequestAnimationFrame(func() { done <- "frame" })
	})
	go l.Run(ctx)

	var got []string
	for range 2 {
		select {
		case s := <-done:
			got = append(got, s)
		case <-ctx.Done():
			t.Fatal("timed out waiting for loop callbacks")
		}
	}
	assert.ElementsMatch(t, []string{"timer", "frame"}, got)
}

func TestPostDoesNotBlock(t *testing.T) {
	l := New()
	l.FrameInterval = time.Millisecond

	// posts without a running loop, and after it stopped, return right away
	for range 1000 {
		l.Post(func() {})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan int, 1)
	n := 0
	l.Post(func() {
		for range 1000 {
			l.Post(func() {
				n++
				if n == 1000 {
					done <- n
				}
			})
		}
	})
	stopped := make(chan error, 1)
	runCtx, stop := context.WithCancel(ctx)
	go func() { stopped <- l.Run(runCtx) }()
	select {
	case got := <-done:
		assert.Equal(t, 1000, got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for tasks posted from the loop")
	}
	stop()
	assert.ErrorIs(t, <-stopped, context.Canceled)

	l.SetTimeout(0, func() {})
	posted := make(chan struct{})
	go func() {
		for range 1000 {
			l.Post(func() {})
		}
		close(posted)
	}()
	select {
	case <-posted:
	case <-ctx.Done():
		t.Fatal("Post blocked after Run returned")
	}
}
