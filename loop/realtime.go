// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval is the default interval between animation frames.
const DefaultFrameInterval = time.Second / 60

// Loop is a real-time [Scheduler]. Timers are backed by [time.AfterFunc],
// but their callbacks, along with frame callbacks and functions passed to
// [Loop.Post], are all executed by the goroutine calling [Loop.Run].
type Loop struct {

	// FrameInterval is the interval between animation frames.
	FrameInterval time.Duration

	// wake has room for one signal that tasks were posted
	wake chan struct{}

	// mu protects the fields below, which are also
	// accessed from timer goroutines
	mu     sync.Mutex
	tasks  []func()
	next   Handle
	timers map[Handle]*time.Timer
	frames []manualFrame
}

// New returns a new [Loop] with [DefaultFrameInterval].
func New() *Loop {
	return &Loop{
		FrameInterval: DefaultFrameInterval,
		wake:          make(chan struct{}, 1),
		timers:        map[Handle]*time.Timer{},
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post enqueues fun to run on the loop goroutine. It is safe to call
// from any goroutine, including the loop goroutine, and never blocks.
// Tasks posted after Run returns are never run.
func (l *Loop) Post(fun func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fun)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) SetTimeout(delay time.Duration, fun func()) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	h := l.next
	l.timers[h] = time.AfterFunc(delay, func() {
		l.Post(func() {
			l.mu.Lock()
			_, ok := l.timers[h]
			delete(l.timers, h)
			l.mu.Unlock()
			if ok {
				fun()
			}
		})
	})
	return h
}

func (l *Loop) ClearTimeout(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.timers[h]; ok {
		t.Stop()
		delete(l.timers, h)
	}
}

func (l *Loop) RequestAnimationFrame(fun func()) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.frames = append(l.frames, manualFrame{handle: l.next, fun: fun})
	return l.next
}

func (l *Loop) CancelAnimationFrame(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range l.frames {
		if f.handle == h {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
}

// Run executes posted tasks, timer callbacks and animation frames
// until the context is done, returning the context error.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.FrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.mu.Lock()
			tasks := l.tasks
			l.tasks = nil
			l.mu.Unlock()
			for _, fun := range tasks {
				fun()
			}
		case <-ticker.C:
			l.mu.Lock()
			frames := l.frames
			l.frames = nil
			l.mu.Unlock()
			for _, f := range frames {
				f.fun()
			}
		}
	}
}
