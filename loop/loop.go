// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loop provides the single-threaded cooperative scheduler
// that drives timers and animation frames for documents and the
// floating elements positioned in them.
//
// All callbacks scheduled through a [Scheduler] run on one goroutine,
// so code running in them never needs locking against other callbacks
// of the same scheduler.
package loop

import "time"

// Handle identifies a pending timer or animation frame callback.
// The zero Handle is never returned for a scheduled callback, so it
// can be used to indicate that nothing is pending.
type Handle uint64

// Scheduler is the event loop abstraction: macrotask timers and
// animation frame callbacks, all run on the same goroutine.
type Scheduler interface {

	// Now returns the current time of the scheduler.
	Now() time.Time

	// SetTimeout schedules fun to run once after the given delay.
	SetTimeout(delay time.Duration, fun func()) Handle

	// ClearTimeout cancels the given timer. It is safe to call with
	// the zero Handle or a Handle that has already fired.
	ClearTimeout(h Handle)

	// RequestAnimationFrame schedules fun to run on the next frame.
	RequestAnimationFrame(fun func()) Handle

	// CancelAnimationFrame cancels the given frame callback. It is safe
	// to call with the zero Handle or a Handle that has already run.
	CancelAnimationFrame(h Handle)
}

// Debounce returns a function that calls fun with the last argument
// it was given once no further calls have happened for the given delay.
// A zero delay returns fun itself.
func Debounce[T any](s Scheduler, delay time.Duration, fun func(T)) func(T) {
	if delay <= 0 {
		return fun
	}
	var pending Handle
	return func(arg T) {
		s.ClearTimeout(pending)
		pending = s.SetTimeout(delay, func() {
			pending = 0
			fun(arg)
		})
	}
}
