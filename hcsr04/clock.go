// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hcsr04

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Clock provides the blocking timing primitives a measurement needs.
//
// Replace it with hcsr04test.Playback to run the driver without hardware.
type Clock interface {
	// Sleep blocks for d.
	Sleep(d time.Duration)
	// PulseIn returns how long p stayed at level l, or 0 if no complete
	// pulse was seen within timeout.
	PulseIn(p gpio.PinIn, l gpio.Level, timeout time.Duration) time.Duration
}

// HostClock is the Clock used when Opts.Clock is nil.
//
// Delays shorter than spinThreshold are busy-waited since the scheduler
// cannot honour microsecond sleeps.
type HostClock struct{}

const spinThreshold = time.Millisecond

// Sleep implements Clock.
func (HostClock) Sleep(d time.Duration) {
	if d >= spinThreshold {
		time.Sleep(d)
		return
	}
	for start := time.Now(); time.Since(start) < d; {
	}
}

// PulseIn implements Clock.
//
// It first waits for a pulse already in progress to end, then for the
// leading edge, then times the pulse until the trailing edge. The timeout
// covers all three stages.
func (HostClock) PulseIn(p gpio.PinIn, l gpio.Level, timeout time.Duration) time.Duration {
	deadline := time.Now().Add(timeout)
	for p.Read() == l {
		if time.Now().After(deadline) {
			return 0
		}
	}
	for p.Read() != l {
		if time.Now().After(deadline) {
			return 0
		}
	}
	start := time.Now()
	for p.Read() == l {
		if time.Now().After(deadline) {
			return 0
		}
	}
	return time.Since(start)
}

var _ Clock = HostClock{}
