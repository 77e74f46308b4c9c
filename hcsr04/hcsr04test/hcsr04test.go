// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hcsr04test is meant to be used to test drivers built on hcsr04
// without real hardware.
package hcsr04test

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Playback implements hcsr04.Clock and replays scripted echo widths.
//
// A width of 0 simulates a timeout. Sleeps return immediately and are
// recorded.
type Playback struct {
	sync.Mutex
	// Echoes is consumed in order by PulseIn.
	Echoes []time.Duration
	// DontPanic makes PulseIn return 0 once Echoes is exhausted instead of
	// panicking.
	DontPanic bool

	// Sleeps records every Sleep call.
	Sleeps []time.Duration
	// Timeouts records the timeout passed to every PulseIn call.
	Timeouts []time.Duration
	// Count is the number of Echoes consumed.
	Count int
}

// Sleep implements hcsr04.Clock.
func (p *Playback) Sleep(d time.Duration) {
	p.Lock()
	defer p.Unlock()
	p.Sleeps = append(p.Sleeps, d)
}

// PulseIn implements hcsr04.Clock.
func (p *Playback) PulseIn(pin gpio.PinIn, l gpio.Level, timeout time.Duration) time.Duration {
	p.Lock()
	defer p.Unlock()
	p.Timeouts = append(p.Timeouts, timeout)
	if p.Count >= len(p.Echoes) {
		if p.DontPanic {
			return 0
		}
		panic(fmt.Errorf("hcsr04test: unexpected PulseIn(%s, %s) #%d", pin, l, p.Count))
	}
	d := p.Echoes[p.Count]
	p.Count++
	if d > timeout {
		return 0
	}
	return d
}

// Close returns an error if not all Echoes were consumed.
func (p *Playback) Close() error {
	p.Lock()
	defer p.Unlock()
	if p.Count != len(p.Echoes) {
		return fmt.Errorf("hcsr04test: expected playback to be empty: %d/%d consumed", p.Count, len(p.Echoes))
	}
	return nil
}

// Echo returns the echo width that a target at cm produces at speed, in
// cm/µs, rounded to the microsecond.
func Echo(cm, speed float64) time.Duration {
	return time.Duration(2*cm/speed+0.5) * time.Microsecond
}
