// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hcsr04test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPlayback(t *testing.T) {
	p := &Playback{Echoes: []time.Duration{583 * time.Microsecond, 0, time.Second}}
	pin := &gpiotest.Pin{N: "ECHO"}
	p.Sleep(10 * time.Microsecond)
	var got []time.Duration
	for range 3 {
		got = append(got, p.PulseIn(pin, gpio.High, 30*time.Millisecond))
	}
	if diff := cmp.Diff(got, []time.Duration{583 * time.Microsecond, 0, 0}); diff != "" {
		t.Errorf("PulseIn (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(p.Sleeps, []time.Duration{10 * time.Microsecond}); diff != "" {
		t.Errorf("Sleeps (-got +want):\n%s", diff)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPlayback_exhausted(t *testing.T) {
	p := &Playback{DontPanic: true}
	if d := p.PulseIn(&gpiotest.Pin{}, gpio.High, time.Millisecond); d != 0 {
		t.Fatalf("PulseIn() = %s", d)
	}

	p = &Playback{}
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	p.PulseIn(&gpiotest.Pin{}, gpio.High, time.Millisecond)
}

func TestPlayback_Close(t *testing.T) {
	p := &Playback{Echoes: []time.Duration{time.Millisecond}}
	if err := p.Close(); err == nil {
		t.Fatal("expected unconsumed echo error")
	}
}

func TestEcho(t *testing.T) {
	if got := Echo(10, 0.0625); got != 320*time.Microsecond {
		t.Errorf("Echo() = %s", got)
	}
	if got := Echo(10, 0.0343); got != 583*time.Microsecond {
		t.Errorf("Echo() = %s", got)
	}
}
