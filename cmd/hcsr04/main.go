// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hcsr04 reads distances from an HC-SR04 ultrasonic rangefinder.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/rangefinder/hcsr04"
	"github.com/GermanBionicSystems/rangefinder/screen1d"
)

func mainImpl() error {
	trigName := flag.String("trig", "GPIO23", "GPIO pin wired to Trig")
	echoName := flag.String("echo", "GPIO24", "GPIO pin wired to Echo")
	samples := flag.Int("n", hcsr04.DefaultSamples, "samples per reading; 1 disables filtering")
	policy := flag.String("policy", hcsr04.ExcludeFailures.String(), "failed sample policy: include, exclude or resample")
	temp := flag.Float64("temp", 0, "air temperature in °C for speed of sound compensation; unset keeps 0.0343cm/µs")
	interval := flag.Duration("interval", 500*time.Millisecond, "time between readings")
	count := flag.Int("count", 0, "number of readings; 0 reads forever")
	bar := flag.Int("bar", 0, "width of a terminal bar graph; 0 prints numbers")
	verbose := flag.Bool("v", false, "log failed samples")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *samples < 1 {
		return errors.New("-n must be at least 1")
	}
	p, err := hcsr04.ParsePolicy(*policy)
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	trig := gpioreg.ByName(*trigName)
	if trig == nil {
		return fmt.Errorf("no GPIO pin named %q", *trigName)
	}
	echo := gpioreg.ByName(*echoName)
	if echo == nil {
		return fmt.Errorf("no GPIO pin named %q", *echoName)
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "", log.Lmicroseconds)
	}
	d := hcsr04.New(trig, echo, &hcsr04.Opts{Samples: *samples, Policy: p, Logger: logger})
	if err := d.Initialize(); err != nil {
		return err
	}
	defer d.Halt()
	compensate(d, flag.CommandLine, *temp)

	var screen *screen1d.Dev
	if *bar > 0 {
		screen = screen1d.New(&screen1d.Opts{X: *bar})
		defer screen.Halt()
	}

	for i := 0; *count == 0 || i < *count; i++ {
		if i != 0 {
			time.Sleep(*interval)
		}
		cm, err := d.FilteredDistance(0)
		if err == nil && cm < 0 {
			err = errors.New("no valid sample")
		}
		if screen != nil {
			if err := screen.Plot(cm, hcsr04.MaxRange); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%s\n", hcsr04.ToDistance(cm))
	}
	return nil
}

// compensate sets the speed of sound from celsius only when -temp was given
// on the command line.
func compensate(d *hcsr04.Dev, fs *flag.FlagSet, celsius float64) {
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "temp" {
			d.SetTemperature(physic.ZeroCelsius + physic.Temperature(celsius*float64(physic.Kelvin)))
		}
	})
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "hcsr04: %s.\n", err)
		os.Exit(1)
	}
}
