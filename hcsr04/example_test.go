// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hcsr04_test

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/rangefinder/hcsr04"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use gpioreg GPIO pin registry to find the pins the module is wired to.
	trig := gpioreg.ByName("GPIO23")
	echo := gpioreg.ByName("GPIO24")
	if trig == nil || echo == nil {
		log.Fatal("failed to find GPIO23 and GPIO24")
	}

	d := hcsr04.New(trig, echo, &hcsr04.Opts{Policy: hcsr04.ExcludeFailures})
	if err := d.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	// Compensate for a warm room.
	d.SetTemperature(physic.ZeroCelsius + 28*physic.Kelvin)

	cm, err := d.FilteredDistance(7)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.1fcm\n", cm)
}

func ExampleDev_SenseContinuous() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	d := hcsr04.New(gpioreg.ByName("GPIO23"), gpioreg.ByName("GPIO24"), nil)
	if err := d.Initialize(); err != nil {
		log.Fatal(err)
	}
	c, err := d.SenseContinuous(physic.Hertz.Period() / 4)
	if err != nil {
		log.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		r := <-c
		if r.Err != nil {
			fmt.Println(r.Err)
			continue
		}
		fmt.Println(hcsr04.ToDistance(r.Distance))
	}
	if err := d.Halt(); err != nil {
		log.Fatal(err)
	}
}
