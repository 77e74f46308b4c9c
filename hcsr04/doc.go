// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hcsr04 reads distances from an HC-SR04 ultrasonic rangefinder
// wired to a trigger/echo GPIO pair.
//
// A measurement is a 10µs pulse on the trigger pin followed by timing how long
// the echo pin stays high. The echo width covers the round trip, so the
// distance is half of width × speed of sound.
//
// Range: 2cm - 400cm
//
// Resolution: 0.3cm
//
// Single readings are noisy; FilteredDistance takes several samples and
// returns their median. What happens to samples that time out or fall out of
// range is selected with Opts.Policy.
//
// All operations block. The echo wait alone may take up to 30ms per sample.
//
// For detailed information, refer to the [datasheet].
//
// A command line example is available in cmd/hcsr04.
//
// [datasheet]: https://cdn.sparkfun.com/datasheets/Sensors/Proximity/HCSR04.pdf
package hcsr04
