// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rangefinder is a container for the HC-SR04 ultrasonic rangefinder
// driver and its tooling.
//
// The driver lives in hcsr04, a scripted timing source for tests in
// hcsr04/hcsr04test and a terminal bar graph in screen1d.
package rangefinder
