// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hcsr04

import (
	"fmt"
	"time"
)

// NotInitializedError is returned when a reading is requested before
// Initialize.
type NotInitializedError struct{}

func (e *NotInitializedError) Error() string {
	return "hcsr04: not initialized"
}

// TimeoutError is returned when no echo pulse completed within the timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("hcsr04: no echo received within %s", e.Timeout)
}

// OutOfRangeError is returned when the computed distance falls outside the
// sensor's operating range. Distance holds the rejected value in cm.
type OutOfRangeError struct {
	Distance float64
	Echo     time.Duration
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("hcsr04: invalid distance %.2fcm (echo %s)", e.Distance, e.Echo)
}

// NoReadingError is returned by FilteredDistance when no sample out of
// Attempts succeeded.
type NoReadingError struct {
	Attempts   int
	Timeouts   int
	OutOfRange int
}

func (e *NoReadingError) Error() string {
	return fmt.Sprintf("hcsr04: no valid sample out of %d (%d timeouts, %d out of range)", e.Attempts, e.Timeouts, e.OutOfRange)
}
