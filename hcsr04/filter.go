// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hcsr04

import (
	"fmt"
	"slices"
)

// Policy selects how FilteredDistance treats samples that failed.
type Policy int

const (
	// ExcludeFailures drops failed samples and takes the median of the rest.
	ExcludeFailures Policy = iota
	// IncludeFailures keeps failed samples as Invalid (-1) so they take part
	// in the median. A single timeout shifts the result.
	IncludeFailures
	// Resample retakes failed samples until the requested count succeeded or
	// Opts.MaxAttempts is reached.
	Resample
)

func (p Policy) String() string {
	switch p {
	case ExcludeFailures:
		return "exclude"
	case IncludeFailures:
		return "include"
	case Resample:
		return "resample"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy returns the Policy named by s, as printed by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range []Policy{ExcludeFailures, IncludeFailures, Resample} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("hcsr04: unknown policy %q", s)
}

// Median returns the median of values. For an even count it is the mean of
// the two middle values. values is not modified. Median of an empty slice is
// Invalid.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return Invalid
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
