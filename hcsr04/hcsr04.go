// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hcsr04

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultSpeedOfSound is the speed of sound in dry air at about 20°C,
	// in cm/µs.
	DefaultSpeedOfSound = 0.0343
	// DefaultSamples is the number of samples FilteredDistance takes when
	// asked for 0.
	DefaultSamples = 5

	// Invalid is the distance returned alongside any error.
	Invalid = -1.0

	// MinRange and MaxRange bound a plausible reading, in cm.
	MinRange = 2.0
	MaxRange = 400.0

	// SettleTime is how long Initialize waits for the module to settle.
	SettleTime = 100 * time.Millisecond
	// TriggerSettle holds the trigger low before the pulse so the module
	// sees a clean rising edge.
	TriggerSettle = 2 * time.Microsecond
	// TriggerPulse is the width of the trigger pulse.
	TriggerPulse = 10 * time.Microsecond
	// EchoTimeout bounds the wait for the echo pulse. 30ms covers the 400cm
	// maximum range with margin.
	EchoTimeout = 30 * time.Millisecond
	// SampleInterval is the pause after each sample taken by
	// FilteredDistance.
	SampleInterval = 10 * time.Millisecond

	// minContinuousInterval is the measurement cycle recommended by the
	// datasheet.
	minContinuousInterval = 60 * time.Millisecond
)

// Opts holds the configuration of a Dev.
type Opts struct {
	// SpeedOfSound in cm/µs. 0 means DefaultSpeedOfSound.
	SpeedOfSound float64
	// Samples taken by FilteredDistance(0). 0 means DefaultSamples.
	Samples int
	// Policy applied to failed samples by FilteredDistance.
	Policy Policy
	// MaxAttempts caps the samples taken under the Resample policy. 0 means
	// three times the requested count.
	MaxAttempts int
	// Clock performs delays and pulse timing. nil means HostClock.
	Clock Clock
	// Logger receives a line for every failed sample. nil means
	// log.Default().
	Logger *log.Logger
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	SpeedOfSound: DefaultSpeedOfSound,
	Samples:      DefaultSamples,
	Policy:       ExcludeFailures,
}

// Reading is a single result of SenseContinuous.
type Reading struct {
	// Distance in cm, Invalid when Err is set.
	Distance float64
	Err      error
	Time     time.Time
}

// Dev is a handle to an HC-SR04 module.
type Dev struct {
	trig gpio.PinOut
	echo gpio.PinIn

	mu          sync.Mutex
	opts        Opts
	clock       Clock
	logger      *log.Logger
	speed       float64
	initialized bool
	shutdown    chan struct{}
}

// New returns a Dev driving trig and timing echo. It does not touch the pins;
// call Initialize before reading.
//
// If opts is nil, DefaultOpts is used.
func New(trig gpio.PinOut, echo gpio.PinIn, opts *Opts) *Dev {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.SpeedOfSound == 0 {
		o.SpeedOfSound = DefaultSpeedOfSound
	}
	if o.Samples <= 0 {
		o.Samples = DefaultSamples
	}
	d := &Dev{trig: trig, echo: echo, opts: o, clock: o.Clock, logger: o.Logger, speed: o.SpeedOfSound}
	if d.clock == nil {
		d.clock = HostClock{}
	}
	if d.logger == nil {
		d.logger = log.Default()
	}
	return d
}

// Initialize drives the trigger low, configures the echo pin as an input and
// waits SettleTime. It must be called once before the first reading.
func (d *Dev) Initialize() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.trig.Out(gpio.Low); err != nil {
		return fmt.Errorf("hcsr04: trigger: %w", err)
	}
	if err := d.echo.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return fmt.Errorf("hcsr04: echo: %w", err)
	}
	d.clock.Sleep(SettleTime)
	d.initialized = true
	return nil
}

// SetSpeedOfSound overwrites the speed of sound, in cm/µs, used by later
// readings. The value is not validated; a non-positive or NaN value makes
// every reading fail the range check.
func (d *Dev) SetSpeedOfSound(cmPerMicrosecond float64) {
	d.mu.Lock()
	d.speed = cmPerMicrosecond
	d.mu.Unlock()
}

// SpeedOfSound returns the speed of sound currently in use, in cm/µs.
func (d *Dev) SpeedOfSound() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speed
}

// SetTemperature derives the speed of sound from the air temperature.
func (d *Dev) SetTemperature(t physic.Temperature) {
	d.SetSpeedOfSound(SpeedOfSoundAt(t))
}

// SpeedOfSoundAt returns the speed of sound in dry air at temperature t, in
// cm/µs.
func SpeedOfSoundAt(t physic.Temperature) float64 {
	metresPerSecond := 331.3 + 0.606*t.Celsius()
	return metresPerSecond / 1e4
}

// Centimetres converts an echo width into a one way distance in cm.
func Centimetres(echo time.Duration, speed float64) float64 {
	us := float64(echo) / float64(time.Microsecond)
	return us * speed / 2
}

// ToDistance converts cm to a physic.Distance.
func ToDistance(cm float64) physic.Distance {
	return physic.Distance(math.Round(cm * float64(10*physic.MilliMetre)))
}

// Distance takes a single reading and returns it in cm.
//
// On failure the returned distance is Invalid and the error is a
// *TimeoutError, an *OutOfRangeError or a pin error.
func (d *Dev) Distance() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.measure()
}

// FilteredDistance takes n readings, SampleInterval apart, and returns their
// median in cm. n of 0 takes Opts.Samples readings.
//
// Failed samples are handled according to Opts.Policy. With IncludeFailures
// no error is returned for failed samples. Otherwise a *NoReadingError is
// returned when not a single sample succeeded.
func (d *Dev) FilteredDistance(n int) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cm, _, err := d.filtered(n)
	return cm, err
}

// Sense takes a filtered reading and stores it in dist.
//
// Unlike FilteredDistance, a negative median left by IncludeFailures is
// reported as a *NoReadingError.
func (d *Dev) Sense(dist *physic.Distance) error {
	cm, err := d.sense()
	if err != nil {
		return err
	}
	*dist = ToDistance(cm)
	return nil
}

// SenseContinuous takes a filtered reading every interval and sends it on the
// returned channel. Readings are dropped when the channel is full. Call Halt
// to stop; the channel is then closed.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan Reading, error) {
	if interval < minContinuousInterval {
		return nil, fmt.Errorf("hcsr04: invalid interval %s, minimum %s", interval, minContinuousInterval)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return nil, &NotInitializedError{}
	}
	if d.shutdown != nil {
		return nil, errors.New("hcsr04: already sensing continuously")
	}
	const channelSize = 16
	d.shutdown = make(chan struct{})
	channel := make(chan Reading, channelSize)
	go func(channel chan<- Reading, shutdown <-chan struct{}) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(channel)
		for {
			select {
			case <-shutdown:
				return
			case t := <-ticker.C:
				cm, err := d.sense()
				select {
				case channel <- Reading{Distance: cm, Err: err, Time: t}:
				default:
				}
			}
		}
	}(channel, d.shutdown)
	return channel, nil
}

// Halt stops a SenseContinuous loop and drives the trigger low. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return d.trig.Out(gpio.Low)
}

func (d *Dev) String() string {
	return fmt.Sprintf("hcsr04{%s, %s}", d.trig, d.echo)
}

// sense takes a filtered reading of Opts.Samples and turns a negative
// median into an error.
func (d *Dev) sense() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cm, failed, err := d.filtered(0)
	if err != nil {
		return Invalid, err
	}
	if cm < 0 {
		return Invalid, &failed
	}
	return cm, nil
}

// measure runs one trigger/echo cycle. d.mu must be held.
func (d *Dev) measure() (float64, error) {
	if !d.initialized {
		return Invalid, &NotInitializedError{}
	}
	if err := d.pulseTrigger(); err != nil {
		return Invalid, fmt.Errorf("hcsr04: trigger: %w", err)
	}
	echo := d.clock.PulseIn(d.echo, gpio.High, EchoTimeout)
	if echo == 0 {
		err := &TimeoutError{Timeout: EchoTimeout}
		d.logger.Println(err)
		return Invalid, err
	}
	cm := Centimetres(echo, d.speed)
	if !(cm >= MinRange && cm <= MaxRange) {
		err := &OutOfRangeError{Distance: cm, Echo: echo}
		d.logger.Println(err)
		return Invalid, err
	}
	return cm, nil
}

func (d *Dev) pulseTrigger() error {
	if err := d.trig.Out(gpio.Low); err != nil {
		return err
	}
	d.clock.Sleep(TriggerSettle)
	if err := d.trig.Out(gpio.High); err != nil {
		return err
	}
	d.clock.Sleep(TriggerPulse)
	return d.trig.Out(gpio.Low)
}

// filtered implements FilteredDistance. failed counts the samples that did
// not succeed, whatever the policy. d.mu must be held.
func (d *Dev) filtered(n int) (float64, NoReadingError, error) {
	if n < 0 {
		return Invalid, NoReadingError{}, fmt.Errorf("hcsr04: invalid sample count %d", n)
	}
	if n == 0 {
		n = d.opts.Samples
	}
	limit := n
	if d.opts.Policy == Resample {
		limit = d.opts.MaxAttempts
		if limit == 0 {
			limit = 3 * n
		}
		limit = max(limit, n)
	}

	samples := make([]float64, 0, n)
	attempts, timeouts, outOfRange := 0, 0, 0
	for ; attempts < limit && len(samples) < n; attempts++ {
		cm, err := d.measure()
		d.clock.Sleep(SampleInterval)
		if err != nil {
			var te *TimeoutError
			var oe *OutOfRangeError
			switch {
			case errors.As(err, &te):
				timeouts++
			case errors.As(err, &oe):
				outOfRange++
			default:
				return Invalid, NoReadingError{}, err
			}
			if d.opts.Policy != IncludeFailures {
				continue
			}
		}
		samples = append(samples, cm)
	}
	failed := NoReadingError{Attempts: attempts, Timeouts: timeouts, OutOfRange: outOfRange}
	if len(samples) == 0 {
		return Invalid, failed, &failed
	}
	return Median(samples), failed, nil
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
