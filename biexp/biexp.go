// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package biexp provides the normalized bi-exponential (difference of exponentials)
conductance kernel used for synaptic transmission and for the spike-triggered
self-feedback conductances (AHP, ADP) of a point neuron.

A single spike produces the waveform exp(-t/Decay) - exp(-t/Rise), which is divided
by its value at the analytic time-to-peak so that the peak is exactly 1.
Conductance at any time is the sum of this waveform over the full spike history,
offset by an onset delay.
*/
package biexp

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidParam is returned when kernel time constants cannot produce a
// normalizable waveform (Rise == Decay, or non-positive taus).
var ErrInvalidParam = errors.New("biexp: invalid parameter")

const (
	// Horizon is the absolute age (msec) beyond which the history scan may stop.
	Horizon = 1000

	// Cutoff is the relative amplitude (fraction of norm) below which
	// older spikes beyond Horizon are dropped from the sum.
	Cutoff = 0.001
)

// SpikeTimes is a read-only view onto an ascending spike-time history.
type SpikeTimes interface {
	// Len returns the number of recorded spikes
	Len() int

	// At returns the time of spike idx, in msec (0 = oldest)
	At(idx int) float32
}

// Times is a plain slice of spike times that satisfies SpikeTimes.
type Times []float32

func (ts Times) Len() int           { return len(ts) }
func (ts Times) At(idx int) float32 { return ts[idx] }

// PeakTime returns the analytic time-to-peak of the un-normalized waveform.
func PeakTime(rise, decay float32) float32 {
	return (rise * decay) / (decay - rise) * math32.Log(decay/rise)
}

// Normalization returns the peak value of the un-normalized waveform
// exp(-t/decay) - exp(-t/rise), evaluated at PeakTime.  Dividing by this
// makes a single spike peak at 1.  The sign follows decay - rise: it is
// negative when rise > decay, where the waveform is inverted as well, so the
// normalized kernel is still positive with peak 1.  Fails with ErrInvalidParam
// when rise == decay, because the time-to-peak is then undefined.
func Normalization(rise, decay float32) (float32, error) {
	if rise == decay {
		return 0, fmt.Errorf("%w: rise tau (%g) must differ from decay tau (%g)", ErrInvalidParam, rise, decay)
	}
	if rise <= 0 || decay <= 0 {
		return 0, fmt.Errorf("%w: time constants must be positive: rise %g decay %g", ErrInvalidParam, rise, decay)
	}
	tp := PeakTime(rise, decay)
	return math32.Exp(-tp/decay) - math32.Exp(-tp/rise), nil
}

// Value returns the normalized kernel sum at time t over all spikes in the history,
// with each spike delayed by onset.  Spikes are scanned from most recent to oldest;
// the scan stops once a spike is older than Horizon and its contribution is below
// Cutoff * norm, as older spikes can only contribute less.
func Value(t float32, spikes SpikeTimes, rise, decay, norm, onset float32) float32 {
	if spikes == nil {
		return 0
	}
	t -= onset
	minc := math32.Abs(Cutoff * norm)
	g := float32(0)
	for si := spikes.Len() - 1; si >= 0; si-- {
		d := t - spikes.At(si)
		if d < 0 {
			continue
		}
		c := math32.Exp(-d/decay) - math32.Exp(-d/rise)
		if d > Horizon && math32.Abs(c) < minc {
			break
		}
		g += c
	}
	return g / norm
}

// Params are the parameters of one bi-exponential kernel, with the normalization
// computed once at configuration time.
type Params struct {
	Rise  float32 `def:"0.5" min:"0" desc:"rise time constant in msec -- must differ from Decay"`
	Decay float32 `def:"3" min:"0" desc:"decay time constant in msec -- must differ from Rise"`
	Onset float32 `def:"0" min:"0" desc:"onset delay in msec between the spike and the start of the waveform (synaptic + conduction latency)"`

	Norm float32 `view:"-" json:"-" xml:"-" desc:"peak of the un-normalized waveform -- computed in Update"`
}

func (kp *Params) Defaults() {
	kp.Rise = 0.5
	kp.Decay = 3
	kp.Onset = 0
}

// Set sets the time constants and onset delay
func (kp *Params) Set(rise, decay, onset float32) {
	kp.Rise, kp.Decay, kp.Onset = rise, decay, onset
}

// Update must be called after any changes to parameters, to recompute Norm.
func (kp *Params) Update() error {
	nrm, err := Normalization(kp.Rise, kp.Decay)
	if err != nil {
		return err
	}
	kp.Norm = nrm
	return nil
}

// PeakTime returns the time after Onset at which a single spike peaks.
func (kp *Params) PeakTime() float32 {
	return PeakTime(kp.Rise, kp.Decay)
}

// G returns the normalized kernel sum at time t over given spike history.
func (kp *Params) G(t float32, spikes SpikeTimes) float32 {
	return Value(t, spikes, kp.Rise, kp.Decay, kp.Norm, kp.Onset)
}
