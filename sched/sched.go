// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sched generates forced spike schedules: ascending spike times in msec.
package sched

import (
	"fmt"

	"github.com/goki/ki/kit"
	"gopkg.in/yaml.v3"
)

// Regular returns n spikes every period msec, the first at start
func Regular(n int, period, start float32) []float32 {
	if n <= 0 {
		return nil
	}
	st := make([]float32, n)
	for i := range st {
		st[i] = start + float32(i)*period
	}
	return st
}

// Burst returns n spikes at the given inter-spike interval, the first at isi
func Burst(n int, isi float32) []float32 {
	return Regular(n, isi, isi)
}

// Shift returns a copy of times with delta added to each
func Shift(times []float32, delta float32) []float32 {
	if times == nil {
		return nil
	}
	st := make([]float32, len(times))
	for i, t := range times {
		st[i] = t + delta
	}
	return st
}

// Ascending returns true if times never decrease
func Ascending(times []float32) bool {
	for i := 1; i < len(times); i++ {
		if times[i] < times[i-1] {
			return false
		}
	}
	return true
}

// Modes are the input drive patterns of the source neuron
type Modes int32

//go:generate stringer -type=Modes

var KiT_Modes = kit.Enums.AddEnum(ModesN, kit.NotBitFlag, nil)

func (ev Modes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Modes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }
func (ev Modes) MarshalYAML() (any, error)     { return ev.String(), nil }
func (ev *Modes) UnmarshalYAML(n *yaml.Node) error {
	return ev.FromString(n.Value)
}

const (
	// LongRegular drives a spike every Period msec over the first
	// three quarters of the run
	LongRegular Modes = iota

	// Single is one spike at Period msec
	Single

	// ShortBurst is 10 spikes at 5 msec intervals
	ShortBurst

	// LongBurst is 200 spikes at 10 msec intervals
	LongBurst

	ModesN
)

// Params configure the source drive and the feedback schedule derived from it
type Params struct {
	Mode      Modes   `desc:"drive pattern"`
	Period    float32 `def:"100" desc:"interval in msec for LongRegular, and time of the Single spike"`
	Frac      float32 `def:"0.75" desc:"fraction of the run covered by LongRegular"`
	Recurrent bool    `def:"true" desc:"feedback follows the source after FbDelay, else after FbLag"`
	FbDelay   float32 `def:"3" desc:"recurrent feedback delay in msec"`
	FbLag     float32 `def:"150" desc:"non-recurrent feedback lag in msec"`
}

func (sp *Params) Defaults() {
	sp.Mode = LongRegular
	sp.Period = 100
	sp.Frac = 0.75
	sp.Recurrent = true
	sp.FbDelay = 3
	sp.FbLag = 150
}

// Validate returns an error for parameters that cannot produce a schedule
func (sp *Params) Validate() error {
	switch {
	case sp.Mode < 0 || sp.Mode >= ModesN:
		return fmt.Errorf("sched: invalid mode: %v", sp.Mode)
	case sp.Period <= 0:
		return fmt.Errorf("sched: period must be positive: %g", sp.Period)
	case sp.Frac < 0 || sp.Frac > 1:
		return fmt.Errorf("sched: frac must be in [0,1]: %g", sp.Frac)
	case sp.FbDelay < 0 || sp.FbLag < 0:
		return fmt.Errorf("sched: feedback delay (%g) and lag (%g) must not be negative", sp.FbDelay, sp.FbLag)
	}
	return nil
}

// Source returns the source schedule for a run of dur msec
func (sp *Params) Source(dur float32) []float32 {
	switch sp.Mode {
	case Single:
		return []float32{sp.Period}
	case ShortBurst:
		return Burst(10, 5)
	case LongBurst:
		return Burst(200, 10)
	}
	n := int(sp.Frac * dur / sp.Period)
	return Regular(n, sp.Period, sp.Period)
}

// Feedback returns the feedback interneuron schedule, shifted from src
func (sp *Params) Feedback(src []float32) []float32 {
	if sp.Recurrent {
		return Shift(src, sp.FbDelay)
	}
	return Shift(src, sp.FbLag)
}

// Bursting returns true for the burst modes, which run without feedback inhibition
func (sp *Params) Bursting() bool {
	return sp.Mode == ShortBurst || sp.Mode == LongBurst
}
