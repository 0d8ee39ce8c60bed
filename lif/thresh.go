// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import "github.com/chewxy/math32"

// ThreshParams are the adaptive spike threshold parameters, driven by
// sodium channel availability H: each spike inactivates a fraction DhSpike of
// the channels, which recover toward 1 with time constant TauH.
// The effective threshold is VTh + DVth * (1 - H).
type ThreshParams struct {
	VTh     float32 `def:"-50" desc:"baseline spike threshold in mV"`
	DhSpike float32 `def:"0.2" desc:"fraction of sodium channel availability lost per spike"`
	TauH    float32 `def:"50" min:"1" desc:"recovery time constant of availability in msec"`
	DVth    float32 `def:"10" desc:"maximum threshold increase in mV at zero availability"`
}

func (tp *ThreshParams) Defaults() {
	tp.VTh = -50
	tp.DhSpike = 0.2
	tp.TauH = 50
	tp.DVth = 10
}

func (tp *ThreshParams) Update() {
}

// HFmDt returns availability h after recovering toward 1 for dt.
// h is not clamped: rapid spiking can drive it below 0.
func (tp *ThreshParams) HFmDt(h, dt float32) float32 {
	return h + dt*(1-h)/tp.TauH
}

// VthEff returns the effective threshold for availability h and given floor
func (tp *ThreshParams) VthEff(h, floor float32) float32 {
	return math32.Max(tp.VTh+tp.DVth*(1-h), floor)
}

// FloorParams are the dynamic threshold floor parameters: each spike raises the
// floor by Delta, and it relaxes back to the baseline threshold with time
// constant Tau.  When off, the floor stays at the baseline threshold.
type FloorParams struct {
	On    bool    `desc:"use the dynamic floor"`
	Delta float32 `viewif:"On" def:"1" desc:"floor increase in mV per spike"`
	Tau   float32 `viewif:"On" def:"500" min:"1" desc:"relaxation time constant in msec"`
}

func (fp *FloorParams) Defaults() {
	fp.On = true
	fp.Delta = 1
	fp.Tau = 500
}

func (fp *FloorParams) Update() {
}

// Relax returns the floor after relaxing toward vth for dt
func (fp *FloorParams) Relax(floor, vth, dt float32) float32 {
	return floor - dt*(floor-vth)/fp.Tau
}

// FatigueParams are the hard-cap fatigue parameters: each spike adds 1,
// fatigue decays linearly at 1 / TauRec per msec, and no non-forced spike is
// emitted while fatigue exceeds Thr.
type FatigueParams struct {
	On     bool    `desc:"use fatigue"`
	Thr    float32 `viewif:"On" def:"300" desc:"fatigue level above which spontaneous spiking is suppressed"`
	TauRec float32 `viewif:"On" def:"1000" min:"1" desc:"recovery time constant in msec"`
}

func (fp *FatigueParams) Defaults() {
	fp.On = true
	fp.Thr = 300
	fp.TauRec = 1000
}

func (fp *FatigueParams) Update() {
}

// Relax returns fatigue after recovering for dt, floored at 0
func (fp *FatigueParams) Relax(fat, dt float32) float32 {
	return math32.Max(0, fat-dt/fp.TauRec)
}

// Blocked returns true if given fatigue level suppresses spiking
func (fp *FatigueParams) Blocked(fat float32) bool {
	return fp.On && fat > fp.Thr
}
