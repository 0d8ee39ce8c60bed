// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the intrinsic conductance channels of a conductance-based
point neuron, based on the standard equivalent RC circuit model of a neuron
(i.e., basic Ohms law equations), in biological units (mV, nS, pF, msec).
Includes leak, fast and slow after-hyperpolarization (AHP), and
after-depolarization (ADP) channels, plus the voltage-dependent Mg block
of NMDA receptors.
*/
package chans

// Chans are the intrinsic ion channels of the point neuron.
// Used both for reversal potentials and for instantaneous conductances.
type Chans struct {
	L    float32 `desc:"constant leak channels -- reversal is the resting potential"`
	FAHP float32 `desc:"fast after-hyperpolarization (Ca-gated K+) channels"`
	SAHP float32 `desc:"slow after-hyperpolarization (Ca-gated K+) channels"`
	ADP  float32 `desc:"after-depolarization (persistent Na+ / CAN) channels"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(l, fahp, sahp, adp float32) {
	ch.L, ch.FAHP, ch.SAHP, ch.ADP = l, fahp, sahp, adp
}

// Zero sets all values to 0
func (ch *Chans) Zero() {
	ch.SetAll(0, 0, 0, 0)
}

// Sum returns the sum over all channels
func (ch *Chans) Sum() float32 {
	return ch.L + ch.FAHP + ch.SAHP + ch.ADP
}

// Dot returns the sum of the products of corresponding channel values,
// e.g., conductance times reversal potential
func (ch *Chans) Dot(oth *Chans) float32 {
	return ch.L*oth.L + ch.FAHP*oth.FAHP + ch.SAHP*oth.SAHP + ch.ADP*oth.ADP
}

// Inet returns the total (outward-positive) current g_x * (vm - E_x) over the
// non-leak channels, with ch as conductances and erev as reversal potentials.
func (ch *Chans) Inet(vm float32, erev *Chans) float32 {
	return ch.FAHP*(vm-erev.FAHP) + ch.SAHP*(vm-erev.SAHP) + ch.ADP*(vm-erev.ADP)
}
