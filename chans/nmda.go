// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "github.com/chewxy/math32"

// NMDAParams control the voltage-dependent magnesium block of NMDA receptors,
// from Jahr & Stevens (1990): B(V) = 1 / (1 + Gamma * Mg * exp(-Beta * V)),
// with V in biological mV.
type NMDAParams struct {
	Gamma float32 `def:"0.33" desc:"per mM -- strength of the Mg block"`
	Beta  float32 `def:"0.062" desc:"per mV -- voltage dependence of the Mg block"`
	Mg    float32 `def:"1" desc:"extracellular magnesium concentration in mM"`
}

func (np *NMDAParams) Defaults() {
	np.Gamma = 0.33
	np.Beta = 0.062
	np.Mg = 1
}

func (np *NMDAParams) Update() {
}

// MgGFmV returns the unblocked fraction of NMDA conductance, in (0,1),
// as a function of membrane potential in mV.
func (np *NMDAParams) MgGFmV(v float32) float32 {
	return 1 / (1 + np.Gamma*np.Mg*math32.Exp(-np.Beta*v))
}
