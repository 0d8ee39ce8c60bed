// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package topo builds circuit connectivity from anatomical contacts.

A Contact describes a bundle of synaptic contacts of one receptor type from
one source neuron onto one target: postsynaptic density area, per-receptor
conductance, waveform time constants, and the conduction geometry that
determines the onset delay.  Resolve collapses all contacts sharing
(target, receptor, source) into one Resolved channel, and Build attaches
the resolved channels to a lif.Circuit as Synapses.
*/
package topo

import (
	"fmt"
	"math"
	"sort"

	"github.com/emer/lifstdp/lif"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PSDUnitArea is the postsynaptic density area in um^2 occupied by one receptor cluster
const PSDUnitArea = 0.0086

// VGatedComp multiplies the peak conductance of voltage-gated contacts,
// compensating for the Mg block at rest.
const VGatedComp = 5

// quantEps absorbs float rounding in the area / PSDUnitArea quotient,
// so that an exact multiple is not truncated to one less.
const quantEps = 1.0e-4

// Contact is one anatomical bundle of synaptic contacts
type Contact struct {
	From       string        `desc:"name of the sending neuron"`
	To         string        `desc:"name of the receiving neuron"`
	Rcpt       lif.Receptors `desc:"receptor type"`
	PSDArea    float32       `desc:"postsynaptic density area in um^2"`
	GRec       float32       `desc:"conductance per receptor cluster in nS"`
	Rise       float32       `desc:"rise time constant in msec"`
	Decay      float32       `desc:"decay time constant in msec"`
	HillocDist float32       `desc:"distance from the contact to the axon hillock in um"`
	Velocity   float32       `desc:"conduction velocity in m/s"`
	SynDelay   float32       `desc:"synaptic transmission delay in msec"`
	VGated     bool          `desc:"receptor is voltage-gated by the Mg block"`
}

// Quantity returns the number of receptor clusters in the contact area
func (ct *Contact) Quantity() int {
	return int(math.Floor(float64(ct.PSDArea)/PSDUnitArea + quantEps))
}

// GPeak returns the peak conductance in nS of the whole contact
func (ct *Contact) GPeak() float32 {
	g := float32(ct.Quantity()) * ct.GRec
	if ct.VGated {
		g *= VGatedComp
	}
	return g
}

// Onset returns the onset delay in msec: synaptic delay plus conduction time
// over the hillock distance.
func (ct *Contact) Onset() float32 {
	if ct.Velocity <= 0 {
		return ct.SynDelay
	}
	return ct.SynDelay + ct.HillocDist*1.0e-6/ct.Velocity*1000
}

// Validate returns an error if the contact cannot produce a valid synapse
func (ct *Contact) Validate() error {
	switch {
	case ct.From == "" || ct.To == "":
		return fmt.Errorf("topo.Contact: missing neuron name: %q -> %q", ct.From, ct.To)
	case ct.Rcpt < 0 || ct.Rcpt >= lif.ReceptorsN:
		return fmt.Errorf("topo.Contact %s -> %s: invalid receptor: %v", ct.From, ct.To, ct.Rcpt)
	case ct.PSDArea < 0 || ct.GRec < 0:
		return fmt.Errorf("topo.Contact %s -> %s: negative area or conductance", ct.From, ct.To)
	}
	return nil
}

// Resolved is one aggregated synaptic channel: all contacts sharing
// (target, receptor, source).
type Resolved struct {
	From   string        `desc:"name of the sending neuron"`
	To     string        `desc:"name of the receiving neuron"`
	Rcpt   lif.Receptors `desc:"receptor type"`
	Rise   float32       `desc:"median rise time constant in msec"`
	Decay  float32       `desc:"median decay time constant in msec"`
	Onset  float32       `desc:"median onset delay in msec"`
	GPeak  float32       `desc:"summed peak conductance in nS"`
	VGated bool          `desc:"any contact is voltage-gated"`
	N      int           `desc:"number of contacts aggregated"`
}

type resKey struct {
	to, from string
	rcpt     lif.Receptors
}

// Resolve groups contacts by (target, receptor, source), in order of first
// appearance, taking the median of rise, decay and onset, the sum of peak
// conductances, and voltage-gating if any contact is gated.
func Resolve(contacts []Contact) ([]Resolved, error) {
	var order []resKey
	groups := make(map[resKey][]*Contact)
	for i := range contacts {
		ct := &contacts[i]
		if err := ct.Validate(); err != nil {
			return nil, err
		}
		k := resKey{to: ct.To, from: ct.From, rcpt: ct.Rcpt}
		if _, has := groups[k]; !has {
			order = append(order, k)
		}
		groups[k] = append(groups[k], ct)
	}
	res := make([]Resolved, 0, len(order))
	for _, k := range order {
		cts := groups[k]
		n := len(cts)
		rise := make([]float64, n)
		decay := make([]float64, n)
		onset := make([]float64, n)
		gpk := make([]float64, n)
		rs := Resolved{From: k.from, To: k.to, Rcpt: k.rcpt, N: n}
		for i, ct := range cts {
			rise[i] = float64(ct.Rise)
			decay[i] = float64(ct.Decay)
			onset[i] = float64(ct.Onset())
			gpk[i] = float64(ct.GPeak())
			rs.VGated = rs.VGated || ct.VGated
		}
		rs.Rise = float32(Median(rise))
		rs.Decay = float32(Median(decay))
		rs.Onset = float32(Median(onset))
		rs.GPeak = float32(floats.Sum(gpk))
		res = append(res, rs)
	}
	return res, nil
}

// Median returns the median of x: the middle value for an odd count and the
// mean of the two middle values for an even count.  x is sorted in place.
// Returns 0 for empty x.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sort.Float64s(x)
	if n%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, x, nil)
	}
	return stat.Mean(x[n/2-1:n/2+1], nil)
}
