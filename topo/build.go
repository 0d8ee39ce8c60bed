// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topo

import (
	"fmt"

	"github.com/emer/lifstdp/lif"
)

// RcptParams are the per-receptor synapse parameters that anatomy does not
// determine: initial weight, reversal potential, and plasticity.
type RcptParams struct {
	Wt   float32        `desc:"initial weight in [0,1]"`
	E    float32        `desc:"reversal potential in mV"`
	STDP lif.STDPParams `view:"inline" desc:"plasticity of synapses with this receptor"`
}

// ReceptorTable maps each receptor type to its parameters
type ReceptorTable map[lif.Receptors]RcptParams

// DefaultReceptors returns the standard table: all weights 0.5, reversal 0 mV
// for glutamatergic and -70 mV for GABA-ergic receptors, and Hebbian STDP
// on AMPA only.
func DefaultReceptors() ReceptorTable {
	hebb := lif.STDPParams{}
	hebb.Defaults()
	hebb.Type = lif.Hebbian
	none := lif.STDPParams{}
	none.Defaults()
	return ReceptorTable{
		lif.AMPA: {Wt: 0.5, E: 0, STDP: hebb},
		lif.NMDA: {Wt: 0.5, E: 0, STDP: none},
		lif.GABA: {Wt: 0.5, E: -70, STDP: none},
	}
}

// Weights are initial weight overrides per receiving neuron, then per sending
// neuron.  A pair that is present replaces the receptor default weight for
// every channel between the two.
type Weights map[string]map[string]float32

// Wt returns the override for the channel from -> to, if any.  Safe on nil.
func (ws Weights) Wt(to, from string) (float32, bool) {
	wt, ok := ws[to][from]
	return wt, ok
}

// SynParams returns the synapse parameters and initial weight for a resolved
// channel.  The weight comes from wts when it has the (To, From) pair, else
// from the receptor table.  wts may be nil.
func (tb ReceptorTable) SynParams(rs *Resolved, wts Weights) (lif.SynParams, float32, error) {
	rp, ok := tb[rs.Rcpt]
	if !ok {
		return lif.SynParams{}, 0, fmt.Errorf("topo: no receptor parameters for %v", rs.Rcpt)
	}
	sp := lif.SynParams{}
	sp.Defaults()
	sp.Rcpt = rs.Rcpt
	sp.Kern.Set(rs.Rise, rs.Decay, rs.Onset)
	sp.E = rp.E
	sp.Gbar = rs.GPeak
	sp.VGated = rs.VGated
	sp.STDP = rp.STDP
	wt := rp.Wt
	if ow, has := wts.Wt(rs.To, rs.From); has {
		if ow < 0 || ow > 1 {
			return lif.SynParams{}, 0, fmt.Errorf("topo: weight override %s -> %s must be in [0,1]: %g", rs.From, rs.To, ow)
		}
		wt = ow
	}
	return sp, wt, nil
}

// Build creates one Synapse per resolved channel on the receiving neuron
// of the circuit, in the order given, with initial weights from tb unless
// overridden in wts (may be nil).  Returns the new synapses.
func Build(cr *lif.Circuit, res []Resolved, tb ReceptorTable, wts Weights) ([]*lif.Synapse, error) {
	syns := make([]*lif.Synapse, 0, len(res))
	for i := range res {
		rs := &res[i]
		src := cr.NeuronByName(rs.From)
		if src == nil {
			return nil, fmt.Errorf("topo.Build: sending neuron %s not found in circuit %s", rs.From, cr.Nm)
		}
		recv := cr.NeuronByName(rs.To)
		if recv == nil {
			return nil, fmt.Errorf("topo.Build: receiving neuron %s not found in circuit %s", rs.To, cr.Nm)
		}
		sp, wt, err := tb.SynParams(rs, wts)
		if err != nil {
			return nil, err
		}
		sy, err := cr.Connect(src, recv, sp, wt)
		if err != nil {
			return nil, err
		}
		syns = append(syns, sy)
	}
	return syns, nil
}

// FindSyn returns the synapse on recv from the named source with given
// receptor, or nil.
func FindSyn(recv *lif.Neuron, from string, rcpt lif.Receptors) *lif.Synapse {
	for _, sy := range recv.Syns() {
		if sy.Params.Rcpt == rcpt && sy.Src != nil && sy.Src.Label() == from {
			return sy
		}
	}
	return nil
}
