// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"fmt"
	"reflect"

	"github.com/chewxy/math32"
	"github.com/emer/lifstdp/biexp"
	"github.com/emer/lifstdp/chans"
	"github.com/goki/ki/kit"
	"gopkg.in/yaml.v3"
)

// Receptors are the postsynaptic receptor types of a resolved synapse
type Receptors int32

//go:generate stringer -type=Receptors

var KiT_Receptors = kit.Enums.AddEnum(ReceptorsN, kit.NotBitFlag, nil)

func (ev Receptors) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Receptors) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }
func (ev Receptors) MarshalYAML() (any, error)     { return ev.String(), nil }
func (ev *Receptors) UnmarshalYAML(n *yaml.Node) error {
	return ev.FromString(n.Value)
}

// The receptor types
const (
	// AMPA are fast glutamatergic receptors
	AMPA Receptors = iota

	// NMDA are slow glutamatergic receptors, typically voltage-gated by Mg block
	NMDA

	// GABA are GABA-A inhibitory chloride receptors
	GABA

	ReceptorsN
)

// SynParams are the fixed parameters of one resolved synaptic channel:
// all anatomical contacts from one source onto one target with one receptor type.
type SynParams struct {
	Rcpt   Receptors        `desc:"receptor type"`
	Kern   biexp.Params     `view:"inline" desc:"conductance waveform time constants and onset delay (synaptic + conduction latency)"`
	E      float32          `desc:"reversal potential in mV"`
	Gbar   float32          `desc:"peak conductance in nS at weight = 1 -- also the ceiling on the instantaneous conductance"`
	VGated bool             `desc:"apply the voltage-dependent Mg block to the conductance"`
	NMDA   chans.NMDAParams `viewif:"VGated" view:"inline" desc:"Mg block parameters"`
	STDP   STDPParams       `view:"inline" desc:"spike-timing-dependent plasticity of the weight"`
}

func (sp *SynParams) Defaults() {
	sp.Rcpt = AMPA
	sp.Kern.Defaults()
	sp.E = 0
	sp.Gbar = 1
	sp.NMDA.Defaults()
	sp.STDP.Defaults()
}

// Update must be called after any changes to parameters.
// Fails if the kernel time constants are invalid.
func (sp *SynParams) Update() error {
	sp.NMDA.Update()
	sp.STDP.Update()
	if err := sp.Kern.Update(); err != nil {
		return fmt.Errorf("%v synapse: %w", sp.Rcpt, err)
	}
	return nil
}

// Synapse is one resolved synaptic channel from a sending neuron onto the
// neuron that holds it.  The sending neuron is referenced only through its
// read-only spike history.
// All variables accessible via VarByName must be float32 and start at the top.
type Synapse struct {
	Wt  float32 `desc:"synaptic weight in [0,1] -- multiplies Gbar"`
	G   float32 `desc:"current conductance in nS, in [0, Gbar]"`
	DWt float32 `desc:"last weight change from STDP"`

	Params SynParams   `desc:"fixed parameters"`
	Src    SpikeSource `desc:"sending neuron spike history"`
	Gs     []float32   `desc:"conductance recorded at each step"`

	stdpDt stdpFunc
}

var SynapseVars = []string{"Wt", "G", "DWt"}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

// NewSynapse returns a new synapse with given params (Update is called),
// from given source, with initial weight wt (clamped to [0,1]), recording
// nsteps of conductance.
func NewSynapse(sp SynParams, src SpikeSource, wt float32, nsteps int) (*Synapse, error) {
	if err := sp.Update(); err != nil {
		return nil, err
	}
	sy := &Synapse{Params: sp, Src: src}
	sy.Wt = clampWt(wt)
	sy.Gs = make([]float32, nsteps)
	sy.stdpDt = sy.Params.STDP.intervalFunc()
	return sy, nil
}

func clampWt(wt float32) float32 {
	return math32.Max(0, math32.Min(1, wt))
}

// Label returns a short description: receptor and source name
func (sy *Synapse) Label() string {
	src := "<nil>"
	if sy.Src != nil {
		src = sy.Src.Label()
	}
	return sy.Params.Rcpt.String() + ":" + src
}

// GFmSpikes computes the conductance at time t given the postsynaptic
// membrane potential vm, without updating state.
func (sy *Synapse) GFmSpikes(t, vm float32) float32 {
	sp := &sy.Params
	if sy.Src == nil {
		return 0
	}
	g := sy.Wt * sp.Gbar * sp.Kern.G(t, sy.Src.SpikeTimes())
	if sp.VGated {
		g *= sp.NMDA.MgGFmV(vm)
	}
	return math32.Max(0, math32.Min(sp.Gbar, g))
}

// Update computes the conductance at step i, time t, for postsynaptic
// membrane potential vm, and records it.
func (sy *Synapse) Update(i int, t, vm float32) {
	sy.G = sy.GFmSpikes(t, vm)
	if i >= 0 && i < len(sy.Gs) {
		sy.Gs[i] = sy.G
	}
}

// STDPUpdate applies plasticity for a postsynaptic spike at time t,
// paired against the most recent spike of the source only.
// Returns the weight change, which is 0 if STDP is off or the source
// has not spiked.
func (sy *Synapse) STDPUpdate(t float32) float32 {
	if sy.stdpDt == nil || sy.Src == nil {
		return 0
	}
	tpre, has := LastSpike(sy.Src)
	if !has {
		return 0
	}
	dw := sy.Params.STDP.DWt(sy.stdpDt(t, tpre))
	sy.Wt = clampWt(sy.Wt + dw)
	sy.DWt = dw
	return dw
}

// SetWt sets the weight, clamped to [0,1]
func (sy *Synapse) SetWt(wt float32) {
	sy.Wt = clampWt(wt)
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarByName returns the index of the variable in the Synapse, or error
func SynapseVarByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	v := reflect.ValueOf(*sy)
	return v.Field(idx).Interface().(float32)
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return sy.VarByIndex(i), nil
}
