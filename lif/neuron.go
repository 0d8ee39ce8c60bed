// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"fmt"
	"log"
	"reflect"

	"github.com/emer/lifstdp/biexp"
)

// Neuron is a single-compartment conductance-based integrate-and-fire neuron,
// with spike-triggered AHP / ADP adaptation, an adaptive threshold, and STDP
// applied to its incoming synapses at each of its spikes.
// All variables accessible via VarByName must be float32 and start at the top,
// in contiguous order.
type Neuron struct {
	Vm       float32 `desc:"membrane potential in mV"`
	VthEff   float32 `desc:"effective adaptive spike threshold in mV"`
	H        float32 `desc:"sodium channel availability -- not clamped"`
	VthFloor float32 `desc:"dynamic threshold floor in mV"`
	Fatigue  float32 `desc:"hard-cap fatigue level"`
	ADPAvail float32 `desc:"ADP resource availability -- in [0,1] after recovery, can be below 0 right after a spike"`
	GfAHP    float32 `desc:"fast AHP conductance in nS"`
	GsAHP    float32 `desc:"slow AHP conductance in nS"`
	GADP     float32 `desc:"ADP conductance in nS"`
	DV       float32 `desc:"last forward Euler membrane delta -- 0 for exponential schemes"`
	Spike    float32 `desc:"1 if the neuron spiked on the current step, else 0"`

	Name         string       `desc:"name of the neuron, e.g., PyrOut"`
	Params       NeuronParams `desc:"fixed parameters"`
	Dt           float32      `desc:"integration step in msec"`
	LastSpikeIdx int          `desc:"step index of the last spike, -1 if none"`
	LastSpikeT   float32      `desc:"time of the last spike in msec"`
	ResetDone    bool         `desc:"post-spike reset has been applied"`
	VmPreSpike   float32      `desc:"membrane potential right before the last spike, for NoReset"`
	Samples      Samples      `desc:"per-step recorded traces"`

	spikes   SpikeHistory
	schedule []float32
	forced   []float32
	syns     []*Synapse
	updt     func(nr *Neuron, i int, t float32)
	adpG     func(nr *Neuron, lin float32) float32
}

// NeuronVars are the names of the float32 variables at the top of Neuron
var NeuronVars = []string{"Vm", "VthEff", "H", "VthFloor", "Fatigue", "ADPAvail", "GfAHP", "GsAHP", "GADP", "DV", "Spike"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

// NoSpikeT is the last-spike time of a neuron that has not spiked yet,
// far enough back that the refractory period never applies.
const NoSpikeT = -1000

// Samples are the traces recorded at each step
type Samples struct {
	Vm       []float32 `desc:"membrane potential in mV"`
	GfAHP    []float32 `desc:"fast AHP conductance in nS"`
	GsAHP    []float32 `desc:"slow AHP conductance in nS"`
	GADP     []float32 `desc:"ADP conductance in nS"`
	VthAdapt []float32 `desc:"effective threshold in mV"`
	DV       []float32 `desc:"forward Euler membrane delta"`
	Spike    []bool    `desc:"spike train"`
}

// Alloc allocates all traces for nsteps
func (sm *Samples) Alloc(nsteps int) {
	sm.Vm = make([]float32, nsteps)
	sm.GfAHP = make([]float32, nsteps)
	sm.GsAHP = make([]float32, nsteps)
	sm.GADP = make([]float32, nsteps)
	sm.VthAdapt = make([]float32, nsteps)
	sm.DV = make([]float32, nsteps)
	sm.Spike = make([]bool, nsteps)
}

// Len returns the number of steps
func (sm *Samples) Len() int {
	return len(sm.Vm)
}

// NewNeuron returns a new neuron with given params (Update is called), forced spike
// schedule in ascending msec, and integration step and sample length from tm.
func NewNeuron(name string, np NeuronParams, forced []float32, tm *Time) (*Neuron, error) {
	if err := np.Update(); err != nil {
		return nil, fmt.Errorf("neuron %s: %w", name, err)
	}
	for i := 1; i < len(forced); i++ {
		if forced[i] < forced[i-1] {
			return nil, fmt.Errorf("neuron %s: %w: forced spike schedule not ascending at %d", name, biexp.ErrInvalidParam, i)
		}
	}
	nr := &Neuron{Name: name, Params: np, Dt: tm.Dt}
	nr.schedule = append([]float32(nil), forced...)
	nr.Samples.Alloc(tm.NSteps)
	if np.Spike.Reset == ClassicalReset {
		nr.updt = (*Neuron).UpdateClassical
	} else {
		nr.updt = (*Neuron).UpdateResetOpts
	}
	if np.ADPSat == ADPResource {
		nr.adpG = (*Neuron).adpResource
	} else {
		nr.adpG = (*Neuron).adpClip
	}
	nr.InitActs()
	return nr, nil
}

// InitActs initializes all state to the starting values, clears the spike
// history and samples, and restores the forced spike schedule.
func (nr *Neuron) InitActs() {
	np := &nr.Params
	nr.Vm = np.VRest
	nr.H = 1
	nr.VthFloor = np.Thr.VTh
	nr.VthEff = np.Thr.VTh
	nr.Fatigue = 0
	nr.ADPAvail = 1
	nr.GfAHP, nr.GsAHP, nr.GADP = 0, 0, 0
	nr.DV = 0
	nr.Spike = 0
	nr.LastSpikeIdx = -1
	nr.LastSpikeT = NoSpikeT
	nr.ResetDone = true
	nr.VmPreSpike = np.VRest
	nr.spikes.reset()
	nr.forced = append(nr.forced[:0], nr.schedule...)
	nr.Samples.Alloc(nr.Samples.Len())
	for _, sy := range nr.syns {
		for i := range sy.Gs {
			sy.Gs[i] = 0
		}
		sy.G = 0
		sy.DWt = 0
	}
}

// Label returns the name, as a SpikeSource
func (nr *Neuron) Label() string {
	return nr.Name
}

// SpikeTimes returns the read-only view of the spike history, as a SpikeSource
func (nr *Neuron) SpikeTimes() biexp.SpikeTimes {
	return &nr.spikes
}

// SpikeTrain returns a copy of the spike times in msec
func (nr *Neuron) SpikeTrain() []float32 {
	return nr.spikes.Times()
}

// NSpikes returns the number of spikes so far
func (nr *Neuron) NSpikes() int {
	return nr.spikes.Len()
}

// NForced returns the number of forced spikes still pending
func (nr *Neuron) NForced() int {
	return len(nr.forced)
}

// SetSyns sets the incoming synapses
func (nr *Neuron) SetSyns(syns []*Synapse) {
	nr.syns = syns
}

// AddSyn adds an incoming synapse
func (nr *Neuron) AddSyn(sy *Synapse) {
	nr.syns = append(nr.syns, sy)
}

// Syns returns the incoming synapses, in the order they were added
func (nr *Neuron) Syns() []*Synapse {
	return nr.syns
}

// Update integrates the neuron over step i at time t (msec): recovers fatigue,
// updates all conductances, integrates Vm under the reset policy, updates the
// threshold, and emits at most one spike.
func (nr *Neuron) Update(i int, t float32) {
	np := &nr.Params
	nr.Spike = 0
	if np.Fatigue.On {
		nr.Fatigue = np.Fatigue.Relax(nr.Fatigue, nr.Dt)
	}
	nr.GFmSpikes(i, t)
	nr.updt(nr, i, t)
}

// GFmSpikes updates the synaptic conductances (voltage dependence uses the
// current Vm) and the spike-triggered intrinsic conductances at step i, time t.
func (nr *Neuron) GFmSpikes(i int, t float32) {
	np := &nr.Params
	for _, sy := range nr.syns {
		sy.Update(i, t, nr.Vm)
	}
	st := &nr.spikes
	nr.GfAHP = np.ahpFn(&np.FAHP, np.FAHP.Gbar*np.FAHP.Kern.G(t, st))
	nr.GsAHP = np.ahpFn(&np.SAHP, np.SAHP.Gbar*np.SAHP.Kern.G(t, st))
	nr.GADP = nr.adpG(nr, np.ADP.Gbar*np.ADP.Kern.G(t, st))
}

func (nr *Neuron) adpClip(lin float32) float32 {
	return nr.Params.ADP.Clip(lin)
}

func (nr *Neuron) adpResource(lin float32) float32 {
	nr.ADPAvail = nr.Params.ADPRes.Recover(nr.ADPAvail, nr.Dt)
	return nr.ADPAvail * lin
}

// Conds returns the current conductances for integration
func (nr *Neuron) Conds() Conds {
	cd := Conds{}
	cd.Intr.SetAll(nr.Params.GL, nr.GfAHP, nr.GsAHP, nr.GADP)
	for _, sy := range nr.syns {
		cd.AddSyn(sy.G, sy.Params.E)
	}
	return cd
}

// UpdateResetOpts is the membrane update for the NoReset, ResetOnset and
// ResetAfter policies: integration continues through the refractory period
// from the spike marker value, and the reset is applied on onset or after.
func (nr *Neuron) UpdateResetOpts(i int, t float32) {
	np := &nr.Params
	if np.Spike.Reset == ResetOnset && nr.LastSpikeIdx >= 0 && nr.LastSpikeIdx+1 == i {
		nr.Vm = np.Spike.VReset
	}
	cd := nr.Conds()
	nr.Vm, nr.DV = np.vmFn(np, nr.Vm, &cd, nr.Dt)
	nr.Samples.DV[i] = nr.DV
	nr.ThreshUpdt(i)
	if t < nr.LastSpikeT+np.Spike.Refract {
		return
	}
	if np.Spike.Reset != ResetOnset && !nr.ResetDone {
		base := np.Spike.VReset
		if np.Spike.Reset == NoReset {
			base = nr.VmPreSpike
		}
		nr.Vm = base + nr.DV
		nr.ResetDone = true
	}
	nr.SpikeCheck(i, t)
}

// UpdateClassical is the membrane update for ClassicalReset: Vm is clamped to
// VReset throughout the refractory period, with no integration or threshold
// update, and integrated by forward Euler otherwise.
func (nr *Neuron) UpdateClassical(i int, t float32) {
	np := &nr.Params
	cd := nr.Conds()
	if t < nr.LastSpikeT+np.Spike.Refract {
		nr.Vm = np.Spike.VReset
		nr.Samples.VthAdapt[i] = nr.VthEff
		return
	}
	nr.Vm, nr.DV = np.VmForwardEuler(nr.Vm, &cd, nr.Dt)
	nr.Samples.DV[i] = nr.DV
	nr.ThreshUpdt(i)
	nr.SpikeCheck(i, t)
}

// ThreshUpdt recovers availability, relaxes the floor, and records the
// effective threshold at step i.
func (nr *Neuron) ThreshUpdt(i int) {
	np := &nr.Params
	nr.H = np.Thr.HFmDt(nr.H, nr.Dt)
	if np.Floor.On {
		nr.VthFloor = np.Floor.Relax(nr.VthFloor, np.Thr.VTh, nr.Dt)
	}
	nr.VthEff = np.Thr.VthEff(nr.H, nr.VthFloor)
	nr.Samples.VthAdapt[i] = nr.VthEff
}

// SpikeCheck emits a spike at step i, time t, if one is due: a pending forced
// spike whose time has come fires first, at its scheduled time, regardless of
// voltage and fatigue.  Otherwise fatigue above threshold suppresses spiking,
// else Vm at or above the effective threshold spikes.
func (nr *Neuron) SpikeCheck(i int, t float32) {
	np := &nr.Params
	if len(nr.forced) > 0 && t >= nr.forced[0] {
		ft := nr.forced[0]
		nr.forced = nr.forced[1:]
		nr.SpikeAt(i, ft)
		return
	}
	if np.Fatigue.Blocked(nr.Fatigue) {
		return
	}
	if nr.Vm >= nr.VthEff {
		nr.SpikeAt(i, t)
	}
}

// SpikeAt registers a spike at step i, time t, and applies all its effects:
// history, reset bookkeeping, fatigue, threshold, floor, ADP depletion, and STDP
// on every incoming synapse.
func (nr *Neuron) SpikeAt(i int, t float32) {
	np := &nr.Params
	if lt, has := nr.spikes.Last(); has && t < lt {
		log.Printf("lif.Neuron %s: spike at %g before last spike %g, using last\n", nr.Name, t, lt)
		t = lt
	}
	nr.Spike = 1
	nr.Samples.Spike[i] = true
	nr.LastSpikeIdx = i
	nr.LastSpikeT = t
	nr.spikes.add(t)
	switch np.Spike.Reset {
	case ClassicalReset:
		nr.Vm = np.Spike.VReset
	case NoReset:
		nr.VmPreSpike = nr.Vm
		nr.Vm = np.Spike.VSpike
	default:
		nr.Vm = np.Spike.VSpike
	}
	nr.ResetDone = false
	if np.Fatigue.On {
		nr.Fatigue += 1
	}
	nr.H -= np.Thr.DhSpike
	if np.Floor.On {
		nr.VthFloor += np.Floor.Delta
	}
	if np.ADPSat == ADPResource {
		nr.ADPAvail -= np.ADPRes.Deplete
	}
	if np.STDPOn {
		for _, sy := range nr.syns {
			sy.STDPUpdate(t)
		}
	}
}

// Record stores the membrane potential and the intrinsic conductances
// at step i.  It does not change any state.
func (nr *Neuron) Record(i int) {
	sm := &nr.Samples
	sm.Vm[i] = nr.Vm
	sm.GfAHP[i] = nr.GfAHP
	sm.GsAHP[i] = nr.GsAHP
	sm.GADP[i] = nr.GADP
}

func (nr *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarByName returns the index of the variable in the Neuron, or error
func NeuronVarByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nr *Neuron) VarByIndex(idx int) float32 {
	v := reflect.ValueOf(*nr)
	return v.Field(idx).Interface().(float32)
}

// VarByName returns variable by name, or error
func (nr *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return nr.VarByIndex(i), nil
}
