// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/v2/timer"
)

// Circuit is a small fixed set of neurons updated in a fixed order on every
// step.  The order is load-bearing: a neuron updated later on a step sees the
// spikes emitted earlier on the same step.
type Circuit struct {
	Nm      string     `desc:"name of the circuit"`
	Neurons []*Neuron  `desc:"neurons in update order"`
	Time    Time       `desc:"timing state"`
	Monitor *Synapse   `desc:"synapse whose weight is recorded at every step, if non-nil"`
	Wts     []float32  `desc:"monitored weight at each step"`
	Timer   timer.Time `view:"-" desc:"wall-clock timer for Run"`
	Verbose bool       `desc:"log construction and run reports"`
}

// NewCircuit returns a new empty circuit with given timing
func NewCircuit(name string, tm *Time) *Circuit {
	cr := &Circuit{Nm: name, Time: *tm}
	cr.Time.Reset()
	cr.Wts = make([]float32, cr.Time.NSteps)
	return cr
}

// AddNeuron creates a neuron with given params and forced schedule, and adds it
// at the end of the update order.
func (cr *Circuit) AddNeuron(name string, np NeuronParams, forced []float32) (*Neuron, error) {
	if cr.NeuronByName(name) != nil {
		return nil, fmt.Errorf("lif.Circuit %s: neuron named %s already exists", cr.Nm, name)
	}
	nr, err := NewNeuron(name, np, forced, &cr.Time)
	if err != nil {
		return nil, err
	}
	cr.Neurons = append(cr.Neurons, nr)
	if cr.Verbose {
		p := &nr.Params
		log.Printf("%s: tau_m: %g ms  g_L: %g nS  forced spikes: %d  fAHP norm: %g  sAHP norm: %g  ADP norm: %g\n",
			name, p.TauM, p.GL, len(forced), p.FAHP.Kern.Norm, p.SAHP.Kern.Norm, p.ADP.Kern.Norm)
	}
	return nr, nil
}

// NeuronByName returns the neuron of given name, or nil
func (cr *Circuit) NeuronByName(name string) *Neuron {
	for _, nr := range cr.Neurons {
		if nr.Name == name {
			return nr
		}
	}
	return nil
}

// Connect creates a synapse with given params from src onto recv, with initial weight wt
func (cr *Circuit) Connect(src SpikeSource, recv *Neuron, sp SynParams, wt float32) (*Synapse, error) {
	sy, err := NewSynapse(sp, src, wt, cr.Time.NSteps)
	if err != nil {
		return nil, fmt.Errorf("lif.Circuit %s: synapse %s onto %s: %w", cr.Nm, sp.Rcpt, recv.Name, err)
	}
	recv.AddSyn(sy)
	if cr.Verbose {
		log.Printf("%s -> %s: gpeak: %g nS  rise: %g  decay: %g  onset: %g ms  norm: %g\n",
			sy.Label(), recv.Name, sp.Gbar, sp.Kern.Rise, sp.Kern.Decay, sp.Kern.Onset, sy.Params.Kern.Norm)
	}
	return sy, nil
}

// SetMonitor sets the synapse whose weight is recorded at each step
func (cr *Circuit) SetMonitor(sy *Synapse) {
	cr.Monitor = sy
}

// InitActs restarts the circuit: all neuron state, histories and samples are reset.
// Synaptic weights are kept.
func (cr *Circuit) InitActs() {
	cr.Time.Reset()
	for _, nr := range cr.Neurons {
		nr.InitActs()
	}
	for i := range cr.Wts {
		cr.Wts[i] = 0
	}
}

// Step runs one integration step: each neuron in order is updated and then
// recorded, then the monitored weight is recorded.  Does nothing once all
// steps have been run.
func (cr *Circuit) Step() {
	if cr.Time.Done() {
		return
	}
	i := cr.Time.Step
	t := cr.Time.T
	for _, nr := range cr.Neurons {
		nr.Update(i, t)
		nr.Record(i)
	}
	if cr.Monitor != nil {
		cr.Wts[i] = cr.Monitor.Wt
	}
	cr.Time.StepInc()
}

// Run runs all remaining steps, measuring wall-clock time
func (cr *Circuit) Run() {
	cr.Timer.Start()
	for !cr.Time.Done() {
		cr.Step()
	}
	cr.Timer.Stop()
	if cr.Verbose {
		log.Print(cr.Stats().String())
	}
}

// Stats are summary statistics of a run
type Stats struct {
	Secs   float64        `desc:"elapsed wall-clock time in seconds"`
	Steps  int            `desc:"number of steps run"`
	Dt     float32        `desc:"integration step in msec"`
	Spikes map[string]int `desc:"spike count per neuron"`
	Order  []string       `desc:"neuron names in update order"`
	FinWt  float32        `desc:"final monitored weight"`
}

// Stats returns the summary statistics of the run so far
func (cr *Circuit) Stats() Stats {
	st := Stats{Secs: cr.Timer.TotalSecs(), Steps: cr.Time.Step, Dt: cr.Time.Dt, Spikes: make(map[string]int, len(cr.Neurons))}
	for _, nr := range cr.Neurons {
		st.Spikes[nr.Name] = nr.NSpikes()
		st.Order = append(st.Order, nr.Name)
	}
	if cr.Monitor != nil {
		st.FinWt = cr.Monitor.Wt
	}
	return st
}

func (st Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Simulation time: %.3f s  steps: %d  dt: %g ms\n", st.Secs, st.Steps, st.Dt)
	for _, nm := range st.Order {
		fmt.Fprintf(&b, "%14s:\t spikes: %d\n", nm, st.Spikes[nm])
	}
	fmt.Fprintf(&b, "%14s:\t %g\n", "Final weight", st.FinWt)
	return b.String()
}

// SizeReport returns a string reporting the size of each neuron with its
// incoming synapses and recorded samples, and the total memory footprint.
func (cr *Circuit) SizeReport() string {
	var b strings.Builder
	nsyn := 0
	neurMem := 0
	synMem := 0
	for _, nr := range cr.Neurons {
		nmem := int(unsafe.Sizeof(Neuron{})) + nr.Samples.Len()*(6*4+1) + nr.NSpikes()*4
		neurMem += nmem
		smem := 0
		for _, sy := range nr.Syns() {
			smem += int(unsafe.Sizeof(Synapse{})) + len(sy.Gs)*4
		}
		nsyn += len(nr.Syns())
		synMem += smem
		fmt.Fprintf(&b, "%14s:\t NeurMem: %v \t Syns: %d\t SynMem: %v\n", nr.Name, (datasize.ByteSize)(nmem).HumanReadable(), len(nr.Syns()), (datasize.ByteSize)(smem).HumanReadable())
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", cr.Nm, len(cr.Neurons), (datasize.ByteSize)(neurMem).HumanReadable(), nsyn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}
