// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/emer/lifstdp/biexp"
	"github.com/emer/lifstdp/chans"
	"github.com/goki/ki/kit"
	"gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the membrane, adaptation and spiking params of the
//  conductance-based integrate-and-fire neuron

// NeuronParams contains all the parameters for the conductance-based
// integrate-and-fire neuron, in biological units: mV, nS, pF, GOhm, msec.
// It is copied into each Neuron at construction and never changed after that.
type NeuronParams struct {
	VRest   float32       `def:"-70" desc:"resting potential in mV -- reversal of the leak"`
	Rm      float32       `def:"0.1" min:"0" desc:"membrane resistance in GOhm (100-300 MOhm for pyramidal cells)"`
	Cm      float32       `def:"100" min:"0" desc:"membrane capacitance in pF (100-300 pF for pyramidal cells)"`
	Integ   Integrators   `desc:"numerical integration scheme for the membrane potential -- ClassicalReset forces ForwardEuler"`
	Spike   SpikeParams   `view:"inline" desc:"spike, reset and refractory parameters"`
	Erev    chans.Chans   `view:"inline" desc:"reversal potentials in mV -- L is set to VRest in Update"`
	FAHP    AdaptParams   `view:"inline" desc:"fast after-hyperpolarization"`
	SAHP    AdaptParams   `view:"inline" desc:"slow after-hyperpolarization"`
	ADP     AdaptParams   `view:"inline" desc:"after-depolarization"`
	Sat     SatModels     `desc:"saturation model for the AHP conductances"`
	ADPSat  ADPModels     `desc:"saturation model for the ADP conductance"`
	ADPRes  ADPResParams  `viewif:"ADPSat=ADPResource" view:"inline" desc:"ADP resource availability parameters"`
	Fatigue FatigueParams `view:"inline" desc:"hard-cap spiking fatigue"`
	Thr     ThreshParams  `view:"inline" desc:"adaptive threshold from sodium channel inactivation"`
	Floor   FloorParams   `view:"inline" desc:"dynamic threshold floor"`
	STDPOn  bool          `def:"true" desc:"apply STDP to incoming synapses at each spike"`

	TauM float32 `view:"-" json:"-" xml:"-" desc:"membrane time constant = Rm * Cm, msec"`
	GL   float32 `view:"-" json:"-" xml:"-" desc:"leak conductance = 1 / Rm, nS"`

	vmFn  vmFunc
	ahpFn satFunc
}

func (np *NeuronParams) Defaults() {
	np.VRest = -70
	np.Rm = 0.1
	np.Cm = 100
	np.Integ = ExpEulerCm
	np.Spike.Defaults()
	np.Erev.SetAll(-70, -90, -90, -20)
	np.FAHP.Defaults()
	np.FAHP.Kern.Set(2.5, 30, 0)
	np.FAHP.Gbar = 3
	np.FAHP.GMax = 5
	np.FAHP.Kd = 1.5
	np.SAHP.Defaults()
	np.SAHP.Kern.Set(30, 300, 0)
	np.SAHP.Gbar = 1
	np.SAHP.GMax = 2
	np.SAHP.Kd = 0.3
	np.ADP.Defaults()
	np.ADP.Kern.Set(20, 200, 0)
	np.ADP.Gbar = 0.3
	np.ADP.SatMult = 2
	np.Sat = SatClip
	np.ADPSat = ADPClip
	np.ADPRes.Defaults()
	np.Fatigue.Defaults()
	np.Thr.Defaults()
	np.Floor.Defaults()
	np.STDPOn = true
}

// Update must be called after any changes to parameters.
// It computes derived values and binds the integration and saturation
// functions selected by the model options, so they are not re-dispatched
// on every step.
func (np *NeuronParams) Update() error {
	if np.Rm <= 0 || np.Cm <= 0 {
		return fmt.Errorf("%w: Rm (%g) and Cm (%g) must be positive", biexp.ErrInvalidParam, np.Rm, np.Cm)
	}
	np.TauM = np.Rm * np.Cm
	np.GL = 1 / np.Rm
	np.Erev.L = np.VRest
	np.Spike.Update()
	np.ADPRes.Update()
	np.Fatigue.Update()
	np.Thr.Update()
	np.Floor.Update()
	if err := np.FAHP.Update(); err != nil {
		return fmt.Errorf("fAHP: %w", err)
	}
	if err := np.SAHP.Update(); err != nil {
		return fmt.Errorf("sAHP: %w", err)
	}
	if err := np.ADP.Update(); err != nil {
		return fmt.Errorf("ADP: %w", err)
	}
	if np.Spike.Reset == ClassicalReset {
		np.Integ = ForwardEuler
	}
	switch np.Integ {
	case ExpEulerRm:
		np.vmFn = (*NeuronParams).VmExpEulerRm
	case ExpEulerCm:
		np.vmFn = (*NeuronParams).VmExpEulerCm
	default:
		np.vmFn = (*NeuronParams).VmForwardEuler
	}
	switch np.Sat {
	case SatSigmoid:
		np.ahpFn = (*AdaptParams).Sigmoid
	default:
		np.ahpFn = (*AdaptParams).Clip
	}
	return nil
}

// InterneuronDefaults turns off the slow AHP and the ADP, which
// fast-spiking interneurons lack.
func (np *NeuronParams) InterneuronDefaults() {
	np.SAHP.Gbar = 0
	np.ADP.Gbar = 0
}

// vmFunc integrates vm over one step of size dt given conductances,
// returning the new vm and the delta (0 for exponential schemes).
type vmFunc func(np *NeuronParams, vm float32, cd *Conds, dt float32) (float32, float32)

// satFunc saturates a linear conductance
type satFunc func(ap *AdaptParams, lin float32) float32

// VmForwardEuler integrates by forward Euler:
// dV = dt / TauM * (-(Vm - VRest) - Rm * Inet)
func (np *NeuronParams) VmForwardEuler(vm float32, cd *Conds, dt float32) (float32, float32) {
	inet := cd.Inet(vm, &np.Erev)
	dv := (-(vm - np.VRest) - np.Rm*inet) * dt / np.TauM
	return vm + dv, dv
}

// VmExpEulerRm integrates by exponential Euler, treating conductances as constant
// over the step, with the effective time constant formulated from Rm:
// TauEff = TauM / (1 + Rm * G), VInf = (sum g*E + VRest / Rm) / (G + 1 / Rm)
func (np *NeuronParams) VmExpEulerRm(vm float32, cd *Conds, dt float32) (float32, float32) {
	g := cd.GAct()
	tauEff := np.TauM / (1 + np.Rm*g)
	vinf := (cd.GEAct(&np.Erev) + np.VRest/np.Rm) / (g + 1/np.Rm)
	return vinf + (vm-vinf)*math32.Exp(-dt/tauEff), 0
}

// VmExpEulerCm integrates by exponential Euler, with the effective time constant
// formulated from Cm: GTot = GL + G, ETot = (GL * VRest + sum g*E) / GTot,
// TauEff = Cm / GTot
func (np *NeuronParams) VmExpEulerCm(vm float32, cd *Conds, dt float32) (float32, float32) {
	gtot := np.GL + cd.GAct()
	etot := (np.GL*np.VRest + cd.GEAct(&np.Erev)) / gtot
	tauEff := np.Cm / gtot
	return etot + (vm-etot)*math32.Exp(-dt/tauEff), 0
}

// VmInf returns the steady-state membrane potential for constant conductances.
func (np *NeuronParams) VmInf(cd *Conds) float32 {
	return (np.GL*np.VRest + cd.GEAct(&np.Erev)) / (np.GL + cd.GAct())
}

//////////////////////////////////////////////////////////////////////////////////////
//  Conds

// Conds are the conductances (nS) that drive membrane integration on one step:
// the intrinsic channels and the summed synaptic inputs.
type Conds struct {
	Intr chans.Chans `desc:"intrinsic conductances -- L is the leak"`
	Syn  float32     `desc:"summed synaptic conductance"`
	SynE float32     `desc:"summed synaptic conductance times reversal potential"`
}

// AddSyn adds synaptic conductance g with reversal e
func (cd *Conds) AddSyn(g, e float32) {
	cd.Syn += g
	cd.SynE += g * e
}

// GAct returns the total non-leak conductance
func (cd *Conds) GAct() float32 {
	return cd.Intr.FAHP + cd.Intr.SAHP + cd.Intr.ADP + cd.Syn
}

// GEAct returns the sum of g * E over the non-leak conductances
func (cd *Conds) GEAct(erev *chans.Chans) float32 {
	return cd.Intr.FAHP*erev.FAHP + cd.Intr.SAHP*erev.SAHP + cd.Intr.ADP*erev.ADP + cd.SynE
}

// Inet returns the total driving current sum g * (vm - E) over the
// non-leak conductances (outward positive).
func (cd *Conds) Inet(vm float32, erev *chans.Chans) float32 {
	return cd.Intr.Inet(vm, erev) + cd.Syn*vm - cd.SynE
}

//////////////////////////////////////////////////////////////////////////////////////
//  AdaptParams

// AdaptParams are spike-triggered self-feedback conductance parameters,
// for the AHP and ADP channels.  The linear conductance is Gbar times the
// normalized bi-exponential kernel over the neuron's own spikes.
type AdaptParams struct {
	Kern    biexp.Params `view:"inline" desc:"waveform time constants -- Onset is 0 for self-feedback"`
	Gbar    float32      `min:"0" desc:"peak conductance in nS for a single isolated spike"`
	GMax    float32      `min:"0" desc:"saturation maximum conductance in nS -- computed as Gbar * SatMult when SatMult > 0"`
	Kd      float32      `min:"0" desc:"half-activation constant in nS for the sigmoid saturation model"`
	SatMult float32      `min:"0" desc:"if > 0, GMax = Gbar * SatMult (typically 2-3 for ADP)"`
}

func (ap *AdaptParams) Defaults() {
	ap.Kern.Defaults()
	ap.Kern.Onset = 0
	ap.Gbar = 1
	ap.GMax = 2
	ap.Kd = 1
	ap.SatMult = 0
}

func (ap *AdaptParams) Update() error {
	if ap.SatMult > 0 {
		ap.GMax = ap.Gbar * ap.SatMult
	}
	return ap.Kern.Update()
}

// Clip returns the linear conductance hard-clipped to GMax
func (ap *AdaptParams) Clip(lin float32) float32 {
	return math32.Min(lin, ap.GMax)
}

// Sigmoid returns the saturating conductance GMax * lin / (lin + Kd)
func (ap *AdaptParams) Sigmoid(lin float32) float32 {
	if lin+ap.Kd == 0 {
		return 0
	}
	return ap.GMax * (lin / (lin + ap.Kd))
}

// ADPResParams are the ADP resource-availability model parameters:
// availability relaxes toward 1 and is depleted by each spike.
type ADPResParams struct {
	TauRec  float32 `def:"300" min:"1" desc:"recovery time constant in msec (200-600 ms for slow ADP)"`
	Deplete float32 `def:"0.3" min:"0" max:"1" desc:"availability depleted per spike (0.2-0.4)"`
}

func (ar *ADPResParams) Defaults() {
	ar.TauRec = 300
	ar.Deplete = 0.3
}

func (ar *ADPResParams) Update() {
}

// Recover returns availability after relaxing toward 1 for dt, clamped to [0,1]
func (ar *ADPResParams) Recover(avail, dt float32) float32 {
	avail += (1 - avail) * dt / ar.TauRec
	return math32.Max(0, math32.Min(1, avail))
}

//////////////////////////////////////////////////////////////////////////////////////
//  SpikeParams

// SpikeParams are spike display, reset and refractory parameters
type SpikeParams struct {
	Reset   ResetModes `desc:"how the membrane potential is reset after a spike"`
	VReset  float32    `def:"-55" desc:"reset potential in mV for the ResetOnset, ResetAfter and ClassicalReset modes"`
	VSpike  float32    `def:"30" desc:"depolarized value in mV that marks a spike on the Vm trace"`
	Refract float32    `def:"2" min:"0" desc:"refractory period in msec"`
}

func (sp *SpikeParams) Defaults() {
	sp.Reset = NoReset
	sp.VReset = -55
	sp.VSpike = 30
	sp.Refract = 2
}

func (sp *SpikeParams) Update() {
}

//////////////////////////////////////////////////////////////////////////////////////
//  Enums

// Integrators are the membrane potential integration schemes
type Integrators int32

//go:generate stringer -type=Integrators

var KiT_Integrators = kit.Enums.AddEnum(IntegratorsN, kit.NotBitFlag, nil)

func (ev Integrators) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Integrators) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }
func (ev Integrators) MarshalYAML() (any, error)     { return ev.String(), nil }
func (ev *Integrators) UnmarshalYAML(n *yaml.Node) error {
	return ev.FromString(n.Value)
}

const (
	// ForwardEuler integrates the total current with a forward Euler step
	ForwardEuler Integrators = iota

	// ExpEulerRm is exponential Euler with the time constant derived from Rm
	ExpEulerRm

	// ExpEulerCm is exponential Euler with the time constant derived from Cm.
	// Stable when conductances are large relative to 1 / dt.
	ExpEulerCm

	IntegratorsN
)

// SatModels are saturation models for the AHP conductances
type SatModels int32

//go:generate stringer -type=SatModels

var KiT_SatModels = kit.Enums.AddEnum(SatModelsN, kit.NotBitFlag, nil)

func (ev SatModels) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SatModels) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }
func (ev SatModels) MarshalYAML() (any, error)     { return ev.String(), nil }
func (ev *SatModels) UnmarshalYAML(n *yaml.Node) error {
	return ev.FromString(n.Value)
}

const (
	// SatClip hard-clips the conductance at GMax
	SatClip SatModels = iota

	// SatSigmoid uses GMax * g / (g + Kd)
	SatSigmoid

	SatModelsN
)

// ADPModels are saturation models for the ADP conductance
type ADPModels int32

//go:generate stringer -type=ADPModels

var KiT_ADPModels = kit.Enums.AddEnum(ADPModelsN, kit.NotBitFlag, nil)

func (ev ADPModels) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ADPModels) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }
func (ev ADPModels) MarshalYAML() (any, error)     { return ev.String(), nil }
func (ev *ADPModels) UnmarshalYAML(n *yaml.Node) error {
	return ev.FromString(n.Value)
}

const (
	// ADPClip hard-clips the conductance at GMax
	ADPClip ADPModels = iota

	// ADPResource scales the linear conductance by a depletable availability
	ADPResource

	ADPModelsN
)

// ResetModes are the membrane potential reset policies after a spike
type ResetModes int32

//go:generate stringer -type=ResetModes

var KiT_ResetModes = kit.Enums.AddEnum(ResetModesN, kit.NotBitFlag, nil)

func (ev ResetModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ResetModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }
func (ev ResetModes) MarshalYAML() (any, error)     { return ev.String(), nil }
func (ev *ResetModes) UnmarshalYAML(n *yaml.Node) error {
	return ev.FromString(n.Value)
}

const (
	// NoReset remembers the pre-spike Vm and restores it (plus the integration
	// delta) once the refractory period has elapsed
	NoReset ResetModes = iota

	// ResetOnset sets Vm to VReset on the step right after the spike
	ResetOnset

	// ResetAfter sets Vm to VReset once the refractory period has elapsed
	ResetAfter

	// ClassicalReset clamps Vm to VReset throughout the refractory period,
	// and always uses forward Euler
	ClassicalReset

	ResetModesN
)
