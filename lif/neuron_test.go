// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/lifstdp/biexp"
)

func newTestNeuron(t *testing.T, np NeuronParams, forced []float32, tm *Time) *Neuron {
	nr, err := NewNeuron("test", np, forced, tm)
	if err != nil {
		t.Fatal(err)
	}
	return nr
}

func testTime(t *testing.T, dur, dt float32) *Time {
	tm, err := NewTime(dur, dt)
	if err != nil {
		t.Fatal(err)
	}
	return tm
}

func runNeuron(nr *Neuron, tm *Time) {
	tm.Reset()
	for !tm.Done() {
		nr.Update(tm.Step, tm.T)
		nr.Record(tm.Step)
		tm.StepInc()
	}
}

func TestNeuronRest(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	tm := testTime(t, 200, 1)
	nr := newTestNeuron(t, np, nil, tm)
	runNeuron(nr, tm)
	if nr.NSpikes() != 0 {
		t.Errorf("no input should give no spikes: %v", nr.SpikeTrain())
	}
	if math32.Abs(nr.Vm-np.VRest) > difTol {
		t.Errorf("Vm should stay at rest: %v", nr.Vm)
	}
}

func TestForcedSpike(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	tm := testTime(t, 200, 1)
	nr := newTestNeuron(t, np, []float32{100}, tm)
	runNeuron(nr, tm)
	st := nr.SpikeTrain()
	if len(st) != 1 || st[0] != 100 {
		t.Fatalf("forced spike should fire exactly at 100: %v", st)
	}
	if !nr.Samples.Spike[100] {
		t.Errorf("spike not recorded at step 100")
	}
	if nr.Samples.Vm[100] != np.Spike.VSpike {
		t.Errorf("Vm at spike should be VSpike: %v", nr.Samples.Vm[100])
	}
	if nr.Samples.GfAHP[101] <= 0 {
		t.Errorf("fAHP should be active after spike")
	}
	if nr.NForced() != 0 {
		t.Errorf("forced queue not consumed")
	}
}

func TestForcedOnePerStep(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	tm := testTime(t, 50, 1)
	nr := newTestNeuron(t, np, []float32{10, 10.2, 10.4}, tm)
	runNeuron(nr, tm)
	st := nr.SpikeTrain()
	cor := []float32{10, 10.2, 10.4}
	if len(st) != len(cor) {
		t.Fatalf("spikes: %v != %v", st, cor)
	}
	for i := range cor {
		if st[i] != cor[i] {
			t.Errorf("spike %d: %v != %v", i, st[i], cor[i])
		}
	}
	// refractory runs from the scheduled time: 10 -> 12 -> 12.2
	for i, s := range nr.Samples.Spike {
		want := i == 10 || i == 12 || i == 13
		if s != want {
			t.Errorf("step %d spike: %v", i, s)
		}
	}
}

func TestForcedBadSchedule(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	if _, err := NewNeuron("bad", np, []float32{20, 10}, testTime(t, 50, 1)); err == nil {
		t.Errorf("descending schedule should fail")
	}
	np.Rm = 0
	if _, err := NewNeuron("bad", np, nil, testTime(t, 50, 1)); err == nil {
		t.Errorf("zero Rm should fail")
	}
}

// fatigueParams always exceed threshold at rest, with no adaptation
func fatigueParams() NeuronParams {
	np := NeuronParams{}
	np.Defaults()
	np.Thr.VTh = -80
	np.Thr.DVth = 0
	np.Floor.On = false
	np.FAHP.Gbar = 0
	np.SAHP.Gbar = 0
	np.ADP.Gbar = 0
	np.Fatigue.Thr = 3
	np.Fatigue.TauRec = 1000
	return np
}

func TestFatigueCap(t *testing.T) {
	np := fatigueParams()
	tm := testTime(t, 1100, 1)
	nr := newTestNeuron(t, np, nil, tm)
	runNeuron(nr, tm)
	st := nr.SpikeTrain()
	if len(st) < 5 {
		t.Fatalf("expected spiking to resume after recovery: %v", st)
	}
	cor := []float32{0, 2, 4, 6}
	for i := range cor {
		if st[i] != cor[i] {
			t.Errorf("spike %d: %v != %v", i, st[i], cor[i])
		}
	}
	if st[4] < 990 || st[4] > 1010 {
		t.Errorf("spiking should resume when fatigue recovers below threshold (~1000): %v", st[4])
	}
	// fatigue does not block forced spikes
	nf := newTestNeuron(t, np, []float32{500}, tm)
	runNeuron(nf, tm)
	if !nf.Samples.Spike[500] {
		t.Errorf("forced spike suppressed by fatigue")
	}
}

func TestFatigueOff(t *testing.T) {
	np := fatigueParams()
	np.Fatigue.On = false
	tm := testTime(t, 100, 1)
	nr := newTestNeuron(t, np, nil, tm)
	runNeuron(nr, tm)
	if nr.NSpikes() != 50 {
		t.Errorf("without fatigue should spike every refractory period: %d", nr.NSpikes())
	}
}

func TestClassicalReset(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	np.Spike.Reset = ClassicalReset
	np.Integ = ExpEulerCm
	tm := testTime(t, 30, 1)
	nr := newTestNeuron(t, np, []float32{10}, tm)
	if nr.Params.Integ != ForwardEuler {
		t.Errorf("ClassicalReset should force ForwardEuler: %v", nr.Params.Integ)
	}
	runNeuron(nr, tm)
	if nr.Samples.Vm[10] != np.Spike.VReset || nr.Samples.Vm[11] != np.Spike.VReset {
		t.Errorf("Vm should be clamped at VReset during refractory: %v %v", nr.Samples.Vm[10], nr.Samples.Vm[11])
	}
	if nr.Samples.Vm[12] == np.Spike.VReset {
		t.Errorf("Vm should integrate after refractory")
	}
}

func TestResetAfter(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	np.Spike.Reset = ResetAfter
	tm := testTime(t, 30, 1)
	nr := newTestNeuron(t, np, []float32{10}, tm)
	runNeuron(nr, tm)
	if nr.Samples.Vm[10] != np.Spike.VSpike {
		t.Errorf("Vm at spike should be VSpike: %v", nr.Samples.Vm[10])
	}
	if nr.Samples.Vm[11] <= np.Spike.VReset {
		t.Errorf("Vm should decay from the marker during refractory: %v", nr.Samples.Vm[11])
	}
	// exp Euler: dV = 0, so Vm is exactly VReset once refractory ends
	if nr.Samples.Vm[12] != np.Spike.VReset {
		t.Errorf("Vm should reset after refractory: %v", nr.Samples.Vm[12])
	}
}

func TestNoReset(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	np.Spike.Reset = NoReset
	tm := testTime(t, 30, 1)
	nr := newTestNeuron(t, np, []float32{10}, tm)
	runNeuron(nr, tm)
	if nr.Samples.Vm[10] != np.Spike.VSpike {
		t.Errorf("Vm at spike should be VSpike: %v", nr.Samples.Vm[10])
	}
	if dif := math32.Abs(nr.VmPreSpike - nr.Samples.Vm[9]); dif > 0.5 {
		t.Errorf("pre-spike Vm should be near the last sample: %v %v", nr.VmPreSpike, nr.Samples.Vm[9])
	}
	if nr.Samples.Vm[11] <= nr.VmPreSpike {
		t.Errorf("Vm should decay from the marker during refractory: %v", nr.Samples.Vm[11])
	}
	ri := 10 + int(np.Spike.Refract)
	cor := nr.VmPreSpike + nr.Samples.DV[ri]
	if dif := math32.Abs(nr.Samples.Vm[ri] - cor); dif > difTol {
		t.Errorf("Vm should return to the pre-spike baseline plus dV: %v != %v", nr.Samples.Vm[ri], cor)
	}
}

func TestResetOnset(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	np.Spike.Reset = ResetOnset
	np.FAHP.Gbar = 0
	np.SAHP.Gbar = 0
	np.ADP.Gbar = 0
	tm := testTime(t, 30, 1)
	nr := newTestNeuron(t, np, []float32{10}, tm)
	runNeuron(nr, tm)
	if nr.Samples.Vm[10] != np.Spike.VSpike {
		t.Errorf("Vm at spike should be VSpike: %v", nr.Samples.Vm[10])
	}
	p := &nr.Params
	cd := Conds{}
	cd.Intr.SetAll(p.GL, 0, 0, 0)
	// reset to VReset on the step after the spike, then integrated
	cor, _ := p.VmExpEulerCm(np.Spike.VReset, &cd, 1)
	if dif := math32.Abs(nr.Samples.Vm[11] - cor); dif > difTol {
		t.Errorf("Vm after onset reset: %v != %v", nr.Samples.Vm[11], cor)
	}
	// no second reset when refractory ends
	cor, _ = p.VmExpEulerCm(nr.Samples.Vm[11], &cd, 1)
	if dif := math32.Abs(nr.Samples.Vm[12] - cor); dif > difTol {
		t.Errorf("Vm should keep integrating after refractory: %v != %v", nr.Samples.Vm[12], cor)
	}
}

func TestSatSigmoid(t *testing.T) {
	ap := AdaptParams{Gbar: 3, GMax: 5, Kd: 1.5}
	if g := ap.Sigmoid(0); g != 0 {
		t.Errorf("sigmoid of 0: %v", g)
	}
	if g := ap.Sigmoid(1.5); math32.Abs(g-2.5) > difTol {
		t.Errorf("sigmoid at Kd should be GMax/2: %v", g)
	}
	if g := ap.Sigmoid(1000); g >= ap.GMax || g < 0.99*ap.GMax {
		t.Errorf("sigmoid should approach GMax from below: %v", g)
	}

	np := NeuronParams{}
	np.Defaults()
	np.Sat = SatSigmoid
	tm := testTime(t, 30, 1)
	nr := newTestNeuron(t, np, []float32{10}, tm)
	runNeuron(nr, tm)
	p := &nr.Params
	spk := biexp.Times{10}
	for _, i := range []int{11, 12, 15, 25} {
		ti := float32(i)
		lin := p.FAHP.Gbar * p.FAHP.Kern.G(ti, spk)
		cor := p.FAHP.GMax * lin / (lin + p.FAHP.Kd)
		if dif := math32.Abs(nr.Samples.GfAHP[i] - cor); dif > difTol {
			t.Errorf("fAHP at %d: %v != %v", i, nr.Samples.GfAHP[i], cor)
		}
		lin = p.SAHP.Gbar * p.SAHP.Kern.G(ti, spk)
		cor = p.SAHP.GMax * lin / (lin + p.SAHP.Kd)
		if dif := math32.Abs(nr.Samples.GsAHP[i] - cor); dif > difTol {
			t.Errorf("sAHP at %d: %v != %v", i, nr.Samples.GsAHP[i], cor)
		}
	}
}

// rapid spiking drives availability below 0, and the threshold keeps rising
func TestThreshUnclamped(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	tm := testTime(t, 30, 1)
	forced := make([]float32, 10)
	for i := range forced {
		forced[i] = float32(10 + 2*i)
	}
	nr := newTestNeuron(t, np, forced, tm)
	runNeuron(nr, tm)
	if nr.NSpikes() != 10 {
		t.Fatalf("all forced spikes should fire: %v", nr.SpikeTrain())
	}
	if nr.H >= 0 {
		t.Errorf("availability should go below 0: %v", nr.H)
	}
	cor := np.Thr.VTh + np.Thr.DVth*(1-nr.H)
	if dif := math32.Abs(nr.Samples.VthAdapt[29] - cor); dif > 1.0e-4 {
		t.Errorf("threshold should follow unclamped availability: %v != %v", nr.Samples.VthAdapt[29], cor)
	}
	if nr.Samples.VthAdapt[29] <= np.Thr.VTh+np.Thr.DVth {
		t.Errorf("threshold should exceed VTh + DVth: %v", nr.Samples.VthAdapt[29])
	}
}

func TestThreshFloor(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	np.Thr.DVth = 0
	tm := testTime(t, 30, 1)
	nr := newTestNeuron(t, np, []float32{10}, tm)
	runNeuron(nr, tm)
	vt := np.Thr.VTh
	if nr.Samples.VthAdapt[5] != vt {
		t.Errorf("threshold before spikes should be baseline: %v", nr.Samples.VthAdapt[5])
	}
	cor := vt + np.Floor.Delta*(1-1/np.Floor.Tau)
	if dif := math32.Abs(nr.Samples.VthAdapt[11] - cor); dif > 1.0e-4 {
		t.Errorf("floor should raise the threshold: %v != %v", nr.Samples.VthAdapt[11], cor)
	}
	if nr.Samples.VthAdapt[29] <= vt || nr.Samples.VthAdapt[29] >= nr.Samples.VthAdapt[11] {
		t.Errorf("floor should relax toward baseline: %v", nr.Samples.VthAdapt[29])
	}

	np.Floor.On = false
	nf := newTestNeuron(t, np, []float32{10}, tm)
	runNeuron(nf, tm)
	if nf.Samples.VthAdapt[11] != vt {
		t.Errorf("without floor or DVth the threshold stays at baseline: %v", nf.Samples.VthAdapt[11])
	}
}

func TestThreshAdapt(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	tm := testTime(t, 300, 1)
	nr := newTestNeuron(t, np, []float32{10, 20, 30}, tm)
	runNeuron(nr, tm)
	vt := np.Thr.VTh
	if nr.Samples.VthAdapt[5] != vt {
		t.Errorf("threshold before spikes should be baseline: %v", nr.Samples.VthAdapt[5])
	}
	if nr.Samples.VthAdapt[31] <= nr.Samples.VthAdapt[11] {
		t.Errorf("threshold should accumulate over spikes: %v %v", nr.Samples.VthAdapt[11], nr.Samples.VthAdapt[31])
	}
	if nr.Samples.VthAdapt[299] >= nr.Samples.VthAdapt[31] {
		t.Errorf("threshold should recover: %v %v", nr.Samples.VthAdapt[31], nr.Samples.VthAdapt[299])
	}
	if nr.Samples.VthAdapt[299] < vt {
		t.Errorf("threshold should not go below baseline: %v", nr.Samples.VthAdapt[299])
	}
}

func TestADPResource(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	np.ADPSat = ADPResource
	tm := testTime(t, 200, 1)
	nr := newTestNeuron(t, np, []float32{10, 13, 16, 19, 22}, tm)
	for !tm.Done() {
		nr.Update(tm.Step, tm.T)
		if nr.ADPAvail < -np.ADPRes.Deplete || nr.ADPAvail > 1 {
			t.Fatalf("availability out of range at %d: %v", tm.Step, nr.ADPAvail)
		}
		if nr.GADP < 0 {
			t.Fatalf("ADP conductance negative at %d: %v", tm.Step, nr.GADP)
		}
		nr.Record(tm.Step)
		tm.StepInc()
	}
	if nr.ADPAvail >= 1 || nr.ADPAvail < 0.2 {
		t.Errorf("availability should be recovering toward 1: %v", nr.ADPAvail)
	}
}

// a spike can deplete availability below 0; it is clamped only after the
// next recovery, so recovery restarts from 0 one step later.
func TestADPDeepDepletion(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	np.ADPSat = ADPResource
	np.ADPRes.Deplete = 1
	tm := testTime(t, 30, 1)
	nr := newTestNeuron(t, np, []float32{10, 13}, tm)
	tm.Reset()
	for tm.Step <= 14 {
		nr.Update(tm.Step, tm.T)
		switch tm.Step {
		case 10:
			if nr.ADPAvail != 0 {
				t.Errorf("full depletion from 1 should give 0: %v", nr.ADPAvail)
			}
		case 11:
			if nr.ADPAvail <= 0 {
				t.Errorf("availability should recover after the first spike: %v", nr.ADPAvail)
			}
		case 13:
			if nr.ADPAvail >= 0 {
				t.Errorf("second spike should deplete below 0: %v", nr.ADPAvail)
			}
		case 14:
			if nr.ADPAvail != 0 || nr.GADP != 0 {
				t.Errorf("recovery from below 0 should clamp at 0: avail %v g %v", nr.ADPAvail, nr.GADP)
			}
		}
		nr.Record(tm.Step)
		tm.StepInc()
	}
}

func TestRecordPure(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	tm := testTime(t, 50, 1)
	nr := newTestNeuron(t, np, []float32{5}, tm)
	for i := 0; i < 8; i++ {
		nr.Update(i, float32(i))
	}
	before := make([]float32, len(NeuronVars))
	for vi, vn := range NeuronVars {
		before[vi], _ = nr.VarByName(vn)
	}
	nsp := nr.NSpikes()
	nr.Record(7)
	nr.Record(7)
	for vi, vn := range NeuronVars {
		v, _ := nr.VarByName(vn)
		if v != before[vi] {
			t.Errorf("Record changed %s: %v -> %v", vn, before[vi], v)
		}
	}
	if nr.NSpikes() != nsp {
		t.Errorf("Record changed spikes")
	}
	if nr.Samples.Vm[7] != nr.Vm {
		t.Errorf("Record did not store Vm")
	}
}

func TestIntegrators(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	if err := np.Update(); err != nil {
		t.Fatal(err)
	}
	cd := Conds{}
	cd.Intr.SetAll(np.GL, 2, 1, 0.5)
	cd.AddSyn(3, 0)
	gtot := np.GL + cd.GAct()
	vinf := np.VmInf(&cd)
	tau := np.Cm / gtot
	v0 := np.VRest
	dur := float32(10)
	cor := vinf + (v0-vinf)*math32.Exp(-dur/tau)

	vcm, vrm := v0, v0
	for i := 0; i < 10; i++ {
		vcm, _ = np.VmExpEulerCm(vcm, &cd, 1)
		vrm, _ = np.VmExpEulerRm(vrm, &cd, 1)
	}
	if math32.Abs(vcm-cor) > 1.0e-3 {
		t.Errorf("ExpEulerCm: %v != analytic %v", vcm, cor)
	}
	if math32.Abs(vrm-cor) > 1.0e-3 {
		t.Errorf("ExpEulerRm: %v != analytic %v", vrm, cor)
	}
	vfe := v0
	for i := 0; i < 1000; i++ {
		vfe, _ = np.VmForwardEuler(vfe, &cd, 0.01)
	}
	if math32.Abs(vfe-cor) > 0.05 {
		t.Errorf("ForwardEuler with small dt: %v != analytic %v", vfe, cor)
	}
}

func TestNeuronVarByName(t *testing.T) {
	np := NeuronParams{}
	np.Defaults()
	nr := newTestNeuron(t, np, nil, testTime(t, 10, 1))
	vm, err := nr.VarByName("Vm")
	if err != nil || vm != np.VRest {
		t.Errorf("Vm by name: %v %v", vm, err)
	}
	h, _ := nr.VarByName("H")
	if h != 1 {
		t.Errorf("H should start at 1: %v", h)
	}
	if _, err := nr.VarByName("Foo"); err == nil {
		t.Errorf("expected error for invalid var name")
	}
}
