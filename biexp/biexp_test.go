// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package biexp

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-5)

var tauPairs = [][2]float32{{0.5, 3}, {2, 100}, {0.5, 10}, {2.5, 30}, {30, 300}, {20, 200}, {10, 2}}

func TestNormalization(t *testing.T) {
	for _, tp := range tauPairs {
		nrm, err := Normalization(tp[0], tp[1])
		if err != nil {
			t.Fatalf("rise %v decay %v: unexpected err: %v", tp[0], tp[1], err)
		}
		if math32.IsInf(nrm, 0) || math32.IsNaN(nrm) {
			t.Errorf("rise %v decay %v: norm not finite: %v", tp[0], tp[1], nrm)
		}
		if tp[0] < tp[1] && nrm <= 0 {
			t.Errorf("rise %v decay %v: norm should be positive: %v", tp[0], tp[1], nrm)
		}
		if tp[0] > tp[1] && nrm >= 0 {
			t.Errorf("rise %v decay %v: norm should be negative: %v", tp[0], tp[1], nrm)
		}
	}
}

// rise > decay inverts both the waveform and its normalization, so the
// normalized kernel is still non-negative with a peak of 1.
func TestNormalizationSlowRise(t *testing.T) {
	nrm, err := Normalization(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if nrm >= 0 {
		t.Errorf("norm for rise 10 decay 2 should be negative: %v", nrm)
	}
	kp := Params{}
	kp.Set(10, 2, 0)
	if err := kp.Update(); err != nil {
		t.Fatal(err)
	}
	spk := Times{0}
	if g := kp.G(kp.PeakTime(), spk); math32.Abs(g-1) > difTol {
		t.Errorf("peak g should be 1: %v", g)
	}
	for ti := float32(0.5); ti < 100; ti += 0.5 {
		if g := kp.G(ti, spk); g < 0 || g > 1+difTol {
			t.Errorf("g at %v out of [0,1]: %v", ti, g)
		}
	}
	// old spikes are still cut off with a negative norm
	full := Times{0, 3000}
	if dif := math32.Abs(kp.G(3005, full) - kp.G(3005, Times{3000})); dif > difTol {
		t.Errorf("cutoff changed result: dif %v", dif)
	}
}

func TestNormalizationEqualTaus(t *testing.T) {
	_, err := Normalization(5, 5)
	if !errors.Is(err, ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got: %v", err)
	}
	kp := Params{}
	kp.Set(3, 3, 0)
	if err := kp.Update(); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("Params.Update: expected ErrInvalidParam, got: %v", err)
	}
	_, err = Normalization(-1, 5)
	if !errors.Is(err, ErrInvalidParam) {
		t.Errorf("negative tau: expected ErrInvalidParam, got: %v", err)
	}
}

func TestSingleSpikePeak(t *testing.T) {
	spk := Times{0}
	for _, tp := range tauPairs {
		kp := Params{}
		kp.Set(tp[0], tp[1], 0)
		if err := kp.Update(); err != nil {
			t.Fatal(err)
		}
		pk := kp.PeakTime()
		g := kp.G(pk, spk)
		if dif := math32.Abs(g - 1); dif > difTol {
			t.Errorf("rise %v decay %v: peak g: %v at t: %v, dif: %v", tp[0], tp[1], g, pk, dif)
		}
		// neighbors of the peak must be lower
		for _, off := range []float32{-0.1, 0.1} {
			if gn := kp.G(pk+off, spk); gn > g+difTol {
				t.Errorf("rise %v decay %v: g at %v = %v exceeds peak %v", tp[0], tp[1], pk+off, gn, g)
			}
		}
	}
}

func TestEmptyAndCausal(t *testing.T) {
	kp := Params{}
	kp.Set(0.5, 3, 1.1)
	if err := kp.Update(); err != nil {
		t.Fatal(err)
	}
	for ti := float32(0); ti < 200; ti += 7 {
		if g := kp.G(ti, Times{}); g != 0 {
			t.Errorf("empty history g at %v: %v", ti, g)
		}
		if g := kp.G(ti, nil); g != 0 {
			t.Errorf("nil history g at %v: %v", ti, g)
		}
	}
	spk := Times{100, 150}
	for ti := float32(0); ti <= 101.1; ti += 0.1 {
		if g := kp.G(ti, spk); g != 0 {
			t.Errorf("non-causal g at %v: %v", ti, g)
		}
	}
	if g := kp.G(102, spk); g <= 0 {
		t.Errorf("expected positive g after onset, got: %v", g)
	}
}

func TestHistoryCutoff(t *testing.T) {
	// old spikes beyond the horizon contribute nothing measurable to a fast kernel
	kp := Params{}
	kp.Set(0.5, 3, 0)
	if err := kp.Update(); err != nil {
		t.Fatal(err)
	}
	full := Times{0, 10, 20, 3000}
	recent := Times{3000}
	gf := kp.G(3002, full)
	gr := kp.G(3002, recent)
	if dif := math32.Abs(gf - gr); dif > difTol {
		t.Errorf("cutoff changed result: full %v recent %v", gf, gr)
	}
	// summation over overlapping spikes is linear
	two := Times{0, 0}
	one := Times{0}
	if dif := math32.Abs(kp.G(2, two) - 2*kp.G(2, one)); dif > difTol {
		t.Errorf("kernel sum not linear: dif %v", dif)
	}
}
