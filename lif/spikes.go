// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import "github.com/emer/lifstdp/biexp"

// SpikeSource is the read-only view that a Synapse holds onto its sending neuron:
// the spike history as of now.  Only the owning Neuron ever appends to it.
type SpikeSource interface {
	// Label returns the name of the sending neuron, for reports
	Label() string

	// SpikeTimes returns the ascending history of spike times in msec
	SpikeTimes() biexp.SpikeTimes
}

// SpikeHistory is an append-only, non-decreasing list of spike times (msec).
// It implements biexp.SpikeTimes.
type SpikeHistory struct {
	times []float32
}

func (sh *SpikeHistory) Len() int           { return len(sh.times) }
func (sh *SpikeHistory) At(idx int) float32 { return sh.times[idx] }

// Last returns the most recent spike time, and false if there are no spikes.
func (sh *SpikeHistory) Last() (float32, bool) {
	n := len(sh.times)
	if n == 0 {
		return 0, false
	}
	return sh.times[n-1], true
}

// Times returns a copy of the spike times
func (sh *SpikeHistory) Times() []float32 {
	return append([]float32(nil), sh.times...)
}

func (sh *SpikeHistory) add(t float32) {
	sh.times = append(sh.times, t)
}

func (sh *SpikeHistory) reset() {
	sh.times = sh.times[:0]
}

// LastSpike returns the most recent spike time of given source,
// and false if it has not spiked.
func LastSpike(src SpikeSource) (float32, bool) {
	st := src.SpikeTimes()
	if st == nil || st.Len() == 0 {
		return 0, false
	}
	return st.At(st.Len() - 1), true
}
