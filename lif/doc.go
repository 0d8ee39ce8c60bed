// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides a small-circuit simulator of conductance-based
leaky integrate-and-fire neurons, in biological units (mV, nS, pF, msec).

Each Neuron integrates its membrane potential from a leak, spike-triggered
intrinsic conductances (fast and slow after-hyperpolarization, and
after-depolarization), and the conductances of its incoming Synapses.
Every conductance is a normalized bi-exponential kernel summed over the
relevant spike history (see the biexp package).

Spiking is controlled by an adaptive threshold (sodium channel availability
plus a dynamic floor), a refractory period, a configurable reset policy,
and a hard-cap fatigue level.  A Neuron can also be driven by a schedule of
forced spikes, which take priority over threshold crossings.

Each postsynaptic spike applies exponential spike-timing-dependent
plasticity to every incoming Synapse, paired with the most recent
presynaptic spike.

A Circuit updates a fixed, ordered list of neurons once per step, records
per-step samples, and produces etable logs of the results.
*/
package lif
