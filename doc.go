// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lifstdp is the overall repository for a small-circuit simulator of
conductance-based leaky integrate-and-fire neurons with spike-frequency
adaptation and spike-timing-dependent plasticity.

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* biexp: the normalized bi-exponential conductance kernel, summed over a spike history.

* chans: the intrinsic channel sets (leak, AHP, ADP) and the NMDA Mg block.

* lif: neurons, synapses, STDP, and the Circuit that steps them in a fixed order,
with per-step samples logged into etable tables.

* topo: aggregation of anatomical contacts into resolved synaptic channels,
and building them into a Circuit.

* sched: forced spike schedules for driving neurons.

* rundb: a sqlite store for run summaries and samples.

* examples: these compile into runnable programs.  examples/ifstdp runs the
three-neuron PyrIn / IntIn / PyrOut circuit, and examples/eqplot tabulates the
conductance waveform.
*/
package lifstdp
