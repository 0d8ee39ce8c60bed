// Copyright (c) 2025, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"github.com/chewxy/math32"
	"github.com/goki/ki/kit"
	"gopkg.in/yaml.v3"
)

// STDPTypes are the spike-timing-dependent plasticity rule variants
type STDPTypes int32

//go:generate stringer -type=STDPTypes

var KiT_STDPTypes = kit.Enums.AddEnum(STDPTypesN, kit.NotBitFlag, nil)

func (ev STDPTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *STDPTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }
func (ev STDPTypes) MarshalYAML() (any, error)     { return ev.String(), nil }
func (ev *STDPTypes) UnmarshalYAML(n *yaml.Node) error {
	return ev.FromString(n.Value)
}

const (
	// NoSTDP means the weight is fixed
	NoSTDP STDPTypes = iota

	// Hebbian potentiates when the postsynaptic spike follows the presynaptic one
	Hebbian

	// AntiHebbian potentiates when the postsynaptic spike precedes the presynaptic one
	AntiHebbian

	STDPTypesN
)

// STDPParams are exponential STDP parameters.  At each postsynaptic spike,
// the weight is updated by pairing with the single most recent presynaptic spike:
// dt = tpost - tpre (Hebbian) or tpre - tpost (AntiHebbian);
// dw = APos * exp(-dt / TauPos) if dt > 0, else -ANeg * exp(dt / TauNeg).
type STDPParams struct {
	Type   STDPTypes `desc:"which rule to apply -- NoSTDP leaves the weight fixed"`
	APos   float32   `viewif:"Type!=NoSTDP" def:"0.01" desc:"amplitude of potentiation"`
	ANeg   float32   `viewif:"Type!=NoSTDP" def:"0.01" desc:"amplitude of depression"`
	TauPos float32   `viewif:"Type!=NoSTDP" def:"20" desc:"time constant in msec of the potentiation window"`
	TauNeg float32   `viewif:"Type!=NoSTDP" def:"20" desc:"time constant in msec of the depression window"`
}

func (sp *STDPParams) Defaults() {
	sp.Type = NoSTDP
	sp.APos = 0.01
	sp.ANeg = 0.01
	sp.TauPos = 20
	sp.TauNeg = 20
}

func (sp *STDPParams) Update() {
}

// On returns true if any plasticity is applied
func (sp *STDPParams) On() bool {
	return sp.Type != NoSTDP
}

// DWt returns the weight change for a post-minus-pre interval
// already oriented according to Type (positive = potentiating side).
func (sp *STDPParams) DWt(dt float32) float32 {
	if dt > 0 {
		return sp.APos * math32.Exp(-dt/sp.TauPos)
	}
	return -sp.ANeg * math32.Exp(dt/sp.TauNeg)
}

// stdpFunc computes the signed interval for a post spike at tpost and
// a pre spike at tpre.
type stdpFunc func(tpost, tpre float32) float32

func hebbDt(tpost, tpre float32) float32     { return tpost - tpre }
func antiHebbDt(tpost, tpre float32) float32 { return tpre - tpost }

// intervalFunc returns the interval function for Type, or nil for NoSTDP.
// Resolved once when a Synapse is built.
func (sp *STDPParams) intervalFunc() stdpFunc {
	switch sp.Type {
	case Hebbian:
		return hebbDt
	case AntiHebbian:
		return antiHebbDt
	}
	return nil
}
