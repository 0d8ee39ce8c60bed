// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import "fmt"

// lif.Time contains the timing state and parameters for running a circuit
type Time struct {

	// integration step in msec
	Dt float32 `def:"1"`

	// total simulated duration in msec
	Dur float32 `def:"4000"`

	// number of steps = Dur / Dt
	NSteps int

	// current step index, from 0 to NSteps-1
	Step int

	// current simulated time in msec = Step * Dt
	T float32
}

// NewTime returns a new Time struct for given duration and step, in msec
func NewTime(dur, dt float32) (*Time, error) {
	tm := &Time{Dur: dur, Dt: dt}
	if err := tm.Update(); err != nil {
		return nil, err
	}
	return tm, nil
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 1
	tm.Dur = 4000
	tm.Update()
}

// Update computes NSteps from Dur and Dt
func (tm *Time) Update() error {
	if tm.Dt <= 0 {
		return fmt.Errorf("lif.Time: step Dt must be positive: %g", tm.Dt)
	}
	if tm.Dur < 0 {
		return fmt.Errorf("lif.Time: duration Dur must not be negative: %g", tm.Dur)
	}
	tm.NSteps = int(tm.Dur/tm.Dt + 0.5)
	return nil
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Step = 0
	tm.T = 0
}

// StepInc increments the step counter and time
func (tm *Time) StepInc() {
	tm.Step++
	tm.T = float32(tm.Step) * tm.Dt
}

// Done returns true when all steps have been run
func (tm *Time) Done() bool {
	return tm.Step >= tm.NSteps
}
