// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"fmt"
	"io"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
)

// ConfigLogTable configures dt with one row per step and a column per recorded
// trace: Time, Vm, fAHP, sAHP, ADP, VthAdapt, DV, Spike, plus Wt if the
// circuit has a monitored synapse.
func (cr *Circuit) ConfigLogTable(dt *etable.Table) {
	dt.SetMetaData("name", cr.Nm+"Log")
	dt.SetMetaData("desc", "Record of membrane potential, adaptation and threshold over time")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", "4")

	sch := etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
		{"Vm", etensor.FLOAT64, nil, nil},
		{"fAHP", etensor.FLOAT64, nil, nil},
		{"sAHP", etensor.FLOAT64, nil, nil},
		{"ADP", etensor.FLOAT64, nil, nil},
		{"VthAdapt", etensor.FLOAT64, nil, nil},
		{"DV", etensor.FLOAT64, nil, nil},
		{"Spike", etensor.FLOAT64, nil, nil},
	}
	if cr.Monitor != nil {
		sch = append(sch, etable.Column{"Wt", etensor.FLOAT64, nil, nil})
	}
	dt.SetFromSchema(sch, cr.Time.NSteps)
}

// LogTable returns a table of the samples recorded for the named neuron,
// over the steps run so far.
func (cr *Circuit) LogTable(name string) (*etable.Table, error) {
	nr := cr.NeuronByName(name)
	if nr == nil {
		return nil, fmt.Errorf("lif.Circuit %s: neuron %s not found", cr.Nm, name)
	}
	dt := &etable.Table{}
	cr.ConfigLogTable(dt)
	dt.SetNumRows(cr.Time.Step)
	sm := &nr.Samples
	for i := 0; i < cr.Time.Step; i++ {
		dt.SetCellFloat("Time", i, float64(float32(i)*cr.Time.Dt))
		dt.SetCellFloat("Vm", i, float64(sm.Vm[i]))
		dt.SetCellFloat("fAHP", i, float64(sm.GfAHP[i]))
		dt.SetCellFloat("sAHP", i, float64(sm.GsAHP[i]))
		dt.SetCellFloat("ADP", i, float64(sm.GADP[i]))
		dt.SetCellFloat("VthAdapt", i, float64(sm.VthAdapt[i]))
		dt.SetCellFloat("DV", i, float64(sm.DV[i]))
		spk := 0.0
		if sm.Spike[i] {
			spk = 1
		}
		dt.SetCellFloat("Spike", i, spk)
		if cr.Monitor != nil {
			dt.SetCellFloat("Wt", i, float64(cr.Wts[i]))
		}
	}
	return dt, nil
}

// WriteCSV writes the log table of the named neuron as comma-separated
// values with headers.
func (cr *Circuit) WriteCSV(w io.Writer, name string) error {
	dt, err := cr.LogTable(name)
	if err != nil {
		return err
	}
	return dt.WriteCSV(w, etable.Comma, etable.Headers)
}
