// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package poprate implements a minimal stochastic firing-rate population
model: each neuron's rate leakily integrates toward a shared baseline
drive plus per-step noise, clamped to [0, 1].

It exists to produce the per-step rate vectors that rate-driven
structural rules (e.g., the siphon package) consume -- it makes no
attempt at biological realism beyond bounded, noisy, temporally
correlated rates.
*/
package poprate

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

// Params are the rate dynamics parameters.
type Params struct {
	Tau   float32         `def:"10" min:"1" desc:"rate integration time constant in steps -- roughly how long it takes a rate to track a change in drive"`
	Drive float32         `def:"0.5" min:"0" max:"1" desc:"baseline drive that every neuron's rate decays toward"`
	Noise erand.RndParams `view:"inline" desc:"per-step noise added to the drive, drawn independently per neuron"`

	Dt float32 `inactive:"+" view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
}

func (pp *Params) Update() {
	pp.Dt = 1 / pp.Tau
}

func (pp *Params) Defaults() {
	pp.Tau = 10
	pp.Drive = 0.5
	pp.Noise.Mean = 0
	pp.Noise.Var = 0.25
	pp.Noise.Dist = erand.Uniform
	pp.Update()
}

// Pop is a population of rate-coded neurons.
type Pop struct {
	Params Params          `view:"inline" desc:"rate dynamics parameters"`
	Rates  []float32       `desc:"current firing rate of each neuron, in [0,1]"`
	AvgMax minmax.AvgMax32 `inactive:"+" desc:"average and max of the current rates"`
}

// NewPop returns a population of n neurons with default parameters,
// all rates starting at the baseline drive.
func NewPop(n int) *Pop {
	pp := &Pop{}
	pp.Params.Defaults()
	pp.Rates = make([]float32, n)
	pp.Init()
	return pp
}

// Init resets all rates to the baseline drive.
func (pp *Pop) Init() {
	for i := range pp.Rates {
		pp.Rates[i] = pp.Params.Drive
	}
	pp.StatsFmRates()
}

// Step integrates every neuron's rate one step toward the noisy drive
// and returns the updated rate slice, which remains owned by the Pop.
func (pp *Pop) Step() []float32 {
	for i, r := range pp.Rates {
		drv := pp.Params.Drive + float32(pp.Params.Noise.Gen(-1))
		r += pp.Params.Dt * (drv - r)
		pp.Rates[i] = mat32.Clamp(r, 0, 1)
	}
	pp.StatsFmRates()
	return pp.Rates
}

// StatsFmRates updates the AvgMax stats from the current rates.
func (pp *Pop) StatsFmRates() {
	pp.AvgMax.Init()
	for i, r := range pp.Rates {
		pp.AvgMax.UpdateVal(r, i)
	}
	pp.AvgMax.CalcAvg()
}
