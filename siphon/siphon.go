// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package siphon implements a stochastic weight-siphoning rule: a
structural plasticity mechanism that relocates connection weight
between the two halves (regimes) of a square connectivity matrix,
triggered by the recent firing-rate trajectory of individual neurons.

The N neurons are split at N/2: rows / columns [0, N/2) are regime A
and [N/2, N) are regime B.  A neuron whose rate is falling (and below
threshold) can fire a forward transfer, treating it as dying: one of
its existing own-regime outgoing weights is removed and re-activated at
a currently-zero cell in the other regime's block.  A neuron whose rate
is rising fires the mirror-image reverse transfer, treating it as
reactivating.  Each transfer relocates exactly one weight value, so
total matrix mass is conserved, and a transfer can only activate a
currently-zero cell.

Call Apply once per simulation step with the current firing rates and
the weight matrix.  The caller retains ownership of the matrix: the
rule mutates it in place, with exclusive write access only for the
duration of the call, and returns the same matrix.
*/
package siphon

import (
	"fmt"
	"math/rand"

	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
)

// Rand is the source of randomness for siphon decisions: the per-neuron
// trigger draw and the uniform donor / destination selection.
// *math/rand.Rand satisfies it directly -- inject a seeded instance on
// Rule.Rnd for reproducible runs.  When Rnd is nil the shared math/rand
// global source is used.
type Rand interface {
	// Float32 returns a uniform random number in [0, 1)
	Float32() float32

	// Intn returns a uniform random index in [0, n)
	Intn(n int) int
}

// sysRand draws from the shared math/rand global source.
type sysRand struct{}

func (sysRand) Float32() float32 { return rand.Float32() }
func (sysRand) Intn(n int) int   { return rand.Intn(n) }

// Params are the configuration parameters for the siphon rule.
type Params struct {
	Thr  float32 `def:"0.75" desc:"firing rate threshold -- only neurons with rates below this are eligible to siphon, unless Free is set"`
	P    float32 `min:"0" max:"1" def:"0.0001" desc:"siphon chance -- per-neuron per-step probability that an eligible trigger actually fires a transfer"`
	Uni  bool    `desc:"unilateral rule -- every eligible neuron siphons forward regardless of which way its rate is moving"`
	Free bool    `viewif:"!Uni" desc:"free bilateral rule -- every neuron is eligible regardless of threshold; direction still follows the rate derivative"`
}

func (sp *Params) Defaults() {
	sp.Thr = 0.75
	sp.P = 0.0001
	sp.Uni = false
	sp.Free = false
	sp.Update()
}

func (sp *Params) Update() {
}

// Validate returns an error if any parameter is outside its sane range.
func (sp *Params) Validate() error {
	if sp.P < 0 || sp.P > 1 {
		return fmt.Errorf("siphon.Params: P must be a probability in [0,1], got %v", sp.P)
	}
	return nil
}

// Stats are cumulative counts of transfer outcomes, updated by Apply.
type Stats struct {
	Fwd     int `desc:"number of forward transfers executed"`
	Rev     int `desc:"number of reverse transfers executed"`
	Dropped int `desc:"number of triggered events dropped because no valid donor / destination pair existed"`
}

func (st *Stats) Init() {
	st.Fwd = 0
	st.Rev = 0
	st.Dropped = 0
}

// Rule is the stochastic weight-siphoning rule for one population.
// It owns the previous step's firing rates (absent until the first
// Apply call) and fires at most one transfer per triggered neuron per
// step.  State is strictly per-instance: concurrent simulations must
// each own an independent Rule and matrix.
type Rule struct {
	N      int       `inactive:"+" desc:"population size -- must be even: rows / cols [0,N/2) are regime A, [N/2,N) regime B"`
	Params Params    `view:"inline" desc:"siphon parameters"`
	Rnd    Rand      `view:"-" desc:"random source -- nil means the shared math/rand global source"`
	Stats  Stats     `inactive:"+" desc:"cumulative transfer statistics"`
	OldF   []float32 `view:"-" desc:"previous step's firing rates -- nil until the first Apply call"`
}

// NewRule returns a rule with default parameters for a population of
// n neurons.  n must be positive and even so the matrix splits into two
// equal regimes -- an odd n silently corrupts the regime arithmetic, so
// it is rejected here.
func NewRule(n int) (*Rule, error) {
	if n <= 0 || n%2 != 0 {
		return nil, fmt.Errorf("siphon.NewRule: population size must be positive and even, got %d", n)
	}
	ru := &Rule{N: n}
	ru.Params.Defaults()
	return ru, nil
}

// Init clears the accumulated state (previous rates and stats), as at
// the start of a new run.  Parameters are unchanged.
func (ru *Rule) Init() {
	ru.OldF = nil
	ru.Stats.Init()
}

func (ru *Rule) rnd() Rand {
	if ru.Rnd != nil {
		return ru.Rnd
	}
	return sysRand{}
}

// Apply runs one step of the siphon rule.  f holds the current firing
// rate of each neuron, wt is the N×N weight matrix (zero = no
// connection), and step is the simulation step index.  On step 0, or
// on the first ever call, it only records f and returns wt unchanged;
// on later steps it evaluates every neuron's trigger condition in
// order, fires at most one transfer per triggered neuron, and then
// records f as the new history.  wt is mutated in place and returned.
func (ru *Rule) Apply(f []float32, wt *etensor.Float32, step int) (*etensor.Float32, error) {
	if err := ru.Params.Validate(); err != nil {
		return wt, err
	}
	if len(f) != ru.N {
		return wt, fmt.Errorf("siphon.Rule.Apply: got %d rates for population of %d", len(f), ru.N)
	}
	if wt.NumDims() != 2 || wt.Dim(0) != ru.N || wt.Dim(1) != ru.N {
		return wt, fmt.Errorf("siphon.Rule.Apply: weight matrix must be %d x %d", ru.N, ru.N)
	}
	if step > 0 && ru.OldF != nil {
		ru.Check(f, wt)
	}
	if ru.OldF == nil {
		ru.OldF = make([]float32, ru.N)
	}
	copy(ru.OldF, f)
	return wt, nil
}

// Check evaluates the trigger condition for every neuron in order
// 0..N-1 and executes the selected transfers against wt, so an earlier
// neuron's transfer is visible to later ones within the same step.
// Requires previous rates: Apply only calls it from step 1 onward.
func (ru *Rule) Check(f []float32, wt *etensor.Float32) {
	below := false
	for _, fr := range f {
		if fr < ru.Params.Thr {
			below = true
			break
		}
	}
	if !below { // nothing below threshold: nothing can trigger this step
		return
	}
	rnd := ru.rnd()
	for ni, fr := range f {
		dir := ru.Direction(fr, ru.OldF[ni])
		if dir == NoSiphon {
			continue
		}
		if rnd.Float32() >= ru.Params.P {
			continue
		}
		if ru.Siphon(wt, ni, dir == Reverse) {
			if dir == Forward {
				ru.Stats.Fwd++
			} else {
				ru.Stats.Rev++
			}
		} else {
			ru.Stats.Dropped++
		}
	}
}

// Direction returns the transfer direction for a neuron with current
// rate fr and previous rate old.  The derivative is relative rate of
// change: (fr - old) / old, with old == 0 special-cased to 0.  A flat
// rate never fires a non-unilateral rule.
func (ru *Rule) Direction(fr, old float32) Directions {
	var deriv float32
	if old != 0 {
		deriv = (fr - old) / old
	}
	elig := fr < ru.Params.Thr || ru.Params.Free
	switch {
	case elig && (deriv < 0 || ru.Params.Uni):
		return Forward
	case elig && deriv > 0 && !ru.Params.Uni:
		return Reverse
	}
	return NoSiphon
}

//////////////////////////////////////////////////////////////////////
// Enums

// Directions of a siphon transfer for a triggering neuron.
type Directions int

//go:generate stringer -type=Directions

var KiT_Directions = kit.Enums.AddEnum(DirectionsN, false, nil)

func (ev Directions) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Directions) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// NoSiphon means no transfer fires for this neuron this step
	NoSiphon Directions = iota

	// Forward treats the neuron as dying: one of its own-regime outgoing
	// weights is drawn off and activated at a zero cell in the other regime
	Forward

	// Reverse treats the neuron as reactivating: an active cell in the other
	// regime is drawn off and activated on the neuron's own-regime row
	Reverse

	DirectionsN
)
