// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package siphon is the overall repository for the stochastic
weight-siphoning rule: a structural plasticity mechanism that relocates
connection weight between the two halves (regimes) of a square
connectivity matrix, triggered by the recent firing-rate trajectory of
individual neurons.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* siphon: the core rule implementation -- per-step trigger evaluation
and the single-weight transfer algorithm, with injectable randomness
for reproducible runs.

* poprate: a minimal stochastic firing-rate population model that can
drive the rule in examples and soak tests -- any source of per-step
rate vectors works equally well.

* examples/siphonsim: a runnable headless simulation that wires poprate
and siphon together over a sparse random weight matrix and logs
per-step statistics to a TSV file.
*/
package siphon
