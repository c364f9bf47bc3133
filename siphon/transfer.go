// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package siphon

import "github.com/emer/etable/etensor"

// Siphon executes one weight transfer for neuron ni against wt.
// rev = false is the forward (dying) direction: a nonzero weight on
// ni's own-regime row slice moves to a currently-zero cell in the other
// regime's block.  rev = true is the mirror-image reverse
// (reactivating) direction: a nonzero cell in the other regime's block
// moves to a currently-zero slot on ni's own-regime row.  Donor and
// destination are each drawn uniformly from their candidate sets.  If
// either set is empty nothing changes and Siphon reports false -- by
// contract this is a silent no-op, not an error.
func (ru *Rule) Siphon(wt *etensor.Float32, ni int, rev bool) bool {
	h := ru.N / 2
	rowOff, blkOff := 0, h // regime A: own row cols [0,h), other block [h,N)
	if ni >= h {
		rowOff, blkOff = h, 0
	}
	rnd := ru.rnd()
	base := ni * ru.N
	if rev {
		dests := ru.rowCols(wt, ni, rowOff, true)
		donors := ru.blockOffs(wt, blkOff, false)
		if len(dests) == 0 || len(donors) == 0 {
			return false
		}
		dc := dests[rnd.Intn(len(dests))]
		dn := donors[rnd.Intn(len(donors))]
		wt.Values[base+dc] = wt.Values[dn]
		wt.Values[dn] = 0
		return true
	}
	donors := ru.rowCols(wt, ni, rowOff, false)
	dests := ru.blockOffs(wt, blkOff, true)
	if len(donors) == 0 || len(dests) == 0 {
		return false
	}
	dn := donors[rnd.Intn(len(donors))]
	dc := dests[rnd.Intn(len(dests))]
	wt.Values[dc] = wt.Values[base+dn]
	wt.Values[base+dn] = 0
	return true
}

// rowCols returns the columns in neuron ni's own-regime row slice
// [colOff, colOff+N/2) whose weight is zero (zero = true) or nonzero.
func (ru *Rule) rowCols(wt *etensor.Float32, ni, colOff int, zero bool) []int {
	h := ru.N / 2
	base := ni * ru.N
	var cols []int
	for c := colOff; c < colOff+h; c++ {
		if (wt.Values[base+c] == 0) == zero {
			cols = append(cols, c)
		}
	}
	return cols
}

// blockOffs returns the flat Values offsets of the cells in the regime
// block with rows and cols [off, off+N/2) whose weight is zero
// (zero = true) or nonzero.
func (ru *Rule) blockOffs(wt *etensor.Float32, off int, zero bool) []int {
	h := ru.N / 2
	var offs []int
	for r := off; r < off+h; r++ {
		base := r * ru.N
		for c := off; c < off+h; c++ {
			if (wt.Values[base+c] == 0) == zero {
				offs = append(offs, base+c)
			}
		}
	}
	return offs
}

// RegimeMass returns the summed weight within regime A's own block
// (rows and cols [0, N/2)) and regime B's own block (rows and cols
// [N/2, N)) -- the two blocks that forward / reverse transfers move
// weight between.
func (ru *Rule) RegimeMass(wt *etensor.Float32) (a, b float32) {
	h := ru.N / 2
	for r := 0; r < h; r++ {
		base := r * ru.N
		for c := 0; c < h; c++ {
			a += wt.Values[base+c]
		}
	}
	for r := h; r < ru.N; r++ {
		base := r * ru.N
		for c := h; c < ru.N; c++ {
			b += wt.Values[base+c]
		}
	}
	return
}
