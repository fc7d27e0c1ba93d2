// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package compose

import (
	"fmt"

	"github.com/chriseth/composer/circuit"
)

// RepeatParallel places n structurally independent copies of c side by
// side.  Copy k occupies inputs [k*inputs(c), (k+1)*inputs(c)) and the
// analogous output slice; the first copy keeps its original names,
// later copies get fresh names derived from them.
func RepeatParallel(c *circuit.Circuit, n int) *circuit.Circuit {
	copies := make([]*circuit.Circuit, n)
	for i := range copies {
		copies[i] = c
	}
	return circuit.Union(copies...)
}

// RepeatInterleaved is RepeatParallel with interleaved inputs and
// outputs: input k of copy 0 is followed by input k of every further
// copy before input k+1 appears, and likewise for outputs.
func RepeatInterleaved(c *circuit.Circuit, n int) *circuit.Circuit {
	rc := RepeatParallel(c, n)
	return reorder(rc,
		interleavePermutation(c.NumInputs(), n),
		interleavePermutation(c.NumOutputs(), n))
}

// RepeatSerial concatenates n copies of c, feeding each copy's outputs
// into the next copy's inputs.
func RepeatSerial(c *circuit.Circuit, n int) *circuit.Circuit {
	copies := make([]*circuit.Circuit, n)
	for i := range copies {
		copies[i] = c
	}
	return Concatenate(copies...)
}

// Interleave places distinct circuits next to each other with
// interleaved inputs and outputs.  All circuits must share the same
// input and output counts.
func Interleave(circuits ...*circuit.Circuit) (*circuit.Circuit, error) {
	if len(circuits) == 0 {
		return circuit.Union(), nil
	}
	ni, no := circuits[0].NumInputs(), circuits[0].NumOutputs()
	for _, c := range circuits[1:] {
		if c.NumInputs() != ni || c.NumOutputs() != no {
			return nil, fmt.Errorf(
				"interleave needs circuits of equal shape, got %d/%d and %d/%d inputs/outputs",
				ni, no, c.NumInputs(), c.NumOutputs())
		}
	}
	u := circuit.Union(circuits...)
	return reorder(u,
		interleavePermutation(ni, len(circuits)),
		interleavePermutation(no, len(circuits))), nil
}

// interleavePermutation maps interleaved slot positions to repeated
// ones: position v*repetitions+k holds k*items+v, for every original
// slot v and repetition k.
func interleavePermutation(items, repetitions int) []int {
	perm := make([]int, 0, items*repetitions)
	for v := 0; v < items; v++ {
		for k := 0; k < repetitions; k++ {
			perm = append(perm, k*items+v)
		}
	}
	return perm
}

// reorder rebuilds c with permuted input and output orders.
func reorder(c *circuit.Circuit, inPerm, outPerm []int) *circuit.Circuit {
	ins := c.Inputs()
	outs := c.Outputs()
	newOuts := make([]circuit.Output, len(outPerm))
	for i, j := range outPerm {
		newOuts[i] = outs[j]
	}
	newIns := make([]string, len(inPerm))
	for i, j := range inPerm {
		newIns[i] = ins[j]
	}
	r, err := c.Graph().Circuit(newOuts...).WithInputOrder(newIns...)
	if err != nil {
		panic("compose: reorder produced an inconsistent input set: " + err.Error())
	}
	return r
}
