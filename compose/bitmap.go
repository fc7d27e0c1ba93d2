// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package compose synthesizes combinational circuits from high-level
// specifications and composes existing circuits.  Every operator
// consumes immutable circuit values and returns a new one; each call
// owns its own caches and name scopes, so independent compositions may
// run concurrently over shared source circuits.
package compose

import (
	"fmt"
	"math/bits"

	"github.com/chriseth/composer/circuit"
)

// Bitmap synthesizes a circuit from a truth table.  table[r] is the
// output value for input row r, where input k carries bit k of r and
// output k computes bit k of the value, both counted from the low end.
// The table length must be a power of two and fixes the number of
// inputs; the largest table entry fixes the number of outputs.  The
// produced form is a direct sum of products, not a minimized one.
//
// Inputs are named i0, i1, ...; outputs are anonymous.
func Bitmap(table []uint64) (*circuit.Circuit, error) {
	inputBits, outputBits, err := bitmapWidths(table)
	if err != nil {
		return nil, err
	}
	g := circuit.NewGraph()
	ins := make([]circuit.Gate, inputBits)
	inputs := make([]string, inputBits)
	for i := range ins {
		inputs[i] = fmt.Sprintf("i%d", i)
		ins[i] = g.Var(inputs[i])
	}
	outs := make([]circuit.Output, 0, outputBits)
	term := make([]circuit.Gate, inputBits)
	for bit := 0; bit < outputBits; bit++ {
		var rows []circuit.Gate
		for r, v := range table {
			if v&(1<<uint(bit)) == 0 {
				continue
			}
			for b := 0; b < inputBits; b++ {
				if r&(1<<uint(b)) != 0 {
					term[b] = ins[b]
				} else {
					term[b] = g.Not(ins[b])
				}
			}
			rows = append(rows, g.Conj(term...))
		}
		outs = append(outs, circuit.Output{Gate: g.Disj(rows...)})
	}
	// The input names are declared even when an output cone folds to a
	// constant and no gate reads them.
	return g.Circuit(outs...).WithInputOrder(inputs...)
}

// bitmapWidths validates the table and returns the number of inputs and
// outputs the circuit needs.
func bitmapWidths(table []uint64) (inputBits, outputBits int, err error) {
	if len(table) == 0 {
		return 0, 0, nil
	}
	inputBits = bits.Len(uint(len(table))) - 1
	if 1<<uint(inputBits) != len(table) {
		return 0, 0, &NotPowerOfTwoError{Count: len(table)}
	}
	var largest uint64
	for _, v := range table {
		if v > largest {
			largest = v
		}
	}
	return inputBits, bits.Len64(largest), nil
}
