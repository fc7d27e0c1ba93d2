// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package compose

import (
	"fmt"
	"strconv"

	"github.com/chriseth/composer/circuit"
)

// Permutation synthesizes a pure rewiring circuit from a sequence of
// integer tokens.  The tokens must form a permutation of 0..n or of
// 1..n, where n is the sequence length; the presence of a zero selects
// 0-based interpretation.  The inputs are i0..i(n-1) in that order and
// output j is wired to input i<perm[j]>; no logic gates are introduced.
func Permutation(tokens []string) (*circuit.Circuit, error) {
	perm, err := validatePermutation(tokens)
	if err != nil {
		return nil, err
	}
	g := circuit.NewGraph()
	ins := make([]circuit.Gate, len(perm))
	inputs := make([]string, len(perm))
	for i := range perm {
		inputs[i] = fmt.Sprintf("i%d", i)
		ins[i] = g.Var(inputs[i])
	}
	outs := make([]circuit.Output, len(perm))
	for j, v := range perm {
		outs[j] = circuit.Output{Gate: ins[v]}
	}
	return g.Circuit(outs...).WithInputOrder(inputs...)
}

// validatePermutation parses the tokens and normalizes them to 0-based
// values.
func validatePermutation(tokens []string) ([]int, error) {
	values := make([]uint64, len(tokens))
	oneBased := true
	for i, tok := range tokens {
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, &ParseError{Token: tok, Err: err}
		}
		values[i] = v
		if v == 0 {
			oneBased = false
		}
	}
	seen := make([]bool, len(values))
	perm := make([]int, len(values))
	for i, v := range values {
		idx := v
		if oneBased {
			idx--
		}
		if idx >= uint64(len(values)) {
			return nil, &OutOfRangeError{Value: v, Bound: len(values)}
		}
		if seen[idx] {
			return nil, &DuplicateValueError{Value: v}
		}
		seen[idx] = true
		perm[i] = int(idx)
	}
	return perm, nil
}
