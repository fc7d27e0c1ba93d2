// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriseth/composer/circuit"
)

// orAnd builds a two-input circuit with outputs o1 = a|b and o2 = a&b.
func orAnd() *circuit.Circuit {
	g := circuit.NewGraph()
	a, b := g.Var("a"), g.Var("b")
	return g.Circuit(
		circuit.Output{Gate: g.Or(a, b), Name: "o1"},
		circuit.Output{Gate: g.And(a, b), Name: "o2"},
	)
}

func TestInterleavePermutation(t *testing.T) {
	assert.Equal(t, []int{0, 3, 1, 4, 2, 5}, interleavePermutation(3, 2))
	assert.Equal(t, []int{0, 1, 2}, interleavePermutation(3, 1))
	assert.Equal(t, []int{0, 2, 4, 6, 1, 3, 5, 7}, interleavePermutation(2, 4))
	assert.Empty(t, interleavePermutation(0, 3))
}

func TestRepeatParallel(t *testing.T) {
	r := RepeatParallel(orAnd(), 3)
	assert.Equal(t, []string{"a", "b", "a_1", "b_1", "a_2", "b_2"}, r.Inputs())
	assert.Equal(t, []string{"o1", "o2", "o1_1", "o2_1", "o1_2", "o2_2"}, r.OutputNames())

	got := r.Eval(map[string]bool{
		"a": true, "b": false,
		"a_1": false, "b_1": false,
		"a_2": true, "b_2": true,
	})
	assert.Equal(t, []bool{true, false, false, false, true, true}, got)
}

func TestRepeatInterleaved(t *testing.T) {
	r := RepeatInterleaved(orAnd(), 3)
	assert.Equal(t, []string{"a", "a_1", "a_2", "b", "b_1", "b_2"}, r.Inputs())
	assert.Equal(t, []string{"o1", "o1_1", "o1_2", "o2", "o2_1", "o2_2"}, r.OutputNames())

	got := r.Eval(map[string]bool{
		"a": true, "b": false,
		"a_1": false, "b_1": false,
		"a_2": true, "b_2": true,
	})
	assert.Equal(t, []bool{true, false, true, false, false, true}, got)
}

func TestRepeatSerial(t *testing.T) {
	g := circuit.NewGraph()
	inv := g.Circuit(circuit.Output{Gate: g.Not(g.Var("x")), Name: "y"})

	r := RepeatSerial(inv, 3)
	assert.Equal(t, []string{"x"}, r.Inputs())
	assert.Equal(t, []string{"y"}, r.OutputNames())
	assert.Equal(t, []bool{false}, r.Eval(map[string]bool{"x": true}))
	assert.Equal(t, []bool{true}, r.Eval(map[string]bool{"x": false}))

	r2 := RepeatSerial(inv, 2)
	assert.Equal(t, []bool{true}, r2.Eval(map[string]bool{"x": true}))
}

func TestRepeatZero(t *testing.T) {
	c := orAnd()
	for _, r := range []*circuit.Circuit{
		RepeatParallel(c, 0),
		RepeatInterleaved(c, 0),
		RepeatSerial(c, 0),
	} {
		assert.Equal(t, 0, r.NumInputs())
		assert.Equal(t, 0, r.NumOutputs())
	}
}

func TestInterleaveDistinct(t *testing.T) {
	g1 := circuit.NewGraph()
	c1 := g1.Circuit(circuit.Output{Gate: g1.Or(g1.Var("a"), g1.Var("b")), Name: "o"})
	g2 := circuit.NewGraph()
	c2 := g2.Circuit(circuit.Output{Gate: g2.And(g2.Var("x"), g2.Var("y")), Name: "p"})

	r, err := Interleave(c1, c2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "x", "b", "y"}, r.Inputs())
	assert.Equal(t, []string{"o", "p"}, r.OutputNames())

	got := r.Eval(map[string]bool{"a": true, "b": false, "x": true, "y": true})
	assert.Equal(t, []bool{true, true}, got)
}

func TestInterleaveShapeMismatch(t *testing.T) {
	g := circuit.NewGraph()
	one := g.Circuit(circuit.Output{Gate: g.Var("x")})
	_, err := Interleave(orAnd(), one)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equal shape")
}
