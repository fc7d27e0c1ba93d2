// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriseth/composer/circuit"
)

func halfAdder(t *testing.T) *circuit.Circuit {
	t.Helper()
	g := circuit.NewGraph()
	x, y := g.Var("x"), g.Var("y")
	c, err := g.Circuit(
		circuit.Output{Gate: g.Xor(x, y), Name: "s"},
		circuit.Output{Gate: g.And(x, y), Name: "c"},
	).WithInputOrder("x", "y")
	require.NoError(t, err)
	return c
}

func TestDefaultInputOrder(t *testing.T) {
	g := circuit.NewGraph()
	// Variables appear as inputs in creation order, referenced or not by
	// the first output.
	b := g.Var("b")
	a := g.Var("a")
	c := g.Circuit(circuit.Output{Gate: g.And(a, b), Name: "o"})
	assert.Equal(t, []string{"b", "a"}, c.Inputs())
}

func TestUnreferencedVarIsNotAnInput(t *testing.T) {
	g := circuit.NewGraph()
	a := g.Var("a")
	g.Var("unused")
	c := g.Circuit(circuit.Output{Gate: g.Not(a)})
	assert.Equal(t, []string{"a"}, c.Inputs())
}

func TestWithInputOrder(t *testing.T) {
	g := circuit.NewGraph()
	a, b := g.Var("a"), g.Var("b")
	base := g.Circuit(circuit.Output{Gate: g.And(a, b)})

	c, err := base.WithInputOrder("b", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, c.Inputs())

	_, err = base.WithInputOrder("a", "a")
	assert.Error(t, err)

	_, err = base.WithInputOrder("a")
	assert.Error(t, err)

	// Extra inputs that no gate reads are kept.
	c, err = base.WithInputOrder("a", "b", "spare")
	require.NoError(t, err)
	assert.Equal(t, 3, c.NumInputs())
}

func TestQueries(t *testing.T) {
	c := halfAdder(t)
	assert.Equal(t, 2, c.NumInputs())
	assert.Equal(t, 2, c.NumOutputs())
	assert.Equal(t, []string{"s", "c"}, c.OutputNames())
}

func TestEval(t *testing.T) {
	c := halfAdder(t)
	for _, tc := range []struct {
		x, y bool
		want []bool
	}{
		{false, false, []bool{false, false}},
		{true, false, []bool{true, false}},
		{false, true, []bool{true, false}},
		{true, true, []bool{false, true}},
	} {
		got := c.Eval(map[string]bool{"x": tc.x, "y": tc.y})
		assert.Equal(t, tc.want, got, "x=%v y=%v", tc.x, tc.y)
	}
}

func TestEvalConstantOutputs(t *testing.T) {
	g := circuit.NewGraph()
	c := g.Circuit(
		circuit.Output{Gate: circuit.True},
		circuit.Output{Gate: circuit.False},
	)
	assert.Equal(t, 0, c.NumInputs())
	assert.Equal(t, []bool{true, false}, c.Eval(nil))
}

func TestEmptyCircuit(t *testing.T) {
	c := circuit.NewGraph().Circuit()
	assert.Equal(t, 0, c.NumInputs())
	assert.Equal(t, 0, c.NumOutputs())
	assert.Empty(t, c.Eval(nil))
}
