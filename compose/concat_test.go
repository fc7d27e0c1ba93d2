// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package compose

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chriseth/composer/circuit"
)

// halfAdder returns the circuit x,y -> s = x^y, c = x&y.
func halfAdder() *circuit.Circuit {
	g := circuit.NewGraph()
	x, y := g.Var("x"), g.Var("y")
	return g.Circuit(
		circuit.Output{Gate: g.Xor(x, y), Name: "s"},
		circuit.Output{Gate: g.And(x, y), Name: "c"},
	)
}

func TestConcatenateEmpty(t *testing.T) {
	c := Concatenate()
	assert.Equal(t, 0, c.NumInputs())
	assert.Equal(t, 0, c.NumOutputs())
}

func TestConcatenateSingle(t *testing.T) {
	c := Concatenate(halfAdder())
	assert.Equal(t, []string{"x", "y"}, c.Inputs())
	assert.Equal(t, []string{"s", "c"}, c.OutputNames())
	for _, x := range []bool{false, true} {
		for _, y := range []bool{false, true} {
			got := c.Eval(map[string]bool{"x": x, "y": y})
			assert.Equal(t, []bool{x != y, x && y}, got, "x=%v y=%v", x, y)
		}
	}
}

func TestConcatenatePair(t *testing.T) {
	// Feeding sum and carry into a disjunction yields x|y.
	g := circuit.NewGraph()
	orc := g.Circuit(circuit.Output{Gate: g.Or(g.Var("p"), g.Var("q")), Name: "r"})

	c := Concatenate(halfAdder(), orc)
	assert.Equal(t, []string{"x", "y"}, c.Inputs())
	assert.Equal(t, []string{"r"}, c.OutputNames())
	for _, x := range []bool{false, true} {
		for _, y := range []bool{false, true} {
			got := c.Eval(map[string]bool{"x": x, "y": y})
			assert.Equal(t, []bool{x || y}, got, "x=%v y=%v", x, y)
		}
	}
}

func TestConcatenateOverhang(t *testing.T) {
	// The inverter consumes only the sum; the carry overhangs and is
	// listed after the last circuit's outputs.
	g := circuit.NewGraph()
	inv := g.Circuit(circuit.Output{Gate: g.Not(g.Var("u")), Name: "n"})

	c := Concatenate(halfAdder(), inv)
	assert.Equal(t, []string{"x", "y"}, c.Inputs())
	assert.Equal(t, []string{"n", "c"}, c.OutputNames())

	got := c.Eval(map[string]bool{"x": true, "y": false})
	assert.Equal(t, []bool{false, false}, got)
	got = c.Eval(map[string]bool{"x": true, "y": true})
	assert.Equal(t, []bool{true, true}, got)
}

func TestConcatenateAnonymousOverhang(t *testing.T) {
	g := circuit.NewGraph()
	x := g.Var("x")
	first := g.Circuit(
		circuit.Output{Gate: x, Name: "t"},
		circuit.Output{Gate: g.Not(x)},
	)
	g2 := circuit.NewGraph()
	inv := g2.Circuit(circuit.Output{Gate: g2.Not(g2.Var("u")), Name: "n"})

	c := Concatenate(first, inv)
	assert.Equal(t, []string{"n", ""}, c.OutputNames())
}

func TestConcatenateFreshInput(t *testing.T) {
	// The second circuit has one more input than the first has outputs;
	// the unfed input surfaces as a fresh external input.
	g := circuit.NewGraph()
	src := g.Circuit(circuit.Output{Gate: g.Var("x"), Name: "o"})
	g2 := circuit.NewGraph()
	and := g2.Circuit(circuit.Output{Gate: g2.And(g2.Var("p"), g2.Var("q")), Name: "r"})

	c := Concatenate(src, and)
	assert.Equal(t, []string{"x", "q"}, c.Inputs())
	assert.Equal(t, []string{"r"}, c.OutputNames())
	got := c.Eval(map[string]bool{"x": true, "q": true})
	assert.Equal(t, []bool{true}, got)
	got = c.Eval(map[string]bool{"x": true, "q": false})
	assert.Equal(t, []bool{false}, got)
}

func TestConcatenateFreshInputCollision(t *testing.T) {
	g := circuit.NewGraph()
	src := g.Circuit(circuit.Output{Gate: g.Var("x"), Name: "o"})
	g2 := circuit.NewGraph()
	and := g2.Circuit(circuit.Output{Gate: g2.And(g2.Var("a"), g2.Var("x")), Name: "r"})

	c := Concatenate(src, and)
	assert.Equal(t, []string{"x", "x_1"}, c.Inputs())
	got := c.Eval(map[string]bool{"x": true, "x_1": false})
	assert.Equal(t, []bool{false}, got)
}

func TestConcatenateOutputNameCollision(t *testing.T) {
	g := circuit.NewGraph()
	x := g.Var("x")
	first := g.Circuit(
		circuit.Output{Gate: x, Name: "t"},
		circuit.Output{Gate: g.Not(x), Name: "o"},
	)
	g2 := circuit.NewGraph()
	inv := g2.Circuit(circuit.Output{Gate: g2.Not(g2.Var("u")), Name: "o"})

	c := Concatenate(first, inv)
	// The last circuit claims "o" first; the overhang is renamed.
	assert.Equal(t, []string{"o", "o_1"}, c.OutputNames())
	got := c.Eval(map[string]bool{"x": true})
	assert.Equal(t, []bool{false, false}, got)
}

func TestConcatenateSharedStructure(t *testing.T) {
	// Serial repetition grows the arena linearly, not exponentially.
	ha := halfAdder()
	prev := 0
	for _, n := range []int{10, 20, 40} {
		size := RepeatSerial(ha, n).Graph().Len()
		assert.Greater(t, size, prev)
		assert.LessOrEqual(t, size, 4+3*n, fmt.Sprintf("n=%d", n))
		prev = size
	}
}
