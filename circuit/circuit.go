// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package circuit

import (
	"fmt"
	"sort"
)

// Output is one circuit output: a gate and an optional name.  The empty
// name denotes an anonymous output.
type Output struct {
	Gate Gate
	Name string
}

// Circuit is an immutable view of a gate DAG: an ordered sequence of
// distinctly named inputs and an ordered sequence of outputs.  Circuits
// sharing one graph are cheap; none of the composition operators mutate
// a circuit in place.
type Circuit struct {
	g       *Graph
	inputs  []string
	outputs []Output
}

// Circuit builds a circuit over g with the given outputs.  The inputs
// are the free variables referenced by the outputs, ordered by variable
// creation.  Use WithInputOrder to attach an explicit order.
func (g *Graph) Circuit(outputs ...Output) *Circuit {
	c := &Circuit{
		g:       g,
		outputs: append([]Output(nil), outputs...),
	}
	c.inputs = c.freeVars()
	return c
}

func (c *Circuit) freeVars() []string {
	roots := make([]Gate, len(c.outputs))
	for i, o := range c.outputs {
		roots[i] = o.Gate
	}
	var vars []Gate
	c.g.Visit(func(m Gate) {
		if c.g.Op(m) == Var {
			vars = append(vars, m)
		}
	}, roots...)
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	names := make([]string, len(vars))
	for i, m := range vars {
		names[i] = c.g.VarName(m)
	}
	return names
}

// WithInputOrder returns a copy of c whose inputs are ordered as given.
// The names must be pairwise distinct and must cover every free variable
// the outputs reference; names beyond those are kept as inputs that no
// gate reads.
func (c *Circuit) WithInputOrder(inputs ...string) (*Circuit, error) {
	set := make(map[string]struct{}, len(inputs))
	for _, name := range inputs {
		if _, ok := set[name]; ok {
			return nil, fmt.Errorf("duplicate input name %q", name)
		}
		set[name] = struct{}{}
	}
	for _, name := range c.freeVars() {
		if _, ok := set[name]; !ok {
			return nil, fmt.Errorf("input order misses the referenced input %q", name)
		}
	}
	return &Circuit{
		g:       c.g,
		inputs:  append([]string(nil), inputs...),
		outputs: c.outputs,
	}, nil
}

// Graph returns the arena backing c.
func (c *Circuit) Graph() *Graph {
	return c.g
}

// Inputs returns the ordered input names.  The slice is shared; callers
// must not modify it.
func (c *Circuit) Inputs() []string {
	return c.inputs
}

// Outputs returns the ordered outputs.  The slice is shared; callers
// must not modify it.
func (c *Circuit) Outputs() []Output {
	return c.outputs
}

// OutputNames returns the names of all outputs in order, empty strings
// for the anonymous ones.
func (c *Circuit) OutputNames() []string {
	names := make([]string, len(c.outputs))
	for i, o := range c.outputs {
		names[i] = o.Name
	}
	return names
}

// NumInputs returns the number of inputs.
func (c *Circuit) NumInputs() int {
	return len(c.inputs)
}

// NumOutputs returns the number of outputs.
func (c *Circuit) NumOutputs() int {
	return len(c.outputs)
}

// Eval evaluates the circuit under the given input assignment and
// returns one value per output, in output order.  Inputs missing from
// the assignment evaluate to false.
func (c *Circuit) Eval(assignment map[string]bool) []bool {
	vs := make([]bool, len(c.g.nodes))
	vs[True] = true
	for i := 2; i < len(c.g.nodes); i++ {
		n := &c.g.nodes[i]
		switch n.op {
		case Var:
			vs[i] = assignment[c.g.varNames[n.a]]
		case Not:
			vs[i] = !vs[n.a]
		case And:
			vs[i] = vs[n.a] && vs[n.b]
		case Or:
			vs[i] = vs[n.a] || vs[n.b]
		case Xor:
			vs[i] = vs[n.a] != vs[n.b]
		}
	}
	out := make([]bool, len(c.outputs))
	for i, o := range c.outputs {
		out[i] = vs[o.Gate]
	}
	return out
}
