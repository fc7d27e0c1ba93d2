// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package sat

import (
	"fmt"

	"github.com/crillab/gophersat/solver"

	"github.com/chriseth/composer/circuit"
)

// Satisfiable reports whether some input assignment makes any output of
// c true.  If so, a witness assignment over the input names is returned
// with it; inputs the solver left unconstrained are absent.
func Satisfiable(c *circuit.Circuit) (bool, map[string]bool, error) {
	if c.NumOutputs() == 0 {
		return false, nil, nil
	}
	cnf := FromCircuit(c)
	cnf.add(cnf.Outputs...)
	return solve(cnf)
}

// Equivalent reports whether a and b compute the same function.  The
// circuits must agree on their output count and on their input name
// sets; the inputs are matched by name, not by position.  On
// inequivalence the returned assignment drives some output pair apart.
func Equivalent(a, b *circuit.Circuit) (bool, map[string]bool, error) {
	if a.NumOutputs() != b.NumOutputs() {
		return false, nil, fmt.Errorf("circuits have %d and %d outputs", a.NumOutputs(), b.NumOutputs())
	}
	if err := sameInputSet(a, b); err != nil {
		return false, nil, err
	}
	g := circuit.NewGraph()
	ao := copyInto(g, a)
	bo := copyInto(g, b)
	diffs := make([]circuit.Gate, len(ao))
	for i := range ao {
		diffs[i] = g.Xor(ao[i], bo[i])
	}
	miter := g.Disj(diffs...)
	if miter == circuit.False {
		return true, nil, nil
	}
	mc := g.Circuit(circuit.Output{Gate: miter})
	cnf := FromCircuit(mc)
	cnf.add(cnf.Outputs[0])
	sat, model, err := solve(cnf)
	return !sat, model, err
}

func sameInputSet(a, b *circuit.Circuit) error {
	set := make(map[string]bool, a.NumInputs())
	for _, name := range a.Inputs() {
		set[name] = true
	}
	for _, name := range b.Inputs() {
		if !set[name] {
			return fmt.Errorf("input %q exists only in the second circuit", name)
		}
		delete(set, name)
	}
	for name := range set {
		return fmt.Errorf("input %q exists only in the first circuit", name)
	}
	return nil
}

// solve runs gophersat on the clauses and extracts the input witness on
// a Sat answer.
func solve(cnf *CNF) (bool, map[string]bool, error) {
	s := solver.New(solver.ParseSlice(cnf.Clauses))
	switch s.Solve() {
	case solver.Sat:
		model := s.Model()
		witness := make(map[string]bool, len(cnf.Vars))
		for name, v := range cnf.Vars {
			if v-1 < len(model) {
				witness[name] = model[v-1]
			}
		}
		return true, witness, nil
	case solver.Unsat:
		return false, nil, nil
	}
	return false, nil, fmt.Errorf("solver returned an indeterminate status")
}

// copyInto rewrites c's output cones into g, keeping input names, and
// returns the rewritten output gates.
func copyInto(g *circuit.Graph, c *circuit.Circuit) []circuit.Gate {
	src := c.Graph()
	sub := make(map[circuit.Gate]circuit.Gate)
	roots := make([]circuit.Gate, c.NumOutputs())
	for i, o := range c.Outputs() {
		roots[i] = o.Gate
	}
	src.Visit(func(m circuit.Gate) {
		switch src.Op(m) {
		case circuit.Const:
			sub[m] = m
		case circuit.Var:
			sub[m] = g.Var(src.VarName(m))
		case circuit.Not:
			a, _ := src.Operands(m)
			sub[m] = g.Not(sub[a])
		case circuit.And:
			a, b := src.Operands(m)
			sub[m] = g.And(sub[a], sub[b])
		case circuit.Or:
			a, b := src.Operands(m)
			sub[m] = g.Or(sub[a], sub[b])
		case circuit.Xor:
			a, b := src.Operands(m)
			sub[m] = g.Xor(sub[a], sub[b])
		}
	}, roots...)
	outs := make([]circuit.Gate, len(roots))
	for i, m := range roots {
		outs[i] = sub[m]
	}
	return outs
}
