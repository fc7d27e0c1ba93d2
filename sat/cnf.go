// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package sat bridges circuits to CNF and a SAT solver, for the
// downstream checks (satisfiability, equivalence) composed circuits are
// typically built for.
package sat

import (
	"github.com/chriseth/composer/circuit"
)

// CNF is a Tseitin translation of a circuit.  Variables are the usual
// positive DIMACS integers; negative literals denote negation.
type CNF struct {
	Clauses [][]int
	// Vars maps input names to their CNF variables.
	Vars map[string]int
	// Outputs holds one literal per circuit output.
	Outputs []int

	nextVar int
	trueVar int
	lits    map[circuit.Gate]int
}

// FromCircuit translates every output of c.  The clauses constrain each
// introduced definition variable to equal its gate, so any assignment
// satisfying them evaluates the outputs like Circuit.Eval does.
func FromCircuit(c *circuit.Circuit) *CNF {
	cnf := &CNF{
		Vars: make(map[string]int),
		lits: make(map[circuit.Gate]int),
	}
	g := c.Graph()
	for _, name := range c.Inputs() {
		v := cnf.newVar()
		cnf.Vars[name] = v
		if m, ok := g.FindVar(name); ok {
			cnf.lits[m] = v
		}
	}
	roots := make([]circuit.Gate, c.NumOutputs())
	for i, o := range c.Outputs() {
		roots[i] = o.Gate
	}
	g.Visit(func(m circuit.Gate) {
		if _, ok := cnf.lits[m]; ok {
			return
		}
		switch g.Op(m) {
		case circuit.Const:
			t := cnf.constTrue()
			if m == circuit.True {
				cnf.lits[m] = t
			} else {
				cnf.lits[m] = -t
			}
		case circuit.Not:
			a, _ := g.Operands(m)
			cnf.lits[m] = -cnf.lits[a]
		case circuit.And:
			a, b := g.Operands(m)
			la, lb := cnf.lits[a], cnf.lits[b]
			v := cnf.newVar()
			cnf.add(-v, la)
			cnf.add(-v, lb)
			cnf.add(v, -la, -lb)
			cnf.lits[m] = v
		case circuit.Or:
			a, b := g.Operands(m)
			la, lb := cnf.lits[a], cnf.lits[b]
			v := cnf.newVar()
			cnf.add(-v, la, lb)
			cnf.add(v, -la)
			cnf.add(v, -lb)
			cnf.lits[m] = v
		case circuit.Xor:
			a, b := g.Operands(m)
			la, lb := cnf.lits[a], cnf.lits[b]
			v := cnf.newVar()
			cnf.add(-v, la, lb)
			cnf.add(-v, -la, -lb)
			cnf.add(v, -la, lb)
			cnf.add(v, la, -lb)
			cnf.lits[m] = v
		}
	}, roots...)
	cnf.Outputs = make([]int, len(roots))
	for i, m := range roots {
		cnf.Outputs[i] = cnf.lits[m]
	}
	return cnf
}

func (cnf *CNF) newVar() int {
	cnf.nextVar++
	return cnf.nextVar
}

// constTrue returns a variable constrained to true, allocated on first
// use.
func (cnf *CNF) constTrue() int {
	if cnf.trueVar == 0 {
		cnf.trueVar = cnf.newVar()
		cnf.add(cnf.trueVar)
	}
	return cnf.trueVar
}

func (cnf *CNF) add(lits ...int) {
	cnf.Clauses = append(cnf.Clauses, lits)
}
