// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package circuit

import (
	"github.com/chriseth/composer/names"
)

// Union places circuits next to each other without establishing any
// connection.  The result's inputs are all operand inputs in operand
// order and the outputs all operand outputs in operand order.  Input
// names and non-empty output names that collide with an earlier
// operand's are renamed to fresh names derived from the originals, so
// the first operand's names always pass through unchanged.
func Union(circuits ...*Circuit) *Circuit {
	dst := NewGraph()
	inScope := names.NewScope()
	outScope := names.NewScope()
	var inputs []string
	var outputs []Output
	for _, c := range circuits {
		rename := make(map[string]string, len(c.inputs))
		for _, name := range c.inputs {
			fresh := inScope.Allocate(name)
			rename[name] = fresh
			inputs = append(inputs, fresh)
		}
		sub := copyGates(dst, c, rename)
		for _, o := range c.outputs {
			outputs = append(outputs, Output{
				Gate: sub[o.Gate],
				Name: outScope.Allocate(o.Name),
			})
		}
	}
	u, err := dst.Circuit(outputs...).WithInputOrder(inputs...)
	if err != nil {
		panic("circuit: union produced an inconsistent input set: " + err.Error())
	}
	return u
}

// copyGates rewrites every gate reachable from c's outputs into dst,
// renaming variables through rename, and returns the substitution map.
func copyGates(dst *Graph, c *Circuit, rename map[string]string) map[Gate]Gate {
	src := c.g
	sub := make(map[Gate]Gate, len(c.outputs)*2)
	roots := make([]Gate, len(c.outputs))
	for i, o := range c.outputs {
		roots[i] = o.Gate
	}
	src.Visit(func(m Gate) {
		switch src.Op(m) {
		case Const:
			sub[m] = m
		case Var:
			name := src.VarName(m)
			if fresh, ok := rename[name]; ok {
				name = fresh
			}
			sub[m] = dst.Var(name)
		case Not:
			a, _ := src.Operands(m)
			sub[m] = dst.Not(sub[a])
		case And:
			a, b := src.Operands(m)
			sub[m] = dst.And(sub[a], sub[b])
		case Or:
			a, b := src.Operands(m)
			sub[m] = dst.Or(sub[a], sub[b])
		case Xor:
			a, b := src.Operands(m)
			sub[m] = dst.Xor(sub[a], sub[b])
		}
	}, roots...)
	return sub
}
