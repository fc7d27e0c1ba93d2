// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package compose

import (
	"fmt"

	"github.com/chriseth/composer/circuit"
	"github.com/chriseth/composer/names"
)

// Concatenate composes circuits serially: output j of each circuit
// feeds input j of the next one, for every j both sides have.  An input
// of a later circuit with no feeding output becomes a fresh external
// input; an output with no consuming input ("overhang") becomes an
// external output.  The result's outputs are all outputs of the last
// circuit followed by the overhang of the earlier circuits in reverse
// circuit order, each group in its circuit's own output order.
//
// The result's inputs are the first circuit's inputs, passed through
// unchanged, followed by the fresh inputs in the order they were
// needed.  Fresh input and output names are reconciled against the ones
// already taken in two independent scopes; anonymous outputs stay
// anonymous.
//
// An empty argument list yields the empty circuit; a single circuit
// comes back observably unchanged.
func Concatenate(circuits ...*circuit.Circuit) *circuit.Circuit {
	if len(circuits) == 0 {
		return circuit.NewGraph().Circuit()
	}
	cc := newConcatenator(circuits)
	outputs := cc.run()
	r, err := cc.dst.Circuit(outputs...).WithInputOrder(cc.inputs...)
	if err != nil {
		panic("compose: concatenation produced an inconsistent input set: " + err.Error())
	}
	return r
}

type gateKey struct {
	circuit int
	gate    circuit.Gate
}

type inputKey struct {
	circuit int
	name    string
}

// concatenator rewrites each retained gate of the chain exactly once
// into dst.  All state is local to one Concatenate call.
type concatenator struct {
	circuits []*circuit.Circuit
	dst      *circuit.Graph

	// Rewritten gate per circuit index and source gate.
	gateSubs map[gateKey]circuit.Gate
	// Rewritten gate per circuit index and input name.
	inputSubs map[inputKey]circuit.Gate
	// Input position per circuit index and input name, built on demand.
	inputPos []map[string]int

	inScope  *names.Scope
	outScope *names.Scope
	inputs   []string
}

func newConcatenator(circuits []*circuit.Circuit) *concatenator {
	cc := &concatenator{
		circuits:  circuits,
		dst:       circuit.NewGraph(),
		gateSubs:  make(map[gateKey]circuit.Gate),
		inputSubs: make(map[inputKey]circuit.Gate),
		inputPos:  make([]map[string]int, len(circuits)),
		inScope:   names.NewScope(),
		outScope:  names.NewScope(),
	}
	// The first circuit's inputs pass through unchanged; later fresh
	// allocations must not collide with them.
	for _, name := range circuits[0].Inputs() {
		cc.inScope.Reserve(name)
		cc.inputs = append(cc.inputs, name)
	}
	return cc
}

// run determines the overhanging outputs (including all outputs of the
// last circuit) and materializes them in dst.
func (cc *concatenator) run() []circuit.Output {
	var outputs []circuit.Output
	for i := len(cc.circuits) - 1; i >= 0; i-- {
		// Outputs consumed by the next circuit's inputs are skipped.
		next := 0
		if i+1 < len(cc.circuits) {
			next = cc.circuits[i+1].NumInputs()
		}
		outs := cc.circuits[i].Outputs()
		if next >= len(outs) {
			continue
		}
		for _, o := range outs[next:] {
			name := cc.outScope.Allocate(o.Name)
			outputs = append(outputs, circuit.Output{
				Gate: cc.mapGate(i, o.Gate),
				Name: name,
			})
		}
	}
	return outputs
}

// mapGate re-expresses the gate root of circuit ci in terms of dst,
// visiting its dependency DAG in dependency order and rewriting each
// distinct (circuit, gate) pair once.
func (cc *concatenator) mapGate(ci int, root circuit.Gate) circuit.Gate {
	src := cc.circuits[ci].Graph()
	src.Visit(func(m circuit.Gate) {
		k := gateKey{circuit: ci, gate: m}
		if _, ok := cc.gateSubs[k]; ok {
			return
		}
		var sub circuit.Gate
		switch src.Op(m) {
		case circuit.Const:
			// The constants occupy the same indices in every graph.
			sub = m
		case circuit.Var:
			sub = cc.mapInput(ci, src.VarName(m))
		case circuit.Not:
			a, _ := src.Operands(m)
			sub = cc.dst.Not(cc.sub(ci, a))
		case circuit.And:
			a, b := src.Operands(m)
			sub = cc.dst.And(cc.sub(ci, a), cc.sub(ci, b))
		case circuit.Or:
			a, b := src.Operands(m)
			sub = cc.dst.Or(cc.sub(ci, a), cc.sub(ci, b))
		case circuit.Xor:
			a, b := src.Operands(m)
			sub = cc.dst.Xor(cc.sub(ci, a), cc.sub(ci, b))
		}
		cc.gateSubs[k] = sub
	}, root)
	return cc.sub(ci, root)
}

// sub looks up an already rewritten gate.  The dependency-ordered visit
// guarantees it exists; a miss is a programming defect.
func (cc *concatenator) sub(ci int, m circuit.Gate) circuit.Gate {
	s, ok := cc.gateSubs[gateKey{circuit: ci, gate: m}]
	if !ok {
		panic(fmt.Sprintf("compose: gate %d of circuit %d was not rewritten", m, ci))
	}
	return s
}

// mapInput resolves the input name of circuit ci to a dst gate: the
// first circuit's inputs map to themselves, a fed input materializes
// the feeding output of the previous circuit, and an unfed one becomes
// a fresh external input.
func (cc *concatenator) mapInput(ci int, name string) circuit.Gate {
	k := inputKey{circuit: ci, name: name}
	if sub, ok := cc.inputSubs[k]; ok {
		return sub
	}
	var sub circuit.Gate
	if ci == 0 {
		sub = cc.dst.Var(name)
	} else {
		prev := cc.circuits[ci-1]
		pos := cc.positionOf(ci, name)
		if pos < prev.NumOutputs() {
			sub = cc.mapGate(ci-1, prev.Outputs()[pos].Gate)
		} else {
			fresh := cc.inScope.Allocate(name)
			cc.inputs = append(cc.inputs, fresh)
			sub = cc.dst.Var(fresh)
		}
	}
	cc.inputSubs[k] = sub
	return sub
}

func (cc *concatenator) positionOf(ci int, name string) int {
	if cc.inputPos[ci] == nil {
		ins := cc.circuits[ci].Inputs()
		pos := make(map[string]int, len(ins))
		for i, n := range ins {
			pos[n] = i
		}
		cc.inputPos[ci] = pos
	}
	pos, ok := cc.inputPos[ci][name]
	if !ok {
		panic(fmt.Sprintf("compose: %q is not an input of circuit %d", name, ci))
	}
	return pos
}
