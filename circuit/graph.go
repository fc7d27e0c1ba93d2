// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package circuit implements hash-consed combinational boolean circuits.
//
// A Graph is an append-only arena of gates.  Gates are structurally
// interned: constructing a gate from the same operator and the same
// operand identities returns the existing arena index, so a graph never
// holds two copies of one subexpression.  Arena indices are topological;
// the operands of a gate always have smaller indices than the gate
// itself.
package circuit

// Gate identifies a node in a Graph.  Gates are cheap, copyable arena
// indices.  The zero value is the constant false.
type Gate uint32

// Every graph reserves the same two indices for the constants.
const (
	False Gate = 0
	True  Gate = 1
)

// Op is the operator tag of a gate.
type Op uint8

const (
	Const Op = iota
	Var
	Not
	And
	Or
	Xor
)

func (o Op) String() string {
	switch o {
	case Const:
		return "const"
	case Var:
		return "var"
	case Not:
		return "not"
	case And:
		return "and"
	case Or:
		return "or"
	case Xor:
		return "xor"
	}
	return "invalid"
}

// For Var nodes, a holds the index into varNames.  For Not nodes only a
// is meaningful.  n chains nodes whose strash codes collide.
type node struct {
	op   Op
	a, b Gate
	n    uint32
}

// Graph is an arena of interned gates.  Construction only appends;
// existing gates are never modified, so any number of readers may share
// a graph while at most one goroutine constructs in it.
type Graph struct {
	nodes    []node
	strash   []uint32
	vars     map[string]Gate
	varNames []string
}

// NewGraph creates an empty graph holding only the two constants.
func NewGraph() *Graph {
	return NewGraphCap(128)
}

// NewGraphCap is NewGraph with an initial arena capacity hint.
func NewGraphCap(capHint int) *Graph {
	if capHint < 4 {
		capHint = 4
	}
	g := &Graph{
		nodes:  make([]node, 2, capHint),
		strash: make([]uint32, capHint),
		vars:   make(map[string]Gate),
	}
	g.nodes[False] = node{op: Const}
	g.nodes[True] = node{op: Const}
	return g
}

// Len returns the number of nodes in the arena, constants included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Op returns the operator tag of m.
func (g *Graph) Op(m Gate) Op {
	return g.nodes[m].op
}

// Operands returns the operands of m.  Both are meaningful for And, Or
// and Xor; only the first for Not.  For Const and Var the results are
// not operands and must not be used.
func (g *Graph) Operands(m Gate) (Gate, Gate) {
	n := &g.nodes[m]
	return n.a, n.b
}

// VarName returns the name of the variable gate m.
func (g *Graph) VarName(m Gate) string {
	return g.varNames[g.nodes[m].a]
}

// Const returns the gate of the constant v.
func (g *Graph) Const(v bool) Gate {
	if v {
		return True
	}
	return False
}

// Var returns the gate of the variable named name, interning it on first
// use.
func (g *Graph) Var(name string) Gate {
	if m, ok := g.vars[name]; ok {
		return m
	}
	m, i := g.newNode()
	m.op = Var
	m.a = Gate(len(g.varNames))
	g.varNames = append(g.varNames, name)
	g.vars[name] = Gate(i)
	return Gate(i)
}

// FindVar returns the gate of the variable named name if it was
// interned, without creating it.
func (g *Graph) FindVar(name string) (Gate, bool) {
	m, ok := g.vars[name]
	return m, ok
}

// Not returns the negation of a.
func (g *Graph) Not(a Gate) Gate {
	switch a {
	case False:
		return True
	case True:
		return False
	}
	if n := &g.nodes[a]; n.op == Not {
		return n.a
	}
	return g.intern(Not, a, 0)
}

// And returns the conjunction of a and b.
func (g *Graph) And(a, b Gate) Gate {
	if a == b {
		return a
	}
	if a == False || b == False || g.negOf(a, b) {
		return False
	}
	if a == True {
		return b
	}
	if b == True {
		return a
	}
	if a > b {
		a, b = b, a
	}
	return g.intern(And, a, b)
}

// Or returns the disjunction of a and b.
func (g *Graph) Or(a, b Gate) Gate {
	if a == b {
		return a
	}
	if a == True || b == True || g.negOf(a, b) {
		return True
	}
	if a == False {
		return b
	}
	if b == False {
		return a
	}
	if a > b {
		a, b = b, a
	}
	return g.intern(Or, a, b)
}

// Xor returns the exclusive or of a and b.
func (g *Graph) Xor(a, b Gate) Gate {
	if a == b {
		return False
	}
	if g.negOf(a, b) {
		return True
	}
	if a == False {
		return b
	}
	if b == False {
		return a
	}
	if a == True {
		return g.Not(b)
	}
	if b == True {
		return g.Not(a)
	}
	if a > b {
		a, b = b, a
	}
	return g.intern(Xor, a, b)
}

// negOf reports whether one of a, b is the negation gate of the other.
func (g *Graph) negOf(a, b Gate) bool {
	if n := &g.nodes[a]; n.op == Not && n.a == b {
		return true
	}
	if n := &g.nodes[b]; n.op == Not && n.a == a {
		return true
	}
	return false
}

// Conj folds ms into a balanced conjunction.  An empty sequence yields
// the constant true.
func (g *Graph) Conj(ms ...Gate) Gate {
	if len(ms) == 0 {
		return True
	}
	if len(ms) == 1 {
		return ms[0]
	}
	h := len(ms) / 2
	return g.And(g.Conj(ms[:h]...), g.Conj(ms[h:]...))
}

// Disj folds ms into a balanced disjunction.  An empty sequence yields
// the constant false.
func (g *Graph) Disj(ms ...Gate) Gate {
	if len(ms) == 0 {
		return False
	}
	if len(ms) == 1 {
		return ms[0]
	}
	h := len(ms) / 2
	return g.Or(g.Disj(ms[:h]...), g.Disj(ms[h:]...))
}

// intern returns the gate (op, a, b), creating it only if no
// structurally identical gate exists.
func (g *Graph) intern(op Op, a, b Gate) Gate {
	c := strashCode(op, a, b)
	si := g.strash[c%uint32(cap(g.nodes))]
	for si != 0 {
		n := &g.nodes[si]
		if n.op == op && n.a == a && n.b == b {
			return Gate(si)
		}
		si = n.n
	}
	m, i := g.newNode()
	m.op = op
	m.a = a
	m.b = b
	k := c % uint32(cap(g.nodes))
	m.n = g.strash[k]
	g.strash[k] = i
	return Gate(i)
}

func (g *Graph) newNode() (*node, uint32) {
	if len(g.nodes) == cap(g.nodes) {
		g.grow()
	}
	id := len(g.nodes)
	g.nodes = g.nodes[:id+1]
	g.nodes[id] = node{}
	return &g.nodes[id], uint32(id)
}

func (g *Graph) grow() {
	newCap := cap(g.nodes) * 2
	nodes := make([]node, len(g.nodes), newCap)
	strash := make([]uint32, newCap)
	copy(nodes, g.nodes)
	ucap := uint32(newCap)
	for i := range nodes {
		n := &nodes[i]
		switch n.op {
		case Not, And, Or, Xor:
		default:
			continue
		}
		j := strashCode(n.op, n.a, n.b) % ucap
		n.n = strash[j]
		strash[j] = uint32(i)
	}
	g.nodes = nodes
	g.strash = strash
}

func strashCode(op Op, a, b Gate) uint32 {
	return (uint32(a)<<13)*(uint32(b)|1) + uint32(op)*2654435761
}

// Visit calls fn on every distinct gate reachable from roots exactly
// once, operands before users.  The traversal keeps an explicit stack,
// so arbitrarily deep graphs do not exhaust goroutine stacks, and it is
// re-entrant: fn may start another Visit on the same graph.
func (g *Graph) Visit(fn func(Gate), roots ...Gate) {
	marks := make([]byte, len(g.nodes))
	stack := make([]Gate, 0, 64)
	for _, root := range roots {
		if marks[root] == 2 {
			continue
		}
		stack = append(stack, root)
		for len(stack) > 0 {
			m := stack[len(stack)-1]
			switch marks[m] {
			case 0:
				marks[m] = 1
				n := &g.nodes[m]
				switch n.op {
				case Not:
					if marks[n.a] != 2 {
						stack = append(stack, n.a)
					}
				case And, Or, Xor:
					if marks[n.b] != 2 {
						stack = append(stack, n.b)
					}
					if marks[n.a] != 2 {
						stack = append(stack, n.a)
					}
				}
			case 1:
				marks[m] = 2
				stack = stack[:len(stack)-1]
				fn(m)
			default:
				stack = stack[:len(stack)-1]
			}
		}
	}
}
