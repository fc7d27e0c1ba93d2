// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package aiger reads and writes combinational circuits in AIGER format
// (version 1.9, "aag" ASCII and "aig" binary).  Or and Xor gates are
// expanded into and-inverter form on write; the symbol table carries
// the input names and the non-empty output names.  Latches and the
// 1.9 property sections are not supported.
package aiger

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/chriseth/composer/circuit"
)

var (
	ErrBadHeader      = errors.New("aiger: bad header")
	ErrPrematureEOF   = errors.New("aiger: premature EOF")
	ErrUnexpectedChar = errors.New("aiger: unexpected character")
	ErrSequential     = errors.New("aiger: circuit is not combinational")
	ErrLitOOB         = errors.New("aiger: literal out of bounds")
	ErrUndefinedLit   = errors.New("aiger: and gate references an undefined literal")
	ErrRedefined      = errors.New("aiger: literal defined twice")
)

// WriteASCII writes c to w in aag format.
func WriteASCII(w io.Writer, c *circuit.Circuit) error {
	aw := newAigWriter(c)
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "aag %d %d 0 %d %d\n", aw.maxVar, len(c.Inputs()), c.NumOutputs(), len(aw.ands))
	for i := range c.Inputs() {
		fmt.Fprintf(bw, "%d\n", 2*(uint(i)+1))
	}
	for _, lit := range aw.outputs {
		fmt.Fprintf(bw, "%d\n", lit)
	}
	for _, a := range aw.ands {
		fmt.Fprintf(bw, "%d %d %d\n", a.lhs, a.rhs0, a.rhs1)
	}
	aw.writeSymtab(bw)
	writeComment(bw)
	return bw.Flush()
}

// Write writes c to w in binary aig format.
func Write(w io.Writer, c *circuit.Circuit) error {
	aw := newAigWriter(c)
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "aig %d %d 0 %d %d\n", aw.maxVar, len(c.Inputs()), c.NumOutputs(), len(aw.ands))
	for _, lit := range aw.outputs {
		fmt.Fprintf(bw, "%d\n", lit)
	}
	for _, a := range aw.ands {
		// Binary packing stores the two deltas of each and gate.
		write7(bw, a.lhs-a.rhs0)
		write7(bw, a.rhs0-a.rhs1)
	}
	aw.writeSymtab(bw)
	writeComment(bw)
	return bw.Flush()
}

type andGate struct {
	lhs, rhs0, rhs1 uint
}

// aigWriter holds the and-inverter view of a circuit: inputs take
// variables 1..I in input order, and gates the variables after that in
// definition order, which satisfies the binary format's ordering
// constraint.
type aigWriter struct {
	c       *circuit.Circuit
	lits    map[circuit.Gate]uint
	strash  map[[2]uint]uint
	ands    []andGate
	outputs []uint
	maxVar  uint
}

func newAigWriter(c *circuit.Circuit) *aigWriter {
	aw := &aigWriter{
		c:      c,
		lits:   map[circuit.Gate]uint{circuit.False: 0, circuit.True: 1},
		strash: make(map[[2]uint]uint),
		maxVar: uint(len(c.Inputs())),
	}
	g := c.Graph()
	for i, name := range c.Inputs() {
		if m, ok := g.FindVar(name); ok {
			aw.lits[m] = 2 * (uint(i) + 1)
		}
	}
	roots := make([]circuit.Gate, c.NumOutputs())
	for i, o := range c.Outputs() {
		roots[i] = o.Gate
	}
	g.Visit(func(m circuit.Gate) {
		if _, ok := aw.lits[m]; ok {
			return
		}
		switch g.Op(m) {
		case circuit.Not:
			a, _ := g.Operands(m)
			aw.lits[m] = aw.lits[a] ^ 1
		case circuit.And:
			a, b := g.Operands(m)
			aw.lits[m] = aw.mkAnd(aw.lits[a], aw.lits[b])
		case circuit.Or:
			a, b := g.Operands(m)
			aw.lits[m] = aw.mkAnd(aw.lits[a]^1, aw.lits[b]^1) ^ 1
		case circuit.Xor:
			a, b := g.Operands(m)
			la, lb := aw.lits[a], aw.lits[b]
			aw.lits[m] = aw.mkAnd(aw.mkAnd(la, lb)^1, aw.mkAnd(la^1, lb^1)^1)
		default:
			// Var gates were mapped from the input order above; a miss
			// here would mean an undeclared free variable.
			panic(fmt.Sprintf("aiger: gate %d has no literal", m))
		}
	}, roots...)
	aw.outputs = make([]uint, len(roots))
	for i, m := range roots {
		aw.outputs[i] = aw.lits[m]
	}
	return aw
}

// mkAnd returns the aiger literal of x & y, creating at most one new
// and gate.
func (aw *aigWriter) mkAnd(x, y uint) uint {
	if x == 0 || y == 0 || x == y^1 {
		return 0
	}
	if x == 1 || x == y {
		return y
	}
	if y == 1 {
		return x
	}
	if x < y {
		x, y = y, x
	}
	if lit, ok := aw.strash[[2]uint{x, y}]; ok {
		return lit
	}
	aw.maxVar++
	lhs := 2 * aw.maxVar
	aw.ands = append(aw.ands, andGate{lhs: lhs, rhs0: x, rhs1: y})
	aw.strash[[2]uint{x, y}] = lhs
	return lhs
}

func (aw *aigWriter) writeSymtab(w *bufio.Writer) {
	for i, name := range aw.c.Inputs() {
		fmt.Fprintf(w, "i%d %s\n", i, name)
	}
	for i, o := range aw.c.Outputs() {
		if o.Name != "" {
			fmt.Fprintf(w, "o%d %s\n", i, o.Name)
		}
	}
}

func writeComment(w *bufio.Writer) {
	w.WriteString("c\naiger file created by composer\n")
}

// write7 encodes val as the little-endian 7-bit varint the binary
// format packs and-gate deltas with.  A zero delta still emits one
// byte.
func write7(w *bufio.Writer, val uint) {
	for {
		b := byte(val & 0x7f)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if val == 0 {
			return
		}
	}
}

func read7(r *bufio.Reader) (uint, error) {
	var result uint
	for i := uint(0); ; i++ {
		b, err := r.ReadByte()
		if err == io.EOF {
			return 0, ErrPrematureEOF
		}
		if err != nil {
			return 0, err
		}
		result |= (uint(b) & 0x7f) << (7 * i)
		if b&0x80 == 0 {
			return result, nil
		}
	}
}

type header struct {
	binary                 bool
	max, in, latch, out, a uint
}

// Read reads an AIGER circuit from r, accepting both the ASCII and the
// binary format.
func Read(r io.Reader) (*circuit.Circuit, error) {
	br := bufio.NewReader(r)
	hdr, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if hdr.latch != 0 {
		return nil, ErrSequential
	}
	ar := &aigReader{
		hdr:   hdr,
		gates: map[uint]circuit.Gate{0: circuit.False, 1: circuit.True},
		g:     circuit.NewGraphCap(int(hdr.max + 2)),
	}
	if hdr.binary {
		err = ar.readBinary(br)
	} else {
		err = ar.readASCII(br)
	}
	if err != nil {
		return nil, err
	}
	if err := ar.readSymbols(br); err != nil {
		return nil, err
	}
	return ar.build()
}

type aigReader struct {
	hdr      *header
	g        *circuit.Graph
	gates    map[uint]circuit.Gate
	inputs   []uint
	outputs  []uint
	inSyms   map[int]string
	outSyms  map[int]string
	andQueue []andGate
}

func (ar *aigReader) readASCII(br *bufio.Reader) error {
	for i := uint(0); i < ar.hdr.in; i++ {
		lit, err := readUintLine(br)
		if err != nil {
			return errors.Wrap(err, "reading inputs")
		}
		if lit < 2 || lit&1 == 1 || lit > 2*ar.hdr.max {
			return ErrLitOOB
		}
		if _, ok := ar.gates[lit]; ok {
			return ErrRedefined
		}
		ar.gates[lit] = circuit.False // placeholder until names are known
		ar.inputs = append(ar.inputs, lit)
	}
	if err := ar.readOutputs(br); err != nil {
		return err
	}
	for i := uint(0); i < ar.hdr.a; i++ {
		lhs, err := readUintField(br)
		if err != nil {
			return errors.Wrap(err, "reading and gates")
		}
		rhs0, err := readUintField(br)
		if err != nil {
			return errors.Wrap(err, "reading and gates")
		}
		rhs1, err := readUintLine(br)
		if err != nil {
			return errors.Wrap(err, "reading and gates")
		}
		if lhs&1 == 1 || lhs < 2 || lhs > 2*ar.hdr.max ||
			rhs0 > 2*ar.hdr.max+1 || rhs1 > 2*ar.hdr.max+1 {
			return ErrLitOOB
		}
		ar.andQueue = append(ar.andQueue, andGate{lhs: lhs, rhs0: rhs0, rhs1: rhs1})
	}
	return nil
}

func (ar *aigReader) readBinary(br *bufio.Reader) error {
	for i := uint(0); i < ar.hdr.in; i++ {
		lit := 2 * (i + 1)
		ar.gates[lit] = circuit.False
		ar.inputs = append(ar.inputs, lit)
	}
	if err := ar.readOutputs(br); err != nil {
		return err
	}
	for i := uint(0); i < ar.hdr.a; i++ {
		lhs := 2 * (ar.hdr.in + i + 1)
		delta0, err := read7(br)
		if err != nil {
			return errors.Wrap(err, "reading and gates")
		}
		delta1, err := read7(br)
		if err != nil {
			return errors.Wrap(err, "reading and gates")
		}
		if delta0 == 0 || delta0 > lhs {
			return ErrLitOOB
		}
		rhs0 := lhs - delta0
		if delta1 > rhs0 {
			return ErrLitOOB
		}
		ar.andQueue = append(ar.andQueue, andGate{lhs: lhs, rhs0: rhs0, rhs1: rhs0 - delta1})
	}
	return nil
}

func (ar *aigReader) readOutputs(br *bufio.Reader) error {
	for i := uint(0); i < ar.hdr.out; i++ {
		lit, err := readUintLine(br)
		if err != nil {
			return errors.Wrap(err, "reading outputs")
		}
		if lit > 2*ar.hdr.max+1 {
			return ErrLitOOB
		}
		ar.outputs = append(ar.outputs, lit)
	}
	return nil
}

// readSymbols reads the symbol table up to the comment section or EOF.
func (ar *aigReader) readSymbols(br *bufio.Reader) error {
	ar.inSyms = make(map[int]string)
	ar.outSyms = make(map[int]string)
	for {
		line, err := br.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "c" {
			return nil
		}
		sp := strings.IndexByte(line, ' ')
		if len(line) < 2 || sp < 2 {
			return errors.Errorf("aiger: malformed symbol line %q", line)
		}
		idx := 0
		for _, d := range line[1:sp] {
			if d < '0' || d > '9' {
				return errors.Errorf("aiger: malformed symbol line %q", line)
			}
			idx = idx*10 + int(d-'0')
		}
		name := line[sp+1:]
		switch line[0] {
		case 'i':
			ar.inSyms[idx] = name
		case 'o':
			ar.outSyms[idx] = name
		default:
			return errors.Errorf("aiger: unsupported symbol kind %q", string(line[0]))
		}
	}
}

// build materializes the parsed gates.  And definitions may appear in
// any order in ASCII files, so unresolvable ones are retried until a
// pass makes no progress.
func (ar *aigReader) build() (*circuit.Circuit, error) {
	inputNames := make([]string, len(ar.inputs))
	for i, lit := range ar.inputs {
		name, ok := ar.inSyms[i]
		if !ok {
			name = fmt.Sprintf("i%d", i)
		}
		inputNames[i] = name
		ar.gates[lit] = ar.g.Var(name)
	}
	pending := ar.andQueue
	for len(pending) > 0 {
		var stuck []andGate
		for _, a := range pending {
			r0, ok0 := ar.litGate(a.rhs0)
			r1, ok1 := ar.litGate(a.rhs1)
			if !ok0 || !ok1 {
				stuck = append(stuck, a)
				continue
			}
			if _, ok := ar.gates[a.lhs]; ok {
				return nil, ErrRedefined
			}
			ar.gates[a.lhs] = ar.g.And(r0, r1)
		}
		if len(stuck) == len(pending) {
			return nil, ErrUndefinedLit
		}
		pending = stuck
	}
	outs := make([]circuit.Output, len(ar.outputs))
	for i, lit := range ar.outputs {
		m, ok := ar.litGate(lit)
		if !ok {
			return nil, ErrUndefinedLit
		}
		outs[i] = circuit.Output{Gate: m, Name: ar.outSyms[i]}
	}
	c, err := ar.g.Circuit(outs...).WithInputOrder(inputNames...)
	if err != nil {
		return nil, errors.Wrap(err, "aiger: attaching input order")
	}
	return c, nil
}

func (ar *aigReader) litGate(lit uint) (circuit.Gate, bool) {
	if m, ok := ar.gates[lit]; ok {
		return m, true
	}
	if lit&1 == 1 {
		if m, ok := ar.gates[lit^1]; ok {
			return ar.g.Not(m), true
		}
	}
	return circuit.False, false
}

func readHeader(br *bufio.Reader) (*header, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, ErrPrematureEOF
	}
	fields := strings.Fields(strings.TrimRight(line, "\n"))
	if len(fields) < 6 {
		return nil, ErrBadHeader
	}
	hdr := &header{}
	switch fields[0] {
	case "aag":
		hdr.binary = false
	case "aig":
		hdr.binary = true
	default:
		return nil, ErrBadHeader
	}
	counts := make([]uint, 0, len(fields)-1)
	for _, f := range fields[1:] {
		var v uint
		if _, err := fmt.Sscanf(f, "%d", &v); err != nil {
			return nil, ErrBadHeader
		}
		counts = append(counts, v)
	}
	hdr.max, hdr.in, hdr.latch, hdr.out, hdr.a = counts[0], counts[1], counts[2], counts[3], counts[4]
	// The 1.9 property sections (B C J F) must be absent or empty.
	for _, v := range counts[5:] {
		if v != 0 {
			return nil, ErrSequential
		}
	}
	return hdr, nil
}

func readUintField(br *bufio.Reader) (uint, error) {
	skipBlanks(br)
	var v uint
	read := false
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if b < '0' || b > '9' {
			br.UnreadByte()
			break
		}
		v = v*10 + uint(b-'0')
		read = true
	}
	if !read {
		return 0, ErrUnexpectedChar
	}
	return v, nil
}

func readUintLine(br *bufio.Reader) (uint, error) {
	v, err := readUintField(br)
	if err != nil {
		return 0, err
	}
	skipBlanks(br)
	b, err := br.ReadByte()
	if err == io.EOF {
		return v, nil
	}
	if err != nil {
		return 0, err
	}
	if b != '\n' {
		return 0, ErrUnexpectedChar
	}
	return v, nil
}

func skipBlanks(br *bufio.Reader) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		if b != ' ' && b != '\t' && b != '\r' {
			br.UnreadByte()
			return
		}
	}
}
