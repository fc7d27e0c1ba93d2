// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chriseth/composer/circuit"
	"github.com/chriseth/composer/circuit/aiger"
	"github.com/chriseth/composer/compose"
	"github.com/chriseth/composer/sat"
)

func newBitmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bitmap <value>...",
		Short: "Create a bit-mapping circuit from a lookup table",
		Long: `Create a bit-mapping circuit from a lookup table given as a sequence
of numbers.  The length of the sequence has to be a power of two and
determines the number of inputs; the magnitude of the numbers
determines the number of outputs.  The i-th number is the output for
the binary representation of i at the inputs, low-order bits first on
both sides.

Example: composer bitmap 0 0 0 1 creates an AND circuit on two bits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := make([]uint64, len(args))
			for i, arg := range args {
				v, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return errors.Wrapf(err, "table entry %q", arg)
				}
				table[i] = v
			}
			c, err := compose.Bitmap(table)
			if err != nil {
				return err
			}
			return writeResult(c)
		},
	}
}

func newPermutationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permutation <index>...",
		Short: "Create a permutation circuit",
		Long: `Create a pure rewiring circuit.  The input should be a permutation
of 0..n or of 1..n.

Example: composer permutation 1 0 2 creates a circuit that swaps the
first two bits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compose.Permutation(args)
			if err != nil {
				return err
			}
			return writeResult(c)
		},
	}
}

func newRepeatParallelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repeat-parallel <repetitions> [file]",
		Short: "Create parallel copies of a circuit",
		Long: `Create parallel copies of a circuit.  If the circuit has n inputs,
the first n inputs of the new circuit go to the first copy, the next n
to the second copy and so on; the same holds for the outputs.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: repeatFunc(compose.RepeatParallel),
	}
}

func newRepeatInterleavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repeat-interleaved <repetitions> [file]",
		Short: "Create parallel copies of a circuit with interleaved pins",
		Long: `Create parallel copies of a circuit where inputs and outputs are
interleaved: the first input of the new circuit goes to the first copy,
the second input to the second copy and so on.  Similar for outputs.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: repeatFunc(compose.RepeatInterleaved),
	}
}

func newRepeatSerialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repeat-serial <repetitions> [file]",
		Short: "Concatenate copies of a circuit serially",
		Long: `Concatenate a circuit with itself, feeding each copy's outputs into
the next copy's inputs.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: repeatFunc(compose.RepeatSerial),
	}
}

func repeatFunc(op func(*circuit.Circuit, int) *circuit.Circuit) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return errors.Errorf("repetitions must be a non-negative integer, got %q", args[0])
		}
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		c, err := readCircuit(path)
		if err != nil {
			return err
		}
		log.Debugf("repeating %d/%d inputs/outputs %d times", c.NumInputs(), c.NumOutputs(), n)
		return writeResult(op(c, n))
	}
}

func newConcatenateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "concatenate <file>...",
		Short: "Concatenate two or more circuits serially",
		Long: `Concatenate circuits serially, connecting the outputs of each circuit
to the inputs of the next one in order.  If the next circuit has more
inputs, new inputs are created; if it has fewer, the extra outputs
become outputs of the result, after the last circuit's outputs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := readCircuits(args)
			if err != nil {
				return err
			}
			return writeResult(compose.Concatenate(cs...))
		},
	}
}

func newParallelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parallel <file>...",
		Short: "Place circuits next to each other",
		Long:  `Place circuits next to each other without establishing any connections.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := readCircuits(args)
			if err != nil {
				return err
			}
			return writeResult(circuit.Union(cs...))
		},
	}
}

func newInterleaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interleave <file>...",
		Short: "Place circuits next to each other, interleaving the pins",
		Long: `Place circuits next to each other, interleaving inputs and
outputs.  All circuits must have the same number of inputs and
outputs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := readCircuits(args)
			if err != nil {
				return err
			}
			c, err := compose.Interleave(cs...)
			if err != nil {
				return err
			}
			return writeResult(c)
		},
	}
}

func newEquivalentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equivalent <file> <file>",
		Short: "Check two circuits for functional equivalence",
		Long: `Check whether two circuits compute the same function, matching
inputs by name.  Exits non-zero and prints a distinguishing input
assignment if they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := readCircuits(args)
			if err != nil {
				return err
			}
			eq, witness, err := sat.Equivalent(cs[0], cs[1])
			if err != nil {
				return err
			}
			if eq {
				fmt.Println("equivalent")
				return nil
			}
			fmt.Println("not equivalent")
			for name, v := range witness {
				fmt.Printf("%s = %v\n", name, v)
			}
			return errors.New("circuits differ")
		},
	}
}

func readCircuits(paths []string) ([]*circuit.Circuit, error) {
	cs := make([]*circuit.Circuit, len(paths))
	for i, path := range paths {
		c, err := readCircuit(path)
		if err != nil {
			return nil, err
		}
		cs[i] = c
	}
	return cs, nil
}

// readCircuit loads an AIGER circuit from path; "" and "-" mean stdin.
func readCircuit(path string) (*circuit.Circuit, error) {
	if path == "" || path == "-" {
		return aiger.Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := aiger.Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	log.Debugf("read %s: %d inputs, %d outputs", path, c.NumInputs(), c.NumOutputs())
	return c, nil
}

// writeResult writes c to the selected output, binary unless the
// destination is a terminal or --ascii was given.
func writeResult(c *circuit.Circuit) error {
	var w io.Writer = os.Stdout
	useASCII := asciiOut
	if outputPath != "" && outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	} else if term.IsTerminal(int(os.Stdout.Fd())) {
		useASCII = true
	}
	log.Debugf("writing result: %d inputs, %d outputs", c.NumInputs(), c.NumOutputs())
	if useASCII {
		return aiger.WriteASCII(w, c)
	}
	return aiger.Write(w, c)
}
