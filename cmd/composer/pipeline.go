// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/chriseth/composer/circuit"
	"github.com/chriseth/composer/compose"
)

// pipelineSpec describes a chain of composition steps.  Each step
// transforms the current circuit; the first step must produce one
// (bitmap, permutation or load).
type pipelineSpec struct {
	Steps  []pipelineStep `yaml:"steps"`
	Output string         `yaml:"output"`
	ASCII  bool           `yaml:"ascii"`
}

type pipelineStep struct {
	Op          string   `yaml:"op"`
	Table       []uint64 `yaml:"table"`
	Permutation []string `yaml:"permutation"`
	Repetitions int      `yaml:"repetitions"`
	File        string   `yaml:"file"`
	With        []string `yaml:"with"`
}

func newPipelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pipeline <file.yaml>",
		Short: "Run a YAML-described chain of composition steps",
		Long: `Run a chain of composition steps described in a YAML file, for
example:

    steps:
      - op: bitmap
        table: [0, 0, 0, 1]
      - op: repeat-interleaved
        repetitions: 16
      - op: concatenate
        with: [perm.aig]
    output: out.aig`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var spec pipelineSpec
			if err := yaml.UnmarshalStrict(data, &spec); err != nil {
				return errors.Wrapf(err, "parsing %s", args[0])
			}
			c, err := runPipeline(&spec)
			if err != nil {
				return err
			}
			if spec.Output != "" {
				outputPath = spec.Output
			}
			if spec.ASCII {
				asciiOut = true
			}
			return writeResult(c)
		},
	}
}

func runPipeline(spec *pipelineSpec) (*circuit.Circuit, error) {
	if len(spec.Steps) == 0 {
		return nil, errors.New("pipeline has no steps")
	}
	var current *circuit.Circuit
	for i, step := range spec.Steps {
		next, err := runStep(current, step)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d (%s)", i+1, step.Op)
		}
		log.Debugf("step %d (%s): %d inputs, %d outputs", i+1, step.Op, next.NumInputs(), next.NumOutputs())
		current = next
	}
	return current, nil
}

func runStep(current *circuit.Circuit, step pipelineStep) (*circuit.Circuit, error) {
	switch step.Op {
	case "bitmap":
		return compose.Bitmap(step.Table)
	case "permutation":
		return compose.Permutation(step.Permutation)
	case "load":
		return readCircuit(step.File)
	}
	if current == nil {
		return nil, errors.Errorf("%q needs a circuit from an earlier step", step.Op)
	}
	switch step.Op {
	case "repeat-parallel":
		return compose.RepeatParallel(current, step.Repetitions), nil
	case "repeat-interleaved":
		return compose.RepeatInterleaved(current, step.Repetitions), nil
	case "repeat-serial":
		return compose.RepeatSerial(current, step.Repetitions), nil
	case "concatenate", "parallel", "interleave":
		rest, err := readCircuits(step.With)
		if err != nil {
			return nil, err
		}
		cs := append([]*circuit.Circuit{current}, rest...)
		switch step.Op {
		case "concatenate":
			return compose.Concatenate(cs...), nil
		case "parallel":
			return circuit.Union(cs...), nil
		default:
			return compose.Interleave(cs...)
		}
	}
	return nil, errors.Errorf("unknown op %q", step.Op)
}
