// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Command composer creates and composes combinational circuits in AIGER
// format.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	outputPath string
	asciiOut   bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "composer",
		Short: "create and compose binary circuits in AIGER format",
		Long: `Composer synthesizes combinational circuits from truth tables and
permutations and composes existing AIGER circuits: parallel and
interleaved replication, serial concatenation, disjoint placement.

Results are written as binary AIGER unless stdout is a terminal or
--ascii is given.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write the result to this file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&asciiOut, "ascii", false, "write ASCII (aag) output even to non-terminals")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newBitmapCmd(),
		newPermutationCmd(),
		newRepeatParallelCmd(),
		newRepeatInterleavedCmd(),
		newRepeatSerialCmd(),
		newConcatenateCmd(),
		newParallelCmd(),
		newInterleaveCmd(),
		newEquivalentCmd(),
		newPipelineCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
