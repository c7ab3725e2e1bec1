// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gabcplay/internal/toolchain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external tools can be found",
	Long: `Doctor resolves the tools directory and the three external collaborators
(parser script, typesetting engine, MIDI player) and reports anything
missing. It exits non-zero when the chain is not runnable.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	tools, err := toolchain.New(toolchainConfig(), nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "tools directory: %s\n", tools.ToolsDir())
	fmt.Fprintf(os.Stdout, "parser script:   %s\n", tools.Script())
	fmt.Fprintf(os.Stdout, "interpreter:     %s\n", tools.Python())
	fmt.Fprintf(os.Stdout, "engine:          %s\n", tools.Engine())
	fmt.Fprintf(os.Stdout, "player:          %s\n", tools.Player())

	missing := tools.Missing()
	if len(missing) == 0 {
		fmt.Fprintln(os.Stdout, "all tools found")
		return nil
	}
	for _, m := range missing {
		fmt.Fprintf(os.Stdout, "missing: %s\n", m)
	}
	return fmt.Errorf("%d tool(s) missing", len(missing))
}
