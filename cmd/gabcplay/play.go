// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gabcplay/internal/argv"
	"github.com/pdiddy/gabcplay/internal/history"
	"github.com/pdiddy/gabcplay/internal/pipeline"
	"github.com/pdiddy/gabcplay/internal/toolchain"
	"github.com/pdiddy/gabcplay/pkg/types"
)

// parserValueFlags are the parser options known to take a separate value
// token, so "--snippet 2 file.gabc" keeps "2" with its flag.
var parserValueFlags = []string{"--snippet"}

// timeRound keeps reported durations readable.
const timeRound = 10 * time.Millisecond

var playCmd = &cobra.Command{
	Use:   "play [parser-flags...] <file>",
	Short: "Parse, engrave, and play a chant file",
	Long: `Play runs the full chain on a .gabc file or a TeX document with embedded
\gabcsnippet{} blocks: the notation parser writes lilypond source, the
engine engraves it into a score and a MIDI file, and the MIDI player renders
the tune.

All flag tokens are passed through to the parser untouched, including:

  -h, --help       parser usage (engraving and playback are skipped)
  -d, --debug      verbose parser logging
  --snippet N      which \gabcsnippet{} of a TeX document to use (1-based)
  -t, --text       print the chant text instead of making music

With -t or --text the parser output goes to stdout and the engine and player
never run.`,
	// Flags go to the external parser, not to us.
	DisableFlagParsing: true,
	RunE:               runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	options, subject, found := argv.Partition(args, parserValueFlags...)
	if !found {
		if argv.HasFlag(options, "-h", "--help") {
			return cmd.Help()
		}
		return fmt.Errorf("no input file specified (expected a .gabc or .tex path)")
	}

	tools, err := toolchain.New(toolchainConfig(), nil)
	if err != nil {
		return err
	}

	p := pipeline.New(tools, cmd.OutOrStdout(), cmd.ErrOrStderr())
	res, runErr := p.Run(options, subject)

	recordRun(cmd, res)

	if runErr != nil {
		return runErr
	}
	if !res.TextOnly {
		fmt.Fprintf(cmd.ErrOrStderr(), "done: %s (%s)\n", res.Subject, res.Duration.Round(timeRound))
	}
	return nil
}

// recordRun writes the run to the history store. History is best-effort: a
// storage problem warns on stderr and never changes the run's outcome.
func recordRun(cmd *cobra.Command, res *pipeline.Result) {
	cfg := historyConfig()
	if !cfg.Enabled || res == nil {
		return
	}

	store, err := history.NewStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	run := types.Run{
		StartedAt:   res.StartedAt,
		Input:       res.Subject,
		Options:     res.Options,
		Status:      types.RunOK,
		ExitCode:    res.ExitCode,
		Duration:    res.Duration,
		SourceFile:  res.SourceFile,
		ScoreFile:   res.ScoreFile,
		AudioFile:   res.AudioFile,
		FailedStage: string(res.FailedStage),
	}
	if !res.OK() {
		run.Status = types.RunFailed
	}

	if _, err := store.Record(context.Background(), run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}
