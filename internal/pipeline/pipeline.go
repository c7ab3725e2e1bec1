// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline chains the three external tools into a single run:
// parser → typesetting engine → MIDI player. The chain is strictly
// sequential; the first failing stage aborts the rest and its exit code
// becomes the run's exit code.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/gabcplay/internal/argv"
	"github.com/pdiddy/gabcplay/internal/toolchain"
)

// Stage identifies one link of the chain.
type Stage string

const (
	StageParse   Stage = "parse"
	StageEngrave Stage = "engrave"
	StagePlay    Stage = "play"
)

// Fixed artifact names in the tools directory. The engine derives the score
// and audio names from the source file's base name.
const (
	SourceFile = "out.ly"
	ScoreFile  = "out.pdf"
	AudioFile  = "out.midi"
)

// StageError reports a failed stage together with the exit code to
// propagate.
type StageError struct {
	Stage Stage
	Code  int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (exit %d): %v", e.Stage, e.Code, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result captures what a run did, for reporting and the history store.
type Result struct {
	Subject   string // absolute input path
	Options   []string
	StartedAt time.Time
	Duration  time.Duration

	// TextOnly is set when the parser was asked for text (or help) output;
	// the engine and player stages are skipped in that mode.
	TextOnly bool

	// FailedStage is empty when all stages succeeded.
	FailedStage Stage
	ExitCode    int

	SourceFile string
	ScoreFile  string
	AudioFile  string
}

// OK reports whether every stage of the run succeeded.
func (r *Result) OK() bool { return r.FailedStage == "" }

// Pipeline runs the three-stage chain from the tools directory.
type Pipeline struct {
	tools *toolchain.Toolchain
	out   io.Writer // parser output in text mode
	log   io.Writer // progress and tool diagnostics
}

// New creates a Pipeline. out receives parser output in text mode; log
// receives progress lines and the tools' stderr.
func New(tools *toolchain.Toolchain, out, log io.Writer) *Pipeline {
	return &Pipeline{tools: tools, out: out, log: log}
}

// Run resolves subject against the caller's working directory, then executes
// the chain inside the tools directory. The working directory is restored
// before Run returns, on success and on failure alike. The returned Result is
// non-nil even when err is not.
func (p *Pipeline) Run(options []string, subject string) (*Result, error) {
	res := &Result{
		Options:   options,
		StartedAt: time.Now().UTC(),
		TextOnly:  argv.HasFlag(options, "-t", "--text", "-h", "--help"),
	}
	defer func() {
		res.Duration = time.Since(res.StartedAt)
	}()

	// The subject may be relative to where the user invoked us; the parser
	// runs from the tools directory, so resolve first.
	abs, err := filepath.Abs(subject)
	if err != nil {
		return res, fmt.Errorf("resolving %s: %w", subject, err)
	}
	res.Subject = abs

	err = inDir(p.tools.ToolsDir(), func() error {
		if err := p.parse(res, abs); err != nil {
			return err
		}
		if res.TextOnly {
			return nil
		}
		if err := p.engrave(res); err != nil {
			return err
		}
		return p.play(res)
	})
	return res, err
}

// parse runs the notation parser on the subject. In notation mode its stdout
// is the typesetting source and goes to SourceFile; in text mode it goes to
// the caller.
func (p *Pipeline) parse(res *Result, subject string) error {
	args := make([]string, 0, len(res.Options)+2)
	args = append(args, p.tools.Script())
	args = append(args, res.Options...)
	args = append(args, subject)

	fmt.Fprintf(p.log, "parse:   %s %s\n", p.tools.Python(), subject)

	if res.TextOnly {
		if err := p.tools.Run(p.out, p.log, p.tools.Python(), args...); err != nil {
			return p.fail(res, StageParse, err)
		}
		return nil
	}

	src, err := os.Create(SourceFile)
	if err != nil {
		return p.fail(res, StageParse, fmt.Errorf("creating %s: %w", SourceFile, err))
	}
	runErr := p.tools.Run(src, p.log, p.tools.Python(), args...)
	if closeErr := src.Close(); runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return p.fail(res, StageParse, runErr)
	}
	res.SourceFile = SourceFile
	return nil
}

// engrave runs the typesetting engine on the generated source, producing the
// score and the MIDI file.
func (p *Pipeline) engrave(res *Result) error {
	fmt.Fprintf(p.log, "engrave: %s %s\n", p.tools.Engine(), SourceFile)
	if err := p.tools.Run(p.log, p.log, p.tools.Engine(), SourceFile); err != nil {
		return p.fail(res, StageEngrave, err)
	}
	res.ScoreFile = ScoreFile
	res.AudioFile = AudioFile
	return nil
}

// play renders the MIDI file audibly.
func (p *Pipeline) play(res *Result) error {
	fmt.Fprintf(p.log, "play:    %s %s\n", p.tools.Player(), AudioFile)
	if err := p.tools.Run(p.log, p.log, p.tools.Player(), AudioFile); err != nil {
		return p.fail(res, StagePlay, err)
	}
	return nil
}

func (p *Pipeline) fail(res *Result, stage Stage, err error) error {
	res.FailedStage = stage
	res.ExitCode = toolchain.ExitCode(err)
	return &StageError{Stage: stage, Code: res.ExitCode, Err: err}
}
