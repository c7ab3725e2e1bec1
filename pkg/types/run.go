// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus is the final disposition of a pipeline run.
type RunStatus string

const (
	RunOK     RunStatus = "ok"
	RunFailed RunStatus = "failed"
)

// Run records one pipeline invocation for the history store.
type Run struct {
	ID        int64     `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Input is the absolute path of the subject file.
	Input string `json:"input" yaml:"input"`

	// Options are the pass-through tokens handed to the parser, in order.
	Options []string `json:"options" yaml:"options"`

	Status RunStatus `json:"status" yaml:"status"`

	// FailedStage names the stage that broke the chain; empty on success.
	FailedStage string `json:"failed_stage,omitempty" yaml:"failed_stage,omitempty"`

	// ExitCode is the propagated exit code: 0 only when every stage succeeded.
	ExitCode int `json:"exit_code" yaml:"exit_code"`

	Duration time.Duration `json:"duration" yaml:"duration"`

	// Artifact paths, relative to the tools directory the run executed in.
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	ScoreFile  string `json:"score_file,omitempty" yaml:"score_file,omitempty"`
	AudioFile  string `json:"audio_file,omitempty" yaml:"audio_file,omitempty"`
}
