// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain locates and executes the external collaborators: the
// notation parser script, the typesetting engine, and the MIDI player.
package toolchain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	// ParserScript is the notation parser inside the tools directory.
	ParserScript = "parse_gabc.py"

	defaultPython = "python3"
	defaultEngine = "lilypond"
	defaultPlayer = "timidity"
)

// Executor abstracts command execution for testing.
type Executor interface {
	LookPath(file string) (string, error)
	Run(stdout, stderr io.Writer, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec. Commands inherit
// the process working directory, which the pipeline scopes to the tools
// directory for the duration of a run.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// DefaultExecutor runs real processes.
var DefaultExecutor Executor = osExecutor{}

// Toolchain resolves the collaborator programs for a pipeline run.
type Toolchain struct {
	toolsDir string
	python   string
	engine   string
	player   string
	exec     Executor
}

// Config carries the resolved tool locations. Empty fields take the
// defaults (python3, lilypond, timidity); an empty ToolsDir resolves to the
// directory of the running executable via DefaultToolsDir.
type Config struct {
	ToolsDir string
	Python   string
	Engine   string
	Player   string
}

// New builds a Toolchain from cfg, filling in defaults. exec may be nil, in
// which case real processes are spawned.
func New(cfg Config, exec Executor) (*Toolchain, error) {
	if exec == nil {
		exec = DefaultExecutor
	}
	toolsDir := cfg.ToolsDir
	if toolsDir == "" {
		var err error
		toolsDir, err = DefaultToolsDir()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(toolsDir)
	if err != nil {
		return nil, fmt.Errorf("resolving tools directory %s: %w", toolsDir, err)
	}

	t := &Toolchain{
		toolsDir: abs,
		python:   cfg.Python,
		engine:   cfg.Engine,
		player:   cfg.Player,
		exec:     exec,
	}
	if t.python == "" {
		t.python = defaultPython
	}
	if t.engine == "" {
		t.engine = defaultEngine
	}
	if t.player == "" {
		t.player = defaultPlayer
	}
	return t, nil
}

// DefaultToolsDir returns the directory of the running executable, so an
// installed gabcplay finds parse_gabc.py next to itself without any
// machine-specific configuration.
func DefaultToolsDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// ToolsDir returns the absolute tools directory.
func (t *Toolchain) ToolsDir() string { return t.toolsDir }

// Python returns the interpreter used for the parser script.
func (t *Toolchain) Python() string { return t.python }

// Engine returns the typesetting engine binary name.
func (t *Toolchain) Engine() string { return t.engine }

// Player returns the MIDI player binary name.
func (t *Toolchain) Player() string { return t.player }

// Script returns the absolute path of the parser script.
func (t *Toolchain) Script() string {
	return filepath.Join(t.toolsDir, ParserScript)
}

// Run executes name with args through the configured executor.
func (t *Toolchain) Run(stdout, stderr io.Writer, name string, args ...string) error {
	return t.exec.Run(stdout, stderr, name, args...)
}

// Missing reports which collaborators cannot be found: binaries not on PATH
// and a parser script that does not exist. An empty slice means the whole
// chain is runnable.
func (t *Toolchain) Missing() []string {
	var missing []string
	if _, err := os.Stat(t.Script()); err != nil {
		missing = append(missing, t.Script())
	}
	for _, bin := range []string{t.python, t.engine, t.player} {
		if _, err := t.exec.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}
	return missing
}

// ExitCode extracts the child process exit code from a Run error. It returns
// 0 for nil and 1 for errors that carry no exit status (e.g. the binary was
// not found), so a failed stage always propagates non-zero.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
