// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolchain

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor records invocations and answers LookPath from a fixed set.
type fakeExecutor struct {
	onPath map[string]bool
	runs   [][]string
	runErr error
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.onPath[file] {
		return "/usr/bin/" + file, nil
	}
	return "", exec.ErrNotFound
}

func (f *fakeExecutor) Run(stdout, stderr io.Writer, name string, args ...string) error {
	f.runs = append(f.runs, append([]string{name}, args...))
	return f.runErr
}

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()

	tc, err := New(Config{ToolsDir: dir}, &fakeExecutor{})
	require.NoError(t, err)

	assert.Equal(t, dir, tc.ToolsDir())
	assert.Equal(t, "python3", tc.Python())
	assert.Equal(t, "lilypond", tc.Engine())
	assert.Equal(t, "timidity", tc.Player())
	assert.Equal(t, filepath.Join(dir, ParserScript), tc.Script())
}

func TestNew_EmptyToolsDirUsesExecutableDir(t *testing.T) {
	tc, err := New(Config{}, &fakeExecutor{})
	require.NoError(t, err)

	exe, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(exe), tc.ToolsDir())
}

func TestMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ParserScript), []byte("#!/bin/env python\n"), 0o644))

	tests := []struct {
		name   string
		onPath map[string]bool
		want   []string
	}{
		{
			name:   "everything present",
			onPath: map[string]bool{"python3": true, "lilypond": true, "timidity": true},
			want:   nil,
		},
		{
			name:   "player absent",
			onPath: map[string]bool{"python3": true, "lilypond": true},
			want:   []string{"timidity"},
		},
		{
			name:   "nothing on path",
			onPath: map[string]bool{},
			want:   []string{"python3", "lilypond", "timidity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := New(Config{ToolsDir: dir}, &fakeExecutor{onPath: tt.onPath})
			require.NoError(t, err)
			assert.Equal(t, tt.want, tc.Missing())
		})
	}
}

func TestMissing_NoScript(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeExecutor{onPath: map[string]bool{"python3": true, "lilypond": true, "timidity": true}}

	tc, err := New(Config{ToolsDir: dir}, fake)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, ParserScript)}, tc.Missing())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("binary not found")))
}

func TestExitCode_RealProcess(t *testing.T) {
	// A real child that exits 3, to exercise the *exec.ExitError path.
	err := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
}
