// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gabcplay/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{
		DBPath: filepath.Join(t.TempDir(), "history", "gabcplay.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(input string, startedAt time.Time) types.Run {
	return types.Run{
		StartedAt:  startedAt,
		Input:      input,
		Options:    []string{"-d", "--snippet=2"},
		Status:     types.RunOK,
		Duration:   1500 * time.Millisecond,
		SourceFile: "out.ly",
		ScoreFile:  "out.pdf",
		AudioFile:  "out.midi",
	}
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	for i, input := range []string{"a.gabc", "b.gabc", "c.gabc"} {
		_, err := s.Record(ctx, sampleRun(input, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Most recent first.
	assert.Equal(t, "c.gabc", runs[0].Input)
	assert.Equal(t, "b.gabc", runs[1].Input)
	assert.Equal(t, "a.gabc", runs[2].Input)

	got := runs[0]
	assert.Equal(t, []string{"-d", "--snippet=2"}, got.Options)
	assert.Equal(t, types.RunOK, got.Status)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.True(t, got.StartedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "out.midi", got.AudioFile)
}

func TestList_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, sampleRun("tune.gabc", base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRecord_FailedRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := types.Run{
		StartedAt:   time.Now().UTC(),
		Input:       "broken.gabc",
		Status:      types.RunFailed,
		FailedStage: "engrave",
		ExitCode:    2,
	}
	_, err := s.Record(ctx, run)
	require.NoError(t, err)

	runs, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, types.RunFailed, runs[0].Status)
	assert.Equal(t, "engrave", runs[0].FailedStage)
	assert.Equal(t, 2, runs[0].ExitCode)
	assert.Empty(t, runs[0].Options)
}

func TestExport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := s.Record(ctx, sampleRun("tune.gabc", time.Now().UTC()))
	require.NoError(t, err)

	yamlPath := filepath.Join(dir, "export.yaml")
	require.NoError(t, s.ExportYAML(ctx, yamlPath))

	var fromYAML []types.Run
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "tune.gabc", fromYAML[0].Input)

	jsonPath := filepath.Join(dir, "export.json")
	require.NoError(t, s.ExportJSON(ctx, jsonPath))

	var fromJSON []types.Run
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "out.pdf", fromJSON[0].ScoreFile)
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore(types.HistoryConfig{})
	require.Error(t, err)
}
