// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and record types shared between the
// gabcplay CLI and its internal packages.
package types

// ToolchainConfig locates the three external collaborators: the notation
// parser script, the typesetting engine, and the MIDI player.
type ToolchainConfig struct {
	// ToolsDir is the directory holding the parser script. Empty means
	// "directory of the running gabcplay executable".
	ToolsDir string `json:"tools_dir" yaml:"tools_dir"`

	// Python is the interpreter used to run the parser script (default
	// "python3").
	Python string `json:"python" yaml:"python"`

	// Engine is the typesetting engine binary (default "lilypond").
	Engine string `json:"engine" yaml:"engine"`

	// Player is the MIDI player binary (default "timidity").
	Player string `json:"player" yaml:"player"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// Enabled controls whether pipeline runs are recorded at all.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults caps how many runs a listing returns (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
