// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
)

// inDir runs fn with the process working directory set to dir and restores
// the original directory on every exit path, including fn failing. The
// restore error only surfaces when fn itself succeeded; a stage failure is
// the more useful error to report.
func inDir(dir string, fn func() error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("reading working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("entering %s: %w", dir, err)
	}
	defer func() {
		if restoreErr := os.Chdir(prev); restoreErr != nil && err == nil {
			err = fmt.Errorf("restoring working directory: %w", restoreErr)
		}
	}()
	return fn()
}
