// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gabcplay/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded pipeline runs",
	Long: `History lists past pipeline runs from the local SQLite history database,
most recent first. Use "history export" to dump the full history to a file.`,
	RunE: runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to a YAML or JSON file",
	RunE:  runHistoryExport,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (default from config)")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "output file (default history.<format>)")

	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-7s  %-5s  %-40s  %s\n",
		"ID", "Started", "Status", "Exit", "Input", "Options")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		status := string(r.Status)
		if r.FailedStage != "" {
			status = fmt.Sprintf("%s@%s", r.Status, r.FailedStage)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-7s  %-5d  %-40s  %s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			status,
			r.ExitCode,
			truncate(r.Input, 40),
			strings.Join(r.Options, " "))
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	ctx := context.Background()
	switch format {
	case "yaml":
		if out == "" {
			out = "history.yaml"
		}
		err = store.ExportYAML(ctx, out)
	case "json":
		if out == "" {
			out = "history.json"
		}
		err = store.ExportJSON(ctx, out)
	default:
		return fmt.Errorf("unknown format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported history to %s\n", out)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}
