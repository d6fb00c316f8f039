package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clonescan/clonescan/internal/config"
	"github.com/clonescan/clonescan/internal/history"
	"github.com/clonescan/clonescan/internal/model"
	"github.com/clonescan/clonescan/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recorded findings",
		Long: `History displays the findings recorded by previous scans.

Every finding a scan produces is appended to a CSV history file, so the
history accumulates across runs until cleared.

Examples:
  # Show all recorded findings
  clonescan history

  # Show findings for one target only
  clonescan history --target example.com

  # Export the history as JSON or Markdown
  clonescan history --json
  clonescan history --markdown -o report.md

  # Export the raw CSV
  clonescan history --csv

  # Delete the history file
  clonescan history --clear`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("target", "t", "",
		"Show findings for this target domain only")
	cmd.Flags().String("history-file", "",
		"History CSV path (default: the file scans write to)")

	cmd.Flags().BoolP("json", "j", false,
		"Output findings as JSON")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output findings as Markdown")
	cmd.Flags().Bool("csv", false,
		"Output findings as CSV")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path instead of stdout")

	cmd.Flags().Bool("clear", false,
		"Delete the history file")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	historyFile, err := cmd.Flags().GetString("history-file")
	if err != nil {
		return err
	}
	store := history.NewStore(historyPath(historyFile))

	clearHistory, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}
	if clearHistory {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("History cleared: %s\n", store.Path())
		return nil
	}

	findings := store.LoadAll()

	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}
	if target != "" {
		normalized := model.Normalize(target).String()
		filtered := make([]model.Finding, 0, len(findings))
		for _, f := range findings {
			if f.Target == normalized {
				filtered = append(filtered, f)
			}
		}
		findings = filtered
	}

	output, cleanup, err := historyOutput(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	writer, err := historyWriter(cmd, output)
	if err != nil {
		return err
	}

	title := "Scan history"
	if target != "" {
		title = fmt.Sprintf("Scan history: %s", model.Normalize(target).String())
	}

	_, err = writer.Write(findings, title)
	return err
}

// historyPath resolves the history file, falling back to the same
// default the scan command writes to.
func historyPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return filepath.Join(config.XDGDataDir(), config.HistoryFileName)
}

// historyOutput resolves the output destination from the --output flag.
func historyOutput(cmd *cobra.Command) (*os.File, func(), error) {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}
	if outputPath == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// historyWriter selects the report writer from the format flags.
func historyWriter(cmd *cobra.Command, output *os.File) (report.Writer, error) {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	csvOut, err := cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	count := 0
	for _, b := range []bool{jsonOut, markdownOut, csvOut} {
		if b {
			count++
		}
	}
	if count > 1 {
		return nil, fmt.Errorf("--json, --markdown, and --csv are mutually exclusive")
	}

	switch {
	case jsonOut:
		return report.NewJSONWriter(output, report.WithPrettyPrint()), nil
	case markdownOut:
		return report.NewMarkdownWriter(output), nil
	case csvOut:
		return report.NewCSVWriter(output), nil
	default:
		return report.NewSimpleWriter(output), nil
	}
}
