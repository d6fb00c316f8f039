package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for clonescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clonescan",
		Short: "Detect lookalike domains impersonating a legitimate site",
		Long: `clonescan detects lookalike ("typosquat") domains impersonating a
legitimate site. It generates plausible domain variants, fetches their
pages, and scores textual similarity against the legitimate page.
Matches at or above the threshold are reported and saved to history.

Candidate generation supports two strategies: local rule-based
permutation, and the external dnstwist tool (registered domains only).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
