package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pyrite/internal/project"
)

var limitsCmd = &cobra.Command{
	Use:   "limits [dir]",
	Short: "Show the effective checker limits for a project",
	Long: `Show the checker limits that apply in the given directory (default: the
current one). Values come from pyrite.toml when present, otherwise from the
built-in defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		m, err := project.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", project.ManifestName, err)
		}

		out := cmd.OutOrStdout()
		heading := color.New(color.Bold)
		source := "defaults"
		if _, err := os.Stat(manifestPath(dir)); err == nil {
			source = manifestPath(dir)
		}
		heading.Fprintf(out, "checker limits (%s)\n", source)
		fmt.Fprintf(out, "  max-realization-depth    %d\n", m.Limits.MaxRealizationDepth)
		fmt.Fprintf(out, "  max-typecheck-iterations %d\n", m.Limits.MaxTypecheckIterations)
		fmt.Fprintf(out, "  max-default-call-depth   %d\n", m.Limits.MaxDefaultCallDepth)
		fmt.Fprintf(out, "  max-diagnostics          %d\n", m.Limits.MaxDiagnostics)
		return nil
	},
}
