package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pyrite/internal/cache"
)

const snapshotFile = "names.snapshot"

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the canonical-name snapshot cache",
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the snapshot location and its contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cache.DefaultDir("pyrite")
		if err != nil {
			return err
		}
		path := filepath.Join(dir, snapshotFile)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "snapshot: %s\n", path)

		cc := cache.New()
		ok, err := cc.LoadFrom(path)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if !ok {
			fmt.Fprintln(out, "status:   empty (no usable snapshot)")
			return nil
		}
		p := cc.Snapshot()
		fmt.Fprintf(out, "status:   ok\n")
		fmt.Fprintf(out, "modules:  %d\n", len(p.Modules))
		fmt.Fprintf(out, "classes:  %d\n", len(p.Classes))
		fmt.Fprintf(out, "globals:  %d\n", len(p.Globals))
		fmt.Fprintf(out, "counters: %d\n", len(p.Counts))
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cache.DefaultDir("pyrite")
		if err != nil {
			return err
		}
		path := filepath.Join(dir, snapshotFile)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
		return nil
	},
}
