package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pyrite/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new pyrite project",
	Long: `Initialize a new pyrite project by creating a project manifest (pyrite.toml)
and a hello-world entry point (main.py). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "pyrite-project"
	}

	path := manifestPath(target)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("project already initialized: %s exists", path)
	}
	if err := os.WriteFile(path, []byte(buildDefaultManifest(name)), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main.py")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainPy()), 0o600); err != nil {
			return fmt.Errorf("failed to write main.py: %w", err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized pyrite project in %s\n", rel)
	fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintf(cmd.OutOrStdout(), "  - main.py\n")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "  - main.py (existing)\n")
	}
	return nil
}

func manifestPath(dir string) string {
	return filepath.Join(dir, project.ManifestName)
}

func buildDefaultManifest(name string) string {
	def := project.DefaultLimits()
	return fmt.Sprintf(`# Pyrite project manifest
[package]
name = "%s"
root = "main.py"

[limits]
max-realization-depth = %d
max-typecheck-iterations = %d
max-default-call-depth = %d
max-diagnostics = %d
`, name, def.MaxRealizationDepth, def.MaxTypecheckIterations,
		def.MaxDefaultCallDepth, def.MaxDiagnostics)
}

func defaultMainPy() string {
	return `def hello() -> str:
    return "Hello, pyrite!"

print(hello())
`
}
