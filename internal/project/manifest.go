// Package project loads the pyrite.toml manifest that configures a
// compilation unit, currently the checker limits.
package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up in a project root.
const ManifestName = "pyrite.toml"

// Limits bound the recursive machinery of the checker.
type Limits struct {
	// MaxRealizationDepth bounds nested generic/recursive specializations.
	MaxRealizationDepth int `toml:"max-realization-depth"`
	// MaxTypecheckIterations bounds fixpoint re-typechecking of one
	// realization.
	MaxTypecheckIterations int `toml:"max-typecheck-iterations"`
	// MaxDefaultCallDepth bounds nested default-argument constructor calls.
	MaxDefaultCallDepth int `toml:"max-default-call-depth"`
	// MaxDiagnostics caps the diagnostics bag.
	MaxDiagnostics int `toml:"max-diagnostics"`
}

// DefaultLimits returns the limits used when no manifest overrides them.
func DefaultLimits() Limits {
	return Limits{
		MaxRealizationDepth:    200,
		MaxTypecheckIterations: 50,
		MaxDefaultCallDepth:    64,
		MaxDiagnostics:         100,
	}
}

// Manifest is the parsed pyrite.toml.
type Manifest struct {
	Package struct {
		Name string `toml:"name"`
		Root string `toml:"root"`
	} `toml:"package"`
	Limits Limits `toml:"limits"`
}

// Load parses the manifest at path. Zero or negative limit values fall back
// to the defaults.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, err
	}
	m.Limits = m.Limits.orDefaults()
	return &m, nil
}

// LoadDir looks for pyrite.toml in dir. A missing manifest is not an error:
// the defaults apply.
func LoadDir(dir string) (*Manifest, error) {
	m, err := Load(filepath.Join(dir, ManifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			def := &Manifest{}
			def.Limits = DefaultLimits()
			return def, nil
		}
		return nil, err
	}
	return m, nil
}

func (l Limits) orDefaults() Limits {
	def := DefaultLimits()
	if l.MaxRealizationDepth <= 0 {
		l.MaxRealizationDepth = def.MaxRealizationDepth
	}
	if l.MaxTypecheckIterations <= 0 {
		l.MaxTypecheckIterations = def.MaxTypecheckIterations
	}
	if l.MaxDefaultCallDepth <= 0 {
		l.MaxDefaultCallDepth = def.MaxDefaultCallDepth
	}
	if l.MaxDiagnostics <= 0 {
		l.MaxDiagnostics = def.MaxDiagnostics
	}
	return l
}
