package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod encloses the output directory
var ErrNoModule = errors.New("no go.mod found")

// ImportPath returns the import path of dir. It finds the nearest enclosing
// go.mod and appends the path of dir relative to it to the module path.
func ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for root := abs; ; {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))
		if err == nil {
			modulePath := modfile.ModulePath(data)
			if modulePath == "" {
				return "", fmt.Errorf("%s: go.mod declares no module path", root)
			}
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", fmt.Errorf("failed to relate %s to %s: %w", abs, root, err)
			}
			return path.Join(modulePath, filepath.ToSlash(rel)), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read go.mod: %w", err)
		}

		parent := filepath.Dir(root)
		if parent == root {
			return "", fmt.Errorf("%w above %s", ErrNoModule, abs)
		}
		root = parent
	}
}

// OutputImportPath returns the configured output module, or derives it from
// go.mod when none is configured
func (c *Config) OutputImportPath(outDir string) (string, error) {
	if c.Output.Module != "" {
		return c.Output.Module, nil
	}
	return ImportPath(outDir)
}
