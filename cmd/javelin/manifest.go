package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package   packageConfig   `toml:"package"`
	Normalize normalizeConfig `toml:"normalize"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type normalizeConfig struct {
	// Units is the directory holding the front end's unit files.
	Units string `toml:"units"`
	// Out is the directory normalized units are written to; empty rewrites
	// units in place.
	Out string `toml:"out"`
	// Jobs caps parallel workers; 0 picks the CPU count.
	Jobs int `toml:"jobs"`
	// Verify enables the output-contract check after the pass.
	Verify bool `toml:"verify"`
}

// findJavelinToml walks up from startDir looking for a javelin.toml.
func findJavelinToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "javelin.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findJavelinToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}
