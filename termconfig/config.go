// Package termconfig loads the YAML configuration for the cmd/termcore
// driver: terminal geometry, scrollback size, hint patterns, and the
// shell/PTY spawn parameters. It is the "configuration file parsing"
// collaborator the termcore package itself intentionally stays agnostic of.
package termconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything cmd/termcore needs to construct a Terminal and
// spawn a shell, beyond what the library itself decides.
type Config struct {
	Rows            int      `yaml:"rows"`
	Cols            int      `yaml:"cols"`
	ScrollbackLines int      `yaml:"scrollback_lines"`
	SyncUpdateMS    int      `yaml:"sync_update_ms"`
	Shell           string   `yaml:"shell"`
	ShellArgs       []string `yaml:"shell_args"`

	Hints []HintConfig `yaml:"hints"`
}

// HintConfig describes one user-configurable hint pattern, mirroring
// termcore.HintSpec minus the compiled regexp.
type HintConfig struct {
	Name              string `yaml:"name"`
	Pattern           string `yaml:"pattern"`
	Action            string `yaml:"action"` // "copy", "paste", "open", "move_cursor"
	TrimTrailingPunct bool   `yaml:"trim_trailing_punct"`
	RequireScheme     bool   `yaml:"require_scheme"`
}

// Default returns the built-in configuration: an 80x24 viewport, 10,000
// lines of scrollback, a 150ms synchronized-update timeout, and the user's
// login shell with no extra hint patterns (cmd/termcore falls back to
// termcore.DefaultHintSpecs when Hints is empty).
func Default() Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return Config{
		Rows:            24,
		Cols:            80,
		ScrollbackLines: 10_000,
		SyncUpdateMS:    150,
		Shell:           shell,
	}
}

// Load reads a YAML document at path and overlays it onto Default(). A
// missing file is not an error: Default() is returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("termconfig: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("termconfig: parsing %s: %w", path, err)
	}

	if cfg.Rows < 1 {
		cfg.Rows = 1
	}
	if cfg.Cols < 1 {
		cfg.Cols = 1
	}
	if cfg.ScrollbackLines < 0 {
		cfg.ScrollbackLines = 0
	}
	if cfg.SyncUpdateMS < 0 {
		cfg.SyncUpdateMS = 0
	}

	return &cfg, nil
}
