package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/kite/internal/config"
)

// DebugConfig toggles the boundary tooling: tree dumps, disassembly, and
// per-instruction tracing. All off by default.
type DebugConfig struct {
	PrintAst       bool `yaml:"print-ast"`
	PrintBytecode  bool `yaml:"print-bytecode"`
	TraceExecution bool `yaml:"trace-execution"`
}

// Config is the CLI/REPL configuration loaded from kite.yaml.
type Config struct {
	Prompt string      `yaml:"prompt"`
	Color  string      `yaml:"color"` // auto | always | never
	Debug  DebugConfig `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Prompt: config.DefaultPrompt,
		Color:  "auto",
	}
}

// LoadConfig reads kite.yaml from the working directory, falling back to
// a dotted variant in the home directory. A missing file is not an error.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	paths := []string{config.ConfigFileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+config.ConfigFileName))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}

		if cfg.Prompt == "" {
			cfg.Prompt = config.DefaultPrompt
		}
		if cfg.Color == "" {
			cfg.Color = "auto"
		}
		return cfg, nil
	}

	return cfg, nil
}
