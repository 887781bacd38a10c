package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Prompt != ">>> " {
		t.Errorf("wrong default prompt: %q", cfg.Prompt)
	}
	if cfg.Color != "auto" {
		t.Errorf("wrong default color mode: %q", cfg.Color)
	}
	if cfg.Debug.PrintAst || cfg.Debug.PrintBytecode || cfg.Debug.TraceExecution {
		t.Error("debug toggles must default to off")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("missing file should yield defaults: %+v", cfg)
	}
}

func TestLoadConfigReadsYaml(t *testing.T) {
	dir := t.TempDir()
	content := `
prompt: "kite> "
color: never
debug:
  print-bytecode: true
  trace-execution: true
`
	if err := os.WriteFile(filepath.Join(dir, "kite.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Prompt != "kite> " {
		t.Errorf("wrong prompt: %q", cfg.Prompt)
	}
	if cfg.Color != "never" {
		t.Errorf("wrong color mode: %q", cfg.Color)
	}
	if !cfg.Debug.PrintBytecode || !cfg.Debug.TraceExecution {
		t.Errorf("debug toggles not applied: %+v", cfg.Debug)
	}
	if cfg.Debug.PrintAst {
		t.Error("print-ast should stay off")
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "kite.yaml"), []byte("color: always\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Color != "always" {
		t.Errorf("wrong color mode: %q", cfg.Color)
	}
	if cfg.Prompt != ">>> " {
		t.Errorf("prompt default lost: %q", cfg.Prompt)
	}
}

func TestLoadConfigRejectsBadYaml(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "kite.yaml"), []byte(":\n\t-bad"), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	if _, err := LoadConfig(); err == nil {
		t.Error("expected a parse error")
	}
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"-v", "--trace", "prog.kite"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.verbosity != 1 || !opts.trace || opts.path != "prog.kite" {
		t.Errorf("wrong options: %+v", opts)
	}

	if _, err := parseArgs([]string{"--bogus"}); err == nil {
		t.Error("unknown option should fail")
	}
	if _, err := parseArgs([]string{"a.kite", "b.kite"}); err == nil {
		t.Error("two paths should fail")
	}
}
