package termconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Rows != 24 || cfg.Cols != 80 {
		t.Errorf("Default() size = %dx%d, want 80x24", cfg.Cols, cfg.Rows)
	}
	if cfg.SyncUpdateMS != 150 {
		t.Errorf("Default() SyncUpdateMS = %d, want 150", cfg.SyncUpdateMS)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Rows != want.Rows || cfg.Cols != want.Cols {
		t.Errorf("Load(missing) = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termcore.yaml")
	doc := "rows: 40\ncols: 120\nshell: /bin/zsh\nhints:\n  - name: ticket\n    pattern: 'TICKET-\\d+'\n    action: copy\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rows != 40 || cfg.Cols != 120 {
		t.Errorf("size = %dx%d, want 120x40", cfg.Cols, cfg.Rows)
	}
	if cfg.Shell != "/bin/zsh" {
		t.Errorf("Shell = %q, want /bin/zsh", cfg.Shell)
	}
	if len(cfg.Hints) != 1 || cfg.Hints[0].Name != "ticket" {
		t.Fatalf("Hints = %+v, want one entry named ticket", cfg.Hints)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termcore.yaml")
	doc := "rows: -5\ncols: 0\nscrollback_lines: -1\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rows != 1 || cfg.Cols != 1 || cfg.ScrollbackLines != 0 {
		t.Errorf("clamped config = %+v", cfg)
	}
}
