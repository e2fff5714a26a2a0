package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("RUSTPY_HOME", home)
	t.Cleanup(viper.Reset)
	viper.Reset()
	return home
}

func TestDir_HomeOverride(t *testing.T) {
	home := setup(t)
	if got := Dir(); got != home {
		t.Errorf("Dir() = %q, want %q", got, home)
	}
	if got := FilePath(); got != filepath.Join(home, "config.yaml") {
		t.Errorf("FilePath() = %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setup(t)
	Load()

	if got := CopierBin(); got != DefaultCopierBin {
		t.Errorf("CopierBin() = %q, want %q", got, DefaultCopierBin)
	}
	if got := TemplateSource(); got != "" {
		t.Errorf("TemplateSource() = %q, want empty", got)
	}
	if got := MaxDocWarnings(); got != DefaultMaxDocWarnings {
		t.Errorf("MaxDocWarnings() = %d, want %d", got, DefaultMaxDocWarnings)
	}
}

func TestLoad_Environment(t *testing.T) {
	setup(t)
	t.Setenv("RUSTPY_COPIER_BIN", "/usr/local/bin/copier")
	t.Setenv("RUSTPY_TEMPLATE_SOURCE", "gh:acme/pyo3-template")
	t.Setenv("RUSTPY_VERIFY_MAX_DOC_WARNINGS", "7")
	Load()

	if got := CopierBin(); got != "/usr/local/bin/copier" {
		t.Errorf("CopierBin() = %q", got)
	}
	if got := TemplateSource(); got != "gh:acme/pyo3-template" {
		t.Errorf("TemplateSource() = %q", got)
	}
	if got := MaxDocWarnings(); got != 7 {
		t.Errorf("MaxDocWarnings() = %d", got)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	home := setup(t)
	content := "copier:\n  bin: pipx-copier\nverify:\n  max_doc_warnings: 0\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	Load()

	if got := CopierBin(); got != "pipx-copier" {
		t.Errorf("CopierBin() = %q", got)
	}
	if got := MaxDocWarnings(); got != 0 {
		t.Errorf("MaxDocWarnings() = %d, want 0", got)
	}
}

func TestSet_CreatesFile(t *testing.T) {
	home := filepath.Join(setup(t), "nested")
	t.Setenv("RUSTPY_HOME", home)
	Load()

	if err := Set(KeyTemplateSource, "gh:acme/pyo3-template"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	viper.Reset()
	Load()
	if got := Get(KeyTemplateSource); got != "gh:acme/pyo3-template" {
		t.Errorf("Get(%s) = %q after reload", KeyTemplateSource, got)
	}
}
