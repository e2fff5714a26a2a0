package render

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rustpy-labs/rustpy/internal/answers"
)

func TestCopierArgs(t *testing.T) {
	req := Request{
		Template: "/src/template",
		Dest:     "/tmp/out",
		Answers: answers.Set{
			"version":      "0.2.0",
			"project_name": "Demo Rust Python",
			"use_docker":   false,
			"uv_lock":      true,
		},
	}

	want := []string{
		"copy", "--trust",
		"-d", "project_name=Demo Rust Python",
		"-d", "use_docker=false",
		"-d", "uv_lock=true",
		"-d", "version=0.2.0",
		"/src/template", "/tmp/out",
	}
	if diff := cmp.Diff(want, CopierArgs(req)); diff != "" {
		t.Errorf("CopierArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestCopierArgs_Defaults(t *testing.T) {
	got := CopierArgs(Request{Template: "tpl", Dest: "out", Defaults: true})
	want := []string{"copy", "--trust", "--defaults", "tpl", "out"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CopierArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"3.14", "3.14"},
		{true, "true"},
		{false, "false"},
		{7, "7"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCopier_RequiresTemplate(t *testing.T) {
	_, err := (&Copier{}).Render(context.Background(), Request{Dest: t.TempDir()})
	if err == nil {
		t.Fatal("expected error without template source")
	}
}

// fakeCopier writes a shell script that records its arguments and exits
// with the given status.
func fakeCopier(t *testing.T, status int) (bin, argsFile string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > " + argsFile + "\necho rendering\necho boom >&2\nexit " + strconv.Itoa(status) + "\n"
	bin = filepath.Join(dir, "copier")
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return bin, argsFile
}

func TestCopier_Render(t *testing.T) {
	bin, argsFile := fakeCopier(t, 0)

	c := &Copier{Bin: bin}
	out, err := c.Render(context.Background(), Request{
		Template: "tpl",
		Dest:     "dest",
		Answers:  answers.Set{"package_name": "demo_pkg"},
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !out.Success() {
		t.Fatalf("exit %d: %s", out.ExitCode, out.Combined())
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"copy", "--trust", "-d", "package_name=demo_pkg", "tpl", "dest"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("copier argv mismatch (-want +got):\n%s", diff)
	}
}

func TestCopier_RenderFailureIsData(t *testing.T) {
	bin, _ := fakeCopier(t, 3)

	out, err := (&Copier{Bin: bin}).Render(context.Background(), Request{Template: "tpl", Dest: "dest"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if out.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", out.ExitCode)
	}
	if out.Stderr != "boom\n" || out.Stdout != "rendering\n" {
		t.Errorf("captured output = %q / %q", out.Stdout, out.Stderr)
	}
}

func TestCopier_Requires(t *testing.T) {
	if got := (&Copier{}).Requires(); len(got) != 1 || got[0] != "copier" {
		t.Errorf("Requires() = %v, want [copier]", got)
	}
	if got := (&Copier{Bin: "/opt/copier"}).Requires(); got[0] != "/opt/copier" {
		t.Errorf("Requires() = %v", got)
	}
}
