package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rustpy-labs/rustpy/internal/answers"
	"github.com/rustpy-labs/rustpy/internal/audit"
)

// resetFlags restores every flag of cmd and its subcommands to its default,
// since the command tree and its flag variables are package globals.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and stdin, in a fresh config home.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RUSTPY_HOME", t.TempDir())
	t.Setenv("RUSTPY_TEMPLATE_SOURCE", "")
	t.Cleanup(viper.Reset)

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

var demoData = []string{
	"-d", "project_name=Demo Rust Python",
	"-d", "package_name=demo_pkg",
	"-d", "version=0.2.0",
	"-d", "python_version=3.14",
}

func TestNew_Defaults(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "demo")
	out, err := execute(t, "", append([]string{"new", dest, "--defaults"}, demoData...)...)
	if err != nil {
		t.Fatalf("new: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Created project in "+dest) {
		t.Errorf("output missing completion line:\n%s", out)
	}

	for _, name := range []string{"pyproject.toml", "demo_pkg/__init__.py", answers.FileName, audit.LogFile, audit.MetadataFile} {
		if _, err := os.Stat(filepath.Join(dest, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	set, err := answers.Load(filepath.Join(dest, answers.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if set["author"] != "Your Name" {
		t.Errorf("author = %v, want the default", set["author"])
	}
}

func TestNew_PromptsForMissingAnswers(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "prompted")
	args := []string{"new", dest,
		"-d", "package_name=prompted",
		"-d", "version=1.0.0",
		"-d", "author=Example Dev",
		"-d", "license=MIT",
		"-d", "description=Prompted",
		"-d", "python_version=3.12",
		"-d", "rust_toolchain=stable",
		"-d", "uv_lock=true",
		"-d", "ffi_boundary=PyO3",
		"-d", "target_platform=Linux",
	}
	// project_name, then use_docker.
	out, err := execute(t, "Prompted Project\ny\n", args...)
	if err != nil {
		t.Fatalf("new: %v\n%s", err, out)
	}

	set, err := answers.Load(filepath.Join(dest, answers.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if set["project_name"] != "Prompted Project" {
		t.Errorf("project_name = %v", set["project_name"])
	}
	if set["use_docker"] != true {
		t.Errorf("use_docker = %v, want true", set["use_docker"])
	}
	if _, err := os.Stat(filepath.Join(dest, "Dockerfile")); err != nil {
		t.Errorf("expected Dockerfile: %v", err)
	}
}

func TestNew_SkipHook(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "demo")
	out, err := execute(t, "", append([]string{"new", dest, "--defaults", "--skip-hook"}, demoData...)...)
	if err != nil {
		t.Fatalf("new: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dest, audit.LogFile)); !os.IsNotExist(err) {
		t.Errorf("%s should not exist with --skip-hook", audit.LogFile)
	}
}

func TestNew_InvalidAnswer(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "demo")
	_, err := execute(t, "", "new", dest, "--defaults", "-d", "license=WTFPL")
	if err == nil || !strings.Contains(err.Error(), "license") {
		t.Fatalf("new error = %v, want a license issue", err)
	}
}

func TestNew_UnknownEngine(t *testing.T) {
	_, err := execute(t, "", "new", t.TempDir(), "--engine", "cookiecutter")
	if err == nil || !strings.Contains(err.Error(), `unknown engine "cookiecutter"`) {
		t.Fatalf("new error = %v", err)
	}
}

func TestNew_CopierNeedsTemplate(t *testing.T) {
	_, err := execute(t, "", "new", t.TempDir(), "--engine", "copier")
	if err == nil || !strings.Contains(err.Error(), "needs a template") {
		t.Fatalf("new error = %v", err)
	}
}

func TestNew_MalformedData(t *testing.T) {
	_, err := execute(t, "", "new", t.TempDir(), "-d", "no-equals-sign")
	if err == nil || !strings.Contains(err.Error(), "want key=value") {
		t.Fatalf("new error = %v", err)
	}
}

func TestResolveEngine(t *testing.T) {
	tests := []struct {
		name     string
		engine   string
		template string
		want     string
		wantErr  bool
	}{
		{"default without template", "", "", engineBuiltin, false},
		{"default with template", "", "gh:acme/tpl", engineCopier, false},
		{"explicit builtin", "builtin", "gh:acme/tpl", engineBuiltin, false},
		{"explicit copier", "copier", "", engineCopier, false},
		{"unknown", "jinja", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveEngine(tt.engine, tt.template)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveEngine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHookPostGen(t *testing.T) {
	dir := t.TempDir()
	content := "project_name: Hooked\npackage_name: hooked\nversion: 0.3.0\n"
	if err := os.WriteFile(filepath.Join(dir, answers.FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "hook", "post-gen", "--dir", dir)
	if err != nil {
		t.Fatalf("hook post-gen: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[post_gen]") {
		t.Errorf("hook output missing progress lines:\n%s", out)
	}

	lines, err := audit.ReadChangelog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "Scaffolded Hooked v0.3.0 (hooked)") {
		t.Errorf("changelog = %q", lines)
	}
}

func TestHookPostGen_MissingAnswers(t *testing.T) {
	_, err := execute(t, "", "hook", "post-gen", "--dir", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "post-generation hook") {
		t.Fatalf("hook error = %v", err)
	}
}

func TestLog(t *testing.T) {
	dir := t.TempDir()
	for _, e := range []audit.Entry{
		{Timestamp: "2026-01-02T03:04:05Z", Answers: answers.Set{"project_name": "One", "version": "0.1.0", "package_name": "one"}},
		{Timestamp: "2026-02-03T04:05:06Z", Answers: answers.Set{}},
	} {
		if err := audit.AppendLog(dir, e); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "", "log", "--dir", dir)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	want := "2026-01-02T03:04:05Z  One v0.1.0 (one)\n" +
		"2026-02-03T04:05:06Z  project v0.0.0 (package)\n"
	if out != want {
		t.Errorf("log output:\n%s\nwant:\n%s", out, want)
	}
}

func TestLog_Empty(t *testing.T) {
	out, err := execute(t, "", "log", "--dir", t.TempDir())
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(out, "No generation events") {
		t.Errorf("log output = %q", out)
	}
}

func TestLog_LastWarnsOnMismatch(t *testing.T) {
	dir := t.TempDir()
	logged := audit.Entry{Timestamp: "2026-01-02T03:04:05Z", Answers: answers.Set{"project_name": "One"}}
	if err := audit.AppendLog(dir, logged); err != nil {
		t.Fatal(err)
	}
	if err := audit.WriteMetadata(dir, logged); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "log", "--dir", dir, "--last")
	if err != nil {
		t.Fatalf("log --last: %v", err)
	}
	if !strings.Contains(out, `"project_name": "One"`) || strings.Contains(out, "[WARN]") {
		t.Errorf("matching snapshot output:\n%s", out)
	}

	if err := audit.WriteMetadata(dir, audit.Entry{Timestamp: "2026-05-05T05:05:05Z", Answers: answers.Set{}}); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "", "log", "--dir", dir, "--last")
	if err != nil {
		t.Fatalf("log --last: %v", err)
	}
	if !strings.Contains(out, "[WARN]") {
		t.Errorf("expected a mismatch warning:\n%s", out)
	}
}

func TestVersion_Short(t *testing.T) {
	buildVersion = "1.2.3"
	t.Cleanup(func() { buildVersion = "" })

	out, err := execute(t, "", "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1.2.3\n" {
		t.Errorf("version --short = %q", out)
	}
}

func TestConfig_SetGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RUSTPY_HOME", home)
	t.Cleanup(viper.Reset)

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "set", "copier.bin", "/opt/copier/bin/copier"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "/opt/copier/bin/copier") {
		t.Errorf("config file = %q", data)
	}

	// A fresh viper instance must read the value back from disk.
	viper.Reset()
	out.Reset()
	rootCmd.SetArgs([]string{"config", "get", "copier.bin"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config get: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "/opt/copier/bin/copier" {
		t.Errorf("config get = %q", got)
	}
}

func TestVerify_List(t *testing.T) {
	out, err := execute(t, "", "verify", "--list")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"render-defaults", "determinism", "structure", "build", "docs"} {
		if !strings.Contains(out, name) {
			t.Errorf("verify --list missing %s:\n%s", name, out)
		}
	}
}

func TestVerify_BuiltinRenderScenarios(t *testing.T) {
	out, err := execute(t, "", "verify", "--engine", "builtin",
		"--scenario", "render-defaults", "--scenario", "determinism", "--scenario", "structure")
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "3 scenario(s): 3 ok, 0 skipped, 0 failed") {
		t.Errorf("verify output:\n%s", out)
	}
}

func TestVerify_BuildSkipsWithoutTools(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	out, err := execute(t, "", "verify", "--engine", "builtin", "--scenario", "build")
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[SKIP] build: missing tools:") {
		t.Errorf("verify output:\n%s", out)
	}
}

func TestDoctor(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	out, err := execute(t, "", "doctor")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[MISS] copier not found", "[MISS] uv not found", "does not exist; using defaults", "builtin engine is used"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}
