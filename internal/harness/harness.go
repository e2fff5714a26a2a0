package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rustpy-labs/rustpy/internal/answers"
	"github.com/rustpy-labs/rustpy/internal/audit"
	"github.com/rustpy-labs/rustpy/internal/render"
	"github.com/rustpy-labs/rustpy/internal/runtime"
)

// DefaultMaxDocWarnings is the number of Sphinx warning lines tolerated by
// the docs pipeline.
const DefaultMaxDocWarnings = 3

// DefaultExclude lists the file names left out of determinism comparisons.
// The audit log carries a wall-clock timestamp on every render.
var DefaultExclude = []string{audit.LogFile}

// Files every rendering must produce.
var defaultFiles = []string{"pyproject.toml", "Cargo.toml", "README.md"}

// Bootstrap commands the generated README must document.
var bootstrapCommands = []string{"uv sync --group dev", "uv run maturin develop", "uv run ruff check", "uv run pytest"}

// Development tools pyproject.toml must declare.
var devTools = []string{"maturin", "ruff", "pyrefly", "pytest"}

// stepEnv is applied to every downstream tool invocation. Existing values
// win.
var stepEnv = map[string]string{"UV_LINK_MODE": "copy"}

// requireTools returns a *SkipError when any of tools, or any tool the
// renderer needs, is missing from PATH.
func requireTools(scenario string, r render.Renderer, tools ...string) error {
	if req, ok := r.(render.Requirer); ok {
		tools = append(tools, req.Requires()...)
	}
	if missing := runtime.Missing(tools...); len(missing) > 0 {
		return &SkipError{Scenario: scenario, Missing: missing}
	}
	return nil
}

// renderProject runs one rendering and converts failures to *StepError.
// The output of a successful render is returned so later checks can report
// it.
func renderProject(ctx context.Context, r render.Renderer, req render.Request) (*runtime.Output, error) {
	out, err := r.Render(ctx, req)
	if err != nil {
		return out, &StepError{Step: "render", Output: out, Err: err}
	}
	if !out.Success() {
		return out, &StepError{Step: "render", Output: out}
	}
	return out, nil
}

// joinOutputs concatenates the streams of several tool runs.
func joinOutputs(outs ...*runtime.Output) *runtime.Output {
	joined := &runtime.Output{}
	for _, o := range outs {
		if o == nil {
			continue
		}
		joined.Stdout += o.Stdout
		joined.Stderr += o.Stderr
		if o.ExitCode != 0 {
			joined.ExitCode = o.ExitCode
		}
	}
	return joined
}

// runStep runs a tool in dir with the step environment. A non-zero exit is
// a *StepError carrying both streams.
func runStep(ctx context.Context, dir, name string, args ...string) (*runtime.Output, error) {
	c := &runtime.Command{Name: name, Args: args, Dir: dir, Env: runtime.Environ(stepEnv)}
	out, err := runtime.Run(ctx, c)
	if err != nil {
		return out, &StepError{Step: c.String(), Output: out, Err: err}
	}
	if !out.Success() {
		return out, &StepError{Step: c.String(), Output: out}
	}
	return out, nil
}

// RenderDefaults renders with every default accepted and checks that the
// destination is non-empty and holds the key project files.
func RenderDefaults(ctx context.Context, r render.Renderer, template, dest string) error {
	if err := requireTools("render-defaults", r); err != nil {
		return err
	}
	out, err := renderProject(ctx, r, render.Request{Template: template, Dest: dest, Defaults: true})
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		return assertf(out, "reading rendered project: %v", err)
	}
	if len(entries) == 0 {
		return assertf(out, "rendered project %s is empty", dest)
	}
	return expectFiles(out, dest, defaultFiles...)
}

// Determinism renders the same answers twice and requires identical trees.
// Files whose base name is in exclude are ignored; no exclude means
// DefaultExclude.
func Determinism(ctx context.Context, r render.Renderer, template string, set answers.Set, destA, destB string, exclude ...string) error {
	if err := requireTools("determinism", r); err != nil {
		return err
	}
	if len(exclude) == 0 {
		exclude = DefaultExclude
	}
	var outs []*runtime.Output
	for _, dest := range []string{destA, destB} {
		out, err := renderProject(ctx, r, render.Request{Template: template, Dest: dest, Answers: set})
		if err != nil {
			return err
		}
		outs = append(outs, out)
	}

	diffs, err := CompareTrees(destA, destB, exclude)
	if err != nil {
		return err
	}
	if len(diffs) > 0 {
		return assertf(joinOutputs(outs...), "renders differ:\n  %s", strings.Join(diffs, "\n  "))
	}
	return nil
}

// CompareTrees compares two directory trees by relative path and file
// bytes. It returns one line per difference, sorted.
func CompareTrees(a, b string, exclude []string) ([]string, error) {
	filesA, err := snapshot(a, exclude)
	if err != nil {
		return nil, err
	}
	filesB, err := snapshot(b, exclude)
	if err != nil {
		return nil, err
	}

	var diffs []string
	for rel, dataA := range filesA {
		dataB, ok := filesB[rel]
		switch {
		case !ok:
			diffs = append(diffs, "only in first: "+rel)
		case !bytes.Equal(dataA, dataB):
			diffs = append(diffs, "content differs: "+rel)
		}
	}
	for rel := range filesB {
		if _, ok := filesA[rel]; !ok {
			diffs = append(diffs, "only in second: "+rel)
		}
	}
	sort.Strings(diffs)
	return diffs, nil
}

func snapshot(root string, exclude []string) (map[string][]byte, error) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	files := map[string][]byte{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || skip[d.Name()] {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", root, err)
	}
	return files, nil
}

// Structure renders set and checks the generated layout, the tool
// configuration and the audit trail.
func Structure(ctx context.Context, r render.Renderer, template string, set answers.Set, dest string) error {
	if err := requireTools("structure", r); err != nil {
		return err
	}
	out, err := renderProject(ctx, r, render.Request{Template: template, Dest: dest, Answers: set})
	if err != nil {
		return err
	}

	pkg := set.String("package_name", "")
	pyVersion := set.String("python_version", "")
	expected := []string{
		"pyproject.toml", "Cargo.toml", "noxfile.py", "README.md", "ruff.toml",
		"src/lib.rs", audit.ChangelogFile, pkg + "/__init__.py",
	}
	if err := expectFiles(out, dest, expected...); err != nil {
		return err
	}

	pyproject, err := readText(out, dest, "pyproject.toml")
	if err != nil {
		return err
	}
	if err := expectContains(out, "pyproject.toml", pyproject, ">="+pyVersion); err != nil {
		return err
	}
	for _, tool := range devTools {
		if err := expectContains(out, "pyproject.toml", pyproject, tool); err != nil {
			return err
		}
	}
	if err := checkPyproject(out, pyproject); err != nil {
		return err
	}

	cargo, err := readText(out, dest, "Cargo.toml")
	if err != nil {
		return err
	}
	var cargoDoc map[string]any
	if err := toml.Unmarshal([]byte(cargo), &cargoDoc); err != nil {
		return assertf(out, "Cargo.toml is not valid TOML: %v", err)
	}

	ruff, err := readText(out, dest, "ruff.toml")
	if err != nil {
		return err
	}
	if err := expectContains(out, "ruff.toml", ruff, "py"+strings.ReplaceAll(pyVersion, ".", "")); err != nil {
		return err
	}

	readme, err := readText(out, dest, "README.md")
	if err != nil {
		return err
	}
	for _, cmd := range bootstrapCommands {
		if err := expectContains(out, "README.md", readme, cmd); err != nil {
			return err
		}
	}

	changelog, err := readText(out, dest, audit.ChangelogFile)
	if err != nil {
		return err
	}
	if err := expectContains(out, audit.ChangelogFile, changelog, set.String("project_name", "")); err != nil {
		return err
	}
	if err := expectContains(out, audit.ChangelogFile, changelog, set.String("version", "")); err != nil {
		return err
	}

	last, ok, err := audit.LastLogEntry(dest)
	if err != nil {
		return fmt.Errorf("reading audit log: %w", err)
	}
	if ok {
		if got := last.Answers.String("package_name", ""); got != pkg {
			return assertf(out, "last audit log entry has package_name %q, want %q", got, pkg)
		}
	}
	return nil
}

// checkPyproject parses pyproject.toml and requires project.requires-python.
// Failures carry out, the render output.
func checkPyproject(out *runtime.Output, text string) error {
	var doc struct {
		Project struct {
			RequiresPython string `toml:"requires-python"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal([]byte(text), &doc); err != nil {
		return assertf(out, "pyproject.toml is not valid TOML: %v", err)
	}
	if doc.Project.RequiresPython == "" {
		return assertf(out, "pyproject.toml has no project.requires-python")
	}
	return nil
}

// BuildPipeline renders set and drives the project through uv and maturin
// until a wheel and an sdist exist.
func BuildPipeline(ctx context.Context, r render.Renderer, template string, set answers.Set, dest string) error {
	if err := requireTools("build", r, "uv", "cargo"); err != nil {
		return err
	}
	if _, err := renderProject(ctx, r, render.Request{Template: template, Dest: dest, Answers: set}); err != nil {
		return err
	}

	steps := [][]string{
		{"uv", "sync", "--group", "dev"},
		{"uv", "run", "maturin", "develop", "--quiet"},
		{"uv", "build"},
	}
	var last *runtime.Output
	for _, step := range steps {
		out, err := runStep(ctx, dest, step[0], step[1:]...)
		if err != nil {
			return err
		}
		last = out
	}

	for _, pattern := range []string{"*.whl", "*.tar.gz"} {
		matches, err := filepath.Glob(filepath.Join(dest, "dist", pattern))
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return assertf(last, "expected dist/%s artifact", pattern)
		}
	}
	return nil
}

// DocsPipeline renders set, builds the HTML documentation and checks the
// index page and the warning count. maxWarnings <= 0 means
// DefaultMaxDocWarnings.
func DocsPipeline(ctx context.Context, r render.Renderer, template string, set answers.Set, dest string, maxWarnings int) error {
	if err := requireTools("docs", r, "uv"); err != nil {
		return err
	}
	if maxWarnings <= 0 {
		maxWarnings = DefaultMaxDocWarnings
	}
	if _, err := renderProject(ctx, r, render.Request{Template: template, Dest: dest, Answers: set}); err != nil {
		return err
	}

	if _, err := runStep(ctx, dest, "uv", "sync", "--group", "dev"); err != nil {
		return err
	}
	docsOut := filepath.Join("build", "docs")
	build, err := runStep(ctx, dest, "uv", "run", "sphinx-build", "-b", "html", "docs", docsOut)
	if err != nil {
		return err
	}

	index, err := os.ReadFile(filepath.Join(dest, docsOut, "index.html"))
	if errors.Is(err, fs.ErrNotExist) {
		return assertf(build, "index.html not found in docs output")
	}
	if err != nil {
		return err
	}
	if project := set.String("project_name", ""); !strings.Contains(string(index), project) {
		return assertf(build, "project name %q missing from index.html", project)
	}

	if warnings := WarningLines(build.Stdout); len(warnings) > maxWarnings {
		return assertf(build, "too many Sphinx warnings (%d > %d):\n  %s",
			len(warnings), maxWarnings, strings.Join(warnings, "\n  "))
	}
	return nil
}

// WarningLines returns the lines of out containing "warning:" in any case.
func WarningLines(out string) []string {
	var warnings []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(strings.ToLower(line), "warning:") {
			warnings = append(warnings, line)
		}
	}
	return warnings
}

func expectFiles(out *runtime.Output, dir string, names ...string) error {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			return assertf(out, "missing expected file: %s", name)
		}
	}
	return nil
}

func readText(out *runtime.Output, dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		return "", assertf(out, "reading %s: %v", name, err)
	}
	return string(data), nil
}

func expectContains(out *runtime.Output, name, content, substr string) error {
	if !strings.Contains(content, substr) {
		return assertf(out, "%s does not contain %q", name, substr)
	}
	return nil
}
