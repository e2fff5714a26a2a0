package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/rustpy-labs/rustpy/internal/answers"
	"github.com/rustpy-labs/rustpy/internal/audit"
	"github.com/rustpy-labs/rustpy/internal/render"
	"github.com/rustpy-labs/rustpy/internal/runtime"
)

// SourceName is recorded as _src_path when a request names no template.
const SourceName = "builtin:" + TemplateSet

const answersHeader = "# Changes here will be overwritten by Copier; NEVER EDIT MANUALLY\n"

// optional files are rendered only when their condition holds.
var optional = map[string]func(*Data) bool{
	"Dockerfile": func(d *Data) bool { return d.UseDocker },
}

// Result holds the outcome of a generation.
type Result struct {
	OutputDir string
	Files     []string
	Answers   answers.Set
}

// Builtin renders a template set in-process.
type Builtin struct {
	// FS is the template set; defaults to the embedded pyo3 set.
	FS fs.FS
	// Now is passed to the post-generation hook; defaults to time.Now.
	Now func() time.Time
	// SkipHook disables the post-generation hook.
	SkipHook bool
	// Stdout optionally streams progress lines.
	Stdout io.Writer
}

var _ render.Renderer = (*Builtin)(nil)

// Render implements render.Renderer. The builtin engine never prompts, so
// Defaults has no effect: unanswered questions always take their default.
func (b *Builtin) Render(ctx context.Context, req render.Request) (*runtime.Output, error) {
	var stdout bytes.Buffer
	var w io.Writer = &stdout
	if b.Stdout != nil {
		w = io.MultiWriter(&stdout, b.Stdout)
	}

	result, err := b.Generate(ctx, req)
	if err != nil {
		return &runtime.Output{ExitCode: 1, Stderr: err.Error()}, err
	}
	for _, f := range result.Files {
		fmt.Fprintf(w, "    create  %s\n", f)
	}

	if !b.SkipHook {
		hook := &audit.Hook{Root: result.OutputDir, Now: b.Now, Out: w}
		if _, err := hook.Run(); err != nil {
			return &runtime.Output{ExitCode: 1, Stdout: stdout.String(), Stderr: err.Error()},
				fmt.Errorf("running post-generation hook: %w", err)
		}
	}

	return &runtime.Output{Stdout: stdout.String()}, nil
}

// Generate resolves the request's answers and renders the template set into
// req.Dest, finishing with the answer file. The destination must be empty or
// absent.
func (b *Builtin) Generate(ctx context.Context, req render.Request) (*Result, error) {
	fsys := b.FS
	if fsys == nil {
		fsys = TemplateFS()
	}
	if req.Dest == "" {
		return nil, fmt.Errorf("no destination directory given")
	}

	questions, err := LoadQuestions(fsys)
	if err != nil {
		return nil, err
	}
	set, err := Resolve(questions, req.Answers)
	if err != nil {
		return nil, fmt.Errorf("resolving answers: %w", err)
	}
	if err := Validate(fsys, set); err != nil {
		return nil, err
	}
	data, err := NewData(set)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.Dest, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if existing, err := os.ReadDir(req.Dest); err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", req.Dest)
	}

	result := &Result{OutputDir: req.Dest, Answers: set}

	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || p == QuestionsFile || p == SchemaFile {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		outName, err := renderPath(p, data)
		if err != nil {
			return err
		}
		if outName == "" {
			return nil
		}
		if cond, ok := optional[outName]; ok && !cond(data) {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		if strings.HasSuffix(p, ".tmpl") {
			content, err = execute(p, string(content), data)
			if err != nil {
				return err
			}
		}

		outPath := filepath.Join(req.Dest, filepath.FromSlash(outName))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", outName, err)
		}
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, outName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	source := req.Template
	if source == "" {
		source = SourceName
	}
	if err := WriteAnswers(req.Dest, source, set); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, answers.FileName)
	sort.Strings(result.Files)

	return result, nil
}

// renderPath expands template actions in a template-relative path and drops
// the .tmpl suffix. An empty file name means the file is skipped.
func renderPath(p string, data *Data) (string, error) {
	out := p
	if strings.Contains(p, "{{") {
		b, err := execute(p, p, data)
		if err != nil {
			return "", err
		}
		out = string(b)
	}
	out = strings.TrimSuffix(out, ".tmpl")
	if out == "" || strings.HasSuffix(out, "/") {
		return "", nil
	}
	return out, nil
}

func execute(name, text string, data *Data) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WriteAnswers writes the answer file copier leaves behind: a header comment
// followed by the answers and _src_path, keys sorted.
func WriteAnswers(dir, source string, set answers.Set) error {
	doc := answers.Merge(set, answers.Set{"_src_path": source})
	body, err := yaml.Marshal(map[string]any(doc))
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	content := append([]byte(answersHeader), body...)
	if err := os.WriteFile(filepath.Join(dir, answers.FileName), content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", answers.FileName, err)
	}
	return nil
}
