package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustpy-labs/rustpy/internal/render"
)

// Env is what a scenario runs against.
type Env struct {
	Renderer render.Renderer
	// Template is passed to the renderer as the template source.
	Template string
	// MaxDocWarnings bounds Sphinx warnings; zero means the default.
	MaxDocWarnings int
	// WorkDir is the parent of the per-scenario scratch directories; empty
	// means the system temp dir.
	WorkDir string
	// Keep leaves scratch directories in place for inspection.
	Keep bool
}

// Scenario is one named verification.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env Env, dir string) error
}

// Scenarios returns every scenario in execution order.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "render-defaults",
			Description: "render with every default accepted",
			Run: func(ctx context.Context, env Env, dir string) error {
				return RenderDefaults(ctx, env.Renderer, env.Template, filepath.Join(dir, "project"))
			},
		},
		{
			Name:        "determinism",
			Description: "two renders with the same answers are identical",
			Run: func(ctx context.Context, env Env, dir string) error {
				return Determinism(ctx, env.Renderer, env.Template, DeterministicAnswers(),
					filepath.Join(dir, "a"), filepath.Join(dir, "b"))
			},
		},
		{
			Name:        "structure",
			Description: "expected files, tool configuration and audit trail",
			Run: func(ctx context.Context, env Env, dir string) error {
				return Structure(ctx, env.Renderer, env.Template, DemoAnswers(), filepath.Join(dir, "project"))
			},
		},
		{
			Name:        "build",
			Description: "uv sync, maturin develop and uv build produce a wheel and an sdist",
			Run: func(ctx context.Context, env Env, dir string) error {
				return BuildPipeline(ctx, env.Renderer, env.Template, BuildAnswers(), filepath.Join(dir, "project"))
			},
		},
		{
			Name:        "docs",
			Description: "sphinx-build produces index.html with few warnings",
			Run: func(ctx context.Context, env Env, dir string) error {
				return DocsPipeline(ctx, env.Renderer, env.Template, DocsAnswers(), filepath.Join(dir, "project"), env.MaxDocWarnings)
			},
		},
	}
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, bool) {
	for _, s := range Scenarios() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Names returns the scenario names in execution order.
func Names() []string {
	var names []string
	for _, s := range Scenarios() {
		names = append(names, s.Name)
	}
	return names
}

// Status is the outcome class of a scenario run.
type Status string

const (
	StatusOK   Status = "ok"
	StatusSkip Status = "skip"
	StatusFail Status = "fail"
)

// Outcome is the result of one scenario.
type Outcome struct {
	Scenario string
	Status   Status
	Err      error
	Dir      string // scratch directory, set when kept
	Duration time.Duration
}

// Report collects the outcomes of a verification run.
type Report struct {
	Outcomes []Outcome
}

// Failed returns the number of failed scenarios.
func (r *Report) Failed() int {
	return r.count(StatusFail)
}

func (r *Report) count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Print writes one status line per scenario and a summary.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "Verification:")
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusOK:
			fmt.Fprintf(w, "  [ OK ] %s (%s)\n", o.Scenario, o.Duration.Round(time.Millisecond))
		case StatusSkip:
			reason := "skipped"
			var skip *SkipError
			if errors.As(o.Err, &skip) {
				reason = "missing tools: " + strings.Join(skip.Missing, ", ")
			}
			fmt.Fprintf(w, "  [SKIP] %s: %s\n", o.Scenario, reason)
		case StatusFail:
			fmt.Fprintf(w, "  [FAIL] %s\n", o.Scenario)
			for _, line := range strings.Split(strings.TrimRight(o.Err.Error(), "\n"), "\n") {
				fmt.Fprintf(w, "         %s\n", line)
			}
		}
		if o.Dir != "" {
			fmt.Fprintf(w, "         kept %s\n", o.Dir)
		}
	}
	fmt.Fprintf(w, "%d scenario(s): %d ok, %d skipped, %d failed\n",
		len(r.Outcomes), r.count(StatusOK), r.count(StatusSkip), r.count(StatusFail))
}

// Run executes the named scenarios, or all of them when names is empty,
// each in its own scratch directory.
func Run(ctx context.Context, env Env, names []string) (*Report, error) {
	var selected []Scenario
	if len(names) == 0 {
		selected = Scenarios()
	}
	for _, name := range names {
		s, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (available: %s)", name, strings.Join(Names(), ", "))
		}
		selected = append(selected, s)
	}

	report := &Report{}
	for _, s := range selected {
		outcome, err := runOne(ctx, env, s)
		if err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report, nil
}

func runOne(ctx context.Context, env Env, s Scenario) (Outcome, error) {
	dir, err := os.MkdirTemp(env.WorkDir, "rustpy-"+s.Name+"-")
	if err != nil {
		return Outcome{}, fmt.Errorf("creating scratch directory: %w", err)
	}

	start := time.Now()
	runErr := s.Run(ctx, env, dir)
	outcome := Outcome{Scenario: s.Name, Status: StatusOK, Err: runErr, Duration: time.Since(start)}

	var skip *SkipError
	switch {
	case errors.As(runErr, &skip):
		outcome.Status = StatusSkip
	case runErr != nil:
		outcome.Status = StatusFail
	}

	if env.Keep {
		outcome.Dir = dir
	} else if err := os.RemoveAll(dir); err != nil {
		return outcome, fmt.Errorf("removing scratch directory: %w", err)
	}
	return outcome, nil
}
