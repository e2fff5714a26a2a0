//go:build integration

package integration_test

import (
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/rustpy-labs/rustpy/internal/harness"
	"github.com/rustpy-labs/rustpy/internal/render"
	"github.com/rustpy-labs/rustpy/internal/scaffold"
)

// engine pairs a renderer with the template source it renders.
type engine struct {
	r        render.Renderer
	template string
}

// renderers returns the engines available on this machine. The builtin
// engine always is; copier runs when it is installed and RUSTPY_TEMPLATE
// names a template source.
func renderers(t *testing.T) map[string]engine {
	t.Helper()

	started := time.Now()
	out := map[string]engine{
		"builtin": {r: &scaffold.Builtin{Now: func() time.Time { return started }}},
	}

	template := os.Getenv("RUSTPY_TEMPLATE")
	if _, err := exec.LookPath("copier"); err == nil && template != "" {
		out["copier"] = engine{r: &render.Copier{}, template: template}
	}
	return out
}

// skipIfMissing turns a missing-tools error into a test skip.
func skipIfMissing(t *testing.T, err error) {
	t.Helper()
	var skip *harness.SkipError
	if errors.As(err, &skip) {
		t.Skip(skip.Error())
	}
}
