package render

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rustpy-labs/rustpy/internal/answers"
	"github.com/rustpy-labs/rustpy/internal/runtime"
)

// Request describes one rendering.
type Request struct {
	// Template is the template source (a directory or a copier URL).
	Template string
	// Dest is the directory the project is rendered into.
	Dest string
	// Answers override the template's defaults.
	Answers answers.Set
	// Defaults accepts the default for every question without prompting.
	Defaults bool
}

// Renderer expands a template. A non-zero exit is reported in the Output,
// not as an error.
type Renderer interface {
	Render(ctx context.Context, req Request) (*runtime.Output, error)
}

// Copier renders through the copier CLI.
type Copier struct {
	// Bin is the copier executable; defaults to "copier".
	Bin string
	// Stdin lets copier prompt for unanswered questions. Without it copier
	// needs Defaults or a full answer set.
	Stdin io.Reader
	// Stdout and Stderr optionally stream copier's output.
	Stdout io.Writer
	Stderr io.Writer
}

// Requirer is implemented by renderers that need external tools on PATH.
type Requirer interface {
	Requires() []string
}

// Requires implements Requirer.
func (c *Copier) Requires() []string {
	return []string{c.bin()}
}

func (c *Copier) bin() string {
	if c.Bin == "" {
		return "copier"
	}
	return c.Bin
}

// Render implements Renderer.
func (c *Copier) Render(ctx context.Context, req Request) (*runtime.Output, error) {
	if req.Template == "" {
		return nil, fmt.Errorf("copier needs a template source")
	}

	out, err := runtime.Run(ctx, &runtime.Command{
		Name:   c.bin(),
		Args:   CopierArgs(req),
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	})
	if err != nil {
		return out, fmt.Errorf("running copier: %w", err)
	}
	return out, nil
}

// CopierArgs builds the argument list for "copier copy". Answers are passed
// as -d key=value in sorted key order so identical requests produce
// identical command lines.
func CopierArgs(req Request) []string {
	args := []string{"copy", "--trust"}
	if req.Defaults {
		args = append(args, "--defaults")
	}
	for _, key := range req.Answers.Keys() {
		args = append(args, "-d", key+"="+FormatValue(req.Answers[key]))
	}
	return append(args, req.Template, req.Dest)
}

// FormatValue renders an answer the way copier parses -d values.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
