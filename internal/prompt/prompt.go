package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/rustpy-labs/rustpy/internal/answers"
	"github.com/rustpy-labs/rustpy/internal/scaffold"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// InputConfig configures a free-text prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single-choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
}

// Prompter abstracts the prompt implementation so the question flow can be
// tested without a terminal.
type Prompter interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
}

// New returns a Survey prompter when in is a terminal and a Line prompter
// reading in and writing out otherwise.
func New(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return &Survey{In: in, Out: out}
	}
	return NewLine(in, out)
}

// Ask prompts for every question missing from given, in question order, and
// returns given extended with the replies. Defaults are resolved against the
// answers collected so far.
func Ask(ctx context.Context, p Prompter, questions []scaffold.Question, given answers.Set) (answers.Set, error) {
	set := answers.Merge(given, nil)
	for _, q := range questions {
		if _, ok := set[q.Name]; ok {
			continue
		}
		def, err := q.DefaultValue(set)
		if err != nil {
			return nil, err
		}
		v, err := askOne(ctx, p, q, def)
		if err != nil {
			return nil, fmt.Errorf("asking %s: %w", q.Name, err)
		}
		set[q.Name] = v
	}
	return set, nil
}

func askOne(ctx context.Context, p Prompter, q scaffold.Question, def any) (any, error) {
	message := q.Help
	if message == "" {
		message = q.Name
	}

	switch {
	case len(q.Choices) > 0:
		idx := indexOf(q.Choices, fmt.Sprint(def))
		if idx < 0 {
			idx = 0
		}
		chosen, err := p.Select(ctx, SelectConfig{Message: message, Options: q.Choices, DefaultIndex: idx})
		if err != nil {
			return nil, err
		}
		if chosen < 0 || chosen >= len(q.Choices) {
			return nil, fmt.Errorf("selection %d out of range", chosen)
		}
		return q.Coerce(q.Choices[chosen])

	case q.Type == "bool":
		b, _ := def.(bool)
		return p.Confirm(ctx, ConfirmConfig{Message: message, Default: b})

	default:
		defStr := ""
		if def != nil {
			defStr = fmt.Sprint(def)
		}
		raw, err := p.Input(ctx, InputConfig{
			Message: message,
			Default: defStr,
			Validator: func(s string) error {
				_, err := q.Coerce(s)
				return err
			},
		})
		if err != nil {
			return nil, err
		}
		return q.Coerce(raw)
	}
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
