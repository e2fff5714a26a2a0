package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rustpy-labs/rustpy/internal/answers"
	"github.com/rustpy-labs/rustpy/internal/config"
	"github.com/rustpy-labs/rustpy/internal/prompt"
	"github.com/rustpy-labs/rustpy/internal/render"
	"github.com/rustpy-labs/rustpy/internal/scaffold"
	"github.com/spf13/cobra"
)

// Rendering engines.
const (
	engineCopier  = "copier"
	engineBuiltin = "builtin"
)

var (
	newData     []string
	newDefaults bool
	newEngine   string
	newTemplate string
	newSkipHook bool
)

func init() {
	newCmd.Flags().StringArrayVarP(&newData, "data", "d", nil, "Answer a question: key=value (repeatable)")
	newCmd.Flags().BoolVar(&newDefaults, "defaults", false, "Use the default for every unanswered question")
	newCmd.Flags().StringVar(&newEngine, "engine", "", "Rendering engine: copier or builtin (default: copier when a template source is set)")
	newCmd.Flags().StringVar(&newTemplate, "template", "", "Copier template source (default: config template.source)")
	newCmd.Flags().BoolVar(&newSkipHook, "skip-hook", false, "Do not run the post-generation hook (builtin engine)")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <dest>",
	Short: "Generate a new PyO3 project",
	Long: `Generate a Python package with a Rust extension from the project template.

The builtin engine renders the template embedded in this binary and runs the
post-generation hook itself. The copier engine shells out to
"copier copy --trust" with the configured template source.

Examples:
  rustpy new demo --defaults
  rustpy new demo -d project_name="Demo Rust Python" -d package_name=demo_pkg
  rustpy new demo --engine copier --template gh:acme/pyo3-template`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := args[0]
		out := cmd.OutOrStdout()

		given, err := parseData(newData)
		if err != nil {
			return err
		}

		template := newTemplate
		if template == "" {
			template = config.TemplateSource()
		}
		engine, err := resolveEngine(newEngine, template)
		if err != nil {
			return err
		}

		var r render.Renderer
		switch engine {
		case engineCopier:
			if template == "" {
				return fmt.Errorf("the copier engine needs a template: pass --template or set template.source")
			}
			r = &render.Copier{
				Bin:    config.CopierBin(),
				Stdin:  cmd.InOrStdin(),
				Stdout: out,
				Stderr: cmd.ErrOrStderr(),
			}
		case engineBuiltin:
			if !newDefaults {
				given, err = askMissing(cmd, given)
				if err != nil {
					return err
				}
			}
			r = &scaffold.Builtin{Stdout: out, SkipHook: newSkipHook}
		}

		result, err := r.Render(cmd.Context(), render.Request{
			Template: template,
			Dest:     dest,
			Answers:  given,
			Defaults: newDefaults,
		})
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("%s exited with code %d", engine, result.ExitCode)
		}

		fmt.Fprintf(out, "\nCreated project in %s\n", dest)
		fmt.Fprintf(out, "Next: cd %s && uv sync --group dev && uv run maturin develop\n", dest)
		return nil
	},
}

func parseData(flags []string) (answers.Set, error) {
	set := answers.Set{}
	for _, f := range flags {
		key, value, err := answers.ParseOverride(f)
		if err != nil {
			return nil, err
		}
		set[key] = value
	}
	return set, nil
}

func resolveEngine(engine, template string) (string, error) {
	switch engine {
	case "":
		if template != "" {
			return engineCopier, nil
		}
		return engineBuiltin, nil
	case engineCopier, engineBuiltin:
		return engine, nil
	default:
		return "", fmt.Errorf("unknown engine %q: want %s or %s", engine, engineCopier, engineBuiltin)
	}
}

// askMissing prompts for the embedded template's unanswered questions.
func askMissing(cmd *cobra.Command, given answers.Set) (answers.Set, error) {
	questions, err := scaffold.LoadQuestions(scaffold.TemplateFS())
	if err != nil {
		return nil, err
	}
	return prompt.Ask(cmd.Context(), prompterFor(cmd.InOrStdin(), cmd.OutOrStdout()), questions, given)
}

func prompterFor(in io.Reader, out io.Writer) prompt.Prompter {
	if f, ok := in.(*os.File); ok {
		return prompt.New(f, out)
	}
	return prompt.NewLine(in, out)
}
