package cli

import (
	"fmt"
	"time"

	"github.com/rustpy-labs/rustpy/internal/config"
	"github.com/rustpy-labs/rustpy/internal/harness"
	"github.com/rustpy-labs/rustpy/internal/render"
	"github.com/rustpy-labs/rustpy/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	verifyScenarios []string
	verifyEngine    string
	verifyTemplate  string
	verifyKeep      bool
	verifyWorkDir   string
	verifyList      bool
	verifyMaxWarn   int
)

func init() {
	verifyCmd.Flags().StringSliceVar(&verifyScenarios, "scenario", nil, "Scenario to run (repeatable; default: all)")
	verifyCmd.Flags().StringVar(&verifyEngine, "engine", "", "Rendering engine: copier or builtin (default: copier when a template source is set)")
	verifyCmd.Flags().StringVar(&verifyTemplate, "template", "", "Copier template source (default: config template.source)")
	verifyCmd.Flags().BoolVar(&verifyKeep, "keep", false, "Keep scratch directories for inspection")
	verifyCmd.Flags().StringVar(&verifyWorkDir, "work-dir", "", "Parent directory for scratch directories (default: system temp)")
	verifyCmd.Flags().BoolVar(&verifyList, "list", false, "List scenarios and exit")
	verifyCmd.Flags().IntVar(&verifyMaxWarn, "max-doc-warnings", 0, "Sphinx warnings tolerated by the docs scenario (default: config verify.max_doc_warnings)")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the template end to end",
	Long: `Render the template into scratch directories and check the results.

Scenarios:
  render-defaults  render with every default accepted
  determinism      two renders with the same answers are identical
  structure        expected files, tool configuration and audit trail
  build            uv sync, maturin develop and uv build (needs uv, cargo)
  docs             sphinx-build of the generated docs (needs uv)

Scenarios whose tools are missing are reported as [SKIP].`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if verifyList {
			for _, s := range harness.Scenarios() {
				fmt.Fprintf(out, "%-16s %s\n", s.Name, s.Description)
			}
			return nil
		}

		template := verifyTemplate
		if template == "" {
			template = config.TemplateSource()
		}
		engine, err := resolveEngine(verifyEngine, template)
		if err != nil {
			return err
		}

		var r render.Renderer
		switch engine {
		case engineCopier:
			if template == "" {
				return fmt.Errorf("the copier engine needs a template: pass --template or set template.source")
			}
			r = &render.Copier{Bin: config.CopierBin()}
		case engineBuiltin:
			// One clock for the whole run keeps hook timestamps out of the
			// determinism comparison.
			started := time.Now()
			r = &scaffold.Builtin{Now: func() time.Time { return started }}
		}

		maxWarnings := verifyMaxWarn
		if !cmd.Flags().Changed("max-doc-warnings") {
			maxWarnings = config.MaxDocWarnings()
		}

		report, err := harness.Run(cmd.Context(), harness.Env{
			Renderer:       r,
			Template:       template,
			MaxDocWarnings: maxWarnings,
			WorkDir:        verifyWorkDir,
			Keep:           verifyKeep,
		}, verifyScenarios)
		if err != nil {
			return err
		}

		report.Print(out)
		if n := report.Failed(); n > 0 {
			return fmt.Errorf("%d scenario(s) failed", n)
		}
		return nil
	},
}
