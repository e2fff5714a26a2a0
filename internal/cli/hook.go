package cli

import (
	"fmt"

	"github.com/rustpy-labs/rustpy/internal/audit"
	"github.com/spf13/cobra"
)

var hookDir string

func init() {
	hookPostGenCmd.Flags().StringVar(&hookDir, "dir", ".", "Root of the generated project")
	hookCmd.AddCommand(hookPostGenCmd)
	rootCmd.AddCommand(hookCmd)
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Template lifecycle hooks",
}

var hookPostGenCmd = &cobra.Command{
	Use:   "post-gen",
	Short: "Record the answers of a freshly generated project",
	Long: `Record the answers a project was generated from.

Reads copier-answers.yml from the project root, appends a timestamped entry to
copier_log.txt, rewrites template-metadata.json with the same entry and appends
a line to CHANGELOG.md. A failure to write the log is reported but does not fail
the hook. Copier runs it as a task after rendering:

  _tasks:
    - rustpy hook post-gen`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := audit.RunHook(hookDir, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("post-generation hook: %w", err)
		}
		return nil
	},
}
