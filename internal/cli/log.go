package cli

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/rustpy-labs/rustpy/internal/audit"
	"github.com/spf13/cobra"
)

var (
	logDir  string
	logLast bool
)

func init() {
	logCmd.Flags().StringVar(&logDir, "dir", ".", "Root of the generated project")
	logCmd.Flags().BoolVar(&logLast, "last", false, "Print the metadata snapshot of the latest generation")
	rootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the generation history of a project",
	Long: `List the generation events recorded in copier_log.txt, oldest first.

With --last, print template-metadata.json and check that it matches the last
log entry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		entries, err := audit.ReadLog(logDir)
		if err != nil {
			return err
		}

		if logLast {
			meta, err := audit.ReadMetadata(logDir)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(meta, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metadata: %w", err)
			}
			fmt.Fprintln(out, string(data))
			if len(entries) > 0 && !reflect.DeepEqual(entries[len(entries)-1], meta) {
				fmt.Fprintf(out, "[WARN] %s differs from the last entry in %s\n", audit.MetadataFile, audit.LogFile)
			}
			return nil
		}

		if len(entries) == 0 {
			fmt.Fprintf(out, "No generation events recorded in %s.\n", audit.LogFile)
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %s v%s (%s)\n", e.Timestamp,
				e.Answers.String("project_name", audit.DefaultProject),
				e.Answers.String("version", audit.DefaultVersion),
				e.Answers.String("package_name", audit.DefaultPackage))
		}
		return nil
	},
}
