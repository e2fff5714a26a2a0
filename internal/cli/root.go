package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/rustpy-labs/rustpy/internal/branding"
	"github.com/rustpy-labs/rustpy/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds Python packages backed by a PyO3 Rust extension, records
the answers each project was generated from, and verifies that generated projects
render deterministically, build and document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
// An interrupt cancels the command's context, which stops running tools.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
