package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rustpy-labs/rustpy/internal/config"
	"github.com/rustpy-labs/rustpy/internal/scaffold"
	"github.com/spf13/cobra"
)

// Tools the generator and the verification scenarios invoke.
var doctorTools = []struct {
	name string
	role string
}{
	{"copier", "copier engine"},
	{"uv", "build and docs scenarios"},
	{"cargo", "build scenario"},
	{"git", "copier templates from git"},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the tools and settings rustpy depends on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		runToolCheck(out)
		runConfigCheck(out)
		return nil
	},
}

func runToolCheck(w io.Writer) {
	fmt.Fprintln(w, "Tools:")
	for _, tool := range doctorTools {
		name := tool.name
		if name == "copier" {
			name = config.CopierBin()
		}
		path, err := exec.LookPath(name)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s not found (needed by the %s)\n", name, tool.role)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
	}
}

func runConfigCheck(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	path := config.FilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [INFO] %s does not exist; using defaults\n", path)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
	}
	if src := config.TemplateSource(); src != "" {
		fmt.Fprintf(w, "  [ OK ] template source: %s\n", src)
	} else {
		fmt.Fprintf(w, "  [INFO] no template source set; the builtin engine is used (%s)\n", scaffold.SourceName)
	}
}
