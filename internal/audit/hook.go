package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rustpy-labs/rustpy/internal/answers"
)

const logPrefix = "[post_gen]"

// Hook records one generation event in a freshly rendered project.
type Hook struct {
	// Root is the generated project's root directory.
	Root string
	// Loader reads the answer file; defaults to answers.NewLoader().
	Loader *answers.Loader
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
	// Out receives the human-readable progress lines; defaults to os.Stdout.
	Out io.Writer
}

// Result describes what a hook run wrote.
type Result struct {
	Entry          Entry
	ChangelogEntry string
	// LogErr is set when appending to the audit log failed. The failure is
	// reported but does not stop the run.
	LogErr error
}

// Run loads the answers, appends the log entry, overwrites the metadata
// snapshot and appends the changelog line. Running it twice records two
// events.
func (h *Hook) Run() (*Result, error) {
	loader := h.Loader
	if loader == nil {
		loader = answers.NewLoader()
	}
	now := h.Now
	if now == nil {
		now = time.Now
	}
	out := h.Out
	if out == nil {
		out = os.Stdout
	}

	set, err := loader.Load(filepath.Join(h.Root, answers.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}

	entry := NewEntry(now(), set)
	result := &Result{Entry: entry}

	if err := AppendLog(h.Root, entry); err != nil {
		result.LogErr = err
		fmt.Fprintf(out, "%s failed to write log: %v\n", logPrefix, err)
	} else {
		fmt.Fprintf(out, "%s logged copier answers to %s\n", logPrefix, LogFile)
	}

	if err := WriteMetadata(h.Root, entry); err != nil {
		return result, err
	}

	line, err := AppendChangelog(h.Root, set, entry.Timestamp)
	if err != nil {
		return result, err
	}
	result.ChangelogEntry = line
	fmt.Fprintf(out, "%s appended changelog entry: %s\n", logPrefix, line)

	return result, nil
}

// RunHook runs the hook in root with default collaborators writing to out.
func RunHook(root string, out io.Writer) (*Result, error) {
	h := &Hook{Root: root, Out: out}
	return h.Run()
}
