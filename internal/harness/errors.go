package harness

import (
	"fmt"
	"strings"

	"github.com/rustpy-labs/rustpy/internal/runtime"
)

// SkipError reports a scenario that cannot run on this host.
type SkipError struct {
	Scenario string
	Missing  []string // sorted tool names
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipping %s; missing tools: %s", e.Scenario, strings.Join(e.Missing, ", "))
}

// StepError reports a render or tool step that failed. Output carries the
// captured streams when the step ran.
type StepError struct {
	Step   string
	Output *runtime.Output
	Err    error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		if e.Output != nil && e.Output.Stderr != "" && !strings.Contains(e.Err.Error(), e.Output.Stderr) {
			return fmt.Sprintf("%s failed: %v\n%s", e.Step, e.Err, e.Output.Combined())
		}
		return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s failed (%d): %s", e.Step, e.Output.ExitCode, e.Output.Combined())
}

func (e *StepError) Unwrap() error { return e.Err }

// AssertionError reports a check on the rendered project that did not hold.
// Output is the output of the tool run the check inspects: the render, or
// the last pipeline step.
type AssertionError struct {
	Check  string
	Output *runtime.Output
}

func (e *AssertionError) Error() string {
	if e.Output == nil || (e.Output.Stdout == "" && e.Output.Stderr == "") {
		return e.Check
	}
	return fmt.Sprintf("%s\n--- stderr\n%s\n--- stdout\n%s", e.Check, e.Output.Stderr, e.Output.Stdout)
}

func assertf(out *runtime.Output, format string, args ...any) error {
	return &AssertionError{Check: fmt.Sprintf(format, args...), Output: out}
}
