package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Output captures the result of a tool execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the tool exited with status zero.
func (o *Output) Success() bool {
	return o != nil && o.ExitCode == 0
}

// Combined returns stderr followed by stdout, the order failure messages
// print them in.
func (o *Output) Combined() string {
	if o == nil {
		return ""
	}
	return o.Stderr + "\n" + o.Stdout
}

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env replaces the inherited environment when non-nil.
	Env []string
	// Stdin is connected to the process when set, for tools that prompt.
	Stdin io.Reader
	// Stdout and Stderr additionally receive the streams as they are
	// produced. Both are optional.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for messages.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Run executes the command and waits for it. A non-zero exit status is
// returned in Output.ExitCode with a nil error; the error is reserved for
// failures to start the process.
func Run(ctx context.Context, c *Command) (*Output, error) {
	bin, err := exec.LookPath(c.Name)
	if err != nil {
		return nil, fmt.Errorf("%s is not installed: %w", c.Name, err)
	}

	cmd := exec.CommandContext(ctx, bin, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = c.Stdin

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if c.Stdout != nil {
		cmd.Stdout = io.MultiWriter(c.Stdout, &stdoutBuf)
	}
	cmd.Stderr = &stderrBuf
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(c.Stderr, &stderrBuf)
	}

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", c.Name, err)
	}

	return output, nil
}

// Missing returns the sorted names of tools that are not on PATH.
func Missing(tools ...string) []string {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	sort.Strings(missing)
	return missing
}

// Environ returns the current process environment with defaults applied
// for keys that are not already set.
func Environ(defaults map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = SetEnvDefault(env, k, defaults[k])
	}
	return env
}

// SetEnvDefault adds key=value only when key is absent from env.
func SetEnvDefault(env []string, key, value string) []string {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return env
		}
	}
	return append(env, prefix+value)
}
