// Package runtime runs the external tools rustpy delegates to: copier for
// rendering, and uv, cargo, maturin and sphinx for verifying a generated
// project. Every invocation blocks until the tool exits, captures stdout and
// stderr while optionally streaming them, and reports a non-zero exit code as
// data rather than as an error.
package runtime
