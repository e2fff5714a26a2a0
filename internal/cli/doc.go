// Package cli defines the Cobra command tree for the rustpy CLI. Each file
// registers one top-level command (new, hook, verify, log, etc.) with the
// root command. Commands only parse flags and format output; the work is done
// by the answers, audit, scaffold, render and harness packages.
package cli
