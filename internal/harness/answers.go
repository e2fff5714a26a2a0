package harness

import "github.com/rustpy-labs/rustpy/internal/answers"

// Answer sets used by the scenarios. Each call returns a fresh copy.

// DemoAnswers drives the structure scenario.
func DemoAnswers() answers.Set {
	return answers.Set{
		"project_name":    "Demo Rust Python",
		"package_name":    "demo_pkg",
		"version":         "0.2.0",
		"author":          "Example Dev",
		"license":         "MIT",
		"description":     "Demo scaffold for Rust-backed Python package",
		"python_version":  "3.14",
		"rust_toolchain":  "stable",
		"uv_lock":         true,
		"ffi_boundary":    "PyO3",
		"target_platform": "Both",
		"use_docker":      false,
	}
}

// DeterministicAnswers drives the determinism scenario.
func DeterministicAnswers() answers.Set {
	return answers.Set{
		"project_name":    "Deterministic Test",
		"package_name":    "det_pkg",
		"version":         "0.5.0",
		"author":          "Bot",
		"license":         "Apache-2.0",
		"description":     "Determinism check",
		"python_version":  "3.11",
		"rust_toolchain":  "stable",
		"uv_lock":         false,
		"ffi_boundary":    "PyO3",
		"target_platform": "Both",
		"use_docker":      false,
	}
}

// BuildAnswers drives the build pipeline scenario.
func BuildAnswers() answers.Set {
	return answers.Set{
		"project_name":    "Build Ready Rust Python",
		"package_name":    "build_pkg",
		"version":         "0.3.0",
		"author":          "Build Bot",
		"license":         "MIT",
		"description":     "Build pipeline validation for PyO3 template",
		"python_version":  "3.14",
		"rust_toolchain":  "stable",
		"uv_lock":         true,
		"ffi_boundary":    "PyO3",
		"target_platform": "Both",
		"use_docker":      false,
	}
}

// DocsAnswers drives the docs pipeline scenario.
func DocsAnswers() answers.Set {
	return answers.Set{
		"project_name":    "Docs Stub Project",
		"package_name":    "docs_pkg",
		"version":         "0.4.0",
		"author":          "Docs Author",
		"license":         "MIT",
		"description":     "Sphinx documentation test scaffold",
		"python_version":  "3.14",
		"rust_toolchain":  "stable",
		"uv_lock":         true,
		"ffi_boundary":    "PyO3",
		"target_platform": "Both",
		"use_docker":      false,
	}
}
