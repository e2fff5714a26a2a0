package scaffold

import (
	"fmt"
	"strings"

	"github.com/rustpy-labs/rustpy/internal/answers"
)

// Data holds the template variables derived from a resolved answer set.
type Data struct {
	ProjectName    string // e.g. "Demo Rust Python"
	PackageName    string // Python import name and crate name, e.g. "demo_pkg"
	Version        string
	Author         string
	License        string
	Description    string
	PythonVersion  string // "3.14"
	PythonTag      string // Derived: "314", for ruff's target-version
	RequiresPython string // Derived: ">=3.14,<3.15"
	RustToolchain  string
	FFIBoundary    string
	TargetPlatform string
	UvLock         bool
	UseDocker      bool
}

// NewData derives template data from a resolved answer set.
func NewData(set answers.Set) (*Data, error) {
	d := &Data{
		ProjectName:    str(set, "project_name"),
		PackageName:    str(set, "package_name"),
		Version:        str(set, "version"),
		Author:         str(set, "author"),
		License:        str(set, "license"),
		Description:    str(set, "description"),
		PythonVersion:  str(set, "python_version"),
		RustToolchain:  str(set, "rust_toolchain"),
		FFIBoundary:    str(set, "ffi_boundary"),
		TargetPlatform: str(set, "target_platform"),
		UvLock:         flag(set, "uv_lock"),
		UseDocker:      flag(set, "use_docker"),
	}

	requires, err := PythonRange(d.PythonVersion)
	if err != nil {
		return nil, err
	}
	d.RequiresPython = requires
	d.PythonTag = strings.ReplaceAll(d.PythonVersion, ".", "")
	return d, nil
}

func str(set answers.Set, key string) string {
	switch v := set[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func flag(set answers.Set, key string) bool {
	switch v := set[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
