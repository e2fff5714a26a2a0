package scaffold

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rustpy-labs/rustpy/internal/answers"
)

func TestLoadQuestions(t *testing.T) {
	questions, err := LoadQuestions(TemplateFS())
	if err != nil {
		t.Fatalf("LoadQuestions() error: %v", err)
	}

	var names []string
	for _, q := range questions {
		names = append(names, q.Name)
	}
	want := []string{
		"project_name", "package_name", "version", "author", "license", "description",
		"python_version", "rust_toolchain", "uv_lock", "ffi_boundary", "target_platform", "use_docker",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("question order mismatch (-want +got):\n%s", diff)
	}

	for _, q := range questions {
		if q.Name == "license" {
			if diff := cmp.Diff([]string{"MIT", "Apache-2.0", "BSD-3-Clause"}, q.Choices); diff != "" {
				t.Errorf("license choices mismatch (-want +got):\n%s", diff)
			}
		}
	}
}

func TestParseQuestions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"not a mapping", "- a\n- b\n", "not a mapping"},
		{"unknown type", "x:\n  type: float\n", "unsupported type"},
		{"bad yaml", "x: [\n", "parsing questions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseQuestions() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseQuestions_SkipsSettings(t *testing.T) {
	questions, err := ParseQuestions([]byte("_answers_file: a.yml\nname:\n  type: str\n  default: x\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 1 || questions[0].Name != "name" {
		t.Errorf("questions = %+v", questions)
	}
}

func TestSnake(t *testing.T) {
	tests := map[string]string{
		"Demo Rust Python":     "demo_rust_python",
		"Build-Ready  Project": "build_ready_project",
		"  __x__ ":             "x",
		"already_snake":        "already_snake",
	}
	for in, want := range tests {
		if got := Snake(in); got != want {
			t.Errorf("Snake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`A "fast" lib`, `"A \"fast\" lib"`},
		{`C:\tmp`, `"C:\\tmp"`},
		{"two\nlines\ttab", `"two\nlines\ttab"`},
		{"bell\a", `"bell\u0007"`},
		{"Zoë ✓", `"Zoë ✓"`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestQuestionCoerce(t *testing.T) {
	tests := []struct {
		typ     string
		raw     string
		want    any
		wantErr bool
	}{
		{"bool", "true", true, false},
		{"bool", "False", false, false},
		{"bool", "yes", true, false},
		{"bool", "n", false, false},
		{"bool", "maybe", nil, true},
		{"int", "42", 42, false},
		{"int", "4.2", nil, true},
		{"str", "3.10", "3.10", false},
		{"", "0.2.0", "0.2.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.raw, func(t *testing.T) {
			got, err := Question{Name: "q", Type: tt.typ}.Coerce(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Coerce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Coerce() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	questions, err := LoadQuestions(TemplateFS())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("defaults", func(t *testing.T) {
		set, err := Resolve(questions, nil)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if set["package_name"] != "rust_python_project" {
			t.Errorf("package_name = %v, want derived from project_name", set["package_name"])
		}
		if set["uv_lock"] != true || set["use_docker"] != false {
			t.Errorf("bool defaults = %v, %v", set["uv_lock"], set["use_docker"])
		}
		if set["python_version"] != "3.13" {
			t.Errorf("python_version = %#v", set["python_version"])
		}
	})

	t.Run("given answers win and feed derived defaults", func(t *testing.T) {
		set, err := Resolve(questions, answers.Set{
			"project_name": "Docs Stub Project",
			"uv_lock":      "false",
			"extra":        1,
		})
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if set["package_name"] != "docs_stub_project" {
			t.Errorf("package_name = %v", set["package_name"])
		}
		if set["uv_lock"] != false {
			t.Errorf("uv_lock = %#v, want false", set["uv_lock"])
		}
		if set["extra"] != 1 {
			t.Errorf("unknown answers should be kept, got %v", set["extra"])
		}
	})

	t.Run("bad boolean", func(t *testing.T) {
		_, err := Resolve(questions, answers.Set{"use_docker": "sometimes"})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
