package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/rustpy-labs/rustpy/internal/answers"
)

// Question is one entry of a copier.yml questions file.
type Question struct {
	Name    string   `yaml:"-"`
	Type    string   `yaml:"type"` // "str", "bool" or "int"; empty means "str"
	Help    string   `yaml:"help"`
	Default any      `yaml:"default"`
	Choices []string `yaml:"choices"`
}

var nonIdent = regexp.MustCompile(`[^a-z0-9]+`)

// funcs are available to path templates, file templates and string defaults.
var funcs = template.FuncMap{
	"quote": Quote,
	"snake": Snake,
	"underline": func(s string) string {
		return strings.Repeat("=", utf8.RuneCountInString(s))
	},
}

// Quote returns s as a double-quoted string literal that is valid both as a
// TOML basic string and as a Python string.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Snake lowercases s and collapses every run of non-alphanumeric characters
// into one underscore: "Demo Rust Python" becomes "demo_rust_python".
func Snake(s string) string {
	return strings.Trim(nonIdent.ReplaceAllString(strings.ToLower(s), "_"), "_")
}

// LoadQuestions reads the questions file of a template set in declaration
// order. Keys starting with "_" are copier settings and are skipped.
func LoadQuestions(fsys fs.FS) ([]Question, error) {
	data, err := fs.ReadFile(fsys, QuestionsFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", QuestionsFile, err)
	}
	return ParseQuestions(data)
}

// ParseQuestions decodes a copier.yml document. The mapping is walked as a
// node tree so question order survives decoding.
func ParseQuestions(data []byte) ([]Question, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing questions: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing questions: document is not a mapping")
	}

	var questions []Question
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		if strings.HasPrefix(name, "_") {
			continue
		}
		var q Question
		if err := root.Content[i+1].Decode(&q); err != nil {
			return nil, fmt.Errorf("question %q: %w", name, err)
		}
		q.Name = name
		switch q.Type {
		case "", "str", "bool", "int":
		default:
			return nil, fmt.Errorf("question %q: unsupported type %q", name, q.Type)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// Coerce converts a raw string (a --data flag or a prompt reply) to the
// question's type.
func (q Question) Coerce(raw string) (any, error) {
	switch q.Type {
	case "bool":
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "y", "yes", "on":
			return true, nil
		case "n", "no", "off":
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", q.Name, raw)
		}
		return b, nil
	case "int":
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", q.Name, raw)
		}
		return n, nil
	default:
		return raw, nil
	}
}

// DefaultValue resolves the question's default against the answers given so
// far. String defaults containing "{{" are executed as templates over the
// set, so package_name can follow project_name.
func (q Question) DefaultValue(set answers.Set) (any, error) {
	s, ok := q.Default.(string)
	if !ok {
		return q.Default, nil
	}
	if strings.Contains(s, "{{") {
		tmpl, err := template.New(q.Name).Funcs(funcs).Option("missingkey=error").Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parsing default for %s: %w", q.Name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, map[string]any(set)); err != nil {
			return nil, fmt.Errorf("evaluating default for %s: %w", q.Name, err)
		}
		s = buf.String()
	}
	if q.Type == "" || q.Type == "str" {
		return s, nil
	}
	return q.Coerce(s)
}

// Resolve fills in every question in order: given answers win, everything
// else takes its default. String answers to non-string questions are
// coerced. Answers that match no question are kept as given.
func Resolve(questions []Question, given answers.Set) (answers.Set, error) {
	set := answers.Set{}
	for _, q := range questions {
		v, ok := given[q.Name]
		if !ok {
			def, err := q.DefaultValue(set)
			if err != nil {
				return nil, err
			}
			set[q.Name] = def
			continue
		}
		if s, isString := v.(string); isString && q.Type != "" && q.Type != "str" {
			coerced, err := q.Coerce(s)
			if err != nil {
				return nil, err
			}
			v = coerced
		}
		set[q.Name] = v
	}
	for k, v := range given {
		if _, ok := set[k]; !ok {
			set[k] = v
		}
	}
	return set, nil
}
