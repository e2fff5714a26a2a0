package answers

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// FileName is the answer file copier persists in the generated project root.
const FileName = "copier-answers.yml"

// Set maps a template parameter name to its resolved value.
type Set map[string]any

// ErrUnavailable is returned by a Parser whose backing capability is missing.
// The Loader treats it as "try the next parser" rather than a failure.
var ErrUnavailable = errors.New("parser unavailable")

// Parser decodes the raw bytes of an answer file.
type Parser interface {
	Name() string
	Parse(data []byte) (Set, error)
}

// Loader reads answer files through an ordered chain of parsers.
type Loader struct {
	Parsers []Parser
}

// NewLoader returns a Loader whose chain prefers YAML and falls back to the
// line parser.
func NewLoader() *Loader {
	return &Loader{Parsers: []Parser{YAMLParser{}, LineParser{}}}
}

// Load reads the answer file at path. A missing file yields an empty set.
func Load(path string) (Set, error) {
	return NewLoader().Load(path)
}

// Load reads the answer file at path using the first available parser.
func (l *Loader) Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Set{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading answers %s: %w", path, err)
	}
	return l.Parse(data)
}

// Parse decodes data with the first parser that does not report ErrUnavailable.
func (l *Loader) Parse(data []byte) (Set, error) {
	parsers := l.Parsers
	if len(parsers) == 0 {
		parsers = []Parser{LineParser{}}
	}
	for _, p := range parsers {
		set, err := p.Parse(data)
		if errors.Is(err, ErrUnavailable) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("parsing answers with %s parser: %w", p.Name(), err)
		}
		return set, nil
	}
	return LineParser{}.Parse(data)
}

// YAMLParser decodes a YAML mapping document.
type YAMLParser struct{}

// Name implements Parser.
func (YAMLParser) Name() string { return "yaml" }

// Parse implements Parser.
func (YAMLParser) Parse(data []byte) (Set, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return Set{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("answer document is a %T, want a mapping", raw)
	}
	return Set(m), nil
}

// LineParser is a lossy fallback for flat "key: value" documents. It keeps
// every value as a string and ignores nesting.
type LineParser struct{}

// Name implements Parser.
func (LineParser) Name() string { return "line" }

// Parse implements Parser. It never fails.
func (LineParser) Parse(data []byte) (Set, error) {
	set := Set{}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		set[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `'"`)
	}
	return set, nil
}

// String returns the display form of key. Absent values and falsy ones
// (nil, "", false, numeric zero, empty lists and maps) yield fallback.
func (s Set) String(key, fallback string) string {
	v, ok := s[key]
	if !ok || falsy(v) {
		return fallback
	}
	if b, ok := v.(bool); ok && b {
		return "true"
	}
	return fmt.Sprint(v)
}

func falsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

// Keys returns the keys of s in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new set holding base overlaid with overrides.
func Merge(base, overrides Set) Set {
	out := make(Set, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// ParseOverride parses a "key=value" flag. The value is kept verbatim;
// typing happens against the template's questions.
func ParseOverride(s string) (string, string, error) {
	key, value, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf("invalid answer %q: want key=value", s)
	}
	return key, value, nil
}
