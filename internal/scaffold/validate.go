package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rustpy-labs/rustpy/internal/answers"
)

var printer = message.NewPrinter(language.English)

// MinPython is the oldest interpreter the template supports.
var MinPython = semver.MustParse("3.9")

// Issue is a single answer that failed validation.
type Issue struct {
	Path    string // Instance location, e.g. "/license"
	Message string
	Keyword string // Schema keyword that failed, e.g. "enum"
}

// InvalidAnswersError lists every issue found in an answer set.
type InvalidAnswersError struct {
	Issues []Issue
}

func (e *InvalidAnswersError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msg := issue.Message
		if issue.Path != "" {
			msg = issue.Path + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return "invalid answers: " + strings.Join(msgs, "; ")
}

// compileSchema compiles a template set's answer schema. A set without a
// schema file yields a nil schema.
func compileSchema(fsys fs.FS) (*jsonschema.Schema, error) {
	data, err := fs.ReadFile(fsys, SchemaFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", SchemaFile, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema JSON: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(SchemaFile, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := c.Compile(SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return schema, nil
}

// Validate checks a resolved answer set against the template set's schema
// and the version rules. The error is an *InvalidAnswersError when the
// answers themselves are at fault.
func Validate(fsys fs.FS, set answers.Set) error {
	schema, err := compileSchema(fsys)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	var issues []Issue
	if schema != nil {
		found, err := schemaIssues(schema, set)
		if err != nil {
			return err
		}
		issues = append(issues, found...)
	}
	issues = append(issues, versionIssues(set)...)

	if len(issues) > 0 {
		return &InvalidAnswersError{Issues: issues}
	}
	return nil
}

func schemaIssues(schema *jsonschema.Schema, set answers.Set) ([]Issue, error) {
	jsonData, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("converting answers to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []Issue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}, nil
	}
	return dedupe(issues), nil
}

// collectIssues walks the error tree and keeps the leaves.
func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}

	keyword := ""
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		keyword = kw[len(kw)-1]
	}
	if keyword == "" || keyword == "allOf" || keyword == "$ref" {
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	*issues = append(*issues, Issue{
		Path:    path,
		Message: ve.ErrorKind.LocalizedString(printer),
		Keyword: keyword,
	})
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[string]bool)
	var out []Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			out = append(out, issue)
		}
	}
	return out
}

// versionIssues checks the answers the schema cannot: version must be a
// strict semantic version and python_version a supported MAJOR.MINOR.
func versionIssues(set answers.Set) []Issue {
	var issues []Issue
	if v, ok := set["version"].(string); ok && v != "" {
		if _, err := semver.StrictNewVersion(v); err != nil {
			issues = append(issues, Issue{
				Path:    "/version",
				Message: fmt.Sprintf("%q is not a semantic version (MAJOR.MINOR.PATCH)", v),
				Keyword: "semver",
			})
		}
	}
	if pv, ok := set["python_version"].(string); ok && pv != "" {
		if _, err := PythonRange(pv); err != nil {
			issues = append(issues, Issue{
				Path:    "/python_version",
				Message: err.Error(),
				Keyword: "semver",
			})
		}
	}
	return issues
}

// PythonRange returns the requires-python specifier for a MAJOR.MINOR
// version: "3.14" gives ">=3.14,<3.15".
func PythonRange(pv string) (string, error) {
	if strings.Count(pv, ".") != 1 {
		return "", fmt.Errorf("python version %q must be MAJOR.MINOR", pv)
	}
	v, err := semver.NewVersion(pv)
	if err != nil {
		return "", fmt.Errorf("python version %q: %w", pv, err)
	}
	if v.LessThan(MinPython) {
		return "", fmt.Errorf("python version %s is older than the minimum %s", pv, MinPython.Original())
	}
	next := v.IncMinor()
	return fmt.Sprintf(">=%d.%d,<%d.%d", v.Major(), v.Minor(), next.Major(), next.Minor()), nil
}
