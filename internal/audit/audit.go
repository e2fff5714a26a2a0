package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustpy-labs/rustpy/internal/answers"
)

// Audit artifact file names, relative to the generated project root.
const (
	LogFile       = "copier_log.txt"
	MetadataFile  = "template-metadata.json"
	ChangelogFile = "CHANGELOG.md"
)

// TimestampLayout is ISO-8601 in UTC with second precision and a Z suffix.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Changelog header written when the document does not exist yet.
const changelogHeader = "# Changelog\n\n"

// Placeholders for answer fields missing from the set.
const (
	DefaultProject = "project"
	DefaultVersion = "0.0.0"
	DefaultPackage = "package"
)

// Entry is one generation event. It is appended to the log and written as
// the metadata snapshot.
type Entry struct {
	Timestamp string      `json:"timestamp"`
	Answers   answers.Set `json:"answers"`
}

// Timestamp formats t in UTC truncated to whole seconds.
func Timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// NewEntry builds an entry stamped at now. A nil set is recorded as {}.
func NewEntry(now time.Time, set answers.Set) Entry {
	if set == nil {
		set = answers.Set{}
	}
	return Entry{Timestamp: Timestamp(now), Answers: set}
}

// marshal encodes v without HTML escaping so non-ASCII and <>& survive
// verbatim. The result always ends with a newline.
func marshal(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AppendLog appends entry as a single JSON line to the audit log in root.
func AppendLog(root string, entry Entry) error {
	line, err := marshal(entry, false)
	if err != nil {
		return fmt.Errorf("encoding log entry: %w", err)
	}

	path := filepath.Join(root, LogFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// WriteMetadata overwrites the metadata snapshot in root with entry.
func WriteMetadata(root string, entry Entry) error {
	data, err := marshal(entry, true)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	path := filepath.Join(root, MetadataFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ChangelogLine renders the changelog entry for set at timestamp, without
// the trailing newline.
func ChangelogLine(set answers.Set, timestamp string) string {
	project := set.String("project_name", DefaultProject)
	version := set.String("version", DefaultVersion)
	pkg := set.String("package_name", DefaultPackage)
	return fmt.Sprintf("- %s: Scaffolded %s v%s (%s)", timestamp, project, version, pkg)
}

// AppendChangelog appends one entry line to the changelog in root, creating
// the document with its header first if needed. It returns the line written.
func AppendChangelog(root string, set answers.Set, timestamp string) (string, error) {
	path := filepath.Join(root, ChangelogFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(changelogHeader), 0644); err != nil {
			return "", fmt.Errorf("creating %s: %w", path, err)
		}
	}

	line := ChangelogLine(set, timestamp)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return line, nil
}

// ReadLog returns every entry in the audit log in root, oldest first.
// A missing log yields no entries and no error.
func ReadLog(root string) ([]Entry, error) {
	path := filepath.Join(root, LogFile)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}

// LastLogEntry returns the most recent entry in the audit log. The boolean is
// false when the log is missing or empty.
func LastLogEntry(root string) (Entry, bool, error) {
	entries, err := ReadLog(root)
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[len(entries)-1], true, nil
}

// ReadMetadata reads the metadata snapshot in root.
func ReadMetadata(root string) (Entry, error) {
	path := filepath.Join(root, MetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return e, nil
}

// ReadChangelog returns the entry lines ("- ...") of the changelog in root.
func ReadChangelog(root string) ([]string, error) {
	path := filepath.Join(root, ChangelogFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "- ") {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
