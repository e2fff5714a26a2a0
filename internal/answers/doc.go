// Package answers loads the answer set copier records next to a generated
// project. YAML is the preferred format; when the structured parser is not
// available the loader degrades to a flat "key: value" reader, which is good
// enough for descriptive logging but performs no typing or nesting.
package answers
