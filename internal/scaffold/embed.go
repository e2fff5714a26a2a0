package scaffold

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templateFS embed.FS

// TemplateSet is the name of the embedded template set.
const TemplateSet = "pyo3"

// Files in a template set that are read by the renderer instead of being
// rendered into the project.
const (
	QuestionsFile = "copier.yml"
	SchemaFile    = "answers.schema.json"
)

// TemplateFS returns the embedded template set rooted at its top directory.
func TemplateFS() fs.FS {
	sub, err := fs.Sub(templateFS, "templates/"+TemplateSet)
	if err != nil {
		panic(err)
	}
	return sub
}
