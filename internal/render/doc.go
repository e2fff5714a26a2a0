// Package render defines the narrow boundary to the template rendering
// engine. A Renderer expands a template into a destination directory for a
// given answer set; Copier drives the copier CLI, and the scaffold package
// provides an in-process implementation over the embedded template.
package render
